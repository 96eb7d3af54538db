package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/eventhub/internal/pkg/jwthelper"
)

const testSigningKey = "test-signing-key"

func authRouter(guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", guard, func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"user_id": UserIDFromContext(ctx),
			"role":    RoleFromContext(ctx),
		})
	})

	return router
}

func requestWithToken(router *gin.Engine, token string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(recorder, req)

	return recorder
}

func TestVerifyJWT_ValidToken(t *testing.T) {
	token, err := jwthelper.GenerateToken(testSigningKey, 7, "organizer")
	require.NoError(t, err)

	auth := NewAuthenticator(testSigningKey)
	recorder := requestWithToken(authRouter(auth.VerifyJWT()), token)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"user_id":7`)
	assert.Contains(t, recorder.Body.String(), `"role":"organizer"`)
}

func TestVerifyJWT_MissingToken(t *testing.T) {
	auth := NewAuthenticator(testSigningKey)
	recorder := requestWithToken(authRouter(auth.VerifyJWT()), "")

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestVerifyJWT_WrongKey(t *testing.T) {
	token, err := jwthelper.GenerateToken("another-key", 7, "organizer")
	require.NoError(t, err)

	auth := NewAuthenticator(testSigningKey)
	recorder := requestWithToken(authRouter(auth.VerifyJWT()), token)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestOptionalJWT_AnonymousPassesThrough(t *testing.T) {
	auth := NewAuthenticator(testSigningKey)
	recorder := requestWithToken(authRouter(auth.OptionalJWT()), "")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"user_id":0`)
}

func TestOptionalJWT_ValidTokenSetsIdentity(t *testing.T) {
	token, err := jwthelper.GenerateToken(testSigningKey, 21, "student")
	require.NoError(t, err)

	auth := NewAuthenticator(testSigningKey)
	recorder := requestWithToken(authRouter(auth.OptionalJWT()), token)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"user_id":21`)
}

func TestOptionalJWT_InvalidTokenStaysAnonymous(t *testing.T) {
	auth := NewAuthenticator(testSigningKey)
	recorder := requestWithToken(authRouter(auth.OptionalJWT()), "garbage.token.here")

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"user_id":0`)
}
