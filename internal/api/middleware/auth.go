package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campushub/eventhub/internal/api/handler/v1/response"
	"github.com/campushub/eventhub/internal/pkg/jwthelper"
)

const (
	ContextKeyUserID = "userID"
	ContextKeyRole   = "userRole"
)

type Authenticator struct {
	signingKey string
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: signingKey,
	}
}

// VerifyJWT validates the bearer token and stores the caller's ID and
// role in the gin context.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			response.RenderErr(ctx, response.ErrUnauthorized("missing bearer token"))
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, token)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized("invalid or expired token"))
			return
		}

		ctx.Set(ContextKeyUserID, claims.UserID)
		ctx.Set(ContextKeyRole, claims.Role)
		ctx.Next()
	}
}

// OptionalJWT records the caller's identity when a valid token is
// present but lets anonymous requests through. Public listings use it to
// widen results for organizers and admins.
func (a *Authenticator) OptionalJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if found && token != "" {
			if claims, err := jwthelper.ParseToken(a.signingKey, token); err == nil {
				ctx.Set(ContextKeyUserID, claims.UserID)
				ctx.Set(ContextKeyRole, claims.Role)
			}
		}

		ctx.Next()
	}
}

// UserIDFromContext returns the authenticated caller's ID, or 0 when the
// request carried no valid token.
func UserIDFromContext(ctx *gin.Context) uint {
	id, ok := ctx.Get(ContextKeyUserID)
	if !ok {
		return 0
	}

	userID, ok := id.(uint)
	if !ok {
		return 0
	}

	return userID
}

// RoleFromContext returns the authenticated caller's role claim.
func RoleFromContext(ctx *gin.Context) string {
	role, ok := ctx.Get(ContextKeyRole)
	if !ok {
		return ""
	}

	roleStr, ok := role.(string)
	if !ok {
		return ""
	}

	return roleStr
}
