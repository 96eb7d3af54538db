package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campushub/eventhub/internal/api/handler/v1/request"
	"github.com/campushub/eventhub/internal/api/handler/v1/response"
	"github.com/campushub/eventhub/internal/config"
	"github.com/campushub/eventhub/internal/domain"
	"github.com/campushub/eventhub/internal/pkg/jwthelper"
	"github.com/campushub/eventhub/internal/service"
)

const (
	sessionCookieName = "eventhub_session"
	sessionCookieTTL  = 5 * 24 * time.Hour
)

type AuthService interface {
	Signup(ctx context.Context, user domain.User) (domain.User, error)
	Login(ctx context.Context, email, password string) (domain.User, error)
	RequestPasswordReset(ctx context.Context, email string)
}

type AuthHandler struct {
	conf *config.APIConfig
	svc  AuthService
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService) *AuthHandler {
	return &AuthHandler{
		conf: conf,
		svc:  svc,
	}
}

// HandleSignup godoc
// @Summary      Signup a new student or organizer
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      request.SignupRequest true "request body"
// @Success      201      {object}  domain.User
// @Failure      400      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /auth/signup [post]
func (h *AuthHandler) HandleSignup(ctx *gin.Context) {
	var req request.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.Signup(ctx.Request.Context(), domain.User{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      req.Role,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserEmailExists) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrUserEmailExists))
			return
		}
		if errors.Is(err, service.ErrInvalidRole) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidRole))
			return
		}

		err = fmt.Errorf("v1.HandleSignup -> h.svc.Signup -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, user)
}

// HandleLogin godoc
// @Summary      Login with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      request.LoginRequest true "request body"
// @Success      200      {object}  response.LoginResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	var req request.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		// One response for both unknown email and wrong password.
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrWrongPassword) {
			response.RenderErr(ctx, response.ErrUnauthorized("invalid credentials"))
			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	token, err := jwthelper.GenerateToken(h.conf.JWTSigningKey, user.ID, user.Role)
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> jwthelper.GenerateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token: token,
		User:  user,
	})
}

// HandleSessionLogin godoc
// @Summary      Exchange an ID token for an httpOnly session cookie
// @Description  The cookie-session bridge: verifies the short-lived token
// @Description  and answers with a 5-day httpOnly session cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      request.SessionLoginRequest true "request body"
// @Success      200      {object}  response.SessionResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Router       /auth/session [post]
func (h *AuthHandler) HandleSessionLogin(ctx *gin.Context) {
	var req request.SessionLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	claims, err := jwthelper.ParseToken(h.conf.JWTSigningKey, req.IDToken)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized("invalid id token"))
		return
	}

	cookie, err := jwthelper.GenerateSessionToken(h.conf.SessionCookieKey, claims.UserID, claims.Role, sessionCookieTTL)
	if err != nil {
		err = fmt.Errorf("v1.HandleSessionLogin -> jwthelper.GenerateSessionToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	secure := h.conf.Environment != "development"
	ctx.SetCookie(sessionCookieName, cookie, int(sessionCookieTTL.Seconds()), "/", "", secure, true)
	ctx.JSON(http.StatusOK, response.SessionResponse{Status: "success"})
}

// HandleSessionProtected godoc
// @Summary      Probe the session cookie
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.SessionResponse
// @Failure      401  {object}  response.Err
// @Router       /auth/session/protected [get]
func (h *AuthHandler) HandleSessionProtected(ctx *gin.Context) {
	cookie, err := ctx.Cookie(sessionCookieName)
	if err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized("missing session cookie"))
		return
	}

	if _, err = jwthelper.ParseToken(h.conf.SessionCookieKey, cookie); err != nil {
		response.RenderErr(ctx, response.ErrUnauthorized("invalid session cookie"))
		return
	}

	ctx.JSON(http.StatusOK, response.SessionResponse{Status: "success"})
}

// HandlePasswordReset godoc
// @Summary      Request a password reset email
// @Description  Always answers 202 regardless of whether the account exists.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      request.PasswordResetRequest true "request body"
// @Success      202      {object}  response.SessionResponse
// @Failure      400      {object}  response.Err
// @Router       /auth/password-reset [post]
func (h *AuthHandler) HandlePasswordReset(ctx *gin.Context) {
	var req request.PasswordResetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	h.svc.RequestPasswordReset(ctx.Request.Context(), req.Email)

	ctx.JSON(http.StatusAccepted, response.SessionResponse{Status: "accepted"})
}
