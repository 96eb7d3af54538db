package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/campushub/eventhub/internal/api/handler/v1/response"
	"github.com/campushub/eventhub/internal/domain"
)

// UserLoader fetches the caller's current profile. Deliberately a fresh
// read per request rather than a token claim, so admin decisions
// (approve/revoke) take effect immediately instead of at token expiry.
type UserLoader interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

// RequireRole rejects callers whose role claim matches none of the given
// roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		role := RoleFromContext(ctx)
		for _, r := range roles {
			if role == r {
				ctx.Next()
				return
			}
		}

		response.RenderErr(ctx, response.ErrPermissionDenied(
			fmt.Errorf("role %q is not allowed to access this resource", role)))
	}
}

// RequireActiveOrganizer gates organizer routes behind the admin
// verification flag.
func RequireActiveOrganizer(loader UserLoader) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := UserIDFromContext(ctx)

		user, err := loader.GetUser(ctx.Request.Context(), userID)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized("unknown user"))
			return
		}

		if user.Role != domain.RoleOrganizer {
			response.RenderErr(ctx, response.ErrPermissionDenied(
				fmt.Errorf("user %v is not an organizer", userID)))
			return
		}
		if !user.IsActive {
			response.RenderErr(ctx, response.ErrPermissionDenied(
				errors.New("organizer account is pending verification")))
			return
		}

		ctx.Next()
	}
}
