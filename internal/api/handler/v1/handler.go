package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/eventhub/internal/api/handler/v1/response"
	"github.com/campushub/eventhub/internal/api/middleware"
	"github.com/campushub/eventhub/internal/domain"
	"github.com/campushub/eventhub/internal/service"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

// HandleHealthcheck godoc
// @Summary      Healthcheck
// @Tags         ops
// @Produce      json
// @Success      200 {object} map[string]string
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// getUserFromContext resolves the authenticated caller's full profile
// from the user ID the JWT middleware stored.
func getUserFromContext(ctx *gin.Context, svc UserService) (domain.User, *response.Err) {
	userID := middleware.UserIDFromContext(ctx)
	if userID == 0 {
		return domain.User{}, response.ErrUnauthorized("not authenticated")
	}

	user, err := svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, response.ErrUnauthorized("unknown user")
		}

		return domain.User{}, response.ErrInternalServerError(err)
	}

	return user, nil
}
