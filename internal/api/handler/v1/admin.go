package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campushub/eventhub/internal/api/handler/v1/response"
	"github.com/campushub/eventhub/internal/domain"
	"github.com/campushub/eventhub/internal/service"
)

type AdminService interface {
	ListPendingOrganizers(ctx context.Context) ([]domain.User, error)
	ApproveOrganizer(ctx context.Context, userID uint) (domain.User, error)
	RejectOrganizer(ctx context.Context, userID uint) (domain.User, error)
	ListPendingEvents(ctx context.Context) ([]domain.Event, error)
	ApproveEvent(ctx context.Context, eventID uint) (domain.Event, error)
	RejectEvent(ctx context.Context, eventID uint) (domain.Event, error)
	GetDashboard(ctx context.Context, filter domain.DashboardFilter) (domain.DashboardStats, error)
}

// AdminHandler serves the verification dashboard. Every route is mounted
// behind RequireRole(admin); the checks live at the API boundary, not in
// any client.
type AdminHandler struct {
	svc AdminService
}

func NewAdminHandler(svc AdminService) *AdminHandler {
	return &AdminHandler{
		svc: svc,
	}
}

// HandleListPendingOrganizers godoc
// @Summary      List organizers awaiting verification
// @Tags         admin
// @Produce      json
// @Success      200  {array}   domain.User
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/organizers/pending [get]
// @Security BearerAuth
func (h *AdminHandler) HandleListPendingOrganizers(ctx *gin.Context) {
	organizers, err := h.svc.ListPendingOrganizers(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListPendingOrganizers -> h.svc.ListPendingOrganizers -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, organizers)
}

// HandleApproveOrganizer godoc
// @Summary      Approve a pending organizer
// @Tags         admin
// @Produce      json
// @Param        userID  path      integer true "user ID"
// @Success      200     {object}  domain.User
// @Failure      400     {object}  response.Err
// @Failure      403     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /admin/organizers/{userID}/approve [post]
// @Security BearerAuth
func (h *AdminHandler) HandleApproveOrganizer(ctx *gin.Context) {
	h.decideOrganizer(ctx, h.svc.ApproveOrganizer)
}

// HandleRejectOrganizer godoc
// @Summary      Reject a pending organizer
// @Tags         admin
// @Produce      json
// @Param        userID  path      integer true "user ID"
// @Success      200     {object}  domain.User
// @Failure      400     {object}  response.Err
// @Failure      403     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /admin/organizers/{userID}/reject [post]
// @Security BearerAuth
func (h *AdminHandler) HandleRejectOrganizer(ctx *gin.Context) {
	h.decideOrganizer(ctx, h.svc.RejectOrganizer)
}

func (h *AdminHandler) decideOrganizer(ctx *gin.Context, decide func(context.Context, uint) (domain.User, error)) {
	userID, err := strconv.ParseUint(ctx.Param("userID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("user ID must be an integer")))
		return
	}

	user, err := decide(ctx.Request.Context(), uint(userID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))
		case errors.Is(err, service.ErrNotOrganizer):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrNotOrganizer))
		default:
			err = fmt.Errorf("v1.decideOrganizer -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleListPendingEvents godoc
// @Summary      List events awaiting verification
// @Tags         admin
// @Produce      json
// @Success      200  {array}   domain.Event
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/events/pending [get]
// @Security BearerAuth
func (h *AdminHandler) HandleListPendingEvents(ctx *gin.Context) {
	events, err := h.svc.ListPendingEvents(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListPendingEvents -> h.svc.ListPendingEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleApproveEvent godoc
// @Summary      Approve a pending event
// @Tags         admin
// @Produce      json
// @Param        eventID  path      integer true "event ID"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/events/{eventID}/approve [post]
// @Security BearerAuth
func (h *AdminHandler) HandleApproveEvent(ctx *gin.Context) {
	h.decideEvent(ctx, h.svc.ApproveEvent)
}

// HandleRejectEvent godoc
// @Summary      Reject a pending event
// @Tags         admin
// @Produce      json
// @Param        eventID  path      integer true "event ID"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/events/{eventID}/reject [post]
// @Security BearerAuth
func (h *AdminHandler) HandleRejectEvent(ctx *gin.Context) {
	h.decideEvent(ctx, h.svc.RejectEvent)
}

func (h *AdminHandler) decideEvent(ctx *gin.Context, decide func(context.Context, uint) (domain.Event, error)) {
	eventID, ok := parseEventID(ctx)
	if !ok {
		return
	}

	event, err := decide(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.decideEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleDashboard godoc
// @Summary      Aggregated platform statistics
// @Tags         admin
// @Produce      json
// @Param        timeframe  query  string false "upcoming, past, today, week or month"
// @Param        category   query  string false "filter by category"
// @Param        city       query  string false "filter by city"
// @Success      200  {object}  domain.DashboardStats
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/dashboard [get]
// @Security BearerAuth
func (h *AdminHandler) HandleDashboard(ctx *gin.Context) {
	filter := domain.DashboardFilter{
		Timeframe: ctx.Query("timeframe"),
		Category:  ctx.Query("category"),
		City:      ctx.Query("city"),
	}

	stats, err := h.svc.GetDashboard(ctx.Request.Context(), filter)
	if err != nil {
		err = fmt.Errorf("v1.HandleDashboard -> h.svc.GetDashboard -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, stats)
}
