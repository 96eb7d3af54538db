package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campushub/eventhub/internal/api/handler/v1/request"
	"github.com/campushub/eventhub/internal/api/handler/v1/response"
	"github.com/campushub/eventhub/internal/api/middleware"
	"github.com/campushub/eventhub/internal/domain"
	"github.com/campushub/eventhub/internal/monitoring"
	"github.com/campushub/eventhub/internal/service"
	"github.com/campushub/eventhub/internal/storage"
)

type EventService interface {
	CreateEvent(ctx context.Context, event domain.Event, organizer domain.User) (domain.Event, error)
	UpdateEvent(ctx context.Context, eventID, callerID uint, fields domain.Event) (domain.Event, error)
	DeleteEvent(ctx context.Context, eventID, callerID uint) error
	GetEvent(ctx context.Context, eventID uint) (domain.Event, error)
	ListEvents(ctx context.Context, filter service.ListFilter, caller domain.User) ([]domain.Event, error)
	RegisterParticipant(ctx context.Context, eventID uint, user domain.User) (domain.Participant, error)
	SubmitReview(ctx context.Context, eventID uint, user domain.User, rating int, comment string) (domain.Review, error)
	AttachImage(ctx context.Context, eventID, callerID uint, dataURL string) (string, error)
}

type EventHandler struct {
	svc  EventService
	uSvc UserService
}

func NewEventHandler(svc EventService, uSvc UserService) *EventHandler {
	return &EventHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListEvents godoc
// @Summary      List events
// @Description  Verified events only, unless an organizer lists their own
// @Description  or the caller is an admin.
// @Tags         events
// @Produce      json
// @Param        organizer_id  query  integer false "filter by organizer"
// @Param        category      query  string  false "filter by category"
// @Param        city          query  string  false "filter by city"
// @Param        q             query  string  false "search over title, organizer and category"
// @Param        timeframe     query  string  false "upcoming, past, today, week or month"
// @Param        sort          query  string  false "date to order by start time"
// @Success      200  {array}   domain.Event
// @Failure      400  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events [get]
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	var filter service.ListFilter

	if raw := ctx.Query("organizer_id"); raw != "" {
		organizerID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(errors.New("organizer_id must be an integer")))
			return
		}
		filter.OrganizerID = uint(organizerID)
	}
	filter.Category = ctx.Query("category")
	filter.City = ctx.Query("city")
	filter.Search = ctx.Query("q")
	filter.Timeframe = ctx.Query("timeframe")
	filter.SortByDate = ctx.Query("sort") == "date"

	// The listing is public; the caller stays the zero User unless a
	// valid token identifies them.
	var caller domain.User
	if userID := middleware.UserIDFromContext(ctx); userID != 0 {
		if user, err := h.uSvc.GetUser(ctx.Request.Context(), userID); err == nil {
			caller = user
		}
	}

	events, err := h.svc.ListEvents(ctx.Request.Context(), filter, caller)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTimeframe) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidTimeframe))
			return
		}

		err = fmt.Errorf("v1.HandleListEvents -> h.svc.ListEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetEvent godoc
// @Summary      Get an event with participants and reviews
// @Tags         events
// @Produce      json
// @Param        eventID  path      integer true "event ID"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [get]
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	eventID, ok := parseEventID(ctx)
	if !ok {
		return
	}

	event, err := h.svc.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleGetEvent -> h.svc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleCreateEvent godoc
// @Summary      Create a new event
// @Description  Only verified organizers. The event stays pending until an
// @Description  admin approves it.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        input  body      request.SaveEventRequest  true  "event details"
// @Success      201    {object}  domain.Event
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /events [post]
// @Security BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	input, ok := bindSaveEventRequest(ctx)
	if !ok {
		return
	}

	event, err := h.svc.CreateEvent(ctx.Request.Context(), eventFromRequest(input), user)
	if err != nil {
		if isEventValidationErr(err) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		err = fmt.Errorf("v1.HandleCreateEvent -> h.svc.CreateEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, event)
}

// HandleUpdateEvent godoc
// @Summary      Update an event
// @Description  Only the owning organizer. Status and verification fields
// @Description  cannot be changed here.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      integer                   true  "event ID"
// @Param        input    body      request.SaveEventRequest  true  "event details"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [put]
// @Security BearerAuth
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	eventID, ok := parseEventID(ctx)
	if !ok {
		return
	}

	input, ok := bindSaveEventRequest(ctx)
	if !ok {
		return
	}

	callerID := middleware.UserIDFromContext(ctx)
	event, err := h.svc.UpdateEvent(ctx.Request.Context(), eventID, callerID, eventFromRequest(input))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrNotEventOwner):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotEventOwner))
		case isEventValidationErr(err):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleUpdateEvent -> h.svc.UpdateEvent -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleDeleteEvent godoc
// @Summary      Delete an event
// @Tags         events
// @Produce      json
// @Param        eventID  path  integer true "event ID"
// @Success      204
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [delete]
// @Security BearerAuth
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
	eventID, ok := parseEventID(ctx)
	if !ok {
		return
	}

	callerID := middleware.UserIDFromContext(ctx)
	if err := h.svc.DeleteEvent(ctx.Request.Context(), eventID, callerID); err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrNotEventOwner):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotEventOwner))
		default:
			err = fmt.Errorf("v1.HandleDeleteEvent -> h.svc.DeleteEvent -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleRegister godoc
// @Summary      Register the authenticated student for an event
// @Tags         events
// @Produce      json
// @Param        eventID  path      integer true "event ID"
// @Success      201      {object}  domain.Participant
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/register [post]
// @Security BearerAuth
func (h *EventHandler) HandleRegister(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, ok := parseEventID(ctx)
	if !ok {
		return
	}

	participant, err := h.svc.RegisterParticipant(ctx.Request.Context(), eventID, user)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrEventFull):
			response.RenderErr(ctx, response.ErrConflict(service.ErrEventFull))
		case errors.Is(err, service.ErrAlreadyRegistered):
			response.RenderErr(ctx, response.ErrConflict(service.ErrAlreadyRegistered))
		case errors.Is(err, service.ErrEventNotOpen):
			response.RenderErr(ctx, response.ErrUnprocessableEntity(service.ErrEventNotOpen))
		default:
			err = fmt.Errorf("v1.HandleRegister -> h.svc.RegisterParticipant -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	monitoring.CountRegistration()

	ctx.JSON(http.StatusCreated, participant)
}

// HandleSubmitReview godoc
// @Summary      Submit or replace a review for an attended event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      integer                      true  "event ID"
// @Param        input    body      request.SubmitReviewRequest  true  "review"
// @Success      201      {object}  domain.Review
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      422      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/reviews [post]
// @Security BearerAuth
func (h *EventHandler) HandleSubmitReview(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, ok := parseEventID(ctx)
	if !ok {
		return
	}

	var input request.SubmitReviewRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	review, err := h.svc.SubmitReview(ctx.Request.Context(), eventID, user, input.Rating, input.Comment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrNotParticipant):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotParticipant))
		case errors.Is(err, service.ErrEventNotEnded):
			response.RenderErr(ctx, response.ErrUnprocessableEntity(service.ErrEventNotEnded))
		case errors.Is(err, service.ErrInvalidRating), errors.Is(err, service.ErrCommentTooShort):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleSubmitReview -> h.svc.SubmitReview -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, review)
}

// HandleUploadImage godoc
// @Summary      Upload an event image as a data URL
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      integer                     true  "event ID"
// @Param        input    body      request.UploadImageRequest  true  "data URL payload"
// @Success      200      {object}  response.ImageUploadResponse
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/image [post]
// @Security BearerAuth
func (h *EventHandler) HandleUploadImage(ctx *gin.Context) {
	eventID, ok := parseEventID(ctx)
	if !ok {
		return
	}

	var input request.UploadImageRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	callerID := middleware.UserIDFromContext(ctx)
	path, err := h.svc.AttachImage(ctx.Request.Context(), eventID, callerID, input.DataURL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrNotEventOwner):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotEventOwner))
		case errors.Is(err, storage.ErrInvalidDataURL):
			response.RenderErr(ctx, response.ErrBadRequest(storage.ErrInvalidDataURL))
		default:
			err = fmt.Errorf("v1.HandleUploadImage -> h.svc.AttachImage -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.ImageUploadResponse{ImagePath: path})
}

func parseEventID(ctx *gin.Context) (uint, bool) {
	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("event ID must be an integer")))
		return 0, false
	}

	return uint(eventID), true
}

func bindSaveEventRequest(ctx *gin.Context) (request.SaveEventRequest, bool) {
	var input request.SaveEventRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return input, false
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return input, false
	}

	return input, true
}

func eventFromRequest(input request.SaveEventRequest) domain.Event {
	return domain.Event{
		Title:           input.Title,
		Date:            input.Date,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		Venue:           input.Venue,
		City:            input.City,
		Category:        input.Category,
		Description:     input.Description,
		Tags:            input.Tags,
		MaxParticipants: input.MaxParticipants,
	}
}

func isEventValidationErr(err error) bool {
	return errors.Is(err, service.ErrInvalidEventTimes) ||
		errors.Is(err, service.ErrInvalidEventDate) ||
		errors.Is(err, service.ErrInvalidCategory) ||
		errors.Is(err, service.ErrInvalidMaxCapacity) ||
		errors.Is(err, service.ErrInvalidTimeframe)
}
