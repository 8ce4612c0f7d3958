package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"eventstage/internal/delivery/http/helpers"
	"eventstage/internal/delivery/http/middleware"
	"eventstage/internal/domain"
)

const maxFieldLen = 255

// validURL reports whether raw parses as an absolute http(s) URL.
func validURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// CreateEventRequest is the request body for POST /create-event.
type CreateEventRequest struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	CategoryID  string                `json:"category_id"`
	StartTime   time.Time             `json:"start_time"`
	EndTime     time.Time             `json:"end_time"`
	Status      domain.EventStatus    `json:"status"`
	Type        domain.EventType      `json:"type"`
	Location    domain.OptionalString `json:"location"`
	Link        domain.OptionalString `json:"link"`
	Image       domain.OptionalString `json:"image"`
}

// Validate implements Validator. Returns per-field messages for required and format rules.
func (c CreateEventRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(c.Name) == "" {
		errs["name"] = "name is required"
	} else if len(c.Name) > maxFieldLen {
		errs["name"] = "name must be at most 255 characters"
	}
	if strings.TrimSpace(c.Description) == "" {
		errs["description"] = "description is required"
	}
	if c.CategoryID == "" {
		errs["category_id"] = "category_id is required"
	}
	if c.StartTime.IsZero() {
		errs["start_time"] = "start_time is required"
	}
	if c.EndTime.IsZero() {
		errs["end_time"] = "end_time is required"
	} else if !c.StartTime.IsZero() && c.EndTime.Before(c.StartTime) {
		errs["end_time"] = "end_time must be equal to or after start_time"
	}
	if c.Status == "" {
		errs["status"] = "status is required"
	} else if !domain.ValidEventStatus(c.Status) {
		errs["status"] = "status must be one of scheduled, ongoing, completed, cancelled"
	}
	if c.Type == "" {
		errs["type"] = "type is required"
	} else if !domain.ValidEventType(c.Type) {
		errs["type"] = "type must be Online or OnStage"
	}
	if c.Link.Value != nil && !validURL(*c.Link.Value) {
		errs["link"] = "link must be a valid URL"
	}
	if c.Image.Value != nil && !validURL(*c.Image.Value) {
		errs["image"] = "image must be a valid URL"
	}
	return errs
}

// UpdateEventRequest is the request body for PUT /update-event/{eventID}.
// All fields are optional; omitted fields are unchanged, and an explicit null
// for location, link, or image clears the stored value.
type UpdateEventRequest struct {
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	CategoryID  *string               `json:"category_id"`
	StartTime   *time.Time            `json:"start_time"`
	EndTime     *time.Time            `json:"end_time"`
	Status      *domain.EventStatus   `json:"status"`
	Type        *domain.EventType     `json:"type"`
	Location    domain.OptionalString `json:"location"`
	Link        domain.OptionalString `json:"link"`
	Image       domain.OptionalString `json:"image"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if u.Name != nil {
		if strings.TrimSpace(*u.Name) == "" {
			errs["name"] = "name cannot be empty"
		} else if len(*u.Name) > maxFieldLen {
			errs["name"] = "name must be at most 255 characters"
		}
	}
	if u.CategoryID != nil && *u.CategoryID == "" {
		errs["category_id"] = "category_id cannot be empty"
	}
	if u.Status != nil && !domain.ValidEventStatus(*u.Status) {
		errs["status"] = "status must be one of scheduled, ongoing, completed, cancelled"
	}
	if u.Type != nil && !domain.ValidEventType(*u.Type) {
		errs["type"] = "type must be Online or OnStage"
	}
	if u.Link.Value != nil && !validURL(*u.Link.Value) {
		errs["link"] = "link must be a valid URL"
	}
	if u.Image.Value != nil && !validURL(*u.Image.Value) {
		errs["image"] = "image must be a valid URL"
	}
	return errs
}

// update converts the request into a domain change set.
func (u UpdateEventRequest) update() domain.EventUpdate {
	return domain.EventUpdate{
		Name:        u.Name,
		Description: u.Description,
		CategoryID:  u.CategoryID,
		StartTime:   u.StartTime,
		EndTime:     u.EndTime,
		Status:      u.Status,
		Type:        u.Type,
		Location:    u.Location,
		Link:        u.Link,
		Image:       u.Image,
	}
}

// EventSuccessResponse is the response envelope carrying a single event.
type EventSuccessResponse struct {
	Message string        `json:"message"`
	Event   *domain.Event `json:"event"`
}

// EventListSuccessResponse is the response envelope for GET /events.
type EventListSuccessResponse struct {
	Message string          `json:"message"`
	Events  []*domain.Event `json:"events"`
}

// EventDetailsSuccessResponse is the response envelope for GET /event/{eventID}.
type EventDetailsSuccessResponse struct {
	Message string               `json:"message"`
	Event   *domain.EventDetails `json:"event"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// List godoc
// @Summary List all events
// @Description Returns all events ordered by start time. Public endpoint.
// @Tags events
// @Produce json
// @Success 200 {object} controllers.EventListSuccessResponse "events is an array of events"
// @Failure 500 {object} helpers.MessageResponse
// @Router /events [get]
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.List(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONMessage(w, http.StatusInternalServerError, "failed to fetch events")
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	helpers.WriteJSONResource(w, http.StatusOK, "Events Fetched Successfully", "events", events)
}

// Get godoc
// @Summary Get an event by ID
// @Description Returns the event with its organizer and category expanded. Public endpoint.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventDetailsSuccessResponse "event contains the event with organizer and category"
// @Failure 404 {object} helpers.MessageResponse
// @Failure 500 {object} helpers.MessageResponse
// @Router /event/{eventID} [get]
func (c *EventController) Get(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONMessage(w, http.StatusBadRequest, "missing eventID")
		return
	}
	details, err := c.Service.Get(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONMessage(w, http.StatusNotFound, "Event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONMessage(w, http.StatusInternalServerError, "failed to fetch event")
		return
	}
	helpers.WriteJSONResource(w, http.StatusOK, "Event Fetched Successfully", "event", details)
}

// Create godoc
// @Summary Create a new event
// @Description Creates an event owned by the authenticated organizer. Location is required for OnStage events, link for Online events.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "event contains the created event"
// @Failure 400 {object} helpers.MessageResponse
// @Failure 401 {object} helpers.MessageResponse "Unauthenticated"
// @Failure 403 {object} helpers.MessageResponse "Unauthorized (not an organizer)"
// @Failure 422 {object} helpers.ValidationErrorResponse
// @Failure 500 {object} helpers.MessageResponse
// @Router /create-event [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONMessage(w, http.StatusUnauthorized, helpers.MsgUnauthenticated)
		return
	}
	now := time.Now()
	event := &domain.Event{
		Name:        req.Name,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      req.Status,
		Type:        req.Type,
		Location:    req.Location.Value,
		Link:        req.Link.Value,
		Image:       req.Image.Value,
		CategoryID:  req.CategoryID,
		OrganizerID: actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	created, err := c.Service.Create(r.Context(), actor, event)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONResource(w, http.StatusCreated, "Event Created Successfully", "event", created)
}

// Update godoc
// @Summary Update an event
// @Description Partially updates an event. Only the owning organizer can update. Omitted fields are unchanged; an explicit null for location, link, or image clears it. Replacing or clearing the image triggers best-effort deletion of the previous asset.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param event body UpdateEventRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.EventSuccessResponse "event contains the updated event"
// @Failure 400 {object} helpers.MessageResponse
// @Failure 401 {object} helpers.MessageResponse "Unauthenticated"
// @Failure 403 {object} helpers.MessageResponse "Unauthorized (not the owner)"
// @Failure 404 {object} helpers.MessageResponse
// @Failure 422 {object} helpers.ValidationErrorResponse
// @Failure 500 {object} helpers.MessageResponse
// @Router /update-event/{eventID} [put]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONMessage(w, http.StatusBadRequest, "missing eventID")
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONMessage(w, http.StatusUnauthorized, helpers.MsgUnauthenticated)
		return
	}
	event, err := c.Service.Update(r.Context(), actor, eventID, req.update())
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONResource(w, http.StatusOK, "Event Updated Successfully", "event", event)
}

// Delete godoc
// @Summary Delete an event
// @Description Deletes an event and best-effort removes its image from the media host. Only the owning organizer can delete.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.MessageResponse
// @Failure 401 {object} helpers.MessageResponse "Unauthenticated"
// @Failure 403 {object} helpers.MessageResponse "Unauthorized (not the owner)"
// @Failure 404 {object} helpers.MessageResponse
// @Failure 500 {object} helpers.MessageResponse
// @Router /delete-event/{eventID} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONMessage(w, http.StatusBadRequest, "missing eventID")
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONMessage(w, http.StatusUnauthorized, helpers.MsgUnauthenticated)
		return
	}
	if err := c.Service.Delete(r.Context(), actor, eventID); err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONMessage(w, http.StatusOK, "Event Deleted Successfully")
}

// writeServiceError maps domain sentinel errors to HTTP responses.
func (c *EventController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONMessage(w, http.StatusNotFound, "Event not found")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONMessage(w, http.StatusForbidden, helpers.MsgUnauthorized)
	case errors.Is(err, domain.ErrCategoryNotFound):
		helpers.WriteJSONValidationError(w, map[string]string{"category_id": "the selected category does not exist"})
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONValidationError(w, map[string]string{"event": strings.TrimPrefix(err.Error(), "invalid input: ")})
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
