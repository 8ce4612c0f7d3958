package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"eventstage/internal/delivery/http/helpers"
	"eventstage/internal/delivery/http/middleware"
	"eventstage/internal/domain"
)

// RegisterParticipantRequest is the request body for POST /register-participant.
type RegisterParticipantRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	EventID string `json:"event_id"`
}

// Validate implements Validator.
func (p RegisterParticipantRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(p.Name) == "" {
		errs["name"] = "name is required"
	}
	email := strings.TrimSpace(strings.ToLower(p.Email))
	if email == "" {
		errs["email"] = "email is required"
	} else if !emailRegexp.MatchString(email) {
		errs["email"] = "invalid email format"
	}
	if p.EventID == "" {
		errs["event_id"] = "event_id is required"
	}
	return errs
}

// ParticipantSuccessResponse is the response envelope carrying a registration.
type ParticipantSuccessResponse struct {
	Message     string              `json:"message"`
	Participant *domain.Participant `json:"participant"`
}

// ParticipantListSuccessResponse is the response envelope for GET /event/{eventID}/participants.
type ParticipantListSuccessResponse struct {
	Message      string                `json:"message"`
	Participants []*domain.Participant `json:"participants"`
}

type ParticipantController struct {
	Logger  *slog.Logger
	Service domain.ParticipantService
}

func NewParticipantController(logger *slog.Logger, svc domain.ParticipantService) *ParticipantController {
	return &ParticipantController{
		Logger:  logger,
		Service: svc,
	}
}

// Register godoc
// @Summary Register a participant for an event
// @Description Creates a registration for the given event. Public endpoint. A duplicate (email, event) pair yields 409. A confirmation email is sent best-effort; email failure does not fail the registration.
// @Tags participants
// @Accept json
// @Produce json
// @Param body body RegisterParticipantRequest true "Registration data"
// @Success 201 {object} controllers.ParticipantSuccessResponse "participant contains the registration"
// @Failure 404 {object} helpers.MessageResponse "event not found"
// @Failure 409 {object} helpers.MessageResponse "duplicate registration"
// @Failure 422 {object} helpers.ValidationErrorResponse
// @Failure 500 {object} helpers.MessageResponse
// @Router /register-participant [post]
func (c *ParticipantController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterParticipantRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	participant, err := c.Service.Register(r.Context(), req.Name, req.Email, req.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			helpers.WriteJSONMessage(w, http.StatusConflict, "This email is already registered for this event.")
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONValidationError(w, map[string]string{"event_id": "the selected event does not exist"})
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}
	helpers.WriteJSONResource(w, http.StatusCreated, "Registration successful! See you at the event.", "participant", participant)
}

// ListByEvent godoc
// @Summary List participants of an event
// @Description Returns the registrations for the event. Only the owning organizer can list.
// @Tags participants
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ParticipantListSuccessResponse "participants is an array of registrations"
// @Failure 401 {object} helpers.MessageResponse "Unauthenticated"
// @Failure 403 {object} helpers.MessageResponse "Unauthorized (not the owner)"
// @Failure 404 {object} helpers.MessageResponse
// @Failure 500 {object} helpers.MessageResponse
// @Router /event/{eventID}/participants [get]
func (c *ParticipantController) ListByEvent(w http.ResponseWriter, r *http.Request) {
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
	participants, err := c.Service.ListByEvent(r.Context(), actor, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONMessage(w, http.StatusNotFound, "Event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONMessage(w, http.StatusForbidden, helpers.MsgUnauthorized)
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}
	helpers.WriteJSONResource(w, http.StatusOK, "Participants Fetched Successfully", "participants", participants)
}
