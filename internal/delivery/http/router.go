package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventstage/internal/delivery/http/controllers"
	"eventstage/internal/delivery/http/middleware"
	"eventstage/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// Public routes serve reads and registrations; event mutations require a
// Bearer token carrying the organizer role.
func NewRouter(
	eventController *controllers.EventController,
	participantController *controllers.ParticipantController,
	categoryController *controllers.CategoryController,
	authController *controllers.AuthController,
	verifier domain.TokenVerifier,
	logger *slog.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier, logger)

	// Events
	mux.HandleFunc("GET /events", eventController.List)
	mux.HandleFunc("GET /event/{eventID}", eventController.Get)
	mux.HandleFunc("POST /create-event", requireAuth(eventController.Create))
	mux.HandleFunc("PUT /update-event/{eventID}", requireAuth(eventController.Update))
	mux.HandleFunc("DELETE /delete-event/{eventID}", requireAuth(eventController.Delete))

	// Participants
	mux.HandleFunc("POST /register-participant", participantController.Register)
	mux.HandleFunc("GET /event/{eventID}/participants", requireAuth(participantController.ListByEvent))

	// Categories
	mux.HandleFunc("GET /categories", categoryController.List)

	// Auth
	mux.HandleFunc("POST /register", authController.SignUp)
	mux.HandleFunc("POST /login", authController.Login)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
