package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"eventstage/internal/delivery/http/helpers"
	"eventstage/internal/domain"
	"eventstage/internal/services"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// SignUpRequest is the request body for POST /register
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"` // optional: "organizer" or "participant" (defaults to "participant")
}

// Validate implements Validator.
func (s SignUpRequest) Validate() map[string]string {
	errs := make(map[string]string)
	email := strings.TrimSpace(strings.ToLower(s.Email))
	if email == "" {
		errs["email"] = "email is required"
	} else if !emailRegexp.MatchString(email) {
		errs["email"] = "invalid email format"
	}
	if s.Password == "" {
		errs["password"] = "password is required"
	} else if len(s.Password) < 8 {
		errs["password"] = "password must be at least 8 characters"
	}
	if strings.TrimSpace(s.Name) == "" {
		errs["name"] = "name is required"
	}
	role := strings.TrimSpace(strings.ToLower(s.Role))
	if role != "" && role != domain.RoleOrganizer && role != domain.RoleParticipant {
		errs["role"] = "role must be \"organizer\" or \"participant\""
	}
	return errs
}

// LoginRequest is the request body for POST /login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (l LoginRequest) Validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(l.Email) == "" {
		errs["email"] = "email is required"
	}
	if l.Password == "" {
		errs["password"] = "password is required"
	}
	return errs
}

// LoginResponse is the data payload for POST /login
type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	User      *domain.User `json:"user"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// SignUp godoc
// @Summary Sign up a new user
// @Description Create a new user with email, password, and name. Optional role: "organizer" or "participant" (defaults to "participant"). Password is stored hashed.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body SignUpRequest true "Sign-up data"
// @Success 201 {object} helpers.MessageResponse "user contains the created user"
// @Failure 400 {object} helpers.MessageResponse
// @Failure 409 {object} helpers.MessageResponse "email already registered"
// @Failure 422 {object} helpers.ValidationErrorResponse
// @Failure 500 {object} helpers.MessageResponse
// @Router /register [post]
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.SignUp(r.Context(), req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			helpers.WriteJSONMessage(w, http.StatusConflict, "This email is already registered.")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONValidationError(w, map[string]string{"credentials": strings.TrimPrefix(err.Error(), "invalid input: ")})
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}
	helpers.WriteJSONResource(w, http.StatusCreated, "User Registered Successfully", "user", user)
}

// Login godoc
// @Summary Log in
// @Description Authenticate with email and password. Returns a JWT containing user id, email, and roles.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} helpers.MessageResponse "auth contains token, token_type, and user"
// @Failure 401 {object} helpers.MessageResponse "invalid credentials"
// @Failure 422 {object} helpers.ValidationErrorResponse
// @Failure 500 {object} helpers.MessageResponse
// @Router /login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	token, user, err := c.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			helpers.WriteJSONMessage(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}
	helpers.WriteJSONResource(w, http.StatusOK, "Logged In Successfully", "auth", LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		User:      user,
	})
}
