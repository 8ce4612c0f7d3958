package helpers

import (
	"encoding/json"
	"net/http"
)

// Messages reused across handlers.
const (
	MsgUnauthenticated = "Unauthenticated"
	MsgUnauthorized    = "Unauthorized"
	MsgInvalidData     = "The given data was invalid."
)

// MessageResponse is the body for responses that carry only a message.
// swagger:model MessageResponse
type MessageResponse struct {
	Message string `json:"message"`
}

// ValidationErrorResponse is the 422 body: a message plus per-field errors.
// swagger:model ValidationErrorResponse
type ValidationErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// WriteJSONMessage writes statusCode with a body containing only a message.
func WriteJSONMessage(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(MessageResponse{Message: message})
}

// WriteJSONResource writes statusCode with a body of the form
// {"message": message, key: resource}. Every success response that returns
// data uses this shape, with key naming the resource ("event", "events", ...).
func WriteJSONResource(w http.ResponseWriter, statusCode int, message, key string, resource any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"message": message,
		key:       resource,
	})
}

// WriteJSONValidationError writes a 422 with per-field error messages.
func WriteJSONValidationError(w http.ResponseWriter, fieldErrors map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	_ = json.NewEncoder(w).Encode(ValidationErrorResponse{
		Message: MsgInvalidData,
		Errors:  fieldErrors,
	})
}
