package helpers

import (
	"encoding/json"
	"net/http"
)

// Validator is implemented by request DTOs that support validation.
// Validate returns a map of field name to error message; nil or empty means valid.
type Validator interface {
	Validate() map[string]string
}

// DecodeAndValidate decodes the request body into dest (with DisallowUnknownFields)
// and, if dest implements Validator, runs Validate(). A malformed body yields a
// 400; validation failures yield a 422 with per-field errors. Callers should
// return immediately when DecodeAndValidate returns false.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		WriteJSONMessage(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	if v, ok := dest.(Validator); ok {
		if errs := v.Validate(); len(errs) > 0 {
			WriteJSONValidationError(w, errs)
			return false
		}
	}
	return true
}
