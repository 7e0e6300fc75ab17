package common

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateAndDecode decodes the request body into payload and runs the
// struct validation tags. It returns a ready-to-send AppError on
// failure, or nil when the payload is valid.
func ValidateAndDecode(r *http.Request, payload interface{}) *AppError {
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		return NewAppError(http.StatusBadRequest, "Invalid request body", err)
	}

	if err := validate.Struct(payload); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return NewAppError(http.StatusBadRequest, validationErrors.Error(), err)
		}
		return NewAppError(http.StatusBadRequest, "Invalid request payload", err)
	}

	return nil
}
