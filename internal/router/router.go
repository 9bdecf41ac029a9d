package router

import (
	"encoding/json"
	"errors"
	"net/http"

	"coursely/internal/apperrors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// decodeAndValidate decodes a JSON request body and checks it against the
// target struct's validate tags. Malformed payloads never reach the domain.
func decodeAndValidate(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	if err := validate.Struct(v); err != nil {
		return err
	}
	return nil
}

// respondError writes a status code matching the error's place in the
// taxonomy. Unrecognized errors are internal.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.CourseNotFoundError),
		errors.Is(err, apperrors.PurchaseNotFoundError),
		errors.Is(err, apperrors.UserNotFoundError),
		errors.Is(err, apperrors.UnknownLectureError):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, apperrors.NotEnrolledError):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, apperrors.InvalidRangeError), isValidationError(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}
