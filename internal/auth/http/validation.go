package http

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/dharmil18/betterbank-auth-service/pkg/httpx"
	validation "github.com/go-ozzo/ozzo-validation"
)

const validationFailed = "Validation Failed"

// writeValidationErrors writes the 400 body for err. Field errors from
// ozzo-validation are listed per field in a stable order; anything else
// (malformed JSON, an empty body) becomes a single "body" entry.
func writeValidationErrors(w http.ResponseWriter, err error) {
	resp := ValidationErrorResponse{
		Status:    http.StatusBadRequest,
		Message:   validationFailed,
		Errors:    []ValidationError{},
		Timestamp: time.Now().UTC(),
	}

	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		fields := make([]string, 0, len(fieldErrs))
		for field := range fieldErrs {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		for _, field := range fields {
			resp.Errors = append(resp.Errors, ValidationError{
				Field:   field,
				Message: fieldErrs[field].Error(),
			})
		}
	} else {
		resp.Errors = append(resp.Errors, ValidationError{
			Field:   "body",
			Message: "Request body must be a single valid JSON object",
		})
	}

	httpx.WriteJSON(w, http.StatusBadRequest, resp)
}
