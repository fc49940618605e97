// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"

	"github.com/bookery/bookery/internal/handler/dto"
	"github.com/bookery/bookery/internal/service"
)

// NotFound handles 404 responses.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, dto.ErrorResponse{
		Error: "resource not found",
		Code:  "NOT_FOUND",
	})
}

// MethodNotAllowed handles 405 responses.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, dto.ErrorResponse{
		Error: "method not allowed",
		Code:  "METHOD_NOT_ALLOWED",
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		_ = err
	}
}

// writeError writes a generic error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// writeFieldErrors writes a 400 whose body is the raw field→messages map.
func writeFieldErrors(w http.ResponseWriter, fieldErrs service.FieldErrors) {
	writeJSON(w, http.StatusBadRequest, fieldErrs)
}

// decodeJSON decodes the request body into dst. A value of the wrong
// JSON type for a known field is reported as a field error on that
// field instead of failing the whole body.
func decodeJSON(r *http.Request, dst any) (service.FieldErrors, error) {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return nil, nil
	}
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty request body")
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		fieldErrs := service.FieldErrors{}
		fieldErrs.Add(typeErr.Field, typeMismatchMessage(typeErr))
		return fieldErrs, nil
	}
	return nil, err
}

func typeMismatchMessage(typeErr *json.UnmarshalTypeError) string {
	switch typeErr.Type.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "A valid integer is required."
	case reflect.String:
		return "Not a valid string."
	default:
		return "Invalid value."
	}
}
