package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	apperrors "slotbook/pkg/errors"
	"slotbook/pkg/model"
)

// QueryDate reads a required ISO date from the query string.
func QueryDate(r *http.Request, param string) (model.Date, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return "", apperrors.InvalidInput(fmt.Sprintf("%s query parameter is required", param))
	}
	date, err := model.ParseDate(raw)
	if err != nil {
		return "", apperrors.InvalidInput(err.Error())
	}
	return date, nil
}

// DecodeJSON reads exactly one JSON document from the request body into v.
func DecodeJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesErr):
			return apperrors.New(apperrors.CodeBadRequest, "Request body too large", http.StatusRequestEntityTooLarge)
		case errors.Is(err, io.EOF):
			return apperrors.InvalidInput("Request body is empty")
		default:
			return apperrors.InvalidInput("Invalid JSON body: " + err.Error())
		}
	}

	if decoder.More() {
		return apperrors.InvalidInput("Request body must contain a single JSON object")
	}
	return nil
}
