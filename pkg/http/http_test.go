package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "slotbook/pkg/errors"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"conflict", apperrors.SlotConflict("overlap", []string{"a"}), http.StatusConflict, apperrors.CodeSlotConflict},
		{"not on grid", apperrors.SlotNotOnGrid("09:01"), http.StatusUnprocessableEntity, apperrors.CodeSlotNotOnGrid},
		{"store", apperrors.StoreUnavailable("down", errors.New("io")), http.StatusServiceUnavailable, apperrors.CodeStoreUnavailable},
		{"plain error", errors.New("secret detail"), http.StatusInternalServerError, apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if err := WriteError(rec, tt.err); err != nil {
				t.Fatalf("WriteError() error = %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", resp.Code, tt.wantCode)
			}
			if strings.Contains(rec.Body.String(), "secret detail") {
				t.Error("internal error details leaked into the response")
			}
		})
	}
}

func TestQueryDate(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"/x?date=2025-03-10", "2025-03-10", false},
		{"/x", "", true},
		{"/x?date=tomorrow", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := QueryDate(httptest.NewRequest(http.MethodGet, tt.url, nil), "date")
			if (err != nil) != tt.wantErr {
				t.Fatalf("QueryDate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if string(got) != tt.want {
				t.Errorf("QueryDate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Owner string `json:"owner"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"owner":"Rossi"}`, false},
		{"empty", ``, true},
		{"unknown field", `{"owner":"Rossi","extra":1}`, true},
		{"two documents", `{"owner":"a"}{"owner":"b"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var p payload
			err := DecodeJSON(r, &p)
			if (err != nil) != tt.wantErr {
				t.Errorf("DecodeJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !apperrors.IsAppError(err) {
				t.Errorf("expected AppError, got %T", err)
			}
		})
	}
}
