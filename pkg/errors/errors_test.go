package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "Reservation not found",
			},
			expected: "NOT_FOUND: Reservation not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeStoreUnavailable,
				Message: "store offline",
				Err:     errors.New("connection refused"),
			},
			expected: "STORE_UNAVAILABLE: store offline (caused by: connection refused)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	cause := errors.New("disk full")

	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"invalid input", InvalidInput("owner is required"), CodeInvalidInput, http.StatusBadRequest},
		{"not found", NotFoundWithID("Reservation", "999"), CodeNotFound, http.StatusNotFound},
		{"slot not on grid", SlotNotOnGrid("09:01"), CodeSlotNotOnGrid, http.StatusUnprocessableEntity},
		{"slot conflict", SlotConflict("overlap", []string{"a"}), CodeSlotConflict, http.StatusConflict},
		{"store unavailable", StoreUnavailable("save failed", cause), CodeStoreUnavailable, http.StatusServiceUnavailable},
		{"unauthorized", Unauthorized("login required"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("admin only"), CodeForbidden, http.StatusForbidden},
		{"validation", Validation("bad", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"internal", Internal("boom", cause), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("slow"), CodeTimeout, http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, tt.err.Code)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, tt.err.StatusCode())
			}
		})
	}
}

func TestSlotConflict_CarriesConflicts(t *testing.T) {
	conflicts := []string{"r-1", "r-2"}
	err := SlotConflict("Requested time overlaps", conflicts)

	got, ok := err.Details["conflicts"].([]string)
	if !ok || len(got) != 2 {
		t.Fatalf("expected conflicts in details, got %v", err.Details)
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Reservation", "999")

	if err.Details["id"] != "999" {
		t.Errorf("expected id '999', got %v", err.Details["id"])
	}
	if err.Message != "Reservation not found" {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("Reservation")
	regularErr := errors.New("regular error")

	if result := AsAppError(appErr); result != appErr {
		t.Errorf("AsAppError() should return same AppError")
	}

	wrapped := fmt.Errorf("handler: %w", appErr)
	if result := AsAppError(wrapped); result != appErr {
		t.Errorf("AsAppError() should unwrap to the AppError")
	}

	result := AsAppError(regularErr)
	if result.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap regular error as internal error")
	}
	if result.Err != regularErr {
		t.Errorf("AsAppError() should wrap the original error")
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("create: %w", SlotNotOnGrid("09:01"))

	if !HasCode(err, CodeSlotNotOnGrid) {
		t.Error("expected HasCode to match wrapped AppError")
	}
	if HasCode(err, CodeSlotConflict) {
		t.Error("HasCode matched the wrong code")
	}
	if HasCode(errors.New("plain"), CodeInternal) {
		t.Error("HasCode matched a plain error")
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Wrap(originalErr, CodeInternal, "wrapped", http.StatusInternalServerError)

	if !errors.Is(appErr, originalErr) {
		t.Errorf("errors.Is should see through AppError")
	}
}

func TestAppError_ToJSON(t *testing.T) {
	jsonStr := string(NotFoundWithID("Reservation", "abc").ToJSON())

	if !strings.Contains(jsonStr, "NOT_FOUND") {
		t.Errorf("ToJSON() should contain error code")
	}
	if !strings.Contains(jsonStr, `"id":"abc"`) {
		t.Errorf("ToJSON() should contain details, got %s", jsonStr)
	}
}
