package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword() error = %v", err)
	}
	return string(h)
}

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	return NewAuthenticator(testSecret, time.Hour, "slotbook",
		Account{Username: "admin", PasswordHash: hash(t, "s3cret"), Role: RoleAdmin},
		Account{Username: "user", PasswordHash: hash(t, "guest"), Role: RoleViewer},
		Account{Username: "disabled", Role: RoleAdmin},
	)
}

func TestLoginAndVerify(t *testing.T) {
	a := newTestAuthenticator(t)

	tests := []struct {
		username string
		password string
		wantRole Role
		wantErr  bool
	}{
		{"admin", "s3cret", RoleAdmin, false},
		{"user", "guest", RoleViewer, false},
		{"admin", "wrong", "", true},
		{"nobody", "s3cret", "", true},
		{"disabled", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.username+"/"+tt.password, func(t *testing.T) {
			token, err := a.Login(tt.username, tt.password)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCredentials) {
					t.Errorf("expected ErrInvalidCredentials, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Login() error = %v", err)
			}

			session, err := a.Verify(token.AccessToken)
			if err != nil {
				t.Fatalf("Verify() error = %v", err)
			}
			if session.Username != tt.username || session.Role != tt.wantRole {
				t.Errorf("unexpected session %+v", session)
			}
		})
	}
}

func TestVerify_RejectsBadTokens(t *testing.T) {
	a := newTestAuthenticator(t)
	token, err := a.Login("admin", "s3cret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	other := NewAuthenticator("another-secret-another-secret", time.Hour, "slotbook")
	if _, err := other.Verify(token.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("token signed with another secret accepted: %v", err)
	}

	a.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := a.Verify(token.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token accepted: %v", err)
	}

	if _, err := a.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token accepted: %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	a := newTestAuthenticator(t)
	token, _ := a.Login("user", "guest")

	var seen Session
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := Middleware(a, "/api/v1/auth/login")(next)

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
	}{
		{"public path", "/api/v1/auth/login", "", http.StatusOK},
		{"missing token", "/api/v1/reservations", "", http.StatusUnauthorized},
		{"wrong scheme", "/api/v1/reservations", "Basic abc", http.StatusUnauthorized},
		{"invalid token", "/api/v1/reservations", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "/api/v1/reservations", "Bearer " + token.AccessToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}

	if seen.Username != "user" || seen.IsAdmin() {
		t.Errorf("unexpected session in context: %+v", seen)
	}
}
