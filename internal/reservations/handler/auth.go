package handler

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"slotbook/pkg/auth"
	apperrors "slotbook/pkg/errors"
	httputil "slotbook/pkg/http"
	"slotbook/pkg/logger"
)

const LoginPath = "/api/v1/auth/login"

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthHandler struct {
	authenticator *auth.Authenticator
	log           *logger.Logger
}

func NewAuthHandler(authenticator *auth.Authenticator, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authenticator: authenticator,
		log:           log,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		h.writeError(w, apperrors.InvalidInput("username and password are required"))
		return
	}

	token, err := h.authenticator.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.log.Warn("Login rejected", "username", req.Username)
			h.writeError(w, apperrors.Unauthorized("Invalid username or password"))
			return
		}
		h.writeError(w, apperrors.Internal("Failed to issue token", err))
		return
	}

	h.log.Info("Login succeeded", "username", token.Session.Username, "role", token.Session.Role)
	if err := httputil.WriteSuccess(w, token); err != nil {
		h.log.Error("failed to write success response", "handler", "Login", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST(LoginPath, h.Login)
}

func (h *AuthHandler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", "Login", "operation", "WriteError", "error", writeErr)
	}
}
