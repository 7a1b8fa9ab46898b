package handler

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"slotbook/internal/reservations/events"
	"slotbook/internal/reservations/service"
	"slotbook/pkg/auth"
	apperrors "slotbook/pkg/errors"
	httputil "slotbook/pkg/http"
	"slotbook/pkg/logger"
	"slotbook/pkg/middleware"
	"slotbook/pkg/model"
)

type ReservationHandler struct {
	service service.ReservationService
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log,
	}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	session, ok := h.session(w, r, "Create")
	if !ok {
		return
	}

	var input model.ReservationInput
	if err := httputil.DecodeJSON(r, &input); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	created, err := h.service.Create(requestContext(r), session, &input)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if id == "" {
		h.writeError(w, "GetByID", apperrors.InvalidInput("ID parameter is required"))
		return
	}

	res, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, res); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) ListByDate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	date, err := httputil.QueryDate(r, "date")
	if err != nil {
		h.writeError(w, "ListByDate", err)
		return
	}

	reservations, err := h.service.ListByDate(r.Context(), date)
	if err != nil {
		h.writeError(w, "ListByDate", err)
		return
	}

	if err := httputil.WriteList(w, reservations, len(reservations)); err != nil {
		h.log.Error("failed to write list response", "handler", "ListByDate", "operation", "WriteList", "error", err)
	}
}

func (h *ReservationHandler) Availability(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	date, err := httputil.QueryDate(r, "date")
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	availability, err := h.service.Availability(r.Context(), date)
	if err != nil {
		h.writeError(w, "Availability", err)
		return
	}

	if err := httputil.WriteSuccess(w, availability); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) Edit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	session, ok := h.session(w, r, "Edit")
	if !ok {
		return
	}

	id := ps.ByName("id")
	if id == "" {
		h.writeError(w, "Edit", apperrors.InvalidInput("ID parameter is required"))
		return
	}

	var update model.ReservationUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		h.writeError(w, "Edit", err)
		return
	}

	edited, err := h.service.Edit(requestContext(r), session, id, &update)
	if err != nil {
		h.writeError(w, "Edit", err)
		return
	}

	if err := httputil.WriteSuccess(w, edited); err != nil {
		h.log.Error("failed to write success response", "handler", "Edit", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	session, ok := h.session(w, r, "Cancel")
	if !ok {
		return
	}

	id := ps.ByName("id")
	if id == "" {
		h.writeError(w, "Cancel", apperrors.InvalidInput("ID parameter is required"))
		return
	}

	if err := h.service.Cancel(requestContext(r), session, id); err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Create)
	router.GET("/api/v1/reservations", h.ListByDate)
	router.GET("/api/v1/reservations/id/:id", h.GetByID)
	router.PATCH("/api/v1/reservations/id/:id", h.Edit)
	router.DELETE("/api/v1/reservations/id/:id", h.Cancel)
	router.GET("/api/v1/availability", h.Availability)
}

func (h *ReservationHandler) session(w http.ResponseWriter, r *http.Request, handler string) (auth.Session, bool) {
	session, ok := auth.FromContext(r.Context())
	if !ok {
		h.writeError(w, handler, apperrors.Unauthorized("Login required"))
		return auth.Session{}, false
	}
	return session, true
}

func (h *ReservationHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

// requestContext carries the request id into published events.
func requestContext(r *http.Request) context.Context {
	return events.WithCorrelationID(r.Context(), middleware.RequestID(r.Context()))
}
