package assignment

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mohitkulkarni1999/enquiry-crm/internal/middleware"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/transport"
)

type Handler struct {
	engine *Engine
	log    *slog.Logger
}

func NewHandler(engine *Engine, log *slog.Logger) *Handler {
	return &Handler{engine: engine, log: log}
}

func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	enquiryID := strings.TrimSpace(chi.URLParam(r, "id"))
	salesPersonID := strings.TrimSpace(chi.URLParam(r, "salesPersonId"))
	if enquiryID == "" || salesPersonID == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	updated, unavailable, err := h.engine.Assign(ctx, enquiryID, salesPersonID)
	if err != nil {
		h.writeEngineError(w, log, "assign", err)
		return
	}

	log.Info("assign: ok",
		slog.String("enquiry_id", enquiryID),
		slog.String("sales_person_id", salesPersonID),
		slog.Bool("unavailable", unavailable),
	)

	response := map[string]interface{}{"enquiry": updated}
	if unavailable {
		response["warning"] = "sales person is not available"
	}
	transport.WriteJSON(w, http.StatusOK, response)
}

func (h *Handler) AutoAssign(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	enquiryID := strings.TrimSpace(chi.URLParam(r, "id"))
	if enquiryID == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	updated, chosen, err := h.engine.AutoAssign(ctx, enquiryID)
	if err != nil {
		h.writeEngineError(w, log, "auto-assign", err)
		return
	}

	log.Info("auto-assign: ok",
		slog.String("enquiry_id", enquiryID),
		slog.String("sales_person_id", chosen.ID),
	)
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"enquiry":     updated,
		"salesPerson": chosen,
	})
}

func (h *Handler) Unassign(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	enquiryID := strings.TrimSpace(chi.URLParam(r, "id"))
	if enquiryID == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	updated, err := h.engine.Unassign(ctx, enquiryID)
	if err != nil {
		h.writeEngineError(w, log, "unassign", err)
		return
	}

	log.Info("unassign: ok", slog.String("enquiry_id", enquiryID))
	transport.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) writeEngineError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, ErrEnquiryNotFound):
		log.Warn(op + ": enquiry not found")
		transport.WriteError(w, http.StatusNotFound, "enquiry not found", nil)
	case errors.Is(err, ErrSalesPersonNotFound):
		log.Warn(op + ": sales person not found")
		transport.WriteError(w, http.StatusNotFound, "sales person not found", nil)
	case errors.Is(err, ErrNoAvailableCapacity):
		// Distinct from not-found so callers can prompt to onboard a sales person.
		log.Warn(op + ": no available sales persons")
		transport.WriteError(w, http.StatusConflict, "no available sales persons", nil)
	default:
		log.Error(op+": database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
	}
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return h.log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}
