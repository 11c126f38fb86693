package comment

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mohitkulkarni1999/enquiry-crm/internal/httpx"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/middleware"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/transport"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/validation"
)

type Handler struct {
	service *Service
	val     *validation.Validator
	log     *slog.Logger
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		val:     val,
		log:     log,
	}
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	enquiryID := strings.TrimSpace(chi.URLParam(r, "id"))

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("comment add: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	// The acting user is the default author when the body omits userId.
	if strings.TrimSpace(req.UserID) == "" {
		if actor, ok := middleware.ActorFromContext(r.Context()); ok {
			req.UserID = actor.UserID
		}
	}

	if err := h.val.Struct(req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	created, err := h.service.Add(ctx, enquiryID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEnquiryNotFound):
			transport.WriteError(w, http.StatusNotFound, "enquiry not found", nil)
		case errors.Is(err, ErrUserNotFound):
			transport.WriteError(w, http.StatusNotFound, "user not found", nil)
		default:
			log.Error("comment add: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	log.Info("comment add: ok",
		slog.String("enquiry_id", enquiryID),
		slog.Int("comment_number", created.CommentNumber),
	)
	transport.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) ListByEnquiry(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	enquiryID := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, err := h.service.ListByEnquiry(ctx, enquiryID)
	if err != nil {
		log.Error("comment list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (h *Handler) CountByEnquiry(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	enquiryID := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	n, err := h.service.CountByEnquiry(ctx, enquiryID)
	if err != nil {
		log.Error("comment count: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]int64{"count": n})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "commentId"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "comment not found", nil)
			return
		}
		log.Error("comment delete: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("comment delete: ok", slog.String("comment_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
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
