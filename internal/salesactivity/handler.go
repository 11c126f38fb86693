package salesactivity

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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req CreateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("activity create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	created, err := h.service.Log(ctx, req)
	if err != nil {
		h.writeServiceError(w, log, "activity create", err)
		return
	}

	log.Info("activity create: ok",
		slog.String("activity_id", created.ID),
		slog.String("activity_type", created.ActivityType),
	)
	transport.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 20, 100)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	q := r.URL.Query()
	filter := ListFilter{
		EnquiryID:     q.Get("enquiryId"),
		SalesPersonID: q.Get("salesPersonId"),
		ActivityType:  q.Get("activityType"),
		Search:        strings.TrimSpace(q.Get("searchTerm")),
	}
	if raw := strings.TrimSpace(q.Get("from")); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			transport.WriteError(w, http.StatusBadRequest, "from must be RFC 3339", nil)
			return
		}
		filter.From = from.UTC()
	}
	if raw := strings.TrimSpace(q.Get("to")); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			transport.WriteError(w, http.StatusBadRequest, "to must be RFC 3339", nil)
			return
		}
		filter.To = to.UTC()
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, filter, limit, offset)
	if err != nil {
		h.writeServiceError(w, log, "activity list", err)
		return
	}

	transport.WriteList(w, items, limit, offset, total)
}

func (h *Handler) ListByEnquiry(w http.ResponseWriter, r *http.Request) {
	enquiryID := chi.URLParam(r, "enquiryId")
	h.writeScopedList(w, r, "by-enquiry", func(ctx context.Context, limit, offset int64) ([]SalesActivity, int64, error) {
		return h.service.ListByEnquiry(ctx, enquiryID, limit, offset)
	})
}

func (h *Handler) ListBySalesPerson(w http.ResponseWriter, r *http.Request) {
	salesPersonID := chi.URLParam(r, "salesPersonId")
	h.writeScopedList(w, r, "by-sales-person", func(ctx context.Context, limit, offset int64) ([]SalesActivity, int64, error) {
		return h.service.ListBySalesPerson(ctx, salesPersonID, limit, offset)
	})
}

func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	limit, _, err := httpx.ParseLimitOffset(r.URL.Query(), 10, 100)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	items, err := h.service.Recent(ctx, limit)
	if err != nil {
		h.writeServiceError(w, log, "activity recent", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	a, err := h.service.GetByID(ctx, id)
	if err != nil {
		h.writeServiceError(w, log, "activity get", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req UpdateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("activity update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	updated, err := h.service.Update(ctx, id, req)
	if err != nil {
		h.writeServiceError(w, log, "activity update", err)
		return
	}

	log.Info("activity update: ok", slog.String("activity_id", id))
	transport.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		h.writeServiceError(w, log, "activity delete", err)
		return
	}

	log.Info("activity delete: ok", slog.String("activity_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) CountTotal(w http.ResponseWriter, r *http.Request) {
	h.writeCount(w, r, func(ctx context.Context) (int64, error) {
		return h.service.CountTotal(ctx)
	})
}

func (h *Handler) CountByType(w http.ResponseWriter, r *http.Request) {
	activityType := chi.URLParam(r, "activityType")
	h.writeCount(w, r, func(ctx context.Context) (int64, error) {
		return h.service.CountByType(ctx, activityType)
	})
}

func (h *Handler) CountBySalesPerson(w http.ResponseWriter, r *http.Request) {
	salesPersonID := chi.URLParam(r, "salesPersonId")
	h.writeCount(w, r, func(ctx context.Context) (int64, error) {
		return h.service.CountBySalesPerson(ctx, salesPersonID)
	})
}

func (h *Handler) writeScopedList(w http.ResponseWriter, r *http.Request, name string, view func(context.Context, int64, int64) ([]SalesActivity, int64, error)) {
	log := h.logWithRequest(r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 20, 100)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := view(ctx, limit, offset)
	if err != nil {
		h.writeServiceError(w, log, "activity "+name, err)
		return
	}

	transport.WriteList(w, items, limit, offset, total)
}

func (h *Handler) writeCount(w http.ResponseWriter, r *http.Request, count func(context.Context) (int64, error)) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	n, err := count(ctx)
	if err != nil {
		h.writeServiceError(w, log, "activity count", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]int64{"count": n})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		log.Warn(op + ": not found")
		transport.WriteError(w, http.StatusNotFound, "sales activity not found", nil)
	case errors.Is(err, ErrEnquiryNotFound):
		transport.WriteError(w, http.StatusNotFound, "enquiry not found", nil)
	case errors.Is(err, ErrSalesPersonNotFound):
		transport.WriteError(w, http.StatusNotFound, "sales person not found", nil)
	case errors.Is(err, ErrInvalidActivityType):
		transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"activityType": "oneof"})
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
