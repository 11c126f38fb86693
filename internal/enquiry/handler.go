package enquiry

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
		log.Warn("enquiry create: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("enquiry create: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	created, err := h.service.Create(ctx, req)
	if err != nil {
		if details, ok := enumDetails(err); ok {
			transport.WriteError(w, http.StatusBadRequest, "validation error", details)
			return
		}
		log.Error("enquiry create: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("enquiry create: ok", slog.String("enquiry_id", created.ID), slog.String("source", created.Source))
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
		Status:        q.Get("status"),
		InterestLevel: q.Get("interestLevel"),
		SalesPersonID: q.Get("salesPersonId"),
		Search:        q.Get("searchTerm"),
		ActiveOnly:    q.Get("activeOnly") == "true",
	}

	h.writeFilteredList(w, r, log, filter, limit, offset)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 20, 100)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	term := strings.TrimSpace(r.URL.Query().Get("searchTerm"))
	h.writeFilteredList(w, r, log, ListFilter{Search: term}, limit, offset)
}

func (h *Handler) Unassigned(w http.ResponseWriter, r *http.Request) {
	h.writeView(w, r, "unassigned", h.service.Unassigned)
}

func (h *Handler) Active(w http.ResponseWriter, r *http.Request) {
	h.writeView(w, r, "active", h.service.Active)
}

func (h *Handler) HotLeads(w http.ResponseWriter, r *http.Request) {
	h.writeView(w, r, "hot-leads", h.service.HotLeads)
}

func (h *Handler) FollowUpsDue(w http.ResponseWriter, r *http.Request) {
	h.writeFollowUps(w, r, "follow-ups due", h.service.FollowUpsDue)
}

func (h *Handler) FollowUpsUpcoming(w http.ResponseWriter, r *http.Request) {
	h.writeFollowUps(w, r, "follow-ups upcoming", h.service.FollowUpsUpcoming)
}

func (h *Handler) writeFollowUps(w http.ResponseWriter, r *http.Request, name string, view func(context.Context, string, time.Time) ([]Enquiry, error)) {
	log := h.logWithRequest(r)
	salesPersonID := strings.TrimSpace(r.URL.Query().Get("salesPersonId"))

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, err := view(ctx, salesPersonID, time.Now().UTC())
	if err != nil {
		h.writeServiceError(w, log, "enquiry "+name, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
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

	e, err := h.service.GetByID(ctx, id)
	if err != nil {
		h.writeServiceError(w, log, "enquiry get", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req UpdateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("enquiry update: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	updated, err := h.service.Update(ctx, id, req)
	if err != nil {
		h.writeServiceError(w, log, "enquiry update", err)
		return
	}

	log.Info("enquiry update: ok", slog.String("enquiry_id", id))
	transport.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	if err := h.service.Delete(ctx, id); err != nil {
		h.writeServiceError(w, log, "enquiry delete", err)
		return
	}

	log.Info("enquiry delete: ok", slog.String("enquiry_id", id))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	h.workflowFromQuery(w, r, "status", "status", h.service.SetStatus)
}

func (h *Handler) UpdateInterest(w http.ResponseWriter, r *http.Request) {
	h.workflowFromQuery(w, r, "interest", "interest", h.service.SetInterest)
}

func (h *Handler) UpdateInterestLevel(w http.ResponseWriter, r *http.Request) {
	h.workflowFromQuery(w, r, "interest level", "interestLevel", h.service.SetInterestLevel)
}

func (h *Handler) UpdateBookingProgress(w http.ResponseWriter, r *http.Request) {
	h.workflowFromQuery(w, r, "booking progress", "stage", h.service.SetBookingProgress)
}

type coldReasonRequest struct {
	ColdReason string `json:"coldReason" validate:"required"`
}

func (h *Handler) UpdateColdReason(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req coldReasonRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	updated, err := h.service.SetColdReason(ctx, id, req.ColdReason)
	if err != nil {
		h.writeServiceError(w, log, "enquiry cold reason", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, updated)
}

type unqualifiedRequest struct {
	IsUnqualified bool `json:"isUnqualified"`
}

func (h *Handler) UpdateUnqualified(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req unqualifiedRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	updated, err := h.service.MarkUnqualified(ctx, id, req.IsUnqualified)
	if err != nil {
		h.writeServiceError(w, log, "enquiry unqualified", err)
		return
	}

	log.Info("enquiry unqualified: ok", slog.String("enquiry_id", id), slog.Bool("flag", req.IsUnqualified))
	transport.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) AssignToCRM(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	updated, err := h.service.AssignToCRM(ctx, id)
	if err != nil {
		h.writeServiceError(w, log, "enquiry assign to crm", err)
		return
	}

	log.Info("enquiry assign to crm: ok", slog.String("enquiry_id", id))
	transport.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) AddRemarks(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	remarks, err := httpx.ReadPlainText(r.Body, 4096)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid body", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	updated, err := h.service.AddRemarks(ctx, id, remarks)
	if err != nil {
		h.writeServiceError(w, log, "enquiry remarks", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) ScheduleFollowUp(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	raw := strings.TrimSpace(r.URL.Query().Get("followUpDate"))
	if raw == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing followUpDate", nil)
		return
	}
	followUpAt, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, "followUpDate must be RFC 3339", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	updated, err := h.service.ScheduleFollowUp(ctx, id, followUpAt.UTC())
	if err != nil {
		h.writeServiceError(w, log, "enquiry follow-up", err)
		return
	}

	log.Info("enquiry follow-up: ok", slog.String("enquiry_id", id), slog.Time("follow_up_at", followUpAt))
	transport.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) CountTotal(w http.ResponseWriter, r *http.Request) {
	h.writeCount(w, r, func(ctx context.Context) (int64, error) {
		return h.service.CountTotal(ctx)
	})
}

func (h *Handler) CountByStatus(w http.ResponseWriter, r *http.Request) {
	status := chi.URLParam(r, "status")
	h.writeCount(w, r, func(ctx context.Context) (int64, error) {
		return h.service.CountByStatus(ctx, status)
	})
}

func (h *Handler) CountByInterestLevel(w http.ResponseWriter, r *http.Request) {
	level := chi.URLParam(r, "interestLevel")
	h.writeCount(w, r, func(ctx context.Context) (int64, error) {
		return h.service.CountByInterestLevel(ctx, level)
	})
}

func (h *Handler) CountBySalesPerson(w http.ResponseWriter, r *http.Request) {
	salesPersonID := chi.URLParam(r, "salesPersonId")
	h.writeCount(w, r, func(ctx context.Context) (int64, error) {
		return h.service.CountBySalesPerson(ctx, salesPersonID)
	})
}

func (h *Handler) workflowFromQuery(w http.ResponseWriter, r *http.Request, op, param string, apply func(context.Context, string, string) (Enquiry, error)) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	value := strings.TrimSpace(r.URL.Query().Get(param))
	if value == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing "+param, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	updated, err := apply(ctx, id, value)
	if err != nil {
		h.writeServiceError(w, log, "enquiry "+op, err)
		return
	}

	log.Info("enquiry "+op+": ok", slog.String("enquiry_id", id), slog.String(param, value))
	transport.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) writeView(w http.ResponseWriter, r *http.Request, name string, view func(context.Context, int64, int64) ([]Enquiry, int64, error)) {
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
		h.writeServiceError(w, log, "enquiry "+name, err)
		return
	}

	transport.WriteList(w, items, limit, offset, total)
}

func (h *Handler) writeFilteredList(w http.ResponseWriter, r *http.Request, log *slog.Logger, filter ListFilter, limit, offset int64) {
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.List(ctx, filter, limit, offset)
	if err != nil {
		h.writeServiceError(w, log, "enquiry list", err)
		return
	}

	log.Info("enquiry list: ok", slog.Int("count", len(items)))
	transport.WriteList(w, items, limit, offset, total)
}

func (h *Handler) writeCount(w http.ResponseWriter, r *http.Request, count func(context.Context) (int64, error)) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	n, err := count(ctx)
	if err != nil {
		h.writeServiceError(w, log, "enquiry count", err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]int64{"count": n})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		log.Warn(op + ": not found")
		transport.WriteError(w, http.StatusNotFound, "enquiry not found", nil)
	case errors.Is(err, ErrRegistrationIncomplete), errors.Is(err, ErrColdReasonNotCold):
		log.Warn(op+": invalid state", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusConflict, err.Error(), nil)
	default:
		if details, ok := enumDetails(err); ok {
			log.Warn(op + ": validation error")
			transport.WriteError(w, http.StatusBadRequest, "validation error", details)
			return
		}
		log.Error(op+": database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
	}
}

func enumDetails(err error) (map[string]string, bool) {
	switch {
	case errors.Is(err, ErrInvalidStatus):
		return map[string]string{"status": "oneof"}, true
	case errors.Is(err, ErrInvalidPropertyType):
		return map[string]string{"propertyType": "oneof"}, true
	case errors.Is(err, ErrInvalidBudgetRange):
		return map[string]string{"budgetRange": "oneof"}, true
	case errors.Is(err, ErrInvalidSource):
		return map[string]string{"source": "oneof"}, true
	case errors.Is(err, ErrInvalidInterest):
		return map[string]string{"interest": "oneof"}, true
	case errors.Is(err, ErrInvalidInterestLevel):
		return map[string]string{"interestLevel": "oneof"}, true
	case errors.Is(err, ErrInvalidBookingStage):
		return map[string]string{"stage": "oneof"}, true
	}
	return nil, false
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
