package analytics

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mohitkulkarni1999/enquiry-crm/internal/cache"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/enquiry"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/middleware"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/salesperson"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/transport"
)

// EnquirySource yields the snapshot the aggregations run over.
type EnquirySource interface {
	All(ctx context.Context) ([]enquiry.Enquiry, error)
}

// TeamSource yields the roster used to resolve assignee names.
type TeamSource interface {
	All(ctx context.Context) ([]salesperson.SalesPerson, error)
}

type Handler struct {
	enquiries EnquirySource
	team      TeamSource
	cache     cache.Cache
	cacheTTL  time.Duration
	log       *slog.Logger
}

func NewHandler(enquiries EnquirySource, team TeamSource, c cache.Cache, ttl time.Duration, log *slog.Logger) *Handler {
	return &Handler{
		enquiries: enquiries,
		team:      team,
		cache:     c,
		cacheTTL:  ttl,
		log:       log,
	}
}

func (h *Handler) GetFunnel(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	all, err := h.enquiries.All(ctx)
	if err != nil {
		log.Error("analytics funnel: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	funnel := ComputeFunnel(all)
	log.Info("analytics funnel: ok", slog.Int("leads", funnel.Leads))
	transport.WriteJSON(w, http.StatusOK, funnel)
}

func (h *Handler) GetTeamPerformance(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	all, err := h.enquiries.All(ctx)
	if err != nil {
		log.Error("analytics team: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	persons, err := h.team.All(ctx)
	if err != nil {
		log.Error("analytics team: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	members := ComputeTeamPerformance(all, persons)
	log.Info("analytics team: ok", slog.Int("members", len(members)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"teamPerformance": members,
	})
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	cacheKey := "analytics:summary"
	if h.cache != nil {
		if cached, ok, err := h.cache.Get(r.Context(), cacheKey); err == nil && ok {
			log.Info("analytics summary: cache hit")
			writeCachedJSON(w, http.StatusOK, cached)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	all, err := h.enquiries.All(ctx)
	if err != nil {
		log.Error("analytics summary: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	summary := ComputeSummary(all)

	if payload, err := json.Marshal(summary); err == nil && h.cache != nil {
		_ = h.cache.Set(r.Context(), cacheKey, payload, h.cacheTTL)
	}

	log.Info("analytics summary: ok", slog.Int("total", summary.TotalEnquiries))
	transport.WriteJSON(w, http.StatusOK, summary)
}

func writeCachedJSON(w http.ResponseWriter, status int, payload []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}
