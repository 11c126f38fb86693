package salesactivity

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	byID map[string]SalesActivity
}

func newFakeRepo(items ...SalesActivity) *fakeRepo {
	r := &fakeRepo{byID: make(map[string]SalesActivity)}
	for _, a := range items {
		r.byID[a.ID] = a
	}
	return r
}

func (r *fakeRepo) Create(ctx context.Context, a SalesActivity) error {
	r.byID[a.ID] = a
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (SalesActivity, error) {
	a, ok := r.byID[id]
	if !ok {
		return SalesActivity{}, mongo.ErrNoDocuments
	}
	return a, nil
}

func (r *fakeRepo) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]SalesActivity, error) {
	items := make([]SalesActivity, 0)
	for _, a := range r.byID {
		if r.matches(a, filter) {
			items = append(items, a)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].ActivityDate.After(items[j].ActivityDate)
	})
	if offset >= int64(len(items)) {
		return []SalesActivity{}, nil
	}
	items = items[offset:]
	if limit > 0 && limit < int64(len(items)) {
		items = items[:limit]
	}
	return items, nil
}

func (r *fakeRepo) Count(ctx context.Context, filter ListFilter) (int64, error) {
	var n int64
	for _, a := range r.byID {
		if r.matches(a, filter) {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) Recent(ctx context.Context, limit int64) ([]SalesActivity, error) {
	return r.List(ctx, ListFilter{}, limit, 0)
}

func (r *fakeRepo) Update(ctx context.Context, id string, req UpdateRequest, now time.Time) (SalesActivity, error) {
	a, ok := r.byID[id]
	if !ok {
		return SalesActivity{}, mongo.ErrNoDocuments
	}
	if req.EnquiryID != nil {
		a.EnquiryID = *req.EnquiryID
	}
	if req.SalesPersonID != nil {
		a.SalesPersonID = *req.SalesPersonID
	}
	if req.ActivityType != nil {
		a.ActivityType = *req.ActivityType
	}
	if req.Notes != nil {
		a.Notes = *req.Notes
	}
	if req.ActivityDate != nil {
		a.ActivityDate = *req.ActivityDate
	}
	a.UpdatedAt = now
	r.byID[id] = a
	return a, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeRepo) matches(a SalesActivity, filter ListFilter) bool {
	if filter.EnquiryID != "" && a.EnquiryID != filter.EnquiryID {
		return false
	}
	if filter.SalesPersonID != "" && a.SalesPersonID != filter.SalesPersonID {
		return false
	}
	if filter.ActivityType != "" && a.ActivityType != filter.ActivityType {
		return false
	}
	if filter.Search != "" && !strings.Contains(strings.ToLower(a.Notes), strings.ToLower(filter.Search)) {
		return false
	}
	if !filter.From.IsZero() && a.ActivityDate.Before(filter.From) {
		return false
	}
	if !filter.To.IsZero() && a.ActivityDate.After(filter.To) {
		return false
	}
	return true
}

type fakeChecker struct {
	ids map[string]bool
}

func (c *fakeChecker) Exists(ctx context.Context, id string) (bool, error) {
	return c.ids[id], nil
}

func newService(repo *fakeRepo, enquiries, team map[string]bool) *Service {
	return NewService(repo, &fakeChecker{ids: enquiries}, &fakeChecker{ids: team})
}

func TestLogDefaultsActivityDate(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo, map[string]bool{"e1": true}, map[string]bool{"sp1": true})

	before := time.Now().UTC()
	created, err := svc.Log(context.Background(), CreateRequest{
		EnquiryID:     "e1",
		SalesPersonID: "sp1",
		ActivityType:  "call",
		Notes:         "  spoke about the 2BHK  ",
	})
	if err != nil {
		t.Fatalf("Log: %v", err)
	}

	if created.ActivityType != TypeCall {
		t.Fatalf("expected type %q, got %q", TypeCall, created.ActivityType)
	}
	if created.Notes != "spoke about the 2BHK" {
		t.Fatalf("expected trimmed notes, got %q", created.Notes)
	}
	if created.ActivityDate.Before(before) {
		t.Fatalf("expected activityDate to default to now, got %v", created.ActivityDate)
	}
	if created.ID == "" {
		t.Fatal("expected a generated id")
	}
}

func TestLogKeepsExplicitActivityDate(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo, nil, nil)

	at := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	created, err := svc.Log(context.Background(), CreateRequest{
		ActivityType: TypeMeeting,
		ActivityDate: &at,
	})
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if !created.ActivityDate.Equal(at) {
		t.Fatalf("expected activityDate %v, got %v", at, created.ActivityDate)
	}
}

func TestLogRejectsUnknownActivityType(t *testing.T) {
	svc := newService(newFakeRepo(), nil, nil)

	if _, err := svc.Log(context.Background(), CreateRequest{ActivityType: "SMOKE_SIGNAL"}); !errors.Is(err, ErrInvalidActivityType) {
		t.Fatalf("expected ErrInvalidActivityType, got %v", err)
	}
}

func TestLogChecksReferences(t *testing.T) {
	svc := newService(newFakeRepo(), map[string]bool{}, map[string]bool{})

	_, err := svc.Log(context.Background(), CreateRequest{ActivityType: TypeCall, EnquiryID: "ghost"})
	if !errors.Is(err, ErrEnquiryNotFound) {
		t.Fatalf("expected ErrEnquiryNotFound, got %v", err)
	}

	_, err = svc.Log(context.Background(), CreateRequest{ActivityType: TypeCall, SalesPersonID: "ghost"})
	if !errors.Is(err, ErrSalesPersonNotFound) {
		t.Fatalf("expected ErrSalesPersonNotFound, got %v", err)
	}
}

func TestListByEnquiryNewestFirst(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 1, d, 12, 0, 0, 0, time.UTC) }
	repo := newFakeRepo(
		SalesActivity{ID: "a1", EnquiryID: "e1", ActivityType: TypeCall, ActivityDate: day(1)},
		SalesActivity{ID: "a2", EnquiryID: "e1", ActivityType: TypeSiteVisit, ActivityDate: day(3)},
		SalesActivity{ID: "a3", EnquiryID: "e2", ActivityType: TypeCall, ActivityDate: day(2)},
	)
	svc := newService(repo, nil, nil)

	items, total, err := svc.ListByEnquiry(context.Background(), "e1", 20, 0)
	if err != nil {
		t.Fatalf("ListByEnquiry: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected total 2, got %d", total)
	}
	if len(items) != 2 || items[0].ID != "a2" || items[1].ID != "a1" {
		t.Fatalf("expected [a2 a1], got %v", items)
	}
}

func TestListRejectsBadTypeFilter(t *testing.T) {
	svc := newService(newFakeRepo(), nil, nil)

	if _, _, err := svc.List(context.Background(), ListFilter{ActivityType: "SMOKE_SIGNAL"}, 20, 0); !errors.Is(err, ErrInvalidActivityType) {
		t.Fatalf("expected ErrInvalidActivityType, got %v", err)
	}
}

func TestUpdateValidatesActivityType(t *testing.T) {
	repo := newFakeRepo(SalesActivity{ID: "a1", ActivityType: TypeCall})
	svc := newService(repo, nil, nil)

	bad := "SMOKE_SIGNAL"
	if _, err := svc.Update(context.Background(), "a1", UpdateRequest{ActivityType: &bad}); !errors.Is(err, ErrInvalidActivityType) {
		t.Fatalf("expected ErrInvalidActivityType, got %v", err)
	}

	good := "meeting"
	updated, err := svc.Update(context.Background(), "a1", UpdateRequest{ActivityType: &good})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ActivityType != TypeMeeting {
		t.Fatalf("expected %q, got %q", TypeMeeting, updated.ActivityType)
	}
}

func TestDeleteMissingActivity(t *testing.T) {
	svc := newService(newFakeRepo(), nil, nil)

	if err := svc.Delete(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCounts(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 1, d, 12, 0, 0, 0, time.UTC) }
	repo := newFakeRepo(
		SalesActivity{ID: "a1", SalesPersonID: "sp1", ActivityType: TypeCall, ActivityDate: day(1)},
		SalesActivity{ID: "a2", SalesPersonID: "sp1", ActivityType: TypeMeeting, ActivityDate: day(2)},
		SalesActivity{ID: "a3", SalesPersonID: "sp2", ActivityType: TypeCall, ActivityDate: day(3)},
	)
	svc := newService(repo, nil, nil)

	total, err := svc.CountTotal(context.Background())
	if err != nil || total != 3 {
		t.Fatalf("expected total 3, got %d (%v)", total, err)
	}

	calls, err := svc.CountByType(context.Background(), "call")
	if err != nil || calls != 2 {
		t.Fatalf("expected 2 calls, got %d (%v)", calls, err)
	}

	if _, err := svc.CountByType(context.Background(), "SMOKE_SIGNAL"); !errors.Is(err, ErrInvalidActivityType) {
		t.Fatalf("expected ErrInvalidActivityType, got %v", err)
	}

	sp1, err := svc.CountBySalesPerson(context.Background(), "sp1")
	if err != nil || sp1 != 2 {
		t.Fatalf("expected 2 for sp1, got %d (%v)", sp1, err)
	}
}
