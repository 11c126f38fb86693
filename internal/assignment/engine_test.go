package assignment

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mohitkulkarni1999/enquiry-crm/internal/enquiry"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/salesperson"
)

type fakeEnquiryStore struct {
	byID map[string]enquiry.Enquiry
	// load overrides CountActiveByAssignee when set for an id.
	load map[string]int64
}

func (s *fakeEnquiryStore) GetByID(ctx context.Context, id string) (enquiry.Enquiry, error) {
	e, ok := s.byID[id]
	if !ok {
		return enquiry.Enquiry{}, mongo.ErrNoDocuments
	}
	return e, nil
}

func (s *fakeEnquiryStore) SetAssignee(ctx context.Context, id string, ref *enquiry.AssigneeRef, now time.Time) (enquiry.Enquiry, error) {
	e, ok := s.byID[id]
	if !ok {
		return enquiry.Enquiry{}, mongo.ErrNoDocuments
	}
	e.AssignedTo = ref
	e.UpdatedAt = now
	s.byID[id] = e
	return e, nil
}

func (s *fakeEnquiryStore) CountActiveByAssignee(ctx context.Context, salesPersonID string) (int64, error) {
	if n, ok := s.load[salesPersonID]; ok {
		return n, nil
	}
	var n int64
	for _, e := range s.byID {
		if e.AssignedTo != nil && e.AssignedTo.ID == salesPersonID {
			n++
		}
	}
	return n, nil
}

type fakePersonStore struct {
	persons []salesperson.SalesPerson
}

func (s *fakePersonStore) GetByID(ctx context.Context, id string) (salesperson.SalesPerson, error) {
	for _, sp := range s.persons {
		if sp.ID == id {
			return sp, nil
		}
	}
	return salesperson.SalesPerson{}, mongo.ErrNoDocuments
}

func (s *fakePersonStore) ListAvailable(ctx context.Context) ([]salesperson.SalesPerson, error) {
	available := make([]salesperson.SalesPerson, 0)
	for _, sp := range s.persons {
		if sp.Available {
			available = append(available, sp)
		}
	}
	return available, nil
}

func person(id, name string, available bool) salesperson.SalesPerson {
	return salesperson.SalesPerson{ID: id, Name: name, Email: id + "@example.com", Available: available}
}

func newStores(persons ...salesperson.SalesPerson) (*fakeEnquiryStore, *fakePersonStore) {
	es := &fakeEnquiryStore{
		byID: map[string]enquiry.Enquiry{
			"e1": {ID: "e1", Status: enquiry.StatusNew},
		},
		load: map[string]int64{},
	}
	return es, &fakePersonStore{persons: persons}
}

func TestAssignDenormalizesReference(t *testing.T) {
	es, ps := newStores(person("sp1", "Rajesh Kumar", true))
	engine := NewEngine(es, ps)

	updated, warning, err := engine.Assign(context.Background(), "e1", "sp1")
	if err != nil {
		t.Fatalf("Assign error: %v", err)
	}
	if warning {
		t.Fatalf("unexpected warning for available person")
	}
	ref := updated.AssignedTo
	if ref == nil || ref.ID != "sp1" || ref.Name != "Rajesh Kumar" || ref.Email != "sp1@example.com" {
		t.Fatalf("unexpected assignee ref: %+v", ref)
	}
}

func TestAssignUnavailableWarns(t *testing.T) {
	es, ps := newStores(person("sp1", "Priya Sharma", false))
	engine := NewEngine(es, ps)

	updated, warning, err := engine.Assign(context.Background(), "e1", "sp1")
	if err != nil {
		t.Fatalf("Assign error: %v", err)
	}
	if !warning {
		t.Fatalf("expected warning for unavailable person")
	}
	if updated.AssignedTo == nil || updated.AssignedTo.ID != "sp1" {
		t.Fatalf("expected assignment to proceed, got %+v", updated.AssignedTo)
	}
}

func TestAssignIsIdempotentReassign(t *testing.T) {
	es, ps := newStores(person("sp1", "Amit Patel", true))
	engine := NewEngine(es, ps)

	first, _, err := engine.Assign(context.Background(), "e1", "sp1")
	if err != nil {
		t.Fatalf("Assign error: %v", err)
	}
	second, _, err := engine.Assign(context.Background(), "e1", "sp1")
	if err != nil {
		t.Fatalf("Assign error: %v", err)
	}
	if second.AssignedTo == nil || *second.AssignedTo != *first.AssignedTo {
		t.Fatalf("expected identical ref on reassign, got %+v vs %+v", second.AssignedTo, first.AssignedTo)
	}
}

func TestAssignMissingEntities(t *testing.T) {
	es, ps := newStores(person("sp1", "Sneha Reddy", true))
	engine := NewEngine(es, ps)

	if _, _, err := engine.Assign(context.Background(), "ghost", "sp1"); !errors.Is(err, ErrEnquiryNotFound) {
		t.Fatalf("expected ErrEnquiryNotFound, got %v", err)
	}
	if _, _, err := engine.Assign(context.Background(), "e1", "ghost"); !errors.Is(err, ErrSalesPersonNotFound) {
		t.Fatalf("expected ErrSalesPersonNotFound, got %v", err)
	}
}

func TestAutoAssignPicksLeastLoaded(t *testing.T) {
	es, ps := newStores(
		person("spA", "Rajesh Kumar", true),
		person("spB", "Priya Sharma", true),
		person("spC", "Amit Patel", true),
	)
	es.load["spA"] = 1
	es.load["spB"] = 3
	es.load["spC"] = 2
	engine := NewEngine(es, ps)

	updated, chosen, err := engine.AutoAssign(context.Background(), "e1")
	if err != nil {
		t.Fatalf("AutoAssign error: %v", err)
	}
	if chosen.ID != "spA" {
		t.Fatalf("expected spA (least loaded), got %s", chosen.ID)
	}
	if updated.AssignedTo == nil || updated.AssignedTo.ID != "spA" {
		t.Fatalf("expected enquiry assigned to spA, got %+v", updated.AssignedTo)
	}
}

func TestAutoAssignSkipsUnavailable(t *testing.T) {
	es, ps := newStores(
		person("spA", "Rajesh Kumar", false),
		person("spB", "Priya Sharma", true),
	)
	es.load["spA"] = 0
	es.load["spB"] = 5
	engine := NewEngine(es, ps)

	_, chosen, err := engine.AutoAssign(context.Background(), "e1")
	if err != nil {
		t.Fatalf("AutoAssign error: %v", err)
	}
	if chosen.ID != "spB" {
		t.Fatalf("expected unavailable spA skipped, got %s", chosen.ID)
	}
}

func TestAutoAssignTieBreaksOnID(t *testing.T) {
	es, ps := newStores(
		person("spB", "Priya Sharma", true),
		person("spA", "Rajesh Kumar", true),
	)
	es.load["spA"] = 2
	es.load["spB"] = 2
	engine := NewEngine(es, ps)

	for i := 0; i < 3; i++ {
		_, chosen, err := engine.AutoAssign(context.Background(), "e1")
		if err != nil {
			t.Fatalf("AutoAssign error: %v", err)
		}
		if chosen.ID != "spA" {
			t.Fatalf("expected deterministic tie-break to spA, got %s", chosen.ID)
		}
	}
}

func TestAutoAssignNoCandidates(t *testing.T) {
	es, ps := newStores(person("spA", "Rajesh Kumar", false))
	engine := NewEngine(es, ps)

	_, _, err := engine.AutoAssign(context.Background(), "e1")
	if !errors.Is(err, ErrNoAvailableCapacity) {
		t.Fatalf("expected ErrNoAvailableCapacity, got %v", err)
	}
}

func TestUnassignClearsReference(t *testing.T) {
	es, ps := newStores(person("sp1", "Rajesh Kumar", true))
	engine := NewEngine(es, ps)

	if _, _, err := engine.Assign(context.Background(), "e1", "sp1"); err != nil {
		t.Fatalf("Assign error: %v", err)
	}
	updated, err := engine.Unassign(context.Background(), "e1")
	if err != nil {
		t.Fatalf("Unassign error: %v", err)
	}
	if updated.AssignedTo != nil {
		t.Fatalf("expected assignee cleared, got %+v", updated.AssignedTo)
	}

	if _, err := engine.Unassign(context.Background(), "ghost"); !errors.Is(err, ErrEnquiryNotFound) {
		t.Fatalf("expected ErrEnquiryNotFound, got %v", err)
	}
}
