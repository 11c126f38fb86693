package assignment

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mohitkulkarni1999/enquiry-crm/internal/enquiry"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/salesperson"
)

var (
	ErrEnquiryNotFound     = errors.New("enquiry not found")
	ErrSalesPersonNotFound = errors.New("sales person not found")
	ErrNoAvailableCapacity = errors.New("no available sales persons")
)

// EnquiryStore is the slice of the enquiry repository the engine needs.
type EnquiryStore interface {
	GetByID(ctx context.Context, id string) (enquiry.Enquiry, error)
	SetAssignee(ctx context.Context, id string, ref *enquiry.AssigneeRef, now time.Time) (enquiry.Enquiry, error)
	CountActiveByAssignee(ctx context.Context, salesPersonID string) (int64, error)
}

// SalesPersonStore is the slice of the sales person repository the engine needs.
type SalesPersonStore interface {
	GetByID(ctx context.Context, id string) (salesperson.SalesPerson, error)
	ListAvailable(ctx context.Context) ([]salesperson.SalesPerson, error)
}

type Engine struct {
	enquiries EnquiryStore
	persons   SalesPersonStore
}

func NewEngine(enquiries EnquiryStore, persons SalesPersonStore) *Engine {
	return &Engine{enquiries: enquiries, persons: persons}
}

// Assign binds the enquiry to the given sales person, overwriting any
// previous assignee. Assigning to an unavailable person is allowed but
// reported through the warning flag; the UI treats it as a fallback choice,
// not an error. Reassigning the same person is a no-op apart from updatedAt.
func (e *Engine) Assign(ctx context.Context, enquiryID, salesPersonID string) (enquiry.Enquiry, bool, error) {
	enquiryID = strings.TrimSpace(enquiryID)
	salesPersonID = strings.TrimSpace(salesPersonID)

	if _, err := e.enquiries.GetByID(ctx, enquiryID); err != nil {
		return enquiry.Enquiry{}, false, mapErr(err, ErrEnquiryNotFound)
	}

	sp, err := e.persons.GetByID(ctx, salesPersonID)
	if err != nil {
		return enquiry.Enquiry{}, false, mapErr(err, ErrSalesPersonNotFound)
	}

	updated, err := e.enquiries.SetAssignee(ctx, enquiryID, refFor(sp), time.Now().UTC())
	if err != nil {
		return enquiry.Enquiry{}, false, mapErr(err, ErrEnquiryNotFound)
	}

	return updated, !sp.Available, nil
}

// AutoAssign picks the available sales person with the fewest active
// (non-closed) enquiries. Load is re-evaluated on every call; ties go to the
// lexicographically smallest id, which makes the choice deterministic for a
// fixed snapshot.
func (e *Engine) AutoAssign(ctx context.Context, enquiryID string) (enquiry.Enquiry, salesperson.SalesPerson, error) {
	enquiryID = strings.TrimSpace(enquiryID)

	if _, err := e.enquiries.GetByID(ctx, enquiryID); err != nil {
		return enquiry.Enquiry{}, salesperson.SalesPerson{}, mapErr(err, ErrEnquiryNotFound)
	}

	candidates, err := e.persons.ListAvailable(ctx)
	if err != nil {
		return enquiry.Enquiry{}, salesperson.SalesPerson{}, err
	}
	if len(candidates) == 0 {
		return enquiry.Enquiry{}, salesperson.SalesPerson{}, ErrNoAvailableCapacity
	}

	chosen, err := e.leastLoaded(ctx, candidates)
	if err != nil {
		return enquiry.Enquiry{}, salesperson.SalesPerson{}, err
	}

	updated, err := e.enquiries.SetAssignee(ctx, enquiryID, refFor(chosen), time.Now().UTC())
	if err != nil {
		return enquiry.Enquiry{}, salesperson.SalesPerson{}, mapErr(err, ErrEnquiryNotFound)
	}

	return updated, chosen, nil
}

// Unassign clears the assignee reference.
func (e *Engine) Unassign(ctx context.Context, enquiryID string) (enquiry.Enquiry, error) {
	updated, err := e.enquiries.SetAssignee(ctx, strings.TrimSpace(enquiryID), nil, time.Now().UTC())
	if err != nil {
		return enquiry.Enquiry{}, mapErr(err, ErrEnquiryNotFound)
	}
	return updated, nil
}

func (e *Engine) leastLoaded(ctx context.Context, candidates []salesperson.SalesPerson) (salesperson.SalesPerson, error) {
	var chosen salesperson.SalesPerson
	var chosenLoad int64 = -1

	for _, sp := range candidates {
		load, err := e.enquiries.CountActiveByAssignee(ctx, sp.ID)
		if err != nil {
			return salesperson.SalesPerson{}, err
		}
		if chosenLoad < 0 || load < chosenLoad || (load == chosenLoad && sp.ID < chosen.ID) {
			chosen = sp
			chosenLoad = load
		}
	}

	return chosen, nil
}

func refFor(sp salesperson.SalesPerson) *enquiry.AssigneeRef {
	return &enquiry.AssigneeRef{
		ID:    sp.ID,
		Name:  sp.Name,
		Email: sp.Email,
	}
}

func mapErr(err error, notFound error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notFound
	}
	return err
}
