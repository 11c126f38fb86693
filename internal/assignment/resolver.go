package assignment

import (
	"github.com/mohitkulkarni1999/enquiry-crm/internal/enquiry"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/salesperson"
)

const Unassigned = "Unassigned"

// ResolveAssignee names the person an enquiry is assigned to, with a strict
// precedence: live id match, then exact name, then exact email, then the
// denormalized snapshot on the reference itself, then "Unassigned". Both the
// engine's callers and the analytics aggregation group through this function
// so they can never disagree.
func ResolveAssignee(e enquiry.Enquiry, persons []salesperson.SalesPerson) string {
	ref := e.AssignedTo
	if ref == nil {
		return Unassigned
	}

	for _, sp := range persons {
		if sp.ID == ref.ID {
			return sp.Name
		}
	}
	if ref.Name != "" {
		for _, sp := range persons {
			if sp.Name == ref.Name {
				return sp.Name
			}
		}
	}
	if ref.Email != "" {
		for _, sp := range persons {
			if sp.Email == ref.Email {
				return sp.Name
			}
		}
	}

	// The person is gone; fall back to the snapshot taken at assignment time.
	if ref.Name != "" {
		return ref.Name
	}
	if ref.Email != "" {
		return ref.Email
	}
	return Unassigned
}

// ResolveAssigneeID returns the grouping key for an enquiry: the live person
// id when resolvable, otherwise the resolved display name.
func ResolveAssigneeID(e enquiry.Enquiry, persons []salesperson.SalesPerson) string {
	if e.AssignedTo == nil {
		return Unassigned
	}
	for _, sp := range persons {
		if sp.ID == e.AssignedTo.ID {
			return sp.ID
		}
	}
	return ResolveAssignee(e, persons)
}
