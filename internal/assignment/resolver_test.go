package assignment

import (
	"testing"

	"github.com/mohitkulkarni1999/enquiry-crm/internal/enquiry"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/salesperson"
)

func TestResolveAssigneePrecedence(t *testing.T) {
	persons := []salesperson.SalesPerson{
		{ID: "sp1", Name: "Rajesh Kumar", Email: "rajesh@example.com"},
		{ID: "sp2", Name: "Priya Sharma", Email: "priya@example.com"},
	}

	cases := []struct {
		name string
		ref  *enquiry.AssigneeRef
		want string
	}{
		{"nil ref", nil, Unassigned},
		{"live id", &enquiry.AssigneeRef{ID: "sp2", Name: "Stale Name"}, "Priya Sharma"},
		{"name fallback", &enquiry.AssigneeRef{ID: "gone", Name: "Rajesh Kumar"}, "Rajesh Kumar"},
		{"email fallback", &enquiry.AssigneeRef{ID: "gone", Email: "priya@example.com"}, "Priya Sharma"},
		{"snapshot name", &enquiry.AssigneeRef{ID: "gone", Name: "Ex Employee"}, "Ex Employee"},
		{"snapshot email", &enquiry.AssigneeRef{ID: "gone", Email: "ex@example.com"}, "ex@example.com"},
		{"bare dangling id", &enquiry.AssigneeRef{ID: "gone"}, Unassigned},
	}

	for _, tc := range cases {
		e := enquiry.Enquiry{AssignedTo: tc.ref}
		if got := ResolveAssignee(e, persons); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestResolveAssigneeIDGroupsByLiveID(t *testing.T) {
	persons := []salesperson.SalesPerson{
		{ID: "sp1", Name: "Rajesh Kumar", Email: "rajesh@example.com"},
	}

	live := enquiry.Enquiry{AssignedTo: &enquiry.AssigneeRef{ID: "sp1"}}
	if got := ResolveAssigneeID(live, persons); got != "sp1" {
		t.Fatalf("expected live id key, got %q", got)
	}

	gone := enquiry.Enquiry{AssignedTo: &enquiry.AssigneeRef{ID: "ghost", Name: "Ex Employee"}}
	if got := ResolveAssigneeID(gone, persons); got != "Ex Employee" {
		t.Fatalf("expected snapshot name key, got %q", got)
	}

	none := enquiry.Enquiry{}
	if got := ResolveAssigneeID(none, persons); got != Unassigned {
		t.Fatalf("expected %q, got %q", Unassigned, got)
	}
}
