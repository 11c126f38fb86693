package analytics

import (
	"testing"

	"github.com/mohitkulkarni1999/enquiry-crm/internal/enquiry"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/salesperson"
)

func withStatus(statuses ...string) []enquiry.Enquiry {
	items := make([]enquiry.Enquiry, 0, len(statuses))
	for i, s := range statuses {
		items = append(items, enquiry.Enquiry{ID: string(rune('a' + i)), Status: s})
	}
	return items
}

func TestComputeFunnelBuckets(t *testing.T) {
	items := withStatus(
		enquiry.StatusNew,                 // lead, qualified
		enquiry.StatusUnqualified,         // lead only
		enquiry.StatusClosedLost,          // lead only
		enquiry.StatusInterested,          // opportunity
		enquiry.StatusInProgress,          // opportunity
		enquiry.StatusFollowUpScheduled,   // opportunity
		enquiry.StatusSiteVisitScheduled,  // opportunity
		enquiry.StatusSiteVisitCompleted,  // qualified, not opportunity
		enquiry.StatusClosedWon,           // closed won
		enquiry.StatusBooked,              // closed won
	)

	f := ComputeFunnel(items)
	if f.Leads != 10 {
		t.Fatalf("expected 10 leads, got %d", f.Leads)
	}
	if f.Qualified != 8 {
		t.Fatalf("expected 8 qualified, got %d", f.Qualified)
	}
	if f.Opportunities != 4 {
		t.Fatalf("expected 4 opportunities, got %d", f.Opportunities)
	}
	if f.ClosedWon != 2 {
		t.Fatalf("expected 2 closed won, got %d", f.ClosedWon)
	}
}

func TestComputeFunnelEmpty(t *testing.T) {
	f := ComputeFunnel(nil)
	if f.Leads != 0 || f.Qualified != 0 || f.Opportunities != 0 || f.ClosedWon != 0 {
		t.Fatalf("expected zero funnel, got %+v", f)
	}
}

func TestConversionRate(t *testing.T) {
	cases := []struct {
		total, converted int
		want             string
	}{
		{0, 0, "0%"},
		{0, 5, "0%"},
		{10, 0, "0%"},
		{10, 3, "30%"},
		{3, 1, "33%"},
		{3, 2, "67%"},
		{8, 1, "13%"},
		{10, 10, "100%"},
		{10, 12, "100%"}, // clamped
	}
	for _, tc := range cases {
		if got := ConversionRate(tc.total, tc.converted); got != tc.want {
			t.Fatalf("ConversionRate(%d, %d): expected %s, got %s", tc.total, tc.converted, tc.want, got)
		}
	}
}

func TestComputeTeamPerformance(t *testing.T) {
	persons := []salesperson.SalesPerson{
		{ID: "spA", Name: "Rajesh Kumar"},
		{ID: "spB", Name: "Priya Sharma"},
	}
	ref := func(id string) *enquiry.AssigneeRef { return &enquiry.AssigneeRef{ID: id} }

	items := []enquiry.Enquiry{
		{ID: "e1", Status: enquiry.StatusClosedWon, AssignedTo: ref("spA")},
		{ID: "e2", Status: enquiry.StatusBooked, AssignedTo: ref("spA")},
		{ID: "e3", Status: enquiry.StatusInProgress, AssignedTo: ref("spA")},
		{ID: "e4", Status: enquiry.StatusClosedWon, AssignedTo: ref("spB")},
		{ID: "e5", Status: enquiry.StatusNew, AssignedTo: ref("spB")},
		{ID: "e6", Status: enquiry.StatusNew, AssignedTo: ref("spB")},
		{ID: "e7", Status: enquiry.StatusNew},
	}

	members := ComputeTeamPerformance(items, persons)
	if len(members) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(members))
	}

	top := members[0]
	if top.Name != "Rajesh Kumar" || top.Total != 3 || top.Closed != 2 {
		t.Fatalf("unexpected leader: %+v", top)
	}
	if top.Revenue != 2*AverageDealValue {
		t.Fatalf("expected revenue %d, got %d", 2*AverageDealValue, top.Revenue)
	}
	if top.ConversionRate != 67 {
		t.Fatalf("expected 67%% conversion, got %d", top.ConversionRate)
	}
	if top.SalesPersonID != "spA" {
		t.Fatalf("expected spA id, got %q", top.SalesPersonID)
	}

	second := members[1]
	if second.Name != "Priya Sharma" || second.Revenue != AverageDealValue || second.Total != 3 {
		t.Fatalf("unexpected second: %+v", second)
	}

	last := members[2]
	if last.Name != "Unassigned" || last.Revenue != 0 || last.Total != 1 {
		t.Fatalf("unexpected unassigned group: %+v", last)
	}
	if last.SalesPersonID != "" {
		t.Fatalf("expected empty id for unassigned, got %q", last.SalesPersonID)
	}
}

func TestComputeTeamPerformanceOrdering(t *testing.T) {
	persons := []salesperson.SalesPerson{
		{ID: "spA", Name: "Amit Patel"},
		{ID: "spB", Name: "Sneha Reddy"},
	}
	ref := func(id string) *enquiry.AssigneeRef { return &enquiry.AssigneeRef{ID: id} }

	// Equal revenue; spB carries more total, so it ranks first.
	items := []enquiry.Enquiry{
		{ID: "e1", Status: enquiry.StatusClosedWon, AssignedTo: ref("spA")},
		{ID: "e2", Status: enquiry.StatusClosedWon, AssignedTo: ref("spB")},
		{ID: "e3", Status: enquiry.StatusNew, AssignedTo: ref("spB")},
	}

	members := ComputeTeamPerformance(items, persons)
	if members[0].Name != "Sneha Reddy" {
		t.Fatalf("expected total tie-break first, got %s", members[0].Name)
	}

	// Fully tied groups fall back to name order.
	items = []enquiry.Enquiry{
		{ID: "e1", Status: enquiry.StatusNew, AssignedTo: ref("spB")},
		{ID: "e2", Status: enquiry.StatusNew, AssignedTo: ref("spA")},
	}
	members = ComputeTeamPerformance(items, persons)
	if members[0].Name != "Amit Patel" {
		t.Fatalf("expected name tie-break first, got %s", members[0].Name)
	}
}

func TestComputeSummary(t *testing.T) {
	items := withStatus(
		enquiry.StatusClosedWon,
		enquiry.StatusBooked,
		enquiry.StatusNew,
		enquiry.StatusNew,
		enquiry.StatusUnqualified,
	)

	s := ComputeSummary(items)
	if s.TotalEnquiries != 5 {
		t.Fatalf("expected 5 enquiries, got %d", s.TotalEnquiries)
	}
	if s.TotalRevenue != 2*AverageDealValue {
		t.Fatalf("expected revenue %d, got %d", 2*AverageDealValue, s.TotalRevenue)
	}
	if s.AvgDealSize != AverageDealValue {
		t.Fatalf("expected avg deal %d, got %d", AverageDealValue, s.AvgDealSize)
	}
	if s.ConversionRate != "40%" {
		t.Fatalf("expected 40%%, got %s", s.ConversionRate)
	}
	if s.StatusCounts[enquiry.StatusNew] != 2 {
		t.Fatalf("expected 2 NEW, got %d", s.StatusCounts[enquiry.StatusNew])
	}

	empty := ComputeSummary(nil)
	if empty.ConversionRate != "0%" || empty.TotalRevenue != 0 {
		t.Fatalf("unexpected empty summary: %+v", empty)
	}
	if empty.AvgDealSize != AverageDealValue {
		t.Fatalf("expected default avg deal size, got %d", empty.AvgDealSize)
	}
}
