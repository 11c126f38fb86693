// Package analytics derives reporting figures from enquiry snapshots. All
// computations are pure and recomputed per read; nothing here mutates state.
package analytics

import (
	"math"
	"sort"
	"strconv"

	"github.com/mohitkulkarni1999/enquiry-crm/internal/assignment"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/enquiry"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/salesperson"
)

// AverageDealValue is the flat per-closed-deal revenue figure (₹50K) the
// reporting screens assume; it is not derived from real monetary amounts.
const AverageDealValue = 50000

type Funnel struct {
	Leads         int `json:"leads"`
	Qualified     int `json:"qualified"`
	Opportunities int `json:"opportunities"`
	ClosedWon     int `json:"closedWon"`
}

type MemberPerformance struct {
	SalesPersonID  string `json:"salesPersonId,omitempty"`
	Name           string `json:"name"`
	Total          int    `json:"total"`
	Closed         int    `json:"closed"`
	Revenue        int    `json:"revenue"`
	ConversionRate int    `json:"conversionRate"`
}

type Summary struct {
	TotalEnquiries int            `json:"totalEnquiries"`
	TotalRevenue   int            `json:"totalRevenue"`
	AvgDealSize    int            `json:"avgDealSize"`
	ConversionRate string         `json:"conversionRate"`
	Funnel         Funnel         `json:"funnel"`
	StatusCounts   map[string]int `json:"statusCounts"`
}

func isClosedWon(status string) bool {
	return status == enquiry.StatusClosedWon || status == enquiry.StatusBooked
}

func isOpportunity(status string) bool {
	switch status {
	case enquiry.StatusInterested, enquiry.StatusInProgress,
		enquiry.StatusFollowUpScheduled, enquiry.StatusSiteVisitScheduled:
		return true
	}
	return false
}

func ComputeFunnel(enquiries []enquiry.Enquiry) Funnel {
	f := Funnel{Leads: len(enquiries)}
	for _, e := range enquiries {
		if e.Status != enquiry.StatusUnqualified && e.Status != enquiry.StatusClosedLost {
			f.Qualified++
		}
		if isOpportunity(e.Status) {
			f.Opportunities++
		}
		if isClosedWon(e.Status) {
			f.ClosedWon++
		}
	}
	return f
}

// ComputeTeamPerformance groups enquiries by resolved assignee and builds the
// leaderboard: revenue descending, then total descending, then name ascending.
func ComputeTeamPerformance(enquiries []enquiry.Enquiry, persons []salesperson.SalesPerson) []MemberPerformance {
	byKey := make(map[string]*MemberPerformance)
	order := make([]string, 0)

	for _, e := range enquiries {
		key := assignment.ResolveAssigneeID(e, persons)
		member, ok := byKey[key]
		if !ok {
			member = &MemberPerformance{Name: assignment.ResolveAssignee(e, persons)}
			for _, sp := range persons {
				if sp.ID == key {
					member.SalesPersonID = sp.ID
				}
			}
			byKey[key] = member
			order = append(order, key)
		}
		member.Total++
		if isClosedWon(e.Status) {
			member.Closed++
			member.Revenue += AverageDealValue
		}
	}

	result := make([]MemberPerformance, 0, len(order))
	for _, key := range order {
		member := byKey[key]
		member.ConversionRate = roundPercent(member.Closed, member.Total)
		result = append(result, *member)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Revenue != result[j].Revenue {
			return result[i].Revenue > result[j].Revenue
		}
		if result[i].Total != result[j].Total {
			return result[i].Total > result[j].Total
		}
		return result[i].Name < result[j].Name
	})

	return result
}

func ComputeSummary(enquiries []enquiry.Enquiry) Summary {
	funnel := ComputeFunnel(enquiries)

	totalRevenue := funnel.ClosedWon * AverageDealValue
	avgDealSize := AverageDealValue
	if funnel.ClosedWon > 0 {
		avgDealSize = totalRevenue / funnel.ClosedWon
	}

	statusCounts := make(map[string]int)
	for _, e := range enquiries {
		status := e.Status
		if status == "" {
			status = "UNKNOWN"
		}
		statusCounts[status]++
	}

	return Summary{
		TotalEnquiries: len(enquiries),
		TotalRevenue:   totalRevenue,
		AvgDealSize:    avgDealSize,
		ConversionRate: ConversionRate(len(enquiries), funnel.ClosedWon),
		Funnel:         funnel,
		StatusCounts:   statusCounts,
	}
}

// ConversionRate formats converted/total as a whole percentage. converted is
// clamped to total so out-of-contract inputs cannot report above 100%.
func ConversionRate(total, converted int) string {
	if total == 0 {
		return "0%"
	}
	if converted > total {
		converted = total
	}
	return strconv.Itoa(roundPercent(converted, total)) + "%"
}

// roundPercent rounds half-up, matching the front end's Math.round.
func roundPercent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Floor(float64(part)/float64(whole)*100 + 0.5))
}
