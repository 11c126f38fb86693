package enquiry

import "time"

// Lifecycle statuses, transmitted as upper-snake tokens. NEW is initial;
// CLOSED_WON, CLOSED_LOST and BOOKED are terminal by convention only: any
// valid token is writable, there is no enforced transition table.
const (
	StatusNew                  = "NEW"
	StatusAssigned             = "ASSIGNED"
	StatusInProgress           = "IN_PROGRESS"
	StatusInterested           = "INTERESTED"
	StatusNotInterested        = "NOT_INTERESTED"
	StatusUnqualified          = "UNQUALIFIED"
	StatusFollowUpScheduled    = "FOLLOW_UP_SCHEDULED"
	StatusSiteVisitScheduled   = "SITE_VISIT_SCHEDULED"
	StatusSiteVisitCompleted   = "SITE_VISIT_COMPLETED"
	StatusNegotiation          = "NEGOTIATION"
	StatusDocumentation        = "DOCUMENTATION"
	StatusTokenPayment         = "TOKEN_PAYMENT"
	StatusLoanProcessing       = "LOAN_PROCESSING"
	StatusFinalBooking         = "FINAL_BOOKING"
	StatusRegistrationComplete = "REGISTRATION_COMPLETE"
	StatusClosedWon            = "CLOSED_WON"
	StatusClosedLost           = "CLOSED_LOST"
	StatusBooked               = "BOOKED"
	StatusAssignedToCRM        = "ASSIGNED_TO_CRM"

	InterestInterested    = "interested"
	InterestNotInterested = "not_interested"

	LevelHot  = "hot"
	LevelWarm = "warm"
	LevelCold = "cold"

	SourceAdvertisement = "ADVERTISEMENT"
	SourceReferral      = "REFERRAL"
	SourceWalkIn        = "WALK_IN"
	SourceWebsite       = "WEBSITE"
	SourceOther         = "OTHER"
)

var validStatuses = map[string]struct{}{
	StatusNew:                  {},
	StatusAssigned:             {},
	StatusInProgress:           {},
	StatusInterested:           {},
	StatusNotInterested:        {},
	StatusUnqualified:          {},
	StatusFollowUpScheduled:    {},
	StatusSiteVisitScheduled:   {},
	StatusSiteVisitCompleted:   {},
	StatusNegotiation:          {},
	StatusDocumentation:        {},
	StatusTokenPayment:         {},
	StatusLoanProcessing:       {},
	StatusFinalBooking:         {},
	StatusRegistrationComplete: {},
	StatusClosedWon:            {},
	StatusClosedLost:           {},
	StatusBooked:               {},
	StatusAssignedToCRM:        {},
}

// ClosedStatuses are excluded when computing a sales person's active load.
var ClosedStatuses = []string{StatusClosedWon, StatusClosedLost, StatusBooked}

var validPropertyTypes = map[string]struct{}{
	"ONE_RK": {}, "ONE_BHK": {}, "ONE_HALF_BHK": {}, "TWO_BHK": {},
	"TWO_HALF_BHK": {}, "THREE_BHK": {}, "THREE_HALF_BHK": {}, "FOUR_BHK": {},
	"FOUR_BHK_PLUS": {}, "VILLA": {}, "PENTHOUSE": {}, "DUPLEX": {},
	"STUDIO": {}, "COMMERCIAL": {}, "PLOT": {},
}

var validBudgetRanges = map[string]struct{}{
	"UNDER_5L": {}, "FIVE_TO_10L": {}, "TEN_TO_20L": {}, "TWENTY_TO_30L": {},
	"THIRTY_TO_50L": {}, "FIFTY_TO_75L": {}, "SEVENTY_FIVE_L_TO_1CR": {},
	"ONE_TO_1_5CR": {}, "ONE_5_TO_2CR": {}, "TWO_TO_3CR": {},
	"THREE_TO_5CR": {}, "ABOVE_5CR": {},
}

var validSources = map[string]struct{}{
	SourceAdvertisement: {},
	SourceReferral:      {},
	SourceWalkIn:        {},
	SourceWebsite:       {},
	SourceOther:         {},
}

// BookingStages in funnel order; reaching "registration" unlocks the CRM handoff.
var BookingStages = []string{
	"initial_discussion",
	"site_visit_scheduled",
	"site_visit_completed",
	"negotiation",
	"documentation",
	"token_payment",
	"loan_processing",
	"final_booking",
	"registration",
}

const StageRegistration = "registration"

func IsValidStatus(value string) bool {
	_, ok := validStatuses[value]
	return ok
}

func IsValidPropertyType(value string) bool {
	_, ok := validPropertyTypes[value]
	return ok
}

func IsValidBudgetRange(value string) bool {
	_, ok := validBudgetRanges[value]
	return ok
}

func IsValidSource(value string) bool {
	_, ok := validSources[value]
	return ok
}

func IsValidInterest(value string) bool {
	return value == InterestInterested || value == InterestNotInterested
}

func IsValidInterestLevel(value string) bool {
	return value == LevelHot || value == LevelWarm || value == LevelCold
}

func IsValidBookingStage(value string) bool {
	for _, stage := range BookingStages {
		if stage == value {
			return true
		}
	}
	return false
}

// AssigneeRef is a weak reference to a sales person. Name and email are
// denormalized so the assignee stays resolvable after the person is deleted.
type AssigneeRef struct {
	ID    string `bson:"id" json:"id"`
	Name  string `bson:"name,omitempty" json:"name,omitempty"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
}

type Enquiry struct {
	ID              string       `bson:"_id,omitempty" json:"id"`
	CustomerName    string       `bson:"customerName" json:"customerName"`
	CustomerEmail   string       `bson:"customerEmail,omitempty" json:"customerEmail,omitempty"`
	CustomerMobile  string       `bson:"customerMobile" json:"customerMobile"`
	PropertyType    string       `bson:"propertyType" json:"propertyType"`
	BudgetRange     string       `bson:"budgetRange" json:"budgetRange"`
	Source          string       `bson:"source" json:"source"`
	Status          string       `bson:"status" json:"status"`
	Interest        string       `bson:"interest,omitempty" json:"interest,omitempty"`
	InterestLevel   string       `bson:"interestLevel,omitempty" json:"interestLevel,omitempty"`
	ColdReason      string       `bson:"coldReason,omitempty" json:"coldReason,omitempty"`
	BookingProgress string       `bson:"bookingProgress,omitempty" json:"bookingProgress,omitempty"`
	Remarks         string       `bson:"remarks,omitempty" json:"remarks,omitempty"`
	IsUnqualified   bool         `bson:"isUnqualified" json:"isUnqualified"`
	AssignedTo      *AssigneeRef `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	FollowUpDate    *time.Time   `bson:"followUpDate,omitempty" json:"followUpDate,omitempty"`
	CreatedAt       time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time    `bson:"updatedAt" json:"updatedAt"`
	AssignedToCRMAt *time.Time   `bson:"assignedToCRMAt,omitempty" json:"assignedToCRMAt,omitempty"`
}

type CreateRequest struct {
	CustomerName   string `json:"customerName" validate:"required"`
	CustomerEmail  string `json:"customerEmail" validate:"omitempty,email"`
	CustomerMobile string `json:"customerMobile" validate:"required,mobile10"`
	PropertyType   string `json:"propertyType" validate:"required"`
	BudgetRange    string `json:"budgetRange" validate:"required"`
	Source         string `json:"source"`
	Remarks        string `json:"remarks"`
}

// UpdateRequest carries merge semantics: nil fields are left untouched.
type UpdateRequest struct {
	CustomerName   *string    `json:"customerName" validate:"omitempty,min=1"`
	CustomerEmail  *string    `json:"customerEmail" validate:"omitempty,email"`
	CustomerMobile *string    `json:"customerMobile" validate:"omitempty,mobile10"`
	PropertyType   *string    `json:"propertyType"`
	BudgetRange    *string    `json:"budgetRange"`
	Source         *string    `json:"source"`
	Remarks        *string    `json:"remarks"`
	FollowUpDate   *time.Time `json:"followUpDate"`
}

// WorkflowPatch is the single write shape for workflow mutations. Set fields
// are written; Clear flags unset their field. The service layer owns the
// derived-field reset rules and composes patches accordingly.
type WorkflowPatch struct {
	Status          *string
	Interest        *string
	InterestLevel   *string
	ColdReason      *string
	BookingProgress *string
	IsUnqualified   *bool
	FollowUpDate    *time.Time
	Remarks         *string
	AssignedToCRMAt *time.Time

	ClearInterestLevel   bool
	ClearColdReason      bool
	ClearBookingProgress bool
}

type ListFilter struct {
	Status         string
	InterestLevel  string
	SalesPersonID  string
	Search         string
	UnassignedOnly bool
	ActiveOnly     bool
}
