package salesactivity

import "time"

// Activity types, upper-snake on the wire like the other enums.
const (
	TypeCall      = "CALL"
	TypeEmail     = "EMAIL"
	TypeMeeting   = "MEETING"
	TypeSiteVisit = "SITE_VISIT"
	TypeFollowUp  = "FOLLOW_UP"
	TypeOther     = "OTHER"
)

var validTypes = map[string]struct{}{
	TypeCall:      {},
	TypeEmail:     {},
	TypeMeeting:   {},
	TypeSiteVisit: {},
	TypeFollowUp:  {},
	TypeOther:     {},
}

func IsValidType(value string) bool {
	_, ok := validTypes[value]
	return ok
}

// SalesActivity is one logged touch-point with a lead. EnquiryID and
// SalesPersonID are weak references; the log outlives both.
type SalesActivity struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	EnquiryID     string    `bson:"enquiryId,omitempty" json:"enquiryId,omitempty"`
	SalesPersonID string    `bson:"salesPersonId,omitempty" json:"salesPersonId,omitempty"`
	ActivityType  string    `bson:"activityType" json:"activityType"`
	Notes         string    `bson:"notes,omitempty" json:"notes,omitempty"`
	ActivityDate  time.Time `bson:"activityDate" json:"activityDate"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

type CreateRequest struct {
	EnquiryID     string     `json:"enquiryId"`
	SalesPersonID string     `json:"salesPersonId"`
	ActivityType  string     `json:"activityType" validate:"required"`
	Notes         string     `json:"notes" validate:"max=1000"`
	ActivityDate  *time.Time `json:"activityDate"`
}

// UpdateRequest carries merge semantics: nil fields are left untouched.
type UpdateRequest struct {
	EnquiryID     *string    `json:"enquiryId"`
	SalesPersonID *string    `json:"salesPersonId"`
	ActivityType  *string    `json:"activityType"`
	Notes         *string    `json:"notes" validate:"omitempty,max=1000"`
	ActivityDate  *time.Time `json:"activityDate"`
}

type ListFilter struct {
	EnquiryID     string
	SalesPersonID string
	ActivityType  string
	Search        string
	From          time.Time
	To            time.Time
}
