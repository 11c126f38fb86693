package enquiry

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound               = errors.New("enquiry not found")
	ErrInvalidStatus          = errors.New("invalid status")
	ErrInvalidPropertyType    = errors.New("invalid property type")
	ErrInvalidBudgetRange     = errors.New("invalid budget range")
	ErrInvalidSource          = errors.New("invalid source")
	ErrInvalidInterest        = errors.New("invalid interest")
	ErrInvalidInterestLevel   = errors.New("invalid interest level")
	ErrInvalidBookingStage    = errors.New("invalid booking stage")
	ErrRegistrationIncomplete = errors.New("booking progress has not reached registration")
	ErrColdReasonNotCold      = errors.New("cold reason requires a cold interest level")
)

// CommentPurger removes an enquiry's comments when the enquiry is deleted.
// Comments have no value without their parent.
type CommentPurger interface {
	DeleteByEnquiry(ctx context.Context, enquiryID string) error
}

type Service struct {
	repo     Repository
	comments CommentPurger
}

func NewService(repo Repository, comments CommentPurger) *Service {
	return &Service{repo: repo, comments: comments}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (Enquiry, error) {
	propertyType := strings.ToUpper(strings.TrimSpace(req.PropertyType))
	if !IsValidPropertyType(propertyType) {
		return Enquiry{}, ErrInvalidPropertyType
	}
	budgetRange := strings.ToUpper(strings.TrimSpace(req.BudgetRange))
	if !IsValidBudgetRange(budgetRange) {
		return Enquiry{}, ErrInvalidBudgetRange
	}
	source := strings.ToUpper(strings.TrimSpace(req.Source))
	if source == "" {
		source = SourceWebsite
	}
	if !IsValidSource(source) {
		return Enquiry{}, ErrInvalidSource
	}

	now := time.Now().UTC()
	e := Enquiry{
		ID:             primitive.NewObjectID().Hex(),
		CustomerName:   strings.TrimSpace(req.CustomerName),
		CustomerEmail:  strings.TrimSpace(req.CustomerEmail),
		CustomerMobile: strings.TrimSpace(req.CustomerMobile),
		PropertyType:   propertyType,
		BudgetRange:    budgetRange,
		Source:         source,
		Status:         StatusNew,
		Remarks:        strings.TrimSpace(req.Remarks),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Enquiry{}, err
	}

	return e, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Enquiry, error) {
	e, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Enquiry{}, s.mapErr(err)
	}
	return e, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Enquiry, int64, error) {
	filter.Status = strings.ToUpper(strings.TrimSpace(filter.Status))
	filter.InterestLevel = strings.ToLower(strings.TrimSpace(filter.InterestLevel))
	filter.SalesPersonID = strings.TrimSpace(filter.SalesPersonID)
	filter.Search = strings.TrimSpace(filter.Search)

	if filter.Status != "" && !IsValidStatus(filter.Status) {
		return nil, 0, ErrInvalidStatus
	}
	if filter.InterestLevel != "" && !IsValidInterestLevel(filter.InterestLevel) {
		return nil, 0, ErrInvalidInterestLevel
	}

	items, err := s.repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (Enquiry, error) {
	if req.PropertyType != nil {
		v := strings.ToUpper(strings.TrimSpace(*req.PropertyType))
		if !IsValidPropertyType(v) {
			return Enquiry{}, ErrInvalidPropertyType
		}
		req.PropertyType = &v
	}
	if req.BudgetRange != nil {
		v := strings.ToUpper(strings.TrimSpace(*req.BudgetRange))
		if !IsValidBudgetRange(v) {
			return Enquiry{}, ErrInvalidBudgetRange
		}
		req.BudgetRange = &v
	}
	if req.Source != nil {
		v := strings.ToUpper(strings.TrimSpace(*req.Source))
		if !IsValidSource(v) {
			return Enquiry{}, ErrInvalidSource
		}
		req.Source = &v
	}

	updated, err := s.repo.Update(ctx, strings.TrimSpace(id), req, time.Now().UTC())
	if err != nil {
		return Enquiry{}, s.mapErr(err)
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapErr(err)
	}
	if s.comments != nil {
		if err := s.comments.DeleteByEnquiry(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// SetStatus writes any valid status token. There is no transition table;
// arbitrary status writes, including out of terminal states, are allowed.
func (s *Service) SetStatus(ctx context.Context, id, status string) (Enquiry, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if !IsValidStatus(status) {
		return Enquiry{}, ErrInvalidStatus
	}

	patch := WorkflowPatch{Status: &status}
	return s.applyWorkflow(ctx, id, patch)
}

// SetInterest applies the derived-field reset rule: marking a lead
// not_interested clears interestLevel, coldReason and bookingProgress.
func (s *Service) SetInterest(ctx context.Context, id, interest string) (Enquiry, error) {
	interest = strings.ToLower(strings.TrimSpace(interest))
	if !IsValidInterest(interest) {
		return Enquiry{}, ErrInvalidInterest
	}

	patch := WorkflowPatch{Interest: &interest}
	if interest == InterestNotInterested {
		patch.ClearInterestLevel = true
		patch.ClearColdReason = true
		patch.ClearBookingProgress = true
	}
	return s.applyWorkflow(ctx, id, patch)
}

// SetInterestLevel implies interest = interested (the temperature only has
// meaning for an interested lead) and clears coldReason unless the level is cold.
func (s *Service) SetInterestLevel(ctx context.Context, id, level string) (Enquiry, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if !IsValidInterestLevel(level) {
		return Enquiry{}, ErrInvalidInterestLevel
	}

	interested := InterestInterested
	patch := WorkflowPatch{Interest: &interested, InterestLevel: &level}
	if level != LevelCold {
		patch.ClearColdReason = true
	}
	return s.applyWorkflow(ctx, id, patch)
}

func (s *Service) SetColdReason(ctx context.Context, id, reason string) (Enquiry, error) {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return Enquiry{}, err
	}
	if e.InterestLevel != LevelCold {
		return Enquiry{}, ErrColdReasonNotCold
	}

	reason = strings.TrimSpace(reason)
	return s.applyWorkflow(ctx, id, WorkflowPatch{ColdReason: &reason})
}

func (s *Service) SetBookingProgress(ctx context.Context, id, stage string) (Enquiry, error) {
	stage = strings.ToLower(strings.TrimSpace(stage))
	if !IsValidBookingStage(stage) {
		return Enquiry{}, ErrInvalidBookingStage
	}

	interested := InterestInterested
	return s.applyWorkflow(ctx, id, WorkflowPatch{Interest: &interested, BookingProgress: &stage})
}

// AssignToCRM hands a fully-registered booking back to the CRM team. The
// registration guard is enforced server-side so handed-off records are
// always consistent, regardless of what the client hides.
func (s *Service) AssignToCRM(ctx context.Context, id string) (Enquiry, error) {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return Enquiry{}, err
	}
	if e.BookingProgress != StageRegistration {
		return Enquiry{}, ErrRegistrationIncomplete
	}

	now := time.Now().UTC()
	status := StatusAssignedToCRM
	return s.applyWorkflow(ctx, id, WorkflowPatch{Status: &status, AssignedToCRMAt: &now})
}

func (s *Service) MarkUnqualified(ctx context.Context, id string, flag bool) (Enquiry, error) {
	patch := WorkflowPatch{IsUnqualified: &flag}
	if flag {
		status := StatusUnqualified
		patch.Status = &status
	}
	return s.applyWorkflow(ctx, id, patch)
}

func (s *Service) AddRemarks(ctx context.Context, id, remarks string) (Enquiry, error) {
	remarks = strings.TrimSpace(remarks)
	return s.applyWorkflow(ctx, id, WorkflowPatch{Remarks: &remarks})
}

func (s *Service) ScheduleFollowUp(ctx context.Context, id string, followUpAt time.Time) (Enquiry, error) {
	return s.applyWorkflow(ctx, id, WorkflowPatch{FollowUpDate: &followUpAt})
}

// FollowUpsDue returns enquiries whose follow-up lands on the given day,
// narrowed to one assignee when salesPersonID is set. The day is taken in UTC.
func (s *Service) FollowUpsDue(ctx context.Context, salesPersonID string, now time.Time) ([]Enquiry, error) {
	start := startOfDay(now)
	return s.repo.ListFollowUpsBetween(ctx, strings.TrimSpace(salesPersonID), start, endOfDay(start))
}

// FollowUpsUpcoming returns enquiries with a follow-up inside the next seven
// days, today included.
func (s *Service) FollowUpsUpcoming(ctx context.Context, salesPersonID string, now time.Time) ([]Enquiry, error) {
	start := startOfDay(now)
	return s.repo.ListFollowUpsBetween(ctx, strings.TrimSpace(salesPersonID), start, endOfDay(start.AddDate(0, 0, 7)))
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(24*time.Hour - time.Nanosecond)
}

func (s *Service) Unassigned(ctx context.Context, limit, offset int64) ([]Enquiry, int64, error) {
	return s.List(ctx, ListFilter{UnassignedOnly: true}, limit, offset)
}

func (s *Service) Active(ctx context.Context, limit, offset int64) ([]Enquiry, int64, error) {
	return s.List(ctx, ListFilter{Status: StatusInProgress, ActiveOnly: true}, limit, offset)
}

func (s *Service) HotLeads(ctx context.Context, limit, offset int64) ([]Enquiry, int64, error) {
	return s.List(ctx, ListFilter{InterestLevel: LevelHot}, limit, offset)
}

func (s *Service) CountTotal(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx, ListFilter{})
}

func (s *Service) CountByStatus(ctx context.Context, status string) (int64, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if !IsValidStatus(status) {
		return 0, ErrInvalidStatus
	}
	return s.repo.Count(ctx, ListFilter{Status: status})
}

func (s *Service) CountByInterestLevel(ctx context.Context, level string) (int64, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if !IsValidInterestLevel(level) {
		return 0, ErrInvalidInterestLevel
	}
	return s.repo.Count(ctx, ListFilter{InterestLevel: level})
}

func (s *Service) CountBySalesPerson(ctx context.Context, salesPersonID string) (int64, error) {
	return s.repo.Count(ctx, ListFilter{SalesPersonID: strings.TrimSpace(salesPersonID)})
}

func (s *Service) applyWorkflow(ctx context.Context, id string, patch WorkflowPatch) (Enquiry, error) {
	updated, err := s.repo.ApplyWorkflow(ctx, strings.TrimSpace(id), patch, time.Now().UTC())
	if err != nil {
		return Enquiry{}, s.mapErr(err)
	}
	return updated, nil
}

func (s *Service) mapErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
