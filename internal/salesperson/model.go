package salesperson

import "time"

type SalesPerson struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Email       string    `bson:"email,omitempty" json:"email,omitempty"`
	Mobile      string    `bson:"mobile,omitempty" json:"mobile,omitempty"`
	Designation string    `bson:"designation,omitempty" json:"designation,omitempty"`
	Available   bool      `bson:"available" json:"available"`
	UserID      string    `bson:"userId,omitempty" json:"userId,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

type CreateRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
	Mobile      string `json:"mobile" validate:"omitempty,mobile10"`
	Designation string `json:"designation"`
	Available   *bool  `json:"available"`
	UserID      string `json:"userId"`
}

type UpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Mobile      *string `json:"mobile" validate:"omitempty,mobile10"`
	Designation *string `json:"designation"`
	Available   *bool   `json:"available"`
}

type AvailabilityRequest struct {
	Available bool `json:"available"`
}
