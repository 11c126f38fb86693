package comment

import "time"

// Comment is an append-only note on an enquiry. CommentNumber is 1-based and
// increases per enquiry.
type Comment struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	EnquiryID     string    `bson:"enquiryId" json:"enquiryId"`
	UserID        string    `bson:"userId" json:"userId"`
	UserName      string    `bson:"userName,omitempty" json:"userName,omitempty"`
	CommentNumber int       `bson:"commentNumber" json:"commentNumber"`
	CommentText   string    `bson:"commentText" json:"commentText"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}

type CreateRequest struct {
	UserID      string `json:"userId" validate:"required"`
	CommentText string `json:"commentText" validate:"required,max=1000"`
}
