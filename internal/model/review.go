package model

import "time"

// ModerationStatus is the lifecycle flag of a submitted review.
type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
)

// Review is one client testimonial.
type Review struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"-"` // never exposed publicly
	ImageURL string `json:"image_url"`
	Text     string `json:"text"`
	// Rating is always within [1,5].
	Rating      int              `json:"rating"`
	SubmittedAt *time.Time       `json:"submitted_at,omitempty"`
	Status      ModerationStatus `json:"status,omitempty"`
}

// ReviewListOptions bounds a review read. Limit <= 0 reads everything.
type ReviewListOptions struct {
	Limit int
}

// ReviewStats summarises a review collection.
type ReviewStats struct {
	Total         int     `json:"total"`
	AverageRating float64 `json:"average_rating"`
	FiveStar      int     `json:"five_star"`
}
