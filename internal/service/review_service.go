package service

import (
	"context"

	"github.com/sketchfolio/backend/internal/model"
)

// FeaturedLimit is the number of top-rated reviews shown on the home page.
const FeaturedLimit = 6

// ReviewSubmission is the raw input of the review form.
type ReviewSubmission struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Text  string `json:"text"`
	// Rating is nil when the client never touched the stars; it defaults to 5.
	Rating *int `json:"rating"`
	// ImageURL is set by the handler when an avatar was uploaded.
	ImageURL string `json:"-"`
}

// ReviewService defines the business logic for testimonials.
type ReviewService interface {
	// List returns every review, highest rated first.
	List(ctx context.Context) ([]*model.Review, error)

	// Featured returns the top FeaturedLimit reviews.
	Featured(ctx context.Context) ([]*model.Review, error)

	// Stats summarises all reviews.
	Stats(ctx context.Context) (*model.ReviewStats, error)

	// Submit validates and stores a new pending review. It returns a
	// *ValidationError or a *StoreError on failure.
	Submit(ctx context.Context, sub ReviewSubmission) (*model.Review, error)
}
