package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sketchfolio/backend/internal/docstore"
	"github.com/sketchfolio/backend/internal/model"
)

// ReviewsCollection is the document collection holding testimonials.
const ReviewsCollection = "portfolio-reviews"

// ReviewRepository reads and writes testimonials.
type ReviewRepository interface {
	// List returns reviews ordered by rating, highest first. Store failures
	// are never returned: the fallback list is served instead. The only
	// error is the context's own, when the caller has gone away.
	List(ctx context.Context, opts model.ReviewListOptions) ([]*model.Review, error)
	// Save inserts r as a new document and sets r.ID.
	Save(ctx context.Context, r *model.Review) error
	// Configured reports whether a document store backs this repository.
	Configured() bool
}

// DocReviewRepository is the document store implementation of ReviewRepository.
type DocReviewRepository struct {
	store docstore.Store
}

// NewDocReviewRepository creates a DocReviewRepository. A nil store puts the
// repository in fallback mode.
func NewDocReviewRepository(store docstore.Store) *DocReviewRepository {
	return &DocReviewRepository{store: store}
}

var _ ReviewRepository = (*DocReviewRepository)(nil)

func (r *DocReviewRepository) Configured() bool { return r.store != nil }

func (r *DocReviewRepository) List(ctx context.Context, opts model.ReviewListOptions) ([]*model.Review, error) {
	if r.store == nil {
		slog.Info("document store not configured, using fallback reviews")
		return FallbackReviews(opts.Limit), nil
	}

	snaps, err := r.store.Query(ctx, ReviewsCollection, docstore.Query{
		OrderBy:   "stars",
		Direction: docstore.Descending,
		Limit:     opts.Limit,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		slog.Error("fetch reviews failed, using fallback reviews", "error", err)
		return FallbackReviews(opts.Limit), nil
	}

	reviews := make([]*model.Review, 0, len(snaps))
	for _, snap := range snaps {
		reviews = append(reviews, reviewFromSnapshot(snap))
	}
	return reviews, nil
}

func (r *DocReviewRepository) Save(ctx context.Context, rev *model.Review) error {
	if r.store == nil {
		return ErrStoreNotConfigured
	}
	id, err := r.store.Insert(ctx, ReviewsCollection, reviewDocument(rev))
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	rev.ID = id
	return nil
}

// Seed writes the fallback testimonials into the store as approved reviews
// and returns how many were written.
func (r *DocReviewRepository) Seed(ctx context.Context) (int, error) {
	if r.store == nil {
		return 0, ErrStoreNotConfigured
	}
	n := 0
	for _, rev := range FallbackReviews(0) {
		rev.Status = model.ModerationApproved
		if _, err := r.store.Insert(ctx, ReviewsCollection, reviewDocument(rev)); err != nil {
			return n, fmt.Errorf("seed review %q: %w", rev.Name, err)
		}
		n++
	}
	return n, nil
}

func reviewDocument(rev *model.Review) docstore.Document {
	return docstore.Document{
		"name":      rev.Name,
		"email":     rev.Email,
		"review":    rev.Text,
		"stars":     rev.Rating,
		"imgurl":    rev.ImageURL,
		"timestamp": docstore.ServerTimestamp,
		"status":    string(rev.Status),
	}
}

// reviewFromSnapshot maps a stored document, defaulting anything missing.
// Ratings outside [1,5] read as 5.
func reviewFromSnapshot(snap docstore.Snapshot) *model.Review {
	rev := &model.Review{ID: snap.ID, Name: "Anonymous", Rating: 5}
	if s, ok := snap.Data.String("name"); ok && s != "" {
		rev.Name = s
	}
	rev.Email, _ = snap.Data.String("email")
	rev.ImageURL, _ = snap.Data.String("imgurl")
	rev.Text, _ = snap.Data.String("review")
	if n, ok := snap.Data.Int("stars"); ok && n >= 1 && n <= 5 {
		rev.Rating = n
	}
	if t, ok := snap.Data.Time("timestamp"); ok {
		rev.SubmittedAt = &t
	}
	if s, ok := snap.Data.String("status"); ok {
		rev.Status = model.ModerationStatus(s)
	}
	return rev
}
