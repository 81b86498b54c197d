package service

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/sketchfolio/backend/internal/model"
	"github.com/sketchfolio/backend/internal/repository"
)

const avatarQuery = "?w=150&h=150&fit=crop&crop=face"

// DefaultAvatars are the stock images assigned to reviews submitted without
// an avatar.
var DefaultAvatars = []string{
	"https://images.unsplash.com/photo-1472099645785-5658abf4ff4e" + avatarQuery,
	"https://images.unsplash.com/photo-1494790108755-2616b612b786" + avatarQuery,
	"https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d" + avatarQuery,
	"https://images.unsplash.com/photo-1438761681033-6461ffad8d80" + avatarQuery,
	"https://images.unsplash.com/photo-1500648767791-00dcc994a43e" + avatarQuery,
}

// reviewInput is a normalised ReviewSubmission ready for validation.
type reviewInput struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required"`
	Text   string `json:"text" validate:"required,max=5000"`
	Rating int    `json:"rating" validate:"min=1,max=5"`
}

// reviewServiceImpl is the production implementation of ReviewService.
type reviewServiceImpl struct {
	repo repository.ReviewRepository
	pick func(n int) int
	now  func() time.Time
}

// NewReviewService creates a ReviewService. pick chooses an index in [0,n)
// for the default avatar; nil uses math/rand.
func NewReviewService(repo repository.ReviewRepository, pick func(n int) int) ReviewService {
	if pick == nil {
		pick = rand.IntN
	}
	return &reviewServiceImpl{repo: repo, pick: pick, now: time.Now}
}

func (s *reviewServiceImpl) List(ctx context.Context) ([]*model.Review, error) {
	return s.repo.List(ctx, model.ReviewListOptions{})
}

func (s *reviewServiceImpl) Featured(ctx context.Context) ([]*model.Review, error) {
	return s.repo.List(ctx, model.ReviewListOptions{Limit: FeaturedLimit})
}

func (s *reviewServiceImpl) Stats(ctx context.Context) (*model.ReviewStats, error) {
	reviews, err := s.repo.List(ctx, model.ReviewListOptions{})
	if err != nil {
		return nil, err
	}
	stats := ComputeStats(reviews)
	return &stats, nil
}

// ComputeStats counts reviews, averages their ratings to one decimal place
// and counts five-star reviews. An empty slice averages to 0.
func ComputeStats(reviews []*model.Review) model.ReviewStats {
	stats := model.ReviewStats{Total: len(reviews)}
	if len(reviews) == 0 {
		return stats
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
		if r.Rating == 5 {
			stats.FiveStar++
		}
	}
	stats.AverageRating = math.Round(float64(sum)/float64(len(reviews))*10) / 10
	return stats
}

func (s *reviewServiceImpl) Submit(ctx context.Context, sub ReviewSubmission) (*model.Review, error) {
	in := reviewInput{
		Name:   strings.TrimSpace(sub.Name),
		Email:  strings.ToLower(strings.TrimSpace(sub.Email)),
		Text:   strings.TrimSpace(sub.Text),
		Rating: 5,
	}
	if sub.Rating != nil {
		in.Rating = *sub.Rating
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	rev := &model.Review{
		Name:     in.Name,
		Email:    in.Email,
		Text:     in.Text,
		Rating:   in.Rating,
		ImageURL: sub.ImageURL,
		Status:   model.ModerationPending,
	}
	if rev.ImageURL == "" {
		rev.ImageURL = DefaultAvatars[s.pick(len(DefaultAvatars))]
	}

	if !s.repo.Configured() {
		now := s.now().UTC()
		rev.SubmittedAt = &now
		slog.Info("document store not configured, review logged locally",
			"name", rev.Name,
			"email", rev.Email,
			"rating", rev.Rating,
			"image_url", rev.ImageURL,
			"text", rev.Text,
			"timestamp", now.Format(time.RFC3339),
		)
		return rev, nil
	}

	if err := s.repo.Save(ctx, rev); err != nil {
		return nil, &StoreError{Op: "save review", Err: err}
	}
	return rev, nil
}
