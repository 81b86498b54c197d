package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/sketchfolio/backend/internal/model"
	"github.com/sketchfolio/backend/internal/repository"
)

type contactInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required,max=5000"`
}

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo repository.ContactRepository
	now  func() time.Time
}

// NewContactService creates a ContactService backed by the given repository.
func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactServiceImpl{repo: repo, now: time.Now}
}

// Submit lower-cases the email and marks the message unread before
// persisting. Without a store the message is only logged.
func (s *contactServiceImpl) Submit(ctx context.Context, sub ContactSubmission) (*model.ContactMessage, error) {
	in := contactInput{
		Name:    strings.TrimSpace(sub.Name),
		Email:   strings.ToLower(strings.TrimSpace(sub.Email)),
		Subject: strings.TrimSpace(sub.Subject),
		Message: strings.TrimSpace(sub.Message),
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	msg := &model.ContactMessage{
		Name:      in.Name,
		Email:     in.Email,
		Subject:   in.Subject,
		Message:   in.Message,
		Status:    model.ContactUnread,
		UserAgent: sub.UserAgent,
	}

	if !s.repo.Configured() {
		now := s.now().UTC()
		msg.SubmittedAt = &now
		slog.Info("document store not configured, contact message logged locally",
			"name", msg.Name,
			"email", msg.Email,
			"subject", msg.Subject,
			"message", msg.Message,
			"user_agent", msg.UserAgent,
			"timestamp", now.Format(time.RFC3339),
		)
		return msg, nil
	}

	if err := s.repo.Save(ctx, msg); err != nil {
		return nil, &StoreError{Op: "save contact message", Err: err}
	}
	return msg, nil
}
