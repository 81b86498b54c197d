package service

import (
	"context"

	"github.com/sketchfolio/backend/internal/model"
)

// ContactSubmission is the raw input of the contact form.
type ContactSubmission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	// UserAgent is filled in by the handler from the request header.
	UserAgent string `json:"-"`
}

// ContactService defines the business logic for contact form submissions.
type ContactService interface {
	// Submit validates and stores a new unread message. It returns a
	// *ValidationError or a *StoreError on failure.
	Submit(ctx context.Context, sub ContactSubmission) (*model.ContactMessage, error)
}
