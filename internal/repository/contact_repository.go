package repository

import (
	"context"
	"fmt"

	"github.com/sketchfolio/backend/internal/docstore"
	"github.com/sketchfolio/backend/internal/model"
)

// ContactCollection is the document collection holding contact messages.
const ContactCollection = "contact-messages"

// ContactRepository defines the persistence interface for contact messages.
// Messages are write-only from this service's point of view.
type ContactRepository interface {
	Save(ctx context.Context, msg *model.ContactMessage) error
	Configured() bool
}

// DocContactRepository is the document store implementation of ContactRepository.
type DocContactRepository struct {
	store docstore.Store
}

// NewDocContactRepository creates a DocContactRepository; store may be nil.
func NewDocContactRepository(store docstore.Store) *DocContactRepository {
	return &DocContactRepository{store: store}
}

var _ ContactRepository = (*DocContactRepository)(nil)

func (r *DocContactRepository) Configured() bool { return r.store != nil }

// Save inserts msg with a server-assigned timestamp and sets msg.ID.
func (r *DocContactRepository) Save(ctx context.Context, msg *model.ContactMessage) error {
	if r.store == nil {
		return ErrStoreNotConfigured
	}
	id, err := r.store.Insert(ctx, ContactCollection, docstore.Document{
		"name":      msg.Name,
		"email":     msg.Email,
		"subject":   msg.Subject,
		"message":   msg.Message,
		"timestamp": docstore.ServerTimestamp,
		"status":    msg.Status,
		"userAgent": msg.UserAgent,
	})
	if err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	msg.ID = id
	return nil
}
