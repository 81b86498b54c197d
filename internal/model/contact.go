package model

import "time"

// ContactReadStatus values. New messages are always unread.
const (
	ContactUnread = "unread"
	ContactRead   = "read"
)

// ContactMessage is a message submitted via the contact form.
type ContactMessage struct {
	ID          string     `json:"id,omitempty"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Subject     string     `json:"subject"`
	Message     string     `json:"message"`
	Status      string     `json:"status"`
	UserAgent   string     `json:"user_agent,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}
