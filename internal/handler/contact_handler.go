package handler

import (
	"encoding/json"
	"net/http"

	"github.com/sketchfolio/backend/internal/form"
	"github.com/sketchfolio/backend/internal/service"
)

// ContactHandler handles contact form submission.
type ContactHandler struct {
	contactService service.ContactService
	tracker        *form.Tracker
}

// NewContactHandler creates a ContactHandler. tracker should use form.ContactHold.
func NewContactHandler(contactService service.ContactService, tracker *form.Tracker) *ContactHandler {
	return &ContactHandler{contactService: contactService, tracker: tracker}
}

// Submit handles POST /api/contact.
// name, email, subject and message are required; message max 5000 chars.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	key := clientIP(r)
	if !beginSubmission(w, h.tracker, key) {
		return
	}

	var sub service.ContactSubmission
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		h.tracker.Finish(key, err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}
	sub.UserAgent = r.UserAgent()

	_, err := h.contactService.Submit(r.Context(), sub)
	h.tracker.Finish(key, err)
	if r.Context().Err() != nil {
		return
	}
	if err != nil {
		writeSubmitError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"ok": "true"})
}

// SubmissionStatus handles GET /api/contact/submission.
func (h *ContactHandler) SubmissionStatus(w http.ResponseWriter, r *http.Request) {
	writeSubmissionStatus(w, h.tracker.Status(clientIP(r)))
}
