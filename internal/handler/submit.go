package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sketchfolio/backend/internal/form"
	"github.com/sketchfolio/backend/internal/service"
)

const (
	maxJSONBody = 64 << 10 // 64 KB

	validationMessage = "Please fill in all required fields."
	failureMessage    = "Something went wrong. Please try again."
)

// beginSubmission claims the caller's form slot. It writes 409 and returns
// false when a submission from the same client is still running.
func beginSubmission(w http.ResponseWriter, tracker *form.Tracker, key string) bool {
	if err := tracker.Begin(key); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "submission_in_progress"})
		return false
	}
	return true
}

// writeSubmitError maps a service error onto the response.
func writeSubmitError(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("Content-Type", "application/json")

	var verr *service.ValidationError
	if errors.As(err, &verr) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":   "validation_failed",
			"fields":  verr.Fields,
			"message": validationMessage,
		})
		return
	}

	slog.Error("submission failed", "error", err, "request_id", RequestIDFromContext(r.Context()))
	w.WriteHeader(http.StatusInternalServerError)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "submit_failed",
		"message": failureMessage,
	})
}

func writeSubmissionStatus(w http.ResponseWriter, status form.Status) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": string(status)})
}
