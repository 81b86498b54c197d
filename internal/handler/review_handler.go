package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/sketchfolio/backend/internal/form"
	"github.com/sketchfolio/backend/internal/model"
	"github.com/sketchfolio/backend/internal/service"
	"github.com/sketchfolio/backend/internal/storage"
)

const maxAvatarSize = 2 << 20 // 2 MB

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ReviewHandler serves the testimonial list and the review form.
type ReviewHandler struct {
	reviewService service.ReviewService
	storage       storage.Storage
	tracker       *form.Tracker
}

// NewReviewHandler creates a ReviewHandler. tracker should use form.ReviewHold.
func NewReviewHandler(reviewService service.ReviewService, store storage.Storage, tracker *form.Tracker) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, storage: store, tracker: tracker}
}

// List handles GET /api/reviews?q=&stars=&page=.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var stars *int
	if s := q.Get("stars"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 5 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_stars"})
			return
		}
		stars = &n
	}

	page := 1
	if p := q.Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "page_out_of_range"})
			return
		}
		page = n
	}

	reviews, err := h.reviewService.List(r.Context())
	if err != nil {
		// only a cancelled caller gets here; nobody is listening
		return
	}

	listing := service.NewReviewListing(reviews)
	listing.SetSearch(strings.TrimSpace(q.Get("q")))
	listing.SetStarFilter(stars)
	if err := listing.GoToPage(page); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "page_out_of_range"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(listing.View())
}

type featuredResponse struct {
	Reviews []*model.Review `json:"reviews"`
}

// Featured handles GET /api/reviews/featured.
func (h *ReviewHandler) Featured(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviewService.Featured(r.Context())
	if err != nil {
		return
	}
	// Return [] not null for empty lists
	if reviews == nil {
		reviews = []*model.Review{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(featuredResponse{Reviews: reviews})
}

// Stats handles GET /api/reviews/stats.
func (h *ReviewHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reviewService.Stats(r.Context())
	if err != nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(stats)
}

// SubmissionStatus handles GET /api/reviews/submission.
func (h *ReviewHandler) SubmissionStatus(w http.ResponseWriter, r *http.Request) {
	writeSubmissionStatus(w, h.tracker.Status(clientIP(r)))
}

// Submit handles POST /api/reviews. The body is JSON, or multipart/form-data
// with an optional "avatar" image.
func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	key := clientIP(r)
	if !beginSubmission(w, h.tracker, key) {
		return
	}

	var avatarKey string
	rev, err := h.submit(w, r, &avatarKey)
	h.tracker.Finish(key, err)
	if err != nil && avatarKey != "" {
		if derr := h.storage.Delete(r.Context(), avatarKey); derr != nil {
			slog.Warn("remove avatar failed", "error", derr, "key", avatarKey)
		}
	}
	if r.Context().Err() != nil {
		return
	}

	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(reqErr.status)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": reqErr.code})
	case err != nil:
		writeSubmitError(w, r, err)
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(rev)
	}
}

// requestError is a malformed request rejected before reaching the service.
type requestError struct {
	status int
	code   string
}

func (e *requestError) Error() string { return e.code }

func (h *ReviewHandler) submit(w http.ResponseWriter, r *http.Request, avatarKey *string) (*model.Review, error) {
	var sub service.ReviewSubmission

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, maxAvatarSize+maxJSONBody)
		if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, &requestError{http.StatusBadRequest, "file_too_large"}
			}
			return nil, &requestError{http.StatusBadRequest, "invalid_form"}
		}
		sub.Name = r.FormValue("name")
		sub.Email = r.FormValue("email")
		sub.Text = r.FormValue("text")
		if s := r.FormValue("rating"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				n = 0 // rejected by validation
			}
			sub.Rating = &n
		}

		url, err := h.saveAvatar(r, avatarKey)
		if err != nil {
			return nil, err
		}
		sub.ImageURL = url
	} else {
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
		if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
			return nil, &requestError{http.StatusBadRequest, "invalid_json"}
		}
	}

	return h.reviewService.Submit(r.Context(), sub)
}

// saveAvatar stores the optional "avatar" file and returns its URL, or ""
// when none was attached.
func (h *ReviewHandler) saveAvatar(r *http.Request, avatarKey *string) (string, error) {
	file, header, err := r.FormFile("avatar")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", &requestError{http.StatusBadRequest, "invalid_avatar"}
	}
	defer file.Close()

	if header.Size > maxAvatarSize {
		return "", &requestError{http.StatusBadRequest, "file_too_large"}
	}
	ct := header.Header.Get("Content-Type")
	ext, ok := allowedContentTypes[ct]
	if !ok {
		return "", &requestError{http.StatusBadRequest, "invalid_content_type"}
	}

	key := path.Join("avatars", uuid.NewString()+ext)
	url, err := h.storage.Save(r.Context(), key, file, ct)
	if err != nil {
		slog.Error("avatar upload failed", "error", err)
		return "", &requestError{http.StatusInternalServerError, "upload_failed"}
	}
	*avatarKey = key
	return url, nil
}
