package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sketchfolio/backend/internal/form"
	"github.com/sketchfolio/backend/internal/model"
	"github.com/sketchfolio/backend/internal/service"
	"github.com/sketchfolio/backend/internal/storage"
)

// ---------------------------------------------------------------------------
// Mock ReviewService
// ---------------------------------------------------------------------------

type mockReviewService struct {
	listFunc     func(ctx context.Context) ([]*model.Review, error)
	featuredFunc func(ctx context.Context) ([]*model.Review, error)
	statsFunc    func(ctx context.Context) (*model.ReviewStats, error)
	submitFunc   func(ctx context.Context, sub service.ReviewSubmission) (*model.Review, error)
}

func (m *mockReviewService) List(ctx context.Context) ([]*model.Review, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

func (m *mockReviewService) Featured(ctx context.Context) ([]*model.Review, error) {
	if m.featuredFunc != nil {
		return m.featuredFunc(ctx)
	}
	return nil, nil
}

func (m *mockReviewService) Stats(ctx context.Context) (*model.ReviewStats, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx)
	}
	return &model.ReviewStats{}, nil
}

func (m *mockReviewService) Submit(ctx context.Context, sub service.ReviewSubmission) (*model.Review, error) {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, sub)
	}
	return &model.Review{ID: "r1", Name: sub.Name, ImageURL: sub.ImageURL}, nil
}

func newReviewHandler(t *testing.T, svc service.ReviewService) (*ReviewHandler, string) {
	t.Helper()
	dir := t.TempDir()
	return NewReviewHandler(svc, storage.NewLocalStorage(dir, "/uploads"), form.NewTracker(form.ReviewHold, nil)), dir
}

func reviews(n int) []*model.Review {
	out := make([]*model.Review, n)
	for i := range out {
		out[i] = &model.Review{ID: fmt.Sprint(i + 1), Name: fmt.Sprintf("Client %d", i+1), Rating: 5 - i%2}
	}
	return out
}

// ---------------------------------------------------------------------------
// GET /api/reviews tests
// ---------------------------------------------------------------------------

func TestReviewHandler_List_FirstPage(t *testing.T) {
	h, _ := newReviewHandler(t, &mockReviewService{
		listFunc: func(ctx context.Context) ([]*model.Review, error) { return reviews(20), nil },
	})

	req := httptest.NewRequest(http.MethodGet, "/api/reviews", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var view service.ReviewListView
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Page != 1 || view.PageCount != 3 || len(view.Reviews) != 9 || !view.ShowPagination {
		t.Errorf("unexpected view: page=%d pages=%d len=%d", view.Page, view.PageCount, len(view.Reviews))
	}
}

func TestReviewHandler_List_FilterAndPage(t *testing.T) {
	h, _ := newReviewHandler(t, &mockReviewService{
		listFunc: func(ctx context.Context) ([]*model.Review, error) { return reviews(20), nil },
	})

	req := httptest.NewRequest(http.MethodGet, "/api/reviews?stars=5&page=2", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d — body: %s", rec.Code, rec.Body.String())
	}
	var view service.ReviewListView
	_ = json.NewDecoder(rec.Body).Decode(&view)
	if view.Matched != 10 || view.Page != 2 || len(view.Reviews) != 1 {
		t.Errorf("unexpected view: matched=%d page=%d len=%d", view.Matched, view.Page, len(view.Reviews))
	}
	if !view.FilterActive {
		t.Error("expected filter_active=true")
	}
}

func TestReviewHandler_List_NoResults(t *testing.T) {
	h, _ := newReviewHandler(t, &mockReviewService{
		listFunc: func(ctx context.Context) ([]*model.Review, error) { return reviews(3), nil },
	})

	req := httptest.NewRequest(http.MethodGet, "/api/reviews?q=nobody", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	var view service.ReviewListView
	_ = json.NewDecoder(rec.Body).Decode(&view)
	if view.EmptyState != service.EmptyNoResults {
		t.Errorf("expected no_results, got %q", view.EmptyState)
	}
	if view.Reviews == nil {
		t.Error("expected [] not null for reviews")
	}
}

func TestReviewHandler_List_InvalidParams(t *testing.T) {
	h, _ := newReviewHandler(t, &mockReviewService{
		listFunc: func(ctx context.Context) ([]*model.Review, error) { return reviews(20), nil },
	})

	tests := []struct {
		query string
		want  string
	}{
		{"stars=0", "invalid_stars"},
		{"stars=6", "invalid_stars"},
		{"stars=abc", "invalid_stars"},
		{"page=0", "page_out_of_range"},
		{"page=4", "page_out_of_range"},
		{"page=x", "page_out_of_range"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/reviews?"+tt.query, nil)
		rec := httptest.NewRecorder()
		h.List(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tt.query, rec.Code)
			continue
		}
		var resp map[string]string
		_ = json.NewDecoder(rec.Body).Decode(&resp)
		if resp["error"] != tt.want {
			t.Errorf("%s: expected %s, got %q", tt.query, tt.want, resp["error"])
		}
	}
}

func TestReviewHandler_List_CancelledWritesNothing(t *testing.T) {
	h, _ := newReviewHandler(t, &mockReviewService{
		listFunc: func(ctx context.Context) ([]*model.Review, error) { return nil, context.Canceled },
	})

	req := httptest.NewRequest(http.MethodGet, "/api/reviews", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %s", rec.Body.String())
	}
}

func TestReviewHandler_Featured_EmptyIsArray(t *testing.T) {
	h, _ := newReviewHandler(t, &mockReviewService{})

	req := httptest.NewRequest(http.MethodGet, "/api/reviews/featured", nil)
	rec := httptest.NewRecorder()
	h.Featured(rec, req)

	if !strings.Contains(rec.Body.String(), `"reviews":[]`) {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}

func TestReviewHandler_Stats(t *testing.T) {
	h, _ := newReviewHandler(t, &mockReviewService{
		statsFunc: func(ctx context.Context) (*model.ReviewStats, error) {
			return &model.ReviewStats{Total: 9, AverageRating: 4.9, FiveStar: 8}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/reviews/stats", nil)
	rec := httptest.NewRecorder()
	h.Stats(rec, req)

	var got model.ReviewStats
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Total != 9 || got.AverageRating != 4.9 || got.FiveStar != 8 {
		t.Errorf("unexpected stats %+v", got)
	}
}

// ---------------------------------------------------------------------------
// POST /api/reviews tests
// ---------------------------------------------------------------------------

func TestReviewHandler_Submit_JSON(t *testing.T) {
	var captured service.ReviewSubmission
	h, _ := newReviewHandler(t, &mockReviewService{
		submitFunc: func(ctx context.Context, sub service.ReviewSubmission) (*model.Review, error) {
			captured = sub
			return &model.Review{ID: "r1", Name: sub.Name, Email: sub.Email, Rating: *sub.Rating}, nil
		},
	})

	body := `{"name":"Jane","email":"jane@x.com","text":"Lovely","rating":4}`
	req := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d — body: %s", rec.Code, rec.Body.String())
	}
	if captured.Name != "Jane" || captured.Text != "Lovely" || captured.Rating == nil || *captured.Rating != 4 {
		t.Errorf("unexpected submission %+v", captured)
	}
	if strings.Contains(rec.Body.String(), "jane@x.com") {
		t.Error("email must not be echoed back")
	}
}

func TestReviewHandler_Submit_MissingRatingIsNil(t *testing.T) {
	var captured service.ReviewSubmission
	h, _ := newReviewHandler(t, &mockReviewService{
		submitFunc: func(ctx context.Context, sub service.ReviewSubmission) (*model.Review, error) {
			captured = sub
			return &model.Review{}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(`{"name":"a","email":"b","text":"c"}`))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if captured.Rating != nil {
		t.Errorf("expected nil rating, got %d", *captured.Rating)
	}
}

func TestReviewHandler_Submit_InvalidJSON(t *testing.T) {
	h, _ := newReviewHandler(t, &mockReviewService{})

	req := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(`[`))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid_json") {
		t.Errorf("expected invalid_json, got %s", rec.Body.String())
	}
}

func TestReviewHandler_Submit_ValidationError(t *testing.T) {
	h, _ := newReviewHandler(t, &mockReviewService{
		submitFunc: func(ctx context.Context, sub service.ReviewSubmission) (*model.Review, error) {
			return nil, &service.ValidationError{Fields: []string{"name", "text"}}
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp struct {
		Error  string   `json:"error"`
		Fields []string `json:"fields"`
	}
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Error != "validation_failed" || len(resp.Fields) != 2 {
		t.Errorf("unexpected response %+v", resp)
	}
}

type multipartFile struct {
	contentType string
	data        []byte
}

func multipartRequest(t *testing.T, fields map[string]string, avatar *multipartFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if avatar != nil {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="avatar"; filename="me.png"`)
		hdr.Set("Content-Type", avatar.contentType)
		part, err := mw.CreatePart(hdr)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		_, _ = part.Write(avatar.data)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/reviews", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestReviewHandler_Submit_MultipartWithAvatar(t *testing.T) {
	var captured service.ReviewSubmission
	h, dir := newReviewHandler(t, &mockReviewService{
		submitFunc: func(ctx context.Context, sub service.ReviewSubmission) (*model.Review, error) {
			captured = sub
			return &model.Review{ID: "r1", ImageURL: sub.ImageURL}, nil
		},
	})

	req := multipartRequest(t,
		map[string]string{"name": "Jane", "email": "jane@x.com", "text": "Lovely", "rating": "3"},
		&multipartFile{contentType: "image/png", data: []byte("\x89PNG fake")})
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d — body: %s", rec.Code, rec.Body.String())
	}
	if captured.Rating == nil || *captured.Rating != 3 {
		t.Errorf("expected rating 3, got %v", captured.Rating)
	}
	if !strings.HasPrefix(captured.ImageURL, "/uploads/avatars/") || !strings.HasSuffix(captured.ImageURL, ".png") {
		t.Fatalf("unexpected avatar url %q", captured.ImageURL)
	}
	saved := filepath.Join(dir, strings.TrimPrefix(captured.ImageURL, "/uploads/"))
	if _, err := os.Stat(saved); err != nil {
		t.Errorf("expected avatar on disk at %s: %v", saved, err)
	}
}

func TestReviewHandler_Submit_MultipartWithoutAvatar(t *testing.T) {
	var captured service.ReviewSubmission
	h, _ := newReviewHandler(t, &mockReviewService{
		submitFunc: func(ctx context.Context, sub service.ReviewSubmission) (*model.Review, error) {
			captured = sub
			return &model.Review{}, nil
		},
	})

	req := multipartRequest(t, map[string]string{"name": "Jane", "email": "j", "text": "t"}, nil)
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if captured.ImageURL != "" {
		t.Errorf("expected no avatar url, got %q", captured.ImageURL)
	}
}

func TestReviewHandler_Submit_MultipartBadRatingIsPassedAsZero(t *testing.T) {
	var captured service.ReviewSubmission
	h, _ := newReviewHandler(t, &mockReviewService{
		submitFunc: func(ctx context.Context, sub service.ReviewSubmission) (*model.Review, error) {
			captured = sub
			return nil, &service.ValidationError{Fields: []string{"rating"}}
		},
	})

	req := multipartRequest(t, map[string]string{"name": "a", "email": "b", "text": "c", "rating": "five"}, nil)
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if captured.Rating == nil || *captured.Rating != 0 {
		t.Errorf("expected rating 0, got %v", captured.Rating)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestReviewHandler_Submit_RejectsAvatarType(t *testing.T) {
	h, _ := newReviewHandler(t, &mockReviewService{
		submitFunc: func(ctx context.Context, sub service.ReviewSubmission) (*model.Review, error) {
			t.Error("service should not be called")
			return nil, nil
		},
	})

	req := multipartRequest(t, map[string]string{"name": "a"},
		&multipartFile{contentType: "image/gif", data: []byte("GIF89a")})
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid_content_type") {
		t.Errorf("expected invalid_content_type, got %s", rec.Body.String())
	}
}

func TestReviewHandler_Submit_RejectsOversizedAvatar(t *testing.T) {
	h, _ := newReviewHandler(t, &mockReviewService{})

	req := multipartRequest(t, map[string]string{"name": "a"},
		&multipartFile{contentType: "image/png", data: bytes.Repeat([]byte{0}, maxAvatarSize+maxJSONBody+1)})
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "file_too_large") {
		t.Errorf("expected file_too_large, got %s", rec.Body.String())
	}
}

func TestReviewHandler_Submit_StoreErrorRemovesAvatar(t *testing.T) {
	var avatarURL string
	h, dir := newReviewHandler(t, &mockReviewService{
		submitFunc: func(ctx context.Context, sub service.ReviewSubmission) (*model.Review, error) {
			avatarURL = sub.ImageURL
			return nil, &service.StoreError{Op: "save review", Err: errors.New("unavailable")}
		},
	})

	req := multipartRequest(t, map[string]string{"name": "Jane", "email": "j", "text": "t"},
		&multipartFile{contentType: "image/jpeg", data: []byte("jpeg")})
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "submit_failed") {
		t.Errorf("expected submit_failed, got %s", rec.Body.String())
	}
	saved := filepath.Join(dir, strings.TrimPrefix(avatarURL, "/uploads/"))
	if _, err := os.Stat(saved); !os.IsNotExist(err) {
		t.Errorf("expected avatar to be removed after failed submit, stat err=%v", err)
	}
}

// ---------------------------------------------------------------------------
// Submission status
// ---------------------------------------------------------------------------

func TestReviewHandler_SubmissionStatus(t *testing.T) {
	tracker := form.NewTracker(form.ReviewHold, nil)
	h := NewReviewHandler(&mockReviewService{}, storage.NewLocalStorage(t.TempDir(), "/uploads"), tracker)

	status := func() string {
		req := httptest.NewRequest(http.MethodGet, "/api/reviews/submission", nil)
		req.RemoteAddr = "198.51.100.1:1000"
		rec := httptest.NewRecorder()
		h.SubmissionStatus(rec, req)
		var resp map[string]string
		_ = json.NewDecoder(rec.Body).Decode(&resp)
		return resp["status"]
	}

	if got := status(); got != "idle" {
		t.Errorf("expected idle, got %q", got)
	}
	_ = tracker.Begin("198.51.100.1")
	if got := status(); got != "submitting" {
		t.Errorf("expected submitting, got %q", got)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(`{}`))
	req.RemoteAddr = "198.51.100.1:1001"
	rec := httptest.NewRecorder()
	h.Submit(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 while submitting, got %d", rec.Code)
	}

	tracker.Finish("198.51.100.1", nil)
	if got := status(); got != "success" {
		t.Errorf("expected success, got %q", got)
	}
}
