package service

import (
	"strings"

	"github.com/sketchfolio/backend/internal/model"
)

// ReviewPageSize is the number of reviews shown per page.
const ReviewPageSize = 9

// EmptyState distinguishes why a listing shows no reviews.
type EmptyState string

const (
	EmptyNone      EmptyState = ""
	EmptyNoReviews EmptyState = "no_reviews"
	EmptyNoResults EmptyState = "no_results"
)

// ReviewFilter narrows a review list. A nil Stars matches every rating.
type ReviewFilter struct {
	Search string
	Stars  *int
}

// Active reports whether the filter excludes anything.
func (f ReviewFilter) Active() bool {
	return f.Search != "" || f.Stars != nil
}

// FilterReviews keeps reviews whose name or text contains f.Search
// (case-insensitive substring) and whose rating equals *f.Stars when set.
// The input slice is not modified.
func FilterReviews(all []*model.Review, f ReviewFilter) []*model.Review {
	needle := strings.ToLower(f.Search)
	out := make([]*model.Review, 0, len(all))
	for _, r := range all {
		if needle != "" &&
			!strings.Contains(strings.ToLower(r.Name), needle) &&
			!strings.Contains(strings.ToLower(r.Text), needle) {
			continue
		}
		if f.Stars != nil && r.Rating != *f.Stars {
			continue
		}
		out = append(out, r)
	}
	return out
}

// PageCount returns ceil(n / ReviewPageSize).
func PageCount(n int) int {
	return (n + ReviewPageSize - 1) / ReviewPageSize
}

// ReviewListView is the derived, display-ready state of a ReviewListing.
type ReviewListView struct {
	Reviews        []*model.Review `json:"reviews"`
	Page           int             `json:"page"`
	PageCount      int             `json:"page_count"`
	PageSize       int             `json:"page_size"`
	Total          int             `json:"total"`
	Matched        int             `json:"matched"`
	FilterActive   bool            `json:"filter_active"`
	ShowPagination bool            `json:"show_pagination"`
	EmptyState     EmptyState      `json:"empty_state,omitempty"`
}

// ReviewListing holds the loaded reviews together with the current search,
// star filter and page. Changing the search, the filter or the reviews
// themselves resets the page to 1.
type ReviewListing struct {
	all    []*model.Review
	filter ReviewFilter
	page   int
}

// NewReviewListing returns a listing over all, positioned on page 1.
func NewReviewListing(all []*model.Review) *ReviewListing {
	return &ReviewListing{all: all, page: 1}
}

func (l *ReviewListing) SetReviews(all []*model.Review) {
	l.all = all
	l.page = 1
}

func (l *ReviewListing) SetSearch(term string) {
	l.filter.Search = term
	l.page = 1
}

// SetStarFilter sets the exact rating to match; nil clears it.
func (l *ReviewListing) SetStarFilter(stars *int) {
	if stars != nil {
		v := *stars
		stars = &v
	}
	l.filter.Stars = stars
	l.page = 1
}

// GoToPage moves to page p. It returns ErrPageOutOfRange unless p is within
// [1, pageCount] or equal to the current page.
func (l *ReviewListing) GoToPage(p int) error {
	if p == l.page {
		return nil
	}
	if p < 1 || p > PageCount(len(FilterReviews(l.all, l.filter))) {
		return ErrPageOutOfRange
	}
	l.page = p
	return nil
}

func (l *ReviewListing) Page() int { return l.page }

// View derives the visible page. It never changes the listing.
func (l *ReviewListing) View() ReviewListView {
	filtered := FilterReviews(l.all, l.filter)
	pages := PageCount(len(filtered))

	start := (l.page - 1) * ReviewPageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	end := min(start+ReviewPageSize, len(filtered))

	v := ReviewListView{
		Reviews:        filtered[start:end],
		Page:           l.page,
		PageCount:      pages,
		PageSize:       ReviewPageSize,
		Total:          len(l.all),
		Matched:        len(filtered),
		FilterActive:   l.filter.Active(),
		ShowPagination: pages > 1,
	}
	if len(filtered) == 0 {
		if v.FilterActive {
			v.EmptyState = EmptyNoResults
		} else {
			v.EmptyState = EmptyNoReviews
		}
	}
	return v
}
