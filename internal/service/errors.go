package service

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPageOutOfRange is returned by ReviewListing.GoToPage for a page outside
// [1, pageCount].
var ErrPageOutOfRange = errors.New("page out of range")

// ValidationError reports which submission fields failed their checks.
// No store call is made when a submission fails validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid fields: " + strings.Join(e.Fields, ", ")
}

// StoreError wraps a failed store write.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
