package domain

import (
	"errors"
	"fmt"
)

const (
	DefaultPrefix      = "!"
	DefaultSearchLimit = 5
)

var (
	ErrSendingReplyFailed      = errors.New("failed to send reply")
	ErrConfigurationIncomplete = errors.New("configuration incomplete")
)

type SearchFailureReason string

const (
	ReasonAuth     SearchFailureReason = "auth"
	ReasonQuota    SearchFailureReason = "quota"
	ReasonTimeout  SearchFailureReason = "timeout"
	ReasonNetwork  SearchFailureReason = "network"
	ReasonProvider SearchFailureReason = "provider"
)

// SearchFailedError is the single failure shape surfaced by any search provider.
type SearchFailedError struct {
	Reason SearchFailureReason
	Err    error
}

func (e *SearchFailedError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("search failed: %s", e.Reason)
	}

	return fmt.Sprintf("search failed: %s: %s", e.Reason, e.Err)
}

func (e *SearchFailedError) Unwrap() error {
	return e.Err
}

// SearchFailed wraps err into a SearchFailedError with the given reason.
func SearchFailed(reason SearchFailureReason, err error) error {
	return &SearchFailedError{Reason: reason, Err: err}
}
