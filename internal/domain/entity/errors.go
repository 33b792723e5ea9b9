package entity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a requested airport or airline is absent from the catalog.
var ErrNotFound = errors.New("not found")

// FeedErrorKind classifies upstream failures
type FeedErrorKind string

const (
	NetworkFailure FeedErrorKind = "network"
	ParseFailure   FeedErrorKind = "parse"
)

// FeedError is returned by feed adapters. It never reaches API clients.
type FeedError struct {
	Feed string
	Kind FeedErrorKind
	Err  error
}

func (e *FeedError) Error() string {
	return fmt.Sprintf("%s feed: %s failure: %v", e.Feed, e.Kind, e.Err)
}

func (e *FeedError) Unwrap() error {
	return e.Err
}

// NewNetworkError wraps err as a network failure of feed.
func NewNetworkError(feed string, err error) *FeedError {
	return &FeedError{Feed: feed, Kind: NetworkFailure, Err: err}
}

// NewParseError wraps err as a parse failure of feed.
func NewParseError(feed string, err error) *FeedError {
	return &FeedError{Feed: feed, Kind: ParseFailure, Err: err}
}

// ValidationError lists the request fields that failed validation
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid request: " + strings.Join(e.Problems, "; ")
}
