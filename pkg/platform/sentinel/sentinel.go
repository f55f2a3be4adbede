package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrAlreadyReviewed: application status is no longer pending
// - ErrUnavailable: service or resource temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyReviewed = errors.New("already reviewed")
	ErrUnavailable     = errors.New("unavailable")
)
