package corpus

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrEpisodeNotFound = errors.New("episode not found")
	ErrSegmentNotFound = errors.New("segment not found")
	ErrImportLocked    = errors.New("another import is in progress")
)

// NotFoundError names the missing resource
type NotFoundError struct {
	Resource string
	ID       string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s with identifier %s not found", e.Resource, e.ID)
}

func (e NotFoundError) Is(target error) bool {
	switch e.Resource {
	case "segment":
		return target == ErrSegmentNotFound
	default:
		return target == ErrEpisodeNotFound
	}
}

// NewEpisodeNotFound creates a NotFoundError for an episode
func NewEpisodeNotFound(id string) error {
	return NotFoundError{Resource: "episode", ID: id}
}

// NewSegmentNotFound creates a NotFoundError for a segment of an episode
func NewSegmentNotFound(episodeID, segmentID string) error {
	return NotFoundError{Resource: "segment", ID: episodeID + "/" + segmentID}
}

// IsNotFound reports whether err means an episode or segment does not exist
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var notFoundErr NotFoundError
	return errors.As(err, &notFoundErr) || errors.Is(err, ErrEpisodeNotFound) || errors.Is(err, ErrSegmentNotFound)
}
