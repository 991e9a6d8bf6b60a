package state

import "errors"

var (
	// ErrInvalidMediaData indicates a media record buffer has the wrong size.
	ErrInvalidMediaData = errors.New("state: invalid media data")

	// ErrInvalidAccessTimeData indicates an access-time record buffer has the wrong size.
	ErrInvalidAccessTimeData = errors.New("state: invalid access time data")

	// ErrNilRecord indicates a nil record was passed to a serializer.
	ErrNilRecord = errors.New("state: record is nil")
)
