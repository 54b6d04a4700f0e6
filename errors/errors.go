package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrEmptyWords  = fmt.Errorf("no words have been found")

	ErrDuplicateID   = fmt.Errorf("object with the same id already exists")
	ErrNotFound      = fmt.Errorf("object not found")
	ErrAlreadyLocked = fmt.Errorf("object is already selected by another participant")

	ErrConnection         = fmt.Errorf("unable to connect to whiteboard")
	ErrNoConnectedPeers   = fmt.Errorf("no connected peers")
	ErrBackpressure       = fmt.Errorf("peer send queue is full")
	ErrPersistenceFailure = fmt.Errorf("unable to persist payload")
	ErrDecodeFailure      = fmt.Errorf("unable to decode payload")
	ErrUnknownKind        = fmt.Errorf("unknown envelope kind")
	ErrInvalidPayload     = fmt.Errorf("invalid payload")

	ErrEmptyMessage    = fmt.Errorf("message is empty")
	ErrProfileNotFound = fmt.Errorf("profile not found")
	ErrNotImage        = fmt.Errorf("payload is not an image")
)
