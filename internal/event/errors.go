package event

import "errors"

var (
	// ErrBusClosed is returned when subscribing after ShutdownAll.
	ErrBusClosed = errors.New("event bus is shut down")

	// ErrNilSubscriber is returned when subscribing a nil subscriber.
	ErrNilSubscriber = errors.New("subscriber is nil")

	// ErrInvalidTopic is returned when subscribing to an unknown event kind.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrSubscriptionNotFound is returned when unsubscribing an unknown handle.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)
