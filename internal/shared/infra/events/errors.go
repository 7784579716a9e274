package events

import "errors"

var (
	ErrSubscriberFull = errors.New("in-memory subscriber buffer is full")
	ErrNotConfirmed   = errors.New("broker did not confirm the message")
	ErrConfirmTimeout = errors.New("confirmation timed out")
)
