package mediator

import "errors"

var (
	ErrHandlerNotRegistered = errors.New("handler not registered")
	ErrDuplicateHandler     = errors.New("handler already registered")
	ErrUnexpectedRequest    = errors.New("unexpected request type")
	ErrUnexpectedResult     = errors.New("unexpected result type")
)
