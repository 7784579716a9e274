package outbox

import "errors"

var (
	// ErrPublishFailure nunca llega a quien envió la petición: el procesador la contiene.
	ErrPublishFailure  = errors.New("publish failure")
	ErrEventWithoutID  = errors.New("domain event has no id")
	ErrNotADomainEvent = errors.New("notification is not a domain event")
	ErrOutboxNotFound  = errors.New("outbox message not found")
)
