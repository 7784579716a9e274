package bootstrap

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/davicafu/meetups/internal/meetup/application"
	"github.com/davicafu/meetups/internal/shared/application/behaviors"
	"github.com/davicafu/meetups/internal/shared/application/identity"
	"github.com/davicafu/meetups/internal/shared/application/mediator"
	"github.com/davicafu/meetups/internal/shared/application/ports"
)

// NewRegistry registra handlers y behaviors. Orden de los comandos, de fuera hacia dentro:
// autorización, validación, commit, publicación de eventos, asignación de ids, handler.
func NewRegistry(
	provider identity.Provider,
	validate *validator.Validate,
	ids ports.IDGenerator,
	log *zap.Logger,
) (*mediator.Registry[*Scope], error) {
	policy := application.Policy()

	authorization := func(*Scope) mediator.Behavior { return behaviors.NewAuthorization(provider, policy, log) }
	validation := func(*Scope) mediator.Behavior { return behaviors.NewValidation(validate) }
	commit := func(s *Scope) mediator.Behavior { return behaviors.NewCommit(s.uow, s.tx, log) }
	publishing := func(s *Scope) mediator.Behavior { return behaviors.NewEventPublishing(s.uow, s.dispatcher) }
	eventIDs := func(s *Scope) mediator.Behavior { return behaviors.NewEventIDAssignment(s.uow, ids) }

	b := mediator.NewBuilder[*Scope]()
	application.RegisterHandlers(b)

	b.AddCategoryBehaviors(mediator.CategoryCommand, authorization, validation, commit, publishing, eventIDs)
	b.AddCategoryBehaviors(mediator.CategoryQuery, authorization, validation)
	b.AddCategoryBehaviors(mediator.CategoryEvent, eventIDs)

	// Todo evento de dominio acaba como fila de outbox en la transacción de la petición.
	b.AddCategoryEventHandler(func(s *Scope) mediator.NotificationHandler { return s.storing })

	return b.Build()
}
