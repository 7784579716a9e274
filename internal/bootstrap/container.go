package bootstrap

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/davicafu/meetups/internal/meetup/infra/outbound/db/sqlstore"
	"github.com/davicafu/meetups/internal/shared/application/identity"
	"github.com/davicafu/meetups/internal/shared/application/mediator"
	"github.com/davicafu/meetups/internal/shared/application/ports"
	"github.com/davicafu/meetups/internal/shared/infra/ids"
	"github.com/davicafu/meetups/internal/shared/infra/outbox"
	"github.com/davicafu/meetups/internal/shared/infra/persistence"
)

// Container guarda lo que es único en el proceso y abre un scope por petición.
type Container struct {
	db       *sqlx.DB
	registry *mediator.Registry[*Scope]
	mappers  *persistence.MapperRegistry
	outbox   *outbox.OutboxRepo
	identity identity.Provider
	ids      ports.IDGenerator
	clock    ports.Clock
	log      *zap.Logger
}

type Option func(*Container)

func WithClock(clock ports.Clock) Option {
	return func(c *Container) { c.clock = clock }
}

func WithIDGenerator(g ports.IDGenerator) Option {
	return func(c *Container) { c.ids = g }
}

// WithMappers sustituye el registro de data mappers.
func WithMappers(r *persistence.MapperRegistry) Option {
	return func(c *Container) { c.mappers = r }
}

func NewContainer(db *sqlx.DB, log *zap.Logger, opts ...Option) (*Container, error) {
	c := &Container{
		db:       db,
		mappers:  sqlstore.RegisterMappers(persistence.NewMapperRegistry()),
		outbox:   outbox.NewOutboxRepo(db),
		identity: identity.ContextProvider{},
		ids:      ids.UUIDv7Generator{},
		clock:    ids.SystemClock{},
		log:      log,
	}
	for _, opt := range opts {
		opt(c)
	}

	registry, err := NewRegistry(c.identity, validator.New(), c.ids, log)
	if err != nil {
		return nil, fmt.Errorf("build mediator registry: %w", err)
	}
	c.registry = registry
	return c, nil
}

var _ mediator.Sender = (*Container)(nil)

// Send abre una transacción, construye el scope y despacha. Si la petición no llega a
// confirmar, la transacción se deshace al cerrar el scope.
func (c *Container) Send(ctx context.Context, req mediator.Request) (any, error) {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin %s: %w", req.RequestName(), err)
	}
	scope := c.newScope(tx)
	defer scope.close()

	return scope.dispatcher.Send(ctx, req)
}

// Outbox es el repositorio que usa el procesador.
func (c *Container) Outbox() *outbox.OutboxRepo { return c.outbox }
