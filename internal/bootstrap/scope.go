// Package bootstrap monta el grafo de objetos: el registro del mediador, el scope de cada
// petición y la infraestructura elegida por configuración.
package bootstrap

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/davicafu/meetups/internal/meetup/application"
	"github.com/davicafu/meetups/internal/meetup/infra/outbound/db/sqlstore"
	"github.com/davicafu/meetups/internal/shared/application/mediator"
	"github.com/davicafu/meetups/internal/shared/infra/outbox"
	"github.com/davicafu/meetups/internal/shared/infra/persistence"
)

// Scope vive lo que dura una petición: una transacción, su unidad de trabajo y los
// servicios construidos sobre ellas. Nunca se comparte entre peticiones.
type Scope struct {
	tx         *sqlx.Tx
	uow        *persistence.UnitOfWork
	meetups    *application.MeetupService
	queries    *application.QueryService
	storing    *outbox.StoringHandler
	dispatcher *mediator.Dispatcher[*Scope]
	log        *zap.Logger
}

var _ application.Scope = (*Scope)(nil)

func (s *Scope) Meetups() *application.MeetupService { return s.meetups }
func (s *Scope) Queries() *application.QueryService  { return s.queries }

func (c *Container) newScope(tx *sqlx.Tx) *Scope {
	uow := persistence.NewUnitOfWork(c.mappers.Bind(tx))
	meetupGateway := sqlstore.NewMeetupGateway(tx)

	s := &Scope{tx: tx, uow: uow, log: c.log}
	s.meetups = application.NewMeetupService(
		sqlstore.NewMeetupRepo(tx, uow),
		meetupGateway,
		uow,
		c.ids,
		c.clock,
		c.identity,
		c.log,
	)
	s.queries = application.NewQueryService(meetupGateway, sqlstore.NewReviewGateway(tx), c.identity)
	s.storing = outbox.NewStoringHandler(c.outbox, tx)
	s.dispatcher = mediator.NewDispatcher(c.registry, s)
	return s
}

// close deshace lo que el behavior de commit no haya confirmado. Las consultas acaban siempre aquí.
func (s *Scope) close() {
	if err := s.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		s.log.Warn("⚠️ Rollback del scope fallido", zap.Error(err))
	}
}
