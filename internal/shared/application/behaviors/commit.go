package behaviors

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/davicafu/meetups/internal/shared/application/mediator"
	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
)

// Committer vuelca la unidad de trabajo a través de los data mappers.
type Committer interface {
	Commit(ctx context.Context) error
}

// Transaction es la transacción ambiente del scope.
type Transaction interface {
	Commit() error
	Rollback() error
}

// Commit cierra la petición: vuelca la unidad de trabajo y confirma la transacción.
// Cualquier fallo deshace todo, incluidas las filas de outbox ya insertadas.
type Commit struct {
	uow Committer
	tx  Transaction
	log *zap.Logger
}

func NewCommit(uow Committer, tx Transaction, log *zap.Logger) *Commit {
	return &Commit{uow: uow, tx: tx, log: log}
}

func (b *Commit) Handle(ctx context.Context, req mediator.Request, next mediator.Next) (any, error) {
	res, err := next(ctx, req)
	if err != nil {
		b.rollback(req)
		return nil, err
	}

	if err := b.uow.Commit(ctx); err != nil {
		b.rollback(req)
		return nil, fmt.Errorf("%w: %s: %w", sharedDomain.ErrCommitFailure, req.RequestName(), err)
	}
	if err := b.tx.Commit(); err != nil {
		b.rollback(req)
		return nil, fmt.Errorf("%w: %s: %w", sharedDomain.ErrCommitFailure, req.RequestName(), err)
	}
	return res, nil
}

func (b *Commit) rollback(req mediator.Request) {
	if err := b.tx.Rollback(); err != nil {
		b.log.Debug("rollback", zap.String("request", req.RequestName()), zap.Error(err))
	}
}
