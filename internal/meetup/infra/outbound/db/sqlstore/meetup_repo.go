package sqlstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/davicafu/meetups/internal/meetup/domain"
	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
)

// MeetupRepo es el repositorio de escritura de un scope. Lee con la transacción de la
// petición y guarda cada agregado cargado en un mapa de identidad: dos Load del mismo id
// devuelven el mismo puntero.
type MeetupRepo struct {
	exec   sqlx.ExtContext
	uow    sharedDomain.UnitOfWork
	loaded map[uuid.UUID]*domain.Meetup
}

func NewMeetupRepo(exec sqlx.ExtContext, uow sharedDomain.UnitOfWork) *MeetupRepo {
	return &MeetupRepo{exec: exec, uow: uow, loaded: make(map[uuid.UUID]*domain.Meetup)}
}

var _ domain.MeetupRepository = (*MeetupRepo)(nil)

func (r *MeetupRepo) Add(m *domain.Meetup) {
	r.loaded[m.ID] = m
	r.uow.RegisterNew(m)
}

func (r *MeetupRepo) Delete(m *domain.Meetup) {
	delete(r.loaded, m.ID)
	r.uow.RegisterDeleted(m)
}

func (r *MeetupRepo) Load(ctx context.Context, id uuid.UUID) (*domain.Meetup, error) {
	if m, ok := r.loaded[id]; ok {
		return m, nil
	}

	var row meetupRow
	err := sqlx.GetContext(ctx, r.exec, &row, r.exec.Rebind(`SELECT
		meetup_id, creator_id, title, description, address, city, country,
		start_date, finish_date, status, moderation_status, rating, posted_at
		FROM meetups WHERE meetup_id = ?`), id)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrMeetupNotFound
		}
		return nil, fmt.Errorf("load meetup %s: %w", id, err)
	}

	var reviews []reviewRow
	err = sqlx.SelectContext(ctx, r.exec, &reviews, r.exec.Rebind(`SELECT
		review_id, meetup_id, reviewer_id, rating, comment, moderation_status, added_at
		FROM reviews WHERE meetup_id = ? ORDER BY added_at, review_id`), id)
	if err != nil {
		return nil, fmt.Errorf("load reviews of meetup %s: %w", id, err)
	}

	m := row.toDomain()
	for _, rr := range reviews {
		m.Reviews = append(m.Reviews, rr.toDomain())
	}
	r.loaded[id] = m
	return m, nil
}
