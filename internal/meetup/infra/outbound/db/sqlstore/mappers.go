package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/davicafu/meetups/internal/meetup/domain"
	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
	"github.com/davicafu/meetups/internal/shared/infra/persistence"
)

// ------------------ Filas ------------------

type meetupRow struct {
	ID          uuid.UUID       `db:"meetup_id"`
	CreatorID   uuid.UUID       `db:"creator_id"`
	Title       string          `db:"title"`
	Description string          `db:"description"`
	Address     string          `db:"address"`
	City        string          `db:"city"`
	Country     string          `db:"country"`
	StartDate   time.Time       `db:"start_date"`
	FinishDate  time.Time       `db:"finish_date"`
	Status      string          `db:"status"`
	Moderation  string          `db:"moderation_status"`
	Rating      decimal.Decimal `db:"rating"`
	PostedAt    time.Time       `db:"posted_at"`
}

func meetupRowFrom(m *domain.Meetup) meetupRow {
	return meetupRow{
		ID:          m.ID,
		CreatorID:   m.CreatorID,
		Title:       m.Title,
		Description: m.Description,
		Address:     m.Location.Address,
		City:        m.Location.City,
		Country:     m.Location.Country,
		StartDate:   m.Time.Start.UTC(),
		FinishDate:  m.Time.Finish.UTC(),
		Status:      string(m.Status),
		Moderation:  string(m.Moderation),
		Rating:      m.Rating,
		PostedAt:    m.PostedAt.UTC(),
	}
}

func (r meetupRow) toDomain() *domain.Meetup {
	return &domain.Meetup{
		ID:          r.ID,
		CreatorID:   r.CreatorID,
		Title:       r.Title,
		Description: r.Description,
		Location:    domain.Location{Address: r.Address, City: r.City, Country: r.Country},
		Time:        domain.TimeSlot{Start: r.StartDate.UTC(), Finish: r.FinishDate.UTC()},
		Status:      domain.MeetupStatus(r.Status),
		Moderation:  sharedDomain.ModerationStatus(r.Moderation),
		Rating:      r.Rating,
		PostedAt:    r.PostedAt.UTC(),
	}
}

type reviewRow struct {
	ID         uuid.UUID `db:"review_id"`
	MeetupID   uuid.UUID `db:"meetup_id"`
	ReviewerID uuid.UUID `db:"reviewer_id"`
	Rating     int       `db:"rating"`
	Comment    string    `db:"comment"`
	Moderation string    `db:"moderation_status"`
	AddedAt    time.Time `db:"added_at"`
}

func reviewRowFrom(r *domain.Review) reviewRow {
	return reviewRow{
		ID:         r.ID,
		MeetupID:   r.MeetupID,
		ReviewerID: r.ReviewerID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		Moderation: string(r.Moderation),
		AddedAt:    r.AddedAt.UTC(),
	}
}

func (r reviewRow) toDomain() *domain.Review {
	return &domain.Review{
		ID:         r.ID,
		MeetupID:   r.MeetupID,
		ReviewerID: r.ReviewerID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		Moderation: sharedDomain.ModerationStatus(r.Moderation),
		AddedAt:    r.AddedAt.UTC(),
	}
}

// ------------------ Data mappers ------------------

// MeetupMapper persiste el meetup sin sus reseñas: cada reseña se registra por separado.
type MeetupMapper struct {
	exec sqlx.ExtContext
}

func NewMeetupMapper(exec sqlx.ExtContext) persistence.DataMapper {
	return &MeetupMapper{exec: exec}
}

func asMeetup(e sharedDomain.Entity) (*domain.Meetup, error) {
	m, ok := e.(*domain.Meetup)
	if !ok {
		return nil, fmt.Errorf("meetup mapper: unexpected entity %T", e)
	}
	return m, nil
}

func (mp *MeetupMapper) Insert(ctx context.Context, e sharedDomain.Entity) error {
	m, err := asMeetup(e)
	if err != nil {
		return err
	}
	_, err = sqlx.NamedExecContext(ctx, mp.exec, `INSERT INTO meetups
		(meetup_id, creator_id, title, description, address, city, country, start_date, finish_date, status, moderation_status, rating, posted_at)
		VALUES (:meetup_id, :creator_id, :title, :description, :address, :city, :country, :start_date, :finish_date, :status, :moderation_status, :rating, :posted_at)`,
		meetupRowFrom(m))
	return err
}

func (mp *MeetupMapper) Update(ctx context.Context, e sharedDomain.Entity) error {
	m, err := asMeetup(e)
	if err != nil {
		return err
	}
	res, err := sqlx.NamedExecContext(ctx, mp.exec, `UPDATE meetups SET
		title = :title, description = :description, address = :address, city = :city, country = :country,
		start_date = :start_date, finish_date = :finish_date, status = :status,
		moderation_status = :moderation_status, rating = :rating
		WHERE meetup_id = :meetup_id`,
		meetupRowFrom(m))
	return expectOneRow(res, err, domain.ErrMeetupNotFound)
}

func (mp *MeetupMapper) Delete(ctx context.Context, e sharedDomain.Entity) error {
	m, err := asMeetup(e)
	if err != nil {
		return err
	}
	res, err := mp.exec.ExecContext(ctx, mp.exec.Rebind(`DELETE FROM meetups WHERE meetup_id = ?`), m.ID)
	return expectOneRow(res, err, domain.ErrMeetupNotFound)
}

type ReviewMapper struct {
	exec sqlx.ExtContext
}

func NewReviewMapper(exec sqlx.ExtContext) persistence.DataMapper {
	return &ReviewMapper{exec: exec}
}

func asReview(e sharedDomain.Entity) (*domain.Review, error) {
	r, ok := e.(*domain.Review)
	if !ok {
		return nil, fmt.Errorf("review mapper: unexpected entity %T", e)
	}
	return r, nil
}

func (mp *ReviewMapper) Insert(ctx context.Context, e sharedDomain.Entity) error {
	r, err := asReview(e)
	if err != nil {
		return err
	}
	_, err = sqlx.NamedExecContext(ctx, mp.exec, `INSERT INTO reviews
		(review_id, meetup_id, reviewer_id, rating, comment, moderation_status, added_at)
		VALUES (:review_id, :meetup_id, :reviewer_id, :rating, :comment, :moderation_status, :added_at)`,
		reviewRowFrom(r))
	return err
}

func (mp *ReviewMapper) Update(ctx context.Context, e sharedDomain.Entity) error {
	r, err := asReview(e)
	if err != nil {
		return err
	}
	res, err := sqlx.NamedExecContext(ctx, mp.exec, `UPDATE reviews SET
		rating = :rating, comment = :comment, moderation_status = :moderation_status
		WHERE review_id = :review_id`,
		reviewRowFrom(r))
	return expectOneRow(res, err, domain.ErrReviewNotFound)
}

func (mp *ReviewMapper) Delete(ctx context.Context, e sharedDomain.Entity) error {
	r, err := asReview(e)
	if err != nil {
		return err
	}
	res, err := mp.exec.ExecContext(ctx, mp.exec.Rebind(`DELETE FROM reviews WHERE review_id = ?`), r.ID)
	return expectOneRow(res, err, domain.ErrReviewNotFound)
}

// RegisterMappers añade los mappers de este contexto al registro compartido.
func RegisterMappers(r *persistence.MapperRegistry) *persistence.MapperRegistry {
	return r.
		Register(domain.MeetupKind, NewMeetupMapper).
		Register(domain.ReviewKind, NewReviewMapper)
}
