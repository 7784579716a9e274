package sqlstore

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davicafu/meetups/internal/meetup/domain"
	sharedDomain "github.com/davicafu/meetups/internal/shared/domain"
	"github.com/davicafu/meetups/internal/shared/infra/persistence"
	"github.com/davicafu/meetups/internal/shared/platform/query"
)

var day = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()
	db, err := persistence.Open(ctx, persistence.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, persistence.Migrate(ctx, db, persistence.DriverSQLite))
	t.Cleanup(func() { db.Close() })
	return db
}

// commit vuelca la unidad de trabajo en una transacción nueva.
func commit(t *testing.T, db *sqlx.DB, fn func(repo *MeetupRepo, uow *persistence.UnitOfWork)) {
	t.Helper()
	ctx := context.Background()
	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	uow := persistence.NewUnitOfWork(RegisterMappers(persistence.NewMapperRegistry()).Bind(tx))
	fn(NewMeetupRepo(tx, uow), uow)
	require.NoError(t, uow.Commit(ctx))
	require.NoError(t, tx.Commit())
}

func newMeetup(start, finish time.Time) *domain.Meetup {
	slot, _ := domain.NewTimeSlot(start, finish)
	return domain.NewMeetup(uuid.New(), uuid.New(), "Gophers", "monthly", domain.Location{Address: "a", City: "Madrid", Country: "ES"}, slot, day)
}

func TestMeetupRepo_RoundTripWithReviews(t *testing.T) {
	// ARRANGE
	db := openTestDB(t)
	ctx := context.Background()
	m := newMeetup(day.AddDate(0, 0, 1), day.AddDate(0, 0, 2))
	m.Moderation = sharedDomain.ModerationApproved
	reviewer := uuid.New()

	// ACT
	commit(t, db, func(repo *MeetupRepo, uow *persistence.UnitOfWork) {
		repo.Add(m)
		_, err := m.AddReview(uow, uuid.New(), reviewer, 4, "good", day)
		require.NoError(t, err)
	})

	var loaded *domain.Meetup
	commit(t, db, func(repo *MeetupRepo, uow *persistence.UnitOfWork) {
		var err error
		loaded, err = repo.Load(ctx, m.ID)
		require.NoError(t, err)
		again, err := repo.Load(ctx, m.ID)
		require.NoError(t, err)
		assert.Same(t, loaded, again)

		require.NoError(t, loaded.ModerateReview(uow, loaded.Reviews[0].ID, sharedDomain.ModerationApproved, day))
	})

	// ASSERT
	assert.Equal(t, m.Title, loaded.Title)
	assert.Equal(t, m.Location, loaded.Location)
	assert.True(t, m.Time.Start.Equal(loaded.Time.Start))
	require.Len(t, loaded.Reviews, 1)
	assert.Equal(t, reviewer, loaded.Reviews[0].ReviewerID)

	views, err := NewMeetupGateway(db).ListMeetups(ctx, nil, query.Pagination{})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, decimal.NewFromInt(4).Equal(views[0].Rating), views[0].Rating.String())
}

func TestMeetupRepo_LoadMissing(t *testing.T) {
	db := openTestDB(t)

	_, err := NewMeetupRepo(db, persistence.NewUnitOfWork(persistence.BoundMappers{})).Load(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrMeetupNotFound)
}

func TestMeetupRepo_RemoveDeletesReviewsFirst(t *testing.T) {
	// ARRANGE
	db := openTestDB(t)
	ctx := context.Background()
	m := newMeetup(day, day)
	m.Moderation = sharedDomain.ModerationApproved
	commit(t, db, func(repo *MeetupRepo, uow *persistence.UnitOfWork) {
		repo.Add(m)
		_, err := m.AddReview(uow, uuid.New(), uuid.New(), 5, "", day)
		require.NoError(t, err)
	})

	// ACT
	commit(t, db, func(repo *MeetupRepo, uow *persistence.UnitOfWork) {
		loaded, err := repo.Load(ctx, m.ID)
		require.NoError(t, err)
		loaded.Remove(uow, day)
		repo.Delete(loaded)
	})

	// ASSERT
	var meetups, reviews int
	require.NoError(t, db.GetContext(ctx, &meetups, `SELECT COUNT(*) FROM meetups`))
	require.NoError(t, db.GetContext(ctx, &reviews, `SELECT COUNT(*) FROM reviews`))
	assert.Zero(t, meetups)
	assert.Zero(t, reviews)
}

func TestGateways_FilterAndPaginate(t *testing.T) {
	// ARRANGE
	db := openTestDB(t)
	ctx := context.Background()
	approved := newMeetup(day.AddDate(0, 0, 1), day.AddDate(0, 0, 1))
	approved.Moderation = sharedDomain.ModerationApproved
	pending := newMeetup(day.AddDate(0, 0, 2), day.AddDate(0, 0, 2))
	commit(t, db, func(repo *MeetupRepo, uow *persistence.UnitOfWork) {
		repo.Add(approved)
		repo.Add(pending)
		for i := 0; i < 3; i++ {
			_, err := approved.AddReview(uow, uuid.New(), uuid.New(), 3, "", day.Add(time.Duration(i)*time.Minute))
			require.NoError(t, err)
		}
	})
	meetups, reviews := NewMeetupGateway(db), NewReviewGateway(db)

	// ACT
	onlyApproved, err := meetups.ListMeetups(ctx, domain.ModerationIn{sharedDomain.ModerationApproved}, query.Pagination{})
	require.NoError(t, err)
	all, err := meetups.ListMeetups(ctx, nil, query.Pagination{Limit: 1, Offset: 1})
	require.NoError(t, err)
	page, err := reviews.ListReviews(ctx, query.All{domain.MeetupIDCriteria{ID: approved.ID}}, query.Pagination{Limit: 2, Offset: 1})
	require.NoError(t, err)
	noneApproved, err := reviews.ListReviews(ctx, domain.ModerationIn{sharedDomain.ModerationApproved}, query.Pagination{})
	require.NoError(t, err)

	// ASSERT
	require.Len(t, onlyApproved, 1)
	assert.Equal(t, approved.ID, onlyApproved[0].ID)
	require.Len(t, all, 1)
	assert.Equal(t, pending.ID, all[0].ID)
	assert.Len(t, page, 2)
	assert.Empty(t, noneApproved)
}

func TestMeetupGateway_ListStaleAndFinished(t *testing.T) {
	// ARRANGE
	db := openTestDB(t)
	ctx := context.Background()
	upToDate := newMeetup(day.AddDate(0, 0, 5), day.AddDate(0, 0, 6))
	running := newMeetup(day.AddDate(0, 0, 3), day.AddDate(0, 0, 4))
	finished := newMeetup(day.AddDate(0, 0, -20), day.AddDate(0, 0, -10))
	finished.Status = domain.StatusCompleted
	commit(t, db, func(repo *MeetupRepo, _ *persistence.UnitOfWork) {
		repo.Add(upToDate)
		repo.Add(running)
		repo.Add(finished)
	})
	today := day.AddDate(0, 0, 3).Add(15 * time.Hour)

	// ACT
	stale, err := NewMeetupGateway(db).ListStale(ctx, today)
	require.NoError(t, err)
	expired, err := NewMeetupGateway(db).ListFinishedBefore(ctx, day.AddDate(0, 0, -7))
	require.NoError(t, err)

	// ASSERT
	assert.Equal(t, []uuid.UUID{running.ID}, stale)
	assert.Equal(t, []uuid.UUID{finished.ID}, expired)
}

func TestMeetupMapper_DeleteMissingRowOnPostgres(t *testing.T) {
	// ARRANGE
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	db := sqlx.NewDb(mockDB, "pgx")
	m := newMeetup(day, day)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM meetups WHERE meetup_id = $1`)).
		WithArgs(m.ID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// ACT
	err = NewMeetupMapper(db).Delete(context.Background(), m)

	// ASSERT
	assert.ErrorIs(t, err, domain.ErrMeetupNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewMapper_RejectsOtherEntities(t *testing.T) {
	db := sqlx.NewDb(nil, "pgx")

	err := NewReviewMapper(db).Insert(context.Background(), newMeetup(day, day))

	assert.ErrorContains(t, err, "unexpected entity")
}
