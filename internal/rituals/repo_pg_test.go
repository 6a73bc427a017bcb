package rituals

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ritualRowColumns = []string{"id", "slug", "name", "category", "summary", "description", "duration_minutes", "price_cents", "currency", "image_key", "active", "sort_order", "created_at", "updated_at"}

func TestPGRepoListActiveByCategory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	now := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT .* FROM rituals WHERE active = TRUE AND category = \\$1 ORDER BY sort_order, name").
		WithArgs("PIETRA").
		WillReturnRows(sqlmock.NewRows(ritualRowColumns).
			AddRow("r1", "pietre-calde", "Pietre Calde", "PIETRA", "", "", 60, 8500, "EUR", "", true, 1, now, now))

	items, err := (&PGRepo{DB: db}).List(context.Background(), ListFilter{Category: "PIETRA"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "pietre-calde", items[0].Slug)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoListAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT .* FROM rituals ORDER BY sort_order, name").
		WillReturnRows(sqlmock.NewRows(ritualRowColumns))

	items, err := (&PGRepo{DB: db}).List(context.Background(), ListFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Empty(t, items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoGetBySlugNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("FROM rituals WHERE slug = \\$1").WithArgs("nope").WillReturnError(sql.ErrNoRows)

	_, err = (&PGRepo{DB: db}).GetBySlug(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPGRepoCreateMapsUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("INSERT INTO rituals").WillReturnError(&pgconn.PgError{Code: "23505"})

	err = (&PGRepo{DB: db}).Create(context.Background(), Ritual{ID: "r1", Slug: "dup"})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestPGRepoUpdateMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("UPDATE rituals SET").WillReturnResult(sqlmock.NewResult(0, 0))

	err = (&PGRepo{DB: db}).Update(context.Background(), Ritual{ID: "missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPGRepoDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectExec("DELETE FROM rituals WHERE id = \\$1").WithArgs("r1").WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, (&PGRepo{DB: db}).Delete(context.Background(), "r1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
