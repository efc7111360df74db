package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"settlr/internal/model"
)

func newMockRepository(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepositoryWithDB(sqlx.NewDb(db, "postgres")), mock
}

func TestSearchProperties_CountsThenFetchesPage(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM properties WHERE listing_status = \$1`).
		WithArgs("Verified").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))

	rows := sqlmock.NewRows([]string{"id", "owner_id", "title", "city", "pricing.rent", "amenities", "created_at", "updated_at"}).
		AddRow("p-1", "owner-1", "2 BHK near metro", "Pune", 18000.0, []byte("{wifi,parking}"), now, now)
	mock.ExpectQuery(`SELECT .+ FROM properties\s+WHERE listing_status = \$1\s+ORDER BY created_at DESC\s+LIMIT \$2 OFFSET \$3`).
		WithArgs("Verified", 10, 10).
		WillReturnRows(rows)

	pred := BuildSearchQuery(nil, false)
	properties, total, err := repo.SearchProperties(context.Background(), pred, model.SortNewest, 10, 10)

	require.NoError(t, err)
	assert.Equal(t, 25, total)
	require.Len(t, properties, 1)
	p := properties[0]
	assert.Equal(t, "p-1", p.ID)
	require.NotNil(t, p.Pricing.Rent)
	assert.Equal(t, 18000.0, *p.Pricing.Rent)
	assert.Equal(t, []string{"wifi", "parking"}, []string(p.Amenities))
	assert.Equal(t, now, p.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchProperties_CountFailure(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM properties`).
		WillReturnError(errors.New("connection reset"))

	_, _, err := repo.SearchProperties(context.Background(), Predicate{}, model.SortNewest, 10, 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to count results")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestSearchProperties_SelectFailure(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM properties`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT .+ FROM properties`).
		WillReturnError(errors.New("statement timeout"))

	properties, total, err := repo.SearchProperties(context.Background(), Predicate{}, model.SortRentAsc, 10, 0)

	require.Error(t, err)
	assert.Nil(t, properties)
	assert.Zero(t, total)
	assert.Contains(t, err.Error(), "failed to fetch properties")
}

func TestGetPropertyByID_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT .+ FROM properties WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	p, err := repo.GetPropertyByID(context.Background(), "missing")

	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestDeleteProperty_ScopedToOwner(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`DELETE FROM properties WHERE id = \$1 AND owner_id = \$2`).
		WithArgs("p-1", "someone-else").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.DeleteProperty(context.Background(), "p-1", "someone-else")

	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestUpdateProperty_ResetsModeration(t *testing.T) {
	repo, mock := newMockRepository(t)
	title := "Renovated 2 BHK"

	mock.ExpectQuery(`UPDATE properties SET .+listing_status = 'Pending'.+WHERE id = \$22 AND owner_id = \$23`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "title", "verification.listing_status"}).
			AddRow("p-1", "owner-1", title, "Pending"))

	updated, err := repo.UpdateProperty(context.Background(), "p-1", "owner-1", &model.Property{Title: &title})

	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, model.ListingPending, updated.Verification.ListingStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogSearch_EncodesCriteria(t *testing.T) {
	repo, mock := newMockRepository(t)
	city := "Pune"

	mock.ExpectExec(`INSERT INTO search_logs`).
		WithArgs("search-1", "rooms in pune", `{"city":"Pune"}`, 2, sqlmock.AnyArg(), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.LogSearch(context.Background(), &model.SearchLog{
		SearchID:           "search-1",
		Query:              "rooms in pune",
		Criteria:           &model.SearchCriteria{City: &city},
		ResultCount:        2,
		ReturnedProperties: []string{"a", "b"},
		ResponseTimeMs:     42,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogFeedback_UnknownSearch(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(`UPDATE search_logs`).
		WithArgs("nope", "p-1", "click").
		WillReturnResult(sqlmock.NewResult(0, 0))

	found, err := repo.LogFeedback(context.Background(), "nope", "p-1", "click")

	require.NoError(t, err)
	assert.False(t, found)
}
