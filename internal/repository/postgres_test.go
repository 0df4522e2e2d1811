package repository

import (
	"context"
	"testing"
	"time"

	"housing-intel/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepositoryFromDB(sqlx.NewDb(db, "postgres")), mock
}

func propertyRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "landlord_id", "title", "description", "area", "address", "property_type",
		"bedrooms", "bathrooms", "rent_price", "is_available", "latitude", "longitude",
		"created_at", "updated_at",
	})
}

func TestSearchPropertiesCountsBeforePagination(t *testing.T) {
	repo, mock := newMockRepo(t)

	area := "Lekki"
	filters := &model.PropertySearchFilters{
		Area:     &area,
		Page:     2,
		PageSize: 20,
	}

	// Total reflects all matches even though the page holds only one row.
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM properties WHERE 1=1 AND area ILIKE \$1 AND is_available = \$2`).
		WithArgs("%Lekki%", true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(47))

	mock.ExpectQuery(`(?s)SELECT .+FROM properties\s+WHERE 1=1 AND area ILIKE \$1 AND is_available = \$2\s+ORDER BY id\s+LIMIT \$3 OFFSET \$4`).
		WithArgs("%Lekki%", true, 20, 20).
		WillReturnRows(propertyRows().
			AddRow(21, nil, "Modern 2 Bedroom Apartment in Lekki", nil, "Lekki", nil, "apartment",
				2, 2, 1500000.0, true, nil, nil, time.Now(), nil))

	mock.ExpectQuery(`(?s)SELECT id, property_id, image_url, is_primary, uploaded_at\s+FROM property_images`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "property_id", "image_url", "is_primary", "uploaded_at"}))

	properties, total, err := repo.SearchProperties(context.Background(), filters)
	require.NoError(t, err)
	assert.Equal(t, 47, total)
	require.Len(t, properties, 1)
	assert.Equal(t, int64(21), properties[0].ID)
	assert.NotNil(t, properties[0].Images, "images default to an empty slice")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchPropertiesAvailabilityDefaultsTrue(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM properties WHERE 1=1 AND is_available = \$1`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectQuery(`(?s)SELECT .+FROM properties\s+WHERE 1=1 AND is_available = \$1\s+ORDER BY id\s+LIMIT \$2 OFFSET \$3`).
		WithArgs(true, 20, 0).
		WillReturnRows(propertyRows())

	properties, total, err := repo.SearchProperties(context.Background(), &model.PropertySearchFilters{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, properties)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchPropertiesExplicitUnavailable(t *testing.T) {
	repo, mock := newMockRepo(t)

	unavailable := false
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM properties WHERE 1=1 AND is_available = \$1`).
		WithArgs(false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	mock.ExpectQuery(`(?s)SELECT .+FROM properties\s+WHERE 1=1 AND is_available = \$1\s+ORDER BY id\s+LIMIT \$2 OFFSET \$3`).
		WithArgs(false, 20, 0).
		WillReturnRows(propertyRows())

	_, total, err := repo.SearchProperties(context.Background(), &model.PropertySearchFilters{
		IsAvailable: &unavailable,
		Page:        1,
		PageSize:    20,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchPropertiesRentRange(t *testing.T) {
	repo, mock := newMockRepo(t)

	minRent, maxRent := 2000000.0, 1000000.0
	// min above max is passed through as-is and simply matches nothing
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM properties WHERE 1=1 AND rent_price >= \$1 AND rent_price <= \$2 AND is_available = \$3`).
		WithArgs(minRent, maxRent, true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	mock.ExpectQuery(`(?s)SELECT .+ORDER BY id\s+LIMIT \$4 OFFSET \$5`).
		WithArgs(minRent, maxRent, true, 20, 0).
		WillReturnRows(propertyRows())

	properties, total, err := repo.SearchProperties(context.Background(), &model.PropertySearchFilters{
		MinRent:  &minRent,
		MaxRent:  &maxRent,
		Page:     1,
		PageSize: 20,
	})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, properties)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPropertyByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`(?s)SELECT .+FROM properties WHERE id = \$1`).
		WithArgs(int64(999)).
		WillReturnRows(propertyRows())

	property, err := repo.GetPropertyByID(context.Background(), 999)
	require.NoError(t, err, "a missing property is not an error")
	assert.Nil(t, property)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPropertyByIDAttachesRelations(t *testing.T) {
	repo, mock := newMockRepo(t)

	landlordID := int64(7)
	mock.ExpectQuery(`(?s)SELECT .+FROM properties WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(propertyRows().
			AddRow(5, landlordID, "Luxury 4 Bedroom Duplex in Ikoyi", nil, "Ikoyi", nil, "duplex",
				4, 4, 8000000.0, true, nil, nil, time.Now(), nil))

	mock.ExpectQuery(`(?s)SELECT id, property_id, image_url, is_primary, uploaded_at\s+FROM property_images`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "property_id", "image_url", "is_primary", "uploaded_at"}).
			AddRow(2, 5, "https://example.com/b.jpg", true, time.Now()).
			AddRow(1, 5, "https://example.com/a.jpg", false, time.Now()))

	mock.ExpectQuery(`(?s)SELECT id, full_name, phone_number, email\s+FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name", "phone_number", "email"}).
			AddRow(7, "Ngozi Eze", "08045678901", "ngozi.eze@gmail.com"))

	property, err := repo.GetPropertyByID(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, property)
	require.Len(t, property.Images, 2)
	assert.True(t, property.Images[0].IsPrimary, "primary image sorts first")
	require.NotNil(t, property.Landlord)
	assert.Equal(t, "Ngozi Eze", property.Landlord.FullName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
