package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"housing-intel/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresRepository handles relational storage for properties, users,
// images and reviews.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// NewPostgresRepositoryFromDB wraps an existing connection (used by tests).
func NewPostgresRepositoryFromDB(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// DB exposes the underlying connection for sibling stores.
func (r *PostgresRepository) DB() *sqlx.DB {
	return r.db
}

const propertyColumns = `
	id, landlord_id, title, description, area, address, property_type,
	bedrooms, bathrooms, rent_price, is_available, latitude, longitude,
	created_at, updated_at`

// SearchProperties returns the page of properties matching the filter set,
// with images and landlord contact attached, plus the total match count
// computed before pagination.
func (r *PostgresRepository) SearchProperties(ctx context.Context, filters *model.PropertySearchFilters) ([]model.Property, int, error) {
	whereClauses := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	if filters != nil {
		if filters.Area != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("area ILIKE $%d", argIndex))
			args = append(args, "%"+*filters.Area+"%")
			argIndex++
		}
		// Exact match: an unrecognized property_type simply matches no rows.
		if filters.PropertyType != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("property_type = $%d", argIndex))
			args = append(args, *filters.PropertyType)
			argIndex++
		}
		if filters.Bedrooms != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("bedrooms = $%d", argIndex))
			args = append(args, *filters.Bedrooms)
			argIndex++
		}
		if filters.Bathrooms != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("bathrooms = $%d", argIndex))
			args = append(args, *filters.Bathrooms)
			argIndex++
		}
		if filters.MinRent != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("rent_price >= $%d", argIndex))
			args = append(args, *filters.MinRent)
			argIndex++
		}
		if filters.MaxRent != nil {
			whereClauses = append(whereClauses, fmt.Sprintf("rent_price <= $%d", argIndex))
			args = append(args, *filters.MaxRent)
			argIndex++
		}
	}

	// Availability defaults to true when the caller does not say otherwise.
	available := true
	if filters != nil && filters.IsAvailable != nil {
		available = *filters.IsAvailable
	}
	whereClauses = append(whereClauses, fmt.Sprintf("is_available = $%d", argIndex))
	args = append(args, available)
	argIndex++

	whereClause := strings.Join(whereClauses, " AND ")

	// Count total matching rows before pagination
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM properties WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}

	page, pageSize := 1, 20
	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
		}
	}
	offset := (page - 1) * pageSize

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM properties
		WHERE %s
		ORDER BY id
		LIMIT $%d OFFSET $%d
	`, propertyColumns, whereClause, argIndex, argIndex+1)
	args = append(args, pageSize, offset)

	properties := []model.Property{}
	if err := r.db.SelectContext(ctx, &properties, selectQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch properties: %w", err)
	}

	if err := r.attachRelations(ctx, properties); err != nil {
		return nil, 0, err
	}

	return properties, total, nil
}

// GetPropertyByID retrieves a single property with images and landlord
// attached. A missing property returns (nil, nil), not an error.
func (r *PostgresRepository) GetPropertyByID(ctx context.Context, propertyID int64) (*model.Property, error) {
	var property model.Property
	query := fmt.Sprintf("SELECT %s FROM properties WHERE id = $1", propertyColumns)
	err := r.db.GetContext(ctx, &property, query, propertyID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}

	props := []model.Property{property}
	if err := r.attachRelations(ctx, props); err != nil {
		return nil, err
	}
	return &props[0], nil
}

// attachRelations eagerly loads images and landlord contacts for a page of
// properties with two follow-up queries.
func (r *PostgresRepository) attachRelations(ctx context.Context, properties []model.Property) error {
	if len(properties) == 0 {
		return nil
	}

	propertyIDs := make([]int64, 0, len(properties))
	landlordIDs := make([]int64, 0, len(properties))
	for i := range properties {
		properties[i].Images = []model.PropertyImage{}
		propertyIDs = append(propertyIDs, properties[i].ID)
		if properties[i].LandlordID != nil {
			landlordIDs = append(landlordIDs, *properties[i].LandlordID)
		}
	}

	var images []model.PropertyImage
	imageQuery := `
		SELECT id, property_id, image_url, is_primary, uploaded_at
		FROM property_images
		WHERE property_id = ANY($1)
		ORDER BY is_primary DESC, id
	`
	if err := r.db.SelectContext(ctx, &images, imageQuery, pq.Array(propertyIDs)); err != nil {
		return fmt.Errorf("failed to fetch property images: %w", err)
	}

	imagesByProperty := make(map[int64][]model.PropertyImage, len(properties))
	for _, img := range images {
		imagesByProperty[img.PropertyID] = append(imagesByProperty[img.PropertyID], img)
	}

	landlords := map[int64]model.LandlordContact{}
	if len(landlordIDs) > 0 {
		var rows []struct {
			ID int64 `db:"id"`
			model.LandlordContact
		}
		landlordQuery := `
			SELECT id, full_name, phone_number, email
			FROM users
			WHERE id = ANY($1)
		`
		if err := r.db.SelectContext(ctx, &rows, landlordQuery, pq.Array(landlordIDs)); err != nil {
			return fmt.Errorf("failed to fetch landlords: %w", err)
		}
		for _, row := range rows {
			landlords[row.ID] = row.LandlordContact
		}
	}

	for i := range properties {
		if imgs, ok := imagesByProperty[properties[i].ID]; ok {
			properties[i].Images = imgs
		}
		if properties[i].LandlordID != nil {
			if contact, ok := landlords[*properties[i].LandlordID]; ok {
				c := contact
				properties[i].Landlord = &c
			}
		}
	}

	return nil
}

// InsertUser inserts a user and returns its id (seeding path).
func (r *PostgresRepository) InsertUser(ctx context.Context, u *model.User) (int64, error) {
	query := `
		INSERT INTO users (email, password_hash, role, full_name, phone_number, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id int64
	err := r.db.GetContext(ctx, &id, query, u.Email, u.PasswordHash, u.Role, u.FullName, u.PhoneNumber, u.IsVerified)
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

// InsertProperty inserts a property and returns its id (seeding path).
func (r *PostgresRepository) InsertProperty(ctx context.Context, p *model.Property) (int64, error) {
	query := `
		INSERT INTO properties (landlord_id, title, description, area, address, property_type,
			bedrooms, bathrooms, rent_price, is_available, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	var id int64
	err := r.db.GetContext(ctx, &id, query,
		p.LandlordID, p.Title, p.Description, p.Area, p.Address, p.PropertyType,
		p.Bedrooms, p.Bathrooms, p.RentPrice, p.IsAvailable, p.Latitude, p.Longitude)
	if err != nil {
		return 0, fmt.Errorf("failed to insert property: %w", err)
	}
	return id, nil
}

// InsertPropertyImage inserts an image row for a property (seeding path).
func (r *PostgresRepository) InsertPropertyImage(ctx context.Context, img *model.PropertyImage) error {
	query := `
		INSERT INTO property_images (property_id, image_url, is_primary)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, img.PropertyID, img.ImageURL, img.IsPrimary); err != nil {
		return fmt.Errorf("failed to insert property image: %w", err)
	}
	return nil
}

// InsertReview inserts a review and returns its id (seeding path).
func (r *PostgresRepository) InsertReview(ctx context.Context, rv *model.Review) (int64, error) {
	query := `
		INSERT INTO reviews (property_id, contributor_id, area, rent_paid, property_type,
			review_text, pros, cons, rating, is_anonymous)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	var id int64
	err := r.db.GetContext(ctx, &id, query,
		rv.PropertyID, rv.ContributorID, rv.Area, rv.RentPaid, rv.PropertyType,
		rv.ReviewText, rv.Pros, rv.Cons, rv.Rating, rv.IsAnonymous)
	if err != nil {
		return 0, fmt.Errorf("failed to insert review: %w", err)
	}
	return id, nil
}

// ListUnindexedReviews returns reviews that have no vector index entry yet.
func (r *PostgresRepository) ListUnindexedReviews(ctx context.Context) ([]model.Review, error) {
	var reviews []model.Review
	query := `
		SELECT id, property_id, contributor_id, area, rent_paid, property_type,
			review_text, pros, cons, rating, is_anonymous, vector_id, created_at, updated_at
		FROM reviews
		WHERE vector_id IS NULL
		ORDER BY id
	`
	if err := r.db.SelectContext(ctx, &reviews, query); err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// SetReviewVectorID records the review's vector index entry key.
func (r *PostgresRepository) SetReviewVectorID(ctx context.Context, reviewID int64, vectorID string) error {
	query := `UPDATE reviews SET vector_id = $1, updated_at = NOW() WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, vectorID, reviewID); err != nil {
		return fmt.Errorf("failed to set review vector id: %w", err)
	}
	return nil
}
