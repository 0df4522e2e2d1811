package repository

import (
	"context"
	"fmt"
)

// Schema statements applied by housingctl init-db. Primary-image uniqueness
// per property is advisory, not enforced at storage level.
var schemaStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS vector`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'user',
		full_name VARCHAR(255) NOT NULL,
		phone_number VARCHAR(20),
		is_verified BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS properties (
		id BIGSERIAL PRIMARY KEY,
		landlord_id BIGINT REFERENCES users(id),
		title VARCHAR(255) NOT NULL,
		description TEXT,
		area VARCHAR(100) NOT NULL,
		address VARCHAR(500),
		property_type VARCHAR(20) NOT NULL,
		bedrooms INTEGER NOT NULL CHECK (bedrooms >= 0),
		bathrooms INTEGER NOT NULL CHECK (bathrooms >= 0),
		rent_price NUMERIC(12,2) NOT NULL CHECK (rent_price > 0),
		is_available BOOLEAN NOT NULL DEFAULT TRUE,
		latitude NUMERIC(10,8),
		longitude NUMERIC(11,8),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_properties_area ON properties (area)`,
	`CREATE TABLE IF NOT EXISTS property_images (
		id BIGSERIAL PRIMARY KEY,
		property_id BIGINT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		image_url VARCHAR(500) NOT NULL,
		is_primary BOOLEAN NOT NULL DEFAULT FALSE,
		uploaded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id BIGSERIAL PRIMARY KEY,
		property_id BIGINT REFERENCES properties(id),
		contributor_id BIGINT REFERENCES users(id),
		area VARCHAR(100) NOT NULL,
		rent_paid NUMERIC(12,2),
		property_type VARCHAR(50),
		review_text TEXT NOT NULL,
		pros TEXT,
		cons TEXT,
		rating INTEGER CHECK (rating BETWEEN 1 AND 5),
		is_anonymous BOOLEAN NOT NULL DEFAULT TRUE,
		vector_id VARCHAR(100),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_area ON reviews (area)`,
	`CREATE TABLE IF NOT EXISTS review_embeddings (
		id VARCHAR(100) PRIMARY KEY,
		review_id BIGINT NOT NULL,
		area VARCHAR(100) NOT NULL,
		property_type VARCHAR(50),
		rent_paid NUMERIC(12,2),
		rating INTEGER,
		property_id BIGINT,
		document TEXT NOT NULL,
		embedding vector(1536)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_review_embeddings_area ON review_embeddings (area)`,
}

// Migrate applies the schema. Statements are idempotent.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
