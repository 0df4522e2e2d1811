package repository

import (
	"context"
	"fmt"

	"housing-intel/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"
)

// ReviewIndex is the vector-similarity store of tenant review embeddings,
// backed by a pgvector column. Queries rank by cosine distance and can be
// narrowed to a single area by metadata equality.
type ReviewIndex struct {
	db *sqlx.DB
}

// NewReviewIndex creates a review index over an existing connection.
func NewReviewIndex(db *sqlx.DB) *ReviewIndex {
	return &ReviewIndex{db: db}
}

// Add inserts a review document with its embedding.
func (x *ReviewIndex) Add(ctx context.Context, doc *model.ReviewDocument) error {
	query := `
		INSERT INTO review_embeddings (id, review_id, area, property_type, rent_paid,
			rating, property_id, document, embedding)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	vec := pgvector.NewVector(doc.Embedding)
	_, err := x.db.ExecContext(ctx, query,
		doc.ID, doc.ReviewID, doc.Area, doc.PropertyType, doc.RentPaid,
		doc.Rating, doc.PropertyID, doc.Document, vec)
	if err != nil {
		return fmt.Errorf("failed to add review document: %w", err)
	}
	return nil
}

// Query returns the topK documents nearest to the query embedding, optionally
// restricted to one area. Distance is pgvector's bounded cosine distance.
func (x *ReviewIndex) Query(ctx context.Context, embedding []float32, topK int, area *string) ([]model.ReviewHit, error) {
	if topK <= 0 {
		topK = 5
	}

	vec := pgvector.NewVector(embedding)
	args := []interface{}{vec}
	where := ""
	if area != nil {
		where = "WHERE area = $2"
		args = append(args, *area)
	}

	query := fmt.Sprintf(`
		SELECT document, area, property_type, rent_paid, rating, property_id,
			embedding <=> $1 AS distance
		FROM review_embeddings
		%s
		ORDER BY distance
		LIMIT %d
	`, where, topK)

	hits := []model.ReviewHit{}
	if err := x.db.SelectContext(ctx, &hits, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query review index: %w", err)
	}
	return hits, nil
}

// Count returns the number of indexed documents.
func (x *ReviewIndex) Count(ctx context.Context) (int, error) {
	var count int
	if err := x.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM review_embeddings"); err != nil {
		return 0, fmt.Errorf("failed to count review documents: %w", err)
	}
	return count, nil
}
