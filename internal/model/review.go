package model

import "time"

// Review is a tenant's account of living in an area. Property and contributor
// links are optional: reviews outlive specific listings and may be anonymous,
// so area, rent_paid and property_type are carried denormalized.
type Review struct {
	ID            int64      `json:"id" db:"id"`
	PropertyID    *int64     `json:"property_id,omitempty" db:"property_id"`
	ContributorID *int64     `json:"contributor_id,omitempty" db:"contributor_id"`
	Area          string     `json:"area" db:"area"`
	RentPaid      *float64   `json:"rent_paid,omitempty" db:"rent_paid"`
	PropertyType  *string    `json:"property_type,omitempty" db:"property_type"`
	ReviewText    string     `json:"review_text" db:"review_text"`
	Pros          *string    `json:"pros,omitempty" db:"pros"`
	Cons          *string    `json:"cons,omitempty" db:"cons"`
	Rating        *int       `json:"rating,omitempty" db:"rating"` // 1-5
	IsAnonymous   bool       `json:"is_anonymous" db:"is_anonymous"`
	VectorID      *string    `json:"vector_id,omitempty" db:"vector_id"` // review index entry key
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// ReviewDocument is an entry of the review vector index: the embedded review
// text plus the metadata the index can filter on.
type ReviewDocument struct {
	ID           string    `db:"id"`
	ReviewID     int64     `db:"review_id"`
	Area         string    `db:"area"`
	PropertyType *string   `db:"property_type"`
	RentPaid     *float64  `db:"rent_paid"`
	Rating       *int      `db:"rating"`
	PropertyID   *int64    `db:"property_id"`
	Document     string    `db:"document"`
	Embedding    []float32 `db:"-"`
}

// ReviewHit is a ranked result from the review vector index. Distance is the
// cosine distance of the query embedding; relevance is 1 - distance.
type ReviewHit struct {
	Document     string   `db:"document"`
	Area         string   `db:"area"`
	PropertyType *string  `db:"property_type"`
	RentPaid     *float64 `db:"rent_paid"`
	Rating       *int     `db:"rating"`
	PropertyID   *int64   `db:"property_id"`
	Distance     float64  `db:"distance"`
}

// Relevance converts the hit's cosine distance to a 0..1-style relevance score.
func (h ReviewHit) Relevance() float64 {
	return 1 - h.Distance
}
