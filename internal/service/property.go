package service

import (
	"context"
	"strings"

	"housing-intel/internal/model"

	"github.com/sirupsen/logrus"
)

// PropertyStore is the relational storage surface the property service needs.
type PropertyStore interface {
	SearchProperties(ctx context.Context, filters *model.PropertySearchFilters) ([]model.Property, int, error)
	GetPropertyByID(ctx context.Context, propertyID int64) (*model.Property, error)
}

// PropertyService translates a filter set plus pagination into a counted,
// deterministic result page.
type PropertyService struct {
	store           PropertyStore
	defaultPageSize int
	maxPageSize     int
	contextLimit    int
	logger          *logrus.Logger
}

// NewPropertyService creates a new property service
func NewPropertyService(store PropertyStore, defaultPageSize, maxPageSize, contextLimit int, logger *logrus.Logger) *PropertyService {
	return &PropertyService{
		store:           store,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
		contextLimit:    contextLimit,
		logger:          logger,
	}
}

// Search returns the filtered, paginated property page with the total match
// count. Page and page size are normalized to their defaults and caps here.
func (s *PropertyService) Search(ctx context.Context, filters *model.PropertySearchFilters) (*model.PropertyListResponse, error) {
	if filters == nil {
		filters = &model.PropertySearchFilters{}
	}
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = s.defaultPageSize
	}
	if filters.PageSize > s.maxPageSize {
		filters.PageSize = s.maxPageSize
	}

	properties, total, err := s.store.SearchProperties(ctx, filters)
	if err != nil {
		return nil, err
	}

	return &model.PropertyListResponse{
		Properties: properties,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
	}, nil
}

// GetByID returns the property with images and landlord attached, or
// (nil, nil) when it does not exist.
func (s *PropertyService) GetByID(ctx context.Context, propertyID int64) (*model.Property, error) {
	return s.store.GetPropertyByID(ctx, propertyID)
}

// ContextForAI runs the agent's search parameters against the store and
// flattens the matches for the chat payload. Only available properties are
// considered; an unrecognized property type is dropped silently rather than
// rejected.
func (s *PropertyService) ContextForAI(ctx context.Context, params model.SearchParams) ([]model.PropertySummary, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = s.contextLimit
	}

	available := true
	filters := &model.PropertySearchFilters{
		Area:        params.Area,
		Bedrooms:    params.Bedrooms,
		MinRent:     params.MinRent,
		MaxRent:     params.MaxRent,
		IsAvailable: &available,
		Page:        1,
		PageSize:    limit,
	}
	if params.PropertyType != nil {
		normalized := strings.ToLower(strings.TrimSpace(*params.PropertyType))
		if model.IsValidPropertyType(normalized) {
			filters.PropertyType = &normalized
		} else {
			s.logger.WithField("property_type", *params.PropertyType).
				Debug("Dropping unrecognized property type from agent search")
		}
	}

	properties, _, err := s.store.SearchProperties(ctx, filters)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.PropertySummary, 0, len(properties))
	for _, p := range properties {
		urls := make([]string, 0, len(p.Images))
		for _, img := range p.Images {
			urls = append(urls, img.ImageURL)
		}
		summaries = append(summaries, model.PropertySummary{
			ID:           p.ID,
			Title:        p.Title,
			Area:         p.Area,
			PropertyType: p.PropertyType,
			Bedrooms:     p.Bedrooms,
			Bathrooms:    p.Bathrooms,
			RentPrice:    p.RentPrice,
			Address:      p.Address,
			ImageURLs:    urls,
			Landlord:     p.Landlord,
		})
	}
	return summaries, nil
}
