package model

// PropertySearchFilters represents the filter set accepted by the property
// query service. Nil means "not filtered"; IsAvailable defaults to true.
type PropertySearchFilters struct {
	Area         *string  `json:"area,omitempty"`
	MinRent      *float64 `json:"min_rent,omitempty"`
	MaxRent      *float64 `json:"max_rent,omitempty"`
	Bedrooms     *int     `json:"bedrooms,omitempty"`
	Bathrooms    *int     `json:"bathrooms,omitempty"`
	PropertyType *string  `json:"property_type,omitempty"`
	IsAvailable  *bool    `json:"is_available,omitempty"`
	Page         int      `json:"page"`
	PageSize     int      `json:"page_size"`
}

// PropertyListResponse is a counted page of properties. Total is the match
// count across all pages, independent of Page/PageSize.
type PropertyListResponse struct {
	Properties []Property `json:"properties"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
}

// SearchParams are the arguments the agent supplied to its property-search
// tool during the current conversational turn.
type SearchParams struct {
	Area         *string  `json:"area,omitempty"`
	PropertyType *string  `json:"property_type,omitempty"`
	Bedrooms     *int     `json:"bedrooms,omitempty"`
	MinRent      *float64 `json:"min_rent,omitempty"`
	MaxRent      *float64 `json:"max_rent,omitempty"`
	Limit        int      `json:"limit,omitempty"`
}

// IsEmpty reports whether no property search was performed this turn.
func (p SearchParams) IsEmpty() bool {
	return p.Area == nil && p.PropertyType == nil && p.Bedrooms == nil &&
		p.MinRent == nil && p.MaxRent == nil && p.Limit == 0
}

// PropertySummary is the flattened property row attached to chat responses.
type PropertySummary struct {
	ID           int64            `json:"id"`
	Title        string           `json:"title"`
	Area         string           `json:"area"`
	PropertyType string           `json:"property_type"`
	Bedrooms     int              `json:"bedrooms"`
	Bathrooms    int              `json:"bathrooms"`
	RentPrice    float64          `json:"rent_price"`
	Address      *string          `json:"address,omitempty"`
	ImageURLs    []string         `json:"image_urls"`
	Landlord     *LandlordContact `json:"landlord,omitempty"`
}
