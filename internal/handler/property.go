package handler

import (
	"context"
	"net/http"
	"strconv"

	"housing-intel/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PropertyFinder is the query service surface the handler depends on.
type PropertyFinder interface {
	Search(ctx context.Context, filters *model.PropertySearchFilters) (*model.PropertyListResponse, error)
	GetByID(ctx context.Context, propertyID int64) (*model.Property, error)
}

// PropertyHandler serves the public property endpoints.
type PropertyHandler struct {
	properties PropertyFinder
	logger     *logrus.Logger
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(properties PropertyFinder, logger *logrus.Logger) *PropertyHandler {
	return &PropertyHandler{
		properties: properties,
		logger:     logger,
	}
}

// propertyQuery binds and validates the list endpoint's query parameters.
// Malformed values are rejected at the boundary; an unknown property_type is
// not rejected, it flows through and matches nothing.
type propertyQuery struct {
	Area         *string  `form:"area"`
	MinRent      *float64 `form:"min_rent" binding:"omitempty,gte=0"`
	MaxRent      *float64 `form:"max_rent" binding:"omitempty,gte=0"`
	Bedrooms     *int     `form:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms    *int     `form:"bathrooms" binding:"omitempty,gte=0"`
	PropertyType *string  `form:"property_type"`
	IsAvailable  *bool    `form:"is_available"`
	Page         int      `form:"page,default=1" binding:"gte=1"`
	PageSize     int      `form:"page_size,default=20" binding:"gte=1,lte=100"`
}

// GetProperties handles GET /api/v1/properties
func (h *PropertyHandler) GetProperties(c *gin.Context) {
	var q propertyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	filters := &model.PropertySearchFilters{
		Area:         q.Area,
		MinRent:      q.MinRent,
		MaxRent:      q.MaxRent,
		Bedrooms:     q.Bedrooms,
		Bathrooms:    q.Bathrooms,
		PropertyType: q.PropertyType,
		IsAvailable:  q.IsAvailable,
		Page:         q.Page,
		PageSize:     q.PageSize,
	}

	response, err := h.properties.Search(c.Request.Context(), filters)
	if err != nil {
		h.logger.WithError(err).Error("Property search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching properties"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetProperty handles GET /api/v1/properties/:id
func (h *PropertyHandler) GetProperty(c *gin.Context) {
	propertyID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID"})
		return
	}

	property, err := h.properties.GetByID(c.Request.Context(), propertyID)
	if err != nil {
		h.logger.WithError(err).Error("Property lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching property"})
		return
	}

	if property == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	c.JSON(http.StatusOK, property)
}
