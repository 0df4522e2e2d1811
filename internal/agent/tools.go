package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"housing-intel/internal/llm"
	"housing-intel/internal/model"
	"housing-intel/internal/utils"

	"github.com/sirupsen/logrus"
)

// Tool names
const (
	ToolSearchProperties    = "search_properties"
	ToolSearchTenantReviews = "search_tenant_reviews"
	ToolGetAreaStatistics   = "get_area_statistics"
	ToolCompareAreas        = "compare_areas"
)

// Embedder turns text into a query vector.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// ReviewSearcher is the review vector index as the tools see it.
type ReviewSearcher interface {
	Query(ctx context.Context, embedding []float32, topK int, area *string) ([]model.ReviewHit, error)
}

// Toolbox executes the agent's retrieval tools. Every tool returns a
// human-readable text block: the agent composes tool output directly into
// natural-language responses, so failures are folded into the text as well.
type Toolbox struct {
	backendURL string
	httpClient *http.Client
	embedder   Embedder
	reviews    ReviewSearcher
	logger     *logrus.Logger
}

// NewToolbox creates the toolbox used by the housing agent.
func NewToolbox(backendURL string, timeout time.Duration, embedder Embedder, reviews ReviewSearcher, logger *logrus.Logger) *Toolbox {
	return &Toolbox{
		backendURL: strings.TrimRight(backendURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		embedder:   embedder,
		reviews:    reviews,
		logger:     logger,
	}
}

// Definitions returns the tool schemas advertised to the model.
func (t *Toolbox) Definitions() []llm.Tool {
	return []llm.Tool{
		{
			Type: "function",
			Function: llm.ToolFunction{
				Name: ToolSearchProperties,
				Description: "Search for available rental properties in Lagos, Nigeria. " +
					"Use this when the user asks about finding properties, homes, apartments, houses, duplexes, or rooms for rent.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"area":          map[string]any{"type": "string", "description": "Area/neighborhood in Lagos (e.g. Lekki, Ikeja, Victoria Island, Yaba)"},
						"property_type": map[string]any{"type": "string", "enum": []string{"apartment", "house", "duplex", "room"}},
						"bedrooms":      map[string]any{"type": "integer", "description": "Number of bedrooms"},
						"min_rent":      map[string]any{"type": "number", "description": "Minimum annual rent in Nigerian Naira"},
						"max_rent":      map[string]any{"type": "number", "description": "Maximum annual rent in Nigerian Naira"},
						"limit":         map[string]any{"type": "integer", "description": "Maximum number of results (default 10)"},
					},
				},
			},
		},
		{
			Type: "function",
			Function: llm.ToolFunction{
				Name: ToolSearchTenantReviews,
				Description: "Search tenant reviews and experiences about living in different areas of Lagos. " +
					"Use this when the user asks what people say about an area, or about issues like power supply, water, security, noise or landlords.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"query":     map[string]any{"type": "string", "description": "What to search for (e.g. power supply issues, security in Lekki)"},
						"area":      map[string]any{"type": "string", "description": "Specific area to filter by"},
						"n_results": map[string]any{"type": "integer", "description": "Number of reviews to return (default 5)"},
					},
					"required": []string{"query"},
				},
			},
		},
		{
			Type: "function",
			Function: llm.ToolFunction{
				Name:        ToolGetAreaStatistics,
				Description: "Get a statistical summary of tenant reviews for a specific area of Lagos.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"area": map[string]any{"type": "string", "description": "The area name (e.g. Lekki, Ikeja, Victoria Island)"},
					},
					"required": []string{"area"},
				},
			},
		},
		{
			Type: "function",
			Function: llm.ToolFunction{
				Name:        ToolCompareAreas,
				Description: "Compare two areas of Lagos based on tenant reviews.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"area1": map[string]any{"type": "string", "description": "First area name"},
						"area2": map[string]any{"type": "string", "description": "Second area name"},
					},
					"required": []string{"area1", "area2"},
				},
			},
		},
	}
}

// Execute dispatches a tool call by name. Unknown tools and tool failures
// come back as text for the model to work with.
func (t *Toolbox) Execute(ctx context.Context, name, argsJSON string) string {
	switch name {
	case ToolSearchProperties:
		return t.searchProperties(ctx, argsJSON)
	case ToolSearchTenantReviews:
		return t.searchTenantReviews(ctx, argsJSON)
	case ToolGetAreaStatistics:
		return t.getAreaStatistics(ctx, argsJSON)
	case ToolCompareAreas:
		return t.compareAreas(ctx, argsJSON)
	}
	return fmt.Sprintf("Unknown tool: %s", name)
}

func (t *Toolbox) searchProperties(ctx context.Context, argsJSON string) string {
	var params model.SearchParams
	if err := utils.ParseModelJSON(argsJSON, &params); err != nil {
		return fmt.Sprintf("Error searching properties: invalid arguments: %v", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 10
	}

	values := url.Values{}
	values.Set("is_available", "true")
	values.Set("page_size", strconv.Itoa(limit))
	if params.Area != nil {
		values.Set("area", *params.Area)
	}
	if params.PropertyType != nil {
		values.Set("property_type", strings.ToLower(*params.PropertyType))
	}
	if params.Bedrooms != nil {
		values.Set("bedrooms", strconv.Itoa(*params.Bedrooms))
	}
	if params.MinRent != nil {
		values.Set("min_rent", strconv.FormatFloat(*params.MinRent, 'f', -1, 64))
	}
	if params.MaxRent != nil {
		values.Set("max_rent", strconv.FormatFloat(*params.MaxRent, 'f', -1, 64))
	}

	reqURL := t.backendURL + "/api/v1/properties?" + values.Encode()
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return fmt.Sprintf("Error connecting to property database: %v", err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.logger.WithError(err).Error("search_properties backend call failed")
		return fmt.Sprintf("Error connecting to property database: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("Error connecting to property database: status %d", resp.StatusCode)
	}

	var list model.PropertyListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return fmt.Sprintf("Error searching properties: %v", err)
	}

	if len(list.Properties) == 0 {
		var desc []string
		if params.PropertyType != nil {
			desc = append(desc, *params.PropertyType+"s")
		}
		if params.Area != nil {
			desc = append(desc, "in "+*params.Area)
		}
		if params.Bedrooms != nil {
			desc = append(desc, fmt.Sprintf("with %d bedrooms", *params.Bedrooms))
		}
		if params.MaxRent != nil {
			desc = append(desc, "under "+formatNaira(*params.MaxRent))
		}
		filters := "matching your criteria"
		if len(desc) > 0 {
			filters = strings.Join(desc, " ")
		}
		return fmt.Sprintf("No properties found %s. Try adjusting your search criteria.", filters)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d properties:\n\n", len(list.Properties))
	for i, prop := range list.Properties {
		fmt.Fprintf(&b, "%d. %s\n   Type: %s | Area: %s\n   Bedrooms: %d | Bathrooms: %d\n   Annual Rent: %s\n\n",
			i+1, prop.Title, prop.PropertyType, prop.Area, prop.Bedrooms, prop.Bathrooms, formatNaira(prop.RentPrice))
	}
	if len(list.Properties) >= limit {
		fmt.Fprintf(&b, "(Showing first %d results. There may be more available.)", limit)
	}
	return strings.TrimSpace(b.String())
}

type reviewSearchArgs struct {
	Query    string  `json:"query"`
	Area     *string `json:"area,omitempty"`
	NResults int     `json:"n_results,omitempty"`
}

func (t *Toolbox) searchTenantReviews(ctx context.Context, argsJSON string) string {
	var args reviewSearchArgs
	if err := utils.ParseModelJSON(argsJSON, &args); err != nil {
		return fmt.Sprintf("Error searching reviews: invalid arguments: %v", err)
	}
	if args.NResults <= 0 {
		args.NResults = 5
	}

	embedding, err := t.embedder.EmbedText(ctx, args.Query)
	if err != nil {
		return fmt.Sprintf("Error searching reviews: %v", err)
	}

	hits, err := t.reviews.Query(ctx, embedding, args.NResults, args.Area)
	if err != nil {
		return fmt.Sprintf("Error searching reviews: %v", err)
	}

	if len(hits) == 0 {
		msg := fmt.Sprintf("No reviews found for query: '%s'", args.Query)
		if args.Area != nil {
			msg += " in " + *args.Area
		}
		return msg
	}

	var b strings.Builder
	for i, hit := range hits {
		rating := "N/A"
		if hit.Rating != nil {
			rating = strconv.Itoa(*hit.Rating)
		}
		rent := "N/A"
		if hit.RentPaid != nil {
			rent = formatNaira(*hit.RentPaid)
		}
		fmt.Fprintf(&b, "Review %d (Area: %s, Rating: %s/5, Rent: %s, Relevance: %.2f):\n%s\n\n",
			i+1, hit.Area, rating, rent, hit.Relevance(), hit.Document)
	}
	return strings.TrimSpace(b.String())
}

type areaStatsArgs struct {
	Area string `json:"area"`
}

func (t *Toolbox) getAreaStatistics(ctx context.Context, argsJSON string) string {
	var args areaStatsArgs
	if err := utils.ParseModelJSON(argsJSON, &args); err != nil {
		return fmt.Sprintf("Error getting area statistics: invalid arguments: %v", err)
	}
	return t.areaStatistics(ctx, args.Area)
}

func (t *Toolbox) areaStatistics(ctx context.Context, area string) string {
	embedding, err := t.embedder.EmbedText(ctx, "living in "+area)
	if err != nil {
		return fmt.Sprintf("Error getting statistics for %s: %v", area, err)
	}

	hits, err := t.reviews.Query(ctx, embedding, 20, &area)
	if err != nil {
		return fmt.Sprintf("Error getting statistics for %s: %v", area, err)
	}
	if len(hits) == 0 {
		return fmt.Sprintf("No data available for %s", area)
	}

	var ratingSum, rentSum, minRent, maxRent float64
	var ratingCount, rentCount int
	for _, hit := range hits {
		if hit.Rating != nil {
			ratingSum += float64(*hit.Rating)
			ratingCount++
		}
		if hit.RentPaid != nil {
			rent := *hit.RentPaid
			rentSum += rent
			if rentCount == 0 || rent < minRent {
				minRent = rent
			}
			if rent > maxRent {
				maxRent = rent
			}
			rentCount++
		}
	}

	avgRating, avgRent := 0.0, 0.0
	if ratingCount > 0 {
		avgRating = ratingSum / float64(ratingCount)
	}
	if rentCount > 0 {
		avgRent = rentSum / float64(rentCount)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Statistics for %s:\n", area)
	fmt.Fprintf(&b, "- Total Reviews: %d\n", len(hits))
	fmt.Fprintf(&b, "- Average Rating: %.1f/5\n", avgRating)
	fmt.Fprintf(&b, "- Average Rent: %s\n", formatNaira(avgRent))
	fmt.Fprintf(&b, "- Rent Range: %s - %s\n\n", formatNaira(minRent), formatNaira(maxRent))
	b.WriteString("Sample Reviews (most relevant):\n")

	sample := hits
	if len(sample) > 10 {
		sample = sample[:10]
	}
	for i, hit := range sample {
		rating := "N/A"
		if hit.Rating != nil {
			rating = strconv.Itoa(*hit.Rating)
		}
		doc := truncateRunes(hit.Document, 400)
		fmt.Fprintf(&b, "\n%d. [Rating: %s/5] %s\n", i+1, rating, doc)
	}
	return strings.TrimSpace(b.String())
}

type compareAreasArgs struct {
	Area1 string `json:"area1"`
	Area2 string `json:"area2"`
}

func (t *Toolbox) compareAreas(ctx context.Context, argsJSON string) string {
	var args compareAreasArgs
	if err := utils.ParseModelJSON(argsJSON, &args); err != nil {
		return fmt.Sprintf("Error comparing areas: invalid arguments: %v", err)
	}

	stats1 := t.areaStatistics(ctx, args.Area1)
	stats2 := t.areaStatistics(ctx, args.Area2)

	return fmt.Sprintf("Comparison between %s and %s:\n\n%s:\n%s\n\n%s:\n%s",
		args.Area1, args.Area2, args.Area1, stats1, args.Area2, stats2)
}

// formatNaira renders an amount as ₦ with thousands separators.
// truncateRunes shortens s to at most max runes, never splitting a
// multibyte character.
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func formatNaira(amount float64) string {
	whole := strconv.FormatFloat(amount, 'f', 0, 64)
	negative := strings.HasPrefix(whole, "-")
	digits := strings.TrimPrefix(whole, "-")

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	out := "₦" + b.String()
	if negative {
		out = "-" + out
	}
	return out
}
