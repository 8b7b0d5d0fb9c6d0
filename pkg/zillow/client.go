package zillow

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"listmaker/pkg/config"
	"listmaker/pkg/logger"
)

// ErrorType classifies errors from the scraping API
type ErrorType string

const (
	ErrorTypeNetwork      ErrorType = "network"
	ErrorTypeAPI          ErrorType = "api"
	ErrorTypeParsing      ErrorType = "parsing"
	ErrorTypeServerError  ErrorType = "server_error"
	ErrorTypePrecondition ErrorType = "precondition"
)

// Error represents a scraping API error
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("zillow %s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("zillow %s error: %s", e.Type, e.Message)
}

// Client talks to the Zillow scraping API
type Client struct {
	httpClient       *http.Client
	baseURL          string
	apiKey           string
	listingsEndpoint string
	propertyEndpoint string
	logger           logger.Logger
}

// NewClient creates a new scraping API client
func NewClient(cfg *config.ZillowConfig, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL:          cfg.BaseURL,
		apiKey:           cfg.APIKey,
		listingsEndpoint: cfg.ListingsEndpoint,
		propertyEndpoint: cfg.PropertyEndpoint,
		logger:           log,
	}
}

// GetListings fetches one page of search results for the given search URL.
// The page number is injected into the URL's searchQueryState parameter.
func (c *Client) GetListings(ctx context.Context, searchURL string, page int) (*Page, error) {
	paged, err := SetSearchPage(searchURL, page)
	if err != nil {
		return nil, err
	}

	var envelope listingsEnvelope
	if err := c.getJSON(ctx, c.listingsURL(paged), &envelope); err != nil {
		return nil, err
	}

	if !envelope.IsSuccess {
		return nil, &Error{
			Type:    ErrorTypeAPI,
			Message: envelope.Message,
		}
	}

	result := &Page{
		Listings:    envelope.Data.Cat1.SearchResults.ListResults,
		CurrentPage: page,
		TotalPages:  envelope.Data.Cat1.SearchList.TotalPages,
	}

	c.logger.WithFields(map[string]interface{}{
		"page":        page,
		"total_pages": result.TotalPages,
		"listings":    len(result.Listings),
	}).Debug("fetched listings page")

	return result, nil
}

// GetProperty fetches the attribution details for a single zpid
func (c *Client) GetProperty(ctx context.Context, zpid string) (*AttributionInfo, error) {
	var envelope propertyEnvelope
	if err := c.getJSON(ctx, c.propertyURL(zpid), &envelope); err != nil {
		return nil, err
	}

	if !envelope.IsSuccess {
		return nil, &Error{
			Type:    ErrorTypeAPI,
			Message: envelope.Message,
		}
	}

	return &envelope.Data.AttributionInfo, nil
}

// getJSON performs a GET request and decodes the JSON response
func (c *Client) getJSON(ctx context.Context, url string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &Error{
			Type:    ErrorTypePrecondition,
			Message: fmt.Sprintf("failed to create request: %v", err),
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Error("HTTP request failed")
		return &Error{
			Type:    ErrorTypeNetwork,
			Message: fmt.Sprintf("network error: %v", err),
		}
	}
	defer resp.Body.Close()

	c.logger.WithFields(map[string]interface{}{
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("HTTP request completed")

	if resp.StatusCode != http.StatusOK {
		return &Error{
			Type:    ErrorTypeServerError,
			Message: fmt.Sprintf("server returned status %d", resp.StatusCode),
			Code:    resp.StatusCode,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return &Error{
			Type:    ErrorTypeParsing,
			Message: fmt.Sprintf("failed to decode response: %v", err),
		}
	}

	return nil
}
