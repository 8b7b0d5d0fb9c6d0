package zillow

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// searchQueryStateParam is the query parameter Zillow search URLs embed
// their filters and pagination in.
const searchQueryStateParam = "searchQueryState"

// listingsURL constructs the listings endpoint URL for one page request
func (c *Client) listingsURL(searchURL string) string {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("url", searchURL)

	return fmt.Sprintf("%s%s?%s", c.baseURL, c.listingsEndpoint, params.Encode())
}

// propertyURL constructs the property endpoint URL for one zpid lookup
func (c *Client) propertyURL(zpid string) string {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("zpid", zpid)

	return fmt.Sprintf("%s%s?%s", c.baseURL, c.propertyEndpoint, params.Encode())
}

// SetSearchPage rewrites the pagination field inside the search URL's
// searchQueryState parameter, leaving every other filter untouched. A
// search URL without the parameter is a malformed input, not something
// to repair.
func SetSearchPage(searchURL string, page int) (string, error) {
	u, err := url.Parse(searchURL)
	if err != nil {
		return "", &Error{
			Type:    ErrorTypePrecondition,
			Message: fmt.Sprintf("invalid search URL: %v", err),
		}
	}

	query := u.Query()
	raw := query.Get(searchQueryStateParam)
	if raw == "" {
		return "", &Error{
			Type:    ErrorTypePrecondition,
			Message: "searchQueryState parameter not found in the search URL",
		}
	}

	var state map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return "", &Error{
			Type:    ErrorTypePrecondition,
			Message: fmt.Sprintf("malformed searchQueryState parameter: %v", err),
		}
	}

	state["pagination"] = map[string]interface{}{"currentPage": page}

	updated, err := json.Marshal(state)
	if err != nil {
		return "", &Error{
			Type:    ErrorTypePrecondition,
			Message: fmt.Sprintf("failed to encode searchQueryState: %v", err),
		}
	}

	query.Set(searchQueryStateParam, string(updated))
	u.RawQuery = query.Encode()

	return u.String(), nil
}
