package zillow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listmaker/pkg/config"
)

func testSearchURL(t *testing.T) string {
	t.Helper()
	state := `{"filterState":{"price":{"max":200000}},"pagination":{}}`
	return "https://www.zillow.com/homes/for_sale/?searchQueryState=" + url.QueryEscape(state)
}

func newTestClient(baseURL string) *Client {
	return NewClient(&config.ZillowConfig{
		APIKey:           "test-key",
		BaseURL:          baseURL,
		ListingsEndpoint: "/listing",
		PropertyEndpoint: "/property",
	}, nil)
}

func TestGetListings(t *testing.T) {
	var gotAPIKey, gotSearchURL string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/listing", r.URL.Path)
		gotAPIKey = r.URL.Query().Get("api_key")
		gotSearchURL = r.URL.Query().Get("url")

		fmt.Fprint(w, `{
			"is_success": true,
			"message": "",
			"data": {
				"cat1": {
					"searchResults": {
						"listResults": [
							{"zpid": "111", "price": "$100,000", "unformattedPrice": 100000, "addressZipcode": "71104"},
							{"zpid": "222", "price": "$150,000", "unformattedPrice": 150000, "addressZipcode": "71105"}
						]
					},
					"searchList": {"totalPages": 4}
				}
			}
		}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	page, err := client.GetListings(context.Background(), testSearchURL(t), 2)
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotAPIKey)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 4, page.TotalPages)
	require.Len(t, page.Listings, 2)
	assert.Equal(t, "111", page.Listings[0].ZPID)
	assert.Equal(t, float64(150000), page.Listings[1].UnformattedPrice)

	// The requested page must be injected into the forwarded search URL
	forwarded, err := url.Parse(gotSearchURL)
	require.NoError(t, err)
	var state map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(forwarded.Query().Get("searchQueryState")), &state))
	pagination, ok := state["pagination"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), pagination["currentPage"])
	// Existing filters survive the rewrite
	assert.Contains(t, state, "filterState")
}

func TestGetListingsAPIFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"is_success": false, "message": "invalid api key", "data": {}}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.GetListings(context.Background(), testSearchURL(t), 1)
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, ErrorTypeAPI, apiErr.Type)
	assert.Contains(t, apiErr.Message, "invalid api key")
}

func TestGetListingsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.GetListings(context.Background(), testSearchURL(t), 1)
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, ErrorTypeServerError, apiErr.Type)
	assert.Equal(t, http.StatusBadGateway, apiErr.Code)
}

func TestGetListingsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // force connection failures

	client := newTestClient(server.URL)

	_, err := client.GetListings(context.Background(), testSearchURL(t), 1)
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, ErrorTypeNetwork, apiErr.Type)
}

func TestGetProperty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/property", r.URL.Path)
		assert.Equal(t, "12345", r.URL.Query().Get("zpid"))

		fmt.Fprint(w, `{
			"is_success": true,
			"message": "",
			"data": {
				"attributionInfo": {
					"agentName": "Jane Smith",
					"agentEmail": "jane@example.com",
					"agentPhoneNumber": "318-555-0101",
					"brokerPhoneNumber": "318-555-0202",
					"agentLicenseNumber": "LIC-9",
					"mlsId": "MLS-77"
				}
			}
		}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	attr, err := client.GetProperty(context.Background(), "12345")
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", attr.AgentName)
	assert.Equal(t, "318-555-0101", attr.AgentPhoneNumber)
	assert.Equal(t, "MLS-77", attr.MLSID)
}

func TestSetSearchPageMissingParam(t *testing.T) {
	_, err := SetSearchPage("https://www.zillow.com/homes/for_sale/", 1)
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, ErrorTypePrecondition, apiErr.Type)
}

func TestSetSearchPageMalformedState(t *testing.T) {
	_, err := SetSearchPage("https://www.zillow.com/?searchQueryState=not-json", 1)
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, ErrorTypePrecondition, apiErr.Type)
}
