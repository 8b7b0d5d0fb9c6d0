package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Pipeline.ListingsDelay != 5*time.Second {
		t.Errorf("Expected default listings delay to be 5s, got %v", config.Pipeline.ListingsDelay)
	}

	if config.Pipeline.APIDelay != 500*time.Millisecond {
		t.Errorf("Expected default API delay to be 500ms, got %v", config.Pipeline.APIDelay)
	}

	if config.Sheets.StartingRow != 3 {
		t.Errorf("Expected default starting row to be 3, got %d", config.Sheets.StartingRow)
	}

	if config.Sheets.TimestampCell != "Sheet1!O2" {
		t.Errorf("Expected default timestamp cell to be Sheet1!O2, got %s", config.Sheets.TimestampCell)
	}

	if len(config.Pipeline.ExcludedZipCodes) == 0 {
		t.Error("Expected default excluded zip codes to be populated")
	}
}

func TestLoadFromEnv(t *testing.T) {
	os.Setenv("LISTMAKER_API_KEY", "test-api-key")
	os.Setenv("LISTMAKER_SEARCH_URL", "https://www.zillow.com/homes/for_sale/?searchQueryState=%7B%7D")
	os.Setenv("LISTMAKER_SPREADSHEET_ID", "sheet-123")
	os.Setenv("LISTMAKER_LISTINGS_DELAY", "2s")
	os.Setenv("LISTMAKER_EXCLUDED_ZIP_CODES", "10001, 10002")
	os.Setenv("LISTMAKER_MAX_DAYS_ON_MARKET", "30")
	os.Setenv("LISTMAKER_LOG_LEVEL", "debug")

	defer func() {
		os.Unsetenv("LISTMAKER_API_KEY")
		os.Unsetenv("LISTMAKER_SEARCH_URL")
		os.Unsetenv("LISTMAKER_SPREADSHEET_ID")
		os.Unsetenv("LISTMAKER_LISTINGS_DELAY")
		os.Unsetenv("LISTMAKER_EXCLUDED_ZIP_CODES")
		os.Unsetenv("LISTMAKER_MAX_DAYS_ON_MARKET")
		os.Unsetenv("LISTMAKER_LOG_LEVEL")
	}()

	config := DefaultConfig()
	if err := config.LoadFromEnv(); err != nil {
		t.Fatalf("Failed to load from environment: %v", err)
	}

	if config.Zillow.APIKey != "test-api-key" {
		t.Errorf("Expected API key to be test-api-key, got %s", config.Zillow.APIKey)
	}

	if config.Sheets.SpreadsheetID != "sheet-123" {
		t.Errorf("Expected spreadsheet ID to be sheet-123, got %s", config.Sheets.SpreadsheetID)
	}

	if config.Pipeline.ListingsDelay != 2*time.Second {
		t.Errorf("Expected listings delay to be 2s, got %v", config.Pipeline.ListingsDelay)
	}

	if len(config.Pipeline.ExcludedZipCodes) != 2 || config.Pipeline.ExcludedZipCodes[1] != "10002" {
		t.Errorf("Expected excluded zips [10001 10002], got %v", config.Pipeline.ExcludedZipCodes)
	}

	if config.Pipeline.MaxDaysOnMarket != 30 {
		t.Errorf("Expected max days on market to be 30, got %d", config.Pipeline.MaxDaysOnMarket)
	}

	if config.Logging.Level != "debug" {
		t.Errorf("Expected log level to be debug, got %s", config.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
zillow:
  api_key: file-key
  search_url: https://example.com/?searchQueryState=%7B%7D
sheets:
  spreadsheet_id: file-sheet
pipeline:
  listings_delay: 1s
  max_days_on_market: 14
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config := DefaultConfig()
	if err := config.LoadFromFile(path); err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}

	if config.Zillow.APIKey != "file-key" {
		t.Errorf("Expected API key to be file-key, got %s", config.Zillow.APIKey)
	}

	if config.Pipeline.ListingsDelay != time.Second {
		t.Errorf("Expected listings delay to be 1s, got %v", config.Pipeline.ListingsDelay)
	}

	// Values not set in the file keep their defaults
	if config.Sheets.StartingRow != 3 {
		t.Errorf("Expected starting row default to survive, got %d", config.Sheets.StartingRow)
	}
}

func TestValidate(t *testing.T) {
	config := DefaultConfig()

	// Defaults alone are not runnable: key, search URL and spreadsheet missing
	if err := config.Validate(); err == nil {
		t.Error("Expected validation to fail for default config")
	}

	config.Zillow.APIKey = "key"
	config.Zillow.SearchURL = "https://example.com/?searchQueryState=%7B%7D"
	config.Sheets.SpreadsheetID = "sheet"

	if err := config.Validate(); err != nil {
		t.Errorf("Expected validation to pass, got %v", err)
	}

	config.Pipeline.ListingsDelay = -time.Second
	if err := config.Validate(); err == nil {
		t.Error("Expected validation to fail for negative delay")
	}
	config.Pipeline.ListingsDelay = 0

	config.Logging.Level = "loud"
	if err := config.Validate(); err == nil {
		t.Error("Expected validation to fail for invalid log level")
	}
}
