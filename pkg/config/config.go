package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the list-maker
type Config struct {
	// Zillow scraping API settings
	Zillow ZillowConfig `yaml:"zillow" json:"zillow"`

	// Google Sheets persistence settings
	Sheets SheetsConfig `yaml:"sheets" json:"sheets"`

	// Pipeline behavior (delays, filters)
	Pipeline PipelineConfig `yaml:"pipeline" json:"pipeline"`

	// HTTP/websocket server settings
	Server ServerConfig `yaml:"server" json:"server"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ZillowConfig holds settings for the third-party scraping API
type ZillowConfig struct {
	APIKey           string `yaml:"api_key" json:"api_key"`
	BaseURL          string `yaml:"base_url" json:"base_url"`
	SearchURL        string `yaml:"search_url" json:"search_url"`
	ListingsEndpoint string `yaml:"listings_endpoint" json:"listings_endpoint"`
	PropertyEndpoint string `yaml:"property_endpoint" json:"property_endpoint"`
}

// SheetsConfig holds Google Sheets settings. The range strings are a
// compatibility contract with the existing sheet layout.
type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id" json:"spreadsheet_id"`
	SheetID         int64  `yaml:"sheet_id" json:"sheet_id"`
	AppendRange     string `yaml:"append_range" json:"append_range"`
	ZPIDColumnRange string `yaml:"zpid_column_range" json:"zpid_column_range"`
	TimestampCell   string `yaml:"timestamp_cell" json:"timestamp_cell"`

	// StartingRow is the 1-based sheet row the first identifier in
	// ZPIDColumnRange lives on.
	StartingRow int `yaml:"starting_row" json:"starting_row"`

	// Service account credentials, either a file path or raw JSON.
	CredentialsFile string `yaml:"credentials_file" json:"credentials_file"`
	CredentialsJSON string `yaml:"-" json:"-"`
}

// PipelineConfig holds the run behavior knobs
type PipelineConfig struct {
	// ListingsDelay is the minimum spacing between listing page requests.
	ListingsDelay time.Duration `yaml:"listings_delay" json:"listings_delay"`

	// APIDelay is the minimum spacing between per-record property lookups.
	APIDelay time.Duration `yaml:"api_delay" json:"api_delay"`

	// StatusDelay paces milestone messages so a human can follow them.
	StatusDelay time.Duration `yaml:"status_delay" json:"status_delay"`

	ExcludedZipCodes []string `yaml:"excluded_zip_codes" json:"excluded_zip_codes"`

	// MaxDaysOnMarket drops listings older than this; 0 disables the filter.
	MaxDaysOnMarket int `yaml:"max_days_on_market" json:"max_days_on_market"`
}

// ServerConfig holds the websocket server settings
type ServerConfig struct {
	Addr           string   `yaml:"addr" json:"addr"`
	StaticDir      string   `yaml:"static_dir" json:"static_dir"`
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Zillow: ZillowConfig{
			BaseURL:          "https://app.scrapeak.com/v1/scrapers/zillow",
			ListingsEndpoint: "/listing",
			PropertyEndpoint: "/property",
		},
		Sheets: SheetsConfig{
			SheetID:         0,
			AppendRange:     "Sheet1!A3",
			ZPIDColumnRange: "Sheet1!N3:N",
			TimestampCell:   "Sheet1!O2",
			StartingRow:     3,
		},
		Pipeline: PipelineConfig{
			ListingsDelay: 5 * time.Second,
			APIDelay:      500 * time.Millisecond,
			StatusDelay:   750 * time.Millisecond,
			ExcludedZipCodes: []string{
				"71101", "71103", "71107", "71108", "71055", "71058",
				"71060", "71082", "71061", "71064", "71033",
			},
		},
		Server: ServerConfig{
			Addr:      ":8080",
			StaticDir: "public",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("LISTMAKER_API_KEY"); v != "" {
		c.Zillow.APIKey = v
	}
	if v := os.Getenv("LISTMAKER_BASE_URL"); v != "" {
		c.Zillow.BaseURL = v
	}
	if v := os.Getenv("LISTMAKER_SEARCH_URL"); v != "" {
		c.Zillow.SearchURL = v
	}
	if v := os.Getenv("LISTMAKER_SPREADSHEET_ID"); v != "" {
		c.Sheets.SpreadsheetID = v
	}
	if v := os.Getenv("LISTMAKER_SHEET_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Sheets.SheetID = id
		}
	}
	if v := os.Getenv("LISTMAKER_GOOGLE_CREDENTIALS_FILE"); v != "" {
		c.Sheets.CredentialsFile = v
	}
	if v := os.Getenv("LISTMAKER_GOOGLE_CREDENTIALS_JSON"); v != "" {
		c.Sheets.CredentialsJSON = v
	}
	if v := os.Getenv("LISTMAKER_LISTINGS_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Pipeline.ListingsDelay = d
		}
	}
	if v := os.Getenv("LISTMAKER_API_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Pipeline.APIDelay = d
		}
	}
	if v := os.Getenv("LISTMAKER_EXCLUDED_ZIP_CODES"); v != "" {
		c.Pipeline.ExcludedZipCodes = splitAndTrim(v)
	}
	if v := os.Getenv("LISTMAKER_MAX_DAYS_ON_MARKET"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Pipeline.MaxDaysOnMarket = n
		}
	}
	if v := os.Getenv("LISTMAKER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("LISTMAKER_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("LISTMAKER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".listmaker.yaml",
		".listmaker.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "listmaker", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "listmaker", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".listmaker.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Zillow.APIKey == "" {
		errs = append(errs, errors.New("Zillow API key is required"))
	}
	if c.Zillow.BaseURL == "" {
		errs = append(errs, errors.New("Zillow base URL is required"))
	}
	if c.Zillow.SearchURL == "" {
		errs = append(errs, errors.New("Zillow search URL is required"))
	}

	if c.Sheets.SpreadsheetID == "" {
		errs = append(errs, errors.New("spreadsheet ID is required"))
	}
	if c.Sheets.StartingRow < 1 {
		errs = append(errs, errors.New("starting row must be at least 1"))
	}
	if c.Sheets.AppendRange == "" || c.Sheets.ZPIDColumnRange == "" || c.Sheets.TimestampCell == "" {
		errs = append(errs, errors.New("sheet ranges are required"))
	}

	if c.Pipeline.ListingsDelay < 0 || c.Pipeline.APIDelay < 0 || c.Pipeline.StatusDelay < 0 {
		errs = append(errs, errors.New("delays cannot be negative"))
	}
	if c.Pipeline.MaxDaysOnMarket < 0 {
		errs = append(errs, errors.New("max days on market cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Environment variables > .env file > Config file > Defaults
func Load(configPath string) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".listmaker.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
