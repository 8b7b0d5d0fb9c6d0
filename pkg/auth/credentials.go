package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Credentials identifies one user allowed to open the progress channel
type Credentials struct {
	Username     string    `json:"username"`
	Password     string    `json:"password"`
	LastModified time.Time `json:"last_modified"`
}

// CredentialStore is the interface for storing and retrieving channel credentials
type CredentialStore interface {
	// Store saves credentials for a user
	Store(creds *Credentials) error

	// Retrieve gets credentials for a specific username
	Retrieve(username string) (*Credentials, error)

	// List returns all stored credentials
	List() ([]*Credentials, error)

	// Delete removes credentials for a specific username
	Delete(username string) error

	// Exists checks if credentials exist for a username
	Exists(username string) bool
}

// Manager handles credential storage with fallback mechanisms
type Manager struct {
	stores []CredentialStore
}

// NewManager creates a new credential manager with appropriate storage backends
func NewManager() (*Manager, error) {
	var stores []CredentialStore

	// Try keyring first (system keychain)
	keyringStore, err := NewKeyringStore()
	if err == nil {
		stores = append(stores, keyringStore)
	}

	// Always add encrypted file store as fallback
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	encryptedStore, err := NewEncryptedFileStore(filepath.Join(configDir, "credentials.enc"))
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypted store: %w", err)
	}
	stores = append(stores, encryptedStore)

	// Add environment store as last resort
	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}, nil
}

// NewManagerWithStores creates a manager over an explicit store chain, for tests
func NewManagerWithStores(stores ...CredentialStore) *Manager {
	return &Manager{stores: stores}
}

// Store saves credentials using the first available store
func (m *Manager) Store(creds *Credentials) error {
	if creds.Username == "" {
		return errors.New("username is required")
	}
	if creds.Password == "" {
		return errors.New("password is required")
	}

	creds.LastModified = time.Now()

	// Try each store in order
	var lastErr error
	for _, store := range m.stores {
		if err := store.Store(creds); err == nil {
			return nil
		} else {
			lastErr = err
		}
	}

	if lastErr != nil {
		return fmt.Errorf("failed to store credentials: %w", lastErr)
	}
	return errors.New("no available credential stores")
}

// Retrieve gets credentials from the first store that has them
func (m *Manager) Retrieve(username string) (*Credentials, error) {
	for _, store := range m.stores {
		if creds, err := store.Retrieve(username); err == nil && creds != nil {
			return creds, nil
		}
	}
	return nil, fmt.Errorf("credentials not found for user: %s", username)
}

// Verify reports whether the presented username and password match a
// stored user. Comparison is constant time; an unknown username still
// burns a comparison so the two rejections are indistinguishable.
func (m *Manager) Verify(username, password string) bool {
	creds, err := m.Retrieve(username)
	if err != nil {
		subtle.ConstantTimeCompare([]byte(password), []byte(password))
		return false
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(creds.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(creds.Password)) == 1
	return userOK && passOK
}

// List returns all stored credentials from all stores
func (m *Manager) List() ([]*Credentials, error) {
	credMap := make(map[string]*Credentials)

	for _, store := range m.stores {
		all, err := store.List()
		if err != nil {
			continue
		}
		for _, creds := range all {
			// Use the most recently modified version
			if existing, ok := credMap[creds.Username]; !ok || creds.LastModified.After(existing.LastModified) {
				credMap[creds.Username] = creds
			}
		}
	}

	var result []*Credentials
	for _, creds := range credMap {
		result = append(result, creds)
	}

	return result, nil
}

// Delete removes credentials from all stores
func (m *Manager) Delete(username string) error {
	var deleted bool
	var lastErr error

	for _, store := range m.stores {
		if err := store.Delete(username); err == nil {
			deleted = true
		} else {
			lastErr = err
		}
	}

	if !deleted && lastErr != nil {
		return fmt.Errorf("failed to delete credentials: %w", lastErr)
	}
	if !deleted {
		return fmt.Errorf("credentials not found for user: %s", username)
	}

	return nil
}

// getConfigDir returns the configuration directory path
func getConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "listmaker")
	case "windows":
		configDir = filepath.Join(os.Getenv("APPDATA"), "listmaker")
	default: // Linux and others
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, "listmaker")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configDir = filepath.Join(home, ".config", "listmaker")
		}
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// Sanitize creates a copy of the credentials with the password masked
func Sanitize(creds *Credentials) *Credentials {
	if creds == nil {
		return nil
	}

	return &Credentials{
		Username:     creds.Username,
		Password:     maskString(creds.Password),
		LastModified: creds.LastModified,
	}
}

// maskString masks all but the first and last character of a string
func maskString(s string) string {
	if len(s) <= 4 {
		return "********"
	}
	return s[:1] + "******" + s[len(s)-1:]
}

// Errors
var (
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrStoreUnavailable    = errors.New("credential store unavailable")
)
