package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements CredentialStore using environment variables.
// This is the deployment path for containers without a keychain.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(creds *Credentials) error {
	return ErrStoreUnavailable
}

// Retrieve gets credentials from environment variables
func (e *EnvironmentStore) Retrieve(username string) (*Credentials, error) {
	envUser := os.Getenv("LISTMAKER_CHANNEL_USER")
	envPass := os.Getenv("LISTMAKER_CHANNEL_PASSWORD")

	if envUser == "" || envPass == "" {
		return nil, ErrCredentialsNotFound
	}

	if username != "" && username != envUser {
		return nil, ErrCredentialsNotFound
	}

	return &Credentials{
		Username:     envUser,
		Password:     envPass,
		LastModified: time.Now(),
	}, nil
}

// List returns a single entry if environment variables are set
func (e *EnvironmentStore) List() ([]*Credentials, error) {
	creds, err := e.Retrieve("")
	if err != nil {
		return []*Credentials{}, nil
	}
	return []*Credentials{creds}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(username string) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials exist
func (e *EnvironmentStore) Exists(username string) bool {
	envUser := os.Getenv("LISTMAKER_CHANNEL_USER")
	envPass := os.Getenv("LISTMAKER_CHANNEL_PASSWORD")
	if envUser == "" || envPass == "" {
		return false
	}
	return username == "" || username == envUser
}
