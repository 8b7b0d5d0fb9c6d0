package auth

import "sync"

// MockStore is an in-memory CredentialStore for tests
type MockStore struct {
	mu    sync.RWMutex
	creds map[string]*Credentials
}

// NewMockStore creates an empty in-memory store
func NewMockStore() *MockStore {
	return &MockStore{creds: make(map[string]*Credentials)}
}

// NewMockManager creates a manager backed only by a mock store
func NewMockManager() (*Manager, *MockStore) {
	store := NewMockStore()
	return NewManagerWithStores(store), store
}

// Store saves credentials in memory
func (m *MockStore) Store(creds *Credentials) error {
	if creds == nil || creds.Username == "" {
		return ErrInvalidCredentials
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *creds
	m.creds[creds.Username] = &c
	return nil
}

// Retrieve gets credentials from memory
func (m *MockStore) Retrieve(username string) (*Credentials, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	creds, ok := m.creds[username]
	if !ok {
		return nil, ErrCredentialsNotFound
	}
	c := *creds
	return &c, nil
}

// List returns all stored credentials
func (m *MockStore) List() ([]*Credentials, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var all []*Credentials
	for _, creds := range m.creds {
		c := *creds
		all = append(all, &c)
	}
	return all, nil
}

// Delete removes credentials from memory
func (m *MockStore) Delete(username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.creds[username]; !ok {
		return ErrCredentialsNotFound
	}
	delete(m.creds, username)
	return nil
}

// Exists checks if credentials exist in memory
func (m *MockStore) Exists(username string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.creds[username]
	return ok
}

// Count returns the number of stored credentials
func (m *MockStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.creds)
}
