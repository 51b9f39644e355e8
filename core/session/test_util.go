package session

import (
	"context"
	"sync"
)

// MemoryStorage is an in-memory Storage for tests.
type MemoryStorage struct {
	mu    sync.Mutex
	areas map[Area]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{areas: make(map[Area]string)}
}

func (m *MemoryStorage) Read(area Area) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cred, ok := m.areas[area]
	return cred, ok
}

func (m *MemoryStorage) Write(area Area, credential string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.areas[area] = credential
}

func (m *MemoryStorage) Clear(area Area) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.areas, area)
}

// AuthenticatorMock returns a fixed credential or error and counts calls.
type AuthenticatorMock struct {
	Credential string
	Err        error
	Calls      int
}

func (a *AuthenticatorMock) Login(_ context.Context, _, _ string) (string, error) {
	a.Calls++
	if a.Err != nil {
		return "", a.Err
	}
	return a.Credential, nil
}
