// Package storagetest provides an in-memory storage.Storage for tests.
package storagetest

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/templui/userfiles/internal/model"
	"github.com/templui/userfiles/internal/storage"
)

type Memory struct {
	mu      sync.Mutex
	objects map[string]bool

	// Injected failures
	TargetErr error
	URLErr    error
	DeleteErr error

	Deleted []string
}

func NewMemory() *Memory {
	return &Memory{objects: map[string]bool{}}
}

// Put marks an object as uploaded, standing in for the client's PUT.
func (m *Memory) Put(storageID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[storageID] = true
}

func (m *Memory) Has(storageID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.objects[storageID]
}

func (m *Memory) UploadTarget(ctx context.Context) (*model.UploadTarget, error) {
	if m.TargetErr != nil {
		return nil, m.TargetErr
	}
	id := storage.NewStorageID()
	return &model.UploadTarget{
		URL:       "https://storage.test/" + id,
		Method:    http.MethodPut,
		Headers:   map[string]string{},
		StorageID: id,
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil
}

func (m *Memory) URL(ctx context.Context, storageID string) (string, error) {
	if m.URLErr != nil {
		return "", m.URLErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.objects[storageID] {
		return "", storage.ErrObjectNotFound
	}
	return "https://storage.test/" + storageID + "?signed", nil
}

func (m *Memory) Delete(ctx context.Context, storageID string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, storageID)
	m.Deleted = append(m.Deleted, storageID)
	return nil
}

var _ storage.Storage = (*Memory)(nil)
