package report

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Store persists rendered report content keyed by session and path.
type Store interface {
	Put(ctx context.Context, sessionID, path string, content []byte) error
	Get(ctx context.Context, sessionID, path string) ([]byte, error)
}

// MemoryStore is the in-process fallback used when no object storage is
// configured.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, sessionID, path string, content []byte) error {
	key, err := objectKey(sessionID, path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), content...)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, sessionID, path string) ([]byte, error) {
	key, err := objectKey(sessionID, path)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("report: object not found: %s", key)
	}
	return append([]byte(nil), content...), nil
}

func objectKey(sessionID, path string) (string, error) {
	sessionID = strings.TrimSpace(sessionID)
	path = strings.Trim(strings.TrimSpace(path), "/")
	if sessionID == "" {
		return "", fmt.Errorf("report: session_id is required")
	}
	if path == "" {
		return "", fmt.Errorf("report: path is required")
	}
	return sessionID + "/" + path, nil
}
