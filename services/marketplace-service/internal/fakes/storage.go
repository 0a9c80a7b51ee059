package fakes

import (
	"context"
	"io"
	"sync"
)

// ObjectStorage keeps objects in memory and serves them under BaseURL.
type ObjectStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	BaseURL string
	PutErr  error
}

func NewObjectStorage(baseURL string) *ObjectStorage {
	return &ObjectStorage{objects: map[string][]byte{}, BaseURL: baseURL}
}

func (s *ObjectStorage) EnsureBucket(context.Context) error { return nil }

func (s *ObjectStorage) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if s.PutErr != nil {
		return s.PutErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *ObjectStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *ObjectStorage) PublicURL(key string) string {
	return s.BaseURL + "/" + key
}

func (s *ObjectStorage) Objects() map[string][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string][]byte, len(s.objects))
	for k, v := range s.objects {
		out[k] = v
	}
	return out
}
