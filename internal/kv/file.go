package kv

import (
	"context"
	"encoding/json"
	"os"
)

// FileStore persists the key-value map as a single JSON file. It is meant for
// single-process local runs; runs must be externally serialized, the file is
// not locked.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at path. The file is created lazily on the
// first Set.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Get returns the stored value for key. A missing file means every key is
// absent.
func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	data, err := s.load()
	if err != nil {
		return "", false, err
	}
	value, ok := data[key]
	return value, ok, nil
}

// Set stores value under key and rewrites the file.
func (s *FileStore) Set(_ context.Context, key, value string) error {
	data, err := s.load()
	if err != nil {
		return err
	}
	data[key] = value
	return s.save(data)
}

// Delete removes key and rewrites the file. Deleting an absent key is not an
// error.
func (s *FileStore) Delete(_ context.Context, key string) error {
	data, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return s.save(data)
}

func (s *FileStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "read", Key: s.path, Cause: err}
	}

	data := map[string]string{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &StoreError{Op: "decode", Key: s.path, Cause: err}
	}
	return data, nil
}

func (s *FileStore) save(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return &StoreError{Op: "encode", Key: s.path, Cause: err}
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return &StoreError{Op: "write", Key: s.path, Cause: err}
	}
	return nil
}
