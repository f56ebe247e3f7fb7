package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore keeps blobs under <root>/<tenant_id>/<name>.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

func (s *LocalStore) path(tenantID, name string) string {
	return filepath.Join(s.root, tenantID, name)
}

func (s *LocalStore) Save(tenantID, name string, content io.Reader) error {
	dir := filepath.Join(s.root, tenantID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	f, err := os.Create(s.path(tenantID, name))
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, content); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (s *LocalStore) Open(tenantID, name string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(tenantID, name))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

func (s *LocalStore) Delete(tenantID, name string) error {
	err := os.Remove(s.path(tenantID, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
