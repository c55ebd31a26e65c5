package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore writes files under a root directory and serves them below publicURL
type LocalStore struct {
	root      string
	publicURL string
}

var _ FileStore = (*LocalStore)(nil)

// NewLocalStore makes sure root exists
func NewLocalStore(root, publicURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{
		root:      root,
		publicURL: "/" + strings.Trim(publicURL, "/"),
	}, nil
}

// Root is the directory served as static files
func (s *LocalStore) Root() string { return s.root }

// PublicURL is the URL prefix of stored files
func (s *LocalStore) PublicURL() string { return s.publicURL }

func (s *LocalStore) Save(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	rel, err := cleanName(name)
	if err != nil {
		return "", err
	}

	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}

	tmp := full + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, full); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("move file: %w", err)
	}

	return path.Join(s.publicURL, rel), nil
}

// Delete removes the file behind a public path. Missing files are not an error.
func (s *LocalStore) Delete(ctx context.Context, publicPath string) error {
	rel := strings.TrimPrefix(publicPath, s.publicURL)
	rel, err := cleanName(rel)
	if err != nil {
		return err
	}

	err = os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// cleanName rejects anything that would escape the root
func cleanName(name string) (string, error) {
	name = strings.TrimLeft(filepath.ToSlash(name), "/")
	if name == "" {
		return "", ErrInvalidPath
	}
	cleaned := path.Clean(name)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}
