package blob

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// LocalProvider stores blobs as files under a root directory. Used for
// development and tests.
type LocalProvider struct {
	root string
}

func NewLocalProvider(root string) (*LocalProvider, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, err
	}
	return &LocalProvider{root: root}, nil
}

func (p *LocalProvider) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(p.root, filepath.FromSlash(key)))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotExist
	}
	return data, err
}

func (p *LocalProvider) Put(key string, data []byte) error {
	path := filepath.Join(p.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (p *LocalProvider) List(prefix string) ([]string, error) {
	keys := make([]string, 0)
	err := filepath.Walk(p.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(p.root, path)
		if err != nil {
			return err
		}

		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if errors.Is(err, os.ErrNotExist) {
		return keys, nil
	}
	return keys, err
}
