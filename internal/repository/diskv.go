package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"
)

// DiskvStore keeps each slot as one file in a directory.
type DiskvStore struct {
	d        *diskv.Diskv
	basePath string
}

func NewDiskv(basePath string) (*DiskvStore, error) {
	if basePath == "" {
		return nil, errors.New("diskv: base path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("diskv: ensure base path: %w", err)
	}
	return &DiskvStore{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			TempDir:           filepath.Join(basePath, ".tmp"),
			AdvancedTransform: flatTransform,
			InverseTransform:  flatInverse,
			CacheSizeMax:      1024 * 1024,
		}),
		basePath: basePath,
	}, nil
}

func flatTransform(key string) *diskv.PathKey {
	return &diskv.PathKey{FileName: key}
}

func flatInverse(pk *diskv.PathKey) string {
	return pk.FileName
}

func (s *DiskvStore) Read(_ context.Context, key string) ([]byte, error) {
	val, err := s.d.Read(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrSlotNotFound
		}
		return nil, fmt.Errorf("diskv: read %s: %w", key, err)
	}
	return val, nil
}

func (s *DiskvStore) Write(ctx context.Context, values map[string][]byte) error {
	for key, val := range values {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.d.Write(key, val); err != nil {
			return fmt.Errorf("diskv: write %s: %w", key, err)
		}
	}
	return nil
}

func (s *DiskvStore) WatchPath() string {
	return s.basePath
}

func (s *DiskvStore) Close() error {
	return nil
}
