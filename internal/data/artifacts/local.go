package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

// LocalStore keeps artifacts under a root directory. Writes go to a temp file
// in the target directory and are renamed into place, so readers never see a
// partially written file.
type LocalStore struct {
	log  *logger.Logger
	root string
}

func NewLocalStore(log *logger.Logger, root string) (*LocalStore, error) {
	if root == "" {
		return nil, fmt.Errorf("artifact root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve artifact root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact root: %w", err)
	}
	return &LocalStore{log: log.With("store", "LocalStore"), root: abs}, nil
}

func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) resolve(p string) (string, error) {
	c, err := clean(p)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, filepath.FromSlash(c)), nil
}

func (s *LocalStore) Save(ctx context.Context, p string, v any) error {
	return saveJSON(ctx, s, p, v)
}

func (s *LocalStore) Load(ctx context.Context, p string, v any) error {
	return loadJSON(ctx, s, p, v)
}

func (s *LocalStore) SaveRaw(ctx context.Context, p string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(p)
	if err != nil {
		return err
	}
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", p, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", p, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", p, err)
	}
	if err := os.Rename(tmpName, full); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", p, err)
	}
	s.log.Debug("artifact saved", "path", p, "bytes", len(data))
	return nil
}

func (s *LocalStore) LoadRaw(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return data, nil
}

func (s *LocalStore) Exists(ctx context.Context, p string) (bool, error) {
	full, err := s.resolve(p)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
