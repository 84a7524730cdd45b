package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/baibai/internal/common"
	"github.com/dmitrijs2005/baibai/internal/filex"
)

type DiskStore struct {
	dir string
}

// NewDiskStore creates dir if it does not exist yet.
func NewDiskStore(dir string) (*DiskStore, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &DiskStore{dir: abs}, nil
}

func (s *DiskStore) path(name string) (string, error) {
	p, err := filex.SafeJoin(s.dir, name)
	if err != nil {
		return "", common.ErrorNotFound
	}
	return p, nil
}

func (s *DiskStore) Put(_ context.Context, name, _ string, r io.Reader, size int64) error {
	p, err := filex.SafeJoin(s.dir, name)
	if err != nil {
		return fmt.Errorf("put %q: %w", name, err)
	}

	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return fmt.Errorf("put %q: %w", name, err)
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && size >= 0 && n != size {
		err = fmt.Errorf("short write: %d of %d bytes", n, size)
	}
	if err != nil {
		_ = os.Remove(p)
		return fmt.Errorf("put %q: %w", name, err)
	}

	return nil
}

func (s *DiskStore) Get(_ context.Context, name string) (io.ReadCloser, string, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, "", err
	}

	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", common.ErrorNotFound
		}
		return nil, "", fmt.Errorf("get %q: %w", name, err)
	}

	return f, contentTypeOf(name), nil
}

func (s *DiskStore) Delete(_ context.Context, name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("delete %q: %w", name, err)
	}
	return nil
}

func contentTypeOf(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
