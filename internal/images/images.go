// Package images keeps copies of product photos in one directory.
package images

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var ErrInvalidName = errors.New("invalid image name")

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve images directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create images directory: %w", err)
	}
	return &Store{dir: abs}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Import copies src into the store and returns the stored path. An empty
// path stays empty, a file already in the store is kept where it is, and a
// missing source is returned unchanged.
func (s *Store) Import(src string) (string, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}

	abs, err := filepath.Abs(src)
	if err != nil {
		return "", fmt.Errorf("resolve image path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return abs, nil
		}
		return "", fmt.Errorf("stat image: %w", err)
	}

	if filepath.Dir(abs) == s.dir {
		return abs, nil
	}

	in, err := os.Open(abs)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer in.Close()

	dest, err := s.write(filepath.Base(abs), in)
	if err != nil {
		return "", err
	}

	if err := os.Chtimes(dest, info.ModTime(), info.ModTime()); err != nil {
		return "", fmt.Errorf("copy image times: %w", err)
	}
	return dest, nil
}

// Save stores an uploaded image under its base name, avoiding collisions.
func (s *Store) Save(name string, r io.Reader) (string, error) {
	base, err := cleanName(name)
	if err != nil {
		return "", err
	}
	return s.write(base, r)
}

// Path resolves a stored image by base name.
func (s *Store) Path(name string) (string, error) {
	base, err := cleanName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, base), nil
}

func (s *Store) write(base string, r io.Reader) (string, error) {
	f, dest, err := s.createFree(base)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dest)
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("close image: %w", err)
	}
	return dest, nil
}

// createFree opens the first of name.ext, name_1.ext, name_2.ext, ... that does not exist.
func (s *Store) createFree(base string) (*os.File, string, error) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	candidate := base
	for i := 1; ; i++ {
		dest := filepath.Join(s.dir, candidate)
		f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, dest, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("create image: %w", err)
		}
		candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
	}
}

func cleanName(name string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if base == "." || base == ".." || base == "/" || base == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return base, nil
}
