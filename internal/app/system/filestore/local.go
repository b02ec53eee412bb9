package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Local stores objects under a root directory.
type Local struct {
	root    string
	baseURL string
}

// NewLocal creates root if needed. baseURL is the public prefix that serves
// root (for example "/files").
func NewLocal(root, baseURL string) (*Local, error) {
	if root == "" {
		return nil, errors.New("local storage path is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Local{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Root returns the directory objects are written to.
func (l *Local) Root() string { return l.root }

func (l *Local) path(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(l.root, filepath.FromSlash(clean)), nil
}

func (l *Local) Put(ctx context.Context, key string, r io.Reader, opts *PutOptions) (Object, error) {
	p, err := l.path(key)
	if err != nil {
		return Object{}, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return Object{}, fmt.Errorf("create object dir: %w", err)
	}

	f, err := os.Create(p)
	if err != nil {
		return Object{}, fmt.Errorf("create object: %w", err)
	}
	n, copyErr := io.Copy(f, ctxReader{ctx: ctx, r: r})
	closeErr := f.Close()
	if copyErr != nil {
		_ = os.Remove(p)
		return Object{}, fmt.Errorf("write object: %w", copyErr)
	}
	if closeErr != nil {
		_ = os.Remove(p)
		return Object{}, fmt.Errorf("close object: %w", closeErr)
	}

	obj := Object{Key: key, URL: l.URL(key), Size: n}
	if opts != nil {
		obj.ContentType = opts.ContentType
	}
	return obj, nil
}

func (l *Local) Delete(ctx context.Context, key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (l *Local) URL(key string) string {
	return l.baseURL + "/" + strings.TrimLeft(key, "/")
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
