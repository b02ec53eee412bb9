// Package filestore puts uploaded files into object storage.
//
// Two backends exist: S3 (any S3-compatible endpoint) for deployments and
// Local (a directory on disk) for development and tests. Callers depend on
// the Store interface and pick a backend with New.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store is the subset of object-storage behaviour the app needs.
type Store interface {
	// Put streams r to key. Size may be -1 when unknown.
	Put(ctx context.Context, key string, r io.Reader, opts *PutOptions) (Object, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the address the frontend can use to fetch key.
	URL(key string) string
}

// PutOptions carries object metadata.
type PutOptions struct {
	ContentType string
	Size        int64
}

// Object describes a stored file.
type Object struct {
	Key         string
	URL         string
	Size        int64
	ContentType string
}

// Config selects and configures a backend.
type Config struct {
	Type string // "local" or "s3"

	LocalPath string
	LocalURL  string

	S3Region    string
	S3Bucket    string
	S3Endpoint  string // blank for AWS
	S3PathStyle bool
	S3AccessKey string // blank to use the default credential chain
	S3SecretKey string
}

// ErrUnknownType is returned by New for an unsupported Config.Type.
var ErrUnknownType = errors.New(`storage type must be "local" or "s3"`)

// New builds the backend named by cfg.Type.
func New(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "", "local":
		return NewLocal(cfg.LocalPath, cfg.LocalURL)
	case "s3":
		return NewS3(ctx, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, cfg.Type)
	}
}

// NewKey builds an object key of the form
//
//	<prefix>/<YYYY-MM-DD>_<uuid>/<name>
//
// where name is the base of originalName with unsafe bytes replaced.
// An empty prefix omits the leading segment.
func NewKey(prefix string, now time.Time, originalName string) string {
	dir := fmt.Sprintf("%s_%s", now.UTC().Format("2006-01-02"), uuid.NewString())
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return path.Join(dir, SanitizeFilename(originalName))
	}
	return path.Join(prefix, dir, SanitizeFilename(originalName))
}

// SanitizeFilename keeps the final path element of name and replaces every
// byte outside [A-Za-z0-9._-] with '_'. Results longer than 100 bytes are
// truncated, keeping a short extension.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, `\`, "/")
	name = path.Base(name)
	if name == "." || name == "/" || name == ".." {
		name = ""
	}

	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isAllowedFilenameChar(c) {
			out = append(out, c)
		} else {
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "file"
	}
	if len(out) > 100 {
		ext := path.Ext(string(out))
		if len(ext) > 0 && len(ext) < 10 {
			out = append(out[:100-len(ext)], ext...)
		} else {
			out = out[:100]
		}
	}
	return string(out)
}

func isAllowedFilenameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}
