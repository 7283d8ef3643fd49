// Package storage keeps uploaded proof files. Keys are opaque paths chosen
// by NewKey; callers store the key, never a filesystem path.
package storage

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

var ErrNotFound = errors.New("object not found")

type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// NewKey builds "<prefix>/YYYY/MM/DD/<uuid><ext>" keeping the original
// extension.
func NewKey(prefix, filename string) string {
	d := time.Now()
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%s/%d/%02d/%02d/%s%s", strings.Trim(prefix, "/"), d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}

// Open selects a driver by name: "local" (or empty) stores under base,
// "s3" uses c.
func Open(ctx context.Context, driver, base string, c S3Config) (Store, error) {
	switch strings.ToLower(driver) {
	case "", "local":
		return NewLocal(base)
	case "s3":
		if c.Bucket == "" {
			return nil, errors.New("s3 storage needs a bucket")
		}
		return NewS3(ctx, c)
	}
	return nil, fmt.Errorf("unknown storage driver %q", driver)
}
