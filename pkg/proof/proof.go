// Package proof stores scanned deposit proofs: large images are downscaled,
// images are read by OCR for a suggested amount, and the result is written
// to the configured storage driver.
package proof

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/LittleKatyusha/Sapi-sub004/models"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/forms"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/logging"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/ocr"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/storage"
)

const (
	DefaultMaxWidth = 1600
	KeyPrefix       = "bukti"
)

// Ingester runs the proof pipeline. A nil Reader skips OCR.
type Ingester struct {
	Store    storage.Store
	Reader   *ocr.Reader
	Log      logging.Logger
	MaxWidth int
}

// Stored describes an ingested proof.
type Stored struct {
	FileName    string
	Key         string
	ContentType string
	Size        int64
	OCRAmount   int64
	// OCRErr is set when reading the amount failed; the proof is still stored.
	OCRErr error
}

// Upload converts the result into the row persisted by callers.
func (s Stored) Upload(userID *uint) models.Upload {
	up := models.Upload{
		FileName:    s.FileName,
		StorageKey:  s.Key,
		ContentType: s.ContentType,
		Size:        s.Size,
		UserID:      userID,
		OCRAmount:   s.OCRAmount,
	}
	if s.OCRErr != nil && !errors.Is(s.OCRErr, ocr.ErrNoAmount) {
		up.Failed = true
		up.FailedReason = truncate(s.OCRErr.Error(), 255)
	}
	return up
}

// Ingest validates name and size, then stores r. size is the declared size
// of the part; the stored size may be smaller after downscaling.
func (in *Ingester) Ingest(ctx context.Context, name string, r io.Reader, size int64) (Stored, error) {
	if err := forms.CheckUpload(name, size); err != nil {
		return Stored{}, err
	}
	log := in.Log
	if log == nil {
		log = logging.Discard()
	}
	ext := strings.ToLower(filepath.Ext(name))
	tmp, err := os.CreateTemp("", "proof-*"+ext)
	if err != nil {
		return Stored{}, err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return Stored{}, fmt.Errorf("spool %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return Stored{}, err
	}

	out := Stored{FileName: filepath.Base(name), ContentType: forms.MimeType(name)}
	if isImage(ext) {
		if err := in.downscale(tmp.Name()); err != nil {
			log.Warn(ctx, "proof downscale failed", "file", name, "err", err)
		}
		if in.Reader != nil {
			reading, err := in.Reader.ReadAmount(ctx, tmp.Name())
			out.OCRAmount, out.OCRErr = reading.Amount, err
		}
	}

	f, err := os.Open(tmp.Name())
	if err != nil {
		return Stored{}, err
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return Stored{}, err
	}
	out.Size = st.Size()
	out.Key = storage.NewKey(KeyPrefix, name)
	if err := in.Store.Put(ctx, out.Key, f, out.Size, out.ContentType); err != nil {
		return Stored{}, fmt.Errorf("store proof: %w", err)
	}
	log.Info(ctx, "proof stored", "key", out.Key, "size", out.Size, "ocr_amount", out.OCRAmount)
	return out, nil
}

func (in *Ingester) downscale(path string) error {
	maxW := in.MaxWidth
	if maxW <= 0 {
		maxW = DefaultMaxWidth
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return err
	}
	if img.Bounds().Dx() <= maxW {
		return nil
	}
	return imaging.Save(imaging.Resize(img, maxW, 0, imaging.Lanczos), path)
}

func isImage(ext string) bool {
	switch ext {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
