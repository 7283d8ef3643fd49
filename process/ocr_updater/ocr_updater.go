// Package ocrupdater re-reads stored proofs whose OCR amount is still zero,
// for proofs uploaded while OCR was disabled or before the reader improved.
package ocrupdater

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"gorm.io/gorm"

	"github.com/LittleKatyusha/Sapi-sub004/models"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/logging"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/ocr"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/storage"
)

// AmountReader is satisfied by *ocr.Reader.
type AmountReader interface {
	ReadAmount(ctx context.Context, path string) (ocr.Reading, error)
}

type Updater struct {
	DB     *gorm.DB
	Store  storage.Store
	Reader AmountReader
	// DryRun prints proposed changes without saving them.
	DryRun bool
	Limit  int
	Log    logging.Logger
}

type Stats struct {
	Checked  int
	Updated  int
	NoAmount int
	Failed   int
}

// Run processes image uploads with a zero amount, oldest first.
func (u *Updater) Run(ctx context.Context, w io.Writer) (Stats, error) {
	log := u.Log
	if log == nil {
		log = logging.Discard()
	}
	q := u.DB.WithContext(ctx).
		Where("ocr_amount = 0 AND content_type LIKE ?", "image/%").
		Order("id")
	if u.Limit > 0 {
		q = q.Limit(u.Limit)
	}
	var ups []models.Upload
	if err := q.Find(&ups).Error; err != nil {
		return Stats{}, fmt.Errorf("load uploads: %w", err)
	}

	var st Stats
	for i := range ups {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		up := &ups[i]
		st.Checked++
		reading, err := u.reread(ctx, up.StorageKey)
		if errors.Is(err, storage.ErrNotFound) {
			log.Warn(ctx, "proof object missing", "upload_id", up.ID, "key", up.StorageKey)
			st.Failed++
			continue
		}
		changed := Apply(up, reading, err)
		switch {
		case err == nil:
			st.Updated++
		case errors.Is(err, ocr.ErrNoAmount):
			st.NoAmount++
		default:
			st.Failed++
		}
		if !changed {
			continue
		}
		if u.DryRun {
			fmt.Fprintf(w, "DRY: upload id=%d file=%s amount=%d failed=%t\n", up.ID, up.FileName, up.OCRAmount, up.Failed)
			continue
		}
		err = u.DB.WithContext(ctx).Model(up).
			Select("ocr_amount", "failed", "failed_reason").
			Updates(up).Error
		if err != nil {
			return st, fmt.Errorf("update upload %d: %w", up.ID, err)
		}
		fmt.Fprintf(w, "updated upload id=%d file=%s amount=%d\n", up.ID, up.FileName, up.OCRAmount)
	}
	return st, nil
}

// reread copies the object to a temp file, since the OCR engine reads paths.
func (u *Updater) reread(ctx context.Context, key string) (ocr.Reading, error) {
	rc, err := u.Store.Open(ctx, key)
	if err != nil {
		return ocr.Reading{}, err
	}
	defer rc.Close()
	tmp, err := os.CreateTemp("", "reread-*"+strings.ToLower(path.Ext(key)))
	if err != nil {
		return ocr.Reading{}, err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, rc); err != nil {
		tmp.Close()
		return ocr.Reading{}, err
	}
	if err := tmp.Close(); err != nil {
		return ocr.Reading{}, err
	}
	return u.Reader.ReadAmount(ctx, tmp.Name())
}

// Apply records a reading on up and reports whether anything changed.
func Apply(up *models.Upload, reading ocr.Reading, err error) bool {
	before := *up
	switch {
	case err == nil:
		up.OCRAmount = reading.Amount
		up.Failed = false
		up.FailedReason = ""
	case errors.Is(err, ocr.ErrNoAmount):
		up.Failed = false
		up.FailedReason = ""
	default:
		up.Failed = true
		reason := err.Error()
		if len(reason) > 255 {
			reason = reason[:255]
		}
		up.FailedReason = reason
	}
	return before.OCRAmount != up.OCRAmount || before.Failed != up.Failed || before.FailedReason != up.FailedReason
}
