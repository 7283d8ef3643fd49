package main

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/LittleKatyusha/Sapi-sub004/models"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/forms"
)

// proofFromRequest stores the optional "bukti" part of a multipart body and
// records it. It returns nil when no file was sent.
func proofFromRequest(c *gin.Context, tx *gorm.DB) (*models.Upload, error) {
	if c.ContentType() != gin.MIMEMultipartPOSTForm {
		return nil, nil
	}
	fh, err := c.FormFile("bukti")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, rejection(msgInvalid)
	}
	return ingestProof(c, tx, fh)
}

func ingestProof(c *gin.Context, tx *gorm.DB, fh *multipart.FileHeader) (*models.Upload, error) {
	if err := forms.CheckUpload(fh.Filename, fh.Size); err != nil {
		return nil, rejection(err.Error())
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open part: %w", err)
	}
	defer f.Close()

	ctx := c.Request.Context()
	stored, err := proofs.Ingest(ctx, fh.Filename, f, fh.Size)
	if err != nil {
		return nil, err
	}
	up := stored.Upload(currentUserID(c))
	if err := tx.Create(&up).Error; err != nil {
		if derr := files.Delete(ctx, stored.Key); derr != nil {
			appLog.Warn(ctx, "orphan proof left in storage", "key", stored.Key, "err", derr)
		}
		return nil, err
	}
	return &up, nil
}

// downloadFileHandler streams a stored proof. Missing or unreadable files
// are 404; the auth middleware already answered 401 for bad tokens.
func downloadFileHandler(c *gin.Context) {
	notFound := func() { c.JSON(http.StatusNotFound, gin.H{"error": "file not found"}) }
	id, err := pids.Decode(c.Param("pid"))
	if err != nil {
		notFound()
		return
	}
	var up models.Upload
	if err := db.WithContext(c.Request.Context()).First(&up, id).Error; err != nil {
		notFound()
		return
	}
	rc, err := files.Open(c.Request.Context(), up.StorageKey)
	if err != nil {
		appLog.Warn(c.Request.Context(), "proof not readable", "key", up.StorageKey, "err", err)
		notFound()
		return
	}
	defer rc.Close()
	contentType := up.ContentType
	if contentType == "" {
		contentType = forms.MimeType(up.FileName)
	}
	c.DataFromReader(http.StatusOK, up.Size, contentType, rc, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", up.FileName),
	})
}
