package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/api"
)

const (
	msgSaved      = "Data berhasil disimpan"
	msgUpdated    = "Data berhasil diperbarui"
	msgDeleted    = "Data berhasil dihapus"
	msgNotFound   = "Data tidak ditemukan"
	msgInUse      = "Data masih digunakan"
	msgInvalid    = "Data tidak valid"
	msgServerFail = "Terjadi kesalahan pada server"
)

// respondOK writes {status:"ok"}; data is omitted when nil.
func respondOK(c *gin.Context, message string, data any) {
	body := gin.H{"status": api.StatusOK, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(http.StatusOK, body)
}

// respondNo is a business rejection: HTTP 200 with status "no".
func respondNo(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"status": api.StatusNo, "message": message})
}

// respondFail logs err and answers 500 without leaking it.
func respondFail(c *gin.Context, op string, err error) {
	appLog.Error(c.Request.Context(), op+" failed", "path", c.FullPath(), "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"status": api.StatusNo, "message": msgServerFail})
}
