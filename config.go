package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/storage"
)

// config is read once from the environment after .env has been loaded.
type config struct {
	Port        string
	DSN         string
	JWTSecret   string
	PIDSecret   string
	AutoMigrate bool

	StorageDriver string // local or s3
	UploadBase    string
	S3            storage.S3Config

	OCREnabled  bool
	OCRLanguage string
	MaxWidth    int
}

func loadConfig() config {
	c := config{
		Port:          envOr("PORT", "8081"),
		DSN:           os.Getenv("DB_DSN"),
		JWTSecret:     envOr("JWT_SECRET", "dev-insecure-secret-change"),
		AutoMigrate:   envBool("DB_AUTO_MIGRATE", true),
		StorageDriver: strings.ToLower(envOr("STORAGE_DRIVER", "local")),
		UploadBase:    envOr("UPLOAD_BASE", "uploads"),
		S3:            storage.S3ConfigFromEnv(),
		OCREnabled:  envBool("OCR_ENABLED", true),
		OCRLanguage: envOr("OCR_LANGUAGE", "eng"),
		MaxWidth:    envInt("PROOF_MAX_WIDTH", 1600),
	}
	// pids stay decodable across restarts only with a stable secret
	c.PIDSecret = envOr("PID_SECRET", c.JWTSecret)
	return c
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "":
		return def
	case "false", "0", "no", "off":
		return false
	}
	return true
}

func envInt(key string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
