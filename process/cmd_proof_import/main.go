package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/LittleKatyusha/Sapi-sub004/models"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/logging"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/ocr"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/proof"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/storage"
	"github.com/LittleKatyusha/Sapi-sub004/process/proofimport"
)

// Attaches scanned deposit proofs named <nomor_setor>.<ext> from an inbox
// directory to their bank deposits; optional watch mode.
func main() {
	inbox := flag.String("dir", "public/setoran", "inbox directory with scanned proofs")
	done := flag.String("done", "", "directory for attached files (default <dir>/processed)")
	failed := flag.String("failed", "", "directory for rejected files (default <dir>/failed)")
	watch := flag.Bool("watch", false, "keep watching the inbox for new files")
	workers := flag.Int("workers", 0, "worker pool size (default NumCPU)")
	replace := flag.Bool("replace", false, "replace proofs already attached to a deposit")
	username := flag.String("user", "admin", "user recorded as uploader")
	noOCR := flag.Bool("no-ocr", false, "skip reading the amount from images")
	flag.Parse()

	_ = godotenv.Load()
	if *done == "" {
		*done = filepath.Join(*inbox, "processed")
	}
	if *failed == "" {
		*failed = filepath.Join(*inbox, "failed")
	}

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "DB_DSN not set; export DB_DSN and retry")
		os.Exit(2)
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, os.Getenv("STORAGE_DRIVER"), envOr("UPLOAD_BASE", "uploads"), storage.S3ConfigFromEnv())
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	logger := logging.NewJSON().With("tool", "proof-import")
	ingester := &proof.Ingester{Store: store, Log: logger}
	if !*noOCR {
		ingester.Reader = ocr.NewReader(ocr.Tesseract{Language: envOr("OCR_LANGUAGE", "eng")}, logger)
	}

	im := &proofimport.Importer{
		Inbox:    *inbox,
		Done:     *done,
		Failed:   *failed,
		Proofs:   ingester,
		Deposits: proofimport.DBAttacher{DB: db, UserID: lookupUser(db, *username)},
		Store:    store,
		Workers:  *workers,
		Replace:  *replace,
		Log:      logger,
	}
	if *watch {
		if err := im.Watch(ctx); err != nil {
			log.Fatalf("watch failed: %v", err)
		}
		return
	}
	stats, err := im.Scan(ctx)
	if err != nil {
		log.Fatalf("scan failed: %v", err)
	}
	fmt.Printf("attached=%d skipped=%d failed=%d\n", stats.Attached, stats.Skipped, stats.Failed)
}

func lookupUser(db *gorm.DB, username string) *uint {
	var u models.User
	if err := db.Select("id").Where("username = ?", username).First(&u).Error; err != nil {
		log.Printf("uploader %q not found, proofs are stored without one: %v", username, err)
		return nil
	}
	return &u.ID
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
