package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/logging"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/ocr"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/storage"
	ocrupdater "github.com/LittleKatyusha/Sapi-sub004/process/ocr_updater"
)

func main() {
	dry := flag.Bool("dry-run", true, "dry-run: don't write to DB")
	limit := flag.Int("limit", 0, "maximum uploads to re-read (0 = all)")
	minConf := flag.Float64("min-conf", 0.15, "minimum OCR confidence to accept")
	flag.Parse()

	_ = godotenv.Load()
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "DB_DSN not set; export and retry")
		os.Exit(2)
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	base := os.Getenv("UPLOAD_BASE")
	if base == "" {
		base = "uploads"
	}
	store, err := storage.Open(ctx, os.Getenv("STORAGE_DRIVER"), base, storage.S3ConfigFromEnv())
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	lang := os.Getenv("OCR_LANGUAGE")
	if lang == "" {
		lang = "eng"
	}
	logger := logging.NewJSON().With("tool", "ocr-updater")
	reader := ocr.NewReader(ocr.Tesseract{Language: lang}, logger)
	reader.MinConfidence = *minConf

	u := &ocrupdater.Updater{DB: db, Store: store, Reader: reader, DryRun: *dry, Limit: *limit, Log: logger}
	st, err := u.Run(ctx, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("checked=%d updated=%d no_amount=%d failed=%d\n", st.Checked, st.Updated, st.NoAmount, st.Failed)
}
