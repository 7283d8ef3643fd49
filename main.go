package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/logging"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/ocr"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/pid"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/proof"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/storage"
)

var (
	jwtSecret []byte
	pids      *pid.Codec
	proofs    *proof.Ingester
	files     storage.Store
	appLog    logging.Logger = logging.Discard()
)

func main() {
	// .env never overrides variables that are already set
	_ = godotenv.Load()
	cfg := loadConfig()
	jwtSecret = []byte(cfg.JWTSecret)
	pids = pid.NewCodec(cfg.PIDSecret)
	appLog = logging.NewJSON()

	// `./backoffice-server migrate` runs AutoMigrate and seeding then exits.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB(cfg.DSN, true)
		fmt.Println("migration and seeding completed")
		return
	}
	initDB(cfg.DSN, cfg.AutoMigrate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	files = store
	proofs = &proof.Ingester{Store: store, Log: appLog.With("component", "proof"), MaxWidth: cfg.MaxWidth}
	if cfg.OCREnabled {
		proofs.Reader = ocr.NewReader(ocr.Tesseract{Language: cfg.OCRLanguage}, appLog.With("component", "ocr"))
	}

	r := gin.Default()
	setupRoutes(r)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()
	log.Printf("listening on %s (storage=%s)", srv.Addr, cfg.StorageDriver)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("server stopped")
}

func openStore(ctx context.Context, cfg config) (storage.Store, error) {
	return storage.Open(ctx, cfg.StorageDriver, cfg.UploadBase, cfg.S3)
}
