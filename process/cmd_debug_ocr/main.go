package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/logging"
	"github.com/LittleKatyusha/Sapi-sub004/pkg/ocr"
)

func main() {
	f := flag.String("file", "", "image file to OCR")
	lang := flag.String("lang", "eng", "tesseract language")
	flag.Parse()
	if *f == "" {
		log.Fatalf("-file required")
	}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	r := ocr.NewReader(ocr.Tesseract{Language: *lang}, logger)
	r.MinConfidence = 0
	reading, err := r.ReadAmount(context.Background(), *f)
	if errors.Is(err, ocr.ErrNoAmount) {
		fmt.Println("no amount found")
		return
	}
	if err != nil {
		log.Fatalf("ocr error: %v", err)
	}
	fmt.Printf("amt=%d conf=%.4f found=%q\n", reading.Amount, reading.Confidence, reading.Raw)
}
