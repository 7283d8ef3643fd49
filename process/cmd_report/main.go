package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/LittleKatyusha/Sapi-sub004/process/report"
)

func main() {
	month := flag.String("month", time.Now().Format("2006-01"), "month to report (YYYY-MM)")
	list := flag.Bool("list", false, "also list the kas rows of the month")
	flag.Parse()

	_ = godotenv.Load()
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "DB_DSN not set; export DB_DSN and retry")
		os.Exit(2)
	}
	m, err := report.ParseMonth(*month)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}

	ctx := context.Background()
	rep, err := report.Monthly(ctx, db, m)
	if err != nil {
		log.Fatalf("report failed: %v", err)
	}
	if err := rep.Write(os.Stdout); err != nil {
		log.Fatal(err)
	}
	if *list {
		if err := report.ListKas(ctx, db, m, os.Stdout); err != nil {
			log.Fatalf("list failed: %v", err)
		}
	}
}
