package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/LittleKatyusha/Sapi-sub004/process/sanitize"
)

func main() {
	dryRun := flag.Bool("dry-run", true, "don't perform destructive actions; show what would be done")
	yes := flag.Bool("yes", false, "confirm destructive action (required to actually truncate)")
	reseed := flag.Bool("reseed", false, "after truncation, reseed roles and the admin user")
	tables := flag.String("tables", strings.Join(sanitize.DefaultTables, ","), "comma-separated list of tables to truncate")
	flag.Parse()

	_ = godotenv.Load()
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN must be set to run sanitize")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	valid, invalid := sanitize.ParseTables(*tables)
	for _, t := range invalid {
		log.Printf("warning: skipping invalid table name '%s'", t)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	opts := sanitize.Options{
		Tables:        valid,
		DryRun:        *dryRun,
		Yes:           *yes,
		Reseed:        *reseed,
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
	if err := sanitize.Run(ctx, gdb, opts, os.Stdout); err != nil {
		if errors.Is(err, sanitize.ErrNotConfirmed) {
			fmt.Println("Destructive operation. Pass --yes to confirm execution. Aborting.")
			os.Exit(1)
		}
		log.Fatalf("sanitize failed: %v", err)
	}
}
