package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/LittleKatyusha/Sapi-sub004/models"
)

func main() {
	role := flag.String("role", models.RoleUser, "role name (administrator or user)")
	fullName := flag.String("name", "", "full name shown in the back office")
	reset := flag.Bool("reset", false, "reset the password of an existing user instead")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: create_user [-role user] [-name \"Full Name\"] [-reset] <username> <password>")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	username, password := flag.Arg(0), flag.Arg(1)
	if len(password) < 6 {
		log.Fatal("password too short (min 6)")
	}

	_ = godotenv.Load()
	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	hpw, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt failed: %v", err)
	}

	var existing models.User
	err = db.Where("username = ?", username).First(&existing).Error
	switch {
	case err == nil && *reset:
		if err := db.Model(&existing).Update("hashed_password", hpw).Error; err != nil {
			log.Fatalf("update failed: %v", err)
		}
		// outstanding sessions must log in again
		db.Model(&models.RefreshToken{}).Where("user_id = ?", existing.ID).Update("revoked", true)
		fmt.Printf("password reset for user %s\n", username)
		return
	case err == nil:
		fmt.Printf("user %s already exists (id=%d)\n", username, existing.ID)
		return
	case !errors.Is(err, gorm.ErrRecordNotFound):
		log.Fatalf("lookup failed: %v", err)
	case *reset:
		log.Fatalf("user %s not found", username)
	}

	var r models.Role
	if err := db.Where("name = ?", *role).First(&r).Error; err != nil {
		known := false
		for _, d := range models.DefaultRoles() {
			if d.Name == *role {
				r, known = d, true
			}
		}
		if !known {
			log.Fatalf("unknown role %q", *role)
		}
		if err := db.Create(&r).Error; err != nil {
			log.Fatalf("failed to create role %s: %v", *role, err)
		}
	}

	name := *fullName
	if name == "" {
		name = username
	}
	rid := r.ID
	user := models.User{Username: username, FullName: name, HashedPassword: hpw, RoleID: &rid}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("failed to create user: %v", err)
	}
	fmt.Printf("created user %s id=%d role=%s\n", username, user.ID, r.Name)
}
