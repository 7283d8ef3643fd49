package main

import (
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/LittleKatyusha/Sapi-sub004/models"
)

var db *gorm.DB

func initDB(dsn string, migrate bool) {
	if dsn == "" {
		log.Fatal("DB_DSN is not set. This project requires a Postgres DSN in DB_DSN.")
	}
	var err error
	db, err = openDB(dsn)
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}
	if migrate {
		migrateDB()
	}
	seedDB()
}

func openDB(dsn string) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "[GORM] ", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
	return gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger})
}

// migrateDB creates roles first so the users FK can be applied, then the
// business tables in one call so gorm orders them by dependency. Failures
// are logged and ignored: the app role may lack DDL rights in production.
func migrateDB() {
	if err := db.AutoMigrate(&models.Role{}); err != nil {
		log.Printf("migration warning (roles): %v", err)
	}
	seedRoles()
	if err := db.AutoMigrate(&models.User{}, &models.RefreshToken{}); err != nil {
		log.Printf("migration warning (users): %v", err)
	}
	if err := db.AutoMigrate(models.Business()...); err != nil {
		log.Printf("migration warning (business tables): %v", err)
	}
}

func seedRoles() {
	for _, r := range models.DefaultRoles() {
		if err := db.Where("name = ?", r.Name).FirstOrCreate(&r).Error; err != nil {
			log.Printf("failed to seed role %s: %v", r.Name, err)
		}
	}
}

func seedDB() {
	seedRoles()

	var count int64
	db.Model(&models.User{}).Where("username = ?", "admin").Count(&count)
	if count > 0 {
		return
	}
	var role models.Role
	if err := db.Where("name = ?", models.RoleAdministrator).First(&role).Error; err != nil {
		log.Printf("failed to find administrator role: %v", err)
		return
	}
	rid := role.ID
	admin := models.User{Username: "admin", FullName: "Administrator", RoleID: &rid}
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin.HashedPassword = hashedPassword
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("failed to seed admin: %v", err)
		return
	}
	log.Println("Seeded admin user: username=admin, password=admin123")
}
