package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/LittleKatyusha/Sapi-sub004/models"
)

const (
	accessTTL  = 24 * time.Hour
	refreshTTL = 30 * 24 * time.Hour
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Postgres SQLSTATE codes the handlers react to.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func RegisterUser(username, password, fullName string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username required")
	}
	if len(password) < 6 {
		return fmt.Errorf("password too short (min 6)")
	}
	var existing models.User
	if err := db.Where("username = ?", username).First(&existing).Error; err == nil {
		return ErrUserExists
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	role := models.Role{Name: models.RoleUser, Description: "back-office staff"}
	if err := db.Where("name = ?", role.Name).FirstOrCreate(&role).Error; err != nil {
		return fmt.Errorf("failed to ensure user role: %w", err)
	}
	rid := role.ID
	user := models.User{Username: username, FullName: strings.TrimSpace(fullName), HashedPassword: hashedPassword, RoleID: &rid}
	if err := db.Create(&user).Error; err != nil {
		if isUniqueConstraintError(err) { // race after the pre-check
			return ErrUserExists
		}
		return err
	}
	return nil
}

func Authenticate(username, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	var user models.User
	if err := db.Preload("Role").Where("username = ?", username).First(&user).Error; err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func issueAccessToken(user models.User, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":      user.ID,
		"username": user.Username,
		"role":     user.Role.Name,
		"exp":      time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(jwtSecret)
}

// createAndStoreRefreshToken returns the raw token; only its sha256 is stored.
func createAndStoreRefreshToken(tx *gorm.DB, userID uint) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	rt := models.RefreshToken{UserID: userID, TokenHash: hashToken(token), ExpiresAt: time.Now().Add(refreshTTL)}
	if err := tx.Create(&rt).Error; err != nil {
		return "", err
	}
	return token, nil
}

func findRefreshTokenByRaw(token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := db.Where("token_hash = ?", hashToken(token)).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if pgCode(err) == pgUniqueViolation {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key")
}

func isForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	if pgCode(err) == pgForeignKeyViolation {
		return true
	}
	return strings.Contains(err.Error(), "violates foreign key constraint")
}
