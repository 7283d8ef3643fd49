// Package sanitize empties the application tables of a database, for
// resetting staging environments. Nothing happens without an explicit
// confirmation.
package sanitize

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/LittleKatyusha/Sapi-sub004/models"
)

// DefaultTables are the tables the server creates.
var DefaultTables = []string{
	"tanda_terima", "keuangan_kas", "bank_deposits", "pengajuan_biaya_kas",
	"pembelian_feedmil", "pembelian_ovk", "uploads",
	"refresh_tokens", "users", "roles",
}

var nameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

var ErrNotConfirmed = errors.New("destructive operation not confirmed")

type Options struct {
	Tables []string
	// DryRun only reports the tables that would be truncated.
	DryRun bool
	// Yes confirms the truncation when DryRun is off.
	Yes bool
	// Reseed restores the default roles and the admin user afterwards.
	Reseed        bool
	AdminPassword string
}

// ParseTables splits a comma separated list and drops names that are not
// plain identifiers; the rejected names are returned for reporting.
func ParseTables(s string) (valid, invalid []string) {
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !nameRe.MatchString(p) {
			invalid = append(invalid, p)
			continue
		}
		valid = append(valid, p)
	}
	return valid, invalid
}

// TruncateStatement quotes every name; callers validate them first.
func TruncateStatement(tables []string) string {
	quoted := make([]string, len(tables))
	for i, t := range tables {
		quoted[i] = `"` + t + `"`
	}
	return fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(quoted, ", "))
}

// Run truncates the requested tables that exist in the public schema and
// reports progress to w.
func Run(ctx context.Context, db *gorm.DB, opts Options, w io.Writer) error {
	var existing []string
	for _, t := range opts.Tables {
		if !nameRe.MatchString(t) {
			return fmt.Errorf("invalid table name %q", t)
		}
		var cnt int64
		err := db.WithContext(ctx).
			Raw("SELECT count(*) FROM pg_tables WHERE schemaname = 'public' AND tablename = ?", t).
			Scan(&cnt).Error
		if err != nil {
			return fmt.Errorf("query pg_tables for %s: %w", t, err)
		}
		if cnt == 0 {
			fmt.Fprintf(w, "table %s not found, skipping\n", t)
			continue
		}
		existing = append(existing, t)
	}
	if len(existing) == 0 {
		fmt.Fprintln(w, "no requested tables present; nothing to do")
		return nil
	}

	fmt.Fprintln(w, "Tables considered for truncation:")
	for _, t := range existing {
		fmt.Fprintf(w, " - %s\n", t)
	}
	if opts.DryRun {
		fmt.Fprintln(w, "dry-run: no changes made. Use --dry-run=false --yes to execute.")
		return nil
	}
	if !opts.Yes {
		return ErrNotConfirmed
	}

	stmt := TruncateStatement(existing)
	fmt.Fprintf(w, "executing: %s\n", stmt)
	if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	// stored proof objects are not touched; the storage bucket is cleared separately
	fmt.Fprintln(w, "truncate completed")

	if opts.Reseed {
		if err := Reseed(ctx, db, opts.AdminPassword); err != nil {
			return fmt.Errorf("reseed: %w", err)
		}
		fmt.Fprintln(w, "roles and admin user reseeded")
	}
	return nil
}

// Reseed restores the default roles and an "admin" administrator.
func Reseed(ctx context.Context, db *gorm.DB, password string) error {
	if password == "" {
		password = "admin123"
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range models.DefaultRoles() {
			if err := tx.Where("name = ?", r.Name).FirstOrCreate(&r).Error; err != nil {
				return fmt.Errorf("ensure role %s: %w", r.Name, err)
			}
		}
		var role models.Role
		if err := tx.Where("name = ?", models.RoleAdministrator).First(&role).Error; err != nil {
			return fmt.Errorf("find administrator role: %w", err)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		rid := role.ID
		admin := models.User{Username: "admin", FullName: "Administrator", HashedPassword: hashed, RoleID: &rid}
		return tx.Where("username = ?", admin.Username).FirstOrCreate(&admin).Error
	})
}
