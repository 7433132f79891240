package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const regSecretKey = "registration_secret_hash"

// SettingsService manages keyed application settings; today that is only
// the bcrypt hash of the registration secret.
type SettingsService struct {
	db *sql.DB

	// defaultSecret seeds the registration secret on first use.
	defaultSecret string
}

func NewSettingsService(db *sql.DB, defaultSecret string) *SettingsService {
	return &SettingsService{db: db, defaultSecret: defaultSecret}
}

// EnsureRegistrationSecret seeds the stored secret hash from the configured
// default when no row exists yet. First startup without a configured default
// is a hard error.
func (s *SettingsService) EnsureRegistrationSecret(ctx context.Context) error {
	var value sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM app_settings WHERE key = $1`, regSecretKey).Scan(&value)
	if err == nil && value.Valid {
		return nil
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("get setting: %w", err)
	}

	if s.defaultSecret == "" {
		return errors.New("REGISTRATION_SECRET_DEFAULT is not set (required for first start)")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(s.defaultSecret), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash registration secret: %w", err)
	}
	return s.storeSecretHash(ctx, string(hash))
}

// VerifyRegistrationSecret reports whether candidate matches the stored
// registration secret, seeding the default first if necessary.
func (s *SettingsService) VerifyRegistrationSecret(ctx context.Context, candidate string) error {
	if err := s.EnsureRegistrationSecret(ctx); err != nil {
		return err
	}

	var value sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM app_settings WHERE key = $1`, regSecretKey).Scan(&value)
	if err != nil {
		return fmt.Errorf("get setting: %w", err)
	}
	if !value.Valid {
		return errors.New("registration secret missing")
	}

	if bcrypt.CompareHashAndPassword([]byte(value.String), []byte(candidate)) != nil {
		return ErrInvalidSecret
	}
	return nil
}

// UpdateRegistrationSecret replaces the stored secret with a hash of
// newSecret.
func (s *SettingsService) UpdateRegistrationSecret(ctx context.Context, newSecret string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newSecret), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash registration secret: %w", err)
	}
	return s.storeSecretHash(ctx, string(hash))
}

func (s *SettingsService) storeSecretHash(ctx context.Context, hash string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_settings (id, key, value) VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, uuid.NewString(), regSecretKey, hash)
	if err != nil {
		return fmt.Errorf("store setting: %w", err)
	}
	return nil
}
