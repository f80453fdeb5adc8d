package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/railsuraksha/railsuraksha/internal/model"
	"github.com/railsuraksha/railsuraksha/internal/store"
)

// ErrInvalidCredentials is returned for an unknown user or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// HashPassword validates and hashes a password with bcrypt.
func HashPassword(password string) (string, error) {
	if err := model.ValidatePassword(password); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// RandomPassword returns a random URL-safe password of 16 characters.
func RandomPassword() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Login checks credentials and issues a token for the user.
func Login(ctx context.Context, db *sql.DB, secret, username, password string) (string, *model.User, error) {
	user, err := store.GetUserByUsername(ctx, db, username)
	if err != nil {
		return "", nil, err
	}
	if user == nil || user.DeletedAt != nil || !CheckPassword(user.PasswordHash, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := GenerateToken(secret, user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ChangePassword replaces a user's password after checking the current one.
func ChangePassword(ctx context.Context, db *sql.DB, userID int64, current, next string) error {
	user, err := store.GetUser(ctx, db, userID)
	if err != nil {
		return err
	}
	if user == nil || user.DeletedAt != nil || !CheckPassword(user.PasswordHash, current) {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	return store.UpdateUserPassword(ctx, db, userID, hash)
}

// Revoke blocks the token described by claims until it would have expired.
func Revoke(ctx context.Context, db *sql.DB, claims *Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	expires := time.Now().Add(TokenExpiry)
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}
	return store.RevokeToken(ctx, db, claims.ID, expires)
}

// IsRevoked reports whether the token described by claims was revoked.
func IsRevoked(ctx context.Context, db *sql.DB, claims *Claims) (bool, error) {
	if claims.ID == "" {
		return false, nil
	}
	return store.IsTokenRevoked(ctx, db, claims.ID)
}
