// Package authstub provides the thin hash/token primitives the HTTP surface
// needs for an authenticated session — user registration and JWT-style auth
// themselves are app-surface plumbing outside the risk-engine core (spec
// §1), so only the two primitives the teacher's auth package built on are
// kept: bcrypt password hashing and an HMAC-signed bearer token.
package authstub

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

var tokenSecret []byte

func init() {
	secret := os.Getenv("ATLAS_TOKEN_SECRET")
	if secret == "" {
		secret = generateRandomSecret()
	}
	tokenSecret = []byte(secret)
}

func generateRandomSecret() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.StdEncoding.EncodeToString(b)
}

// HashPassword creates a bcrypt hash of the password.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a password with a bcrypt hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Token is the claims carried by an issued bearer token.
type Token struct {
	UserID    int
	Email     string
	ExpiresAt time.Time
}

const tokenTTL = 24 * time.Hour

// GenerateToken issues an HMAC-SHA256-signed bearer token encoding a user ID,
// email, and expiry.
func GenerateToken(userID int, email string) (string, error) {
	expiresAt := time.Now().Add(tokenTTL)
	payload := encodeTokenData(userID, email, expiresAt)

	mac := hmac.New(sha256.New, tokenSecret)
	mac.Write([]byte(payload))
	signature := mac.Sum(nil)

	combined := append([]byte(payload+"."), signature...)
	return base64.URLEncoding.EncodeToString(combined), nil
}

// ValidateToken verifies a token's signature and expiry, returning its
// claims.
func ValidateToken(tokenString string) (*Token, error) {
	combined, err := base64.URLEncoding.DecodeString(tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}

	sep := strings.LastIndexByte(string(combined), '.')
	if sep < 0 || len(combined)-sep-1 != sha256.Size {
		return nil, ErrInvalidToken
	}
	payload := combined[:sep]
	providedSig := combined[sep+1:]

	mac := hmac.New(sha256.New, tokenSecret)
	mac.Write(payload)
	expectedSig := mac.Sum(nil)
	if !hmac.Equal(providedSig, expectedSig) {
		return nil, ErrInvalidToken
	}

	token, err := decodeTokenData(string(payload))
	if err != nil {
		return nil, ErrInvalidToken
	}
	if time.Now().After(token.ExpiresAt) {
		return nil, ErrInvalidToken
	}
	return token, nil
}

func encodeTokenData(userID int, email string, expiresAt time.Time) string {
	return strconv.Itoa(userID) + ":" + email + ":" + expiresAt.Format(time.RFC3339)
}

func decodeTokenData(data string) (*Token, error) {
	parts := strings.SplitN(data, ":", 3)
	if len(parts) != 3 {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, ErrInvalidToken
	}
	expiresAt, err := time.Parse(time.RFC3339, parts[2])
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &Token{UserID: userID, Email: parts[1], ExpiresAt: expiresAt}, nil
}
