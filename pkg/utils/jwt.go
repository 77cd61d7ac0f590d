package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
)

var ErrInvalidToken = errors.New("invalid token")

// InitJWT initializes the signing secret and expiry windows
func InitJWT(secret string, accessExp, refreshExp time.Duration) {
	jwtSecret = secret
	accessExpiry = accessExp
	refreshExpiry = refreshExp
}

// Claims represents JWT custom claims carried by both token types
type Claims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Code      string `json:"code"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs a short-lived access token
func GenerateAccessToken(userID uint, email, role, code string) (string, error) {
	return generateToken(userID, email, role, code, TokenTypeAccess, accessExpiry)
}

// GenerateRefreshToken signs a longer-lived refresh token with the same
// payload. The jti keeps two tokens minted in the same second distinct.
func GenerateRefreshToken(userID uint, email, role, code string) (string, error) {
	return generateToken(userID, email, role, code, TokenTypeRefresh, refreshExpiry)
}

func generateToken(userID uint, email, role, code, tokenType string, expiry time.Duration) (string, error) {
	claims := Claims{
		UserID:    userID,
		Email:     email,
		Role:      role,
		Code:      code,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// ValidateAccessToken validates and parses an access token
func ValidateAccessToken(tokenString string) (*Claims, error) {
	return validateToken(tokenString, TokenTypeAccess)
}

// ValidateRefreshToken validates and parses a refresh token
func ValidateRefreshToken(tokenString string) (*Claims, error) {
	return validateToken(tokenString, TokenTypeRefresh)
}

func validateToken(tokenString, tokenType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TokenType != tokenType {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ExtractBearerToken strips the "Bearer " prefix from an Authorization
// header value.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("authorization header required")
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errors.New("invalid authorization format, use: Bearer <token>")
	}
	return parts[1], nil
}

// HashToken creates a SHA-256 hash of a token for storage. Refresh tokens
// are persisted only as this hash, never in plaintext.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// GetRefreshTokenExpiry returns the refresh token expiry duration
func GetRefreshTokenExpiry() time.Duration {
	return refreshExpiry
}
