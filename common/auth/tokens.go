package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// TokenTypeAccess is the "typ" claim carried by login tokens.
const TokenTypeAccess = "access"

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the payload of an access token.
type Claims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Type     string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenService is responsible for creating and validating JWTs.
type TokenService struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewTokenService creates a TokenService signing with secret. Tokens expire after ttl.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret not configured")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive")
	}
	return &TokenService{secretKey: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// GenerateAccessToken signs an HS256 access token for the given account.
func (s *TokenService) GenerateAccessToken(userID, email, username string) (string, error) {
	now := s.now()
	claims := Claims{
		Email:    email,
		Username: username,
		Type:     TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseAndValidateToken parses a JWT and returns its claims.
// If expectedType is non-empty, the "typ" claim must match it.
func (s *TokenService) ParseAndValidateToken(tokenStr, expectedType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil || token == nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	if expectedType != "" && claims.Type != expectedType {
		return nil, fmt.Errorf("invalid token type")
	}
	return claims, nil
}
