package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/o1egl/paseto"
)

const (
	// AccessTokenExpiry covers one working shift plus handover.
	AccessTokenExpiry = 14 * time.Hour
)

var (
	ErrTokenExpired           = errors.New("token expired")
	ErrInsufficientPermission = errors.New("insufficient permissions")
)

// TokenClaims struct represents the data in the token (UserID, Role, Expiry).
type TokenClaims struct {
	UserID string    `json:"userId"`
	Role   string    `json:"role"`
	Expiry time.Time `json:"expiry"`
}

// TokenIssuer encrypts and decrypts PASETO v2 local tokens with a 32 byte key.
type TokenIssuer struct {
	key    []byte
	expiry time.Duration
	now    func() time.Time
}

func NewTokenIssuer(symmetricKey string) (*TokenIssuer, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("symmetric key must be 32 bytes long, got %d", len(symmetricKey))
	}
	return &TokenIssuer{key: []byte(symmetricKey), expiry: AccessTokenExpiry, now: time.Now}, nil
}

// GenerateAccessToken generates an access token for a user.
func (t *TokenIssuer) GenerateAccessToken(userID, role string) (string, error) {
	claims := TokenClaims{
		UserID: userID,
		Role:   role,
		Expiry: t.now().Add(t.expiry),
	}
	token, err := paseto.NewV2().Encrypt(t.key, claims, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

// ValidateToken decrypts the token and checks expiry and, when given, the allowed roles.
func (t *TokenIssuer) ValidateToken(tokenString string, requiredRoles ...string) (*TokenClaims, error) {
	var claims TokenClaims
	if err := paseto.NewV2().Decrypt(tokenString, t.key, &claims, nil); err != nil {
		return nil, fmt.Errorf("failed to decrypt token: %w", err)
	}

	if t.now().After(claims.Expiry) {
		return nil, ErrTokenExpired
	}

	if len(requiredRoles) == 0 {
		return &claims, nil
	}
	for _, role := range requiredRoles {
		if claims.Role == role {
			return &claims, nil
		}
	}
	return nil, ErrInsufficientPermission
}
