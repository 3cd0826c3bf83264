package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Tokens are minted by the identity provider. This service only verifies
// them; GenerateAccessToken exists for staff tooling and tests.

const AccessTokenTTL = 15 * time.Minute

var (
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidTokenType = errors.New("invalid token type")
	ErrEmptyJWTSecret   = errors.New("jwt secret cannot be empty")
)

type TokenConfig struct {
	Secret   string
	Issuer   string
	Audience string
}

type JWTClaims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Actor converts verified claims into an Actor.
func (c *JWTClaims) Actor() (Actor, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return Actor{}, ErrInvalidToken
	}
	role, err := ParseRole(c.Role)
	if err != nil {
		return Actor{}, ErrInvalidToken
	}
	return Actor{UserID: id, Role: role}, nil
}

func GenerateAccessToken(cfg TokenConfig, userID uuid.UUID, email string, role Role, ttl time.Duration) (string, error) {
	if cfg.Secret == "" {
		return "", ErrEmptyJWTSecret
	}
	if ttl <= 0 {
		ttl = AccessTokenTTL
	}

	now := time.Now()
	claims := &JWTClaims{
		UserID:    userID.String(),
		Email:     email,
		Role:      string(role),
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   userID.String(),
			Audience:  []string{cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

func ValidateToken(tokenString string, cfg TokenConfig) (*JWTClaims, error) {
	if cfg.Secret == "" {
		return nil, ErrEmptyJWTSecret
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&JWTClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, err
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
