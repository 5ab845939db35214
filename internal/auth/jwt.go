package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vidgallery/vidgallery/internal/session"
)

const (
	AccessTokenDuration  = 15 * time.Minute
	RefreshTokenDuration = 7 * 24 * time.Hour

	tokenIssuer = "vidgallery"
)

// TokenKind separates short-lived access tokens from refresh tokens; neither
// is accepted where the other is expected.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

var errWrongKind = errors.New("wrong token kind")

type Claims struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email,omitempty"`
	TokenID   string    `json:"jti"`
	TokenType TokenKind `json:"type"`
	jwt.RegisteredClaims
}

func (c *Claims) Principal() session.Principal {
	return session.Principal{ID: c.UserID, Email: c.Email}
}

func GenerateAccessToken(secret, userID, email string) (string, error) {
	return signToken(secret, &Claims{UserID: userID, Email: email, TokenType: KindAccess}, AccessTokenDuration)
}

func GenerateRefreshToken(secret, userID, email, tokenID string) (string, error) {
	return signToken(secret, &Claims{UserID: userID, Email: email, TokenID: tokenID, TokenType: KindRefresh}, RefreshTokenDuration)
}

// ValidateToken checks signature, expiry and issuer. Tokens signed with
// anything but HS256 are rejected before the key is consulted.
func ValidateToken(secret, tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return claims, nil
}

// validateKind is ValidateToken plus the kind check; refresh tokens must also
// carry an id.
func validateKind(secret, tokenStr string, kind TokenKind) (*Claims, error) {
	claims, err := ValidateToken(secret, tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != kind || (kind == KindRefresh && claims.TokenID == "") {
		return nil, errWrongKind
	}
	return claims, nil
}

func newTokenID() string {
	return uuid.NewString()
}

func signToken(secret string, claims *Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   claims.UserID,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        claims.TokenID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
