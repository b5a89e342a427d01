// Package auth issues and verifies the administrator session tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "attendance-backend"

var ErrInvalidToken = errors.New("invalid token")

// Claims are carried by access tokens. Refresh tokens only fill the
// registered part.
type Claims struct {
	AdminID  string `json:"admin_id,omitempty"`
	Username string `json:"username,omitempty"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

func (i *Issuer) AccessTTL() time.Duration  { return i.accessTTL }
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

func (i *Issuer) IssueTokens(adminID, username string) (TokenPair, error) {
	now := i.now()
	pair := TokenPair{
		AccessExpiresAt:  now.Add(i.accessTTL),
		RefreshExpiresAt: now.Add(i.refreshTTL),
	}
	access := Claims{
		AdminID:          adminID,
		Username:         username,
		RegisteredClaims: registered(adminID, now, pair.AccessExpiresAt),
	}
	var err error
	if pair.AccessToken, err = sign(access, i.accessSecret); err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	refresh := Claims{RegisteredClaims: registered(adminID, now, pair.RefreshExpiresAt)}
	if pair.RefreshToken, err = sign(refresh, i.refreshSecret); err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return pair, nil
}

func registered(subject string, now, expires time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
}

func sign(claims Claims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (i *Issuer) VerifyAccess(token string) (*Claims, error) {
	claims, err := i.verify(token, i.accessSecret)
	if err != nil {
		return nil, err
	}
	if claims.AdminID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (i *Issuer) VerifyRefresh(token string) (*Claims, error) {
	return i.verify(token, i.refreshSecret)
}

func (i *Issuer) verify(token string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
