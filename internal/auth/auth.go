package auth

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/haguru/bloguser/internal/models"
)

// SessionClaims is the payload of the session cookie. The opaque session
// token travels as sid; the store remains the authority on whether it is
// still active.
type SessionClaims struct {
	SessionID string `json:"sid"`
	UserID    int64  `json:"uid"`
	jwt.RegisteredClaims
}

// CookieSigner wraps session tokens in ES256 JWTs so a tampered cookie is
// rejected before the store is consulted.
type CookieSigner struct {
	privateKey *ecdsa.PrivateKey
	now        func() time.Time
}

func NewCookieSigner(privateKey *ecdsa.PrivateKey) (*CookieSigner, error) {
	if privateKey == nil {
		return nil, errors.New(ErrNilPrivateKey)
	}
	return &CookieSigner{
		privateKey: privateKey,
		now:        time.Now,
	}, nil
}

// Sign returns the cookie value for a session. The JWT expires with the
// session.
func (c *CookieSigner) Sign(session models.Session) (string, error) {
	now := c.now()
	claims := SessionClaims{
		SessionID: session.Token,
		UserID:    session.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    ISSUER,
			Subject:   SUBJECT,
			Audience:  []string{"api" + ISSUER},
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)

	signed, err := token.SignedString(c.privateKey)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrSigningCookie, err)
	}

	return signed, nil
}

// Verify checks the signature and registered claims of a cookie value and
// returns its claims.
func (c *CookieSigner) Verify(cookie string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(cookie, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodECDSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return &c.privateKey.PublicKey, nil
	},
		jwt.WithValidMethods([]string{signingMethodAlgorithm}),
		jwt.WithIssuer(ISSUER),
		jwt.WithSubject(SUBJECT),
		jwt.WithAudience("api"+ISSUER),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrParsingCookie, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New(ErrInvalidCookie)
	}
	if claims.SessionID == "" {
		return nil, errors.New(ErrMissingSessionID)
	}

	return claims, nil
}
