// Package token issues and verifies the signed, time-limited bearer tokens
// handed out at login. Tokens are stateless; expiry is the only way one stops
// being accepted.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"blogapi/internal/core/errs"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is used when the service is built with a non-positive TTL.
const DefaultTTL = 30 * time.Minute

var (
	ErrTokenMalformed        = fmt.Errorf("%w: malformed", errs.ErrTokenInvalid)
	ErrTokenExpired          = fmt.Errorf("%w: expired", errs.ErrTokenInvalid)
	ErrTokenSignatureInvalid = fmt.Errorf("%w: signature invalid", errs.ErrTokenInvalid)
)

// Claims is the payload of an access token. Subject holds the user id.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrTokenMalformed
	}
	return uint(id), nil
}

type Token struct {
	Value     string
	ExpiresAt time.Time
}

type Service struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewService(secret []byte, issuer string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the lifetime of tokens built by Issue.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

func (s *Service) Issue(userID uint, username string) (Token, error) {
	return s.IssueWithTTL(userID, username, s.ttl)
}

func (s *Service) IssueWithTTL(userID uint, username string, ttl time.Duration) (Token, error) {
	now := s.now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Value: signed, ExpiresAt: expiresAt}, nil
}

// Verify checks signature, algorithm, issuer and expiry. The returned error
// is one of ErrTokenMalformed, ErrTokenExpired or ErrTokenSignatureInvalid.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	if !token.Valid {
		return nil, ErrTokenMalformed
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrTokenSignatureInvalid
	default:
		return ErrTokenMalformed
	}
}
