package login

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// DefaultTokenTTL is the validity window for issued tokens.
const DefaultTokenTTL = 24 * time.Hour

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey []byte
	ttl        time.Duration
	logger     Logger
}

// NewTokenService creates a new TokenService instance. The signing key
// is process-wide configuration, never derived from request data. A
// zero ttl falls back to DefaultTokenTTL; negative values are kept as
// given so tests can mint already-expired tokens.
func NewTokenService(signingKey []byte, ttl time.Duration, logger Logger) TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenServiceImpl{
		signingKey: signingKey,
		ttl:        ttl,
		logger:     logger,
	}
}

// Issue creates a signed JWT asserting the given subject. The jti
// claim carries a fresh UUID so two tokens never compare equal, even
// for the same subject at the same instant.
func (ts *TokenServiceImpl) Issue(subject string) (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ts.ttl)),
		ID:        uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Subject decodes and returns the identity claim. Callers are expected
// to already trust the token; failures surface as ErrInvalidToken.
func (ts *TokenServiceImpl) Subject(tokenString string) (string, error) {
	claims, err := ts.parse(tokenString)
	if err != nil {
		return "", errors.Wrap(err, ErrInvalidToken.Category, ErrInvalidToken.Message).
			WithTextCode(ErrInvalidToken.TextCode)
	}

	return claims.Subject, nil
}

// Validate reports whether the token is well formed, signed with our
// key, and not expired. It is a predicate: malformed or empty input
// yields false, never an error.
func (ts *TokenServiceImpl) Validate(tokenString string) bool {
	if tokenString == "" {
		return false
	}

	_, err := ts.parse(tokenString)
	return err == nil
}

// ExpiresIn returns the validity window in milliseconds, surfaced as
// response metadata alongside issued tokens.
func (ts *TokenServiceImpl) ExpiresIn() int64 {
	return ts.ttl.Milliseconds()
}

func (ts *TokenServiceImpl) parse(tokenString string) (*jwt.RegisteredClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService could not decode claims")
		return nil, ErrInvalidToken
	}

	return claims, nil
}
