package accounts

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenCodec signs and verifies the short lived claims payloads bound into
// verification links. Tokens are HS256 JWTs, URL safe by construction, and
// always carry an exp claim.
type TokenCodec struct {
	signingKey []byte
	defaultTTL time.Duration
	logger     Logger
	now        func() time.Time
}

type TokenCodecOption func(*TokenCodec)

// WithTokenCodecLogger overrides the codec logger.
func WithTokenCodecLogger(logger Logger) TokenCodecOption {
	return func(tc *TokenCodec) {
		if logger != nil {
			tc.logger = logger
		}
	}
}

// WithTokenCodecClock injects a custom clock (useful for tests).
func WithTokenCodecClock(clock func() time.Time) TokenCodecOption {
	return func(tc *TokenCodec) {
		if clock != nil {
			tc.now = clock
		}
	}
}

// NewTokenCodec creates a codec bound to a process wide signing secret.
// A non positive defaultTTL falls back to DefaultTokenTTL.
func NewTokenCodec(signingKey []byte, defaultTTL time.Duration, opts ...TokenCodecOption) *TokenCodec {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTokenTTL
	}

	tc := &TokenCodec{
		signingKey: signingKey,
		defaultTTL: defaultTTL,
		logger:     defLogger{},
		now:        time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(tc)
		}
	}

	return tc
}

// Encode signs the given claims with an expiry of now + ttl. Caller claims
// are applied first and exp is set last, so a caller supplied exp is always
// overwritten by the computed one. A non positive ttl uses the codec default.
func (tc *TokenCodec) Encode(claims map[string]any, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = tc.defaultTTL
	}

	payload := jwt.MapClaims{}
	for k, v := range claims {
		payload[k] = v
	}
	payload["exp"] = jwt.NewNumericDate(tc.now().Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)

	signed, err := token.SignedString(tc.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign token")
	}

	return signed, nil
}

// Decode verifies the signature and expiry of an encoded token and returns
// its claims. Tampered, malformed, wrong-secret, and expired tokens all
// collapse into ErrTokenInvalid.
func (tc *TokenCodec) Decode(raw string) (map[string]any, error) {
	claims := jwt.MapClaims{}

	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			tc.logger.Error("token codec encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return tc.signingKey, nil
	}, jwt.WithExpirationRequired())

	if err != nil {
		tc.logger.Debug("token rejected", "reason", err)
		return nil, ErrTokenInvalid
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
