package service

import (
	"crypto/sha256"
	"errors"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"

	authDomain "github.com/allisson/quizly/internal/auth/domain"
	apperrors "github.com/allisson/quizly/internal/errors"
)

const signingKeySize = 32

// TokenCodecConfig configures token issuing and validation.
type TokenCodecConfig struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// jwtClaims is the wire form of session tokens.
type jwtClaims struct {
	TokenType authDomain.TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

type tokenCodec struct {
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	keys       map[authDomain.TokenType][]byte
	now        func() time.Time
}

// NewTokenCodec derives one HMAC-SHA256 key per token type from the configured secret.
func NewTokenCodec(cfg TokenCodecConfig) (TokenCodec, error) {
	if len(cfg.Secret) == 0 {
		return nil, apperrors.New("token secret is required")
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	keys := make(map[authDomain.TokenType][]byte, 2)
	for _, tokenType := range []authDomain.TokenType{authDomain.TokenTypeAccess, authDomain.TokenTypeRefresh} {
		key, err := deriveSigningKey(cfg.Secret, tokenType)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to derive signing key")
		}
		keys[tokenType] = key
	}

	return &tokenCodec{
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		keys:       keys,
		now:        now,
	}, nil
}

// deriveSigningKey runs HKDF-SHA256 over the root secret with a per-type info string.
func deriveSigningKey(secret []byte, tokenType authDomain.TokenType) ([]byte, error) {
	info := []byte("quizly-session-" + string(tokenType) + "-v1")
	reader := hkdf.New(sha256.New, secret, nil, info)

	key := make([]byte, signingKeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// IssueAccessToken implements TokenCodec.
func (c *tokenCodec) IssueAccessToken(subject uuid.UUID) (*authDomain.IssuedToken, error) {
	return c.issue(subject, authDomain.TokenTypeAccess, c.accessTTL)
}

// IssueRefreshToken implements TokenCodec.
func (c *tokenCodec) IssueRefreshToken(subject uuid.UUID) (*authDomain.IssuedToken, error) {
	return c.issue(subject, authDomain.TokenTypeRefresh, c.refreshTTL)
}

func (c *tokenCodec) issue(
	subject uuid.UUID,
	tokenType authDomain.TokenType,
	ttl time.Duration,
) (*authDomain.IssuedToken, error) {
	jti, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate token id")
	}

	now := c.now()
	claims := jwtClaims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   subject.String(),
			ID:        jti.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.keys[tokenType])
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to sign token")
	}

	return &authDomain.IssuedToken{
		Raw: raw,
		Claims: authDomain.Claims{
			Subject:   subject,
			ID:        claims.ID,
			Type:      tokenType,
			IssuedAt:  claims.IssuedAt.Time,
			ExpiresAt: claims.ExpiresAt.Time,
		},
	}, nil
}

// Validate implements TokenCodec.
func (c *tokenCodec) Validate(raw string, expected authDomain.TokenType) (*authDomain.Claims, error) {
	key, ok := c.keys[expected]
	if !ok || raw == "" {
		return nil, authDomain.ErrInvalidToken
	}

	var claims jwtClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(c.issuer),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, apperrors.Wrap(authDomain.ErrInvalidToken, reason(err))
	}

	if claims.TokenType != expected {
		return nil, apperrors.Wrap(authDomain.ErrInvalidToken, "unexpected token type")
	}

	return toDomainClaims(&claims)
}

// DecodeClaims implements TokenCodec.
func (c *tokenCodec) DecodeClaims(raw string) (*authDomain.Claims, error) {
	var claims jwtClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return nil, apperrors.Wrap(authDomain.ErrInvalidToken, "malformed token")
	}
	return toDomainClaims(&claims)
}

func toDomainClaims(claims *jwtClaims) (*authDomain.Claims, error) {
	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperrors.Wrap(authDomain.ErrInvalidToken, "invalid subject")
	}
	if claims.ID == "" {
		return nil, apperrors.Wrap(authDomain.ErrInvalidToken, "missing token id")
	}

	result := &authDomain.Claims{
		Subject: subject,
		ID:      claims.ID,
		Type:    claims.TokenType,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}
	return result, nil
}

func reason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "token expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "signature invalid"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed token"
	default:
		return "token rejected"
	}
}
