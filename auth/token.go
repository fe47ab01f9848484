package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
)

var (
	ErrMissingToken     = errors.New("authorization header required")
	ErrInvalidToken     = errors.New("invalid token format")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token not yet valid")
	ErrInvalidIssuer    = errors.New("invalid issuer")
	ErrMissingSubject   = errors.New("token has no subject")
)

// Verifier checks HS256 bearer tokens and extracts the user id from "sub".
type Verifier struct {
	secret    []byte
	issuer    string
	clockSkew time.Duration
	now       func() time.Time
}

func NewVerifier(secret, issuer string, clockSkew time.Duration) *Verifier {
	return &Verifier{
		secret:    []byte(secret),
		issuer:    issuer,
		clockSkew: clockSkew,
		now:       time.Now,
	}
}

// Enabled reports whether a signing secret is configured.
func (v *Verifier) Enabled() bool {
	return v != nil && len(v.secret) > 0
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("%w: expected Bearer scheme", ErrInvalidToken)
	}
	return strings.TrimSpace(token), nil
}

// Verify validates the token and returns its subject.
func (v *Verifier) Verify(token string) (string, error) {
	if !v.Enabled() {
		return "", errors.New("no verification key configured")
	}

	tok, err := jwt.ParseSigned(token, []jose.SignatureAlgorithm{jose.HS256})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var claims jwt.Claims
	if err := tok.Claims(v.secret, &claims); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	err = claims.ValidateWithLeeway(jwt.Expected{Issuer: v.issuer, Time: v.now()}, v.clockSkew)
	switch {
	case errors.Is(err, jwt.ErrExpired):
		return "", ErrTokenExpired
	case errors.Is(err, jwt.ErrNotValidYet), errors.Is(err, jwt.ErrIssuedInTheFuture):
		return "", ErrTokenNotYetValid
	case errors.Is(err, jwt.ErrInvalidIssuer):
		return "", fmt.Errorf("%w: expected '%s', got '%s'", ErrInvalidIssuer, v.issuer, claims.Issuer)
	case err != nil:
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return "", ErrMissingSubject
	}
	return claims.Subject, nil
}

// Issue signs a token for subject valid for ttl. Used by tooling and tests.
func (v *Verifier) Issue(subject string, ttl time.Duration) (string, error) {
	if !v.Enabled() {
		return "", errors.New("no signing key configured")
	}

	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: v.secret},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create signer: %w", err)
	}

	now := v.now()
	claims := jwt.Claims{
		Subject:   subject,
		Issuer:    v.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		Expiry:    jwt.NewNumericDate(now.Add(ttl)),
	}

	token, err := jwt.Signed(signer).Claims(claims).Serialize()
	if err != nil {
		return "", fmt.Errorf("failed to create JWT: %w", err)
	}
	return token, nil
}
