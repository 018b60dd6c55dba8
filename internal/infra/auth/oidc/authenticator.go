package oidc

import (
	"context"
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cakeshop/internal/config"
	"cakeshop/internal/domain"
)

const (
	defaultHTTPTimeout = 5 * time.Second
	discoveryPath      = "/.well-known/openid-configuration"
)

// Authenticator verifies bearer tokens issued by a single trusted identity
// provider. The signature algorithm is pinned to RS256; the alg named in the
// token header is never trusted.
type Authenticator struct {
	issuer    string
	audience  string
	clockSkew time.Duration
	now       func() time.Time
	jwks      *jwksCache
}

type Option func(*Authenticator)

func WithHTTPClient(client *http.Client) Option {
	return func(a *Authenticator) {
		if client != nil {
			a.jwks.httpClient = client
		}
	}
}

// WithClock overrides the time source for claim validation and cache expiry.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) {
		if now != nil {
			a.now = now
			a.jwks.now = now
		}
	}
}

func NewAuthenticator(cfg config.Config, opts ...Option) (*Authenticator, error) {
	issuer := strings.TrimSpace(cfg.OIDCIssuerURL)
	if issuer == "" {
		return nil, errors.New("OIDC_ISSUER_URL is required")
	}
	jwksURL := strings.TrimSpace(cfg.OIDCJWKSURL)
	client := &http.Client{Timeout: defaultHTTPTimeout}
	if jwksURL == "" {
		discovered, err := discoverJWKSURL(context.Background(), client, issuer)
		if err != nil {
			return nil, err
		}
		jwksURL = discovered
	}
	auth := &Authenticator{
		issuer:    issuer,
		audience:  strings.TrimSpace(cfg.OIDCAudience),
		clockSkew: cfg.ClockSkew(),
		now:       time.Now,
		jwks:      newJWKSCache(jwksURL, client, cfg.JWKSCacheTTL()),
	}
	for _, opt := range opts {
		opt(auth)
	}
	return auth, nil
}

// Authenticate verifies a raw bearer token and returns the identity it
// carries. Failures are tagged: structural problems, key resolution,
// signature, and claim violations each map to their own error.
func (a *Authenticator) Authenticate(ctx context.Context, bearerToken string) (domain.Principal, error) {
	tokenString := strings.TrimSpace(bearerToken)
	if tokenString == "" {
		return domain.Principal{}, domain.ErrNoToken
	}
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return domain.Principal{}, domain.ErrTokenMalformed
	}

	headerBytes, err := decodeSegment(parts[0])
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %v", domain.ErrHeaderMalformed, err)
	}
	var header struct {
		Kid string `json:"kid"`
		Alg string `json:"alg"`
		Typ string `json:"typ"`
	}
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %v", domain.ErrHeaderMalformed, err)
	}

	claimsBytes, err := decodeSegment(parts[1])
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}
	var claims map[string]any
	if err := json.Unmarshal(claimsBytes, &claims); err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}
	signature, err := decodeSegment(parts[2])
	if err != nil {
		return domain.Principal{}, fmt.Errorf("%w: %v", domain.ErrTokenMalformed, err)
	}

	pubKey, err := a.jwks.getKey(ctx, header.Kid)
	if err != nil {
		return domain.Principal{}, err
	}
	if err := verifyRS256(pubKey, parts[0]+"."+parts[1], signature); err != nil {
		return domain.Principal{}, domain.ErrSignatureInvalid
	}
	if err := a.validateClaims(claims); err != nil {
		return domain.Principal{}, err
	}
	return principalFromClaims(claims), nil
}

// decodeSegment accepts both the standard and URL-safe base64 alphabets,
// with or without padding. Tokens in the wild are not always canonical.
func decodeSegment(segment string) ([]byte, error) {
	segment = strings.TrimRight(segment, "=")
	if strings.ContainsAny(segment, "+/") {
		return base64.RawStdEncoding.DecodeString(segment)
	}
	return base64.RawURLEncoding.DecodeString(segment)
}

func verifyRS256(pubKey *rsa.PublicKey, signingInput string, signature []byte) error {
	hash := sha256.Sum256([]byte(signingInput))
	return rsa.VerifyPKCS1v15(pubKey, crypto.SHA256, hash[:], signature)
}

func (a *Authenticator) validateClaims(claims map[string]any) error {
	now := a.now()
	if a.issuer != "" {
		if iss, _ := claims["iss"].(string); iss != a.issuer {
			return domain.ErrIssuerMismatch
		}
	}
	if a.audience != "" {
		if !audienceMatches(claims["aud"], a.audience) {
			return domain.ErrAudienceMismatch
		}
	}
	exp, ok := parseNumericDate(claims["exp"])
	if !ok {
		return fmt.Errorf("%w: exp claim required", domain.ErrClaimInvalid)
	}
	if now.After(exp.Add(a.clockSkew)) {
		return domain.ErrTokenExpired
	}
	if nbf, ok := parseNumericDate(claims["nbf"]); ok {
		if now.Add(a.clockSkew).Before(nbf) {
			return domain.ErrTokenNotYetValid
		}
	}
	return nil
}

func principalFromClaims(claims map[string]any) domain.Principal {
	principal := domain.Principal{RawClaims: claims}
	if subject, _ := claims["sub"].(string); subject != "" {
		principal.Subject = subject
	}
	if issuer, _ := claims["iss"].(string); issuer != "" {
		principal.Issuer = issuer
	}
	switch aud := claims["aud"].(type) {
	case string:
		principal.Audience = aud
	case []any:
		if len(aud) > 0 {
			if first, ok := aud[0].(string); ok {
				principal.Audience = first
			}
		}
	}
	if iat, ok := parseNumericDate(claims["iat"]); ok {
		principal.IssuedAt = iat
	}
	if exp, ok := parseNumericDate(claims["exp"]); ok {
		principal.ExpiresAt = exp
	}
	return principal
}

func discoverJWKSURL(ctx context.Context, client *http.Client, issuer string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(issuer, "/")+discoveryPath, nil)
	if err != nil {
		return "", err
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errors.New("oidc discovery failed")
	}
	var payload struct {
		JWKSURI string `json:"jwks_uri"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.JWKSURI == "" {
		return "", errors.New("oidc discovery missing jwks_uri")
	}
	return payload.JWKSURI, nil
}

func parseNumericDate(value any) (time.Time, bool) {
	switch v := value.(type) {
	case float64:
		return time.Unix(int64(v), 0), true
	case int64:
		return time.Unix(v, 0), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return time.Time{}, false
		}
		return time.Unix(n, 0), true
	default:
		return time.Time{}, false
	}
}

func audienceMatches(raw any, expected string) bool {
	switch v := raw.(type) {
	case string:
		return v == expected
	case []any:
		for _, entry := range v {
			if s, ok := entry.(string); ok && s == expected {
				return true
			}
		}
	}
	return false
}
