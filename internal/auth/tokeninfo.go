package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/akarihousing/news-backend/internal/pkg/circuitbreaker"
	"github.com/akarihousing/news-backend/internal/pkg/logging"
	"github.com/akarihousing/news-backend/internal/pkg/metrics"
)

// DefaultTokenInfoURL is Google's ID token introspection endpoint.
const DefaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// DefaultTokenInfoTimeout bounds a single introspection call.
const DefaultTokenInfoTimeout = 5 * time.Second

// maxTokenInfoBody caps how much of the introspection response is read.
const maxTokenInfoBody = 64 << 10

var (
	// ErrInvalidToken is returned for every verification failure.
	ErrInvalidToken = errors.New("invalid identity token")

	// errRejected marks responses where the introspection service worked but refused the token.
	errRejected = errors.New("token rejected by introspection endpoint")

	errAudienceMismatch = errors.New("token audience does not match")
)

// Claims is the claim set returned by the introspection endpoint.
type Claims = jwt.MapClaims

// Verifier checks an opaque identity token for an expected audience.
type Verifier interface {
	Verify(ctx context.Context, token, audience string) (Claims, error)
}

// TokenInfoVerifier verifies tokens against a tokeninfo-style introspection endpoint.
// Every call goes to the network; nothing is cached.
type TokenInfoVerifier struct {
	endpoint string
	client   *http.Client
	breaker  *circuitbreaker.CircuitBreaker
	now      func() time.Time
}

// NewTokenInfoVerifier creates a verifier for endpoint with the given timeout.
func NewTokenInfoVerifier(endpoint string, timeout time.Duration) *TokenInfoVerifier {
	if endpoint == "" {
		endpoint = DefaultTokenInfoURL
	}
	if timeout <= 0 {
		timeout = DefaultTokenInfoTimeout
	}

	cfg := circuitbreaker.TokenInfoConfig()
	cfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, errRejected)
	}

	return &TokenInfoVerifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		breaker:  circuitbreaker.New(cfg),
		now:      time.Now,
	}
}

// Verify returns the token's claims if the endpoint accepts it, aud equals
// audience and any exp claim is not in the past. All failures collapse
// into ErrInvalidToken; the cause is only logged.
func (v *TokenInfoVerifier) Verify(ctx context.Context, token, audience string) (Claims, error) {
	if token == "" || audience == "" {
		return nil, ErrInvalidToken
	}

	logger := logging.FromContext(ctx)
	start := time.Now()

	out, err := v.breaker.Execute(func() (interface{}, error) {
		return v.introspect(ctx, token)
	})
	metrics.TokenVerificationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.TokenVerificationsTotal.WithLabelValues(failureLabel(err)).Inc()
		logger.Warn("identity token introspection failed", "error", err)
		return nil, ErrInvalidToken
	}
	claims := out.(Claims)

	if err := checkClaims(claims, audience, v.now()); err != nil {
		metrics.TokenVerificationsTotal.WithLabelValues("invalid_claims").Inc()
		logger.Warn("identity token claims rejected", "error", err)
		return nil, ErrInvalidToken
	}

	metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()
	return claims, nil
}

// Healthy reports whether the introspection endpoint is being called,
// i.e. the circuit breaker in front of it is not open.
func (v *TokenInfoVerifier) Healthy() bool {
	return !v.breaker.IsOpen()
}

func (v *TokenInfoVerifier) introspect(ctx context.Context, token string) (Claims, error) {
	u, err := url.Parse(v.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse tokeninfo url: %w", err)
	}
	q := u.Query()
	q.Set("id_token", token)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, fmt.Errorf("%w: status %d", errRejected, resp.StatusCode)
	default:
		return nil, fmt.Errorf("tokeninfo unexpected status: %d", resp.StatusCode)
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxTokenInfoBody))
	dec.UseNumber()

	var claims Claims
	if err := dec.Decode(&claims); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", errRejected, err)
	}
	if claims == nil {
		return nil, fmt.Errorf("%w: empty response", errRejected)
	}
	normalizeNumericDates(claims)
	return claims, nil
}

// checkClaims requires aud to equal audience and rejects an exp before now.
// Other registered claims such as nbf are not consulted.
func checkClaims(claims Claims, audience string, now time.Time) error {
	aud, ok := claims["aud"].(string)
	if !ok || aud != audience {
		return errAudienceMismatch
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return err
	}
	if exp != nil && exp.Time.Before(now) {
		return jwt.ErrTokenExpired
	}
	return nil
}

// normalizeNumericDates turns numeric strings in exp/iat/nbf into json.Number.
// Google's tokeninfo reports them as strings.
func normalizeNumericDates(claims Claims) {
	for _, key := range []string{"exp", "iat", "nbf"} {
		s, ok := claims[key].(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			claims[key] = json.Number(s)
		}
	}
}

func failureLabel(err error) string {
	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		return "circuit_open"
	case errors.Is(err, errRejected):
		return "rejected"
	default:
		return "transport_error"
	}
}
