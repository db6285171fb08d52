package session

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DecodeResult classifies the outcome of inspecting a stored token.
type DecodeResult int

const (
	// DecodeEmpty means no token was present.
	DecodeEmpty DecodeResult = iota
	// DecodeMalformed means the token could not be decoded; the stored copy
	// should be discarded.
	DecodeMalformed
	// DecodeExpired means the token decoded but its expiry has passed; the
	// stored copy should be discarded.
	DecodeExpired
	// DecodeValid means the token decoded and is still live.
	DecodeValid
)

// Session is the authentication state derived from the stored bearer token.
// It is recomputed on demand and never persisted itself. Authenticated
// implies ExpiresAt was in the future at derivation time.
type Session struct {
	Authenticated bool
	UserID        string
	IdentityLabel string
	ExpiresAt     time.Time
}

// Identity claims are checked in priority order; first present wins.
var (
	identityClaimKeys = []string{"userId", "id", "sub", "username", "email"}
	labelClaimKeys    = []string{"username", "email", "sub"}
)

// Derive inspects a raw bearer token and computes the session state. The
// client holds no signing secret, so the token is decoded without signature
// verification; claims are advisory and the service remains the authority.
// Derive never fails: every decode problem maps to an unauthenticated
// session, with the DecodeResult telling the caller whether to evict the
// stored token.
func Derive(raw string) (Session, DecodeResult) {
	return deriveAt(raw, time.Now())
}

func deriveAt(raw string, now time.Time) (Session, DecodeResult) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Session{}, DecodeEmpty
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return Session{}, DecodeMalformed
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		// a token without a usable expiry cannot satisfy the liveness
		// invariant, so it is treated like a malformed one
		return Session{}, DecodeMalformed
	}
	if !exp.Time.After(now) {
		return Session{}, DecodeExpired
	}

	return Session{
		Authenticated: true,
		UserID:        firstClaim(claims, identityClaimKeys),
		IdentityLabel: firstClaim(claims, labelClaimKeys),
		ExpiresAt:     exp.Time,
	}, DecodeValid
}

// Store is the subset of the credential store the reader needs.
type Store interface {
	Token() string
	Evict() error
}

// DeriveFromStore reads the ambient credential store and evicts the token
// when derivation finds it malformed or expired.
func DeriveFromStore(s Store) Session {
	sess, result := Derive(s.Token())
	if result == DecodeMalformed || result == DecodeExpired {
		if err := s.Evict(); err != nil {
			slog.Warn("stored token eviction failed", "error", err)
		}
	}
	return sess
}

func firstClaim(claims jwt.MapClaims, keys []string) string {
	for _, key := range keys {
		if s := claimString(claims[key]); s != "" {
			return s
		}
	}
	return ""
}

func claimString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		// numeric ids arrive as JSON numbers
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}
