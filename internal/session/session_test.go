package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func makeToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func futureExp() int64 {
	return time.Now().Add(time.Hour).Unix()
}

func TestDeriveEmptyToken(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n"} {
		sess, result := Derive(raw)
		if sess.Authenticated {
			t.Errorf("Derive(%q).Authenticated = true, want false", raw)
		}
		if result != DecodeEmpty {
			t.Errorf("Derive(%q) result = %v, want DecodeEmpty", raw, result)
		}
	}
}

func TestDeriveMalformedToken(t *testing.T) {
	malformed := []string{
		"not-a-token",
		"a.b",
		"a.b.c",
		"!!!.###.$$$",
		"eyJhbGciOiJIUzI1NiJ9.truncated",
	}
	for _, raw := range malformed {
		sess, result := Derive(raw)
		if sess.Authenticated {
			t.Errorf("Derive(%q).Authenticated = true, want false", raw)
		}
		if result != DecodeMalformed {
			t.Errorf("Derive(%q) result = %v, want DecodeMalformed", raw, result)
		}
	}
}

func TestDeriveExpiredToken(t *testing.T) {
	raw := makeToken(t, jwt.MapClaims{
		"sub": "user@example.com",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	sess, result := Derive(raw)
	if sess.Authenticated {
		t.Error("expired token derived as authenticated")
	}
	if result != DecodeExpired {
		t.Errorf("result = %v, want DecodeExpired", result)
	}
}

func TestDeriveExpiryBoundary(t *testing.T) {
	now := time.Unix(1700000000, 0)
	raw := makeToken(t, jwt.MapClaims{
		"sub": "user@example.com",
		"exp": now.Unix(),
	})

	// exp exactly at the current time counts as expired
	sess, result := deriveAt(raw, now)
	if sess.Authenticated {
		t.Error("token at exact expiry derived as authenticated")
	}
	if result != DecodeExpired {
		t.Errorf("result = %v, want DecodeExpired", result)
	}
}

func TestDeriveMissingExpiry(t *testing.T) {
	raw := makeToken(t, jwt.MapClaims{"sub": "user@example.com"})

	sess, result := Derive(raw)
	if sess.Authenticated {
		t.Error("token without expiry derived as authenticated")
	}
	if result != DecodeMalformed {
		t.Errorf("result = %v, want DecodeMalformed", result)
	}
}

func TestDeriveValidToken(t *testing.T) {
	exp := futureExp()
	raw := makeToken(t, jwt.MapClaims{
		"sub": "user@example.com",
		"exp": exp,
	})

	sess, result := Derive(raw)
	if result != DecodeValid {
		t.Fatalf("result = %v, want DecodeValid", result)
	}
	if !sess.Authenticated {
		t.Error("Authenticated = false, want true")
	}
	if sess.UserID != "user@example.com" {
		t.Errorf("UserID = %q, want %q", sess.UserID, "user@example.com")
	}
	if sess.ExpiresAt.Unix() != exp {
		t.Errorf("ExpiresAt = %v, want unix %d", sess.ExpiresAt, exp)
	}
}

func TestDeriveIdentityClaimPriority(t *testing.T) {
	tests := []struct {
		name      string
		claims    jwt.MapClaims
		wantID    string
		wantLabel string
	}{
		{
			name:      "userId wins over everything",
			claims:    jwt.MapClaims{"userId": "42", "id": "9", "sub": "s", "username": "ana", "email": "a@b.c"},
			wantID:    "42",
			wantLabel: "ana",
		},
		{
			name:      "id wins over sub",
			claims:    jwt.MapClaims{"id": "9", "sub": "s", "email": "a@b.c"},
			wantID:    "9",
			wantLabel: "a@b.c",
		},
		{
			name:      "sub wins over username",
			claims:    jwt.MapClaims{"sub": "subject", "username": "ana"},
			wantID:    "subject",
			wantLabel: "ana",
		},
		{
			name:      "username then email",
			claims:    jwt.MapClaims{"username": "ana"},
			wantID:    "ana",
			wantLabel: "ana",
		},
		{
			name:      "email as last resort",
			claims:    jwt.MapClaims{"email": "a@b.c"},
			wantID:    "a@b.c",
			wantLabel: "a@b.c",
		},
		{
			name:      "numeric id stringified",
			claims:    jwt.MapClaims{"id": 1234, "username": "ana"},
			wantID:    "1234",
			wantLabel: "ana",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.claims["exp"] = futureExp()
			sess, result := Derive(makeToken(t, tt.claims))
			if result != DecodeValid {
				t.Fatalf("result = %v, want DecodeValid", result)
			}
			if sess.UserID != tt.wantID {
				t.Errorf("UserID = %q, want %q", sess.UserID, tt.wantID)
			}
			if sess.IdentityLabel != tt.wantLabel {
				t.Errorf("IdentityLabel = %q, want %q", sess.IdentityLabel, tt.wantLabel)
			}
		})
	}
}

type fakeStore struct {
	token   string
	evicted int
}

func (f *fakeStore) Token() string { return f.token }
func (f *fakeStore) Evict() error {
	f.evicted++
	f.token = ""
	return nil
}

func TestDeriveFromStoreEvictsExpired(t *testing.T) {
	store := &fakeStore{token: makeToken(t, jwt.MapClaims{
		"sub": "user@example.com",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})}

	sess := DeriveFromStore(store)
	if sess.Authenticated {
		t.Error("expired token derived as authenticated")
	}
	if store.evicted != 1 {
		t.Errorf("evictions = %d, want 1", store.evicted)
	}
}

func TestDeriveFromStoreEvictsMalformed(t *testing.T) {
	store := &fakeStore{token: "garbage"}

	sess := DeriveFromStore(store)
	if sess.Authenticated {
		t.Error("malformed token derived as authenticated")
	}
	if store.evicted != 1 {
		t.Errorf("evictions = %d, want 1", store.evicted)
	}
}

func TestDeriveFromStoreKeepsValidAndEmpty(t *testing.T) {
	valid := &fakeStore{token: makeToken(t, jwt.MapClaims{"sub": "u", "exp": futureExp()})}
	if sess := DeriveFromStore(valid); !sess.Authenticated {
		t.Error("valid token derived as unauthenticated")
	}
	if valid.evicted != 0 {
		t.Errorf("valid token evictions = %d, want 0", valid.evicted)
	}

	empty := &fakeStore{}
	if sess := DeriveFromStore(empty); sess.Authenticated {
		t.Error("empty store derived as authenticated")
	}
	if empty.evicted != 0 {
		t.Errorf("empty store evictions = %d, want 0", empty.evicted)
	}
}
