package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func signTestToken(t *testing.T, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestInspectToken(t *testing.T) {
	userID := uuid.New()
	teamID := uuid.New()
	signed := signTestToken(t, Claims{
		UserID: userID,
		TeamID: teamID,
		Email:  "m@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := InspectToken(signed)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if claims.UserID != userID || claims.TeamID != teamID {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Email != "m@example.com" {
		t.Errorf("email = %q", claims.Email)
	}
}

func TestInspectToken_Garbage(t *testing.T) {
	if _, err := InspectToken("not-a-jwt"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestClaims_Expired(t *testing.T) {
	now := time.Now()

	fresh := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
	}}
	if fresh.Expired(now) {
		t.Error("future expiry reported as expired")
	}

	stale := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
	}}
	if !stale.Expired(now) {
		t.Error("past expiry not reported")
	}

	// No expiry claim means the token does not lapse client-side.
	if (&Claims{}).Expired(now) {
		t.Error("missing expiry should not count as expired")
	}
}

func TestSessionStore_RoundTrip(t *testing.T) {
	store := NewSessionStore(filepath.Join(t.TempDir(), "nested", "session"))

	if token, err := store.Load(); err != nil || token != "" {
		t.Fatalf("empty store Load = (%q, %v), want (\"\", nil)", token, err)
	}

	if err := store.Save("tok-123"); err != nil {
		t.Fatalf("save: %v", err)
	}
	token, err := store.Load()
	if err != nil || token != "tok-123" {
		t.Fatalf("Load = (%q, %v)", token, err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if token, _ := store.Load(); token != "" {
		t.Errorf("token survived clear: %q", token)
	}

	// Clearing twice must not error.
	if err := store.Clear(); err != nil {
		t.Errorf("second clear: %v", err)
	}
}
