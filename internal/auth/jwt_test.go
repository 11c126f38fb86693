package auth

import (
	"testing"
	"time"
)

func testManager() *Manager {
	return &Manager{
		Secret:     []byte("test-secret"),
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
		Issuer:     "enquiry-crm",
	}
}

func TestTokenRoundTrip(t *testing.T) {
	m := testManager()

	token, err := m.NewAccessToken("u1", "SALES", "Asha Verma")
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if claims.Subject != "u1" {
		t.Fatalf("expected subject u1, got %s", claims.Subject)
	}
	if claims.Role != "SALES" || claims.Name != "Asha Verma" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Issuer != "enquiry-crm" {
		t.Fatalf("expected issuer enquiry-crm, got %s", claims.Issuer)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	m := testManager()
	token, err := m.NewAccessToken("u1", "SALES", "")
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}

	other := testManager()
	other.Secret = []byte("different-secret")
	if _, err := other.Parse(token); err == nil {
		t.Fatalf("expected parse failure with wrong secret")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	m := testManager()
	m.AccessTTL = -time.Minute

	token, err := m.NewAccessToken("u1", "SALES", "")
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}
	if _, err := m.Parse(token); err == nil {
		t.Fatalf("expected parse failure for expired token")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if err := ComparePassword(hash, "s3cret-password"); err != nil {
		t.Fatalf("ComparePassword error: %v", err)
	}
	if err := ComparePassword(hash, "wrong"); err == nil {
		t.Fatalf("expected mismatch error")
	}
}
