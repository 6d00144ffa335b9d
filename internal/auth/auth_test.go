package auth

import (
	"testing"
)

// TestIssueVerifyRoundTrip checks that an issued token verifies and carries
// the original user identity.
func TestIssueVerifyRoundTrip(t *testing.T) {
	tk := NewTokens("unit-test-secret")

	signed, err := tk.Issue(42, "alice@example.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := tk.Verify(signed)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("user_id = %d, want 42", claims.UserID)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", claims.Email, "alice@example.com")
	}
}

// TestVerifyWrongSecret ensures tokens signed with a different secret are rejected.
func TestVerifyWrongSecret(t *testing.T) {
	signed, err := NewTokens("secret-a").Issue(1, "a@b.c")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := NewTokens("secret-b").Verify(signed); err == nil {
		t.Error("expected verification failure with wrong secret")
	}
}

// TestVerifyGarbage ensures malformed token strings are rejected.
func TestVerifyGarbage(t *testing.T) {
	tk := NewTokens("s")
	for _, bad := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := tk.Verify(bad); err == nil {
			t.Errorf("Verify(%q) succeeded, want error", bad)
		}
	}
}

// TestPasswordHashing checks hash/compare round trip and mismatch detection.
func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "hunter22" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword(hash, "hunter22") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "hunter23") {
		t.Error("wrong password accepted")
	}
}
