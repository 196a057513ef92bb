package crypto

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("password123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if hash == "password123" {
		t.Fatal("expected hash to differ from plaintext")
	}

	if !h.Verify("password123", hash) {
		t.Error("expected matching password to verify")
	}

	if h.Verify("password124", hash) {
		t.Error("expected different password to fail verification")
	}
}

func TestBcryptHasher_SaltDiffersPerCall(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	first, err := h.Hash("same-password1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := h.Hash("same-password1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if first == second {
		t.Error("expected two hashes of the same password to differ")
	}
	if !h.Verify("same-password1", first) || !h.Verify("same-password1", second) {
		t.Error("expected both hashes to verify")
	}
}

func TestBcryptHasher_VerifyMalformedHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, hash := range []string{"", "not-a-hash", "$2a$04$short"} {
		if h.Verify("password123", hash) {
			t.Errorf("expected malformed hash %q to fail verification", hash)
		}
	}
}

func TestBcryptHasher_TooLongPassword(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	if _, err := h.Hash(strings.Repeat("a", 73)); err == nil {
		t.Fatal("expected error for password longer than 72 bytes")
	}
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	if got := NewBcryptHasher(1).cost; got != bcrypt.MinCost {
		t.Errorf("expected cost %d, got %d", bcrypt.MinCost, got)
	}
	if got := NewBcryptHasher(100).cost; got != bcrypt.MaxCost {
		t.Errorf("expected cost %d, got %d", bcrypt.MaxCost, got)
	}
}
