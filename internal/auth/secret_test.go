package auth

import (
	"strings"
	"testing"
)

func TestGenerateSessionSecret_DecodesBack(t *testing.T) {
	secret, err := GenerateSessionSecret()
	if err != nil {
		t.Fatalf("failed to generate secret: %v", err)
	}

	key, err := DecodeSessionSecret(secret)
	if err != nil {
		t.Fatalf("generated secret must decode: %v", err)
	}
	if len(key) != SessionSecretLength {
		t.Errorf("expected %d key bytes, got %d", SessionSecretLength, len(key))
	}
}

func TestGenerateSessionSecret_Unique(t *testing.T) {
	first, err := GenerateSessionSecret()
	if err != nil {
		t.Fatalf("failed to generate secret: %v", err)
	}
	second, err := GenerateSessionSecret()
	if err != nil {
		t.Fatalf("failed to generate secret: %v", err)
	}
	if first == second {
		t.Error("expected distinct secrets across calls")
	}
}

func TestDecodeSessionSecret_RejectsNonHex(t *testing.T) {
	if _, err := DecodeSessionSecret("not-a-hex-string"); err == nil {
		t.Fatal("expected error for non-hex secret")
	} else if !strings.Contains(err.Error(), "not valid hex") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDecodeSessionSecret_RejectsShortKey(t *testing.T) {
	if _, err := DecodeSessionSecret("deadbeef"); err == nil {
		t.Fatal("expected error for short secret")
	} else if !strings.Contains(err.Error(), "too short") {
		t.Errorf("unexpected error: %v", err)
	}
}
