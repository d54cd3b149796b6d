package security

import (
	"testing"
	"time"
)

func TestHashPassword(t *testing.T) {
	password := "testPassword123"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if hash == "" {
		t.Error("HashPassword() returned empty string")
	}

	if hash == password {
		t.Error("HashPassword() returned unhashed password")
	}

	// Test same password produces different hashes (due to salt)
	hash2, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if hash == hash2 {
		t.Error("HashPassword() should produce different hashes due to salt")
	}
}

func TestCheckPassword(t *testing.T) {
	password := "mySecurePassword"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{
			name:     "correct password",
			password: password,
			hash:     hash,
			want:     true,
		},
		{
			name:     "incorrect password",
			password: "wrongPassword",
			hash:     hash,
			want:     false,
		},
		{
			name:     "empty password",
			password: "",
			hash:     hash,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckPassword(tt.password, tt.hash)
			if result != tt.want {
				t.Errorf("CheckPassword() = %v, want %v", result, tt.want)
			}
		})
	}
}

func TestTokenIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(42, "student")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty token")
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != 42 || claims.Role != "student" {
		t.Errorf("claims = %d/%s, want 42/student", claims.UserID, claims.Role)
	}
}

func TestTokenVerifyRejectsTampered(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	other := NewTokenIssuer("different-secret", time.Hour)

	token, err := issuer.Issue(1, "admin")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := other.Verify(token); err == nil {
		t.Error("Verify() should reject a token signed with a different secret")
	}
	if _, err := issuer.Verify(token + "x"); err == nil {
		t.Error("Verify() should reject a corrupted token")
	}
}

func TestTokenExpiry(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue(1, "student")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := issuer.Verify(token); err == nil {
		t.Error("Verify() should reject an expired token")
	}
}

func TestTokenIssuerDisabled(t *testing.T) {
	issuer := NewTokenIssuer("", time.Hour)

	if issuer.Enabled() {
		t.Error("Enabled() should be false with an empty secret")
	}
	if _, err := issuer.Issue(1, "student"); err != ErrTokensDisabled {
		t.Errorf("Issue() error = %v, want ErrTokensDisabled", err)
	}
}

func TestCSRFTokens(t *testing.T) {
	gen := NewCSRFGenerator("csrf-secret")

	token, err := gen.GenerateToken("session-1")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if !gen.ValidateToken("session-1", token) {
		t.Error("ValidateToken() should accept the generated token")
	}
	if gen.ValidateToken("session-2", token) {
		t.Error("ValidateToken() should reject a token for a different session")
	}
	if gen.ValidateToken("session-1", "") {
		t.Error("ValidateToken() should reject an empty token")
	}
}
