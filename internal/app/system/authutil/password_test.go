package authutil

import (
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		pw   string
		want error
	}{
		{"care2024", nil},
		{"short1", ErrPasswordTooShort},
		{"abcdefgh", ErrPasswordNoDigit},
		{"12345678", ErrPasswordNoLetter},
		{strings.Repeat("a1", 40), ErrPasswordTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.pw, func(t *testing.T) {
			if got := ValidatePassword(tt.pw); got != tt.want {
				t.Errorf("ValidatePassword(%q) = %v, want %v", tt.pw, got, tt.want)
			}
		})
	}
}

func TestHashAndCheck(t *testing.T) {
	hash, err := HashPassword("care2024")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "care2024" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword("care2024", hash) {
		t.Error("expected matching password to check")
	}
	if CheckPassword("care2025", hash) {
		t.Error("expected wrong password to fail")
	}
	if CheckPassword("care2024", "") {
		t.Error("empty hash must never match")
	}
}

func TestPasswordRules(t *testing.T) {
	if len(PasswordRules()) != 3 {
		t.Errorf("expected 3 rules, got %d", len(PasswordRules()))
	}
}
