package services

import (
	"strings"
	"testing"
)

func TestSuggestPassword(t *testing.T) {
	for i := 0; i < 20; i++ {
		pw, err := SuggestPassword()
		if err != nil {
			t.Fatalf("SuggestPassword: %v", err)
		}
		if len(pw) != suggestedLen {
			t.Fatalf("len = %d, want %d", len(pw), suggestedLen)
		}
		if !strings.ContainsAny(pw, upperLetters) {
			t.Errorf("%q has no uppercase letter", pw)
		}
		if !strings.ContainsAny(pw, lowerLetters) {
			t.Errorf("%q has no lowercase letter", pw)
		}
		if !strings.ContainsAny(pw, digits) {
			t.Errorf("%q has no digit", pw)
		}
		if !strings.ContainsAny(pw, symbols) {
			t.Errorf("%q has no symbol", pw)
		}
		if err := ValidatePassword(pw); err != nil {
			t.Errorf("suggested password %q fails validation: %v", pw, err)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("abc12"); err == nil {
		t.Error("5-character password should be rejected")
	}
	if err := ValidatePassword("abc123"); err != nil {
		t.Errorf("6-character password rejected: %v", err)
	}
}
