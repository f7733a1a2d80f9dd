package utils

import (
	"regexp"
	"testing"
)

func TestGenerateNumericCode(t *testing.T) {
	digits := regexp.MustCompile(`^\d+$`)
	for _, n := range []int{4, 6, 8} {
		code, err := GenerateNumericCode(n)
		if err != nil {
			t.Fatalf("GenerateNumericCode(%d): %v", n, err)
		}
		if len(code) != n || !digits.MatchString(code) {
			t.Fatalf("GenerateNumericCode(%d)=%q", n, code)
		}
	}
	if _, err := GenerateNumericCode(0); err == nil {
		t.Fatalf("expected an error for zero length")
	}
}

func TestCodeMatches(t *testing.T) {
	hash := HashCode("pepper", "123456")
	if !CodeMatches("pepper", "123456", hash) {
		t.Fatalf("expected match")
	}
	if CodeMatches("pepper", "123457", hash) {
		t.Fatalf("wrong code matched")
	}
	if CodeMatches("other", "123456", hash) {
		t.Fatalf("wrong pepper matched")
	}
	if CodeMatches("pepper", "", "") {
		t.Fatalf("empty hash must never match")
	}
}

func TestGenerateOrderID(t *testing.T) {
	id := GenerateOrderID()
	if len(id) != 8 {
		t.Fatalf("order id %q should have 8 characters", id)
	}
	for _, r := range id {
		if !regexp.MustCompile(`[A-Z2-9]`).MatchString(string(r)) {
			t.Fatalf("unexpected character %q in %q", r, id)
		}
	}
}
