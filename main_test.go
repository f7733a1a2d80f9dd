package main

import (
	"bytes"
	"strings"
	"testing"

	"pawcare-backend/utils"
)

func TestHashPassword(t *testing.T) {
	var out bytes.Buffer
	if err := hashPassword(strings.NewReader("groom-me-gently\n"), &out); err != nil {
		t.Fatalf("hashPassword: %v", err)
	}
	hash := strings.TrimSpace(out.String())
	if !utils.CheckPasswordHash("groom-me-gently", hash) {
		t.Fatalf("hash %q does not match the password", hash)
	}
	if utils.CheckPasswordHash("groom-me-gently\n", hash) {
		t.Fatal("trailing newline should not be part of the password")
	}

	if err := hashPassword(strings.NewReader("\n"), &out); err == nil {
		t.Fatal("expected an error for an empty password")
	}
}
