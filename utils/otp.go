package utils

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
)

// GenerateNumericCode returns a zero-padded random numeric code of n digits.
func GenerateNumericCode(n int) (string, error) {
	if n <= 0 || n > 18 {
		return "", fmt.Errorf("invalid code length %d", n)
	}
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
	v, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", n, v.Int64()), nil
}

// HashCode is HMAC-SHA256(pepper, code), hex encoded. Raw codes are never stored.
func HashCode(pepper, code string) string {
	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(code))
	return hex.EncodeToString(mac.Sum(nil))
}

// CodeMatches compares a supplied code against a stored hash in constant time.
func CodeMatches(pepper, code, storedHash string) bool {
	if storedHash == "" {
		return false
	}
	return hmac.Equal([]byte(HashCode(pepper, code)), []byte(storedHash))
}
