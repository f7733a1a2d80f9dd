package utils

import (
	"crypto/rand"
	"math/big"
)

const tokenAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateRandomString returns n characters from an unambiguous uppercase alphabet.
func GenerateRandomString(n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range out {
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("failed to read random bytes")
		}
		out[i] = tokenAlphabet[v.Int64()]
	}
	return string(out)
}

// GenerateOrderID returns the 8-character public booking reference.
func GenerateOrderID() string {
	return GenerateRandomString(8)
}
