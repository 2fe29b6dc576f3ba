package id

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
)

// NewID32 returns exactly 32 hex characters (no separators/prefixes).
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

var tenPow = big.NewInt(10)

// NewNumericCode returns n decimal digits drawn from crypto/rand.
// The first digit is never zero so the code keeps its width when parsed as a number.
func NewNumericCode(n int) string {
	if n <= 0 {
		return ""
	}
	out := make([]byte, n)
	for i := range out {
		max := tenPow
		offset := int64(0)
		if i == 0 {
			max = big.NewInt(9)
			offset = 1
		}
		v, err := rand.Int(rand.Reader, max)
		if err != nil {
			v = big.NewInt(0)
		}
		out[i] = byte('0' + v.Int64() + offset)
	}
	return string(out)
}
