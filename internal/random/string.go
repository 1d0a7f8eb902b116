package random

import (
	"crypto/rand"
	"math/big"
)

var (
	// CharsetAlphanumeric contains characters a-zA-Z0-9
	CharsetAlphanumeric = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

	// CharsetTokens contains all alphanumeric characters plus '.-_~'
	CharsetTokens = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789.-_~")
)

// String generates a random string with a specific length, only using characters out of the given charset.
// Characters are drawn from crypto/rand; a failing entropy source panics.
func String(length int, charset []rune) string {
	buf := make([]rune, length)
	max := big.NewInt(int64(len(charset)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		buf[i] = charset[n.Int64()]
	}
	return string(buf)
}
