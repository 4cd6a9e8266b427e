package utils

import (
	"crypto/rand"
	"time"
)

const tokenCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateRandomToken returns a random alphanumeric string, used for
// temporary judge passwords.
func GenerateRandomToken(length int) string {
	b := make([]byte, length)
	randomBytes := make([]byte, length)
	if _, err := rand.Read(randomBytes); err != nil {
		for i := range b {
			b[i] = tokenCharset[int(time.Now().UnixNano())%len(tokenCharset)]
		}
		return string(b)
	}
	for i, rb := range randomBytes {
		b[i] = tokenCharset[int(rb)%len(tokenCharset)]
	}
	return string(b)
}
