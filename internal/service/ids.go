package service

import (
	"crypto/rand"
	"fmt"
)

const (
	orderIDPrefix       = "PRK"
	transactionIDPrefix = "TXN"
	idSuffixLength      = 5
	base36              = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// IDGenerator returns prefix followed by a random suffix.
type IDGenerator func(prefix string) (string, error)

// RandomID appends five random uppercase base-36 characters to prefix.
func RandomID(prefix string) (string, error) {
	suffix := make([]byte, 0, idSuffixLength)
	buf := make([]byte, 8)
	for len(suffix) < idSuffixLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buf {
			// 252 is the largest multiple of 36 below 256
			if b >= 252 || len(suffix) == idSuffixLength {
				continue
			}
			suffix = append(suffix, base36[b%36])
		}
	}
	return prefix + string(suffix), nil
}
