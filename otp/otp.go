// Package otp issues and verifies the one-time codes that prove ownership
// of an email address.
package otp

import (
	"crypto/rand"
	"io"
	"math/big"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// TTL is how long an issued code stays valid.
const TTL = 10 * time.Minute

const (
	minCode = 100000
	maxCode = 999999
)

// Generate returns a code drawn uniformly from [100000, 999999]. A nil r
// uses crypto/rand.
func Generate(r io.Reader) (string, error) {
	if r == nil {
		r = rand.Reader
	}
	n, err := rand.Int(r, big.NewInt(maxCode-minCode+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+minCode, 10), nil
}

func Hash(code string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func Compare(hash, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
