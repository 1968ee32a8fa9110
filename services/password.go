package services

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLen = 12
	symbols        = "!@#$%&*"
	upperLetters   = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerLetters   = "abcdefghijkmnopqrstuvwxyz"
	digits         = "23456789"
)

// GenerateSecurePassword returns a password of at least minPasswordLen
// characters with one upper, one lower, one digit and one symbol, drawn from
// crypto/rand. Look-alike characters are excluded. Do not log the result.
func GenerateSecurePassword(n int) (string, error) {
	if n < minPasswordLen {
		n = minPasswordLen
	}
	result := make([]byte, 0, n)
	for _, set := range []string{upperLetters, lowerLetters, digits, symbols} {
		c, err := randomChar(set)
		if err != nil {
			return "", err
		}
		result = append(result, c)
	}
	all := upperLetters + lowerLetters + digits + symbols
	for len(result) < n {
		c, err := randomChar(all)
		if err != nil {
			return "", err
		}
		result = append(result, c)
	}
	// Fisher-Yates so the required classes are not always first.
	for i := len(result) - 1; i >= 1; i-- {
		j, err := randomIndex(i + 1)
		if err != nil {
			return "", fmt.Errorf("shuffle: %w", err)
		}
		result[i], result[j] = result[j], result[i]
	}
	return string(result), nil
}

func randomChar(set string) (byte, error) {
	i, err := randomIndex(len(set))
	if err != nil {
		return 0, err
	}
	return set[i], nil
}

func randomIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// HashPassword returns the bcrypt hash to put in ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}
