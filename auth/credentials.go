package auth

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type CredentialCheck interface {
	Check(submitted string) bool
}

// PasswordCheck compares submissions against a single configured password.
// The password is hashed once so that the plaintext is not kept in memory.
type PasswordCheck struct {
	hash []byte
}

func NewPasswordCheck(expected string) (*PasswordCheck, error) {
	if expected == "" {
		return nil, fmt.Errorf("empty admin password: %w", ErrConfiguration)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(expected), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing admin password: %s %w", err.Error(), ErrConfiguration)
	}
	return &PasswordCheck{hash: hash}, nil
}

func (c *PasswordCheck) Check(submitted string) bool {
	if submitted == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(c.hash, []byte(submitted)) == nil
}

type EmailCheck struct {
	expected string
}

func NewEmailCheck(expected string) (*EmailCheck, error) {
	if expected == "" {
		return nil, fmt.Errorf("empty authorized email: %w", ErrConfiguration)
	}
	return &EmailCheck{expected: expected}, nil
}

func (c *EmailCheck) Check(submitted string) bool {
	if submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(c.expected)) == 1
}
