package domain

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

var ErrInvalidPassword = errors.New("given password does not match")

type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a bcrypt hasher. Costs below bcrypt.MinCost
// fall back to bcrypt.DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}

	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// Verify checks givenPassword against a stored hash. The hash carries its
// own cost, so hashes created with an older cost still verify.
func (h *PasswordHasher) Verify(passwordHash, givenPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(givenPassword))
	switch {
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrInvalidPassword
	case err != nil:
		return fmt.Errorf("malformed password hash: %w", err)
	}

	return nil
}
