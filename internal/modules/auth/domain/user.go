package domain

import (
	"fmt"
	"strings"
)

const AuthorityUser = "USER"

type User struct {
	ID           int64  `db:"id" json:"id"`
	Email        string `db:"email" json:"email"`
	Name         string `db:"name" json:"name"`
	PasswordHash string `db:"password_hash" json:"-"`
	Authority    string `db:"authority" json:"authority"`
}

func RegisterUser(
	email string,
	name string,
	password string,
	passwordHasher *PasswordHasher,
) (User, error) {
	passwordHash, err := passwordHasher.HashPassword(password)
	if err != nil {
		return User{}, err
	}

	return User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Name:         name,
		PasswordHash: passwordHash,
		Authority:    AuthorityUser,
	}, nil
}

func (u User) Authenticate(password string, passwordHasher *PasswordHasher) error {
	if err := passwordHasher.Verify(u.PasswordHash, password); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	return nil
}

func (u User) Authorities() []string {
	if u.Authority == "" {
		return nil
	}

	return []string{u.Authority}
}
