package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when a user does not exist so that a failed
// login costs the same whether or not the username is known.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("audiovote-dummy-password"), bcrypt.DefaultCost)

// hashCost is a var so tests can lower it.
var hashCost = bcrypt.DefaultCost

func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword reports whether password matches hash. A mismatch is not an
// error; only a corrupt hash is.
func CheckPassword(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

// BurnPasswordCheck performs a comparison that always fails, to be called on
// the unknown-user path.
func BurnPasswordCheck(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
