package utils

import "golang.org/x/crypto/bcrypt"

// BcryptHasher implements the controllers' PasswordHasher contract with
// bcrypt at the default cost.
type BcryptHasher struct{}

// Hash returns the bcrypt hash of the password.
func (BcryptHasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify compares the bcrypt hash with its possible plaintext equivalent.
func (BcryptHasher) Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
