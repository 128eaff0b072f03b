package service

import "golang.org/x/crypto/bcrypt"

// BcryptHasher реализует PasswordHasher поверх bcrypt.
type BcryptHasher struct{}

// Hash возвращает bcrypt-хэш пароля.
func (BcryptHasher) Hash(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// Compare сверяет пароль с хэшем.
func (BcryptHasher) Compare(hash []byte, password string) error {
	return bcrypt.CompareHashAndPassword(hash, []byte(password))
}
