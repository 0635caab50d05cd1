package auth

import (
	"golang.org/x/crypto/bcrypt"

	"webstarter/pkg/apperrors"
)

const minPasswordLength = 8

// HashPassword создает bcrypt хеш пароля
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash проверяет пароль против хеша
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ValidatePassword проверяет сложность пароля
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.Validation("Password must be at least 8 characters long", "password", nil)
	}
	return nil
}
