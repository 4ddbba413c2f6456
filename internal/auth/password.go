package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// HashKey возвращает bcrypt-хеш ключа доступа для записи в конфигурацию.
func HashKey(key string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckKey сравнивает bcrypt-хеш с предъявленным ключом.
func CheckKey(hash string, key string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key))
	return err == nil
}
