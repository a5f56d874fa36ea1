// Package apikey содержит хеширование и проверку API ключей шлюза.
package apikey

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost - стоимость хеширования ключей.
// Ключ проверяется на каждом запросе, поэтому стоимость ниже,
// чем принято для пользовательских паролей.
const bcryptCost = 10

// Hash возвращает bcrypt-хеш API ключа.
//
// Используется утилитарно: хеш кладётся в API_KEY_HASH, чтобы не
// хранить ключ в окружении открытым текстом.
func Hash(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("api key must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash api key: %w", err)
	}
	return string(hash), nil
}

// VerifyHash проверяет ключ против bcrypt-хеша
func VerifyHash(hash, key string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil
}

// VerifyPlain сравнивает ключ с эталоном за константное время,
// чтобы исключить timing attack на посимвольном сравнении.
func VerifyPlain(expected, got string) bool {
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(got)) == 1
}
