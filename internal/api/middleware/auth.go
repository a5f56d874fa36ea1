package middleware

import (
	"net/http"

	"go.uber.org/zap"

	"mt5gateway/pkg/apikey"
	"mt5gateway/pkg/ratelimit"
)

// AuthConfig - конфигурация проверки API ключа
type AuthConfig struct {
	// APIKey - эталонный ключ открытым текстом (API_KEY)
	APIKey string
	// APIKeyHash - bcrypt-хеш ключа (API_KEY_HASH).
	// Если задан, имеет приоритет над APIKey.
	APIKeyHash string
	// FailLimiter ограничивает частоту неуспешных попыток (перебор ключей)
	FailLimiter *ratelimit.RateLimiter
}

// APIKeyAuth - middleware аутентификации запросов по заголовку X-API-Key
//
// Назначение:
// Защищает торговые endpoints от неавторизованного доступа.
//
// Функции:
// - Сравнение ключа за константное время (против timing attack)
// - Опциональная проверка по bcrypt-хешу вместо открытого эталона
// - Rate limiting неуспешных попыток против перебора ключей
// - Возврат 401 при невалидном ключе, 429 при исчерпании лимита попыток
func APIKeyAuth(cfg AuthConfig, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")

			var valid bool
			if cfg.APIKeyHash != "" {
				valid = apikey.VerifyHash(cfg.APIKeyHash, key)
			} else {
				valid = apikey.VerifyPlain(cfg.APIKey, key)
			}

			if valid {
				next.ServeHTTP(w, r)
				return
			}

			if cfg.FailLimiter != nil && !cfg.FailLimiter.Allow() {
				log.Warn("api key attempts rate limited", zap.String("remote", r.RemoteAddr))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"success":false,"error":"Too many attempts"}`))
				return
			}

			log.Warn("invalid api key", zap.String("remote", r.RemoteAddr))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"error":"Invalid API key"}`))
		})
	}
}
