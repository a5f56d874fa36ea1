package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config содержит всю конфигурацию шлюза
type Config struct {
	Server   ServerConfig
	Bridge   BridgeConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

// BridgeConfig - настройки подключения к side-car терминала
type BridgeConfig struct {
	URL            string
	ConnectTimeout time.Duration
	CallTimeout    time.Duration
	PingInterval   time.Duration
}

// SecurityConfig - настройки авторизации API.
// Задаётся либо bcrypt-хеш ключа (предпочтительно), либо сам ключ.
type SecurityConfig struct {
	APIKey         string
	APIKeyHash     string
	AuthRatePerSec float64 // пополнение бюджета неудачных попыток
	AuthBurst      int     // максимум неудачных попыток подряд
}

// LoggingConfig - настройки логирования
type LoggingConfig struct {
	Level  string
	Format string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CORSOrigins:     getEnvAsSlice("CORS_ORIGINS", nil),
		},
		Bridge: BridgeConfig{
			URL:            getEnv("BRIDGE_URL", "ws://127.0.0.1:9090/bridge"),
			ConnectTimeout: getEnvAsDuration("BRIDGE_CONNECT_TIMEOUT", 5*time.Second),
			CallTimeout:    getEnvAsDuration("BRIDGE_CALL_TIMEOUT", 30*time.Second),
			PingInterval:   getEnvAsDuration("BRIDGE_PING_INTERVAL", 15*time.Second),
		},
		Security: SecurityConfig{
			APIKey:         getEnv("API_KEY", ""),
			APIKeyHash:     getEnv("API_KEY_HASH", ""),
			AuthRatePerSec: getEnvAsFloat("AUTH_RATE_PER_SEC", 1),
			AuthBurst:      getEnvAsInt("AUTH_BURST", 5),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate проверяет критичные параметры
func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	// хотя бы один способ авторизации обязателен
	if c.Security.APIKey == "" && c.Security.APIKeyHash == "" {
		return fmt.Errorf("API_KEY or API_KEY_HASH is required")
	}

	if c.Security.AuthBurst < 1 {
		return fmt.Errorf("AUTH_BURST must be at least 1, got %d", c.Security.AuthBurst)
	}

	if c.Bridge.URL == "" {
		return fmt.Errorf("BRIDGE_URL is required")
	}
	if !strings.HasPrefix(c.Bridge.URL, "ws://") && !strings.HasPrefix(c.Bridge.URL, "wss://") {
		return fmt.Errorf("BRIDGE_URL must be a ws:// or wss:// URL, got %q", c.Bridge.URL)
	}

	if c.Bridge.CallTimeout <= 0 {
		return fmt.Errorf("BRIDGE_CALL_TIMEOUT must be positive, got %v", c.Bridge.CallTimeout)
	}
	if c.Bridge.ConnectTimeout <= 0 {
		return fmt.Errorf("BRIDGE_CONNECT_TIMEOUT must be positive, got %v", c.Bridge.ConnectTimeout)
	}

	return nil
}

// Addr возвращает адрес HTTP сервера для net.Listen
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Вспомогательные функции для чтения переменных окружения

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
