package utils

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logger.go - настройка структурированного логирования (uber-go/zap)
//
// Назначение:
// Единая точка инициализации logger для всего шлюза.
//
// Конфигурация:
// - level: debug, info, warn, error (LOG_LEVEL)
// - format: json для production, console для разработки (LOG_FORMAT)

// InitLogger создаёт и настраивает zap logger.
//
// Параметры:
//   - level: минимальный уровень логирования ("debug", "info", "warn", "error")
//   - format: формат вывода ("json" или "console")
//
// Возвращает ошибку при неизвестном уровне.
func InitLogger(level, format string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("unknown log level %q: %w", level, err)
	}

	var cfg zap.Config
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
