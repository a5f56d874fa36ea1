package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"mt5gateway/internal/api"
	"mt5gateway/internal/api/middleware"
	"mt5gateway/internal/config"
	"mt5gateway/internal/service"
	"mt5gateway/internal/terminal"
	"mt5gateway/pkg/ratelimit"
	"mt5gateway/pkg/utils"
)

func main() {
	// .env опционален - в контейнере конфигурация приходит из окружения
	_ = godotenv.Load()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	logger, err := utils.InitLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	// Клиент терминала. Соединение с мостом ленивое - шлюз стартует
	// даже когда терминал ещё не поднят.
	bridge := terminal.NewBridgeClient(terminal.BridgeConfig{
		URL:            cfg.Bridge.URL,
		ConnectTimeout: cfg.Bridge.ConnectTimeout,
		CallTimeout:    cfg.Bridge.CallTimeout,
		PingInterval:   cfg.Bridge.PingInterval,
	}, logger)
	defer bridge.Close()

	logger.Info("terminal bridge configured", zap.String("url", cfg.Bridge.URL))

	// Инициализация сервисов
	tradingService := service.NewTradingService(bridge, logger)
	accountService := service.NewAccountService(bridge, logger)
	sessionService := service.NewSessionService(bridge, logger)

	// Авторизация API с ограничением перебора ключей
	auth := middleware.APIKeyAuth(middleware.AuthConfig{
		APIKey:      cfg.Security.APIKey,
		APIKeyHash:  cfg.Security.APIKeyHash,
		FailLimiter: ratelimit.NewRateLimiter(cfg.Security.AuthRatePerSec, float64(cfg.Security.AuthBurst)),
	}, logger)

	// Настройка HTTP роутера
	router := api.SetupRoutes(&api.Dependencies{
		Logger:         logger,
		TradingService: tradingService,
		AccountService: accountService,
		SessionService: sessionService,
		AuthMiddleware: auth,
		CORSOrigins:    cfg.Server.CORSOrigins,
	})

	// HTTP сервер
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Запуск сервера в отдельной горутине
	go func() {
		logger.Info("starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Сначала перестаём принимать запросы, затем закрываем мост
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	if err := bridge.Close(); err != nil {
		logger.Error("bridge close failed", zap.Error(err))
	}

	logger.Info("server stopped")
}
