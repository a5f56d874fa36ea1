package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"mt5gateway/internal/api/handlers"
	"mt5gateway/internal/api/middleware"
	"mt5gateway/internal/service"
)

// Dependencies содержит все зависимости для API handlers
type Dependencies struct {
	Logger *zap.Logger

	TradingService service.TradingServiceInterface
	AccountService service.AccountServiceInterface
	SessionService service.SessionServiceInterface

	// AuthMiddleware защищает /api/v1; nil отключает авторизацию
	// (только для тестов и локальной разработки)
	AuthMiddleware func(http.Handler) http.Handler

	// CORSOrigins - список разрешённых origins, пустой = запрещены все
	CORSOrigins []string
}

// SetupRoutes настраивает все HTTP маршруты шлюза.
//
// Назначение:
// Центральное место для определения всех API endpoints.
// Регистрирует handlers для каждого маршрута.
// Применяет middleware к группам маршрутов.
//
// Структура маршрутов:
//
// /health  - состояние шлюза (без авторизации)
// /metrics - Prometheus метрики (без авторизации)
//
// /api/v1/ (API key)
//
//	├── POST /initialize       - инициализация терминала
//	├── POST /login            - логин на торговый счёт
//	├── POST /shutdown         - завершение сессии
//	├── GET  /account          - снимок счёта
//	├── POST /account/extended - счёт с агрегатами по позициям
//	├── GET  /positions        - открытые позиции
//	├── GET  /orders           - отложенные ордера
//	├── GET  /history          - сделки за 30 дней
//	├── GET  /symbols          - видимые инструменты
//	├── POST /trade/open       - открыть позицию
//	├── POST /trade/close      - закрыть позицию
//	├── POST /trade/modify     - изменить SL/TP
//	└── POST /ea/status        - статус советника
//
// Middleware применяется в следующем порядке:
// 1. Recovery (для всех маршрутов)
// 2. Logging (для всех маршрутов)
// 3. CORS (для всех маршрутов)
// 4. Auth (только для /api/v1)
func SetupRoutes(deps *Dependencies) *mux.Router {
	log := zap.NewNop()
	if deps != nil && deps.Logger != nil {
		log = deps.Logger
	}

	router := mux.NewRouter()

	// Глобальные middleware (применяются ко всем маршрутам)
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logging(log))
	if deps != nil {
		router.Use(middleware.CORS(deps.CORSOrigins))
	}

	// Создание handlers с внедрением зависимостей
	var sessionHandler *handlers.SessionHandler
	if deps != nil && deps.SessionService != nil {
		sessionHandler = handlers.NewSessionHandler(deps.SessionService, log)
	}

	var accountHandler *handlers.AccountHandler
	if deps != nil && deps.AccountService != nil {
		accountHandler = handlers.NewAccountHandler(deps.AccountService, log)
	}

	var marketHandler *handlers.MarketHandler
	if deps != nil && deps.AccountService != nil {
		marketHandler = handlers.NewMarketHandler(deps.AccountService, log)
	}

	var tradeHandler *handlers.TradeHandler
	if deps != nil && deps.TradingService != nil {
		tradeHandler = handlers.NewTradeHandler(deps.TradingService, log)
	}

	// Служебные маршруты без авторизации
	if sessionHandler != nil {
		router.HandleFunc("/health", sessionHandler.Health).Methods("GET")
	}
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Защищаем весь API ключом
	if deps != nil && deps.AuthMiddleware != nil {
		api.Use(deps.AuthMiddleware)
	}

	// Session routes
	if sessionHandler != nil {
		api.HandleFunc("/initialize", sessionHandler.Initialize).Methods("POST")
		api.HandleFunc("/login", sessionHandler.Login).Methods("POST")
		api.HandleFunc("/shutdown", sessionHandler.Shutdown).Methods("POST")
	}

	// Account routes
	if accountHandler != nil {
		api.HandleFunc("/account", accountHandler.GetAccount).Methods("GET")
		api.HandleFunc("/account/extended", accountHandler.GetAccountExtended).Methods("POST")
		api.HandleFunc("/ea/status", accountHandler.GetEAStatus).Methods("POST")
	}

	// Market routes
	if marketHandler != nil {
		api.HandleFunc("/positions", marketHandler.GetPositions).Methods("GET")
		api.HandleFunc("/orders", marketHandler.GetOrders).Methods("GET")
		api.HandleFunc("/history", marketHandler.GetHistory).Methods("GET")
		api.HandleFunc("/symbols", marketHandler.GetSymbols).Methods("GET")
	}

	// Trade routes
	if tradeHandler != nil {
		api.HandleFunc("/trade/open", tradeHandler.OpenTrade).Methods("POST")
		api.HandleFunc("/trade/close", tradeHandler.CloseTrade).Methods("POST")
		api.HandleFunc("/trade/modify", tradeHandler.ModifyTrade).Methods("POST")
	}

	return router
}
