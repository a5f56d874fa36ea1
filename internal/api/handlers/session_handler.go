package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"mt5gateway/internal/service"
)

// SessionHandler обрабатывает HTTP запросы жизненного цикла сессии терминала.
//
// Endpoints:
// - GET  /health                - состояние шлюза (без авторизации)
// - POST /api/v1/initialize     - инициализация терминала
// - POST /api/v1/login          - логин на торговый счёт
// - POST /api/v1/shutdown       - завершение сессии терминала
//
// Назначение:
// Управляет подключением шлюза к терминалу. Все операции делегируются
// сервису сессии, который хранит процесс-локальные отметки о логинах.
type SessionHandler struct {
	sessionService service.SessionServiceInterface
	log            *zap.Logger
}

// NewSessionHandler создает новый SessionHandler с внедрением зависимостей.
func NewSessionHandler(sessionService service.SessionServiceInterface, log *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		log:            log,
	}
}

// Health возвращает состояние шлюза.
//
// GET /health
//
// Response 200 OK:
//
//	{
//	  "status": "running",
//	  "mt5_available": true,
//	  "active_connections": 1,
//	  "timestamp": "2026-08-27T12:00:00Z"
//	}
func (h *SessionHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.sessionService.Health())
}

// initializeRequest - тело запроса инициализации терминала
type initializeRequest struct {
	Path string `json:"path,omitempty"` // путь к терминалу, опционально
}

// Initialize подключает шлюз к терминалу.
//
// POST /api/v1/initialize
//
// Request body (опционально):
//
//	{"path": "C:\\Program Files\\MetaTrader 5\\terminal64.exe"}
//
// Response 200 OK:
//
//	{
//	  "success": true,
//	  "message": "MT5 initialized successfully",
//	  "terminal": {"connected": true, "trade_allowed": true, ...}
//	}
//
// Response 500 Internal Server Error:
//
//	{"success": false, "error": "...", "kind": "terminal_unavailable"}
func (h *SessionHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	var req initializeRequest
	if !decodeBody(w, r, &req, true) {
		return
	}

	info, err := h.sessionService.Initialize(r.Context(), req.Path)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "MT5 initialized successfully",
		"terminal": info,
	})
}

// loginRequest - тело запроса логина
type loginRequest struct {
	Account  int64  `json:"account"`
	Password string `json:"password"`
	Server   string `json:"server"`
}

// Login выполняет логин на торговый счёт.
//
// POST /api/v1/login
//
// Request body:
//
//	{"account": 12345678, "password": "...", "server": "Broker-Demo"}
//
// Response 200 OK:
//
//	{
//	  "success": true,
//	  "message": "Login successful",
//	  "connection_id": "12345678@Broker-Demo",
//	  "account": {"login": 12345678, "balance": 10000.0, ...}
//	}
//
// Response 401 Unauthorized:
//
//	{"success": false, "error": "...", "kind": "authentication_failed"}
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	marker, account, err := h.sessionService.Login(r.Context(), req.Account, req.Password, req.Server)
	if err != nil {
		respondError(w, err)
		return
	}

	h.log.Info("login successful",
		zap.Int64("account", marker.Account),
		zap.String("server", marker.Server))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"message":       "Login successful",
		"connection_id": marker.ConnectionID,
		"account":       account,
	})
}

// Shutdown завершает сессию терминала и очищает отметки о логинах.
//
// POST /api/v1/shutdown
//
// Response 200 OK:
//
//	{"success": true, "message": "MT5 connection closed"}
func (h *SessionHandler) Shutdown(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionService.Shutdown(r.Context()); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "MT5 connection closed",
	})
}
