package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"mt5gateway/internal/service"
)

// AccountHandler обрабатывает HTTP запросы состояния торгового счёта.
//
// Endpoints:
// - GET  /api/v1/account          - снимок счёта
// - POST /api/v1/account/extended - счёт с агрегатами по позициям
// - POST /api/v1/ea/status        - производный статус советника (EA)
//
// Назначение:
// Отдаёт живое состояние счёта: баланс, эквити, маржу, агрегаты по
// открытым позициям и эвристику активности советника. Данные всегда
// запрашиваются у терминала на момент вызова, локального кеша нет.
type AccountHandler struct {
	accountService service.AccountServiceInterface
	log            *zap.Logger
}

// NewAccountHandler создает новый AccountHandler с внедрением зависимостей.
func NewAccountHandler(accountService service.AccountServiceInterface, log *zap.Logger) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		log:            log,
	}
}

// GetAccount возвращает снимок состояния счёта.
//
// GET /api/v1/account
//
// Response 200 OK:
//
//	{
//	  "success": true,
//	  "account": {
//	    "login": 12345678,
//	    "balance": 10000.0,
//	    "equity": 10012.5,
//	    "margin": 110.0,
//	    "margin_free": 9902.5,
//	    "trade_allowed": true,
//	    "trade_expert": true,
//	    ...
//	  }
//	}
//
// Response 401 Unauthorized:
//
//	{"success": false, "error": "...", "kind": "authentication_failed"}
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountService.Account(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"account": account,
	})
}

// GetAccountExtended возвращает счёт вместе с агрегатами по открытым позициям.
//
// POST /api/v1/account/extended
//
// Response 200 OK:
//
//	{
//	  "success": true,
//	  "login": 12345678,
//	  "balance": 10000.0,
//	  "open_positions_count": 2,
//	  "total_lot_size": 0.3,
//	  "positions_profit": 12.5,
//	  "positions": [...]
//	}
func (h *AccountHandler) GetAccountExtended(w http.ResponseWriter, r *http.Request) {
	extended, err := h.accountService.AccountExtended(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    extended,
	})
}

// eaStatusRequest - тело запроса статуса советника
type eaStatusRequest struct {
	Magic int64 `json:"magic,omitempty"` // magic советника, 0 = значение по умолчанию
}

// GetEAStatus возвращает производный статус активности советника.
//
// POST /api/v1/ea/status
//
// Request body (опционально):
//
//	{"magic": 123456}
//
// Response 200 OK:
//
//	{
//	  "success": true,
//	  "ea_active": true,
//	  "trade_expert_allowed": true,
//	  "ea_positions_count": 1,
//	  "ea_total_volume": 0.1,
//	  "ea_total_profit": 5.0,
//	  "ea_recent_trades": 2,
//	  "magic_number": 123456,
//	  "ea_positions": [...]
//	}
func (h *AccountHandler) GetEAStatus(w http.ResponseWriter, r *http.Request) {
	var req eaStatusRequest
	if !decodeBody(w, r, &req, true) {
		return
	}

	status, err := h.accountService.EAStatus(r.Context(), req.Magic)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":              true,
		"ea_active":            status.Active,
		"trade_expert_allowed": status.TradeExpertAllowed,
		"ea_positions_count":   status.PositionsCount,
		"ea_total_volume":      status.TotalVolume,
		"ea_total_profit":      status.TotalProfit,
		"ea_recent_trades":     status.RecentTrades,
		"magic_number":         status.MagicNumber,
		"ea_positions":         status.Positions,
	})
}
