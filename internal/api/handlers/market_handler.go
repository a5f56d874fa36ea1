package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"mt5gateway/internal/service"
)

// MarketHandler обрабатывает HTTP запросы состояния рынка и истории.
//
// Endpoints:
// - GET /api/v1/positions       - открытые позиции
// - GET /api/v1/orders          - отложенные ордера
// - GET /api/v1/history         - сделки за последние 30 дней
// - GET /api/v1/symbols?limit=N - видимые инструменты Market Watch
//
// Назначение:
// Отдаёт живые списки позиций, ордеров, истории сделок и инструментов.
// Пустой результат - валидный ответ с пустым массивом, не ошибка.
type MarketHandler struct {
	accountService service.AccountServiceInterface
	log            *zap.Logger
}

// NewMarketHandler создает новый MarketHandler с внедрением зависимостей.
func NewMarketHandler(accountService service.AccountServiceInterface, log *zap.Logger) *MarketHandler {
	return &MarketHandler{
		accountService: accountService,
		log:            log,
	}
}

// GetPositions возвращает все открытые позиции.
//
// GET /api/v1/positions
//
// Response 200 OK:
//
//	{
//	  "success": true,
//	  "count": 2,
//	  "positions": [
//	    {"ticket": 555, "symbol": "EURUSD", "type": "buy", "volume": 0.1, ...}
//	  ]
//	}
func (h *MarketHandler) GetPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.accountService.Positions(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"count":     len(positions),
		"positions": positions,
	})
}

// GetOrders возвращает все отложенные ордера.
//
// GET /api/v1/orders
//
// Response 200 OK:
//
//	{"success": true, "count": 1, "orders": [...]}
func (h *MarketHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.accountService.Orders(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(orders),
		"orders":  orders,
	})
}

// GetHistory возвращает сделки за последние 30 дней.
//
// GET /api/v1/history
//
// Response 200 OK:
//
//	{"success": true, "count": 5, "deals": [...]}
func (h *MarketHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	deals, err := h.accountService.History(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(deals),
		"deals":   deals,
	})
}

// GetSymbols возвращает видимые инструменты Market Watch.
//
// GET /api/v1/symbols?limit=N
//
// Query Parameters:
// - limit (optional): максимум инструментов (по умолчанию 100)
//
// Response 200 OK:
//
//	{"success": true, "count": 3, "symbols": [...]}
func (h *MarketHandler) GetSymbols(w http.ResponseWriter, r *http.Request) {
	limit := 0 // 0 = значение по умолчанию на уровне сервиса
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	symbols, err := h.accountService.Symbols(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(symbols),
		"symbols": symbols,
	})
}
