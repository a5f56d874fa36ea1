package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"mt5gateway/internal/models"
	"mt5gateway/internal/service"
)

// TradeHandler обрабатывает HTTP запросы торговых операций.
//
// Endpoints:
// - POST /api/v1/trade/open   - открыть рыночную позицию
// - POST /api/v1/trade/close  - закрыть позицию по тикету
// - POST /api/v1/trade/modify - изменить SL/TP позиции
//
// Назначение:
// Принимает торговые намерения, валидирует их на уровне сервиса и
// возвращает нормализованный результат исполнения. Частичных отказов
// нет: каждый запрос либо исполнен терминалом целиком, либо отклонён.
type TradeHandler struct {
	tradingService service.TradingServiceInterface
	log            *zap.Logger
}

// NewTradeHandler создает новый TradeHandler с внедрением зависимостей.
func NewTradeHandler(tradingService service.TradingServiceInterface, log *zap.Logger) *TradeHandler {
	return &TradeHandler{
		tradingService: tradingService,
		log:            log,
	}
}

// OpenTrade открывает рыночную позицию.
//
// POST /api/v1/trade/open
//
// Request body:
//
//	{
//	  "symbol": "EURUSD",
//	  "type": "buy",
//	  "volume": 0.1,
//	  "sl": 1.0950,
//	  "tp": 1.1150,
//	  "comment": "manual entry",
//	  "magic": 123456
//	}
//
// Обязателен только symbol. Пустой type трактуется как "buy",
// нулевой volume и magic заменяются значениями по умолчанию.
//
// Response 200 OK:
//
//	{
//	  "success": true,
//	  "message": "Trade opened successfully",
//	  "order": {"ticket": 1001, "deal": 2001, "volume": 0.1, "price": 1.1050, "symbol": "EURUSD", "type": "buy"}
//	}
//
// Response 400 Bad Request:
//
//	{"success": false, "error": "...", "kind": "order_rejected", "retcode": 10019}
func (h *TradeHandler) OpenTrade(w http.ResponseWriter, r *http.Request) {
	var intent models.TradeIntent
	if !decodeBody(w, r, &intent, false) {
		return
	}

	result, err := h.tradingService.OpenTrade(r.Context(), intent)
	if err != nil {
		respondError(w, err)
		return
	}

	h.log.Info("trade opened",
		zap.String("symbol", result.Symbol),
		zap.String("type", string(result.Type)),
		zap.Float64("volume", result.Volume),
		zap.Int64("ticket", result.Ticket))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Trade opened successfully",
		"order":   result,
	})
}

// closeRequest - тело запроса закрытия позиции
type closeRequest struct {
	Ticket int64 `json:"ticket"`
}

// CloseTrade закрывает открытую позицию встречной рыночной сделкой.
//
// POST /api/v1/trade/close
//
// Request body:
//
//	{"ticket": 555}
//
// Response 200 OK:
//
//	{
//	  "success": true,
//	  "message": "Position closed successfully",
//	  "result": {"ticket": 555, "deal": 2001, "volume": 0.1, "price": 1.1040, "profit": 5.0}
//	}
//
// Response 404 Not Found:
//
//	{"success": false, "error": "...", "kind": "position_not_found"}
func (h *TradeHandler) CloseTrade(w http.ResponseWriter, r *http.Request) {
	var req closeRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	result, err := h.tradingService.CloseTrade(r.Context(), req.Ticket)
	if err != nil {
		respondError(w, err)
		return
	}

	h.log.Info("position closed",
		zap.Int64("ticket", result.Ticket),
		zap.Float64("profit", result.Profit))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Position closed successfully",
		"result":  result,
	})
}

// modifyRequest - тело запроса изменения защитных уровней
type modifyRequest struct {
	Ticket int64    `json:"ticket"`
	SL     *float64 `json:"sl,omitempty"`
	TP     *float64 `json:"tp,omitempty"`
}

// ModifyTrade изменяет SL/TP открытой позиции.
//
// POST /api/v1/trade/modify
//
// Request body:
//
//	{"ticket": 555, "sl": 1.0950, "tp": 1.1150}
//
// Не переданный уровень сохраняет текущее значение позиции.
//
// Response 200 OK:
//
//	{
//	  "success": true,
//	  "message": "Position modified successfully",
//	  "sl": 1.0950,
//	  "tp": 1.1150
//	}
func (h *TradeHandler) ModifyTrade(w http.ResponseWriter, r *http.Request) {
	var req modifyRequest
	if !decodeBody(w, r, &req, false) {
		return
	}

	result, err := h.tradingService.ModifyTrade(r.Context(), req.Ticket, req.SL, req.TP)
	if err != nil {
		respondError(w, err)
		return
	}

	h.log.Info("position modified",
		zap.Int64("ticket", req.Ticket),
		zap.Float64("sl", result.SL),
		zap.Float64("tp", result.TP))

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Position modified successfully",
		"sl":      result.SL,
		"tp":      result.TP,
	})
}
