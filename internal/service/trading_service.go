package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"mt5gateway/internal/models"
	"mt5gateway/internal/terminal"
	"mt5gateway/pkg/utils"
)

// Параметры торговых запросов по умолчанию
const (
	DefaultVolume       = 0.01
	DefaultMagic        = 123456 // magic советника AU-Next
	DefaultOpenComment  = "AU-Next Trade"
	DefaultCloseComment = "AU-Next Close"

	// Фиксированные поля политики каждого рыночного запроса
	priceDeviationPoints = 20
)

// TradingService выполняет торговые операции: построение торгового запроса
// из намерения, отправку терминалу и интерпретацию ответа.
//
// Операции:
// - OpenTrade: открыть сделку по рынку
// - CloseTrade: закрыть позицию встречной сделкой
// - ModifyTrade: изменить защитные уровни позиции
//
// Конкурентность:
// Последовательность "чтение котировки -> построение запроса -> отправка"
// одной операции выполняется как критическая секция под мьютексом сервиса,
// иначе параллельный запрос мог бы устареть цену между чтением и отправкой.
type TradingService struct {
	term terminal.Client
	log  *zap.Logger

	// критическая секция котировка -> ордер
	mu sync.Mutex
}

// NewTradingService создаёт новый TradingService
func NewTradingService(term terminal.Client, log *zap.Logger) *TradingService {
	return &TradingService{
		term: term,
		log:  log,
	}
}

// OpenTrade открывает рыночную сделку по торговому намерению.
//
// Правило выбора цены: buy исполняется по ask, sell - по bid.
//
// Умолчания намерения: volume 0.01, comment "AU-Next Trade", magic 123456,
// направление buy. Фиксированная политика каждого запроса: немедленная
// рыночная сделка, допуск отклонения цены 20 пунктов, good-till-cancelled,
// исполнение immediate-or-cancel.
func (s *TradingService) OpenTrade(ctx context.Context, intent models.TradeIntent) (*models.OpenResult, error) {
	if err := normalizeIntent(&intent); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.term == nil {
		return nil, Errorf(KindTerminalUnavailable, "terminal client is not configured")
	}

	if err := s.ensureTradable(ctx, intent.Symbol); err != nil {
		return nil, err
	}

	tick, err := s.term.Tick(ctx, intent.Symbol)
	if err != nil {
		return nil, terminalErr("tick", err)
	}
	if tick == nil {
		return nil, Errorf(KindPriceUnavailable, "no live tick for symbol %s", intent.Symbol)
	}

	req := buildOpenRequest(intent, tick)

	result, err := s.sendOrder(ctx, "open", req)
	if err != nil {
		return nil, err
	}

	s.log.Info("trade opened",
		zap.String("symbol", intent.Symbol),
		zap.String("side", string(intent.Type)),
		zap.Float64("volume", result.Volume),
		zap.Float64("price", result.Price),
		zap.Int64("order", result.Order),
	)

	return &models.OpenResult{
		Ticket: result.Order,
		Deal:   result.Deal,
		Volume: result.Volume,
		Price:  result.Price,
		Symbol: intent.Symbol,
		Type:   intent.Type,
	}, nil
}

// CloseTrade закрывает открытую позицию встречной рыночной сделкой.
//
// Правило цены инвертируется относительно направления позиции:
// закрытие buy - это sell по bid, закрытие sell - это buy по ask.
func (s *TradingService) CloseTrade(ctx context.Context, ticket int64) (*models.CloseResult, error) {
	if ticket <= 0 {
		return nil, Errorf(KindValidation, "ticket is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.term == nil {
		return nil, Errorf(KindTerminalUnavailable, "terminal client is not configured")
	}

	pos, err := s.term.PositionByTicket(ctx, ticket)
	if err != nil {
		return nil, terminalErr("positions_get", err)
	}
	if pos == nil {
		return nil, Errorf(KindPositionNotFound, "position %d not found", ticket)
	}

	tick, err := s.term.Tick(ctx, pos.Symbol)
	if err != nil {
		return nil, terminalErr("tick", err)
	}
	if tick == nil {
		return nil, Errorf(KindPriceUnavailable, "no live tick for symbol %s", pos.Symbol)
	}

	req := buildCloseRequest(pos, tick)

	result, err := s.sendOrder(ctx, "close", req)
	if err != nil {
		return nil, err
	}

	s.log.Info("position closed",
		zap.Int64("position", ticket),
		zap.String("symbol", pos.Symbol),
		zap.Float64("volume", result.Volume),
		zap.Float64("price", result.Price),
	)

	return &models.CloseResult{
		Ticket: result.Order,
		Deal:   result.Deal,
		Volume: result.Volume,
		Price:  result.Price,
		Profit: pos.Profit,
	}, nil
}

// ModifyTrade изменяет защитные уровни (SL/TP) открытой позиции.
//
// Запрос несёт только целевые уровни и флаг "изменить защитные уровни":
// ни цены, ни объёма, ни направления. Не указанный уровень наследуется
// от текущего значения позиции.
func (s *TradingService) ModifyTrade(ctx context.Context, ticket int64, sl, tp *float64) (*models.ModifyResult, error) {
	if ticket <= 0 {
		return nil, Errorf(KindValidation, "ticket is required")
	}
	if sl == nil && tp == nil {
		return nil, Errorf(KindValidation, "sl or tp is required")
	}
	if sl != nil && !utils.ValidPrice(*sl) {
		return nil, Errorf(KindValidation, "sl must be a finite non-negative number")
	}
	if tp != nil && !utils.ValidPrice(*tp) {
		return nil, Errorf(KindValidation, "tp must be a finite non-negative number")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.term == nil {
		return nil, Errorf(KindTerminalUnavailable, "terminal client is not configured")
	}

	pos, err := s.term.PositionByTicket(ctx, ticket)
	if err != nil {
		return nil, terminalErr("positions_get", err)
	}
	if pos == nil {
		return nil, Errorf(KindPositionNotFound, "position %d not found", ticket)
	}

	req, resolvedSL, resolvedTP := buildModifyRequest(pos, sl, tp)

	if _, err := s.sendOrder(ctx, "modify", req); err != nil {
		return nil, err
	}

	s.log.Info("position modified",
		zap.Int64("position", ticket),
		zap.Float64("sl", resolvedSL),
		zap.Float64("tp", resolvedTP),
	)

	return &models.ModifyResult{SL: resolvedSL, TP: resolvedTP}, nil
}

// sendOrder отправляет торговый запрос и интерпретирует ответ терминала
func (s *TradingService) sendOrder(ctx context.Context, action string, req *terminal.TradeRequest) (*terminal.TradeResult, error) {
	start := time.Now()
	result, err := s.term.SendOrder(ctx, req)
	OrderSendLatency.WithLabelValues(action).Observe(float64(time.Since(start).Milliseconds()))

	if err != nil {
		OrdersSubmitted.WithLabelValues(action, "error").Inc()
		return nil, terminalErr("order_send", err)
	}

	if err := interpretResult(result); err != nil {
		OrdersSubmitted.WithLabelValues(action, "rejected").Inc()
		s.log.Warn("trade request rejected",
			zap.String("action", action),
			zap.Int("retcode", result.Retcode),
			zap.String("comment", result.Comment),
		)
		return nil, err
	}

	OrdersSubmitted.WithLabelValues(action, "done").Inc()
	return result, nil
}

// ensureTradable проверяет, что инструмент существует и виден.
// Невидимый инструмент сначала включается в Market Watch.
func (s *TradingService) ensureTradable(ctx context.Context, symbol string) error {
	info, err := s.term.SymbolInfo(ctx, symbol)
	if err != nil {
		return terminalErr("symbol_info", err)
	}
	if info == nil {
		return Errorf(KindSymbolNotFound, "symbol %s not found", symbol)
	}

	if !info.Visible {
		ok, err := s.term.SymbolSelect(ctx, symbol, true)
		if err != nil {
			return terminalErr("symbol_select", err)
		}
		if !ok {
			return Errorf(KindSymbolUnavailable, "failed to select symbol %s", symbol)
		}
	}
	return nil
}

// normalizeIntent подставляет умолчания и валидирует намерение
func normalizeIntent(intent *models.TradeIntent) error {
	if intent.Symbol == "" {
		return Errorf(KindValidation, "symbol is required")
	}
	if !utils.ValidSymbol(intent.Symbol) {
		return Errorf(KindValidation, "symbol %q is malformed", intent.Symbol)
	}

	if intent.Type == "" {
		intent.Type = models.SideBuy
	}
	if !intent.Type.Valid() {
		return Errorf(KindValidation, "type must be buy or sell, got %q", intent.Type)
	}

	if intent.Volume == 0 {
		intent.Volume = DefaultVolume
	}
	if !utils.ValidVolume(intent.Volume) {
		return Errorf(KindValidation, "volume must be a finite positive number")
	}

	if intent.SL != nil && !utils.ValidPrice(*intent.SL) {
		return Errorf(KindValidation, "sl must be a finite non-negative number")
	}
	if intent.TP != nil && !utils.ValidPrice(*intent.TP) {
		return Errorf(KindValidation, "tp must be a finite non-negative number")
	}
	// Явный ноль означает "уровень не задан" и не передаётся терминалу
	if intent.SL != nil && *intent.SL == 0 {
		intent.SL = nil
	}
	if intent.TP != nil && *intent.TP == 0 {
		intent.TP = nil
	}

	if intent.Comment == "" {
		intent.Comment = DefaultOpenComment
	}
	if intent.Magic == 0 {
		intent.Magic = DefaultMagic
	}
	return nil
}

// buildOpenRequest строит торговый запрос открытия из намерения и котировки.
// Для buy берётся ask, для sell - bid.
func buildOpenRequest(intent models.TradeIntent, tick *terminal.Tick) *terminal.TradeRequest {
	price := tick.Ask
	if intent.Type == models.SideSell {
		price = tick.Bid
	}

	return &terminal.TradeRequest{
		Action:      terminal.TradeActionDeal,
		Symbol:      intent.Symbol,
		Volume:      intent.Volume,
		Type:        intent.Type.OrderType(),
		Price:       price,
		SL:          intent.SL,
		TP:          intent.TP,
		Deviation:   priceDeviationPoints,
		Magic:       intent.Magic,
		Comment:     intent.Comment,
		TypeTime:    terminal.OrderTimeGTC,
		TypeFilling: terminal.OrderFillingIOC,
	}
}

// buildCloseRequest строит встречный запрос закрытия позиции.
// Закрытие buy - sell по bid, закрытие sell - buy по ask.
func buildCloseRequest(pos *terminal.Position, tick *terminal.Tick) *terminal.TradeRequest {
	side := models.SideFromType(pos.Type)
	closeSide := side.Opposite()

	price := tick.Bid // закрываем buy продажей по bid
	if closeSide == models.SideBuy {
		price = tick.Ask // закрываем sell покупкой по ask
	}

	return &terminal.TradeRequest{
		Action:      terminal.TradeActionDeal,
		Symbol:      pos.Symbol,
		Volume:      pos.Volume,
		Type:        closeSide.OrderType(),
		Price:       price,
		Position:    pos.Ticket,
		Deviation:   priceDeviationPoints,
		Magic:       DefaultMagic,
		Comment:     DefaultCloseComment,
		TypeTime:    terminal.OrderTimeGTC,
		TypeFilling: terminal.OrderFillingIOC,
	}
}

// buildModifyRequest строит запрос изменения защитных уровней.
// Возвращает разрешённые SL/TP: не переданный уровень берётся у позиции.
func buildModifyRequest(pos *terminal.Position, sl, tp *float64) (*terminal.TradeRequest, float64, float64) {
	resolvedSL := pos.SL
	if sl != nil {
		resolvedSL = *sl
	}
	resolvedTP := pos.TP
	if tp != nil {
		resolvedTP = *tp
	}

	req := &terminal.TradeRequest{
		Action:   terminal.TradeActionSLTP,
		Symbol:   pos.Symbol,
		Position: pos.Ticket,
		SL:       &resolvedSL,
		TP:       &resolvedTP,
	}
	return req, resolvedSL, resolvedTP
}

// interpretResult классифицирует ответ терминала на торговый запрос.
// Успех тогда и только тогда, когда retcode равен каноническому коду
// полного исполнения. Любой другой код - отказ с сохранением кода и
// комментария терминала; автоматических повторов нет.
func interpretResult(result *terminal.TradeResult) error {
	if result == nil {
		return Errorf(KindTerminalUnavailable, "terminal returned no trade result")
	}
	if result.Retcode != terminal.RetcodeDone {
		return Rejected(result.Retcode, result.Comment)
	}
	return nil
}
