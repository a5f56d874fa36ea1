package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"mt5gateway/internal/models"
	"mt5gateway/internal/terminal"
	"mt5gateway/pkg/utils"
)

// Окна выборки истории сделок
const (
	// HistoryDays - окно листинга истории (отличать от окна оценки EA)
	HistoryDays = 30
	// MaxSymbols - максимум инструментов в листинге
	MaxSymbols = 100
)

// AccountService отвечает на запросы состояния счёта и рынка:
// снимок счёта, позиции, ордера, история, инструменты и производный
// статус советника.
//
// Сервис ничего не кеширует - каждый запрос уходит в терминал вживую.
type AccountService struct {
	term terminal.Client
	log  *zap.Logger

	// точка "сейчас" вынесена для детерминированных тестов окон
	now func() time.Time
}

// NewAccountService создаёт новый AccountService
func NewAccountService(term terminal.Client, log *zap.Logger) *AccountService {
	return &AccountService{
		term: term,
		log:  log,
		now:  time.Now,
	}
}

// Account возвращает живой снимок счёта
func (s *AccountService) Account(ctx context.Context) (*models.Account, error) {
	info, err := s.accountInfo(ctx)
	if err != nil {
		return nil, err
	}
	acc := models.AccountFromTerminal(info)
	return &acc, nil
}

// AccountExtended возвращает снимок счёта вместе с агрегатами по всем
// открытым позициям: суммарный объём в лотах, суммарный нереализованный
// профит, количество и нормализованный список позиций.
func (s *AccountService) AccountExtended(ctx context.Context) (*models.AccountExtended, error) {
	info, err := s.accountInfo(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := s.term.Positions(ctx)
	if err != nil {
		return nil, terminalErr("positions_get", err)
	}

	return &models.AccountExtended{
		Account:          models.AccountFromTerminal(info),
		PositionsSummary: models.SummarizePositions(raw),
		Positions:        models.PositionsFromTerminal(raw),
	}, nil
}

// Positions возвращает нормализованный список открытых позиций
func (s *AccountService) Positions(ctx context.Context) ([]models.Position, error) {
	if s.term == nil {
		return nil, Errorf(KindTerminalUnavailable, "terminal client is not configured")
	}
	raw, err := s.term.Positions(ctx)
	if err != nil {
		return nil, terminalErr("positions_get", err)
	}
	return models.PositionsFromTerminal(raw), nil
}

// Orders возвращает нормализованный список отложенных ордеров
func (s *AccountService) Orders(ctx context.Context) ([]models.Order, error) {
	if s.term == nil {
		return nil, Errorf(KindTerminalUnavailable, "terminal client is not configured")
	}
	raw, err := s.term.Orders(ctx)
	if err != nil {
		return nil, terminalErr("orders_get", err)
	}
	return models.OrdersFromTerminal(raw), nil
}

// History возвращает сделки за скользящее окно последних 30 дней
func (s *AccountService) History(ctx context.Context) ([]models.Deal, error) {
	if s.term == nil {
		return nil, Errorf(KindTerminalUnavailable, "terminal client is not configured")
	}
	window := utils.LastDaysRange(s.now(), HistoryDays)
	raw, err := s.term.DealHistory(ctx, window.From, window.To)
	if err != nil {
		return nil, terminalErr("history_deals_get", err)
	}
	return models.DealsFromTerminal(raw), nil
}

// EAStatus выводит статус активности советника по его magic.
//
// Эвристика: active = (trade_expert разрешён И есть позиции с magic
// советника) ИЛИ есть его исполнения за последний час. Недавнее исполнение
// намеренно перекрывает запрещённый trade_expert - свежий факт торговли
// сильнее флага, который могли снять секундой позже.
// TODO: подтвердить у команды AU-Next, что перекрытие флага - желаемое поведение.
func (s *AccountService) EAStatus(ctx context.Context, magic int64) (*models.EAStatus, error) {
	if magic <= 0 {
		magic = DefaultMagic
	}

	info, err := s.accountInfo(ctx)
	if err != nil {
		return nil, err
	}

	positions, err := s.term.Positions(ctx)
	if err != nil {
		return nil, terminalErr("positions_get", err)
	}

	window := utils.LastHourRange(s.now())
	deals, err := s.term.DealHistory(ctx, window.From, window.To)
	if err != nil {
		return nil, terminalErr("history_deals_get", err)
	}

	status := evaluateEAActivity(positions, deals, info.TradeExpert, magic)
	return &status, nil
}

// Symbols возвращает видимые инструменты терминала.
// limit по умолчанию и максимум - 100.
func (s *AccountService) Symbols(ctx context.Context, limit int) ([]models.Symbol, error) {
	if s.term == nil {
		return nil, Errorf(KindTerminalUnavailable, "terminal client is not configured")
	}
	if limit <= 0 || limit > MaxSymbols {
		limit = MaxSymbols
	}

	raw, err := s.term.SymbolsList(ctx)
	if err != nil {
		return nil, terminalErr("symbols_get", err)
	}

	out := make([]models.Symbol, 0, limit)
	for _, s := range raw {
		if !s.Visible {
			continue
		}
		out = append(out, models.SymbolFromTerminal(s))
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// accountInfo запрашивает снимок счёта, различая "терминал недоступен"
// и "нет залогиненной сессии"
func (s *AccountService) accountInfo(ctx context.Context) (*terminal.AccountInfo, error) {
	if s.term == nil {
		return nil, Errorf(KindTerminalUnavailable, "terminal client is not configured")
	}
	info, err := s.term.AccountInfo(ctx)
	if err != nil {
		return nil, terminalErr("account_info", err)
	}
	if info == nil {
		return nil, Errorf(KindAuthenticationFailed, "not logged in or failed to get account info")
	}
	return info, nil
}

// evaluateEAActivity - чистая функция оценки активности советника.
//
// Прямого сигнала "советник запущен" у терминала нет, активность
// выводится из побочных эффектов: открытых позиций с его magic и
// исполнений за последний час.
func evaluateEAActivity(positions []terminal.Position, recentDeals []terminal.Deal, tradeExpert bool, magic int64) models.EAStatus {
	status := models.EAStatus{
		TradeExpertAllowed: tradeExpert,
		MagicNumber:        magic,
		Positions:          []models.EAPosition{},
	}

	for _, p := range positions {
		if p.Magic != magic {
			continue
		}
		status.PositionsCount++
		status.TotalVolume += p.Volume
		status.TotalProfit += p.Profit
		status.Positions = append(status.Positions, models.EAPosition{
			Ticket: p.Ticket,
			Symbol: p.Symbol,
			Type:   models.SideFromType(p.Type),
			Volume: p.Volume,
			Profit: p.Profit,
		})
	}

	for _, d := range recentDeals {
		if d.Magic == magic {
			status.RecentTrades++
		}
	}

	status.Active = (tradeExpert && status.PositionsCount > 0) || status.RecentTrades > 0
	return status
}
