package service

import (
	"context"

	"mt5gateway/internal/models"
	"mt5gateway/internal/terminal"
)

// Интерфейсы сервисов для handlers. Позволяют подменять реализацию
// моками в тестах HTTP слоя.

// TradingServiceInterface - торговые операции
type TradingServiceInterface interface {
	OpenTrade(ctx context.Context, intent models.TradeIntent) (*models.OpenResult, error)
	CloseTrade(ctx context.Context, ticket int64) (*models.CloseResult, error)
	ModifyTrade(ctx context.Context, ticket int64, sl, tp *float64) (*models.ModifyResult, error)
}

// AccountServiceInterface - запросы состояния счёта и рынка
type AccountServiceInterface interface {
	Account(ctx context.Context) (*models.Account, error)
	AccountExtended(ctx context.Context) (*models.AccountExtended, error)
	Positions(ctx context.Context) ([]models.Position, error)
	Orders(ctx context.Context) ([]models.Order, error)
	History(ctx context.Context) ([]models.Deal, error)
	EAStatus(ctx context.Context, magic int64) (*models.EAStatus, error)
	Symbols(ctx context.Context, limit int) ([]models.Symbol, error)
}

// SessionServiceInterface - жизненный цикл сессии терминала
type SessionServiceInterface interface {
	Health() models.Health
	Initialize(ctx context.Context, path string) (*terminal.TerminalInfo, error)
	Login(ctx context.Context, account int64, password, server string) (*models.ConnectionMarker, *models.Account, error)
	Shutdown(ctx context.Context) error
}
