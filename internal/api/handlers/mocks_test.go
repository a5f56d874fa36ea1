package handlers

import (
	"context"
	"sync"
	"time"

	"mt5gateway/internal/models"
	"mt5gateway/internal/service"
	"mt5gateway/internal/terminal"
)

// ============ Mock Trading Service ============

// MockTradingService мок для TradingServiceInterface
type MockTradingService struct {
	openResult   *models.OpenResult
	closeResult  *models.CloseResult
	modifyResult *models.ModifyResult
	openErr      error
	closeErr     error
	modifyErr    error

	// захваченные аргументы последнего вызова
	lastIntent models.TradeIntent
	lastTicket int64
	lastSL     *float64
	lastTP     *float64
	mu         sync.Mutex
}

// NewMockTradingService создает новый мок торгового сервиса
func NewMockTradingService() *MockTradingService {
	return &MockTradingService{
		openResult: &models.OpenResult{
			Ticket: 1001,
			Deal:   2001,
			Volume: 0.1,
			Price:  1.1050,
			Symbol: "EURUSD",
			Type:   models.SideBuy,
		},
		closeResult: &models.CloseResult{
			Ticket: 555,
			Deal:   2002,
			Volume: 0.1,
			Price:  1.1040,
			Profit: 5.0,
		},
		modifyResult: &models.ModifyResult{SL: 1.0950, TP: 1.1150},
	}
}

func (m *MockTradingService) OpenTrade(ctx context.Context, intent models.TradeIntent) (*models.OpenResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastIntent = intent
	if m.openErr != nil {
		return nil, m.openErr
	}
	return m.openResult, nil
}

func (m *MockTradingService) CloseTrade(ctx context.Context, ticket int64) (*models.CloseResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastTicket = ticket
	if m.closeErr != nil {
		return nil, m.closeErr
	}
	return m.closeResult, nil
}

func (m *MockTradingService) ModifyTrade(ctx context.Context, ticket int64, sl, tp *float64) (*models.ModifyResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastTicket = ticket
	m.lastSL = sl
	m.lastTP = tp
	if m.modifyErr != nil {
		return nil, m.modifyErr
	}
	return m.modifyResult, nil
}

// SetError устанавливает ошибку для указанной операции
func (m *MockTradingService) SetError(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch operation {
	case "open":
		m.openErr = err
	case "close":
		m.closeErr = err
	case "modify":
		m.modifyErr = err
	}
}

// ============ Mock Account Service ============

// MockAccountService мок для AccountServiceInterface
type MockAccountService struct {
	account   *models.Account
	extended  *models.AccountExtended
	positions []models.Position
	orders    []models.Order
	deals     []models.Deal
	eaStatus  *models.EAStatus
	symbols   []models.Symbol
	errs      map[string]error

	// захваченные аргументы последнего вызова
	lastMagic int64
	lastLimit int
	mu        sync.Mutex
}

// NewMockAccountService создает новый мок сервиса счёта
func NewMockAccountService() *MockAccountService {
	acc := models.Account{
		Login:        12345678,
		Name:         "Test Account",
		Server:       "Broker-Demo",
		Currency:     "USD",
		Balance:      10000.0,
		Equity:       10012.5,
		TradeAllowed: true,
		TradeExpert:  true,
	}
	return &MockAccountService{
		account: &acc,
		extended: &models.AccountExtended{
			Account:   acc,
			Positions: []models.Position{},
		},
		positions: []models.Position{},
		orders:    []models.Order{},
		deals:     []models.Deal{},
		eaStatus: &models.EAStatus{
			Active:             true,
			TradeExpertAllowed: true,
			PositionsCount:     1,
			TotalVolume:        0.1,
			TotalProfit:        5.0,
			RecentTrades:       2,
			MagicNumber:        123456,
			Positions:          []models.EAPosition{},
		},
		symbols: []models.Symbol{},
		errs:    make(map[string]error),
	}
}

func (m *MockAccountService) Account(ctx context.Context) (*models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.errs["account"]; err != nil {
		return nil, err
	}
	return m.account, nil
}

func (m *MockAccountService) AccountExtended(ctx context.Context) (*models.AccountExtended, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.errs["extended"]; err != nil {
		return nil, err
	}
	return m.extended, nil
}

func (m *MockAccountService) Positions(ctx context.Context) ([]models.Position, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.errs["positions"]; err != nil {
		return nil, err
	}
	return m.positions, nil
}

func (m *MockAccountService) Orders(ctx context.Context) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.errs["orders"]; err != nil {
		return nil, err
	}
	return m.orders, nil
}

func (m *MockAccountService) History(ctx context.Context) ([]models.Deal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.errs["history"]; err != nil {
		return nil, err
	}
	return m.deals, nil
}

func (m *MockAccountService) EAStatus(ctx context.Context, magic int64) (*models.EAStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastMagic = magic
	if err := m.errs["ea_status"]; err != nil {
		return nil, err
	}
	return m.eaStatus, nil
}

func (m *MockAccountService) Symbols(ctx context.Context, limit int) ([]models.Symbol, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastLimit = limit
	if err := m.errs["symbols"]; err != nil {
		return nil, err
	}
	return m.symbols, nil
}

// SetError устанавливает ошибку для указанной операции
func (m *MockAccountService) SetError(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.errs[operation] = err
}

// ============ Mock Session Service ============

// MockSessionService мок для SessionServiceInterface
type MockSessionService struct {
	health       models.Health
	terminalInfo *terminal.TerminalInfo
	marker       *models.ConnectionMarker
	account      *models.Account
	initErr      error
	loginErr     error
	shutdownErr  error

	// захваченные аргументы последнего вызова
	lastPath     string
	lastAccount  int64
	lastPassword string
	lastServer   string
	mu           sync.Mutex
}

// NewMockSessionService создает новый мок сервиса сессии
func NewMockSessionService() *MockSessionService {
	return &MockSessionService{
		health: models.Health{
			Status:            "running",
			MT5Available:      true,
			ActiveConnections: 1,
			Timestamp:         "2026-08-27T12:00:00Z",
		},
		terminalInfo: &terminal.TerminalInfo{
			Connected:    true,
			TradeAllowed: true,
			Name:         "MetaTrader 5",
		},
		marker: &models.ConnectionMarker{
			ConnectionID: "12345678@Broker-Demo",
			Account:      12345678,
			Server:       "Broker-Demo",
			LoginTime:    time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC),
		},
		account: &models.Account{
			Login:   12345678,
			Server:  "Broker-Demo",
			Balance: 10000.0,
		},
	}
}

func (m *MockSessionService) Health() models.Health {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.health
}

func (m *MockSessionService) Initialize(ctx context.Context, path string) (*terminal.TerminalInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastPath = path
	if m.initErr != nil {
		return nil, m.initErr
	}
	return m.terminalInfo, nil
}

func (m *MockSessionService) Login(ctx context.Context, account int64, password, server string) (*models.ConnectionMarker, *models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastAccount = account
	m.lastPassword = password
	m.lastServer = server
	if m.loginErr != nil {
		return nil, nil, m.loginErr
	}
	return m.marker, m.account, nil
}

func (m *MockSessionService) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.shutdownErr
}

// SetError устанавливает ошибку для указанной операции
func (m *MockSessionService) SetError(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch operation {
	case "initialize":
		m.initErr = err
	case "login":
		m.loginErr = err
	case "shutdown":
		m.shutdownErr = err
	}
}

// ============ Проверяем, что моки реализуют интерфейсы ============

var _ service.TradingServiceInterface = (*MockTradingService)(nil)
var _ service.AccountServiceInterface = (*MockAccountService)(nil)
var _ service.SessionServiceInterface = (*MockSessionService)(nil)
