package service

import (
	"context"
	"time"

	"mt5gateway/internal/terminal"
)

// ============ Mock Terminal Client ============

// mockTerminal - мок фасада терминала для тестов сервисов
type mockTerminal struct {
	terminalInfo *terminal.TerminalInfo
	loginOK      bool
	account      *terminal.AccountInfo
	symbols      map[string]*terminal.SymbolInfo
	symbolsList  []terminal.SymbolInfo
	ticks        map[string]*terminal.Tick
	positions    []terminal.Position
	orders       []terminal.Order
	deals        []terminal.Deal
	sendResult   *terminal.TradeResult

	selectOK bool
	errs     map[string]error // инъекция ошибок по операциям

	// захват для проверок
	lastRequest    *terminal.TradeRequest
	selectedSymbol string
	historyFrom    time.Time
	historyTo      time.Time
	shutdownCalled bool
}

func newMockTerminal() *mockTerminal {
	return &mockTerminal{
		loginOK:  true,
		selectOK: true,
		symbols:  make(map[string]*terminal.SymbolInfo),
		ticks:    make(map[string]*terminal.Tick),
		errs:     make(map[string]error),
		sendResult: &terminal.TradeResult{
			Retcode: terminal.RetcodeDone,
		},
	}
}

func (m *mockTerminal) Initialize(ctx context.Context, path string) (*terminal.TerminalInfo, error) {
	if err := m.errs["initialize"]; err != nil {
		return nil, err
	}
	return m.terminalInfo, nil
}

func (m *mockTerminal) Login(ctx context.Context, login int64, password, server string) (bool, error) {
	if err := m.errs["login"]; err != nil {
		return false, err
	}
	return m.loginOK, nil
}

func (m *mockTerminal) SymbolInfo(ctx context.Context, name string) (*terminal.SymbolInfo, error) {
	if err := m.errs["symbol_info"]; err != nil {
		return nil, err
	}
	return m.symbols[name], nil
}

func (m *mockTerminal) SymbolSelect(ctx context.Context, name string, enable bool) (bool, error) {
	if err := m.errs["symbol_select"]; err != nil {
		return false, err
	}
	m.selectedSymbol = name
	return m.selectOK, nil
}

func (m *mockTerminal) SymbolsList(ctx context.Context) ([]terminal.SymbolInfo, error) {
	if err := m.errs["symbols_get"]; err != nil {
		return nil, err
	}
	return m.symbolsList, nil
}

func (m *mockTerminal) Tick(ctx context.Context, name string) (*terminal.Tick, error) {
	if err := m.errs["tick"]; err != nil {
		return nil, err
	}
	return m.ticks[name], nil
}

func (m *mockTerminal) Positions(ctx context.Context) ([]terminal.Position, error) {
	if err := m.errs["positions_get"]; err != nil {
		return nil, err
	}
	return m.positions, nil
}

func (m *mockTerminal) PositionByTicket(ctx context.Context, ticket int64) (*terminal.Position, error) {
	if err := m.errs["positions_get"]; err != nil {
		return nil, err
	}
	for i := range m.positions {
		if m.positions[i].Ticket == ticket {
			return &m.positions[i], nil
		}
	}
	return nil, nil
}

func (m *mockTerminal) Orders(ctx context.Context) ([]terminal.Order, error) {
	if err := m.errs["orders_get"]; err != nil {
		return nil, err
	}
	return m.orders, nil
}

func (m *mockTerminal) DealHistory(ctx context.Context, from, to time.Time) ([]terminal.Deal, error) {
	if err := m.errs["history_deals_get"]; err != nil {
		return nil, err
	}
	m.historyFrom = from
	m.historyTo = to
	return m.deals, nil
}

func (m *mockTerminal) AccountInfo(ctx context.Context) (*terminal.AccountInfo, error) {
	if err := m.errs["account_info"]; err != nil {
		return nil, err
	}
	return m.account, nil
}

func (m *mockTerminal) SendOrder(ctx context.Context, req *terminal.TradeRequest) (*terminal.TradeResult, error) {
	if err := m.errs["order_send"]; err != nil {
		return nil, err
	}
	m.lastRequest = req
	return m.sendResult, nil
}

func (m *mockTerminal) Shutdown(ctx context.Context) error {
	if err := m.errs["shutdown"]; err != nil {
		return err
	}
	m.shutdownCalled = true
	return nil
}

func (m *mockTerminal) Close() error {
	return nil
}
