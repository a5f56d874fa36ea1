// Package integration contains integration tests for the MT5 gateway.
//
// These tests verify the complete HTTP request cycle through all layers:
// Router → Middleware → Handler → Service → Terminal client
//
// The terminal is replaced by an in-memory fake so tests run without a
// live MetaTrader installation. Everything above the terminal boundary
// is real production code, including API key auth.
package integration

import (
	"context"
	"net/http/httptest"
	"sync"
	"time"

	"go.uber.org/zap"

	"mt5gateway/internal/api"
	"mt5gateway/internal/api/middleware"
	"mt5gateway/internal/service"
	"mt5gateway/internal/terminal"
	"mt5gateway/pkg/ratelimit"
)

const testAPIKey = "integration-test-key"

// TestServer encapsulates all components needed for integration testing
type TestServer struct {
	Terminal *fakeTerminal
	Server   *httptest.Server
	Cleanup  func()
}

// SetupTestServer wires real services and routes on top of a fake terminal
func SetupTestServer() *TestServer {
	logger := zap.NewNop()
	term := newFakeTerminal()

	auth := middleware.APIKeyAuth(middleware.AuthConfig{
		APIKey:      testAPIKey,
		FailLimiter: ratelimit.NewRateLimiter(100, 100),
	}, logger)

	router := api.SetupRoutes(&api.Dependencies{
		Logger:         logger,
		TradingService: service.NewTradingService(term, logger),
		AccountService: service.NewAccountService(term, logger),
		SessionService: service.NewSessionService(term, logger),
		AuthMiddleware: auth,
	})

	srv := httptest.NewServer(router)
	return &TestServer{
		Terminal: term,
		Server:   srv,
		Cleanup:  srv.Close,
	}
}

// fakeTerminal is an in-memory terminal.Client with canned market state
type fakeTerminal struct {
	mu        sync.Mutex
	symbols   map[string]terminal.SymbolInfo
	ticks     map[string]terminal.Tick
	positions []terminal.Position
	orders    []terminal.Order
	deals     []terminal.Deal
	account   *terminal.AccountInfo

	loginOK    bool
	sendResult *terminal.TradeResult

	// captured state for assertions
	LastRequest *terminal.TradeRequest
}

func newFakeTerminal() *fakeTerminal {
	return &fakeTerminal{
		symbols: map[string]terminal.SymbolInfo{
			"EURUSD": {Name: "EURUSD", Description: "Euro vs US Dollar", Digits: 5, Visible: true},
			"GBPUSD": {Name: "GBPUSD", Description: "Pound vs US Dollar", Digits: 5, Visible: true},
		},
		ticks: map[string]terminal.Tick{
			"EURUSD": {Bid: 1.1040, Ask: 1.1050, Time: time.Now().Unix()},
			"GBPUSD": {Bid: 1.2710, Ask: 1.2720, Time: time.Now().Unix()},
		},
		account: &terminal.AccountInfo{
			Login:        12345678,
			Name:         "Integration Test",
			Server:       "Broker-Demo",
			Currency:     "USD",
			Balance:      10000.0,
			Equity:       10005.0,
			MarginFree:   9900.0,
			Leverage:     100,
			TradeAllowed: true,
			TradeExpert:  true,
		},
		loginOK: true,
		sendResult: &terminal.TradeResult{
			Retcode: terminal.RetcodeDone,
			Order:   1001,
			Deal:    2001,
			Volume:  0.1,
			Price:   1.1050,
		},
	}
}

func (f *fakeTerminal) Initialize(ctx context.Context, path string) (*terminal.TerminalInfo, error) {
	return &terminal.TerminalInfo{Connected: true, TradeAllowed: true, Name: "MetaTrader 5", Path: path}, nil
}

func (f *fakeTerminal) Login(ctx context.Context, login int64, password, server string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginOK, nil
}

func (f *fakeTerminal) SymbolInfo(ctx context.Context, name string) (*terminal.SymbolInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.symbols[name]; ok {
		return &s, nil
	}
	return nil, nil
}

func (f *fakeTerminal) SymbolSelect(ctx context.Context, name string, enable bool) (bool, error) {
	return true, nil
}

func (f *fakeTerminal) SymbolsList(ctx context.Context) ([]terminal.SymbolInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]terminal.SymbolInfo, 0, len(f.symbols))
	for _, s := range f.symbols {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeTerminal) Tick(ctx context.Context, name string) (*terminal.Tick, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.ticks[name]; ok {
		return &t, nil
	}
	return nil, nil
}

func (f *fakeTerminal) Positions(ctx context.Context) ([]terminal.Position, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]terminal.Position(nil), f.positions...), nil
}

func (f *fakeTerminal) PositionByTicket(ctx context.Context, ticket int64) (*terminal.Position, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.positions {
		if p.Ticket == ticket {
			pos := p
			return &pos, nil
		}
	}
	return nil, nil
}

func (f *fakeTerminal) Orders(ctx context.Context) ([]terminal.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]terminal.Order(nil), f.orders...), nil
}

func (f *fakeTerminal) DealHistory(ctx context.Context, from, to time.Time) ([]terminal.Deal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]terminal.Deal, 0, len(f.deals))
	for _, d := range f.deals {
		ts := time.Unix(d.Time, 0)
		if !ts.Before(from) && !ts.After(to) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeTerminal) AccountInfo(ctx context.Context) (*terminal.AccountInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.account == nil {
		return nil, nil
	}
	acc := *f.account
	return &acc, nil
}

func (f *fakeTerminal) SendOrder(ctx context.Context, req *terminal.TradeRequest) (*terminal.TradeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastRequest = req
	res := *f.sendResult
	return &res, nil
}

func (f *fakeTerminal) Shutdown(ctx context.Context) error { return nil }

func (f *fakeTerminal) Close() error { return nil }

// AddPosition seeds an open position into the fake terminal
func (f *fakeTerminal) AddPosition(p terminal.Position) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.positions = append(f.positions, p)
}

// AddDeal seeds a historical deal into the fake terminal
func (f *fakeTerminal) AddDeal(d terminal.Deal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deals = append(f.deals, d)
}

var _ terminal.Client = (*fakeTerminal)(nil)
