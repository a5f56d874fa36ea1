package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"mt5gateway/internal/models"
	"mt5gateway/internal/terminal"
)

// SessionService управляет жизненным циклом сессии терминала:
// initialize, login, shutdown - и ведёт реестр отметок о подключениях.
//
// Реестр - явный объект с жизненным циклом процесса, принадлежит сервису
// (не глобальное состояние). Отметки не авторитетны: жива ли сессия,
// знает только терминал.
type SessionService struct {
	term terminal.Client
	log  *zap.Logger

	mu      sync.Mutex
	markers map[string]models.ConnectionMarker

	now func() time.Time
}

// NewSessionService создаёт новый SessionService
func NewSessionService(term terminal.Client, log *zap.Logger) *SessionService {
	return &SessionService{
		term:    term,
		log:     log,
		markers: make(map[string]models.ConnectionMarker),
		now:     time.Now,
	}
}

// Health возвращает состояние шлюза: доступность терминала и число
// отметок о подключениях
func (s *SessionService) Health() models.Health {
	s.mu.Lock()
	count := len(s.markers)
	s.mu.Unlock()

	return models.Health{
		Status:            "running",
		MT5Available:      s.term != nil,
		ActiveConnections: count,
		Timestamp:         s.now().UTC().Format(time.RFC3339),
	}
}

// Initialize инициализирует терминал. path - необязательный путь
// к исполняемому файлу терминала.
func (s *SessionService) Initialize(ctx context.Context, path string) (*terminal.TerminalInfo, error) {
	if s.term == nil {
		return nil, Errorf(KindTerminalUnavailable, "terminal client is not configured")
	}

	info, err := s.term.Initialize(ctx, path)
	if err != nil {
		return nil, Errorf(KindTerminalUnavailable, "MT5 initialization failed: %v", err)
	}

	s.log.Info("terminal initialized",
		zap.Bool("connected", info != nil && info.Connected),
	)
	return info, nil
}

// Login выполняет вход в торговый счёт и регистрирует отметку подключения.
// Возвращает отметку и снимок счёта после входа.
func (s *SessionService) Login(ctx context.Context, account int64, password, server string) (*models.ConnectionMarker, *models.Account, error) {
	if account <= 0 || password == "" || server == "" {
		return nil, nil, Errorf(KindValidation, "account, password, and server are required")
	}
	if s.term == nil {
		return nil, nil, Errorf(KindTerminalUnavailable, "terminal client is not configured")
	}

	ok, err := s.term.Login(ctx, account, password, server)
	if err != nil {
		return nil, nil, terminalErr("login", err)
	}
	if !ok {
		return nil, nil, Errorf(KindAuthenticationFailed, "login failed for account %d", account)
	}

	info, err := s.term.AccountInfo(ctx)
	if err != nil {
		return nil, nil, terminalErr("account_info", err)
	}
	if info == nil {
		return nil, nil, Errorf(KindAuthenticationFailed, "failed to get account info after login")
	}

	marker := models.ConnectionMarker{
		ConnectionID: fmt.Sprintf("%d@%s", account, server),
		Account:      account,
		Server:       server,
		LoginTime:    s.now().UTC(),
	}

	s.mu.Lock()
	s.markers[marker.ConnectionID] = marker
	s.mu.Unlock()

	s.log.Info("login successful",
		zap.Int64("account", account),
		zap.String("server", server),
	)

	acc := models.AccountFromTerminal(info)
	return &marker, &acc, nil
}

// Shutdown закрывает соединение терминала и очищает реестр отметок
func (s *SessionService) Shutdown(ctx context.Context) error {
	if s.term == nil {
		return Errorf(KindTerminalUnavailable, "terminal client is not configured")
	}

	if err := s.term.Shutdown(ctx); err != nil {
		return terminalErr("shutdown", err)
	}

	s.mu.Lock()
	s.markers = make(map[string]models.ConnectionMarker)
	s.mu.Unlock()

	s.log.Info("terminal connection closed")
	return nil
}

// Markers возвращает текущие отметки о подключениях (для диагностики)
func (s *SessionService) Markers() []models.ConnectionMarker {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.ConnectionMarker, 0, len(s.markers))
	for _, m := range s.markers {
		out = append(out, m)
	}
	return out
}
