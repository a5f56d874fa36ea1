package terminal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

// ErrClosed возвращается после явного Close клиента.
var ErrClosed = errors.New("terminal: bridge client closed")

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// BridgeConfig - конфигурация подключения к мосту терминала
type BridgeConfig struct {
	// URL WebSocket моста (EA/side-car рядом с терминалом)
	URL string
	// Таймаут установки соединения
	ConnectTimeout time.Duration
	// Таймаут одного вызова (запрос + ответ)
	CallTimeout time.Duration
	// Интервал ping для поддержания соединения
	PingInterval time.Duration
}

// DefaultBridgeConfig возвращает конфигурацию по умолчанию
func DefaultBridgeConfig(url string) BridgeConfig {
	return BridgeConfig{
		URL:            url,
		ConnectTimeout: 10 * time.Second,
		CallTimeout:    30 * time.Second,
		PingInterval:   30 * time.Second,
	}
}

// BridgeClient реализует Client поверх постоянного WebSocket соединения
// с мостом терминала MT5.
//
// Протокол: JSON-кадры вида {id, method, params} / {id, result, error}.
// Один кадр - один вызов терминала, ответы приходят в порядке запросов.
//
// Конкурентность:
// Все вызовы сериализуются мьютексом - в полёте ровно один запрос.
// Это же свойство даёт критическую секцию "котировка -> ордер" на уровне
// транспорта: пока торговая операция не завершена, другой запрос не уйдёт.
//
// Переподключение:
// При ошибке транспорта соединение закрывается, следующий вызов установит
// его заново. Сам запрос при этом НЕ повторяется - ошибка отдаётся наверх.
type BridgeClient struct {
	cfg BridgeConfig
	log *zap.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	nextID uint64
	closed bool
}

// NewBridgeClient создаёт клиента моста. Соединение устанавливается лениво,
// при первом вызове. Нулевые таймауты заменяются значениями
// DefaultBridgeConfig.
func NewBridgeClient(cfg BridgeConfig, log *zap.Logger) *BridgeClient {
	def := DefaultBridgeConfig(cfg.URL)
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = def.ConnectTimeout
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = def.CallTimeout
	}
	if cfg.PingInterval < 0 {
		cfg.PingInterval = 0
	}
	return &BridgeClient{
		cfg: cfg,
		log: log,
	}
}

// rpcRequest - исходящий кадр моста
type rpcRequest struct {
	ID     uint64      `json:"id"`
	Method string      `json:"method"`
	Params interface{} `json:"params,omitempty"`
}

// rpcResponse - входящий кадр моста
type rpcResponse struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *rpcError       `json:"error,omitempty"`
}

// rpcError - ошибка уровня моста/терминала
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("terminal bridge error %d: %s", e.Code, e.Message)
}

// ensureConn устанавливает соединение, если его нет.
// ВАЖНО: вызывается под mu.
func (c *BridgeClient) ensureConn(ctx context.Context) error {
	if c.closed {
		return ErrClosed
	}
	if c.conn != nil {
		return nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, c.cfg.ConnectTimeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, c.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("terminal bridge dial %s: %w", c.cfg.URL, err)
	}

	if c.cfg.PingInterval > 0 {
		conn.SetPongHandler(func(string) error { return nil })
		go c.keepalive(conn)
	}

	c.conn = conn
	c.log.Info("terminal bridge connected", zap.String("url", c.cfg.URL))
	return nil
}

// keepalive периодически шлёт ping-кадры, пока conn остаётся текущим
// соединением клиента. Без этого простаивающее соединение молча
// обрывают промежуточные прокси/NAT, и обрыв всплывает только на
// следующем вызове. Ping идёт под mu и поэтому не пересекается с
// кадрами вызовов; при ошибке записи соединение сбрасывается, и
// горутина завершается вместе с ним.
func (c *BridgeClient) keepalive(conn *websocket.Conn) {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		if c.closed || c.conn != conn {
			c.mu.Unlock()
			return
		}
		deadline := time.Now().Add(c.cfg.PingInterval)
		if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
			c.dropConn(err)
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()
	}
}

// dropConn закрывает соединение после ошибки транспорта.
// Следующий вызов переподключится. Вызывается под mu.
func (c *BridgeClient) dropConn(cause error) {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.log.Warn("terminal bridge connection dropped", zap.Error(cause))
}

// call выполняет один вызов моста: запрос, ожидание ответа, разбор result.
// out может быть nil, если результат не нужен.
func (c *BridgeClient) call(ctx context.Context, method string, params, out interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureConn(ctx); err != nil {
		return err
	}

	c.nextID++
	req := rpcRequest{ID: c.nextID, Method: method, Params: params}

	deadline := time.Now().Add(c.cfg.CallTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = c.conn.SetWriteDeadline(deadline)
	_ = c.conn.SetReadDeadline(deadline)

	payload, err := codec.Marshal(req)
	if err != nil {
		return fmt.Errorf("terminal bridge encode %s: %w", method, err)
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.dropConn(err)
		return fmt.Errorf("terminal bridge write %s: %w", method, err)
	}

	// Ответы приходят строго в порядке запросов, поэтому читаем кадры,
	// пока не встретим наш id (мост может присылать служебные кадры без id).
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.dropConn(err)
			return fmt.Errorf("terminal bridge read %s: %w", method, err)
		}

		var resp rpcResponse
		if err := codec.Unmarshal(data, &resp); err != nil {
			c.dropConn(err)
			return fmt.Errorf("terminal bridge decode %s: %w", method, err)
		}
		if resp.ID != req.ID {
			continue
		}

		if resp.Error != nil {
			return resp.Error
		}
		if out == nil || len(resp.Result) == 0 || string(resp.Result) == "null" {
			return nil
		}
		if err := codec.Unmarshal(resp.Result, out); err != nil {
			return fmt.Errorf("terminal bridge decode result %s: %w", method, err)
		}
		return nil
	}
}

// ============ Реализация интерфейса Client ============

func (c *BridgeClient) Initialize(ctx context.Context, path string) (*TerminalInfo, error) {
	params := map[string]string{}
	if path != "" {
		params["path"] = path
	}
	var info *TerminalInfo
	if err := c.call(ctx, "initialize", params, &info); err != nil {
		return nil, err
	}
	return info, nil
}

func (c *BridgeClient) Login(ctx context.Context, login int64, password, server string) (bool, error) {
	params := map[string]interface{}{
		"login":    login,
		"password": password,
		"server":   server,
	}
	var ok bool
	if err := c.call(ctx, "login", params, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (c *BridgeClient) SymbolInfo(ctx context.Context, name string) (*SymbolInfo, error) {
	var info *SymbolInfo
	if err := c.call(ctx, "symbol_info", map[string]string{"symbol": name}, &info); err != nil {
		return nil, err
	}
	return info, nil
}

func (c *BridgeClient) SymbolSelect(ctx context.Context, name string, enable bool) (bool, error) {
	params := map[string]interface{}{"symbol": name, "enable": enable}
	var ok bool
	if err := c.call(ctx, "symbol_select", params, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (c *BridgeClient) SymbolsList(ctx context.Context) ([]SymbolInfo, error) {
	var symbols []SymbolInfo
	if err := c.call(ctx, "symbols_get", nil, &symbols); err != nil {
		return nil, err
	}
	return symbols, nil
}

func (c *BridgeClient) Tick(ctx context.Context, name string) (*Tick, error) {
	var tick *Tick
	if err := c.call(ctx, "symbol_info_tick", map[string]string{"symbol": name}, &tick); err != nil {
		return nil, err
	}
	return tick, nil
}

func (c *BridgeClient) Positions(ctx context.Context) ([]Position, error) {
	var positions []Position
	if err := c.call(ctx, "positions_get", nil, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

func (c *BridgeClient) PositionByTicket(ctx context.Context, ticket int64) (*Position, error) {
	var pos *Position
	if err := c.call(ctx, "positions_get", map[string]int64{"ticket": ticket}, &pos); err != nil {
		return nil, err
	}
	return pos, nil
}

func (c *BridgeClient) Orders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.call(ctx, "orders_get", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *BridgeClient) DealHistory(ctx context.Context, from, to time.Time) ([]Deal, error) {
	params := map[string]int64{
		"from": from.Unix(),
		"to":   to.Unix(),
	}
	var deals []Deal
	if err := c.call(ctx, "history_deals_get", params, &deals); err != nil {
		return nil, err
	}
	return deals, nil
}

func (c *BridgeClient) AccountInfo(ctx context.Context) (*AccountInfo, error) {
	var info *AccountInfo
	if err := c.call(ctx, "account_info", nil, &info); err != nil {
		return nil, err
	}
	return info, nil
}

func (c *BridgeClient) SendOrder(ctx context.Context, req *TradeRequest) (*TradeResult, error) {
	var result *TradeResult
	if err := c.call(ctx, "order_send", req, &result); err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("terminal bridge: order_send returned no result")
	}
	return result, nil
}

func (c *BridgeClient) Shutdown(ctx context.Context) error {
	return c.call(ctx, "shutdown", nil, nil)
}

// Close закрывает соединение с мостом. Клиент после этого непригоден.
func (c *BridgeClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.conn != nil {
		err := c.conn.Close()
		c.conn = nil
		return err
	}
	return nil
}
