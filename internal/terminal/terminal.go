// Package terminal предоставляет унифицированный интерфейс для работы
// с торговым терминалом MetaTrader 5.
package terminal

import (
	"context"
	"time"
)

// Client определяет интерфейс доступа к терминалу MT5.
//
// Терминал - внешний процесс, который держит живую сессию счёта и
// исполняет ордера. Все данные (позиции, ордера, сделки, котировки)
// запрашиваются у терминала вживую, без локального кеша.
//
// Контракт "не найдено": методы SymbolInfo, Tick, PositionByTicket и
// AccountInfo возвращают (nil, nil), когда терминал отвечает, но
// запрошенной сущности нет. Ошибка возвращается только при недоступности
// самого терминала или сбое транспорта.
type Client interface {
	// Initialize инициализирует соединение с терминалом.
	// path - необязательный путь к terminal64.exe.
	Initialize(ctx context.Context, path string) (*TerminalInfo, error)

	// Login выполняет вход в торговый счёт.
	Login(ctx context.Context, login int64, password, server string) (bool, error)

	// SymbolInfo возвращает информацию об инструменте.
	SymbolInfo(ctx context.Context, name string) (*SymbolInfo, error)

	// SymbolSelect включает/выключает инструмент в Market Watch.
	SymbolSelect(ctx context.Context, name string, enable bool) (bool, error)

	// SymbolsList возвращает все инструменты терминала.
	SymbolsList(ctx context.Context) ([]SymbolInfo, error)

	// Tick возвращает текущую котировку bid/ask инструмента.
	Tick(ctx context.Context, name string) (*Tick, error)

	// Positions возвращает все открытые позиции.
	Positions(ctx context.Context) ([]Position, error)

	// PositionByTicket возвращает открытую позицию по тикету.
	PositionByTicket(ctx context.Context, ticket int64) (*Position, error)

	// Orders возвращает отложенные ордера.
	Orders(ctx context.Context) ([]Order, error)

	// DealHistory возвращает исторические сделки за период.
	DealHistory(ctx context.Context, from, to time.Time) ([]Deal, error)

	// AccountInfo возвращает снимок состояния счёта.
	AccountInfo(ctx context.Context) (*AccountInfo, error)

	// SendOrder отправляет торговый запрос терминалу.
	// Единственный блокирующий вызов на операцию, без повторов.
	SendOrder(ctx context.Context, req *TradeRequest) (*TradeResult, error)

	// Shutdown закрывает соединение терминала с сервером брокера.
	Shutdown(ctx context.Context) error

	// Close закрывает соединение с терминалом.
	Close() error
}

// Сырые константы MT5. Значения совпадают с определениями терминала,
// за их пределы коды не выходят: нормализация направления в enum
// происходит на границе models.
const (
	// Типы ордеров (ENUM_ORDER_TYPE)
	OrderTypeBuy  = 0
	OrderTypeSell = 1

	// Торговые действия (ENUM_TRADE_REQUEST_ACTIONS)
	TradeActionDeal = 1 // немедленная рыночная сделка
	TradeActionSLTP = 6 // изменение только защитных уровней

	// Срок жизни ордера (ENUM_ORDER_TYPE_TIME)
	OrderTimeGTC = 0 // good-till-cancelled

	// Политика исполнения (ENUM_ORDER_TYPE_FILLING)
	OrderFillingIOC = 1 // immediate-or-cancel

	// Код полного исполнения (TRADE_RETCODE_DONE)
	RetcodeDone = 10009
)

// TerminalInfo - состояние процесса терминала
type TerminalInfo struct {
	Connected    bool   `json:"connected"`
	TradeAllowed bool   `json:"trade_allowed"`
	Name         string `json:"name"`
	Path         string `json:"path"`
}

// SymbolInfo - информация об инструменте
type SymbolInfo struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	CurrencyBase   string `json:"currency_base"`
	CurrencyProfit string `json:"currency_profit"`
	Digits         int    `json:"digits"`
	TradeMode      int    `json:"trade_mode"`
	Visible        bool   `json:"visible"`
}

// Tick - котировка инструмента
type Tick struct {
	Bid  float64 `json:"bid"`
	Ask  float64 `json:"ask"`
	Time int64   `json:"time"` // UNIX секунды
}

// Position - открытая позиция в сыром представлении терминала.
// Type: 0 = buy, 1 = sell. Time - UNIX секунды.
type Position struct {
	Ticket       int64   `json:"ticket"`
	Symbol       string  `json:"symbol"`
	Type         int     `json:"type"`
	Volume       float64 `json:"volume"`
	PriceOpen    float64 `json:"price_open"`
	PriceCurrent float64 `json:"price_current"`
	SL           float64 `json:"sl"`
	TP           float64 `json:"tp"`
	Profit       float64 `json:"profit"`
	Swap         float64 `json:"swap"`
	Time         int64   `json:"time"`
	Magic        int64   `json:"magic"`
	Comment      string  `json:"comment"`
}

// Order - отложенный ордер в сыром представлении терминала
type Order struct {
	Ticket        int64   `json:"ticket"`
	Symbol        string  `json:"symbol"`
	Type          int     `json:"type"`
	VolumeCurrent float64 `json:"volume_current"`
	PriceOpen     float64 `json:"price_open"`
	SL            float64 `json:"sl"`
	TP            float64 `json:"tp"`
	TimeSetup     int64   `json:"time_setup"`
	Magic         int64   `json:"magic"`
	Comment       string  `json:"comment"`
}

// Deal - исторически исполненная сделка. Неизменяема после записи терминалом.
type Deal struct {
	Ticket     int64   `json:"ticket"`
	Order      int64   `json:"order"`
	Symbol     string  `json:"symbol"`
	Type       int     `json:"type"`
	Volume     float64 `json:"volume"`
	Price      float64 `json:"price"`
	Profit     float64 `json:"profit"`
	Swap       float64 `json:"swap"`
	Commission float64 `json:"commission"`
	Time       int64   `json:"time"`
	Magic      int64   `json:"magic"`
	Comment    string  `json:"comment"`
}

// AccountInfo - снимок состояния счёта
type AccountInfo struct {
	Login        int64   `json:"login"`
	Name         string  `json:"name"`
	Server       string  `json:"server"`
	Currency     string  `json:"currency"`
	Balance      float64 `json:"balance"`
	Equity       float64 `json:"equity"`
	Margin       float64 `json:"margin"`
	MarginFree   float64 `json:"margin_free"`
	MarginLevel  float64 `json:"margin_level"`
	Profit       float64 `json:"profit"`
	Leverage     int64   `json:"leverage"`
	TradeAllowed bool    `json:"trade_allowed"`
	TradeExpert  bool    `json:"trade_expert"`
}

// TradeRequest - торговый запрос терминалу (MqlTradeRequest).
// Указатели у SL/TP позволяют не передавать поле вовсе:
// для TradeActionSLTP нулевое значение и отсутствие значения различимы.
//
// Нулевые значения перечислений (buy, GTC) совпадают с умолчаниями
// терминала и опускаются в кадре; запрос TradeActionSLTP благодаря этому
// не несёт полей направления и политики исполнения.
type TradeRequest struct {
	Action      int      `json:"action"`
	Symbol      string   `json:"symbol"`
	Volume      float64  `json:"volume,omitempty"`
	Type        int      `json:"type,omitempty"`
	Price       float64  `json:"price,omitempty"`
	SL          *float64 `json:"sl,omitempty"`
	TP          *float64 `json:"tp,omitempty"`
	Deviation   int      `json:"deviation,omitempty"`
	Magic       int64    `json:"magic,omitempty"`
	Comment     string   `json:"comment,omitempty"`
	Position    int64    `json:"position,omitempty"`
	TypeTime    int      `json:"type_time,omitempty"`
	TypeFilling int      `json:"type_filling,omitempty"`
}

// TradeResult - ответ терминала на торговый запрос (MqlTradeResult)
type TradeResult struct {
	Retcode int     `json:"retcode"`
	Order   int64   `json:"order"`
	Deal    int64   `json:"deal"`
	Volume  float64 `json:"volume"`
	Price   float64 `json:"price"`
	Comment string  `json:"comment"`
}
