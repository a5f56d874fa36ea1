package models

import "mt5gateway/internal/terminal"

// Account - снимок состояния счёта. Всегда берётся у терминала вживую,
// локального кеша нет.
type Account struct {
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

// AccountFromTerminal конвертирует сырой снимок счёта
func AccountFromTerminal(a *terminal.AccountInfo) Account {
	return Account{
		Login:        a.Login,
		Name:         a.Name,
		Server:       a.Server,
		Currency:     a.Currency,
		Balance:      a.Balance,
		Equity:       a.Equity,
		Margin:       a.Margin,
		MarginFree:   a.MarginFree,
		MarginLevel:  a.MarginLevel,
		Profit:       a.Profit,
		Leverage:     a.Leverage,
		TradeAllowed: a.TradeAllowed,
		TradeExpert:  a.TradeExpert,
	}
}

// AccountExtended - счёт вместе с агрегатами по открытым позициям
type AccountExtended struct {
	Account
	PositionsSummary
	Positions []Position `json:"positions"`
}

// EAPosition - сокращённый вид позиции, открытой советником
type EAPosition struct {
	Ticket int64   `json:"ticket"`
	Symbol string  `json:"symbol"`
	Type   Side    `json:"type"`
	Volume float64 `json:"volume"`
	Profit float64 `json:"profit"`
}

// EAStatus - производное состояние активности советника (EA).
//
// Прямого сигнала "советник запущен" терминал не даёт, поэтому активность
// выводится эвристикой из побочных эффектов: открытых позиций с magic
// советника и недавних исполнений.
type EAStatus struct {
	Active             bool         `json:"ea_active"`
	TradeExpertAllowed bool         `json:"trade_expert_allowed"`
	PositionsCount     int          `json:"ea_positions_count"`
	TotalVolume        float64      `json:"ea_total_volume"`
	TotalProfit        float64      `json:"ea_total_profit"`
	RecentTrades       int          `json:"ea_recent_trades"`
	MagicNumber        int64        `json:"magic_number"`
	Positions          []EAPosition `json:"ea_positions"`
}
