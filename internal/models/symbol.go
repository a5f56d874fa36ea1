package models

import "mt5gateway/internal/terminal"

// Symbol - видимый торговый инструмент
type Symbol struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	CurrencyBase   string `json:"currency_base"`
	CurrencyProfit string `json:"currency_profit"`
	Digits         int    `json:"digits"`
	TradeMode      int    `json:"trade_mode"`
}

// SymbolFromTerminal конвертирует сырую запись инструмента
func SymbolFromTerminal(s terminal.SymbolInfo) Symbol {
	return Symbol{
		Name:           s.Name,
		Description:    s.Description,
		CurrencyBase:   s.CurrencyBase,
		CurrencyProfit: s.CurrencyProfit,
		Digits:         s.Digits,
		TradeMode:      s.TradeMode,
	}
}
