package models

import (
	"mt5gateway/internal/terminal"
	"mt5gateway/pkg/utils"
)

// Order представляет отложенный ордер. Со стороны шлюза сущность
// только для чтения. Тип ордера отдаётся сырым кодом терминала:
// отложенные типы не ограничены парой buy/sell (stop, limit, stop-limit).
type Order struct {
	Ticket    int64   `json:"ticket"`
	Symbol    string  `json:"symbol"`
	Type      int     `json:"type"`
	Volume    float64 `json:"volume"`
	PriceOpen float64 `json:"price_open"`
	SL        float64 `json:"sl"`
	TP        float64 `json:"tp"`
	TimeSetup string  `json:"time_setup"`
	Magic     int64   `json:"magic"`
	Comment   string  `json:"comment"`
}

// OrderFromTerminal нормализует сырую запись ордера терминала
func OrderFromTerminal(o terminal.Order) Order {
	return Order{
		Ticket:    o.Ticket,
		Symbol:    o.Symbol,
		Type:      o.Type,
		Volume:    o.VolumeCurrent,
		PriceOpen: o.PriceOpen,
		SL:        o.SL,
		TP:        o.TP,
		TimeSetup: utils.ISO8601FromUnix(o.TimeSetup),
		Magic:     o.Magic,
		Comment:   o.Comment,
	}
}

// OrdersFromTerminal нормализует список ордеров
func OrdersFromTerminal(raw []terminal.Order) []Order {
	out := make([]Order, 0, len(raw))
	for _, o := range raw {
		out = append(out, OrderFromTerminal(o))
	}
	return out
}
