package models

import (
	"mt5gateway/internal/terminal"
	"mt5gateway/pkg/utils"
)

// Deal представляет исполненную сделку - неизменяемую запись о фактическом
// исполнении. Отличать от позиции (текущая экспозиция) и ордера
// (ожидающее поручение).
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
	Time       string  `json:"time"`
	Magic      int64   `json:"magic"`
	Comment    string  `json:"comment"`
}

// DealFromTerminal нормализует сырую запись сделки терминала
func DealFromTerminal(d terminal.Deal) Deal {
	return Deal{
		Ticket:     d.Ticket,
		Order:      d.Order,
		Symbol:     d.Symbol,
		Type:       d.Type,
		Volume:     d.Volume,
		Price:      d.Price,
		Profit:     d.Profit,
		Swap:       d.Swap,
		Commission: d.Commission,
		Time:       utils.ISO8601FromUnix(d.Time),
		Magic:      d.Magic,
		Comment:    d.Comment,
	}
}

// DealsFromTerminal нормализует список сделок
func DealsFromTerminal(raw []terminal.Deal) []Deal {
	out := make([]Deal, 0, len(raw))
	for _, d := range raw {
		out = append(out, DealFromTerminal(d))
	}
	return out
}
