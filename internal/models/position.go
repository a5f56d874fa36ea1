package models

import (
	"mt5gateway/internal/terminal"
	"mt5gateway/pkg/utils"
)

// Position представляет открытую позицию в нормализованном виде:
// направление переведено в enum, время - в ISO-8601.
//
// Шлюз позициями не владеет: терминал создаёт их при исполнении
// открывающего ордера и удаляет при исполнении закрывающего. Здесь
// только чтение и выдача намерений close/modify.
type Position struct {
	Ticket       int64   `json:"ticket"`
	Symbol       string  `json:"symbol"`
	Type         Side    `json:"type"`
	Volume       float64 `json:"volume"`
	PriceOpen    float64 `json:"price_open"`
	PriceCurrent float64 `json:"price_current"`
	SL           float64 `json:"sl"`
	TP           float64 `json:"tp"`
	Profit       float64 `json:"profit"`
	Swap         float64 `json:"swap"`
	Time         string  `json:"time"`
	Magic        int64   `json:"magic"`
	Comment      string  `json:"comment"`
}

// PositionFromTerminal нормализует сырую запись позиции терминала
func PositionFromTerminal(p terminal.Position) Position {
	return Position{
		Ticket:       p.Ticket,
		Symbol:       p.Symbol,
		Type:         SideFromType(p.Type),
		Volume:       p.Volume,
		PriceOpen:    p.PriceOpen,
		PriceCurrent: p.PriceCurrent,
		SL:           p.SL,
		TP:           p.TP,
		Profit:       p.Profit,
		Swap:         p.Swap,
		Time:         utils.ISO8601FromUnix(p.Time),
		Magic:        p.Magic,
		Comment:      p.Comment,
	}
}

// PositionsFromTerminal нормализует список позиций.
// Пустой вход даёт пустой список, не nil - JSON должен отдавать [].
func PositionsFromTerminal(raw []terminal.Position) []Position {
	out := make([]Position, 0, len(raw))
	for _, p := range raw {
		out = append(out, PositionFromTerminal(p))
	}
	return out
}

// PositionsSummary - агрегаты по набору открытых позиций
type PositionsSummary struct {
	Count       int     `json:"open_positions_count"`
	TotalVolume float64 `json:"total_lot_size"`
	TotalProfit float64 `json:"positions_profit"`
}

// SummarizePositions считает агрегаты по сырому набору позиций.
// Чистая функция от снимка: пустой набор даёт нулевые суммы.
func SummarizePositions(raw []terminal.Position) PositionsSummary {
	var s PositionsSummary
	for _, p := range raw {
		s.Count++
		s.TotalVolume += p.Volume
		s.TotalProfit += p.Profit
	}
	return s
}
