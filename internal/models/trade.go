package models

// TradeIntent - намерение открыть сделку. Живёт в рамках одного запроса:
// из него строится торговый запрос терминалу, после чего оно отбрасывается.
type TradeIntent struct {
	Symbol  string   `json:"symbol"`
	Type    Side     `json:"type"`
	Volume  float64  `json:"volume"`
	SL      *float64 `json:"sl,omitempty"`
	TP      *float64 `json:"tp,omitempty"`
	Comment string   `json:"comment,omitempty"`
	Magic   int64    `json:"magic,omitempty"`
}

// OpenResult - нормализованный результат открытия сделки
type OpenResult struct {
	Ticket int64   `json:"ticket"` // тикет ордера
	Deal   int64   `json:"deal"`   // тикет сделки
	Volume float64 `json:"volume"` // исполненный объём
	Price  float64 `json:"price"`  // цена исполнения
	Symbol string  `json:"symbol"`
	Type   Side    `json:"type"`
}

// CloseResult - нормализованный результат закрытия позиции
type CloseResult struct {
	Ticket int64   `json:"ticket"`
	Deal   int64   `json:"deal"`
	Volume float64 `json:"volume"`
	Price  float64 `json:"price"`
	Profit float64 `json:"profit"` // профит позиции на момент закрытия
}

// ModifyResult - нормализованный результат изменения защитных уровней
type ModifyResult struct {
	SL float64 `json:"sl"`
	TP float64 `json:"tp"`
}
