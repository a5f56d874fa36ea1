package models

import "mt5gateway/internal/terminal"

// Side - нормализованное направление позиции/сделки.
//
// Терминал кодирует направление нетипизированным числом (0 = buy, 1 = sell).
// Магические числа не выходят за границу models: конвертация в enum
// выполняется сразу при чтении сырых записей терминала.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// SideFromType нормализует сырой код направления терминала
func SideFromType(t int) Side {
	if t == terminal.OrderTypeBuy {
		return SideBuy
	}
	return SideSell
}

// OrderType возвращает сырой код направления для торгового запроса
func (s Side) OrderType() int {
	if s == SideBuy {
		return terminal.OrderTypeBuy
	}
	return terminal.OrderTypeSell
}

// Opposite возвращает противоположное направление.
// Используется при закрытии позиции встречной сделкой.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Valid проверяет, что направление одно из двух допустимых
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}
