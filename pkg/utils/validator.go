package utils

import (
	"math"
	"regexp"
)

// validator.go - валидация примитивов торгового запроса
//
// Назначение:
// Проверки входных значений до обращения к терминалу. Все функции чистые.

// symbolPattern - допустимые имена инструментов MT5: буквы, цифры и
// ограниченный набор знаков (суффиксы брокеров вида "EURUSD.m", "GER40#").
var symbolPattern = regexp.MustCompile(`^[A-Za-z0-9._#&-]{1,32}$`)

// ValidSymbol проверяет синтаксис имени инструмента.
// Существование инструмента проверяет терминал, не шлюз.
func ValidSymbol(symbol string) bool {
	return symbolPattern.MatchString(symbol)
}

// ValidVolume проверяет объём: конечное число строго больше нуля
func ValidVolume(volume float64) bool {
	return !math.IsNaN(volume) && !math.IsInf(volume, 0) && volume > 0
}

// ValidPrice проверяет ценовой уровень: конечное неотрицательное число.
// Ноль допустим - им терминал кодирует "уровень не установлен".
func ValidPrice(price float64) bool {
	return !math.IsNaN(price) && !math.IsInf(price, 0) && price >= 0
}
