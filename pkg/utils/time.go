package utils

import (
	"time"
)

// time.go - утилиты для работы со временем
//
// Назначение:
// Конвертация времени терминала (UNIX секунды) в ISO-8601 и построение
// скользящих окон для выборки истории сделок.
//
// Использование:
// - Нормализация временных полей позиций/ордеров/сделок
// - Окно 30 дней для листинга истории
// - Окно 1 час для оценки активности советника

// ISO8601FromUnix конвертирует UNIX секунды терминала в строку ISO-8601 (UTC)
//
// Пример:
//
//	ISO8601FromUnix(1700000000)
//	// "2023-11-14T22:13:20Z"
func ISO8601FromUnix(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}

// TimeRange представляет временной диапазон
type TimeRange struct {
	From time.Time
	To   time.Time
}

// Contains проверяет, попадает ли время в диапазон
func (tr TimeRange) Contains(t time.Time) bool {
	return !t.Before(tr.From) && !t.After(tr.To)
}

// Duration возвращает продолжительность диапазона
func (tr TimeRange) Duration() time.Duration {
	return tr.To.Sub(tr.From)
}

// RollingWindow возвращает диапазон [now-window; now].
//
// Пример:
//
//	// окно активности советника
//	RollingWindow(time.Now(), time.Hour)
func RollingWindow(now time.Time, window time.Duration) TimeRange {
	return TimeRange{
		From: now.Add(-window),
		To:   now,
	}
}

// LastHourRange возвращает скользящее окно последнего часа.
// Ровно 1 час до момента оценки - окно эвристики активности советника.
func LastHourRange(now time.Time) TimeRange {
	return RollingWindow(now, time.Hour)
}

// LastDaysRange возвращает скользящее окно последних n дней.
// Окно листинга истории сделок - 30 дней.
func LastDaysRange(now time.Time, days int) TimeRange {
	return RollingWindow(now, time.Duration(days)*24*time.Hour)
}
