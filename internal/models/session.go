package models

import "time"

// ConnectionMarker - отметка о выполненном логине.
//
// Процесс-локальная и НЕ авторитетная запись: источником истины о живой
// сессии остаётся сам терминал. Реестр отметок нужен только для health
// и диагностики.
type ConnectionMarker struct {
	ConnectionID string    `json:"connection_id"` // account@server
	Account      int64     `json:"account"`
	Server       string    `json:"server"`
	LoginTime    time.Time `json:"login_time"`
}

// Health - состояние шлюза для health check
type Health struct {
	Status            string `json:"status"`
	MT5Available      bool   `json:"mt5_available"`
	ActiveConnections int    `json:"active_connections"`
	Timestamp         string `json:"timestamp"`
}
