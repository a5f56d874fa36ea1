package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================
// Prometheus метрики шлюза
// ============================================================
//
// Использование:
// - Grafana дашборды для визуализации
// - Alertmanager для уведомлений о деградации моста терминала

// OrderSendLatency - время исполнения торгового запроса терминалом
var OrderSendLatency = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "mt5gateway",
		Subsystem: "trading",
		Name:      "order_send_latency_ms",
		Help:      "Time to execute a trade request on the terminal in milliseconds",
		Buckets:   []float64{50, 100, 200, 300, 500, 1000, 2000, 5000},
	},
	[]string{"action"},
)

// OrdersSubmitted - количество торговых запросов по действию и исходу
var OrdersSubmitted = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "mt5gateway",
		Subsystem: "trading",
		Name:      "orders_submitted_total",
		Help:      "Total number of trade requests by action and outcome",
	},
	[]string{"action", "outcome"},
)

// TerminalCallErrors - ошибки вызовов фасада терминала по операциям
var TerminalCallErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "mt5gateway",
		Subsystem: "terminal",
		Name:      "call_errors_total",
		Help:      "Total number of failed terminal facade calls by operation",
	},
	[]string{"op"},
)
