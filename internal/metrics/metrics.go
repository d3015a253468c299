// Package metrics объявляет счетчики Prometheus для основных бизнес-операций.
// Сами значения отдаются наружу через promhttp на /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RegistrationsTotal количество успешных регистраций.
	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_registrations_total",
		Help: "Total number of successful user registrations",
	})

	// LoginsTotal количество успешных входов.
	LoginsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_logins_total",
		Help: "Total number of successful logins",
	})

	// OrdersCreatedTotal количество оформленных заказов.
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_created_total",
		Help: "Total number of orders created at checkout",
	})

	// OrdersTotalAmount суммарная стоимость оформленных заказов.
	OrdersTotalAmount = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_amount_total",
		Help: "Total amount of all created orders",
	})

	// ChatMessagesTotal количество обработанных сообщений чат-бота.
	ChatMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_chat_messages_total",
		Help: "Total number of chatbot messages processed",
	})
)
