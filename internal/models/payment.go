package models

import "time"

// Статусы платежа, как их сообщают платёжные шлюзы.
const (
	PaymentStatusInitiated = "INITIATED"
	PaymentStatusSuccess   = "SUCCESS"
	PaymentStatusFailed    = "FAILED"
)

// Поддерживаемые платёжные шлюзы.
const (
	GatewayPhonePe  = "PhonePe"
	GatewayRazorpay = "Razorpay"
)

// Payment представляет платёж за тарифный план, инициированный через
// один из платёжных шлюзов. Подтверждение приходит отдельным колбэком.
type Payment struct {
	ID                    string    // Уникальный идентификатор платежа
	OrderID               string    // Идентификатор заказа у шлюза
	Amount                int       // Сумма в рупиях
	Status                string    // INITIATED, SUCCESS или FAILED
	SubscriptionPackageID string    // Оплачиваемый план
	UserUID               string    // Плательщик
	PaymentDate           time.Time // Дата последнего изменения статуса
	ProviderTransactionID *string   // Идентификатор транзакции у шлюза
	PaymentMode           *string   // Шлюз, через который прошёл платёж
}
