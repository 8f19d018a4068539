// Package paymentprovider содержит тонкие HTTP-клиенты платёжных шлюзов
// PhonePe и Razorpay: создание заказа и проверка подписи колбэка.
package paymentprovider

// CreateOrderRequest — параметры создания заказа у провайдера.
type CreateOrderRequest struct {
	OrderID string // Внутренний идентификатор заказа
	Amount  int    // Сумма в рупиях
	UserUID string // Плательщик
}

// CreateOrderResponse — результат создания заказа у провайдера.
type CreateOrderResponse struct {
	ProviderOrderID string // Идентификатор заказа на стороне провайдера
	RedirectURL     string // Страница оплаты, на которую отправляется клиент
}
