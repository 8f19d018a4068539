package models

import "time"

// Статусы подписки пользователя.
const (
	SubscriptionStatusActive    = "ACTIVE"
	SubscriptionStatusScheduled = "SCHEDULED"
	SubscriptionStatusExpired   = "EXPIRED"
)

// SubscriptionPackage представляет тарифный план, доступный для покупки.
// У пробного плана цена и длительность фиксированы и не редактируются.
type SubscriptionPackage struct {
	ID            string // Уникальный идентификатор плана
	Name          string // Название плана
	Description   string // Описание
	PackagePrice  int    // Цена в рупиях
	DurationMonth int    // Длительность в месяцах
	IsTrial       bool   // Признак пробного плана
	IsActive      bool   // Доступен ли план для выбора
}

// UserSubscription представляет купленную пользователем подписку на план.
// Подписка с датой начала в будущем — «предстоящий» план, а не активный.
// Запись создаётся обработчиком платёжного колбэка и далее только читается.
type UserSubscription struct {
	ID                    string    // Уникальный идентификатор подписки
	UserUID               string    // Пользователь-владелец
	SubscriptionPackageID string    // Купленный план
	PaymentID             *string   // Платёж, создавший подписку
	StartDate             time.Time // Дата начала действия
	EndDate               time.Time // Дата окончания действия
	IsActive              bool      // Флаг, вычисленный сервером на момент выдачи
	Status                string    // ACTIVE, SCHEDULED или EXPIRED
	CreatedAt             time.Time // Дата создания записи
}
