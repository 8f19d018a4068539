// Package subscription содержит бизнес-логику тарифных планов и подписок.
//
// Функции оценки статуса подписки чистые: текущее время передаётся
// параметром, побочных эффектов нет.
package subscription

import (
	"time"

	"github.com/caseconnect/casetracker/internal/models"
)

// RenewalWindowDays — за сколько дней до окончания подписки пользователю
// разрешается купить следующий план и отправляется напоминание.
const RenewalWindowDays = 7

// IsSubscriptionActive сообщает, действует ли подписка пользователя.
// Подписка проверяется только для адвокатов: остальные роли считаются
// активными безусловно. Подписка, истекающая ровно сейчас, уже не действует.
func IsSubscriptionActive(role string, sub *models.UserSubscription, now time.Time) bool {
	if role != models.RoleAdvocate {
		return true
	}
	if sub == nil {
		return false
	}
	return sub.EndDate.After(now)
}

// DaysRemaining возвращает число дней до окончания подписки,
// округлённое вверх. Без подписки или после окончания срока — 0.
func DaysRemaining(sub *models.UserSubscription, now time.Time) int {
	if sub == nil {
		return 0
	}
	left := sub.EndDate.Sub(now)
	if left <= 0 {
		return 0
	}
	days := int(left / (24 * time.Hour))
	if left%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// HasFuturePlan сообщает, что подписка ещё не началась: дата начала
// строго позже текущего момента.
func HasFuturePlan(sub *models.UserSubscription, now time.Time) bool {
	if sub == nil {
		return false
	}
	return sub.StartDate.After(now)
}

// CanPurchaseNewPlan сообщает, разрешена ли покупка нового плана:
// подписка не действует либо заканчивается в ближайшую неделю.
// Вызывающий код дополнительно проверяет отсутствие предстоящего плана.
func CanPurchaseNewPlan(active bool, daysRemaining int) bool {
	return !active || daysRemaining <= RenewalWindowDays
}
