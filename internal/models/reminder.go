package models

import "time"

// RenewalReminder — событие о приближающемся окончании подписки адвоката.
// Публикуется планировщиком в RabbitMQ и потребляется отправителем писем.
type RenewalReminder struct {
	UserUID       string    `json:"userUid"`
	Email         string    `json:"email"`
	FirstName     string    `json:"firstName"`
	PackageName   string    `json:"packageName"`
	DaysRemaining int       `json:"daysRemaining"`
	EndDate       time.Time `json:"endDate"`
}
