// Package models содержит доменные структуры системы учёта судебных дел:
// пользователей, адвокатов, клиентов, дела, подписки и платежи.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей системы. Роль присваивается при регистрации
// и с точки зрения клиента неизменна.
const (
	RoleAdvocate   = "Advocate"
	RoleClient     = "Client"
	RoleSuperAdmin = "SuperAdmin"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string     // Уникальный идентификатор пользователя
	FirstName    string     // Имя
	LastName     string     // Фамилия
	Email        string     // Электронная почта (уникальная)
	Username     string     // Имя пользователя (уникальное)
	PasswordHash string     // Хэш пароля пользователя
	Role         string     // Роль: Advocate, Client или SuperAdmin
	IsActive     bool       // Признак активности учётной записи
	CreatedAt    time.Time  // Дата создания
	ModifiedAt   *time.Time // Дата последнего изменения
}

// AuthUser — каноническое представление аутентифицированного пользователя.
// Это единственная форма, которую видит остальная система: поля старого
// API (username, firstname, lastname) приводятся к ней одной функцией
// нормализации на границе сервиса аутентификации.
type AuthUser struct {
	ID                    string    `json:"id"`
	Email                 string    `json:"email"`
	FirstName             string    `json:"firstName"`
	LastName              string    `json:"lastName"`
	Role                  string    `json:"role"`
	IsActive              bool      `json:"isActive"`
	CreatedOn             time.Time `json:"createdOn"`
	SubscriptionPackageID string    `json:"subscriptionPackageId,omitempty"`
}

// FullName возвращает имя и фамилию одной строкой.
func (u *AuthUser) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
