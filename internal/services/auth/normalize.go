package auth

import (
	"time"

	"github.com/caseconnect/casetracker/internal/models"
)

// WireUser — форма пользователя в ответах исторического API входа и
// регистрации: поля firstname/lastname/createdAt в нижнем регистре,
// признак активности может отсутствовать.
type WireUser struct {
	ID                    string    `json:"id"`
	Username              string    `json:"username"`
	Email                 string    `json:"email,omitempty"`
	Firstname             string    `json:"firstname"`
	Lastname              string    `json:"lastname"`
	Role                  string    `json:"role"`
	CreatedAt             time.Time `json:"createdAt"`
	IsActive              *bool     `json:"isActive,omitempty"`
	SubscriptionPackageID string    `json:"subscriptionPackageId,omitempty"`
}

// Normalize переводит историческую форму в каноническую. Это единственное
// место, где псевдонимы старого API (firstname, lastname, createdAt)
// приводятся к canonical-представлению; отсутствующий isActive считается true.
func Normalize(w WireUser) models.AuthUser {
	isActive := true
	if w.IsActive != nil {
		isActive = *w.IsActive
	}
	return models.AuthUser{
		ID:                    w.ID,
		Email:                 w.Email,
		FirstName:             w.Firstname,
		LastName:              w.Lastname,
		Role:                  w.Role,
		IsActive:              isActive,
		CreatedOn:             w.CreatedAt,
		SubscriptionPackageID: w.SubscriptionPackageID,
	}
}
