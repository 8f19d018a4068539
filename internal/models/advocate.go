package models

// Advocate представляет профиль адвоката, связанный с учётной записью
// пользователя один к одному. Создаётся только при регистрации с ролью Advocate.
type Advocate struct {
	UserUID          string // Совпадает с User.UID
	UniqueNumber     string // Внутренний номер вида LAW-XXXX
	EnrollmentNumber string // Номер в реестре адвокатов
	Specialization   string // Специализация
	User             *User  // Учётная запись адвоката (заполняется при выборке)
}

// Client представляет клиента адвоката. Учётные данные хранятся
// в связанной записи User с тем же идентификатором.
type Client struct {
	UserUID     string // Совпадает с User.UID
	AdvocateUID string // Адвокат, который завёл клиента
	User        *User  // Учётная запись клиента
}
