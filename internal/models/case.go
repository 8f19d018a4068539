package models

import "time"

// Статусы судебного дела.
const (
	CaseStatusOpen   = "Open"
	CaseStatusClosed = "Closed"
	CaseStatusOnHold = "On Hold"
)

// Case представляет судебное дело, которое ведёт адвокат для клиента.
type Case struct {
	ID            string          // Уникальный идентификатор дела
	ClientUID     string          // Клиент, к которому относится дело
	AdvocateUID   string          // Адвокат, ведущий дело
	Title         string          // Название дела
	Detail        string          // Описание и заметки по делу
	Number        string          // Номер дела в суде
	HearingDate   time.Time       // Дата ближайшего заседания
	CourtLocation string          // Суд, в котором слушается дело
	ParentID      *string         // Родительское дело (для связанных дел)
	FilingDate    time.Time       // Дата подачи
	Status        string          // Open, Closed или On Hold
	Documents     []*CaseDocument // Прикреплённые документы
}

// CaseDocument представляет документ, прикреплённый к делу.
// Файл сохраняется как есть, система не разбирает его содержимое.
type CaseDocument struct {
	ID        string    // Уникальный идентификатор документа
	CaseID    string    // Дело, к которому прикреплён документ
	URL       string    // Путь к сохранённому файлу
	FileName  string    // Исходное имя файла
	Type      string    // MIME-тип
	CreatedAt time.Time // Дата загрузки
}
