// Package smtp предоставляет почтовый транспорт для писем-напоминаний
// о продлении подписки.
package smtp

import "io"

// Client — подмножество операций smtp.Client, которое использует
// отправитель напоминаний. Выделено в интерфейс для подмены в тестах.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface устанавливает соединение с почтовым сервером
// и сообщает адрес отправителя писем.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
