package smtp

import "io"

// Client минимальный интерфейс SMTP клиента, нужный сервису отправки.
// Выделен для подмены в тестах.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}
