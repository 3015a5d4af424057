// Package smtp содержит подключение к почтовому серверу для рассылки уведомлений.
package smtp

import "io"

// Client часть *smtp.Client, которой достаточно для отправки одного письма.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}
