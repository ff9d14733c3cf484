package ports

import "context"

// Mail is a single outbound e-mail.
type Mail struct {
	To       string
	Subject  string
	HTMLBody string
}

// Mailer delivers e-mail synchronously.
type Mailer interface {
	Send(ctx context.Context, m Mail) error
}

// MailQueue accepts e-mail for asynchronous delivery. Enqueue never blocks
// the caller on delivery.
type MailQueue interface {
	Enqueue(m Mail)
}
