package domain

// MailMessage is a plain-text email ready to hand to a mail transport.
type MailMessage struct {
	To      string
	Subject string
	Body    string
}
