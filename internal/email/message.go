package email

import "time"

// EmailType тип отправляемого письма
type EmailType string

const (
	EmailTypeWelcome         EmailType = "welcome"
	EmailTypeTicketCreated   EmailType = "ticket_created"
	EmailTypeTicketReceived  EmailType = "ticket_received"
	EmailTypePremiumExpiring EmailType = "premium_expiring"
	EmailTypePremiumExpired  EmailType = "premium_expired"
)

// EmailStatus статус доставки письма
type EmailStatus string

const (
	EmailStatusSent    EmailStatus = "sent"
	EmailStatusFailed  EmailStatus = "failed"
	EmailStatusSkipped EmailStatus = "skipped"
)

// EmailMessage результат отправки письма
type EmailMessage struct {
	Type      EmailType   `json:"type"`
	Recipient string      `json:"recipient"`
	Subject   string      `json:"subject"`
	Body      string      `json:"body"`
	Status    EmailStatus `json:"status"`
	SentAt    time.Time   `json:"sent_at"`
	Error     string      `json:"error,omitempty"`
}

// TicketNotice данные тикета для писем поддержки
type TicketNotice struct {
	TicketID string
	Email    string
	Subject  string
	Message  string
	Category string
	Priority string
}
