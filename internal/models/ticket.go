package models

import "time"

// CreateTicketRequest represents a support ticket submission
type CreateTicketRequest struct {
	Subject  string `json:"subject"`
	Message  string `json:"message"`
	Category string `json:"category"`
}

// UpdateTicketStatusRequest admin status change
type UpdateTicketStatusRequest struct {
	Status string `json:"status"`
}

// TicketResponse support ticket as returned by the API
type TicketResponse struct {
	TicketID  string    `json:"ticket_id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Category  string    `json:"category"`
	Priority  string    `json:"priority"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListTicketsResponse list of tickets
type ListTicketsResponse struct {
	Tickets []*TicketResponse `json:"tickets"`
	Total   int               `json:"total"`
}
