package models

import (
	"time"
)

// AuditLog представляет запись аудита в системе
// @Description	Audit log entry for user actions
type AuditLog struct {
	ID           string         `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	UserID       string         `json:"user_id"`
	ActionType   string         `json:"action_type"`
	ActionResult string         `json:"action_result"`
	IPAddress    string         `json:"ip_address"`
	UserAgent    string         `json:"user_agent"`
	Details      map[string]any `json:"details"`
}

// AuditActionType содержит константы для типов действий
type AuditActionType string

const (
	// Authentication actions
	AuditRegisterSuccess AuditActionType = "register_success"
	AuditLoginSuccess    AuditActionType = "login_success"
	AuditLogout          AuditActionType = "logout"

	// Link actions
	AuditLinkCreated AuditActionType = "link_created"
	AuditLinkUpdated AuditActionType = "link_updated"
	AuditLinkDeleted AuditActionType = "link_deleted"

	// Premium actions
	AuditPremiumAssigned AuditActionType = "premium_assigned"
	AuditPremiumExtended AuditActionType = "premium_extended"
	AuditPremiumRevoked  AuditActionType = "premium_revoked"
	AuditPremiumExpired  AuditActionType = "premium_expired"

	// Support actions
	AuditTicketStatusChanged AuditActionType = "ticket_status_changed"
)

// AuditActionResult содержит константы для результатов действий
type AuditActionResult string

const (
	AuditResultSuccess AuditActionResult = "success"
	AuditResultFailure AuditActionResult = "failure"
)

// GetAuditLogsResponse response for audit logs listing
// @Description	Audit logs list
type GetAuditLogsResponse struct {
	Logs  []*AuditLog `json:"logs"`
	Total int         `json:"total"`
	Limit int         `json:"limit"`
}
