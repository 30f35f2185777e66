package ydb

import (
	"context"
	"time"
)

// Database интерфейс хранилища записей. Реализуется YDBClient и postgres.Store.
// Отсутствующие записи возвращаются как app_errors.ErrRecordNotFound.
type Database interface {
	// User operations
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
	UpdateUserPremium(ctx context.Context, userID string, isPremium bool, tier *string, expiresAt *time.Time) error
	ListUsers(ctx context.Context, limit, offset int) ([]*User, int64, error)
	ListPremiumUsersExpiringBefore(ctx context.Context, before time.Time) ([]*User, error)

	// RefreshToken operations
	CreateRefreshToken(ctx context.Context, token *RefreshToken) error
	GetRefreshToken(ctx context.Context, tokenHash string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserRefreshTokens(ctx context.Context, userID string) error

	// VideoLink operations
	CreateLink(ctx context.Context, link *VideoLink) error
	GetLinkByID(ctx context.Context, linkID string) (*VideoLink, error)
	GetLinkByShortID(ctx context.Context, shortID string) (*VideoLink, error)
	// UpdateLink не изменяет счетчик clicks
	UpdateLink(ctx context.Context, link *VideoLink) error
	// DeleteLink удаляет ссылку вместе со списком доступа и событиями кликов
	DeleteLink(ctx context.Context, linkID string) error
	ListLinksByOwner(ctx context.Context, ownerID string) ([]*VideoLink, error)
	ListAllLinks(ctx context.Context) ([]*VideoLink, error)
	CountLinksByOwner(ctx context.Context, ownerID string) (int64, error)

	// LinkPermission operations
	GetLinkPermissions(ctx context.Context, linkID string) ([]*LinkPermission, error)
	AddLinkPermissions(ctx context.Context, linkID string, emails []string) error
	RemoveLinkPermissions(ctx context.Context, linkID string, emails []string) error

	// Click operations
	// RecordClick атомарно сохраняет событие и увеличивает счетчик ссылки, возвращает новое значение
	RecordClick(ctx context.Context, event *ClickEvent) (int64, error)
	ListClickEvents(ctx context.Context, linkID string, since time.Time) ([]*ClickEvent, error)

	// SupportTicket operations
	CreateTicket(ctx context.Context, ticket *SupportTicket) error
	GetTicket(ctx context.Context, ticketID string) (*SupportTicket, error)
	ListTicketsByUser(ctx context.Context, userID string) ([]*SupportTicket, error)
	ListTickets(ctx context.Context, status string) ([]*SupportTicket, error)
	UpdateTicketStatus(ctx context.Context, ticketID, status string, updatedAt time.Time) error

	// Audit operations
	CreateAuditLog(ctx context.Context, log *AuditLog) error
	ListAuditLogs(ctx context.Context, filter *AuditLogFilter) ([]*AuditLog, error)

	// Close закрывает соединение
	Close() error
}
