package ydb

import "time"

// User представляет пользователя в системе
type User struct {
	UserID           string     `json:"user_id"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"password_hash"`
	DisplayName      *string    `json:"display_name,omitempty"`
	Role             string     `json:"role"`
	IsPremium        bool       `json:"is_premium"`
	PremiumTier      *string    `json:"premium_tier,omitempty"`
	PremiumExpiresAt *time.Time `json:"premium_expires_at,omitempty"`
	JoinedCommunity  bool       `json:"joined_community"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Типы источника видео
const (
	SourceTypeURL    = "url"
	SourceTypeUpload = "upload"
)

// VideoLink представляет короткую ссылку на видео
type VideoLink struct {
	LinkID      string     `json:"link_id"`
	OwnerID     string     `json:"owner_id"`
	ShortID     string     `json:"short_id"`
	ShortURL    string     `json:"short_url"`
	SourceType  string     `json:"source_type"`
	SourceURL   *string    `json:"source_url,omitempty"`
	StorageKey  *string    `json:"storage_key,omitempty"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Password    *string    `json:"-"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	IsEncrypted bool       `json:"is_encrypted"`
	Clicks      int64      `json:"clicks"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// HasPassword сообщает, защищена ли ссылка паролем
func (l *VideoLink) HasPassword() bool {
	return l.Password != nil && *l.Password != ""
}

// LinkPermission представляет email из списка доступа ссылки
type LinkPermission struct {
	LinkID    string    `json:"link_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// ClickEvent представляет одно успешное предоставление доступа к ссылке
type ClickEvent struct {
	EventID   string    `json:"event_id"`
	LinkID    string    `json:"link_id"`
	ClickedAt time.Time `json:"clicked_at"`
	UserAgent string    `json:"user_agent"`
	Country   string    `json:"country"`
	Device    string    `json:"device"`
}

// Статусы и приоритеты тикетов поддержки
const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"

	TicketPriorityNormal = "normal"
	TicketPriorityHigh   = "high"
)

// SupportTicket представляет обращение в поддержку
type SupportTicket struct {
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

// RefreshToken представляет refresh токен
type RefreshToken struct {
	TokenID   string    `json:"token_id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"token_hash"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	IsRevoked bool      `json:"is_revoked"`
}

// AuditLog представляет запись аудита
type AuditLog struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	UserID       *string   `json:"user_id,omitempty"`
	ActionType   string    `json:"action_type"`
	ActionResult string    `json:"action_result"`
	IPAddress    *string   `json:"ip_address,omitempty"`
	UserAgent    *string   `json:"user_agent,omitempty"`
	DetailsJSON  string    `json:"details"`
}

// AuditLogFilter описывает фильтры выборки аудита
type AuditLogFilter struct {
	UserID     string
	ActionType string
	Result     string
	From       *time.Time
	To         *time.Time
	Limit      int
}
