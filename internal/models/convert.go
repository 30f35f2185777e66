package models

import (
	"time"

	"github.com/lumiforge/vidlinkgen-backend/internal/identity"
	"github.com/lumiforge/vidlinkgen-backend/internal/ydb"
)

// NewUserInfo строит публичное представление пользователя с вычисленным премиум статусом
func NewUserInfo(u *ydb.User, now time.Time) *UserInfo {
	if u == nil {
		return nil
	}
	info := &UserInfo{
		UserID:           u.UserID,
		Email:            u.Email,
		Role:             u.Role,
		IsPremium:        identity.EffectivePremium(u.PremiumTier, u.PremiumExpiresAt, now),
		PremiumExpiresAt: u.PremiumExpiresAt,
		JoinedCommunity:  u.JoinedCommunity,
		CreatedAt:        u.CreatedAt,
	}
	if u.DisplayName != nil {
		info.DisplayName = *u.DisplayName
	}
	if u.PremiumTier != nil {
		info.PremiumTier = *u.PremiumTier
	}
	return info
}

// NewTicketResponse конвертирует запись обращения
func NewTicketResponse(t *ydb.SupportTicket) *TicketResponse {
	return &TicketResponse{
		TicketID:  t.TicketID,
		UserID:    t.UserID,
		Email:     t.Email,
		Subject:   t.Subject,
		Message:   t.Message,
		Category:  t.Category,
		Priority:  t.Priority,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
