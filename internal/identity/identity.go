// Package identity describes who is calling: the authenticated user with their role
// and effective premium state.
package identity

import (
	"time"

	"github.com/lumiforge/vidlinkgen-backend/internal/rbac"
	"github.com/lumiforge/vidlinkgen-backend/internal/ydb"
)

// Context текущий пользователь запроса. Nil означает анонимного посетителя.
type Context struct {
	UserID           string
	Email            string
	DisplayName      string
	Role             rbac.Role
	PremiumTier      string
	PremiumExpiresAt *time.Time
	JoinedCommunity  bool

	premium bool
}

// FromUser строит контекст из записи пользователя. Премиум активен только если
// тариф задан и срок не истек; флаг is_premium из базы не используется напрямую.
func FromUser(u *ydb.User, now time.Time) *Context {
	if u == nil {
		return nil
	}
	c := &Context{
		UserID:           u.UserID,
		Email:            u.Email,
		Role:             rbac.Role(u.Role),
		PremiumExpiresAt: u.PremiumExpiresAt,
		JoinedCommunity:  u.JoinedCommunity,
	}
	if c.Role == "" {
		c.Role = rbac.RoleMember
	}
	if u.DisplayName != nil {
		c.DisplayName = *u.DisplayName
	}
	if u.PremiumTier != nil {
		c.PremiumTier = *u.PremiumTier
	}
	c.premium = EffectivePremium(u.PremiumTier, u.PremiumExpiresAt, now)
	return c
}

// EffectivePremium true iff тариф задан и срок не задан или в будущем
func EffectivePremium(tier *string, expiresAt *time.Time, now time.Time) bool {
	if tier == nil || *tier == "" {
		return false
	}
	return expiresAt == nil || expiresAt.After(now)
}

func (c *Context) IsAuthenticated() bool {
	return c != nil && c.UserID != ""
}

func (c *Context) IsAdmin() bool {
	return c != nil && c.Role == rbac.RoleAdmin
}

// IsPremium действующий премиум тариф, без учета роли
func (c *Context) IsPremium() bool {
	return c != nil && c.premium
}

// CanUsePremium true для премиум пользователей и администраторов
func (c *Context) CanUsePremium() bool {
	return c.IsAdmin() || c.IsPremium()
}

// Tier тариф для лимитов загрузки. Пустая строка означает бесплатный тариф.
func (c *Context) Tier() string {
	if !c.IsPremium() {
		return ""
	}
	return c.PremiumTier
}
