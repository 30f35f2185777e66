package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lumiforge/vidlinkgen-backend/internal/audit"
	"github.com/lumiforge/vidlinkgen-backend/internal/email"
	"github.com/lumiforge/vidlinkgen-backend/internal/identity"
	"github.com/lumiforge/vidlinkgen-backend/internal/models"
	"github.com/lumiforge/vidlinkgen-backend/internal/ydb"
)

const (
	checkInterval = time.Hour
	warnWindow    = 24 * time.Hour
	// окно выборки шире интервала, чтобы не пропустить пользователя между проверками
	lookahead = warnWindow + checkInterval
	dedupeTTL = 48 * time.Hour
)

// Mailer письма об окончании тарифа
type Mailer interface {
	SendPremiumExpiringEmail(ctx context.Context, toEmail, tier string, expiresAt time.Time) (*email.EmailMessage, error)
	SendPremiumExpiredEmail(ctx context.Context, toEmail, tier string) (*email.EmailMessage, error)
}

// Deduper атомарно помечает ключ, возвращает false если он уже был помечен
type Deduper interface {
	SetOnce(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// Checker фоновая проверка сроков премиума
type Checker struct {
	db     ydb.Database
	mailer Mailer
	dedupe Deduper
	hub    *identity.Hub
	audit  *audit.Service
	log    *slog.Logger
	now    func() time.Time
}

// NewChecker создает проверку. dedupe может быть nil, тогда предупреждение уйдет при каждой проверке в окне.
func NewChecker(db ydb.Database, mailer Mailer, dedupe Deduper, hub *identity.Hub, auditService *audit.Service, log *slog.Logger) *Checker {
	if log == nil {
		log = slog.Default()
	}
	return &Checker{
		db:     db,
		mailer: mailer,
		dedupe: dedupe,
		hub:    hub,
		audit:  auditService,
		log:    log,
		now:    time.Now,
	}
}

// Start запускает проверку раз в час до отмены контекста
func (c *Checker) Start(ctx context.Context) {
	ticker := time.NewTicker(checkInterval)
	defer ticker.Stop()
	c.log.Info("Background premium expiry worker started")

	// Первая проверка сразу при старте
	c.CheckOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			c.log.Info("Background premium expiry worker stopped")
			return
		case <-ticker.C:
			c.CheckOnce(ctx)
		}
	}
}

// CheckOnce предупреждает о скором окончании и снимает флаг премиума у истекших
func (c *Checker) CheckOnce(ctx context.Context) {
	now := c.now()

	users, err := c.db.ListPremiumUsersExpiringBefore(ctx, now.Add(lookahead))
	if err != nil {
		c.log.Error("Error querying expiring premium users", "error", err)
		return
	}

	for _, u := range users {
		if u.PremiumExpiresAt == nil {
			continue
		}
		if u.PremiumExpiresAt.After(now) {
			c.warn(ctx, u, now)
			continue
		}
		c.expire(ctx, u, now)
	}
}

func (c *Checker) warn(ctx context.Context, u *ydb.User, now time.Time) {
	if u.PremiumExpiresAt.Sub(now) > warnWindow {
		return
	}

	if c.dedupe != nil {
		key := fmt.Sprintf("notified_24h_%s", u.UserID)
		first, err := c.dedupe.SetOnce(ctx, key, dedupeTTL)
		if err != nil {
			c.log.Warn("Failed to mark expiry notification", "error", err, "user_id", u.UserID)
			return
		}
		if !first {
			return
		}
	}

	if _, err := c.mailer.SendPremiumExpiringEmail(ctx, u.Email, tierOf(u), *u.PremiumExpiresAt); err != nil {
		c.log.Warn("Failed to send 24h expiry notification", "error", err, "user_id", u.UserID)
		return
	}
	c.log.Info("Sent 24h expiry notification", "user_id", u.UserID)
}

// expire снимает флаг, но оставляет тариф и дату, чтобы продление считалось от сохраненного срока
func (c *Checker) expire(ctx context.Context, u *ydb.User, now time.Time) {
	c.log.Info("Premium expired", "user_id", u.UserID, "expires_at", u.PremiumExpiresAt)

	if err := c.db.UpdateUserPremium(ctx, u.UserID, false, u.PremiumTier, u.PremiumExpiresAt); err != nil {
		c.log.Error("Failed to clear premium flag", "error", err, "user_id", u.UserID)
		return
	}

	u.IsPremium = false
	c.hub.Publish(identity.Event{
		Type:     identity.EventPremiumChanged,
		UserID:   u.UserID,
		Identity: identity.FromUser(u, now),
		At:       now,
	})

	if c.audit != nil {
		userID := u.UserID
		_ = c.audit.LogAction(ctx, audit.Record{
			UserID:     &userID,
			ActionType: string(models.AuditPremiumExpired),
			Details:    map[string]any{"tier": tierOf(u)},
		})
	}

	if _, err := c.mailer.SendPremiumExpiredEmail(ctx, u.Email, tierOf(u)); err != nil {
		c.log.Warn("Failed to send expiration notification", "error", err, "user_id", u.UserID)
	}
}

func tierOf(u *ydb.User) string {
	if u.PremiumTier == nil {
		return ""
	}
	return *u.PremiumTier
}
