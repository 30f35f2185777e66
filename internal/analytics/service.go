// Package analytics aggregates click events and link counters into daily series and rollups.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	app_errors "github.com/lumiforge/vidlinkgen-backend/internal/errors"
	"github.com/lumiforge/vidlinkgen-backend/internal/identity"
	"github.com/lumiforge/vidlinkgen-backend/internal/models"
	"github.com/lumiforge/vidlinkgen-backend/internal/rbac"
	"github.com/lumiforge/vidlinkgen-backend/internal/ydb"
)

const (
	DefaultDays   = 7
	maxDays       = 90
	usersPageSize = 500
)

// Service только читает хранилище
type Service struct {
	db   ydb.Database
	rbac *rbac.RBAC
	loc  *time.Location
	now  func() time.Time
}

// NewService создает сервис аналитики. Дни считаются в зоне loc.
func NewService(db ydb.Database, rbacManager *rbac.RBAC, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{db: db, rbac: rbacManager, loc: loc, now: time.Now}
}

// DailySeries клики ссылки по дням за последние days дней, включая сегодня
func (s *Service) DailySeries(ctx context.Context, actor *identity.Context, linkID string, days int) (*models.LinkAnalyticsResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, app_errors.ErrUnauthenticated
	}
	if days <= 0 {
		days = DefaultDays
	}
	if days > maxDays {
		days = maxDays
	}

	l, err := s.db.GetLinkByID(ctx, linkID)
	if err != nil {
		if errors.Is(err, app_errors.ErrRecordNotFound) {
			return nil, app_errors.ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	if !s.canView(actor, l) {
		return nil, app_errors.ErrNotOwner
	}

	now := s.now()
	events, err := s.db.ListClickEvents(ctx, l.LinkID, SeriesStart(now, s.loc, days).UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list click events: %w", err)
	}

	return &models.LinkAnalyticsResponse{
		LinkID:      l.LinkID,
		Name:        l.Name,
		TotalClicks: l.Clicks,
		Days:        BucketDaily(events, now, s.loc, days),
	}, nil
}

// Summary сводка по ссылкам пользователя
func (s *Service) Summary(ctx context.Context, actor *identity.Context) (*models.SummaryResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, app_errors.ErrUnauthenticated
	}
	links, err := s.db.ListLinksByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	summary := Summarize(links, s.now(), s.loc)
	return &summary, nil
}

// FleetSummary сводка по всем ссылкам, пользователям и открытым обращениям
func (s *Service) FleetSummary(ctx context.Context, actor *identity.Context) (*models.FleetSummaryResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, app_errors.ErrUnauthenticated
	}
	if !s.rbac.CheckPermissionWithRole(actor.Role, rbac.PermissionAdminViewLinks) {
		return nil, app_errors.ErrForbidden
	}

	now := s.now()
	links, err := s.db.ListAllLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	resp := &models.FleetSummaryResponse{SummaryResponse: Summarize(links, now, s.loc)}

	for offset := 0; ; offset += usersPageSize {
		users, total, err := s.db.ListUsers(ctx, usersPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		resp.TotalUsers = total
		for _, u := range users {
			if identity.EffectivePremium(u.PremiumTier, u.PremiumExpiresAt, now) {
				resp.PremiumUsers++
			}
		}
		if len(users) < usersPageSize || int64(offset+len(users)) >= total {
			break
		}
	}

	tickets, err := s.db.ListTickets(ctx, ydb.TicketStatusOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	resp.OpenTickets = len(tickets)

	return resp, nil
}

func (s *Service) canView(actor *identity.Context, l *ydb.VideoLink) bool {
	if l.OwnerID == actor.UserID {
		return s.rbac.CheckPermissionWithRole(actor.Role, rbac.PermissionLinkViewAnalytics)
	}
	return s.rbac.CheckPermissionWithRole(actor.Role, rbac.PermissionAdminViewLinks)
}
