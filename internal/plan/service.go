package plan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lumiforge/vidlinkgen-backend/internal/audit"
	app_errors "github.com/lumiforge/vidlinkgen-backend/internal/errors"
	"github.com/lumiforge/vidlinkgen-backend/internal/identity"
	"github.com/lumiforge/vidlinkgen-backend/internal/logger"
	"github.com/lumiforge/vidlinkgen-backend/internal/models"
	"github.com/lumiforge/vidlinkgen-backend/internal/rbac"
	"github.com/lumiforge/vidlinkgen-backend/internal/ydb"
)

const (
	defaultUsersPageSize = 50
	maxUsersPageSize     = 200
)

// Service реализует бизнес-логику для тарифных планов
type Service struct {
	db                  ydb.Database
	catalog             *Catalog
	rbac                *rbac.RBAC
	audit               *audit.Service
	hub                 *identity.Hub
	paymentInstructions string
	now                 func() time.Time
}

// NewService создает новый plan сервис
func NewService(db ydb.Database, catalog *Catalog, rbacManager *rbac.RBAC, auditService *audit.Service, hub *identity.Hub, paymentInstructions string) *Service {
	return &Service{
		db:                  db,
		catalog:             catalog,
		rbac:                rbacManager,
		audit:               auditService,
		hub:                 hub,
		paymentInstructions: paymentInstructions,
		now:                 time.Now,
	}
}

// Catalog возвращает каталог тарифов
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

// ListPlans возвращает каталог тарифов и инструкции по ручной оплате
func (s *Service) ListPlans(ctx context.Context) *models.PlansResponse {
	plans := s.catalog.Plans()
	resp := &models.PlansResponse{
		Plans:               make([]*models.PlanResponse, 0, len(plans)),
		FreeUploadLimitMB:   s.catalog.FreeUploadLimit() / bytesInMB,
		PaymentInstructions: s.paymentInstructions,
	}
	for _, p := range plans {
		resp.Plans = append(resp.Plans, &models.PlanResponse{
			PlanKey:         string(p.Key),
			Tier:            string(p.Tier),
			Cadence:         string(p.Cadence),
			DurationMonths:  p.DurationMonths,
			UploadLimitMB:   p.UploadLimitBytes / bytesInMB,
			PriceDisplay:    p.PriceDisplay,
			PriorityTickets: true,
		})
	}
	return resp
}

// Assign активирует тариф: срок действия отсчитывается от текущего момента
func (s *Service) Assign(ctx context.Context, actor *identity.Context, userID, rawKey string) (*models.PremiumChangeResponse, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	key, err := ParsePlanKey(rawKey)
	if err != nil {
		return nil, err
	}
	p, _ := s.catalog.Get(key)

	if _, err := s.getUser(ctx, userID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	expiresAt := now.AddDate(0, p.DurationMonths, 0)
	tier := string(p.Tier)
	if err := s.db.UpdateUserPremium(ctx, userID, true, &tier, &expiresAt); err != nil {
		return nil, fmt.Errorf("failed to assign plan: %w", err)
	}

	return s.afterChange(ctx, actor, userID, models.AuditPremiumAssigned, map[string]any{
		"plan_key":   string(key),
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}

// Extend продлевает текущий тариф от сохраненной даты окончания
func (s *Service) Extend(ctx context.Context, actor *identity.Context, userID string) (*models.PremiumChangeResponse, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.PremiumTier == nil || *user.PremiumTier == "" || user.PremiumExpiresAt == nil {
		return nil, app_errors.ErrNoActivePlan
	}

	p, ok := s.catalog.ForTier(Tier(*user.PremiumTier))
	if !ok {
		return nil, fmt.Errorf("%w: %s", app_errors.ErrNoMatchingPlan, *user.PremiumTier)
	}

	expiresAt := user.PremiumExpiresAt.AddDate(0, p.DurationMonths, 0)
	isPremium := expiresAt.After(s.now())
	if err := s.db.UpdateUserPremium(ctx, userID, isPremium, user.PremiumTier, &expiresAt); err != nil {
		return nil, fmt.Errorf("failed to extend plan: %w", err)
	}

	return s.afterChange(ctx, actor, userID, models.AuditPremiumExtended, map[string]any{
		"plan_key":   string(p.Key),
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}

// Revoke снимает премиум полностью
func (s *Service) Revoke(ctx context.Context, actor *identity.Context, userID string) (*models.PremiumChangeResponse, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	if _, err := s.getUser(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.db.UpdateUserPremium(ctx, userID, false, nil, nil); err != nil {
		return nil, fmt.Errorf("failed to revoke plan: %w", err)
	}

	return s.afterChange(ctx, actor, userID, models.AuditPremiumRevoked, nil)
}

// ListUsers возвращает страницу пользователей с числом ссылок для админки
func (s *Service) ListUsers(ctx context.Context, actor *identity.Context, limit, offset int) (*models.ListUsersResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, app_errors.ErrUnauthenticated
	}
	if !s.rbac.CheckPermissionWithRole(actor.Role, rbac.PermissionAdminViewUsers) {
		return nil, app_errors.ErrForbidden
	}
	if limit <= 0 {
		limit = defaultUsersPageSize
	}
	if limit > maxUsersPageSize {
		limit = maxUsersPageSize
	}
	if offset < 0 {
		offset = 0
	}

	users, total, err := s.db.ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	now := s.now()
	resp := &models.ListUsersResponse{
		Users:  make([]*models.AdminUserInfo, 0, len(users)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for _, u := range users {
		count, err := s.db.CountLinksByOwner(ctx, u.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to count links: %w", err)
		}
		resp.Users = append(resp.Users, &models.AdminUserInfo{
			UserInfo:  *models.NewUserInfo(u, now),
			LinkCount: count,
		})
	}
	return resp, nil
}

func (s *Service) requireAdmin(actor *identity.Context) error {
	if !actor.IsAuthenticated() {
		return app_errors.ErrUnauthenticated
	}
	if !s.rbac.CheckPermissionWithRole(actor.Role, rbac.PermissionAdminManagePremium) {
		return app_errors.ErrForbidden
	}
	return nil
}

func (s *Service) getUser(ctx context.Context, userID string) (*ydb.User, error) {
	user, err := s.db.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, app_errors.ErrRecordNotFound) {
			return nil, app_errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// afterChange перечитывает пользователя, публикует событие и пишет аудит
func (s *Service) afterChange(ctx context.Context, actor *identity.Context, userID string, action models.AuditActionType, details map[string]any) (*models.PremiumChangeResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	count, err := s.db.CountLinksByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count links: %w", err)
	}

	now := s.now()
	s.hub.Publish(identity.Event{
		Type:     identity.EventPremiumChanged,
		UserID:   userID,
		Identity: identity.FromUser(user, now),
		ActorID:  actor.UserID,
		At:       now,
	})

	if s.audit != nil {
		if details == nil {
			details = map[string]any{}
		}
		details["target_user_id"] = userID
		actorID := actor.UserID
		if err := s.audit.LogAction(ctx, audit.Record{
			UserID:     &actorID,
			ActionType: string(action),
			Details:    details,
		}); err != nil {
			logger.FromContext(ctx).Warn("failed to audit premium change", "error", err, "user_id", userID)
		}
	}

	return &models.PremiumChangeResponse{
		User:      models.NewUserInfo(user, now),
		LinkCount: count,
		ExpiresAt: user.PremiumExpiresAt,
	}, nil
}
