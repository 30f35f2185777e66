package support

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lumiforge/vidlinkgen-backend/internal/audit"
	"github.com/lumiforge/vidlinkgen-backend/internal/email"
	app_errors "github.com/lumiforge/vidlinkgen-backend/internal/errors"
	"github.com/lumiforge/vidlinkgen-backend/internal/identity"
	"github.com/lumiforge/vidlinkgen-backend/internal/logger"
	"github.com/lumiforge/vidlinkgen-backend/internal/models"
	"github.com/lumiforge/vidlinkgen-backend/internal/rbac"
	"github.com/lumiforge/vidlinkgen-backend/internal/validation"
	"github.com/lumiforge/vidlinkgen-backend/internal/ydb"
)

const (
	maxSubjectLength  = 200
	maxMessageLength  = 5000
	maxCategoryLength = 50
	defaultCategory   = "general"
)

// Notifier мгновенное уведомление команды поддержки
type Notifier interface {
	Notify(ctx context.Context, msg string) error
}

// Service обращения в поддержку
type Service struct {
	db     ydb.Database
	email  *email.Client
	notify Notifier
	rbac   *rbac.RBAC
	audit  *audit.Service
	now    func() time.Time
}

// NewService создает сервис поддержки. notifier может быть nil.
func NewService(db ydb.Database, emailClient *email.Client, notifier Notifier, rbacManager *rbac.RBAC, auditService *audit.Service) *Service {
	return &Service{
		db:     db,
		email:  emailClient,
		notify: notifier,
		rbac:   rbacManager,
		audit:  auditService,
		now:    time.Now,
	}
}

// ParseStatus проверяет статус обращения. "in progress" принимается как синоним in_progress.
func ParseStatus(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, " ", "_")
	switch s {
	case ydb.TicketStatusOpen, ydb.TicketStatusInProgress, ydb.TicketStatusResolved, ydb.TicketStatusClosed:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", app_errors.ErrInvalidTicketStat, raw)
}

// Create регистрирует обращение. Премиум пользователи получают высокий приоритет.
func (s *Service) Create(ctx context.Context, actor *identity.Context, req *models.CreateTicketRequest) (*models.TicketResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, app_errors.ErrUnauthenticated
	}
	if !s.rbac.CheckPermissionWithRole(actor.Role, rbac.PermissionTicketCreate) {
		return nil, app_errors.ErrForbidden
	}
	if err := validation.ValidateText(req.Subject, "subject", maxSubjectLength, true); err != nil {
		return nil, err
	}
	if err := validation.ValidateText(req.Message, "message", maxMessageLength, true); err != nil {
		return nil, err
	}
	category := strings.ToLower(strings.TrimSpace(req.Category))
	if category == "" {
		category = defaultCategory
	}
	if err := validation.ValidateText(category, "category", maxCategoryLength, true); err != nil {
		return nil, err
	}

	priority := ydb.TicketPriorityNormal
	if actor.IsPremium() {
		priority = ydb.TicketPriorityHigh
	}

	now := s.now().UTC()
	ticket := &ydb.SupportTicket{
		TicketID:  uuid.New().String(),
		UserID:    actor.UserID,
		Email:     actor.Email,
		Subject:   strings.TrimSpace(req.Subject),
		Message:   strings.TrimSpace(req.Message),
		Category:  category,
		Priority:  priority,
		Status:    ydb.TicketStatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.CreateTicket(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	s.announce(ctx, ticket)
	return models.NewTicketResponse(ticket), nil
}

// ListMine обращения текущего пользователя, новые первыми
func (s *Service) ListMine(ctx context.Context, actor *identity.Context) (*models.ListTicketsResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, app_errors.ErrUnauthenticated
	}
	tickets, err := s.db.ListTicketsByUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return toList(tickets), nil
}

// ListAll обращения всех пользователей. Пустой status означает без фильтра.
func (s *Service) ListAll(ctx context.Context, actor *identity.Context, status string) (*models.ListTicketsResponse, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	if status != "" {
		parsed, err := ParseStatus(status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}
	tickets, err := s.db.ListTickets(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return toList(tickets), nil
}

// UpdateStatus меняет статус. Допустим любой переход между значениями перечня.
func (s *Service) UpdateStatus(ctx context.Context, actor *identity.Context, ticketID, rawStatus string) (*models.TicketResponse, error) {
	if err := s.requireAdmin(actor); err != nil {
		return nil, err
	}
	status, err := ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	ticket, err := s.db.GetTicket(ctx, ticketID)
	if err != nil {
		if errors.Is(err, app_errors.ErrRecordNotFound) {
			return nil, app_errors.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	previous := ticket.Status
	ticket.Status = status
	ticket.UpdatedAt = s.now().UTC()
	if err := s.db.UpdateTicketStatus(ctx, ticket.TicketID, status, ticket.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to update ticket: %w", err)
	}

	if s.audit != nil {
		actorID := actor.UserID
		_ = s.audit.LogAction(ctx, audit.Record{
			UserID:     &actorID,
			ActionType: string(models.AuditTicketStatusChanged),
			Details: map[string]any{
				"ticket_id": ticket.TicketID,
				"from":      previous,
				"to":        status,
			},
		})
	}
	return models.NewTicketResponse(ticket), nil
}

func (s *Service) requireAdmin(actor *identity.Context) error {
	if !actor.IsAuthenticated() {
		return app_errors.ErrUnauthenticated
	}
	if !s.rbac.CheckPermissionWithRole(actor.Role, rbac.PermissionAdminManageTickets) {
		return app_errors.ErrForbidden
	}
	return nil
}

// announce рассылает уведомления о новом обращении, ошибки не влияют на результат
func (s *Service) announce(ctx context.Context, t *ydb.SupportTicket) {
	log := logger.FromContext(ctx)
	notice := email.TicketNotice{
		TicketID: t.TicketID,
		Email:    t.Email,
		Subject:  t.Subject,
		Message:  t.Message,
		Category: t.Category,
		Priority: t.Priority,
	}

	if s.email != nil {
		if _, err := s.email.SendTicketCreatedEmail(ctx, notice); err != nil {
			log.Warn("failed to notify support by email", "error", err, "ticket_id", t.TicketID)
		}
		if _, err := s.email.SendTicketReceivedEmail(ctx, notice); err != nil {
			log.Warn("failed to confirm ticket to user", "error", err, "ticket_id", t.TicketID)
		}
	}
	if s.notify != nil {
		msg := fmt.Sprintf("🎫 New %s priority ticket from %s\n%s", t.Priority, t.Email, t.Subject)
		if err := s.notify.Notify(ctx, msg); err != nil {
			log.Warn("failed to notify support chat", "error", err, "ticket_id", t.TicketID)
		}
	}
}

func toList(tickets []*ydb.SupportTicket) *models.ListTicketsResponse {
	sort.SliceStable(tickets, func(i, j int) bool { return tickets[i].CreatedAt.After(tickets[j].CreatedAt) })
	resp := &models.ListTicketsResponse{Tickets: make([]*models.TicketResponse, 0, len(tickets))}
	for _, t := range tickets {
		resp.Tickets = append(resp.Tickets, models.NewTicketResponse(t))
	}
	resp.Total = len(resp.Tickets)
	return resp
}
