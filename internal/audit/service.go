package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	app_errors "github.com/lumiforge/vidlinkgen-backend/internal/errors"
	"github.com/lumiforge/vidlinkgen-backend/internal/identity"
	"github.com/lumiforge/vidlinkgen-backend/internal/models"
	"github.com/lumiforge/vidlinkgen-backend/internal/rbac"
	"github.com/lumiforge/vidlinkgen-backend/internal/ydb"
)

const (
	ActionResultSuccess = "success"
	ActionResultFailure = "failure"

	defaultListLimit = 100
	maxListLimit     = 1000
)

// Service coordinates audit logging and retrieval
// It ensures consistent defaults and shields handlers from storage specifics
type Service struct {
	db   ydb.Database
	rbac *rbac.RBAC
	log  *slog.Logger
}

// NewService builds an audit service instance
func NewService(db ydb.Database, rbac *rbac.RBAC, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{db: db, rbac: rbac, log: log}
}

// Record captures runtime context of a user action
type Record struct {
	ID           string
	Timestamp    time.Time
	UserID       *string
	ActionType   string
	ActionResult string
	IPAddress    *string
	UserAgent    *string
	Details      map[string]any
}

// Filter describes query options for reading audit events
type Filter struct {
	UserID     string
	ActionType string
	Result     string
	From       *time.Time
	To         *time.Time
	Limit      int
}

// LogAction stores audit record synchronously
func (s *Service) LogAction(ctx context.Context, record Record) error {
	if record.ActionType == "" {
		return errors.New("action_type is required")
	}
	if record.ActionResult == "" {
		record.ActionResult = ActionResultSuccess
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	detailsJSON := "{}"
	if len(record.Details) > 0 {
		data, err := json.Marshal(record.Details)
		if err != nil {
			return fmt.Errorf("marshal details: %w", err)
		}
		detailsJSON = string(data)
	}

	ydbRecord := &ydb.AuditLog{
		ID:           record.ID,
		Timestamp:    record.Timestamp,
		UserID:       record.UserID,
		ActionType:   record.ActionType,
		ActionResult: record.ActionResult,
		IPAddress:    record.IPAddress,
		UserAgent:    record.UserAgent,
		DetailsJSON:  detailsJSON,
	}

	if err := s.db.CreateAuditLog(ctx, ydbRecord); err != nil {
		s.log.Error("failed to write audit log", "error", err, "action", record.ActionType)
		return err
	}
	return nil
}

// Subscribe пишет в аудит входы и выходы, опубликованные на hub.
// Изменения премиума аудируются сервисом тарифов с деталями плана.
func (s *Service) Subscribe(hub *identity.Hub) func() {
	return hub.Subscribe(func(e identity.Event) {
		var action models.AuditActionType
		switch e.Type {
		case identity.EventSignedIn:
			action = models.AuditLoginSuccess
		case identity.EventSignedOut:
			action = models.AuditLogout
		default:
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		userID := e.UserID
		_ = s.LogAction(ctx, Record{
			Timestamp:  e.At.UTC(),
			UserID:     &userID,
			ActionType: string(action),
		})
	})
}

// ListAuditLogs fetches stored events matching filter
func (s *Service) ListAuditLogs(ctx context.Context, actor *identity.Context, filter Filter) ([]*models.AuditLog, error) {
	if !actor.IsAuthenticated() {
		return nil, app_errors.ErrUnauthenticated
	}
	if !s.rbac.CheckPermissionWithRole(actor.Role, rbac.PermissionAdminViewLogs) {
		return nil, app_errors.ErrForbidden
	}

	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}

	ydbFilter := &ydb.AuditLogFilter{
		UserID:     filter.UserID,
		ActionType: filter.ActionType,
		Result:     filter.Result,
		From:       filter.From,
		To:         filter.To,
		Limit:      filter.Limit,
	}

	entries, err := s.db.ListAuditLogs(ctx, ydbFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}

	result := make([]*models.AuditLog, 0, len(entries))
	for _, entry := range entries {
		var details map[string]any
		if entry.DetailsJSON != "" {
			if err := json.Unmarshal([]byte(entry.DetailsJSON), &details); err != nil {
				s.log.Warn("failed to unmarshal audit details", "error", err, "entry_id", entry.ID)
			}
		}

		modelEntry := &models.AuditLog{
			ID:           entry.ID,
			Timestamp:    entry.Timestamp,
			ActionType:   entry.ActionType,
			ActionResult: entry.ActionResult,
			Details:      details,
		}
		if entry.UserID != nil {
			modelEntry.UserID = *entry.UserID
		}
		if entry.IPAddress != nil {
			modelEntry.IPAddress = *entry.IPAddress
		}
		if entry.UserAgent != nil {
			modelEntry.UserAgent = *entry.UserAgent
		}
		result = append(result, modelEntry)
	}

	return result, nil
}
