package link

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lumiforge/vidlinkgen-backend/internal/audit"
	"github.com/lumiforge/vidlinkgen-backend/internal/cache"
	app_errors "github.com/lumiforge/vidlinkgen-backend/internal/errors"
	"github.com/lumiforge/vidlinkgen-backend/internal/identity"
	"github.com/lumiforge/vidlinkgen-backend/internal/logger"
	"github.com/lumiforge/vidlinkgen-backend/internal/models"
	"github.com/lumiforge/vidlinkgen-backend/internal/plan"
	"github.com/lumiforge/vidlinkgen-backend/internal/rbac"
	"github.com/lumiforge/vidlinkgen-backend/internal/storage"
	"github.com/lumiforge/vidlinkgen-backend/internal/validation"
	"github.com/lumiforge/vidlinkgen-backend/internal/ydb"
)

const (
	maxNameLength        = 200
	maxDescriptionLength = 2000
	maxShortIDAttempts   = 5

	FeaturePassword       = "password protection"
	FeatureEncryption     = "encryption"
	FeatureEmailAllowlist = "email restrictions"
)

// Upload загружаемый файл видео
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	OnProgress  storage.ProgressFunc
}

// Input настройки ссылки. Upload nil означает внешний URL.
type Input struct {
	Name          string
	Description   string
	VideoURL      string
	Password      string
	ExpiresAt     *time.Time
	IsEncrypted   bool
	AllowedEmails []string
	Upload        *Upload
}

// Service управляет жизненным циклом ссылок
type Service struct {
	db         ydb.Database
	storage    storage.StorageProvider
	cache      cache.LinkCacheInterface
	catalog    *plan.Catalog
	rbac       *rbac.RBAC
	audit      *audit.Service
	baseURL    string
	now        func() time.Time
	newShortID func() (string, error)
}

// NewService создает сервис ссылок. cache может быть nil.
func NewService(db ydb.Database, storageProvider storage.StorageProvider, linkCache cache.LinkCacheInterface, catalog *plan.Catalog, rbacManager *rbac.RBAC, auditService *audit.Service, baseURL string) *Service {
	return &Service{
		db:         db,
		storage:    storageProvider,
		cache:      linkCache,
		catalog:    catalog,
		rbac:       rbacManager,
		audit:      auditService,
		baseURL:    strings.TrimRight(baseURL, "/"),
		now:        time.Now,
		newShortID: NewShortID,
	}
}

// validated нормализованный ввод после проверки
type validated struct {
	name        string
	description string
	videoURL    string
	password    string
	emails      []string
	contentType string
	upload      *Upload
}

// Create создает ссылку. Все проверки выполняются до обращений к хранилищам.
func (s *Service) Create(ctx context.Context, actor *identity.Context, in *Input) (*models.LinkResponse, error) {
	if err := s.requirePermission(actor, rbac.PermissionLinkCreate); err != nil {
		return nil, err
	}
	v, err := s.validate(in, true)
	if err != nil {
		return nil, err
	}
	if err := s.checkPremium(actor, in, v); err != nil {
		return nil, err
	}
	if err := s.checkUploadSize(actor, v.upload); err != nil {
		return nil, err
	}

	shortID, err := s.generateShortID(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	link := &ydb.VideoLink{
		LinkID:      uuid.New().String(),
		OwnerID:     actor.UserID,
		ShortID:     shortID,
		ShortURL:    s.shortURL(shortID),
		Name:        v.name,
		ExpiresAt:   in.ExpiresAt,
		IsEncrypted: in.IsEncrypted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	applyText(link, v)

	if v.upload != nil {
		if err := s.putUpload(ctx, link, v); err != nil {
			return nil, err
		}
	} else {
		link.SourceType = ydb.SourceTypeURL
		link.SourceURL = &v.videoURL
	}

	if err := s.db.CreateLink(ctx, link); err != nil {
		s.removeObject(ctx, link.StorageKey)
		return nil, fmt.Errorf("failed to create link: %w", err)
	}

	if len(v.emails) > 0 {
		if err := s.db.AddLinkPermissions(ctx, link.LinkID, v.emails); err != nil {
			// Ссылка без списка доступа была бы публичной: откатываем создание
			if delErr := s.db.DeleteLink(ctx, link.LinkID); delErr != nil {
				logger.FromContext(ctx).Error("failed to roll back link", "error", delErr, "link_id", link.LinkID)
			}
			s.removeObject(ctx, link.StorageKey)
			return nil, fmt.Errorf("failed to save allowed emails: %w", err)
		}
	}

	s.logAction(ctx, actor, models.AuditLinkCreated, link)
	return NewLinkResponse(link, v.emails, s.now()), nil
}

// Update меняет настройки ссылки владельца. short_id и short_url не меняются.
func (s *Service) Update(ctx context.Context, actor *identity.Context, linkID string, in *Input) (*models.LinkResponse, error) {
	if err := s.requirePermission(actor, rbac.PermissionLinkEdit); err != nil {
		return nil, err
	}
	v, err := s.validate(in, false)
	if err != nil {
		return nil, err
	}
	if err := s.checkPremium(actor, in, v); err != nil {
		return nil, err
	}
	if err := s.checkUploadSize(actor, v.upload); err != nil {
		return nil, err
	}

	link, err := s.getOwned(ctx, actor, linkID)
	if err != nil {
		return nil, err
	}

	prevKey := link.StorageKey
	prevEncrypted := link.IsEncrypted

	link.Name = v.name
	link.ExpiresAt = in.ExpiresAt
	link.IsEncrypted = in.IsEncrypted
	link.UpdatedAt = s.now().UTC()
	applyText(link, v)

	replaced := false
	switch {
	case v.upload != nil:
		if err := s.putUpload(ctx, link, v); err != nil {
			return nil, err
		}
		replaced = true
	case v.videoURL != "":
		link.SourceType = ydb.SourceTypeURL
		link.SourceURL = &v.videoURL
		link.StorageKey = nil
		replaced = true
	}

	if err := s.db.UpdateLink(ctx, link); err != nil {
		if v.upload != nil {
			s.removeObject(ctx, link.StorageKey)
		}
		return nil, fmt.Errorf("failed to update link: %w", err)
	}
	// Запись уже изменена: кэш сбрасывается до любых последующих шагов
	s.invalidate(ctx, link.ShortID)

	// Режим доступа к прежнему объекту меняется вместе с флагом шифрования
	if !replaced && link.StorageKey != nil && prevEncrypted != link.IsEncrypted {
		if err := s.storage.SetObjectPublic(ctx, *link.StorageKey, !link.IsEncrypted); err != nil {
			logger.FromContext(ctx).Warn("failed to change object visibility", "error", err, "link_id", link.LinkID)
		}
	}

	if err := s.ReconcilePermissions(ctx, link.LinkID, v.emails); err != nil {
		return nil, err
	}

	if replaced {
		s.removeObject(ctx, prevKey)
	}
	s.logAction(ctx, actor, models.AuditLinkUpdated, link)

	return NewLinkResponse(link, v.emails, s.now()), nil
}

// ReconcilePermissions приводит список доступа к желаемому: сначала добавления, затем удаления.
// При ошибке добавления ничего не удаляется. Повторный вызов не делает записей.
func (s *Service) ReconcilePermissions(ctx context.Context, linkID string, desired []string) error {
	current, err := s.db.GetLinkPermissions(ctx, linkID)
	if err != nil {
		return fmt.Errorf("failed to get allowed emails: %w", err)
	}

	have := make(map[string]struct{}, len(current))
	for _, p := range current {
		have[p.Email] = struct{}{}
	}
	want := make(map[string]struct{}, len(desired))
	var additions []string
	for _, email := range desired {
		want[email] = struct{}{}
		if _, ok := have[email]; !ok {
			additions = append(additions, email)
		}
	}
	var removals []string
	for _, p := range current {
		if _, ok := want[p.Email]; !ok {
			removals = append(removals, p.Email)
		}
	}
	sort.Strings(removals)

	if len(additions) > 0 {
		if err := s.db.AddLinkPermissions(ctx, linkID, additions); err != nil {
			return fmt.Errorf("failed to add allowed emails: %w", err)
		}
	}
	if len(removals) > 0 {
		if err := s.db.RemoveLinkPermissions(ctx, linkID, removals); err != nil {
			return fmt.Errorf("failed to remove allowed emails: %w", err)
		}
	}
	return nil
}

// Delete удаляет ссылку владельца вместе со списком доступа и кликами
func (s *Service) Delete(ctx context.Context, actor *identity.Context, linkID string) error {
	if err := s.requirePermission(actor, rbac.PermissionLinkDelete); err != nil {
		return err
	}
	link, err := s.getOwned(ctx, actor, linkID)
	if err != nil {
		return err
	}

	if err := s.db.DeleteLink(ctx, link.LinkID); err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	s.invalidate(ctx, link.ShortID)
	s.removeObject(ctx, link.StorageKey)
	s.logAction(ctx, actor, models.AuditLinkDeleted, link)
	return nil
}

// Get возвращает ссылку владельцу или администратору
func (s *Service) Get(ctx context.Context, actor *identity.Context, linkID string) (*models.LinkResponse, error) {
	link, err := s.GetRecord(ctx, actor, linkID)
	if err != nil {
		return nil, err
	}
	emails, err := s.permissionEmails(ctx, link.LinkID)
	if err != nil {
		return nil, err
	}
	return NewLinkResponse(link, emails, s.now()), nil
}

// GetRecord проверяет право просмотра и возвращает запись ссылки
func (s *Service) GetRecord(ctx context.Context, actor *identity.Context, linkID string) (*ydb.VideoLink, error) {
	if !actor.IsAuthenticated() {
		return nil, app_errors.ErrUnauthenticated
	}
	link, err := s.getLink(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if link.OwnerID != actor.UserID && !s.rbac.CheckPermissionWithRole(actor.Role, rbac.PermissionAdminViewLinks) {
		return nil, app_errors.ErrNotOwner
	}
	return link, nil
}

// List возвращает ссылки пользователя, новые первыми
func (s *Service) List(ctx context.Context, actor *identity.Context) (*models.ListLinksResponse, error) {
	if !actor.IsAuthenticated() {
		return nil, app_errors.ErrUnauthenticated
	}
	links, err := s.db.ListLinksByOwner(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	sort.SliceStable(links, func(i, j int) bool { return links[i].CreatedAt.After(links[j].CreatedAt) })

	now := s.now()
	resp := &models.ListLinksResponse{Links: make([]*models.LinkResponse, 0, len(links))}
	for _, l := range links {
		emails, err := s.permissionEmails(ctx, l.LinkID)
		if err != nil {
			return nil, err
		}
		resp.Links = append(resp.Links, NewLinkResponse(l, emails, now))
	}
	resp.Total = len(resp.Links)
	return resp, nil
}

func (s *Service) validate(in *Input, create bool) (*validated, error) {
	if in == nil {
		return nil, validation.ValidationError{Field: "body", Message: "is required"}
	}
	v := &validated{
		name:        strings.TrimSpace(in.Name),
		description: strings.TrimSpace(in.Description),
		videoURL:    strings.TrimSpace(in.VideoURL),
		password:    in.Password,
		upload:      in.Upload,
	}

	if v.upload != nil {
		if err := validation.ValidateFilename(v.upload.Filename, "file"); err != nil {
			return nil, err
		}
		ct, err := validation.ResolveVideoContentType(v.upload.Filename, v.upload.ContentType, "file")
		if err != nil {
			return nil, err
		}
		if v.upload.Size <= 0 || v.upload.Body == nil {
			return nil, validation.ValidationError{Field: "file", Message: "is empty"}
		}
		v.contentType = ct
		v.videoURL = ""
		if v.name == "" {
			v.name = strings.TrimSuffix(v.upload.Filename, fileExt(v.upload.Filename))
		}
	} else if v.videoURL != "" {
		if err := validation.ValidateVideoURL(v.videoURL, "video_url"); err != nil {
			return nil, err
		}
	} else if create {
		return nil, validation.ValidationError{Field: "video_url", Message: "is required"}
	}

	if err := validation.ValidateText(v.name, "name", maxNameLength, true); err != nil {
		return nil, err
	}
	if err := validation.ValidateText(v.description, "description", maxDescriptionLength, false); err != nil {
		return nil, err
	}
	if len(v.password) > 256 {
		return nil, validation.ValidationError{Field: "password", Message: "is too long"}
	}

	emails, err := validation.NormalizeEmailList(in.AllowedEmails, "allowed_emails")
	if err != nil {
		return nil, err
	}
	v.emails = emails
	return v, nil
}

// checkPremium проверяет платные функции до любых записей и загрузок
func (s *Service) checkPremium(actor *identity.Context, in *Input, v *validated) error {
	if actor.CanUsePremium() {
		return nil
	}
	switch {
	case v.password != "":
		return &app_errors.PremiumRequiredError{Feature: FeaturePassword}
	case in.IsEncrypted:
		return &app_errors.PremiumRequiredError{Feature: FeatureEncryption}
	case len(v.emails) > 0:
		return &app_errors.PremiumRequiredError{Feature: FeatureEmailAllowlist}
	}
	return nil
}

// UploadLimit лимит размера файла для пользователя. Администратору доступен наибольший.
func (s *Service) UploadLimit(actor *identity.Context) int64 {
	if actor.IsAdmin() {
		return s.catalog.MaxUploadLimit()
	}
	if !actor.IsPremium() {
		return s.catalog.FreeUploadLimit()
	}
	return s.catalog.UploadLimitFor(plan.Tier(actor.Tier()))
}

func (s *Service) checkUploadSize(actor *identity.Context, upload *Upload) error {
	if upload == nil {
		return nil
	}
	limit := s.UploadLimit(actor)
	if upload.Size > limit {
		return &app_errors.UploadLimitError{
			SizeBytes:  upload.Size,
			LimitBytes: limit,
			Premium:    actor.CanUsePremium(),
		}
	}
	return nil
}

// generateShortID подбирает свободный short id, не более maxShortIDAttempts попыток
func (s *Service) generateShortID(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxShortIDAttempts; attempt++ {
		id, err := s.newShortID()
		if err != nil {
			return "", fmt.Errorf("failed to generate short id: %w", err)
		}
		_, err = s.db.GetLinkByShortID(ctx, id)
		if errors.Is(err, app_errors.ErrRecordNotFound) {
			return id, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check short id: %w", err)
		}
	}
	return "", fmt.Errorf("failed to generate unique short id after %d attempts", maxShortIDAttempts)
}

func (s *Service) shortURL(shortID string) string {
	return s.baseURL + "/v/" + shortID
}

func (s *Service) putUpload(ctx context.Context, link *ydb.VideoLink, v *validated) error {
	key := fmt.Sprintf("videos/%s/%s/%s", link.OwnerID, link.LinkID, uuid.New().String()+"_"+validation.SanitizeFilename(v.upload.Filename))
	err := s.storage.PutObject(ctx, &storage.UploadInput{
		Key:         key,
		Body:        v.upload.Body,
		Size:        v.upload.Size,
		ContentType: v.contentType,
		Public:      !link.IsEncrypted,
		OnProgress:  v.upload.OnProgress,
	})
	if err != nil {
		return fmt.Errorf("failed to upload video: %w", err)
	}

	sourceURL := s.storage.PublicURL(key)
	link.SourceType = ydb.SourceTypeUpload
	link.StorageKey = &key
	link.SourceURL = &sourceURL
	return nil
}

func (s *Service) getLink(ctx context.Context, linkID string) (*ydb.VideoLink, error) {
	link, err := s.db.GetLinkByID(ctx, linkID)
	if err != nil {
		if errors.Is(err, app_errors.ErrRecordNotFound) {
			return nil, app_errors.ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	return link, nil
}

func (s *Service) getOwned(ctx context.Context, actor *identity.Context, linkID string) (*ydb.VideoLink, error) {
	link, err := s.getLink(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if link.OwnerID != actor.UserID {
		return nil, app_errors.ErrNotOwner
	}
	return link, nil
}

func (s *Service) permissionEmails(ctx context.Context, linkID string) ([]string, error) {
	perms, err := s.db.GetLinkPermissions(ctx, linkID)
	if err != nil {
		return nil, fmt.Errorf("failed to get allowed emails: %w", err)
	}
	emails := make([]string, 0, len(perms))
	for _, p := range perms {
		emails = append(emails, p.Email)
	}
	sort.Strings(emails)
	return emails, nil
}

func (s *Service) requirePermission(actor *identity.Context, permission rbac.Permission) error {
	if !actor.IsAuthenticated() {
		return app_errors.ErrUnauthenticated
	}
	if !s.rbac.CheckPermissionWithRole(actor.Role, permission) {
		return app_errors.ErrForbidden
	}
	return nil
}

// removeObject удаляет объект из хранилища, ошибки только логируются
func (s *Service) removeObject(ctx context.Context, key *string) {
	if key == nil || *key == "" {
		return
	}
	if err := s.storage.DeleteObject(ctx, *key); err != nil {
		logger.FromContext(ctx).Warn("failed to delete video object", "error", err, "key", *key)
	}
}

func (s *Service) invalidate(ctx context.Context, shortID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, shortID); err != nil {
		logger.FromContext(ctx).Warn("failed to invalidate link cache", "error", err, "short_id", shortID)
	}
}

func (s *Service) logAction(ctx context.Context, actor *identity.Context, action models.AuditActionType, link *ydb.VideoLink) {
	if s.audit == nil {
		return
	}
	userID := actor.UserID
	_ = s.audit.LogAction(ctx, audit.Record{
		UserID:     &userID,
		ActionType: string(action),
		Details: map[string]any{
			"link_id":  link.LinkID,
			"short_id": link.ShortID,
		},
	})
}

func applyText(link *ydb.VideoLink, v *validated) {
	link.Description = nil
	if v.description != "" {
		d := v.description
		link.Description = &d
	}
	link.Password = nil
	if v.password != "" {
		p := v.password
		link.Password = &p
	}
}

func fileExt(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[i:]
	}
	return ""
}

// NewLinkResponse конвертирует запись ссылки для владельца
func NewLinkResponse(l *ydb.VideoLink, emails []string, now time.Time) *models.LinkResponse {
	if emails == nil {
		emails = []string{}
	}
	resp := &models.LinkResponse{
		LinkID:        l.LinkID,
		ShortID:       l.ShortID,
		ShortURL:      l.ShortURL,
		Name:          l.Name,
		SourceType:    l.SourceType,
		HasPassword:   l.HasPassword(),
		ExpiresAt:     l.ExpiresAt,
		IsExpired:     l.ExpiresAt != nil && l.ExpiresAt.Before(now),
		IsEncrypted:   l.IsEncrypted,
		AllowedEmails: emails,
		Clicks:        l.Clicks,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
	if l.Description != nil {
		resp.Description = *l.Description
	}
	if l.SourceURL != nil {
		resp.VideoURL = *l.SourceURL
	}
	return resp
}
