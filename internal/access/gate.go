// Package access decides whether a visitor may watch a shared link and records the click.
package access

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lumiforge/vidlinkgen-backend/internal/cache"
	app_errors "github.com/lumiforge/vidlinkgen-backend/internal/errors"
	"github.com/lumiforge/vidlinkgen-backend/internal/identity"
	"github.com/lumiforge/vidlinkgen-backend/internal/link"
	"github.com/lumiforge/vidlinkgen-backend/internal/logger"
	"github.com/lumiforge/vidlinkgen-backend/internal/models"
	"github.com/lumiforge/vidlinkgen-backend/internal/storage"
	"github.com/lumiforge/vidlinkgen-backend/internal/validation"
	"github.com/lumiforge/vidlinkgen-backend/internal/ydb"
)

// PresignedURLLifetime срок жизни ссылки на зашифрованное видео
const PresignedURLLifetime = time.Hour

// Request попытка открыть ссылку. Visitor nil означает анонима, Password nil означает, что пароль не передан.
type Request struct {
	ShortID  string
	Visitor  *identity.Context
	Password *string
	Client   ClickMeta
}

// Grant разрешенный доступ: адрес воспроизведения и счетчик после клика
type Grant struct {
	Link        *ydb.VideoLink
	PlaybackURL string
	Clicks      int64
}

// Gate проверяет доступ к ссылке
type Gate struct {
	db       ydb.Database
	storage  storage.StorageProvider
	cache    cache.LinkCacheInterface
	cacheTTL time.Duration
	now      func() time.Time
}

// NewGate создает проверку доступа. linkCache может быть nil.
func NewGate(db ydb.Database, storageProvider storage.StorageProvider, linkCache cache.LinkCacheInterface) *Gate {
	return &Gate{
		db:       db,
		storage:  storageProvider,
		cache:    linkCache,
		cacheTTL: cache.DefaultLinkTTL,
		now:      time.Now,
	}
}

// Evaluate проходит шаги строго по порядку: поиск, срок действия, пароль, список доступа, источник.
// Клик записывается только при выдаче доступа.
func (g *Gate) Evaluate(ctx context.Context, req *Request) (*Grant, error) {
	l, err := g.resolve(ctx, req.ShortID)
	if err != nil {
		return nil, err
	}

	if l.ExpiresAt != nil && l.ExpiresAt.Before(g.now()) {
		return nil, app_errors.ErrLinkExpired
	}

	if l.HasPassword() {
		if req.Password == nil || *req.Password == "" {
			return nil, app_errors.ErrPasswordRequired
		}
		if subtle.ConstantTimeCompare([]byte(*req.Password), []byte(*l.Password)) != 1 {
			return nil, app_errors.ErrIncorrectPassword
		}
		// Верный пароль открывает ссылку без проверки списка доступа
	} else if err := g.checkAllowlist(ctx, l, req.Visitor); err != nil {
		return nil, err
	}

	if l.SourceURL == nil || *l.SourceURL == "" {
		return nil, app_errors.ErrSourceMissing
	}

	playbackURL, err := g.playbackURL(ctx, l)
	if err != nil {
		return nil, err
	}

	clicks, err := g.db.RecordClick(ctx, &ydb.ClickEvent{
		EventID:   uuid.New().String(),
		LinkID:    l.LinkID,
		ClickedAt: g.now().UTC(),
		UserAgent: req.Client.UserAgent,
		Country:   orUnknown(req.Client.Country),
		Device:    orUnknown(req.Client.Device),
	})
	if err != nil {
		if errors.Is(err, app_errors.ErrRecordNotFound) {
			g.forget(ctx, l.ShortID)
			return nil, app_errors.ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to record click: %w", err)
	}
	granted := *l
	granted.Clicks = clicks

	return &Grant{Link: &granted, PlaybackURL: playbackURL, Clicks: clicks}, nil
}

// resolve ищет ссылку сначала в кэше, затем в хранилище
func (g *Gate) resolve(ctx context.Context, shortID string) (*ydb.VideoLink, error) {
	if !link.IsShortID(shortID) {
		return nil, app_errors.ErrLinkNotFound
	}

	if g.cache != nil {
		cached, err := g.cache.Get(ctx, shortID)
		if err != nil {
			logger.FromContext(ctx).Warn("link cache read failed", "error", err, "short_id", shortID)
		} else if cached != nil {
			return cached.Link(), nil
		}
	}

	l, err := g.db.GetLinkByShortID(ctx, shortID)
	if err != nil {
		if errors.Is(err, app_errors.ErrRecordNotFound) {
			return nil, app_errors.ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	if g.cache != nil {
		if err := g.cache.Set(ctx, l, g.cacheTTL); err != nil {
			logger.FromContext(ctx).Warn("link cache write failed", "error", err, "short_id", shortID)
		}
	}
	return l, nil
}

func (g *Gate) checkAllowlist(ctx context.Context, l *ydb.VideoLink, visitor *identity.Context) error {
	perms, err := g.db.GetLinkPermissions(ctx, l.LinkID)
	if err != nil {
		return fmt.Errorf("failed to get allowed emails: %w", err)
	}
	if len(perms) == 0 {
		return nil
	}
	if !visitor.IsAuthenticated() {
		return app_errors.ErrAccessDenied
	}

	email := validation.NormalizeEmail(visitor.Email)
	for _, p := range perms {
		if validation.NormalizeEmail(p.Email) == email {
			return nil
		}
	}
	return app_errors.ErrAccessDenied
}

// playbackURL для зашифрованных загрузок выдает временную подписанную ссылку
func (g *Gate) playbackURL(ctx context.Context, l *ydb.VideoLink) (string, error) {
	if l.IsEncrypted && l.SourceType == ydb.SourceTypeUpload && l.StorageKey != nil {
		url, err := g.storage.GeneratePresignedDownloadURL(ctx, *l.StorageKey, PresignedURLLifetime)
		if err != nil {
			return "", fmt.Errorf("failed to sign video url: %w", err)
		}
		return url, nil
	}
	return *l.SourceURL, nil
}

func (g *Gate) forget(ctx context.Context, shortID string) {
	if g.cache == nil {
		return
	}
	if err := g.cache.Delete(ctx, shortID); err != nil {
		logger.FromContext(ctx).Warn("link cache delete failed", "error", err, "short_id", shortID)
	}
}

// Response представление выданного доступа для посетителя
func (gr *Grant) Response() *models.AccessGrantResponse {
	resp := &models.AccessGrantResponse{
		ShortID:     gr.Link.ShortID,
		Name:        gr.Link.Name,
		VideoURL:    gr.PlaybackURL,
		SourceType:  gr.Link.SourceType,
		IsEncrypted: gr.Link.IsEncrypted,
		ExpiresAt:   gr.Link.ExpiresAt,
		Clicks:      gr.Clicks,
	}
	if gr.Link.Description != nil {
		resp.Description = *gr.Link.Description
	}
	return resp
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
