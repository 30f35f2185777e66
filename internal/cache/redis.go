package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lumiforge/vidlinkgen-backend/internal/ydb"
)

// DefaultLinkTTL время жизни закэшированной ссылки
const DefaultLinkTTL = 5 * time.Minute

// LinkCacheInterface кэш ссылок по short id. Промах возвращает nil без ошибки.
type LinkCacheInterface interface {
	Get(ctx context.Context, shortID string) (*CachedLink, error)
	Set(ctx context.Context, link *ydb.VideoLink, ttl time.Duration) error
	Delete(ctx context.Context, shortID string) error
}

// CachedLink содержит все поля, нужные для проверки доступа. Счетчик кликов не кэшируется.
type CachedLink struct {
	LinkID      string     `json:"link_id"`
	OwnerID     string     `json:"owner_id"`
	ShortID     string     `json:"short_id"`
	ShortURL    string     `json:"short_url"`
	SourceType  string     `json:"source_type"`
	SourceURL   *string    `json:"source_url,omitempty"`
	StorageKey  *string    `json:"storage_key,omitempty"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Password    *string    `json:"password,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	IsEncrypted bool       `json:"is_encrypted"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func FromLink(l *ydb.VideoLink) *CachedLink {
	return &CachedLink{
		LinkID:      l.LinkID,
		OwnerID:     l.OwnerID,
		ShortID:     l.ShortID,
		ShortURL:    l.ShortURL,
		SourceType:  l.SourceType,
		SourceURL:   l.SourceURL,
		StorageKey:  l.StorageKey,
		Name:        l.Name,
		Description: l.Description,
		Password:    l.Password,
		ExpiresAt:   l.ExpiresAt,
		IsEncrypted: l.IsEncrypted,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

// Link восстанавливает запись ссылки. Clicks всегда 0, актуальное значение хранится в базе.
func (c *CachedLink) Link() *ydb.VideoLink {
	return &ydb.VideoLink{
		LinkID:      c.LinkID,
		OwnerID:     c.OwnerID,
		ShortID:     c.ShortID,
		ShortURL:    c.ShortURL,
		SourceType:  c.SourceType,
		SourceURL:   c.SourceURL,
		StorageKey:  c.StorageKey,
		Name:        c.Name,
		Description: c.Description,
		Password:    c.Password,
		ExpiresAt:   c.ExpiresAt,
		IsEncrypted: c.IsEncrypted,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type LinkCache struct {
	client *redis.Client
}

func NewLinkCache(client *redis.Client) *LinkCache {
	return &LinkCache{client: client}
}

// NewLinkCacheFromURL подключается к Redis по URL вида redis://host:port/db
func NewLinkCacheFromURL(ctx context.Context, redisURL string) (*LinkCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewLinkCache(client), nil
}

func (c *LinkCache) Get(ctx context.Context, shortID string) (*CachedLink, error) {
	key := "link:" + shortID
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cached CachedLink
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		return nil, err
	}

	return &cached, nil
}

func (c *LinkCache) Set(ctx context.Context, link *ydb.VideoLink, ttl time.Duration) error {
	key := "link:" + link.ShortID
	data, err := json.Marshal(FromLink(link))
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *LinkCache) Delete(ctx context.Context, shortID string) error {
	key := "link:" + shortID
	return c.client.Del(ctx, key).Err()
}

// SetOnce атомарно ставит ключ, если его еще нет. Возвращает true, если ключ был установлен этим вызовом.
func (c *LinkCache) SetOnce(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, key, "1", ttl).Result()
}

func (c *LinkCache) Close() error {
	return c.client.Close()
}
