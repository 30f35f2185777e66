package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	app_errors "github.com/lumiforge/vidlinkgen-backend/internal/errors"
	"github.com/lumiforge/vidlinkgen-backend/internal/ydb"
)

// Store реализует ydb.Database поверх PostgreSQL
type Store struct {
	pool *pgxpool.Pool
}

var _ ydb.Database = (*Store)(nil)

// NewStore открывает пул соединений и при необходимости создает схему
func NewStore(ctx context.Context, dsn string, migrate bool) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN not provided. Please set VL_POSTGRES_DSN environment variable")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := &Store{pool: pool}
	if migrate {
		if err := s.Migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return s, nil
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	user_id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	display_name TEXT,
	role TEXT NOT NULL DEFAULT 'member',
	is_premium BOOLEAN NOT NULL DEFAULT false,
	premium_tier TEXT,
	premium_expires_at TIMESTAMPTZ,
	joined_community BOOLEAN NOT NULL DEFAULT false,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS video_links (
	link_id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL REFERENCES users(user_id),
	short_id TEXT NOT NULL UNIQUE,
	short_url TEXT NOT NULL,
	source_type TEXT NOT NULL,
	source_url TEXT,
	storage_key TEXT,
	name TEXT NOT NULL,
	description TEXT,
	password TEXT,
	expires_at TIMESTAMPTZ,
	is_encrypted BOOLEAN NOT NULL DEFAULT false,
	clicks BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS video_links_owner_idx ON video_links (owner_id, created_at DESC);

CREATE TABLE IF NOT EXISTS link_permissions (
	link_id TEXT NOT NULL REFERENCES video_links(link_id) ON DELETE CASCADE,
	email TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (link_id, email)
);

CREATE TABLE IF NOT EXISTS click_events (
	event_id TEXT PRIMARY KEY,
	link_id TEXT NOT NULL REFERENCES video_links(link_id) ON DELETE CASCADE,
	clicked_at TIMESTAMPTZ NOT NULL,
	user_agent TEXT NOT NULL DEFAULT '',
	country TEXT NOT NULL DEFAULT '',
	device TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS click_events_link_idx ON click_events (link_id, clicked_at);

CREATE TABLE IF NOT EXISTS support_tickets (
	ticket_id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	email TEXT NOT NULL,
	subject TEXT NOT NULL,
	message TEXT NOT NULL,
	category TEXT NOT NULL,
	priority TEXT NOT NULL,
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS support_tickets_user_idx ON support_tickets (user_id);

CREATE TABLE IF NOT EXISTS refresh_tokens (
	token_id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	token_hash TEXT NOT NULL UNIQUE,
	expires_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	is_revoked BOOLEAN NOT NULL DEFAULT false
);

CREATE TABLE IF NOT EXISTS audit_logs (
	id TEXT PRIMARY KEY,
	timestamp TIMESTAMPTZ NOT NULL,
	user_id TEXT,
	action_type TEXT NOT NULL,
	action_result TEXT NOT NULL,
	ip_address TEXT,
	user_agent TEXT,
	details JSONB NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS audit_logs_ts_idx ON audit_logs (timestamp DESC);
`

// Migrate создает таблицы, если их еще нет
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return app_errors.ErrRecordNotFound
	}
	return err
}

// ---------------------------------------------------------------------------
// Users

const userColumns = `user_id, email, password_hash, display_name, role, is_premium,
	premium_tier, premium_expires_at, joined_community, created_at, updated_at`

func scanUser(row pgx.Row) (*ydb.User, error) {
	var u ydb.User
	err := row.Scan(&u.UserID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Role, &u.IsPremium,
		&u.PremiumTier, &u.PremiumExpiresAt, &u.JoinedCommunity, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func collectUsers(rows pgx.Rows) ([]*ydb.User, error) {
	defer rows.Close()
	var users []*ydb.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) CreateUser(ctx context.Context, user *ydb.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	query := `INSERT INTO users (` + userColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := s.pool.Exec(ctx, query, user.UserID, user.Email, user.PasswordHash, user.DisplayName, user.Role,
		user.IsPremium, user.PremiumTier, user.PremiumExpiresAt, user.JoinedCommunity, user.CreatedAt, user.UpdatedAt)
	return err
}

func (s *Store) GetUserByID(ctx context.Context, userID string) (*ydb.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, userID))
	return u, notFound(err)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*ydb.User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	return u, notFound(err)
}

func (s *Store) UpdateUser(ctx context.Context, user *ydb.User) error {
	user.UpdatedAt = time.Now()
	query := `UPDATE users SET password_hash = $2, display_name = $3, role = $4, joined_community = $5, updated_at = $6 WHERE user_id = $1`
	_, err := s.pool.Exec(ctx, query, user.UserID, user.PasswordHash, user.DisplayName, user.Role, user.JoinedCommunity, user.UpdatedAt)
	return err
}

func (s *Store) UpdateUserPremium(ctx context.Context, userID string, isPremium bool, tier *string, expiresAt *time.Time) error {
	query := `UPDATE users SET is_premium = $2, premium_tier = $3, premium_expires_at = $4, updated_at = now() WHERE user_id = $1`
	tag, err := s.pool.Exec(ctx, query, userID, isPremium, tier, expiresAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrRecordNotFound
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context, limit, offset int) ([]*ydb.User, int64, error) {
	var total int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	users, err := collectUsers(rows)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *Store) ListPremiumUsersExpiringBefore(ctx context.Context, before time.Time) ([]*ydb.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users
		WHERE is_premium AND premium_expires_at IS NOT NULL AND premium_expires_at < $1`, before)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

// ---------------------------------------------------------------------------
// Refresh tokens

func (s *Store) CreateRefreshToken(ctx context.Context, token *ydb.RefreshToken) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	query := `INSERT INTO refresh_tokens (token_id, user_id, token_hash, expires_at, created_at, is_revoked) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.pool.Exec(ctx, query, token.TokenID, token.UserID, token.TokenHash, token.ExpiresAt, token.CreatedAt, token.IsRevoked)
	return err
}

func (s *Store) GetRefreshToken(ctx context.Context, tokenHash string) (*ydb.RefreshToken, error) {
	var t ydb.RefreshToken
	err := s.pool.QueryRow(ctx, `SELECT token_id, user_id, token_hash, expires_at, created_at, is_revoked
		FROM refresh_tokens WHERE token_hash = $1`, tokenHash).
		Scan(&t.TokenID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt, &t.IsRevoked)
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (s *Store) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	_, err := s.pool.Exec(ctx, `UPDATE refresh_tokens SET is_revoked = true WHERE token_hash = $1`, tokenHash)
	return err
}

func (s *Store) RevokeAllUserRefreshTokens(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `UPDATE refresh_tokens SET is_revoked = true WHERE user_id = $1`, userID)
	return err
}

// ---------------------------------------------------------------------------
// Video links

const linkColumns = `link_id, owner_id, short_id, short_url, source_type, source_url, storage_key,
	name, description, password, expires_at, is_encrypted, clicks, created_at, updated_at`

func scanLink(row pgx.Row) (*ydb.VideoLink, error) {
	var l ydb.VideoLink
	err := row.Scan(&l.LinkID, &l.OwnerID, &l.ShortID, &l.ShortURL, &l.SourceType, &l.SourceURL, &l.StorageKey,
		&l.Name, &l.Description, &l.Password, &l.ExpiresAt, &l.IsEncrypted, &l.Clicks, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *Store) queryLinks(ctx context.Context, query string, args ...any) ([]*ydb.VideoLink, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []*ydb.VideoLink
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (s *Store) CreateLink(ctx context.Context, link *ydb.VideoLink) error {
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}
	link.UpdatedAt = link.CreatedAt
	link.Clicks = 0
	query := `INSERT INTO video_links (` + linkColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 0, $13, $14)`
	_, err := s.pool.Exec(ctx, query, link.LinkID, link.OwnerID, link.ShortID, link.ShortURL, link.SourceType,
		link.SourceURL, link.StorageKey, link.Name, link.Description, link.Password, link.ExpiresAt,
		link.IsEncrypted, link.CreatedAt, link.UpdatedAt)
	return err
}

func (s *Store) GetLinkByID(ctx context.Context, linkID string) (*ydb.VideoLink, error) {
	l, err := scanLink(s.pool.QueryRow(ctx, `SELECT `+linkColumns+` FROM video_links WHERE link_id = $1`, linkID))
	return l, notFound(err)
}

func (s *Store) GetLinkByShortID(ctx context.Context, shortID string) (*ydb.VideoLink, error) {
	l, err := scanLink(s.pool.QueryRow(ctx, `SELECT `+linkColumns+` FROM video_links WHERE short_id = $1`, shortID))
	return l, notFound(err)
}

func (s *Store) UpdateLink(ctx context.Context, link *ydb.VideoLink) error {
	link.UpdatedAt = time.Now()
	query := `UPDATE video_links SET short_url = $2, source_type = $3, source_url = $4, storage_key = $5,
		name = $6, description = $7, password = $8, expires_at = $9, is_encrypted = $10, updated_at = $11
		WHERE link_id = $1`
	tag, err := s.pool.Exec(ctx, query, link.LinkID, link.ShortURL, link.SourceType, link.SourceURL, link.StorageKey,
		link.Name, link.Description, link.Password, link.ExpiresAt, link.IsEncrypted, link.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrRecordNotFound
	}
	return nil
}

// DeleteLink удаляет ссылку, зависимые строки уходят через ON DELETE CASCADE
func (s *Store) DeleteLink(ctx context.Context, linkID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM video_links WHERE link_id = $1`, linkID)
	return err
}

func (s *Store) ListLinksByOwner(ctx context.Context, ownerID string) ([]*ydb.VideoLink, error) {
	return s.queryLinks(ctx, `SELECT `+linkColumns+` FROM video_links WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
}

func (s *Store) ListAllLinks(ctx context.Context) ([]*ydb.VideoLink, error) {
	return s.queryLinks(ctx, `SELECT `+linkColumns+` FROM video_links ORDER BY created_at DESC`)
}

func (s *Store) CountLinksByOwner(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM video_links WHERE owner_id = $1`, ownerID).Scan(&n)
	return n, err
}

// ---------------------------------------------------------------------------
// Link permissions

func (s *Store) GetLinkPermissions(ctx context.Context, linkID string) ([]*ydb.LinkPermission, error) {
	rows, err := s.pool.Query(ctx, `SELECT link_id, email, created_at FROM link_permissions WHERE link_id = $1 ORDER BY email`, linkID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []*ydb.LinkPermission
	for rows.Next() {
		var p ydb.LinkPermission
		if err := rows.Scan(&p.LinkID, &p.Email, &p.CreatedAt); err != nil {
			return nil, err
		}
		perms = append(perms, &p)
	}
	return perms, rows.Err()
}

func (s *Store) AddLinkPermissions(ctx context.Context, linkID string, emails []string) error {
	if len(emails) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx, `INSERT INTO link_permissions (link_id, email)
		SELECT $1, unnest($2::text[])
		ON CONFLICT (link_id, email) DO NOTHING`, linkID, emails)
	return err
}

func (s *Store) RemoveLinkPermissions(ctx context.Context, linkID string, emails []string) error {
	if len(emails) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx, `DELETE FROM link_permissions WHERE link_id = $1 AND email = ANY($2)`, linkID, emails)
	return err
}

// ---------------------------------------------------------------------------
// Clicks

// RecordClick сохраняет событие и увеличивает счетчик на стороне сервера в одной транзакции
func (s *Store) RecordClick(ctx context.Context, event *ydb.ClickEvent) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var clicks int64
	err = tx.QueryRow(ctx, `UPDATE video_links SET clicks = clicks + 1 WHERE link_id = $1 RETURNING clicks`, event.LinkID).Scan(&clicks)
	if err != nil {
		return 0, notFound(err)
	}

	_, err = tx.Exec(ctx, `INSERT INTO click_events (event_id, link_id, clicked_at, user_agent, country, device)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		event.EventID, event.LinkID, event.ClickedAt, event.UserAgent, event.Country, event.Device)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return clicks, nil
}

func (s *Store) ListClickEvents(ctx context.Context, linkID string, since time.Time) ([]*ydb.ClickEvent, error) {
	rows, err := s.pool.Query(ctx, `SELECT event_id, link_id, clicked_at, user_agent, country, device
		FROM click_events WHERE link_id = $1 AND clicked_at >= $2 ORDER BY clicked_at`, linkID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*ydb.ClickEvent
	for rows.Next() {
		var e ydb.ClickEvent
		if err := rows.Scan(&e.EventID, &e.LinkID, &e.ClickedAt, &e.UserAgent, &e.Country, &e.Device); err != nil {
			return nil, err
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}

// ---------------------------------------------------------------------------
// Support tickets

const ticketColumns = `ticket_id, user_id, email, subject, message, category, priority, status, created_at, updated_at`

func (s *Store) queryTickets(ctx context.Context, query string, args ...any) ([]*ydb.SupportTicket, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []*ydb.SupportTicket
	for rows.Next() {
		var t ydb.SupportTicket
		if err := rows.Scan(&t.TicketID, &t.UserID, &t.Email, &t.Subject, &t.Message, &t.Category,
			&t.Priority, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, &t)
	}
	return tickets, rows.Err()
}

func (s *Store) CreateTicket(ctx context.Context, t *ydb.SupportTicket) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO support_tickets (`+ticketColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.TicketID, t.UserID, t.Email, t.Subject, t.Message, t.Category, t.Priority, t.Status, t.CreatedAt, t.UpdatedAt)
	return err
}

func (s *Store) GetTicket(ctx context.Context, ticketID string) (*ydb.SupportTicket, error) {
	tickets, err := s.queryTickets(ctx, `SELECT `+ticketColumns+` FROM support_tickets WHERE ticket_id = $1`, ticketID)
	if err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return nil, app_errors.ErrRecordNotFound
	}
	return tickets[0], nil
}

func (s *Store) ListTicketsByUser(ctx context.Context, userID string) ([]*ydb.SupportTicket, error) {
	return s.queryTickets(ctx, `SELECT `+ticketColumns+` FROM support_tickets WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (s *Store) ListTickets(ctx context.Context, status string) ([]*ydb.SupportTicket, error) {
	if status == "" {
		return s.queryTickets(ctx, `SELECT `+ticketColumns+` FROM support_tickets ORDER BY created_at DESC`)
	}
	return s.queryTickets(ctx, `SELECT `+ticketColumns+` FROM support_tickets WHERE status = $1 ORDER BY created_at DESC`, status)
}

func (s *Store) UpdateTicketStatus(ctx context.Context, ticketID, status string, updatedAt time.Time) error {
	tag, err := s.pool.Exec(ctx, `UPDATE support_tickets SET status = $2, updated_at = $3 WHERE ticket_id = $1`, ticketID, status, updatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrRecordNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// Audit

func (s *Store) CreateAuditLog(ctx context.Context, e *ydb.AuditLog) error {
	details := e.DetailsJSON
	if details == "" {
		details = "{}"
	}
	_, err := s.pool.Exec(ctx, `INSERT INTO audit_logs (id, timestamp, user_id, action_type, action_result, ip_address, user_agent, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb)`,
		e.ID, e.Timestamp, e.UserID, e.ActionType, e.ActionResult, e.IPAddress, e.UserAgent, details)
	return err
}

func (s *Store) ListAuditLogs(ctx context.Context, filter *ydb.AuditLogFilter) ([]*ydb.AuditLog, error) {
	var conditions []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conditions = append(conditions, strings.Replace(cond, "?", "$"+strconv.Itoa(len(args)), 1))
	}

	limit := 100
	if filter != nil {
		if filter.UserID != "" {
			add("user_id = ?", filter.UserID)
		}
		if filter.ActionType != "" {
			add("action_type = ?", filter.ActionType)
		}
		if filter.Result != "" {
			add("action_result = ?", filter.Result)
		}
		if filter.From != nil {
			add("timestamp >= ?", *filter.From)
		}
		if filter.To != nil {
			add("timestamp <= ?", *filter.To)
		}
		if filter.Limit > 0 {
			limit = filter.Limit
		}
	}

	query := `SELECT id, timestamp, user_id, action_type, action_result, ip_address, user_agent, details::text FROM audit_logs`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, limit)
	query += " ORDER BY timestamp DESC LIMIT $" + strconv.Itoa(len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*ydb.AuditLog
	for rows.Next() {
		var e ydb.AuditLog
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.UserID, &e.ActionType, &e.ActionResult, &e.IPAddress, &e.UserAgent, &e.DetailsJSON); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
