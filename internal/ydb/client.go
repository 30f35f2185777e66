package ydb

import (
	"context"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/ydb-platform/ydb-go-sdk/v3"
	"github.com/ydb-platform/ydb-go-sdk/v3/table"
	"github.com/ydb-platform/ydb-go-sdk/v3/table/result"
	"github.com/ydb-platform/ydb-go-sdk/v3/table/result/named"
	"github.com/ydb-platform/ydb-go-sdk/v3/table/types"
	yc "github.com/ydb-platform/ydb-go-yc"

	"github.com/lumiforge/vidlinkgen-backend/internal/config"
	app_errors "github.com/lumiforge/vidlinkgen-backend/internal/errors"
)

// YDBClient реализация интерфейса Database
type YDBClient struct {
	driver       *ydb.Driver
	databasePath string
}

// NewYDBClient создает новый клиент YDB
func NewYDBClient(ctx context.Context, cfg *config.Config) (*YDBClient, error) {
	endpoint := cfg.SPYDBEndpoint
	database := cfg.SPYDBDatabasePath

	if endpoint == "" || database == "" {
		return nil, fmt.Errorf("YDB credentials not provided. Please set VL_YDB_ENDPOINT and VL_YDB_DATABASE_PATH environment variables")
	}

	driver, err := ydb.Open(ctx, endpoint,
		ydb.WithDatabase(database),
		yc.WithMetadataCredentials(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to YDB: %w", err)
	}

	log.Println("Successfully connected to YDB")

	client := &YDBClient{
		driver:       driver,
		databasePath: database,
	}

	// Создаём таблицы только если флаг установлен
	if cfg.SPYDBAutoCreateTables > 0 {
		log.Println("VL_YDB_AUTO_CREATE_TABLES is enabled, checking and creating tables...")
		if err := client.createTables(ctx); err != nil {
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}

	return client, nil
}

// Close закрывает соединение с базой данных
func (c *YDBClient) Close() error {
	if c.driver != nil {
		return c.driver.Close(context.Background())
	}
	return nil
}

var schema = []struct {
	name  string
	query string
}{
	{"users", `
		CREATE TABLE users (
			user_id Text NOT NULL,
			email Text NOT NULL,
			password_hash Text NOT NULL,
			display_name Text,
			role Text,
			is_premium Bool,
			premium_tier Text,
			premium_expires_at Timestamp,
			joined_community Bool,
			created_at Timestamp,
			updated_at Timestamp,
			PRIMARY KEY (user_id),
			INDEX email_idx GLOBAL UNIQUE ON (email)
		)
	`},
	{"video_links", `
		CREATE TABLE video_links (
			link_id Text NOT NULL,
			owner_id Text NOT NULL,
			short_id Text NOT NULL,
			short_url Text,
			source_type Text,
			source_url Text,
			storage_key Text,
			name Text,
			description Text,
			password Text,
			expires_at Timestamp,
			is_encrypted Bool,
			clicks Int64,
			created_at Timestamp,
			updated_at Timestamp,
			PRIMARY KEY (link_id),
			INDEX short_id_idx GLOBAL UNIQUE ON (short_id),
			INDEX owner_idx GLOBAL ON (owner_id)
		)
	`},
	{"link_permissions", `
		CREATE TABLE link_permissions (
			link_id Text NOT NULL,
			email Text NOT NULL,
			created_at Timestamp,
			PRIMARY KEY (link_id, email)
		)
	`},
	{"click_events", `
		CREATE TABLE click_events (
			link_id Text NOT NULL,
			clicked_at Timestamp NOT NULL,
			event_id Text NOT NULL,
			user_agent Text,
			country Text,
			device Text,
			PRIMARY KEY (link_id, clicked_at, event_id)
		)
	`},
	{"support_tickets", `
		CREATE TABLE support_tickets (
			ticket_id Text NOT NULL,
			user_id Text NOT NULL,
			email Text,
			subject Text,
			message Text,
			category Text,
			priority Text,
			status Text,
			created_at Timestamp,
			updated_at Timestamp,
			PRIMARY KEY (ticket_id),
			INDEX user_idx GLOBAL ON (user_id)
		)
	`},
	{"refresh_tokens", `
		CREATE TABLE refresh_tokens (
			token_id Text NOT NULL,
			user_id Text NOT NULL,
			token_hash Text NOT NULL,
			expires_at Timestamp,
			created_at Timestamp,
			is_revoked Bool,
			PRIMARY KEY (token_id),
			INDEX token_hash_idx GLOBAL UNIQUE ON (token_hash),
			INDEX user_idx GLOBAL ON (user_id)
		)
	`},
	{"audit_logs", `
		CREATE TABLE audit_logs (
			id Text NOT NULL,
			timestamp Timestamp NOT NULL,
			user_id Text,
			action_type Text,
			action_result Text,
			ip_address Text,
			user_agent Text,
			details Json,
			PRIMARY KEY (timestamp, id)
		)
	`},
}

// createTables создает таблицы в базе данных
func (c *YDBClient) createTables(ctx context.Context) error {
	log.Println("Starting table creation...")
	for i, t := range schema {
		if i > 0 {
			// Небольшая задержка между созданием таблиц для избежания лимита schema operations
			time.Sleep(500 * time.Millisecond)
		}
		log.Printf("Creating table: %s", t.name)
		exists, err := c.tableExists(ctx, t.name)
		if err != nil {
			return fmt.Errorf("failed to check %s table existence: %w", t.name, err)
		}
		if exists {
			log.Printf("Table %s already exists, skipping creation", t.name)
			continue
		}
		if err := c.executeSchemeQuery(ctx, t.query); err != nil {
			return fmt.Errorf("failed to create %s table: %w", t.name, err)
		}
	}
	return nil
}

// tableExists checks if a table exists in the database
func (c *YDBClient) tableExists(ctx context.Context, tableName string) (bool, error) {
	fullPath := path.Join(c.databasePath, tableName)
	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		_, err := session.DescribeTable(ctx, fullPath)
		return err
	})

	if err != nil {
		// YDB returns SchemeError with "Path not found" usually, code 400070 is SCHEME_ERROR
		msg := err.Error()
		if strings.Contains(msg, "not found") ||
			strings.Contains(msg, "does not exist") ||
			strings.Contains(msg, "Path not found") ||
			strings.Contains(msg, "code = 400070") {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// executeSchemeQuery выполняет DDL запрос
func (c *YDBClient) executeSchemeQuery(ctx context.Context, query string) error {
	return c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		return session.ExecuteSchemeQuery(ctx, query)
	})
}

// exec выполняет запрос без чтения результата
func (c *YDBClient) exec(ctx context.Context, query string, opts ...table.ParameterOption) error {
	return c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		_, _, err := session.Execute(ctx, table.DefaultTxControl(), query, table.NewQueryParameters(opts...))
		return err
	})
}

func optionalText(name string, v *string) table.ParameterOption {
	if v == nil {
		return table.ValueParam(name, types.NullValue(types.TypeText))
	}
	return table.ValueParam(name, types.OptionalValue(types.TextValue(*v)))
}

func optionalTimestamp(name string, v *time.Time) table.ParameterOption {
	if v == nil {
		return table.ValueParam(name, types.NullValue(types.TypeTimestamp))
	}
	return table.ValueParam(name, types.OptionalValue(types.TimestampValueFromTime(*v)))
}

func textList(values []string) types.Value {
	items := make([]types.Value, 0, len(values))
	for _, v := range values {
		items = append(items, types.TextValue(v))
	}
	return types.ListValue(items...)
}

// ---------------------------------------------------------------------------
// Users

const userColumns = `user_id, email, password_hash, display_name, role, is_premium,
	premium_tier, premium_expires_at, joined_community, created_at, updated_at`

func scanUser(res result.BaseResult) (*User, error) {
	var u User
	err := res.ScanNamed(
		named.Required("user_id", &u.UserID),
		named.Required("email", &u.Email),
		named.Required("password_hash", &u.PasswordHash),
		named.Optional("display_name", &u.DisplayName),
		named.OptionalWithDefault("role", &u.Role),
		named.OptionalWithDefault("is_premium", &u.IsPremium),
		named.Optional("premium_tier", &u.PremiumTier),
		named.Optional("premium_expires_at", &u.PremiumExpiresAt),
		named.OptionalWithDefault("joined_community", &u.JoinedCommunity),
		named.OptionalWithDefault("created_at", &u.CreatedAt),
		named.OptionalWithDefault("updated_at", &u.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	return &u, nil
}

func (c *YDBClient) queryUsers(ctx context.Context, query string, opts ...table.ParameterOption) ([]*User, error) {
	var users []*User
	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		users = users[:0]
		_, res, err := session.Execute(ctx, table.DefaultTxControl(), query, table.NewQueryParameters(opts...))
		if err != nil {
			return err
		}
		defer res.Close()

		for res.NextResultSet(ctx) {
			for res.NextRow() {
				u, err := scanUser(res)
				if err != nil {
					return err
				}
				users = append(users, u)
			}
		}
		return res.Err()
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (c *YDBClient) queryOneUser(ctx context.Context, query string, opts ...table.ParameterOption) (*User, error) {
	users, err := c.queryUsers(ctx, query, opts...)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, app_errors.ErrRecordNotFound
	}
	return users[0], nil
}

// CreateUser создает нового пользователя
func (c *YDBClient) CreateUser(ctx context.Context, user *User) error {
	query := `
		DECLARE $user_id AS Text;
		DECLARE $email AS Text;
		DECLARE $password_hash AS Text;
		DECLARE $display_name AS Optional<Text>;
		DECLARE $role AS Text;
		DECLARE $is_premium AS Bool;
		DECLARE $premium_tier AS Optional<Text>;
		DECLARE $premium_expires_at AS Optional<Timestamp>;
		DECLARE $joined_community AS Bool;
		DECLARE $created_at AS Timestamp;
		DECLARE $updated_at AS Timestamp;

		INSERT INTO users (` + userColumns + `)
		VALUES ($user_id, $email, $password_hash, $display_name, $role, $is_premium,
			$premium_tier, $premium_expires_at, $joined_community, $created_at, $updated_at)
	`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	return c.exec(ctx, query,
		table.ValueParam("$user_id", types.TextValue(user.UserID)),
		table.ValueParam("$email", types.TextValue(user.Email)),
		table.ValueParam("$password_hash", types.TextValue(user.PasswordHash)),
		optionalText("$display_name", user.DisplayName),
		table.ValueParam("$role", types.TextValue(user.Role)),
		table.ValueParam("$is_premium", types.BoolValue(user.IsPremium)),
		optionalText("$premium_tier", user.PremiumTier),
		optionalTimestamp("$premium_expires_at", user.PremiumExpiresAt),
		table.ValueParam("$joined_community", types.BoolValue(user.JoinedCommunity)),
		table.ValueParam("$created_at", types.TimestampValueFromTime(user.CreatedAt)),
		table.ValueParam("$updated_at", types.TimestampValueFromTime(user.UpdatedAt)),
	)
}

// GetUserByID получает пользователя по ID
func (c *YDBClient) GetUserByID(ctx context.Context, userID string) (*User, error) {
	query := `
		DECLARE $user_id AS Text;
		SELECT ` + userColumns + ` FROM users WHERE user_id = $user_id
	`
	return c.queryOneUser(ctx, query, table.ValueParam("$user_id", types.TextValue(userID)))
}

// GetUserByEmail получает пользователя по email
func (c *YDBClient) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		DECLARE $email AS Text;
		SELECT ` + userColumns + ` FROM users VIEW email_idx WHERE email = $email
	`
	return c.queryOneUser(ctx, query, table.ValueParam("$email", types.TextValue(email)))
}

// UpdateUser обновляет профиль пользователя, премиум поля не затрагиваются
func (c *YDBClient) UpdateUser(ctx context.Context, user *User) error {
	query := `
		DECLARE $user_id AS Text;
		DECLARE $password_hash AS Text;
		DECLARE $display_name AS Optional<Text>;
		DECLARE $role AS Text;
		DECLARE $joined_community AS Bool;
		DECLARE $updated_at AS Timestamp;

		UPDATE users SET
			password_hash = $password_hash,
			display_name = $display_name,
			role = $role,
			joined_community = $joined_community,
			updated_at = $updated_at
		WHERE user_id = $user_id
	`

	user.UpdatedAt = time.Now()
	return c.exec(ctx, query,
		table.ValueParam("$user_id", types.TextValue(user.UserID)),
		table.ValueParam("$password_hash", types.TextValue(user.PasswordHash)),
		optionalText("$display_name", user.DisplayName),
		table.ValueParam("$role", types.TextValue(user.Role)),
		table.ValueParam("$joined_community", types.BoolValue(user.JoinedCommunity)),
		table.ValueParam("$updated_at", types.TimestampValueFromTime(user.UpdatedAt)),
	)
}

// UpdateUserPremium записывает премиум флаг, тариф и дату окончания одной операцией
func (c *YDBClient) UpdateUserPremium(ctx context.Context, userID string, isPremium bool, tier *string, expiresAt *time.Time) error {
	query := `
		DECLARE $user_id AS Text;
		DECLARE $is_premium AS Bool;
		DECLARE $premium_tier AS Optional<Text>;
		DECLARE $premium_expires_at AS Optional<Timestamp>;
		DECLARE $updated_at AS Timestamp;

		UPDATE users SET
			is_premium = $is_premium,
			premium_tier = $premium_tier,
			premium_expires_at = $premium_expires_at,
			updated_at = $updated_at
		WHERE user_id = $user_id
	`
	return c.exec(ctx, query,
		table.ValueParam("$user_id", types.TextValue(userID)),
		table.ValueParam("$is_premium", types.BoolValue(isPremium)),
		optionalText("$premium_tier", tier),
		optionalTimestamp("$premium_expires_at", expiresAt),
		table.ValueParam("$updated_at", types.TimestampValueFromTime(time.Now())),
	)
}

// ListUsers возвращает страницу пользователей и их общее количество
func (c *YDBClient) ListUsers(ctx context.Context, limit, offset int) ([]*User, int64, error) {
	var total uint64
	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		_, res, err := session.Execute(ctx, table.DefaultTxControl(), `SELECT COUNT(*) AS total FROM users`, table.NewQueryParameters())
		if err != nil {
			return err
		}
		defer res.Close()

		if res.NextResultSet(ctx) && res.NextRow() {
			if err := res.ScanNamed(named.Required("total", &total)); err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}
		}
		return res.Err()
	})
	if err != nil {
		return nil, 0, err
	}

	query := `
		DECLARE $limit AS Uint64;
		DECLARE $offset AS Uint64;
		SELECT ` + userColumns + ` FROM users
		ORDER BY created_at DESC
		LIMIT $limit OFFSET $offset
	`
	users, err := c.queryUsers(ctx, query,
		table.ValueParam("$limit", types.Uint64Value(uint64(limit))),
		table.ValueParam("$offset", types.Uint64Value(uint64(offset))),
	)
	if err != nil {
		return nil, 0, err
	}
	return users, int64(total), nil
}

// ListPremiumUsersExpiringBefore возвращает премиум пользователей с окончанием тарифа до before
func (c *YDBClient) ListPremiumUsersExpiringBefore(ctx context.Context, before time.Time) ([]*User, error) {
	query := `
		DECLARE $before AS Timestamp;
		SELECT ` + userColumns + ` FROM users
		WHERE is_premium = true AND premium_expires_at IS NOT NULL AND premium_expires_at < $before
	`
	return c.queryUsers(ctx, query, table.ValueParam("$before", types.TimestampValueFromTime(before)))
}

// ---------------------------------------------------------------------------
// Refresh tokens

// CreateRefreshToken сохраняет хэш refresh токена
func (c *YDBClient) CreateRefreshToken(ctx context.Context, token *RefreshToken) error {
	query := `
		DECLARE $token_id AS Text;
		DECLARE $user_id AS Text;
		DECLARE $token_hash AS Text;
		DECLARE $expires_at AS Timestamp;
		DECLARE $created_at AS Timestamp;
		DECLARE $is_revoked AS Bool;

		UPSERT INTO refresh_tokens (token_id, user_id, token_hash, expires_at, created_at, is_revoked)
		VALUES ($token_id, $user_id, $token_hash, $expires_at, $created_at, $is_revoked)
	`
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	return c.exec(ctx, query,
		table.ValueParam("$token_id", types.TextValue(token.TokenID)),
		table.ValueParam("$user_id", types.TextValue(token.UserID)),
		table.ValueParam("$token_hash", types.TextValue(token.TokenHash)),
		table.ValueParam("$expires_at", types.TimestampValueFromTime(token.ExpiresAt)),
		table.ValueParam("$created_at", types.TimestampValueFromTime(token.CreatedAt)),
		table.ValueParam("$is_revoked", types.BoolValue(token.IsRevoked)),
	)
}

// GetRefreshToken получает refresh токен по хэшу
func (c *YDBClient) GetRefreshToken(ctx context.Context, tokenHash string) (*RefreshToken, error) {
	query := `
		DECLARE $token_hash AS Text;
		SELECT token_id, user_id, token_hash, expires_at, created_at, is_revoked
		FROM refresh_tokens VIEW token_hash_idx
		WHERE token_hash = $token_hash
	`

	var token RefreshToken
	var found bool

	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		_, res, err := session.Execute(ctx, table.DefaultTxControl(), query,
			table.NewQueryParameters(
				table.ValueParam("$token_hash", types.TextValue(tokenHash)),
			),
		)
		if err != nil {
			return err
		}
		defer res.Close()

		if res.NextResultSet(ctx) && res.NextRow() {
			found = true
			err := res.ScanNamed(
				named.Required("token_id", &token.TokenID),
				named.Required("user_id", &token.UserID),
				named.Required("token_hash", &token.TokenHash),
				named.OptionalWithDefault("expires_at", &token.ExpiresAt),
				named.OptionalWithDefault("created_at", &token.CreatedAt),
				named.OptionalWithDefault("is_revoked", &token.IsRevoked),
			)
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}
		}
		return res.Err()
	})

	if err != nil {
		return nil, err
	}
	if !found {
		return nil, app_errors.ErrRecordNotFound
	}
	return &token, nil
}

// RevokeRefreshToken отзывает refresh токен
func (c *YDBClient) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	query := `
		DECLARE $token_hash AS Text;
		UPDATE refresh_tokens ON
		SELECT token_id, true AS is_revoked FROM refresh_tokens VIEW token_hash_idx WHERE token_hash = $token_hash
	`
	return c.exec(ctx, query, table.ValueParam("$token_hash", types.TextValue(tokenHash)))
}

// RevokeAllUserRefreshTokens отзывает все refresh токены пользователя
func (c *YDBClient) RevokeAllUserRefreshTokens(ctx context.Context, userID string) error {
	query := `
		DECLARE $user_id AS Text;
		UPDATE refresh_tokens ON
		SELECT token_id, true AS is_revoked FROM refresh_tokens VIEW user_idx WHERE user_id = $user_id
	`
	return c.exec(ctx, query, table.ValueParam("$user_id", types.TextValue(userID)))
}

// ---------------------------------------------------------------------------
// Video links

const linkColumns = `link_id, owner_id, short_id, short_url, source_type, source_url, storage_key,
	name, description, password, expires_at, is_encrypted, clicks, created_at, updated_at`

func scanLink(res result.BaseResult) (*VideoLink, error) {
	var l VideoLink
	err := res.ScanNamed(
		named.Required("link_id", &l.LinkID),
		named.Required("owner_id", &l.OwnerID),
		named.Required("short_id", &l.ShortID),
		named.OptionalWithDefault("short_url", &l.ShortURL),
		named.OptionalWithDefault("source_type", &l.SourceType),
		named.Optional("source_url", &l.SourceURL),
		named.Optional("storage_key", &l.StorageKey),
		named.OptionalWithDefault("name", &l.Name),
		named.Optional("description", &l.Description),
		named.Optional("password", &l.Password),
		named.Optional("expires_at", &l.ExpiresAt),
		named.OptionalWithDefault("is_encrypted", &l.IsEncrypted),
		named.OptionalWithDefault("clicks", &l.Clicks),
		named.OptionalWithDefault("created_at", &l.CreatedAt),
		named.OptionalWithDefault("updated_at", &l.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	return &l, nil
}

func (c *YDBClient) queryLinks(ctx context.Context, query string, opts ...table.ParameterOption) ([]*VideoLink, error) {
	var links []*VideoLink
	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		links = links[:0]
		_, res, err := session.Execute(ctx, table.DefaultTxControl(), query, table.NewQueryParameters(opts...))
		if err != nil {
			return err
		}
		defer res.Close()

		for res.NextResultSet(ctx) {
			for res.NextRow() {
				l, err := scanLink(res)
				if err != nil {
					return err
				}
				links = append(links, l)
			}
		}
		return res.Err()
	})
	if err != nil {
		return nil, err
	}
	return links, nil
}

func linkParams(link *VideoLink) []table.ParameterOption {
	return []table.ParameterOption{
		table.ValueParam("$link_id", types.TextValue(link.LinkID)),
		table.ValueParam("$owner_id", types.TextValue(link.OwnerID)),
		table.ValueParam("$short_id", types.TextValue(link.ShortID)),
		table.ValueParam("$short_url", types.TextValue(link.ShortURL)),
		table.ValueParam("$source_type", types.TextValue(link.SourceType)),
		optionalText("$source_url", link.SourceURL),
		optionalText("$storage_key", link.StorageKey),
		table.ValueParam("$name", types.TextValue(link.Name)),
		optionalText("$description", link.Description),
		optionalText("$password", link.Password),
		optionalTimestamp("$expires_at", link.ExpiresAt),
		table.ValueParam("$is_encrypted", types.BoolValue(link.IsEncrypted)),
		table.ValueParam("$updated_at", types.TimestampValueFromTime(link.UpdatedAt)),
	}
}

const linkDeclares = `
	DECLARE $link_id AS Text;
	DECLARE $owner_id AS Text;
	DECLARE $short_id AS Text;
	DECLARE $short_url AS Text;
	DECLARE $source_type AS Text;
	DECLARE $source_url AS Optional<Text>;
	DECLARE $storage_key AS Optional<Text>;
	DECLARE $name AS Text;
	DECLARE $description AS Optional<Text>;
	DECLARE $password AS Optional<Text>;
	DECLARE $expires_at AS Optional<Timestamp>;
	DECLARE $is_encrypted AS Bool;
	DECLARE $updated_at AS Timestamp;
`

// CreateLink сохраняет новую ссылку со счетчиком 0
func (c *YDBClient) CreateLink(ctx context.Context, link *VideoLink) error {
	query := linkDeclares + `
		DECLARE $created_at AS Timestamp;

		INSERT INTO video_links (` + linkColumns + `)
		VALUES ($link_id, $owner_id, $short_id, $short_url, $source_type, $source_url, $storage_key,
			$name, $description, $password, $expires_at, $is_encrypted, 0l, $created_at, $updated_at)
	`

	now := time.Now()
	if link.CreatedAt.IsZero() {
		link.CreatedAt = now
	}
	link.UpdatedAt = link.CreatedAt
	link.Clicks = 0

	opts := append(linkParams(link), table.ValueParam("$created_at", types.TimestampValueFromTime(link.CreatedAt)))
	return c.exec(ctx, query, opts...)
}

// GetLinkByID получает ссылку по ID
func (c *YDBClient) GetLinkByID(ctx context.Context, linkID string) (*VideoLink, error) {
	query := `
		DECLARE $link_id AS Text;
		SELECT ` + linkColumns + ` FROM video_links WHERE link_id = $link_id
	`
	links, err := c.queryLinks(ctx, query, table.ValueParam("$link_id", types.TextValue(linkID)))
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, app_errors.ErrRecordNotFound
	}
	return links[0], nil
}

// GetLinkByShortID получает ссылку по короткому идентификатору
func (c *YDBClient) GetLinkByShortID(ctx context.Context, shortID string) (*VideoLink, error) {
	query := `
		DECLARE $short_id AS Text;
		SELECT ` + linkColumns + ` FROM video_links VIEW short_id_idx WHERE short_id = $short_id
	`
	links, err := c.queryLinks(ctx, query, table.ValueParam("$short_id", types.TextValue(shortID)))
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, app_errors.ErrRecordNotFound
	}
	return links[0], nil
}

// UpdateLink обновляет редактируемые поля ссылки
func (c *YDBClient) UpdateLink(ctx context.Context, link *VideoLink) error {
	query := linkDeclares + `
		UPDATE video_links SET
			short_url = $short_url,
			source_type = $source_type,
			source_url = $source_url,
			storage_key = $storage_key,
			name = $name,
			description = $description,
			password = $password,
			expires_at = $expires_at,
			is_encrypted = $is_encrypted,
			updated_at = $updated_at
		WHERE link_id = $link_id AND owner_id = $owner_id AND short_id = $short_id
	`
	link.UpdatedAt = time.Now()
	return c.exec(ctx, query, linkParams(link)...)
}

// DeleteLink удаляет ссылку, ее список доступа и события кликов в одной транзакции
func (c *YDBClient) DeleteLink(ctx context.Context, linkID string) error {
	query := `
		DECLARE $link_id AS Text;
		DELETE FROM link_permissions WHERE link_id = $link_id;
		DELETE FROM click_events WHERE link_id = $link_id;
		DELETE FROM video_links WHERE link_id = $link_id;
	`
	return c.driver.Table().DoTx(ctx, func(ctx context.Context, tx table.TransactionActor) error {
		_, err := tx.Execute(ctx, query, table.NewQueryParameters(
			table.ValueParam("$link_id", types.TextValue(linkID)),
		))
		return err
	})
}

// ListLinksByOwner возвращает ссылки пользователя, новые первыми
func (c *YDBClient) ListLinksByOwner(ctx context.Context, ownerID string) ([]*VideoLink, error) {
	query := `
		DECLARE $owner_id AS Text;
		SELECT ` + linkColumns + ` FROM video_links VIEW owner_idx
		WHERE owner_id = $owner_id
		ORDER BY created_at DESC
	`
	return c.queryLinks(ctx, query, table.ValueParam("$owner_id", types.TextValue(ownerID)))
}

// ListAllLinks читает все ссылки через scan query, без лимита на размер результата
func (c *YDBClient) ListAllLinks(ctx context.Context) ([]*VideoLink, error) {
	query := `SELECT ` + linkColumns + ` FROM video_links`

	var links []*VideoLink
	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		links = links[:0]
		res, err := session.StreamExecuteScanQuery(ctx, query, table.NewQueryParameters())
		if err != nil {
			return err
		}
		defer res.Close()

		for res.NextResultSet(ctx) {
			for res.NextRow() {
				l, err := scanLink(res)
				if err != nil {
					return err
				}
				links = append(links, l)
			}
		}
		return res.Err()
	})
	if err != nil {
		return nil, err
	}
	return links, nil
}

// CountLinksByOwner возвращает количество ссылок пользователя
func (c *YDBClient) CountLinksByOwner(ctx context.Context, ownerID string) (int64, error) {
	query := `
		DECLARE $owner_id AS Text;
		SELECT COUNT(*) AS total FROM video_links VIEW owner_idx WHERE owner_id = $owner_id
	`

	var total uint64
	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		_, res, err := session.Execute(ctx, table.DefaultTxControl(), query,
			table.NewQueryParameters(
				table.ValueParam("$owner_id", types.TextValue(ownerID)),
			),
		)
		if err != nil {
			return err
		}
		defer res.Close()

		if res.NextResultSet(ctx) && res.NextRow() {
			if err := res.ScanNamed(named.Required("total", &total)); err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}
		}
		return res.Err()
	})
	if err != nil {
		return 0, err
	}
	return int64(total), nil
}

// ---------------------------------------------------------------------------
// Link permissions

// GetLinkPermissions возвращает список доступа ссылки
func (c *YDBClient) GetLinkPermissions(ctx context.Context, linkID string) ([]*LinkPermission, error) {
	query := `
		DECLARE $link_id AS Text;
		SELECT link_id, email, created_at FROM link_permissions WHERE link_id = $link_id
	`

	var perms []*LinkPermission
	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		perms = perms[:0]
		_, res, err := session.Execute(ctx, table.DefaultTxControl(), query,
			table.NewQueryParameters(
				table.ValueParam("$link_id", types.TextValue(linkID)),
			),
		)
		if err != nil {
			return err
		}
		defer res.Close()

		for res.NextResultSet(ctx) {
			for res.NextRow() {
				var p LinkPermission
				if err := res.ScanNamed(
					named.Required("link_id", &p.LinkID),
					named.Required("email", &p.Email),
					named.OptionalWithDefault("created_at", &p.CreatedAt),
				); err != nil {
					return fmt.Errorf("scan failed: %w", err)
				}
				perms = append(perms, &p)
			}
		}
		return res.Err()
	})
	if err != nil {
		return nil, err
	}
	return perms, nil
}

// AddLinkPermissions добавляет email в список доступа. Повторное добавление не создает дубликатов.
func (c *YDBClient) AddLinkPermissions(ctx context.Context, linkID string, emails []string) error {
	if len(emails) == 0 {
		return nil
	}
	query := `
		DECLARE $rows AS List<Struct<link_id: Text, email: Text, created_at: Timestamp>>;
		UPSERT INTO link_permissions
		SELECT link_id, email, created_at FROM AS_TABLE($rows)
	`

	now := types.TimestampValueFromTime(time.Now())
	rows := make([]types.Value, 0, len(emails))
	for _, email := range emails {
		rows = append(rows, types.StructValue(
			types.StructFieldValue("link_id", types.TextValue(linkID)),
			types.StructFieldValue("email", types.TextValue(email)),
			types.StructFieldValue("created_at", now),
		))
	}
	return c.exec(ctx, query, table.ValueParam("$rows", types.ListValue(rows...)))
}

// RemoveLinkPermissions удаляет email из списка доступа
func (c *YDBClient) RemoveLinkPermissions(ctx context.Context, linkID string, emails []string) error {
	if len(emails) == 0 {
		return nil
	}
	query := `
		DECLARE $link_id AS Text;
		DECLARE $emails AS List<Text>;
		DELETE FROM link_permissions WHERE link_id = $link_id AND email IN $emails
	`
	return c.exec(ctx, query,
		table.ValueParam("$link_id", types.TextValue(linkID)),
		table.ValueParam("$emails", textList(emails)),
	)
}

// ---------------------------------------------------------------------------
// Clicks

// RecordClick сохраняет событие клика и увеличивает счетчик в одной serializable транзакции.
// При конфликте параллельных транзакций DoTx повторяет попытку, поэтому приращения не теряются.
func (c *YDBClient) RecordClick(ctx context.Context, event *ClickEvent) (int64, error) {
	readQuery := `
		DECLARE $link_id AS Text;
		SELECT clicks FROM video_links WHERE link_id = $link_id
	`
	writeQuery := `
		DECLARE $link_id AS Text;
		DECLARE $event_id AS Text;
		DECLARE $clicked_at AS Timestamp;
		DECLARE $user_agent AS Text;
		DECLARE $country AS Text;
		DECLARE $device AS Text;

		UPSERT INTO click_events (link_id, clicked_at, event_id, user_agent, country, device)
		VALUES ($link_id, $clicked_at, $event_id, $user_agent, $country, $device);

		UPDATE video_links SET clicks = COALESCE(clicks, 0l) + 1l WHERE link_id = $link_id;
	`

	var clicks int64
	err := c.driver.Table().DoTx(ctx, func(ctx context.Context, tx table.TransactionActor) error {
		res, err := tx.Execute(ctx, readQuery, table.NewQueryParameters(
			table.ValueParam("$link_id", types.TextValue(event.LinkID)),
		))
		if err != nil {
			return err
		}
		found := false
		var current int64
		if res.NextResultSet(ctx) && res.NextRow() {
			found = true
			if err := res.ScanNamed(named.OptionalWithDefault("clicks", &current)); err != nil {
				_ = res.Close()
				return fmt.Errorf("scan failed: %w", err)
			}
		}
		if err := res.Err(); err != nil {
			_ = res.Close()
			return err
		}
		_ = res.Close()
		if !found {
			return app_errors.ErrRecordNotFound
		}

		_, err = tx.Execute(ctx, writeQuery, table.NewQueryParameters(
			table.ValueParam("$link_id", types.TextValue(event.LinkID)),
			table.ValueParam("$event_id", types.TextValue(event.EventID)),
			table.ValueParam("$clicked_at", types.TimestampValueFromTime(event.ClickedAt)),
			table.ValueParam("$user_agent", types.TextValue(event.UserAgent)),
			table.ValueParam("$country", types.TextValue(event.Country)),
			table.ValueParam("$device", types.TextValue(event.Device)),
		))
		if err != nil {
			return err
		}
		clicks = current + 1
		return nil
	})
	if err != nil {
		return 0, err
	}
	return clicks, nil
}

// ListClickEvents возвращает события кликов ссылки начиная с since
func (c *YDBClient) ListClickEvents(ctx context.Context, linkID string, since time.Time) ([]*ClickEvent, error) {
	query := `
		DECLARE $link_id AS Text;
		DECLARE $since AS Timestamp;
		SELECT link_id, clicked_at, event_id, user_agent, country, device
		FROM click_events
		WHERE link_id = $link_id AND clicked_at >= $since
	`

	var events []*ClickEvent
	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		events = events[:0]
		res, err := session.StreamExecuteScanQuery(ctx, query, table.NewQueryParameters(
			table.ValueParam("$link_id", types.TextValue(linkID)),
			table.ValueParam("$since", types.TimestampValueFromTime(since)),
		))
		if err != nil {
			return err
		}
		defer res.Close()

		for res.NextResultSet(ctx) {
			for res.NextRow() {
				var e ClickEvent
				if err := res.ScanNamed(
					named.Required("link_id", &e.LinkID),
					named.Required("clicked_at", &e.ClickedAt),
					named.Required("event_id", &e.EventID),
					named.OptionalWithDefault("user_agent", &e.UserAgent),
					named.OptionalWithDefault("country", &e.Country),
					named.OptionalWithDefault("device", &e.Device),
				); err != nil {
					return fmt.Errorf("scan failed: %w", err)
				}
				events = append(events, &e)
			}
		}
		return res.Err()
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// ---------------------------------------------------------------------------
// Support tickets

const ticketColumns = `ticket_id, user_id, email, subject, message, category, priority, status, created_at, updated_at`

func (c *YDBClient) queryTickets(ctx context.Context, query string, opts ...table.ParameterOption) ([]*SupportTicket, error) {
	var tickets []*SupportTicket
	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		tickets = tickets[:0]
		_, res, err := session.Execute(ctx, table.DefaultTxControl(), query, table.NewQueryParameters(opts...))
		if err != nil {
			return err
		}
		defer res.Close()

		for res.NextResultSet(ctx) {
			for res.NextRow() {
				var t SupportTicket
				if err := res.ScanNamed(
					named.Required("ticket_id", &t.TicketID),
					named.Required("user_id", &t.UserID),
					named.OptionalWithDefault("email", &t.Email),
					named.OptionalWithDefault("subject", &t.Subject),
					named.OptionalWithDefault("message", &t.Message),
					named.OptionalWithDefault("category", &t.Category),
					named.OptionalWithDefault("priority", &t.Priority),
					named.OptionalWithDefault("status", &t.Status),
					named.OptionalWithDefault("created_at", &t.CreatedAt),
					named.OptionalWithDefault("updated_at", &t.UpdatedAt),
				); err != nil {
					return fmt.Errorf("scan failed: %w", err)
				}
				tickets = append(tickets, &t)
			}
		}
		return res.Err()
	})
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

// CreateTicket сохраняет новый тикет
func (c *YDBClient) CreateTicket(ctx context.Context, ticket *SupportTicket) error {
	query := `
		DECLARE $ticket_id AS Text;
		DECLARE $user_id AS Text;
		DECLARE $email AS Text;
		DECLARE $subject AS Text;
		DECLARE $message AS Text;
		DECLARE $category AS Text;
		DECLARE $priority AS Text;
		DECLARE $status AS Text;
		DECLARE $created_at AS Timestamp;
		DECLARE $updated_at AS Timestamp;

		INSERT INTO support_tickets (` + ticketColumns + `)
		VALUES ($ticket_id, $user_id, $email, $subject, $message, $category, $priority, $status, $created_at, $updated_at)
	`
	return c.exec(ctx, query,
		table.ValueParam("$ticket_id", types.TextValue(ticket.TicketID)),
		table.ValueParam("$user_id", types.TextValue(ticket.UserID)),
		table.ValueParam("$email", types.TextValue(ticket.Email)),
		table.ValueParam("$subject", types.TextValue(ticket.Subject)),
		table.ValueParam("$message", types.TextValue(ticket.Message)),
		table.ValueParam("$category", types.TextValue(ticket.Category)),
		table.ValueParam("$priority", types.TextValue(ticket.Priority)),
		table.ValueParam("$status", types.TextValue(ticket.Status)),
		table.ValueParam("$created_at", types.TimestampValueFromTime(ticket.CreatedAt)),
		table.ValueParam("$updated_at", types.TimestampValueFromTime(ticket.UpdatedAt)),
	)
}

// GetTicket получает тикет по ID
func (c *YDBClient) GetTicket(ctx context.Context, ticketID string) (*SupportTicket, error) {
	query := `
		DECLARE $ticket_id AS Text;
		SELECT ` + ticketColumns + ` FROM support_tickets WHERE ticket_id = $ticket_id
	`
	tickets, err := c.queryTickets(ctx, query, table.ValueParam("$ticket_id", types.TextValue(ticketID)))
	if err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return nil, app_errors.ErrRecordNotFound
	}
	return tickets[0], nil
}

// ListTicketsByUser возвращает тикеты пользователя
func (c *YDBClient) ListTicketsByUser(ctx context.Context, userID string) ([]*SupportTicket, error) {
	query := `
		DECLARE $user_id AS Text;
		SELECT ` + ticketColumns + ` FROM support_tickets VIEW user_idx
		WHERE user_id = $user_id
		ORDER BY created_at DESC
	`
	return c.queryTickets(ctx, query, table.ValueParam("$user_id", types.TextValue(userID)))
}

// ListTickets возвращает все тикеты, опционально отфильтрованные по статусу
func (c *YDBClient) ListTickets(ctx context.Context, status string) ([]*SupportTicket, error) {
	if status == "" {
		return c.queryTickets(ctx, `SELECT `+ticketColumns+` FROM support_tickets ORDER BY created_at DESC`)
	}
	query := `
		DECLARE $status AS Text;
		SELECT ` + ticketColumns + ` FROM support_tickets
		WHERE status = $status
		ORDER BY created_at DESC
	`
	return c.queryTickets(ctx, query, table.ValueParam("$status", types.TextValue(status)))
}

// UpdateTicketStatus меняет статус тикета
func (c *YDBClient) UpdateTicketStatus(ctx context.Context, ticketID, status string, updatedAt time.Time) error {
	query := `
		DECLARE $ticket_id AS Text;
		DECLARE $status AS Text;
		DECLARE $updated_at AS Timestamp;
		UPDATE support_tickets SET status = $status, updated_at = $updated_at WHERE ticket_id = $ticket_id
	`
	return c.exec(ctx, query,
		table.ValueParam("$ticket_id", types.TextValue(ticketID)),
		table.ValueParam("$status", types.TextValue(status)),
		table.ValueParam("$updated_at", types.TimestampValueFromTime(updatedAt)),
	)
}

// ---------------------------------------------------------------------------
// Audit

// CreateAuditLog сохраняет запись аудита
func (c *YDBClient) CreateAuditLog(ctx context.Context, entry *AuditLog) error {
	query := `
		DECLARE $id AS Text;
		DECLARE $timestamp AS Timestamp;
		DECLARE $user_id AS Optional<Text>;
		DECLARE $action_type AS Text;
		DECLARE $action_result AS Text;
		DECLARE $ip_address AS Optional<Text>;
		DECLARE $user_agent AS Optional<Text>;
		DECLARE $details AS Json;

		UPSERT INTO audit_logs (id, timestamp, user_id, action_type, action_result, ip_address, user_agent, details)
		VALUES ($id, $timestamp, $user_id, $action_type, $action_result, $ip_address, $user_agent, $details)
	`
	return c.exec(ctx, query,
		table.ValueParam("$id", types.TextValue(entry.ID)),
		table.ValueParam("$timestamp", types.TimestampValueFromTime(entry.Timestamp)),
		optionalText("$user_id", entry.UserID),
		table.ValueParam("$action_type", types.TextValue(entry.ActionType)),
		table.ValueParam("$action_result", types.TextValue(entry.ActionResult)),
		optionalText("$ip_address", entry.IPAddress),
		optionalText("$user_agent", entry.UserAgent),
		table.ValueParam("$details", types.JSONValue(entry.DetailsJSON)),
	)
}

// ListAuditLogs возвращает записи аудита по фильтру, новые первыми
func (c *YDBClient) ListAuditLogs(ctx context.Context, filter *AuditLogFilter) ([]*AuditLog, error) {
	declares := []string{"DECLARE $limit AS Uint64;"}
	conditions := []string{}
	limit := 100
	if filter != nil && filter.Limit > 0 {
		limit = filter.Limit
	}
	opts := []table.ParameterOption{
		table.ValueParam("$limit", types.Uint64Value(uint64(limit))),
	}

	if filter != nil {
		if filter.UserID != "" {
			declares = append(declares, "DECLARE $user_id AS Text;")
			conditions = append(conditions, "user_id = $user_id")
			opts = append(opts, table.ValueParam("$user_id", types.TextValue(filter.UserID)))
		}
		if filter.ActionType != "" {
			declares = append(declares, "DECLARE $action_type AS Text;")
			conditions = append(conditions, "action_type = $action_type")
			opts = append(opts, table.ValueParam("$action_type", types.TextValue(filter.ActionType)))
		}
		if filter.Result != "" {
			declares = append(declares, "DECLARE $action_result AS Text;")
			conditions = append(conditions, "action_result = $action_result")
			opts = append(opts, table.ValueParam("$action_result", types.TextValue(filter.Result)))
		}
		if filter.From != nil {
			declares = append(declares, "DECLARE $from AS Timestamp;")
			conditions = append(conditions, "timestamp >= $from")
			opts = append(opts, table.ValueParam("$from", types.TimestampValueFromTime(*filter.From)))
		}
		if filter.To != nil {
			declares = append(declares, "DECLARE $to AS Timestamp;")
			conditions = append(conditions, "timestamp <= $to")
			opts = append(opts, table.ValueParam("$to", types.TimestampValueFromTime(*filter.To)))
		}
	}

	query := strings.Join(declares, "\n") + `
		SELECT id, timestamp, user_id, action_type, action_result, ip_address, user_agent, CAST(details AS Utf8) AS details
		FROM audit_logs`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY timestamp DESC LIMIT $limit"

	var entries []*AuditLog
	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		entries = entries[:0]
		_, res, err := session.Execute(ctx, table.DefaultTxControl(), query, table.NewQueryParameters(opts...))
		if err != nil {
			return err
		}
		defer res.Close()

		for res.NextResultSet(ctx) {
			for res.NextRow() {
				var e AuditLog
				if err := res.ScanNamed(
					named.Required("id", &e.ID),
					named.Required("timestamp", &e.Timestamp),
					named.Optional("user_id", &e.UserID),
					named.OptionalWithDefault("action_type", &e.ActionType),
					named.OptionalWithDefault("action_result", &e.ActionResult),
					named.Optional("ip_address", &e.IPAddress),
					named.Optional("user_agent", &e.UserAgent),
					named.OptionalWithDefault("details", &e.DetailsJSON),
				); err != nil {
					return fmt.Errorf("scan failed: %w", err)
				}
				entries = append(entries, &e)
			}
		}
		return res.Err()
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
