package auth

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lumiforge/vidlinkgen-backend/internal/email"
	app_errors "github.com/lumiforge/vidlinkgen-backend/internal/errors"
	"github.com/lumiforge/vidlinkgen-backend/internal/identity"
	jwtmanager "github.com/lumiforge/vidlinkgen-backend/internal/jwt"
	"github.com/lumiforge/vidlinkgen-backend/internal/logger"
	"github.com/lumiforge/vidlinkgen-backend/internal/models"
	"github.com/lumiforge/vidlinkgen-backend/internal/rbac"
	"github.com/lumiforge/vidlinkgen-backend/internal/validation"
	"github.com/lumiforge/vidlinkgen-backend/internal/ydb"
)

const (
	minPasswordLength  = 8
	maxPasswordLength  = 72 // предел bcrypt
	maxDisplayNameSize = 100
)

// Service реализует бизнес-логику аутентификации
type Service struct {
	db         ydb.Database
	jwtManager jwtmanager.TokenManager
	rbac       *rbac.RBAC
	email      *email.Client
	hub        *identity.Hub
	now        func() time.Time
}

// NewService создает новый auth сервис
func NewService(db ydb.Database, jwtManager jwtmanager.TokenManager, rbacManager *rbac.RBAC, emailClient *email.Client, hub *identity.Hub) *Service {
	return &Service{
		db:         db,
		jwtManager: jwtManager,
		rbac:       rbacManager,
		email:      emailClient,
		hub:        hub,
		now:        time.Now,
	}
}

// Register регистрирует нового пользователя с ролью member
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.RegisterResponse, error) {
	emailAddr := validation.NormalizeEmail(req.Email)
	if err := validation.ValidateEmail(emailAddr, "email"); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLength {
		return nil, validation.ValidationError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", minPasswordLength)}
	}
	if len(req.Password) > maxPasswordLength {
		return nil, validation.ValidationError{Field: "password", Message: "is too long"}
	}
	if err := validation.ValidateText(req.DisplayName, "display_name", maxDisplayNameSize, false); err != nil {
		return nil, err
	}

	// Проверка, что email не занят
	_, err := s.db.GetUserByEmail(ctx, emailAddr)
	if err == nil {
		return nil, app_errors.ErrEmailAlreadyExists
	}
	if !errors.Is(err, app_errors.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user := &ydb.User{
		UserID:       uuid.New().String(),
		Email:        emailAddr,
		PasswordHash: string(passwordHash),
		Role:         string(rbac.RoleMember),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if name := strings.TrimSpace(req.DisplayName); name != "" {
		user.DisplayName = &name
	}

	if err := s.db.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Письмо не влияет на результат регистрации
	if _, err := s.email.SendWelcomeEmail(ctx, user.Email, req.DisplayName); err != nil {
		logger.FromContext(ctx).Warn("failed to send welcome email", "error", err, "user_id", user.UserID)
	}

	return &models.RegisterResponse{
		UserID:  user.UserID,
		Message: "Registration successful",
	}, nil
}

// Login выполняет вход пользователя
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.db.GetUserByEmail(ctx, validation.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, app_errors.ErrRecordNotFound) {
			return nil, app_errors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, app_errors.ErrInvalidCredentials
	}

	accessToken, refreshToken, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	now := s.now()
	s.hub.Publish(identity.Event{
		Type:     identity.EventSignedIn,
		UserID:   user.UserID,
		Identity: identity.FromUser(user, now),
		At:       now,
	})

	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(s.jwtManager.GetTokenExpiry(jwtmanager.KindAccess)).Unix(),
		User:         models.NewUserInfo(user, now),
	}, nil
}

// RefreshToken обменивает refresh токен на новую пару, старый токен отзывается
func (s *Service) RefreshToken(ctx context.Context, req *models.RefreshTokenRequest) (*models.RefreshTokenResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, app_errors.ErrInvalidRefreshToken
	}

	tokenHash := s.hashToken(req.RefreshToken)
	tokenRecord, err := s.db.GetRefreshToken(ctx, tokenHash)
	if err != nil || tokenRecord == nil || tokenRecord.IsRevoked || s.now().After(tokenRecord.ExpiresAt) {
		return nil, app_errors.ErrInvalidRefreshToken
	}

	// Роль берется из базы, а не из старого токена
	user, err := s.db.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, app_errors.ErrInvalidRefreshToken
	}

	if err := s.db.RevokeRefreshToken(ctx, tokenHash); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	accessToken, refreshToken, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &models.RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    s.now().Add(s.jwtManager.GetTokenExpiry(jwtmanager.KindAccess)).Unix(),
	}, nil
}

// Logout выполняет выход пользователя
func (s *Service) Logout(ctx context.Context, req *models.LogoutRequest) (*models.MessageResponse, error) {
	tokenHash := s.hashToken(req.RefreshToken)
	tokenRecord, err := s.db.GetRefreshToken(ctx, tokenHash)
	if err != nil || tokenRecord == nil {
		return nil, app_errors.ErrInvalidRefreshToken
	}

	if err := s.db.RevokeRefreshToken(ctx, tokenHash); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	s.hub.Publish(identity.Event{
		Type:   identity.EventSignedOut,
		UserID: tokenRecord.UserID,
		At:     s.now(),
	})

	return &models.MessageResponse{Message: "Logout successful"}, nil
}

// GetProfile возвращает актуальный профиль пользователя
func (s *Service) GetProfile(ctx context.Context, actor *identity.Context) (*models.UserInfo, error) {
	if !actor.IsAuthenticated() {
		return nil, app_errors.ErrUnauthenticated
	}
	user, err := s.getUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return models.NewUserInfo(user, s.now()), nil
}

// MarkCommunityJoined отмечает вступление в сообщество. Повторный вызов ничего не меняет.
func (s *Service) MarkCommunityJoined(ctx context.Context, actor *identity.Context) (*models.UserInfo, error) {
	if !actor.IsAuthenticated() {
		return nil, app_errors.ErrUnauthenticated
	}
	user, err := s.getUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	if !user.JoinedCommunity {
		user.JoinedCommunity = true
		user.UpdatedAt = s.now().UTC()
		if err := s.db.UpdateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	return models.NewUserInfo(user, s.now()), nil
}

// ResolveIdentity проверяет access токен и читает пользователя заново, чтобы премиум статус был актуальным
func (s *Service) ResolveIdentity(ctx context.Context, accessToken string) (*identity.Context, error) {
	claims, err := s.jwtManager.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", app_errors.ErrUnauthenticated, err)
	}

	user, err := s.db.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, app_errors.ErrRecordNotFound) {
			return nil, app_errors.ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return identity.FromUser(user, s.now()), nil
}

// CheckPermission проверяет разрешение роли пользователя
func (s *Service) CheckPermission(actor *identity.Context, permission rbac.Permission) bool {
	if !actor.IsAuthenticated() {
		return false
	}
	return s.rbac.CheckPermissionWithRole(actor.Role, permission)
}

func (s *Service) issueTokens(ctx context.Context, user *ydb.User) (string, string, error) {
	accessToken, refreshToken, err := s.jwtManager.GenerateTokenPair(user.UserID)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", app_errors.ErrFailedToGenerateNewTokens, err)
	}

	now := s.now().UTC()
	record := &ydb.RefreshToken{
		TokenID:   uuid.New().String(),
		UserID:    user.UserID,
		TokenHash: s.hashToken(refreshToken),
		ExpiresAt: now.Add(s.jwtManager.GetTokenExpiry(jwtmanager.KindRefresh)),
		CreatedAt: now,
	}
	if err := s.db.CreateRefreshToken(ctx, record); err != nil {
		return "", "", fmt.Errorf("failed to save refresh token: %w", err)
	}
	return accessToken, refreshToken, nil
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

// hashToken хеширует токен для хранения в базе
func (s *Service) hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", hash)
}
