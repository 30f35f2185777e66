package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/lumiforge/vidlinkgen-backend/internal/config"
	"github.com/lumiforge/vidlinkgen-backend/internal/email"
	app_errors "github.com/lumiforge/vidlinkgen-backend/internal/errors"
	"github.com/lumiforge/vidlinkgen-backend/internal/identity"
	"github.com/lumiforge/vidlinkgen-backend/internal/jwt"
	jwtmocks "github.com/lumiforge/vidlinkgen-backend/internal/jwt/mocks"
	"github.com/lumiforge/vidlinkgen-backend/internal/models"
	"github.com/lumiforge/vidlinkgen-backend/internal/rbac"
	"github.com/lumiforge/vidlinkgen-backend/internal/ydb"
	ydbmocks "github.com/lumiforge/vidlinkgen-backend/internal/ydb/mocks"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// setupAuthService создает сервис с моками
func setupAuthService(t *testing.T) (*Service, *ydbmocks.Database, *jwtmocks.TokenManager, *identity.Hub) {
	mockDB := new(ydbmocks.Database)
	mockJWT := new(jwtmocks.TokenManager)

	// Пустой конфиг: IsConfigured() возвращает false и письма не отправляются
	emailClient, err := email.NewClient(context.Background(), &config.Config{})
	require.NoError(t, err)

	hub := identity.NewHub()
	service := NewService(mockDB, mockJWT, rbac.NewRBAC(), emailClient, hub)
	service.now = func() time.Time { return fixedNow }
	return service, mockDB, mockJWT, hub
}

func hashPassword(t *testing.T, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestService_Register_Success(t *testing.T) {
	service, mockDB, _, _ := setupAuthService(t)
	ctx := context.Background()

	req := &models.RegisterRequest{
		Email:       "Test@Example.com",
		Password:    "password123",
		DisplayName: "Test User",
	}

	mockDB.On("GetUserByEmail", ctx, "test@example.com").Return(nil, app_errors.ErrRecordNotFound)
	mockDB.On("CreateUser", ctx, mock.MatchedBy(func(u *ydb.User) bool {
		return u.Email == "test@example.com" &&
			u.Role == string(rbac.RoleMember) &&
			u.DisplayName != nil && *u.DisplayName == "Test User" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("password123")) == nil
	})).Return(nil)

	resp, err := service.Register(ctx, req)

	require.NoError(t, err)
	assert.NotEmpty(t, resp.UserID)
	assert.Equal(t, "Registration successful", resp.Message)
	mockDB.AssertExpectations(t)
}

func TestService_Register_UserAlreadyExists(t *testing.T) {
	service, mockDB, _, _ := setupAuthService(t)
	ctx := context.Background()

	mockDB.On("GetUserByEmail", ctx, "existing@example.com").Return(&ydb.User{UserID: "user-123"}, nil)

	resp, err := service.Register(ctx, &models.RegisterRequest{
		Email:    "existing@example.com",
		Password: "password123",
	})

	assert.ErrorIs(t, err, app_errors.ErrEmailAlreadyExists)
	assert.Nil(t, resp)
	mockDB.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestService_Register_Validation(t *testing.T) {
	service, mockDB, _, _ := setupAuthService(t)
	ctx := context.Background()

	cases := []*models.RegisterRequest{
		{Email: "not-an-email", Password: "password123"},
		{Email: "user@example.com", Password: "short"},
		{Email: "user@example.com", Password: "password123", DisplayName: "<script>alert(1)</script>"},
	}
	for _, req := range cases {
		_, err := service.Register(ctx, req)
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	}
	mockDB.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
}

func TestService_Login_Success(t *testing.T) {
	service, mockDB, mockJWT, hub := setupAuthService(t)
	ctx := context.Background()

	user := &ydb.User{
		UserID:       "user-1",
		Email:        "test@example.com",
		PasswordHash: hashPassword(t, "password123"),
		Role:         "member",
	}

	var events []identity.Event
	hub.Subscribe(func(e identity.Event) { events = append(events, e) })

	mockDB.On("GetUserByEmail", ctx, "test@example.com").Return(user, nil)
	mockJWT.On("GenerateTokenPair", "user-1").Return("access", "refresh", nil)
	mockJWT.On("GetTokenExpiry", jwt.KindAccess).Return(24 * time.Hour)
	mockJWT.On("GetTokenExpiry", jwt.KindRefresh).Return(7 * 24 * time.Hour)
	mockDB.On("CreateRefreshToken", ctx, mock.MatchedBy(func(r *ydb.RefreshToken) bool {
		return r.UserID == "user-1" && r.TokenHash == service.hashToken("refresh") && r.ExpiresAt.Equal(fixedNow.Add(7*24*time.Hour))
	})).Return(nil)

	resp, err := service.Login(ctx, &models.LoginRequest{Email: "TEST@example.com", Password: "password123"})

	require.NoError(t, err)
	assert.Equal(t, "access", resp.AccessToken)
	assert.Equal(t, "refresh", resp.RefreshToken)
	assert.Equal(t, fixedNow.Add(24*time.Hour).Unix(), resp.ExpiresAt)
	assert.Equal(t, "user-1", resp.User.UserID)
	require.Len(t, events, 1)
	assert.Equal(t, identity.EventSignedIn, events[0].Type)
	mockDB.AssertExpectations(t)
	mockJWT.AssertExpectations(t)
}

func TestService_Login_InvalidCredentials(t *testing.T) {
	service, mockDB, mockJWT, _ := setupAuthService(t)
	ctx := context.Background()

	mockDB.On("GetUserByEmail", ctx, "missing@example.com").Return(nil, app_errors.ErrRecordNotFound)
	mockDB.On("GetUserByEmail", ctx, "test@example.com").Return(&ydb.User{
		UserID:       "user-1",
		PasswordHash: hashPassword(t, "password123"),
	}, nil)

	_, err := service.Login(ctx, &models.LoginRequest{Email: "missing@example.com", Password: "password123"})
	assert.ErrorIs(t, err, app_errors.ErrInvalidCredentials)

	_, err = service.Login(ctx, &models.LoginRequest{Email: "test@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, app_errors.ErrInvalidCredentials)

	mockJWT.AssertNotCalled(t, "GenerateTokenPair", mock.Anything)
}

func TestService_RefreshToken_RotatesToken(t *testing.T) {
	service, mockDB, mockJWT, _ := setupAuthService(t)
	ctx := context.Background()

	oldHash := service.hashToken("old-refresh")

	mockJWT.On("ValidateRefreshToken", "old-refresh").Return(&jwt.Claims{UserID: "user-1"}, nil)
	mockDB.On("GetRefreshToken", ctx, oldHash).Return(&ydb.RefreshToken{
		UserID:    "user-1",
		TokenHash: oldHash,
		ExpiresAt: fixedNow.Add(time.Hour),
	}, nil)
	mockDB.On("GetUserByID", ctx, "user-1").Return(&ydb.User{UserID: "user-1", Email: "test@example.com", Role: "admin"}, nil)
	mockDB.On("RevokeRefreshToken", ctx, oldHash).Return(nil)
	mockJWT.On("GenerateTokenPair", "user-1").Return("new-access", "new-refresh", nil)
	mockJWT.On("GetTokenExpiry", jwt.KindAccess).Return(time.Hour)
	mockJWT.On("GetTokenExpiry", jwt.KindRefresh).Return(24 * time.Hour)
	mockDB.On("CreateRefreshToken", ctx, mock.Anything).Return(nil)

	resp, err := service.RefreshToken(ctx, &models.RefreshTokenRequest{RefreshToken: "old-refresh"})

	require.NoError(t, err)
	assert.Equal(t, "new-access", resp.AccessToken)
	assert.Equal(t, "new-refresh", resp.RefreshToken)
	mockDB.AssertExpectations(t)
	mockJWT.AssertExpectations(t)
}

func TestService_RefreshToken_Revoked(t *testing.T) {
	service, mockDB, mockJWT, _ := setupAuthService(t)
	ctx := context.Background()

	mockJWT.On("ValidateRefreshToken", "old-refresh").Return(&jwt.Claims{UserID: "user-1"}, nil)
	mockDB.On("GetRefreshToken", ctx, mock.AnythingOfType("string")).Return(&ydb.RefreshToken{
		UserID:    "user-1",
		IsRevoked: true,
		ExpiresAt: fixedNow.Add(time.Hour),
	}, nil)

	_, err := service.RefreshToken(ctx, &models.RefreshTokenRequest{RefreshToken: "old-refresh"})
	assert.ErrorIs(t, err, app_errors.ErrInvalidRefreshToken)
	mockDB.AssertNotCalled(t, "RevokeRefreshToken", mock.Anything, mock.Anything)
}

func TestService_Logout_PublishesSignedOut(t *testing.T) {
	service, mockDB, _, hub := setupAuthService(t)
	ctx := context.Background()

	var got identity.Event
	hub.Subscribe(func(e identity.Event) { got = e })

	hash := service.hashToken("refresh")
	mockDB.On("GetRefreshToken", ctx, hash).Return(&ydb.RefreshToken{UserID: "user-1", TokenHash: hash}, nil)
	mockDB.On("RevokeRefreshToken", ctx, hash).Return(nil)

	resp, err := service.Logout(ctx, &models.LogoutRequest{RefreshToken: "refresh"})

	require.NoError(t, err)
	assert.Equal(t, "Logout successful", resp.Message)
	assert.Equal(t, identity.EventSignedOut, got.Type)
	assert.Equal(t, "user-1", got.UserID)
}

func TestService_MarkCommunityJoined_OnlyOnce(t *testing.T) {
	service, mockDB, _, _ := setupAuthService(t)
	ctx := context.Background()
	actor := &identity.Context{UserID: "user-1", Role: rbac.RoleMember}

	mockDB.On("GetUserByID", ctx, "user-1").Return(&ydb.User{UserID: "user-1"}, nil).Once()
	mockDB.On("UpdateUser", ctx, mock.MatchedBy(func(u *ydb.User) bool { return u.JoinedCommunity })).Return(nil).Once()

	info, err := service.MarkCommunityJoined(ctx, actor)
	require.NoError(t, err)
	assert.True(t, info.JoinedCommunity)

	mockDB.On("GetUserByID", ctx, "user-1").Return(&ydb.User{UserID: "user-1", JoinedCommunity: true}, nil).Once()

	info, err = service.MarkCommunityJoined(ctx, actor)
	require.NoError(t, err)
	assert.True(t, info.JoinedCommunity)
	mockDB.AssertNumberOfCalls(t, "UpdateUser", 1)
}

func TestService_ResolveIdentity(t *testing.T) {
	service, mockDB, mockJWT, _ := setupAuthService(t)
	ctx := context.Background()

	tier := "team"
	expires := fixedNow.Add(48 * time.Hour)
	mockJWT.On("ValidateAccessToken", "good").Return(&jwt.Claims{UserID: "user-1"}, nil)
	mockJWT.On("ValidateAccessToken", "bad").Return(nil, errors.New("expired"))
	mockDB.On("GetUserByID", ctx, "user-1").Return(&ydb.User{
		UserID:           "user-1",
		Email:            "test@example.com",
		Role:             "member",
		PremiumTier:      &tier,
		PremiumExpiresAt: &expires,
	}, nil)

	actor, err := service.ResolveIdentity(ctx, "good")
	require.NoError(t, err)
	assert.True(t, actor.IsPremium())
	assert.Equal(t, "team", actor.Tier())

	_, err = service.ResolveIdentity(ctx, "bad")
	assert.ErrorIs(t, err, app_errors.ErrUnauthenticated)
}

func TestService_GetProfile_Anonymous(t *testing.T) {
	service, _, _, _ := setupAuthService(t)
	_, err := service.GetProfile(context.Background(), nil)
	assert.ErrorIs(t, err, app_errors.ErrUnauthenticated)
}
