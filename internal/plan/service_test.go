package plan

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lumiforge/vidlinkgen-backend/internal/audit"
	app_errors "github.com/lumiforge/vidlinkgen-backend/internal/errors"
	"github.com/lumiforge/vidlinkgen-backend/internal/identity"
	"github.com/lumiforge/vidlinkgen-backend/internal/rbac"
	"github.com/lumiforge/vidlinkgen-backend/internal/ydb"
	ydbmocks "github.com/lumiforge/vidlinkgen-backend/internal/ydb/mocks"
)

var (
	fixedNow = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	admin    = &identity.Context{UserID: "admin-1", Role: rbac.RoleAdmin}
	member   = &identity.Context{UserID: "user-1", Role: rbac.RoleMember}
)

func setupPlanService() (*Service, *ydbmocks.Database, *identity.Hub) {
	mockDB := new(ydbmocks.Database)
	hub := identity.NewHub()
	r := rbac.NewRBAC()
	s := NewService(mockDB, NewCatalog(testConfig()), r, audit.NewService(mockDB, r, nil), hub, "Transfer to account 123")
	s.now = func() time.Time { return fixedNow }
	return s, mockDB, hub
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestService_ListPlans(t *testing.T) {
	s, _, _ := setupPlanService()

	resp := s.ListPlans(context.Background())
	assert.Len(t, resp.Plans, 4)
	assert.Equal(t, int64(512), resp.FreeUploadLimitMB)
	assert.Equal(t, "Transfer to account 123", resp.PaymentInstructions)
}

func TestService_Assign_NowPlusDuration(t *testing.T) {
	s, mockDB, hub := setupPlanService()
	ctx := context.Background()

	var events []identity.Event
	hub.Subscribe(func(e identity.Event) { events = append(events, e) })

	expected := fixedNow.AddDate(1, 0, 0)
	mockDB.On("GetUserByID", ctx, "user-1").Return(&ydb.User{UserID: "user-1"}, nil).Once()
	mockDB.On("UpdateUserPremium", ctx, "user-1", true,
		mock.MatchedBy(func(tier *string) bool { return tier != nil && *tier == "team" }),
		mock.MatchedBy(func(exp *time.Time) bool { return exp != nil && exp.Equal(expected) }),
	).Return(nil)
	mockDB.On("GetUserByID", ctx, "user-1").Return(&ydb.User{
		UserID:           "user-1",
		IsPremium:        true,
		PremiumTier:      strPtr("team"),
		PremiumExpiresAt: timePtr(expected),
	}, nil).Once()
	mockDB.On("CountLinksByOwner", ctx, "user-1").Return(int64(3), nil)
	mockDB.On("CreateAuditLog", ctx, mock.MatchedBy(func(l *ydb.AuditLog) bool {
		return l.ActionType == "premium_assigned" && *l.UserID == "admin-1"
	})).Return(nil)

	resp, err := s.Assign(ctx, admin, "user-1", "team_yearly")

	require.NoError(t, err)
	assert.True(t, resp.User.IsPremium)
	assert.Equal(t, "team", resp.User.PremiumTier)
	assert.Equal(t, int64(3), resp.LinkCount)
	require.Len(t, events, 1)
	assert.Equal(t, identity.EventPremiumChanged, events[0].Type)
	assert.Equal(t, "admin-1", events[0].ActorID)
	mockDB.AssertExpectations(t)
}

func TestService_Assign_RequiresAdmin(t *testing.T) {
	s, mockDB, _ := setupPlanService()
	ctx := context.Background()

	_, err := s.Assign(ctx, member, "user-1", "team_yearly")
	assert.ErrorIs(t, err, app_errors.ErrForbidden)

	_, err = s.Assign(ctx, nil, "user-1", "team_yearly")
	assert.ErrorIs(t, err, app_errors.ErrUnauthenticated)

	mockDB.AssertNotCalled(t, "UpdateUserPremium", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Assign_UnknownPlan(t *testing.T) {
	s, mockDB, _ := setupPlanService()

	_, err := s.Assign(context.Background(), admin, "user-1", "gold")
	assert.ErrorIs(t, err, app_errors.ErrUnknownPlan)
	mockDB.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
}

func TestService_Extend_FromStoredExpiry(t *testing.T) {
	s, mockDB, _ := setupPlanService()
	ctx := context.Background()

	stored := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	expected := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	mockDB.On("GetUserByID", ctx, "user-1").Return(&ydb.User{
		UserID:           "user-1",
		PremiumTier:      strPtr("individual"),
		PremiumExpiresAt: timePtr(stored),
	}, nil).Once()
	mockDB.On("UpdateUserPremium", ctx, "user-1", true,
		mock.MatchedBy(func(tier *string) bool { return *tier == "individual" }),
		mock.MatchedBy(func(exp *time.Time) bool { return exp.Equal(expected) }),
	).Return(nil)
	mockDB.On("GetUserByID", ctx, "user-1").Return(&ydb.User{
		UserID:           "user-1",
		PremiumTier:      strPtr("individual"),
		PremiumExpiresAt: timePtr(expected),
	}, nil).Once()
	mockDB.On("CountLinksByOwner", ctx, "user-1").Return(int64(0), nil)
	mockDB.On("CreateAuditLog", ctx, mock.Anything).Return(nil)

	resp, err := s.Extend(ctx, admin, "user-1")

	require.NoError(t, err)
	assert.True(t, resp.ExpiresAt.Equal(expected))
	mockDB.AssertExpectations(t)
}

func TestService_Extend_StillExpiredIsNotPremium(t *testing.T) {
	s, mockDB, _ := setupPlanService()
	ctx := context.Background()

	stored := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	mockDB.On("GetUserByID", ctx, "user-1").Return(&ydb.User{
		UserID:           "user-1",
		PremiumTier:      strPtr("individual"),
		PremiumExpiresAt: timePtr(stored),
	}, nil)
	mockDB.On("UpdateUserPremium", ctx, "user-1", false, mock.Anything, mock.Anything).Return(nil)
	mockDB.On("CountLinksByOwner", ctx, "user-1").Return(int64(0), nil)
	mockDB.On("CreateAuditLog", ctx, mock.Anything).Return(nil)

	_, err := s.Extend(ctx, admin, "user-1")
	require.NoError(t, err)
	mockDB.AssertCalled(t, "UpdateUserPremium", ctx, "user-1", false, mock.Anything, mock.Anything)
}

func TestService_Extend_NoActivePlan(t *testing.T) {
	s, mockDB, _ := setupPlanService()
	ctx := context.Background()

	mockDB.On("GetUserByID", ctx, "user-1").Return(&ydb.User{UserID: "user-1"}, nil)

	_, err := s.Extend(ctx, admin, "user-1")
	assert.ErrorIs(t, err, app_errors.ErrNoActivePlan)
}

func TestService_Extend_NoMatchingPlan(t *testing.T) {
	s, mockDB, _ := setupPlanService()
	ctx := context.Background()

	mockDB.On("GetUserByID", ctx, "user-1").Return(&ydb.User{
		UserID:           "user-1",
		PremiumTier:      strPtr("gold"),
		PremiumExpiresAt: timePtr(fixedNow),
	}, nil)

	_, err := s.Extend(ctx, admin, "user-1")
	assert.ErrorIs(t, err, app_errors.ErrNoMatchingPlan)
}

func TestService_Revoke_ClearsEverything(t *testing.T) {
	s, mockDB, _ := setupPlanService()
	ctx := context.Background()

	mockDB.On("GetUserByID", ctx, "user-1").Return(&ydb.User{UserID: "user-1"}, nil)
	mockDB.On("UpdateUserPremium", ctx, "user-1", false, (*string)(nil), (*time.Time)(nil)).Return(nil)
	mockDB.On("CountLinksByOwner", ctx, "user-1").Return(int64(1), nil)
	mockDB.On("CreateAuditLog", ctx, mock.Anything).Return(nil)

	resp, err := s.Revoke(ctx, admin, "user-1")

	require.NoError(t, err)
	assert.False(t, resp.User.IsPremium)
	assert.Empty(t, resp.User.PremiumTier)
	assert.Nil(t, resp.ExpiresAt)
	mockDB.AssertExpectations(t)
}

func TestService_UnknownUser(t *testing.T) {
	s, mockDB, _ := setupPlanService()
	ctx := context.Background()

	mockDB.On("GetUserByID", ctx, "ghost").Return(nil, app_errors.ErrRecordNotFound)

	_, err := s.Revoke(ctx, admin, "ghost")
	assert.ErrorIs(t, err, app_errors.ErrUserNotFound)
}

func TestService_ListUsers(t *testing.T) {
	s, mockDB, _ := setupPlanService()
	ctx := context.Background()

	mockDB.On("ListUsers", ctx, defaultUsersPageSize, 0).Return([]*ydb.User{
		{UserID: "u1", Email: "a@example.com"},
		{UserID: "u2", Email: "b@example.com", PremiumTier: strPtr("team")},
	}, int64(2), nil)
	mockDB.On("CountLinksByOwner", ctx, "u1").Return(int64(4), nil)
	mockDB.On("CountLinksByOwner", ctx, "u2").Return(int64(0), nil)

	resp, err := s.ListUsers(ctx, admin, 0, -1)

	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	require.Len(t, resp.Users, 2)
	assert.Equal(t, int64(4), resp.Users[0].LinkCount)
	assert.True(t, resp.Users[1].IsPremium)

	_, err = s.ListUsers(ctx, member, 10, 0)
	assert.ErrorIs(t, err, app_errors.ErrForbidden)
}
