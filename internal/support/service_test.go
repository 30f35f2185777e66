package support

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lumiforge/vidlinkgen-backend/internal/config"
	"github.com/lumiforge/vidlinkgen-backend/internal/email"
	app_errors "github.com/lumiforge/vidlinkgen-backend/internal/errors"
	"github.com/lumiforge/vidlinkgen-backend/internal/identity"
	"github.com/lumiforge/vidlinkgen-backend/internal/models"
	"github.com/lumiforge/vidlinkgen-backend/internal/rbac"
	"github.com/lumiforge/vidlinkgen-backend/internal/ydb"
	ydbmocks "github.com/lumiforge/vidlinkgen-backend/internal/ydb/mocks"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, msg string) error {
	return m.Called(ctx, msg).Error(0)
}

var fixedNow = time.Date(2025, 4, 2, 15, 0, 0, 0, time.UTC)

func setupSupport(t *testing.T) (*Service, *ydbmocks.Database, *mockNotifier) {
	mockDB := new(ydbmocks.Database)
	notifier := new(mockNotifier)
	emailClient, err := email.NewClient(context.Background(), &config.Config{})
	require.NoError(t, err)

	s := NewService(mockDB, emailClient, notifier, rbac.NewRBAC(), nil)
	s.now = func() time.Time { return fixedNow }
	return s, mockDB, notifier
}

func member(premium bool) *identity.Context {
	u := &ydb.User{UserID: "user-1", Email: "user@example.com", Role: "member"}
	if premium {
		tier := "individual"
		u.PremiumTier = &tier
	}
	return identity.FromUser(u, fixedNow)
}

var admin = &identity.Context{UserID: "admin-1", Role: rbac.RoleAdmin}

func TestCreate_PriorityFollowsPremium(t *testing.T) {
	for _, tc := range []struct {
		premium  bool
		priority string
	}{
		{false, ydb.TicketPriorityNormal},
		{true, ydb.TicketPriorityHigh},
	} {
		s, mockDB, notifier := setupSupport(t)
		ctx := context.Background()

		mockDB.On("CreateTicket", ctx, mock.MatchedBy(func(tk *ydb.SupportTicket) bool {
			return tk.Priority == tc.priority && tk.Status == ydb.TicketStatusOpen && tk.Email == "user@example.com" && tk.Category == "general"
		})).Return(nil)
		notifier.On("Notify", ctx, mock.MatchedBy(func(msg string) bool { return strings.Contains(msg, tc.priority) })).Return(nil)

		resp, err := s.Create(ctx, member(tc.premium), &models.CreateTicketRequest{Subject: "Help", Message: "It broke"})

		require.NoError(t, err)
		assert.Equal(t, tc.priority, resp.Priority)
		mockDB.AssertExpectations(t)
		notifier.AssertExpectations(t)
	}
}

func TestCreate_NotificationFailureIsIgnored(t *testing.T) {
	s, mockDB, notifier := setupSupport(t)
	ctx := context.Background()

	mockDB.On("CreateTicket", ctx, mock.Anything).Return(nil)
	notifier.On("Notify", ctx, mock.Anything).Return(errors.New("telegram down"))

	_, err := s.Create(ctx, member(false), &models.CreateTicketRequest{Subject: "Help", Message: "It broke"})
	assert.NoError(t, err)
}

func TestCreate_Validation(t *testing.T) {
	s, mockDB, _ := setupSupport(t)
	ctx := context.Background()

	cases := []*models.CreateTicketRequest{
		{Subject: "", Message: "body"},
		{Subject: strings.Repeat("s", maxSubjectLength+1), Message: "body"},
		{Subject: "Help", Message: ""},
		{Subject: "Help", Message: strings.Repeat("m", maxMessageLength+1)},
	}
	for _, req := range cases {
		_, err := s.Create(ctx, member(false), req)
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	}

	_, err := s.Create(ctx, nil, &models.CreateTicketRequest{Subject: "Help", Message: "body"})
	assert.ErrorIs(t, err, app_errors.ErrUnauthenticated)
	mockDB.AssertNotCalled(t, "CreateTicket", mock.Anything, mock.Anything)
}

func TestParseStatus(t *testing.T) {
	for raw, want := range map[string]string{
		"open":        ydb.TicketStatusOpen,
		"in progress": ydb.TicketStatusInProgress,
		"in_progress": ydb.TicketStatusInProgress,
		"Resolved":    ydb.TicketStatusResolved,
		"closed":      ydb.TicketStatusClosed,
	} {
		got, err := ParseStatus(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}

	_, err := ParseStatus("archived")
	assert.ErrorIs(t, err, app_errors.ErrInvalidTicketStat)
}

func TestUpdateStatus_AnyTransition(t *testing.T) {
	s, mockDB, _ := setupSupport(t)
	ctx := context.Background()

	mockDB.On("GetTicket", ctx, "t1").Return(&ydb.SupportTicket{TicketID: "t1", Status: ydb.TicketStatusClosed}, nil)
	mockDB.On("UpdateTicketStatus", ctx, "t1", ydb.TicketStatusOpen, fixedNow).Return(nil)

	resp, err := s.UpdateStatus(ctx, admin, "t1", "open")

	require.NoError(t, err)
	assert.Equal(t, ydb.TicketStatusOpen, resp.Status)
	mockDB.AssertExpectations(t)
}

func TestUpdateStatus_Errors(t *testing.T) {
	s, mockDB, _ := setupSupport(t)
	ctx := context.Background()

	mockDB.On("GetTicket", ctx, "ghost").Return(nil, app_errors.ErrRecordNotFound)

	_, err := s.UpdateStatus(ctx, member(true), "t1", "open")
	assert.ErrorIs(t, err, app_errors.ErrForbidden)

	_, err = s.UpdateStatus(ctx, admin, "t1", "bogus")
	assert.ErrorIs(t, err, app_errors.ErrInvalidTicketStat)

	_, err = s.UpdateStatus(ctx, admin, "ghost", "closed")
	assert.ErrorIs(t, err, app_errors.ErrTicketNotFound)
}

func TestListAll_FiltersAndSorts(t *testing.T) {
	s, mockDB, _ := setupSupport(t)
	ctx := context.Background()

	mockDB.On("ListTickets", ctx, ydb.TicketStatusInProgress).Return([]*ydb.SupportTicket{
		{TicketID: "old", CreatedAt: fixedNow.Add(-time.Hour)},
		{TicketID: "new", CreatedAt: fixedNow},
	}, nil)

	resp, err := s.ListAll(ctx, admin, "in progress")

	require.NoError(t, err)
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, "new", resp.Tickets[0].TicketID)
}

func TestListMine(t *testing.T) {
	s, mockDB, _ := setupSupport(t)
	ctx := context.Background()

	mockDB.On("ListTicketsByUser", ctx, "user-1").Return([]*ydb.SupportTicket{{TicketID: "t1"}}, nil)

	resp, err := s.ListMine(ctx, member(false))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
}
