package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/lumiforge/vidlinkgen-backend/internal/email"
	"github.com/lumiforge/vidlinkgen-backend/internal/identity"
	"github.com/lumiforge/vidlinkgen-backend/internal/ydb"
	ydbmocks "github.com/lumiforge/vidlinkgen-backend/internal/ydb/mocks"
)

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendPremiumExpiringEmail(ctx context.Context, toEmail, tier string, expiresAt time.Time) (*email.EmailMessage, error) {
	args := m.Called(ctx, toEmail, tier, expiresAt)
	return &email.EmailMessage{}, args.Error(0)
}

func (m *mockMailer) SendPremiumExpiredEmail(ctx context.Context, toEmail, tier string) (*email.EmailMessage, error) {
	args := m.Called(ctx, toEmail, tier)
	return &email.EmailMessage{}, args.Error(0)
}

// memoryDeduper повторяет семантику SETNX
type memoryDeduper struct {
	keys map[string]bool
}

func (d *memoryDeduper) SetOnce(_ context.Context, key string, _ time.Duration) (bool, error) {
	if d.keys[key] {
		return false, nil
	}
	d.keys[key] = true
	return true, nil
}

var fixedNow = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

func setupChecker() (*Checker, *ydbmocks.Database, *mockMailer, *identity.Hub) {
	mockDB := new(ydbmocks.Database)
	mailer := new(mockMailer)
	hub := identity.NewHub()
	c := NewChecker(mockDB, mailer, &memoryDeduper{keys: map[string]bool{}}, hub, nil, nil)
	c.now = func() time.Time { return fixedNow }
	return c, mockDB, mailer, hub
}

func premiumUser(id string, expiresAt time.Time) *ydb.User {
	tier := "individual"
	return &ydb.User{UserID: id, Email: id + "@example.com", IsPremium: true, PremiumTier: &tier, PremiumExpiresAt: &expiresAt}
}

func TestCheckOnce_WarnsOnceWithin24h(t *testing.T) {
	c, mockDB, mailer, _ := setupChecker()
	ctx := context.Background()

	soon := fixedNow.Add(20 * time.Hour)
	later := fixedNow.Add(24*time.Hour + 30*time.Minute)
	mockDB.On("ListPremiumUsersExpiringBefore", ctx, fixedNow.Add(lookahead)).Return([]*ydb.User{
		premiumUser("soon", soon),
		premiumUser("later", later),
	}, nil)
	mailer.On("SendPremiumExpiringEmail", ctx, "soon@example.com", "individual", soon).Return(nil)

	c.CheckOnce(ctx)
	c.CheckOnce(ctx)

	mailer.AssertNumberOfCalls(t, "SendPremiumExpiringEmail", 1)
	mockDB.AssertNotCalled(t, "UpdateUserPremium", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckOnce_ExpiresKeepingTierAndDate(t *testing.T) {
	c, mockDB, mailer, hub := setupChecker()
	ctx := context.Background()

	var events []identity.Event
	hub.Subscribe(func(e identity.Event) { events = append(events, e) })

	expired := fixedNow.Add(-time.Minute)
	u := premiumUser("gone", expired)
	mockDB.On("ListPremiumUsersExpiringBefore", ctx, mock.Anything).Return([]*ydb.User{u}, nil)
	mockDB.On("UpdateUserPremium", ctx, "gone", false,
		mock.MatchedBy(func(tier *string) bool { return tier != nil && *tier == "individual" }),
		mock.MatchedBy(func(exp *time.Time) bool { return exp != nil && exp.Equal(expired) }),
	).Return(nil)
	mailer.On("SendPremiumExpiredEmail", ctx, "gone@example.com", "individual").Return(nil)

	c.CheckOnce(ctx)

	mockDB.AssertExpectations(t)
	mailer.AssertExpectations(t)
	if assert.Len(t, events, 1) {
		assert.Equal(t, identity.EventPremiumChanged, events[0].Type)
		assert.False(t, events[0].Identity.IsPremium())
	}
}

func TestCheckOnce_QueryErrorStopsCycle(t *testing.T) {
	c, mockDB, mailer, _ := setupChecker()
	ctx := context.Background()

	mockDB.On("ListPremiumUsersExpiringBefore", ctx, mock.Anything).Return(nil, errors.New("unavailable"))

	c.CheckOnce(ctx)

	mailer.AssertNotCalled(t, "SendPremiumExpiringEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStart_StopsOnCancel(t *testing.T) {
	c, mockDB, _, _ := setupChecker()
	ctx, cancel := context.WithCancel(context.Background())

	mockDB.On("ListPremiumUsersExpiringBefore", mock.Anything, mock.Anything).Return(nil, nil)

	done := make(chan struct{})
	go func() {
		c.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
