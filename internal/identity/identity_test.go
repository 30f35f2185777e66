package identity

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lumiforge/vidlinkgen-backend/internal/rbac"
	"github.com/lumiforge/vidlinkgen-backend/internal/ydb"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestFromUser_PremiumInvariant(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		tier      *string
		expiresAt *time.Time
		isPremium bool
		want      bool
	}{
		{"tier and future expiry", strPtr("individual"), timePtr(now.Add(time.Hour)), true, true},
		{"tier and no expiry", strPtr("team"), nil, true, true},
		{"tier and past expiry", strPtr("team"), timePtr(now.Add(-time.Hour)), true, false},
		{"no tier", nil, timePtr(now.Add(time.Hour)), true, false},
		{"empty tier", strPtr(""), nil, true, false},
		{"stale db flag ignored", strPtr("individual"), timePtr(now.Add(time.Hour)), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := FromUser(&ydb.User{
				UserID:           "u1",
				Email:            "u@example.com",
				Role:             "member",
				IsPremium:        tt.isPremium,
				PremiumTier:      tt.tier,
				PremiumExpiresAt: tt.expiresAt,
			}, now)
			assert.Equal(t, tt.want, ctx.IsPremium())
			assert.Equal(t, tt.want, ctx.CanUsePremium())
		})
	}
}

func TestContext_AdminAlwaysCanUsePremium(t *testing.T) {
	ctx := FromUser(&ydb.User{UserID: "a1", Role: string(rbac.RoleAdmin)}, time.Now())
	assert.False(t, ctx.IsPremium())
	assert.True(t, ctx.CanUsePremium())
	assert.Equal(t, "", ctx.Tier())
}

func TestContext_NilIsAnonymous(t *testing.T) {
	var ctx *Context
	assert.False(t, ctx.IsAuthenticated())
	assert.False(t, ctx.IsAdmin())
	assert.False(t, ctx.CanUsePremium())
	assert.Nil(t, FromUser(nil, time.Now()))
}

func TestFromUser_DefaultsRoleToMember(t *testing.T) {
	ctx := FromUser(&ydb.User{UserID: "u1"}, time.Now())
	assert.Equal(t, rbac.RoleMember, ctx.Role)
}

func TestHub_PublishAndUnsubscribe(t *testing.T) {
	hub := NewHub()
	var got []EventType
	unsubscribe := hub.Subscribe(func(e Event) { got = append(got, e.Type) })

	hub.Publish(Event{Type: EventSignedIn, UserID: "u1"})
	unsubscribe()
	hub.Publish(Event{Type: EventSignedOut, UserID: "u1"})

	assert.Equal(t, []EventType{EventSignedIn}, got)
}

func TestHub_ConcurrentPublish(t *testing.T) {
	hub := NewHub()
	var count atomic.Int64
	hub.Subscribe(func(Event) { count.Add(1) })

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Publish(Event{Type: EventPremiumChanged})
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), count.Load())
}

func TestHub_NilPublishIsNoop(t *testing.T) {
	var hub *Hub
	assert.NotPanics(t, func() { hub.Publish(Event{Type: EventSignedIn}) })
}
