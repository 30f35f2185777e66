package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumiforge/vidlinkgen-backend/internal/config"
	app_errors "github.com/lumiforge/vidlinkgen-backend/internal/errors"
)

func testConfig() *config.Config {
	return &config.Config{
		UploadLimitMBFree:       512,
		UploadLimitMBIndividual: 2048,
		UploadLimitMBTeam:       10240,
		PaymentInstructions:     "Transfer to account 123",
	}
}

func TestParsePlanKey(t *testing.T) {
	for _, raw := range []string{"individual_monthly", "individual_yearly", "team_monthly", "team_yearly"} {
		key, err := ParsePlanKey(raw)
		require.NoError(t, err)
		assert.Equal(t, PlanKey(raw), key)
	}

	_, err := ParsePlanKey("enterprise_monthly")
	assert.ErrorIs(t, err, app_errors.ErrUnknownPlan)
	_, err = ParsePlanKey("")
	assert.ErrorIs(t, err, app_errors.ErrUnknownPlan)
}

func TestCatalog_Plans(t *testing.T) {
	c := NewCatalog(testConfig())

	plans := c.Plans()
	require.Len(t, plans, 4)
	for _, p := range plans {
		switch p.Cadence {
		case CadenceMonthly:
			assert.Equal(t, 1, p.DurationMonths)
		case CadenceYearly:
			assert.Equal(t, 12, p.DurationMonths)
		default:
			t.Fatalf("unexpected cadence %q", p.Cadence)
		}
		assert.NotEmpty(t, p.PriceDisplay)
	}
}

func TestCatalog_UploadLimits(t *testing.T) {
	c := NewCatalog(testConfig())

	assert.Equal(t, int64(512*bytesInMB), c.UploadLimitFor(TierFree))
	assert.Equal(t, int64(2048*bytesInMB), c.UploadLimitFor(TierIndividual))
	assert.Equal(t, int64(10240*bytesInMB), c.UploadLimitFor(TierTeam))
	assert.Equal(t, int64(512*bytesInMB), c.UploadLimitFor("unknown"))
	assert.Equal(t, int64(10240*bytesInMB), c.MaxUploadLimit())
}

func TestCatalog_ForTierPrefersMonthly(t *testing.T) {
	c := NewCatalog(testConfig())

	p, ok := c.ForTier(TierTeam)
	require.True(t, ok)
	assert.Equal(t, TeamMonthly, p.Key)

	_, ok = c.ForTier("gold")
	assert.False(t, ok)
}
