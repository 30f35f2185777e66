package plan

import (
	"fmt"
	"sort"

	"github.com/lumiforge/vidlinkgen-backend/internal/config"
	app_errors "github.com/lumiforge/vidlinkgen-backend/internal/errors"
)

const bytesInMB = 1024 * 1024

// Tier премиум уровень пользователя. Пустая строка означает бесплатный доступ.
type Tier string

const (
	TierFree       Tier = ""
	TierIndividual Tier = "individual"
	TierTeam       Tier = "team"
)

// Cadence период оплаты
type Cadence string

const (
	CadenceMonthly Cadence = "monthly"
	CadenceYearly  Cadence = "yearly"
)

// PlanKey ключ тарифа из закрытого перечня
type PlanKey string

const (
	IndividualMonthly PlanKey = "individual_monthly"
	IndividualYearly  PlanKey = "individual_yearly"
	TeamMonthly       PlanKey = "team_monthly"
	TeamYearly        PlanKey = "team_yearly"
)

// Plan описание тарифа
type Plan struct {
	Key              PlanKey
	Tier             Tier
	Cadence          Cadence
	DurationMonths   int
	UploadLimitBytes int64
	PriceDisplay     string
}

// ParsePlanKey проверяет ключ тарифа
func ParsePlanKey(raw string) (PlanKey, error) {
	switch k := PlanKey(raw); k {
	case IndividualMonthly, IndividualYearly, TeamMonthly, TeamYearly:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", app_errors.ErrUnknownPlan, raw)
}

// Catalog неизменяемый каталог тарифов и лимитов загрузки
type Catalog struct {
	plans     map[PlanKey]Plan
	freeLimit int64
}

// NewCatalog строит каталог с лимитами из конфигурации
func NewCatalog(cfg *config.Config) *Catalog {
	individual := cfg.UploadLimitMBIndividual * bytesInMB
	team := cfg.UploadLimitMBTeam * bytesInMB

	return &Catalog{
		freeLimit: cfg.UploadLimitMBFree * bytesInMB,
		plans: map[PlanKey]Plan{
			IndividualMonthly: {Key: IndividualMonthly, Tier: TierIndividual, Cadence: CadenceMonthly, DurationMonths: 1, UploadLimitBytes: individual, PriceDisplay: "$9 / month"},
			IndividualYearly:  {Key: IndividualYearly, Tier: TierIndividual, Cadence: CadenceYearly, DurationMonths: 12, UploadLimitBytes: individual, PriceDisplay: "$90 / year"},
			TeamMonthly:       {Key: TeamMonthly, Tier: TierTeam, Cadence: CadenceMonthly, DurationMonths: 1, UploadLimitBytes: team, PriceDisplay: "$29 / month"},
			TeamYearly:        {Key: TeamYearly, Tier: TierTeam, Cadence: CadenceYearly, DurationMonths: 12, UploadLimitBytes: team, PriceDisplay: "$290 / year"},
		},
	}
}

// Get возвращает тариф по ключу
func (c *Catalog) Get(key PlanKey) (Plan, bool) {
	p, ok := c.plans[key]
	return p, ok
}

// Plans возвращает тарифы в стабильном порядке
func (c *Catalog) Plans() []Plan {
	out := make([]Plan, 0, len(c.plans))
	for _, p := range c.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// ForTier подбирает тариф для уровня: сначала месячный, затем годовой
func (c *Catalog) ForTier(tier Tier) (Plan, bool) {
	for _, cadence := range []Cadence{CadenceMonthly, CadenceYearly} {
		for _, p := range c.plans {
			if p.Tier == tier && p.Cadence == cadence {
				return p, true
			}
		}
	}
	return Plan{}, false
}

// UploadLimitFor лимит размера файла для уровня. Неизвестный уровень считается бесплатным.
func (c *Catalog) UploadLimitFor(tier Tier) int64 {
	for _, p := range c.plans {
		if p.Tier == tier {
			return p.UploadLimitBytes
		}
	}
	return c.freeLimit
}

// FreeUploadLimit лимит бесплатного доступа
func (c *Catalog) FreeUploadLimit() int64 {
	return c.freeLimit
}

// MaxUploadLimit наибольший лимит среди тарифов
func (c *Catalog) MaxUploadLimit() int64 {
	limit := c.freeLimit
	for _, p := range c.plans {
		if p.UploadLimitBytes > limit {
			limit = p.UploadLimitBytes
		}
	}
	return limit
}
