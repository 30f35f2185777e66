package models

import "time"

// PlanResponse describes a purchasable premium plan
type PlanResponse struct {
	PlanKey         string `json:"plan_key"`
	Tier            string `json:"tier"`
	Cadence         string `json:"cadence"`
	DurationMonths  int    `json:"duration_months"`
	UploadLimitMB   int64  `json:"upload_limit_mb"`
	PriceDisplay    string `json:"price_display"`
	PriorityTickets bool   `json:"priority_tickets"`
}

// PlansResponse plan catalogue with manual payment instructions
type PlansResponse struct {
	Plans               []*PlanResponse `json:"plans"`
	FreeUploadLimitMB   int64           `json:"free_upload_limit_mb"`
	PaymentInstructions string          `json:"payment_instructions"`
}

// AssignPlanRequest admin request to activate a plan for a user
type AssignPlanRequest struct {
	PlanKey string `json:"plan_key"`
}

// PremiumChangeResponse user premium state after an admin change
type PremiumChangeResponse struct {
	User      *UserInfo  `json:"user"`
	LinkCount int64      `json:"link_count"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
