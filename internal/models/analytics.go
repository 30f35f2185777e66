package models

// DailyClicks number of clicks on one local calendar day
type DailyClicks struct {
	Date   string `json:"date"`
	Clicks int64  `json:"clicks"`
}

// LinkAnalyticsResponse per-link click series
// @Description	Daily click series for one link, oldest day first
type LinkAnalyticsResponse struct {
	LinkID      string         `json:"link_id"`
	Name        string         `json:"name"`
	TotalClicks int64          `json:"total_clicks"`
	Days        []*DailyClicks `json:"days"`
}

// TopLink link entry in a top-N list
type TopLink struct {
	LinkID   string `json:"link_id"`
	Name     string `json:"name"`
	ShortURL string `json:"short_url"`
	Clicks   int64  `json:"clicks"`
}

// SummaryResponse account level rollup
type SummaryResponse struct {
	TotalLinks       int        `json:"total_links"`
	TotalClicks      int64      `json:"total_clicks"`
	ActiveLinks      int        `json:"active_links"`
	CreatedThisMonth int        `json:"created_this_month"`
	TopLinks         []*TopLink `json:"top_links"`
}

// FleetSummaryResponse back-office rollup over every account
type FleetSummaryResponse struct {
	SummaryResponse
	TotalUsers   int64 `json:"total_users"`
	PremiumUsers int   `json:"premium_users"`
	OpenTickets  int   `json:"open_tickets"`
}
