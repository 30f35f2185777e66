package models

import "time"

// LinkRequest represents link create/update payload for external video URLs
// @Description	Shareable link settings
type LinkRequest struct {
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	VideoURL      string     `json:"video_url"`
	Password      string     `json:"password"`
	ExpiresAt     *time.Time `json:"expires_at"`
	IsEncrypted   bool       `json:"is_encrypted"`
	AllowedEmails []string   `json:"allowed_emails"`
}

// LinkResponse represents a link owned by the caller
// @Description	Shareable video link with settings and click counter
type LinkResponse struct {
	LinkID        string     `json:"link_id"`
	ShortID       string     `json:"short_id"`
	ShortURL      string     `json:"short_url"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	SourceType    string     `json:"source_type"`
	VideoURL      string     `json:"video_url,omitempty"`
	HasPassword   bool       `json:"has_password"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	IsExpired     bool       `json:"is_expired"`
	IsEncrypted   bool       `json:"is_encrypted"`
	AllowedEmails []string   `json:"allowed_emails"`
	Clicks        int64      `json:"clicks"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ListLinksResponse list of caller's links
type ListLinksResponse struct {
	Links []*LinkResponse `json:"links"`
	Total int             `json:"total"`
}

// AccessRequest password submitted by a visitor
type AccessRequest struct {
	Password string `json:"password"`
}

// AccessGrantResponse playable link returned after a successful access check
// @Description	Granted video access
type AccessGrantResponse struct {
	ShortID     string     `json:"short_id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	VideoURL    string     `json:"video_url"`
	SourceType  string     `json:"source_type"`
	IsEncrypted bool       `json:"is_encrypted"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	Clicks      int64      `json:"clicks"`
}
