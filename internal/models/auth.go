package models

import "time"

// Auth Request/Response Models

// RegisterRequest represents a registration request
// @Description	Registration request with user details
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name"`
}

// RegisterResponse represents a registration response
// @Description	Registration response with user ID and message
type RegisterResponse struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// LoginRequest represents a login request
// @Description	Login request with email and password
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents a login response
// @Description	Login response with tokens and user info
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    int64     `json:"expires_at"`
	User         *UserInfo `json:"user"`
}

// RefreshTokenRequest represents a refresh token request
// @Description	Refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse represents a refresh token response
// @Description	Refresh token response with new access token
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// LogoutRequest represents a logout request
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// MessageResponse generic response with a human readable message
type MessageResponse struct {
	Message string `json:"message"`
}

// UserInfo represents user information exposed by the API
// @Description	User profile with effective premium state
type UserInfo struct {
	UserID           string     `json:"user_id"`
	Email            string     `json:"email"`
	DisplayName      string     `json:"display_name,omitempty"`
	Role             string     `json:"role"`
	IsPremium        bool       `json:"is_premium"`
	PremiumTier      string     `json:"premium_tier,omitempty"`
	PremiumExpiresAt *time.Time `json:"premium_expires_at,omitempty"`
	JoinedCommunity  bool       `json:"joined_community"`
	CreatedAt        time.Time  `json:"created_at"`
}

// AdminUserInfo user row as seen in the back-office
type AdminUserInfo struct {
	UserInfo
	LinkCount int64 `json:"link_count"`
}

// ListUsersResponse paginated list of users
type ListUsersResponse struct {
	Users  []*AdminUserInfo `json:"users"`
	Total  int64            `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}
