package http

// ErrorResponse represents an error response
// @Description	Error response with details
type ErrorResponse struct {
	Error            string `json:"error"`
	Message          string `json:"message,omitempty"`
	Code             int    `json:"code"`
	PasswordRequired bool   `json:"password_required,omitempty"`
}

// HealthResponse represents health check response
// @Description	Health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
	Version   string `json:"version"`
}
