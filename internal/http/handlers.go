package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/lumiforge/vidlinkgen-backend/internal/access"
	"github.com/lumiforge/vidlinkgen-backend/internal/analytics"
	"github.com/lumiforge/vidlinkgen-backend/internal/audit"
	"github.com/lumiforge/vidlinkgen-backend/internal/auth"
	"github.com/lumiforge/vidlinkgen-backend/internal/link"
	"github.com/lumiforge/vidlinkgen-backend/internal/models"
	"github.com/lumiforge/vidlinkgen-backend/internal/plan"
	"github.com/lumiforge/vidlinkgen-backend/internal/support"
)

const version = "1.0.0"

// Services набор сервисов, которые обслуживает HTTP слой
type Services struct {
	Auth      *auth.Service
	Links     *link.Service
	Gate      *access.Gate
	Plans     *plan.Service
	Analytics *analytics.Service
	Support   *support.Service
	Audit     *audit.Service
}

// Server represents HTTP server
type Server struct {
	authService      *auth.Service
	linkService      *link.Service
	gate             *access.Gate
	planService      *plan.Service
	analyticsService *analytics.Service
	supportService   *support.Service
	auditService     *audit.Service
}

// NewServer creates a new HTTP server
func NewServer(svc Services) *Server {
	return &Server{
		authService:      svc.Auth,
		linkService:      svc.Links,
		gate:             svc.Gate,
		planService:      svc.Plans,
		analyticsService: svc.Analytics,
		supportService:   svc.Support,
		auditService:     svc.Audit,
	}
}

// decodeJSON decodes a request body. Пустое тело оставляет значения по умолчанию.
func decodeJSON(r *http.Request, req interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(req)
}

// Health handles health check
// @Summary		Health check
// @Description	Check service health
// @Tags		health
// @Produce	json
// @Success	200	{object}	HealthResponse
// @Router		/health [get]
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Unix(),
		Version:   version,
	})
}

// Auth Handlers

// Register handles user registration
// @Summary		Register a new user
// @Description	Register a new user with email, password and display name
// @Tags		auth
// @Accept		json
// @Produce	json
// @Param		request	body		models.RegisterRequest	true	"Registration request"
// @Success	201	{object}	models.RegisterResponse
// @Failure	400	{object}	ErrorResponse
// @Failure	409	{object}	ErrorResponse
// @Failure	500	{object}	ErrorResponse
// @Router		/api/v1/auth/register [post]
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	resp, err := s.authService.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Login handles user login
// @Summary		User login
// @Description	Authenticate user with email and password
// @Tags		auth
// @Accept		json
// @Produce	json
// @Param		request	body		models.LoginRequest	true	"Login request"
// @Success	200		{object}	models.LoginResponse
// @Failure	401		{object}	ErrorResponse
// @Failure	400		{object}	ErrorResponse
// @Router		/api/v1/auth/login [post]
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	resp, err := s.authService.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// RefreshToken handles token refresh
// @Summary		Refresh access token
// @Description	Rotate the refresh token and issue a new token pair
// @Tags		auth
// @Accept		json
// @Produce	json
// @Param		request	body		models.RefreshTokenRequest	true	"Refresh token request"
// @Success	200		{object}	models.RefreshTokenResponse
// @Failure	401		{object}	ErrorResponse
// @Failure	400		{object}	ErrorResponse
// @Router		/api/v1/auth/refresh [post]
func (s *Server) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	resp, err := s.authService.RefreshToken(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Logout handles user logout
// @Summary		User logout
// @Description	Logout user and revoke the refresh token
// @Tags		auth
// @Accept		json
// @Produce	json
// @Param		request	body		models.LogoutRequest	true	"Logout request"
// @Security		BearerAuth
// @Success	200		{object}	models.MessageResponse
// @Failure	401		{object}	ErrorResponse
// @Failure	400		{object}	ErrorResponse
// @Router		/api/v1/auth/logout [post]
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	var req models.LogoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	resp, err := s.authService.Logout(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetProfile handles getting user profile
// @Summary		Get user profile
// @Description	Current user with role and effective premium state
// @Tags		auth
// @Produce	json
// @Security		BearerAuth
// @Success	200	{object}	models.UserInfo
// @Failure	401	{object}	ErrorResponse
// @Router		/api/v1/auth/profile [get]
func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	actor, err := requireIdentity(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp, err := s.authService.GetProfile(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// JoinCommunity marks the community invitation as accepted
// @Summary		Join community
// @Description	One-time flag, repeated calls do nothing
// @Tags		auth
// @Produce	json
// @Security		BearerAuth
// @Success	200	{object}	models.UserInfo
// @Failure	401	{object}	ErrorResponse
// @Router		/api/v1/auth/community [post]
func (s *Server) JoinCommunity(w http.ResponseWriter, r *http.Request) {
	actor, err := requireIdentity(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp, err := s.authService.MarkCommunityJoined(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListPlans returns the plan catalogue
// @Summary		List premium plans
// @Description	Plan catalogue with upload limits and manual payment instructions
// @Tags		plans
// @Produce	json
// @Success	200	{object}	models.PlansResponse
// @Router		/api/v1/plans [get]
func (s *Server) ListPlans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.planService.ListPlans(r.Context()))
}
