package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lumiforge/vidlinkgen-backend/internal/audit"
	"github.com/lumiforge/vidlinkgen-backend/internal/models"
	"github.com/lumiforge/vidlinkgen-backend/internal/validation"
)

// Analytics Handlers

// LinkAnalytics returns the daily click series of a link
// @Summary		Link analytics
// @Description	Clicks per local calendar day, oldest first, zero filled
// @Tags		analytics
// @Produce	json
// @Param		linkId	path	string	true	"Link ID"
// @Param		days	query	int		false	"Number of days (default 7)"
// @Security		BearerAuth
// @Success	200	{object}	models.LinkAnalyticsResponse
// @Failure	403	{object}	ErrorResponse
// @Failure	404	{object}	ErrorResponse
// @Router		/api/v1/analytics/{linkId} [get]
// @Router		/analytics/{linkId} [get]
func (s *Server) LinkAnalytics(w http.ResponseWriter, r *http.Request) {
	actor, err := requireIdentity(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	days, err := queryInt(r, "days", 0)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp, err := s.analyticsService.DailySeries(r.Context(), actor, chi.URLParam(r, "linkId"), days)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// AnalyticsSummary returns the caller's account rollup
// @Summary		Account analytics summary
// @Tags		analytics
// @Produce	json
// @Security		BearerAuth
// @Success	200	{object}	models.SummaryResponse
// @Router		/api/v1/analytics/summary [get]
func (s *Server) AnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	actor, err := requireIdentity(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp, err := s.analyticsService.Summary(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Support Handlers

// CreateTicket submits a support ticket
// @Summary		Create support ticket
// @Description	Premium users get high priority
// @Tags		support
// @Accept		json
// @Produce	json
// @Param		request	body	models.CreateTicketRequest	true	"Ticket"
// @Security		BearerAuth
// @Success	201	{object}	models.TicketResponse
// @Failure	400	{object}	ErrorResponse
// @Router		/api/v1/support/tickets [post]
func (s *Server) CreateTicket(w http.ResponseWriter, r *http.Request) {
	actor, err := requireIdentity(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req models.CreateTicketRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	resp, err := s.supportService.Create(r.Context(), actor, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// ListMyTickets lists the caller's tickets
// @Summary		List own tickets
// @Tags		support
// @Produce	json
// @Security		BearerAuth
// @Success	200	{object}	models.ListTicketsResponse
// @Router		/api/v1/support/tickets [get]
func (s *Server) ListMyTickets(w http.ResponseWriter, r *http.Request) {
	actor, err := requireIdentity(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp, err := s.supportService.ListMine(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Admin Handlers

// ListUsers lists users with their link counts
// @Summary		List users
// @Tags		admin
// @Produce	json
// @Param		limit	query	int	false	"Page size (default 50)"
// @Param		offset	query	int	false	"Offset"
// @Security		BearerAuth
// @Success	200	{object}	models.ListUsersResponse
// @Failure	403	{object}	ErrorResponse
// @Router		/api/v1/admin/users [get]
func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor, err := requireIdentity(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp, err := s.planService.ListUsers(r.Context(), actor, limit, offset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// AssignPremium assigns a plan to a user
// @Summary		Assign premium plan
// @Description	Expiry is now plus the plan duration
// @Tags		admin
// @Accept		json
// @Produce	json
// @Param		userId	path	string					true	"User ID"
// @Param		request	body	models.AssignPlanRequest	true	"Plan key"
// @Security		BearerAuth
// @Success	200	{object}	models.PremiumChangeResponse
// @Failure	400	{object}	ErrorResponse
// @Failure	403	{object}	ErrorResponse
// @Failure	404	{object}	ErrorResponse
// @Router		/api/v1/admin/users/{userId}/premium [post]
func (s *Server) AssignPremium(w http.ResponseWriter, r *http.Request) {
	actor, err := requireIdentity(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req models.AssignPlanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	resp, err := s.planService.Assign(r.Context(), actor, chi.URLParam(r, "userId"), req.PlanKey)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ExtendPremium extends the user's current plan by one period
// @Summary		Extend premium plan
// @Description	New expiry is the stored expiry plus the plan duration
// @Tags		admin
// @Produce	json
// @Param		userId	path	string	true	"User ID"
// @Security		BearerAuth
// @Success	200	{object}	models.PremiumChangeResponse
// @Failure	403	{object}	ErrorResponse
// @Failure	422	{object}	ErrorResponse
// @Router		/api/v1/admin/users/{userId}/premium/extend [post]
func (s *Server) ExtendPremium(w http.ResponseWriter, r *http.Request) {
	actor, err := requireIdentity(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp, err := s.planService.Extend(r.Context(), actor, chi.URLParam(r, "userId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// RevokePremium removes premium from a user
// @Summary		Revoke premium
// @Tags		admin
// @Produce	json
// @Param		userId	path	string	true	"User ID"
// @Security		BearerAuth
// @Success	200	{object}	models.PremiumChangeResponse
// @Failure	403	{object}	ErrorResponse
// @Router		/api/v1/admin/users/{userId}/premium [delete]
func (s *Server) RevokePremium(w http.ResponseWriter, r *http.Request) {
	actor, err := requireIdentity(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp, err := s.planService.Revoke(r.Context(), actor, chi.URLParam(r, "userId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListTickets lists all support tickets
// @Summary		List all tickets
// @Tags		admin
// @Produce	json
// @Param		status	query	string	false	"Status filter"
// @Security		BearerAuth
// @Success	200	{object}	models.ListTicketsResponse
// @Failure	403	{object}	ErrorResponse
// @Router		/api/v1/admin/tickets [get]
func (s *Server) ListTickets(w http.ResponseWriter, r *http.Request) {
	actor, err := requireIdentity(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp, err := s.supportService.ListAll(r.Context(), actor, r.URL.Query().Get("status"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpdateTicketStatus changes ticket status
// @Summary		Update ticket status
// @Description	Any transition between open, in progress, resolved and closed
// @Tags		admin
// @Accept		json
// @Produce	json
// @Param		ticketId	path	string							true	"Ticket ID"
// @Param		request		body	models.UpdateTicketStatusRequest	true	"Status"
// @Security		BearerAuth
// @Success	200	{object}	models.TicketResponse
// @Failure	400	{object}	ErrorResponse
// @Failure	404	{object}	ErrorResponse
// @Router		/api/v1/admin/tickets/{ticketId}/status [put]
func (s *Server) UpdateTicketStatus(w http.ResponseWriter, r *http.Request) {
	actor, err := requireIdentity(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req models.UpdateTicketStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	resp, err := s.supportService.UpdateStatus(r.Context(), actor, chi.URLParam(r, "ticketId"), req.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// FleetSummary returns analytics over all accounts
// @Summary		Fleet summary
// @Tags		admin
// @Produce	json
// @Security		BearerAuth
// @Success	200	{object}	models.FleetSummaryResponse
// @Failure	403	{object}	ErrorResponse
// @Router		/api/v1/admin/summary [get]
func (s *Server) FleetSummary(w http.ResponseWriter, r *http.Request) {
	actor, err := requireIdentity(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp, err := s.analyticsService.FleetSummary(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetAuditLogs handles audit log listing
// @Summary		Get audit logs
// @Tags		admin
// @Produce	json
// @Param		user_id		query	string	false	"Filter by user ID"
// @Param		action_type	query	string	false	"Filter by action type"
// @Param		result		query	string	false	"Filter by result"
// @Param		from		query	string	false	"From, RFC 3339"
// @Param		to			query	string	false	"To, RFC 3339"
// @Param		limit		query	int		false	"Limit (default 100, max 1000)"
// @Security		BearerAuth
// @Success	200	{object}	models.GetAuditLogsResponse
// @Failure	403	{object}	ErrorResponse
// @Router		/api/v1/admin/audit-logs [get]
func (s *Server) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	actor, err := requireIdentity(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	q := r.URL.Query()
	filter := audit.Filter{
		UserID:     q.Get("user_id"),
		ActionType: q.Get("action_type"),
		Result:     q.Get("result"),
	}
	if filter.Limit, err = queryInt(r, "limit", 0); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if filter.From, err = queryTime(r, "from"); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if filter.To, err = queryTime(r, "to"); err != nil {
		writeServiceError(w, r, err)
		return
	}

	logs, err := s.auditService.ListAuditLogs(r.Context(), actor, filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.GetAuditLogsResponse{
		Logs:  logs,
		Total: len(logs),
		Limit: filter.Limit,
	})
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, validation.ValidationError{Field: key, Message: "must be a non-negative integer"}
	}
	return v, nil
}

func queryTime(r *http.Request, key string) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, validation.ValidationError{Field: key, Message: "must be an RFC 3339 timestamp"}
	}
	return &t, nil
}
