package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumiforge/vidlinkgen-backend/internal/access"
	"github.com/lumiforge/vidlinkgen-backend/internal/models"
)

// ViewLink opens a shared link without a password
// @Summary		Open shared link
// @Description	Access gate. Returns the playable URL and counts one view on success.
// @Tags		access
// @Produce	json
// @Param		shortId	path	string	true	"Short ID"
// @Success	200	{object}	models.AccessGrantResponse
// @Failure	401	{object}	ErrorResponse	"password_required is set when the link has a password"
// @Failure	403	{object}	ErrorResponse
// @Failure	404	{object}	ErrorResponse
// @Failure	410	{object}	ErrorResponse
// @Failure	422	{object}	ErrorResponse
// @Router		/v/{shortId} [get]
func (s *Server) ViewLink(w http.ResponseWriter, r *http.Request) {
	s.evaluate(w, r, nil)
}

// UnlockLink opens a password protected link
// @Summary		Unlock shared link
// @Tags		access
// @Accept		json
// @Produce	json
// @Param		shortId	path	string					true	"Short ID"
// @Param		request	body	models.AccessRequest	true	"Password"
// @Success	200	{object}	models.AccessGrantResponse
// @Failure	401	{object}	ErrorResponse
// @Failure	410	{object}	ErrorResponse
// @Router		/v/{shortId} [post]
func (s *Server) UnlockLink(w http.ResponseWriter, r *http.Request) {
	var req models.AccessRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}
	s.evaluate(w, r, &req.Password)
}

func (s *Server) evaluate(w http.ResponseWriter, r *http.Request, password *string) {
	grant, err := s.gate.Evaluate(r.Context(), &access.Request{
		ShortID:  chi.URLParam(r, "shortId"),
		Visitor:  GetIdentity(r),
		Password: password,
		Client:   access.MetaFromRequest(r),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, grant.Response())
}
