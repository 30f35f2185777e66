package http

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	app_errors "github.com/lumiforge/vidlinkgen-backend/internal/errors"
	"github.com/lumiforge/vidlinkgen-backend/internal/identity"
	"github.com/lumiforge/vidlinkgen-backend/internal/link"
	"github.com/lumiforge/vidlinkgen-backend/internal/logger"
	"github.com/lumiforge/vidlinkgen-backend/internal/models"
	"github.com/lumiforge/vidlinkgen-backend/internal/storage"
	"github.com/lumiforge/vidlinkgen-backend/internal/validation"
)

const (
	// память под поля формы, файл сверх этого пишется во временный файл
	multipartMemory = 32 << 20
	formOverhead    = 1 << 20
)

func inputFromRequest(req *models.LinkRequest) *link.Input {
	return &link.Input{
		Name:          req.Name,
		Description:   req.Description,
		VideoURL:      req.VideoURL,
		Password:      req.Password,
		ExpiresAt:     req.ExpiresAt,
		IsEncrypted:   req.IsEncrypted,
		AllowedEmails: req.AllowedEmails,
	}
}

// CreateLink creates a link to an external video URL
// @Summary		Create link
// @Description	Create a shareable link to an external http(s) video URL
// @Tags		links
// @Accept		json
// @Produce	json
// @Param		request	body		models.LinkRequest	true	"Link settings"
// @Security		BearerAuth
// @Success	201	{object}	models.LinkResponse
// @Failure	400	{object}	ErrorResponse
// @Failure	401	{object}	ErrorResponse
// @Failure	403	{object}	ErrorResponse
// @Router		/api/v1/links [post]
func (s *Server) CreateLink(w http.ResponseWriter, r *http.Request) {
	actor, err := requireIdentity(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req models.LinkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	resp, err := s.linkService.Create(r.Context(), actor, inputFromRequest(&req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// UploadLink creates a link to an uploaded video file
// @Summary		Upload video and create link
// @Description	Multipart form: file plus link settings. File size is limited by the plan.
// @Tags		links
// @Accept		multipart/form-data
// @Produce	json
// @Param		file			formData	file	true	"Video file"
// @Param		name			formData	string	false	"Link name, defaults to the file name"
// @Param		description		formData	string	false	"Description"
// @Param		password		formData	string	false	"Password (premium)"
// @Param		expires_at		formData	string	false	"Expiry, RFC 3339"
// @Param		is_encrypted	formData	bool	false	"Serve through presigned URLs (premium)"
// @Param		allowed_emails	formData	string	false	"Comma separated allowlist (premium)"
// @Security		BearerAuth
// @Success	201	{object}	models.LinkResponse
// @Failure	400	{object}	ErrorResponse
// @Failure	403	{object}	ErrorResponse
// @Failure	413	{object}	ErrorResponse
// @Router		/api/v1/links/upload [post]
func (s *Server) UploadLink(w http.ResponseWriter, r *http.Request) {
	actor, err := requireIdentity(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	in, cleanup, ok := s.parseUploadForm(w, r, actor)
	if !ok {
		return
	}
	defer cleanup()

	resp, err := s.linkService.Create(r.Context(), actor, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// ListLinks lists the caller's links
// @Summary		List links
// @Description	Caller's links, newest first
// @Tags		links
// @Produce	json
// @Security		BearerAuth
// @Success	200	{object}	models.ListLinksResponse
// @Failure	401	{object}	ErrorResponse
// @Router		/api/v1/links [get]
func (s *Server) ListLinks(w http.ResponseWriter, r *http.Request) {
	actor, err := requireIdentity(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp, err := s.linkService.List(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetLink returns one link
// @Summary		Get link
// @Tags		links
// @Produce	json
// @Param		linkId	path	string	true	"Link ID"
// @Security		BearerAuth
// @Success	200	{object}	models.LinkResponse
// @Failure	403	{object}	ErrorResponse
// @Failure	404	{object}	ErrorResponse
// @Router		/api/v1/links/{linkId} [get]
func (s *Server) GetLink(w http.ResponseWriter, r *http.Request) {
	actor, err := requireIdentity(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp, err := s.linkService.Get(r.Context(), actor, chi.URLParam(r, "linkId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpdateLink updates link settings
// @Summary		Update link
// @Description	Owner only. Blank video_url keeps the current source. Short URL never changes.
// @Tags		links
// @Accept		json
// @Produce	json
// @Param		linkId	path	string				true	"Link ID"
// @Param		request	body	models.LinkRequest	true	"Link settings"
// @Security		BearerAuth
// @Success	200	{object}	models.LinkResponse
// @Failure	400	{object}	ErrorResponse
// @Failure	403	{object}	ErrorResponse
// @Failure	404	{object}	ErrorResponse
// @Router		/api/v1/links/{linkId} [put]
func (s *Server) UpdateLink(w http.ResponseWriter, r *http.Request) {
	actor, err := requireIdentity(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var req models.LinkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	resp, err := s.linkService.Update(r.Context(), actor, chi.URLParam(r, "linkId"), inputFromRequest(&req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ReplaceUpload replaces the video of a link with a new upload
// @Summary		Replace uploaded video
// @Description	Same form as the upload endpoint, carrying the full link settings
// @Tags		links
// @Accept		multipart/form-data
// @Produce	json
// @Param		linkId	path		string	true	"Link ID"
// @Param		file	formData	file	true	"Video file"
// @Security		BearerAuth
// @Success	200	{object}	models.LinkResponse
// @Failure	403	{object}	ErrorResponse
// @Failure	413	{object}	ErrorResponse
// @Router		/api/v1/links/{linkId}/upload [put]
func (s *Server) ReplaceUpload(w http.ResponseWriter, r *http.Request) {
	actor, err := requireIdentity(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	in, cleanup, ok := s.parseUploadForm(w, r, actor)
	if !ok {
		return
	}
	defer cleanup()

	resp, err := s.linkService.Update(r.Context(), actor, chi.URLParam(r, "linkId"), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// DeleteLink deletes a link
// @Summary		Delete link
// @Description	Owner only. Removes permissions, click history and the uploaded file.
// @Tags		links
// @Produce	json
// @Param		linkId	path	string	true	"Link ID"
// @Security		BearerAuth
// @Success	200	{object}	models.MessageResponse
// @Failure	403	{object}	ErrorResponse
// @Failure	404	{object}	ErrorResponse
// @Router		/api/v1/links/{linkId} [delete]
func (s *Server) DeleteLink(w http.ResponseWriter, r *http.Request) {
	actor, err := requireIdentity(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := s.linkService.Delete(r.Context(), actor, chi.URLParam(r, "linkId")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Link deleted"})
}

// parseUploadForm читает multipart форму. При ok=false ответ уже записан.
func (s *Server) parseUploadForm(w http.ResponseWriter, r *http.Request, actor *identity.Context) (*link.Input, func(), bool) {
	limit := s.linkService.UploadLimit(actor)
	r.Body = http.MaxBytesReader(w, r.Body, limit+formOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeServiceError(w, r, &app_errors.UploadLimitError{
				SizeBytes:  r.ContentLength,
				LimitBytes: limit,
				Premium:    actor.CanUsePremium(),
			})
			return nil, nil, false
		}
		writeError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return nil, nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		_ = r.MultipartForm.RemoveAll()
		writeServiceError(w, r, validation.ValidationError{Field: "file", Message: "is required"})
		return nil, nil, false
	}
	cleanup := func() {
		_ = file.Close()
		_ = r.MultipartForm.RemoveAll()
	}

	in, err := inputFromForm(r.MultipartForm)
	if err != nil {
		cleanup()
		writeServiceError(w, r, err)
		return nil, nil, false
	}

	in.Upload = &link.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
		OnProgress:  progressLogger(r, header.Filename),
	}
	return in, cleanup, true
}

func inputFromForm(form *multipart.Form) (*link.Input, error) {
	value := func(key string) string {
		if v := form.Value[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}

	in := &link.Input{
		Name:        value("name"),
		Description: value("description"),
		Password:    value("password"),
	}

	if raw := strings.TrimSpace(value("expires_at")); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, validation.ValidationError{Field: "expires_at", Message: "must be an RFC 3339 timestamp"}
		}
		in.ExpiresAt = &t
	}

	if raw := strings.TrimSpace(value("is_encrypted")); raw != "" {
		enc, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, validation.ValidationError{Field: "is_encrypted", Message: "must be a boolean"}
		}
		in.IsEncrypted = enc
	}

	for _, raw := range form.Value["allowed_emails"] {
		for _, e := range strings.Split(raw, ",") {
			if e = strings.TrimSpace(e); e != "" {
				in.AllowedEmails = append(in.AllowedEmails, e)
			}
		}
	}
	return in, nil
}

// progressLogger пишет прогресс загрузки в лог с шагом 25%
func progressLogger(r *http.Request, filename string) storage.ProgressFunc {
	l := logger.FromContext(r.Context())
	next := int64(25)
	return func(sent, total int64) {
		if total <= 0 {
			return
		}
		pct := sent * 100 / total
		if pct < next {
			return
		}
		l.Debug("Upload progress", "file", filename, "percent", pct)
		for next <= pct {
			next += 25
		}
	}
}
