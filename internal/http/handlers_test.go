package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lumiforge/vidlinkgen-backend/internal/access"
	"github.com/lumiforge/vidlinkgen-backend/internal/analytics"
	"github.com/lumiforge/vidlinkgen-backend/internal/audit"
	"github.com/lumiforge/vidlinkgen-backend/internal/auth"
	"github.com/lumiforge/vidlinkgen-backend/internal/config"
	"github.com/lumiforge/vidlinkgen-backend/internal/email"
	app_errors "github.com/lumiforge/vidlinkgen-backend/internal/errors"
	"github.com/lumiforge/vidlinkgen-backend/internal/identity"
	"github.com/lumiforge/vidlinkgen-backend/internal/jwt"
	jwtmocks "github.com/lumiforge/vidlinkgen-backend/internal/jwt/mocks"
	"github.com/lumiforge/vidlinkgen-backend/internal/link"
	"github.com/lumiforge/vidlinkgen-backend/internal/models"
	"github.com/lumiforge/vidlinkgen-backend/internal/plan"
	"github.com/lumiforge/vidlinkgen-backend/internal/rbac"
	"github.com/lumiforge/vidlinkgen-backend/internal/storage"
	storagemocks "github.com/lumiforge/vidlinkgen-backend/internal/storage/mocks"
	"github.com/lumiforge/vidlinkgen-backend/internal/support"
	"github.com/lumiforge/vidlinkgen-backend/internal/ydb"
	ydbmocks "github.com/lumiforge/vidlinkgen-backend/internal/ydb/mocks"
)

const (
	memberToken = "member-token"
	adminToken  = "admin-token"
	shortID     = "abcDEF12"
)

type testEnv struct {
	router  http.Handler
	db      *ydbmocks.Database
	storage *storagemocks.StorageProvider
	jwt     *jwtmocks.TokenManager
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, string) error { return nil }

func setupTestRouter(t *testing.T) *testEnv {
	mockDB := new(ydbmocks.Database)
	mockStorage := new(storagemocks.StorageProvider)
	mockJWT := new(jwtmocks.TokenManager)

	cfg := &config.Config{
		UploadLimitMBFree:       1,
		UploadLimitMBIndividual: 4,
		UploadLimitMBTeam:       8,
		PaymentInstructions:     "Send a receipt to support",
	}
	emailClient, err := email.NewClient(context.Background(), &config.Config{})
	require.NoError(t, err)

	realRBAC := rbac.NewRBAC()
	hub := identity.NewHub()
	catalog := plan.NewCatalog(cfg)

	// Аудит пишется во всех сценариях, его результат тестами не проверяется
	mockDB.On("CreateAuditLog", mock.Anything, mock.Anything).Return(nil).Maybe()

	auditService := audit.NewService(mockDB, realRBAC, nil)
	authService := auth.NewService(mockDB, mockJWT, realRBAC, emailClient, hub)

	server := NewServer(Services{
		Auth:      authService,
		Links:     link.NewService(mockDB, mockStorage, nil, catalog, realRBAC, auditService, "http://test.local"),
		Gate:      access.NewGate(mockDB, mockStorage, nil),
		Plans:     plan.NewService(mockDB, catalog, realRBAC, auditService, hub, cfg.PaymentInstructions),
		Analytics: analytics.NewService(mockDB, realRBAC, time.UTC),
		Support:   support.NewService(mockDB, emailClient, noopNotifier{}, realRBAC, auditService),
		Audit:     auditService,
	})

	return &testEnv{
		router:  SetupRouter(server, authService, nil),
		db:      mockDB,
		storage: mockStorage,
		jwt:     mockJWT,
	}
}

// withUser регистрирует токен, который резолвится в пользователя
func (e *testEnv) withUser(token string, u *ydb.User) {
	e.jwt.On("ValidateAccessToken", token).Return(&jwt.Claims{UserID: u.UserID, Kind: jwt.KindAccess}, nil)
	e.db.On("GetUserByID", mock.Anything, u.UserID).Return(u, nil)
}

func memberUser() *ydb.User {
	return &ydb.User{UserID: "user-1", Email: "member@example.com", Role: "member"}
}

func adminUser() *ydb.User {
	return &ydb.User{UserID: "admin-1", Email: "admin@example.com", Role: "admin"}
}

func premiumMember() *ydb.User {
	tier := "individual"
	expires := time.Now().Add(30 * 24 * time.Hour)
	u := memberUser()
	u.IsPremium = true
	u.PremiumTier = &tier
	u.PremiumExpiresAt = &expires
	return u
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func publicLink() *ydb.VideoLink {
	src := "https://videos.example.com/demo.mp4"
	return &ydb.VideoLink{
		LinkID:     "link-1",
		OwnerID:    "user-1",
		ShortID:    shortID,
		Name:       "Demo",
		SourceType: ydb.SourceTypeURL,
		SourceURL:  &src,
	}
}

func TestHandler_Health(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestHandler_OpenAPI(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/openapi.json", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"swagger": "2.0"`)
	assert.Contains(t, w.Body.String(), "/v/{shortId}")

	var doc struct {
		BasePath string                     `json:"basePath"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "/", doc.BasePath)
	for _, path := range []string{"/health", "/v/{shortId}", "/analytics/{linkId}", "/api/v1/analytics/{linkId}", "/api/v1/links", "/api/v1/admin/users"} {
		assert.Contains(t, doc.Paths, path)
	}
	assert.NotContains(t, doc.Paths, "/links")
}

func TestHandler_Register_InvalidJSON(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("POST", "/api/v1/auth/register", "", `{"email": "test@example.com", "password": "123"`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request format")
}

func TestHandler_Register_InvalidContentType(t *testing.T) {
	env := setupTestRouter(t)

	req := httptest.NewRequest("POST", "/api/v1/auth/register", strings.NewReader(`{"email": "test@example.com"}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/api/v1/auth/register", "", nil)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHandler_Register_EmailExists(t *testing.T) {
	env := setupTestRouter(t)
	env.db.On("GetUserByEmail", mock.Anything, "existing@example.com").Return(memberUser(), nil)

	w := env.do("POST", "/api/v1/auth/register", "", models.RegisterRequest{
		Email:    "existing@example.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_Register_Validation(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("POST", "/api/v1/auth/register", "", models.RegisterRequest{
		Email:    "not-an-email",
		Password: "password123",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env.db.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestHandler_Login_InvalidCredentials(t *testing.T) {
	env := setupTestRouter(t)
	env.db.On("GetUserByEmail", mock.Anything, "nobody@example.com").Return(nil, app_errors.ErrRecordNotFound)

	w := env.do("POST", "/api/v1/auth/login", "", models.LoginRequest{Email: "nobody@example.com", Password: "password123"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_Profile_RequiresToken(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/api/v1/auth/profile", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_Profile_InvalidToken(t *testing.T) {
	env := setupTestRouter(t)
	env.jwt.On("ValidateAccessToken", "bad").Return(nil, app_errors.ErrInvalidToken)

	w := env.do("GET", "/api/v1/auth/profile", "bad", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_Profile_ReflectsPremium(t *testing.T) {
	env := setupTestRouter(t)
	env.withUser(memberToken, premiumMember())

	w := env.do("GET", "/api/v1/auth/profile", memberToken, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var info models.UserInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.True(t, info.IsPremium)
	assert.Equal(t, "individual", info.PremiumTier)
}

func TestHandler_Plans(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/api/v1/plans", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.PlansResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Plans, 4)
	assert.Equal(t, int64(1), resp.FreeUploadLimitMB)
	assert.Equal(t, "Send a receipt to support", resp.PaymentInstructions)
}

func TestHandler_Gate_PasswordRequired(t *testing.T) {
	env := setupTestRouter(t)
	l := publicLink()
	pw := "secret"
	l.Password = &pw
	env.db.On("GetLinkByShortID", mock.Anything, shortID).Return(l, nil)

	w := env.do("GET", "/v/"+shortID, "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeError(t, w)
	assert.True(t, resp.PasswordRequired)
	env.db.AssertNotCalled(t, "RecordClick", mock.Anything, mock.Anything)
}

func TestHandler_Gate_WrongThenRightPassword(t *testing.T) {
	env := setupTestRouter(t)
	l := publicLink()
	pw := "secret"
	l.Password = &pw
	env.db.On("GetLinkByShortID", mock.Anything, shortID).Return(l, nil)
	env.db.On("RecordClick", mock.Anything, mock.MatchedBy(func(e *ydb.ClickEvent) bool {
		return e.LinkID == "link-1"
	})).Return(int64(1), nil).Once()

	w := env.do("POST", "/v/"+shortID, "", models.AccessRequest{Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, decodeError(t, w).PasswordRequired)

	w = env.do("POST", "/v/"+shortID, "", models.AccessRequest{Password: "secret"})
	require.Equal(t, http.StatusOK, w.Code)

	var grant models.AccessGrantResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &grant))
	assert.Equal(t, "https://videos.example.com/demo.mp4", grant.VideoURL)
	assert.Equal(t, int64(1), grant.Clicks)
	env.db.AssertNumberOfCalls(t, "RecordClick", 1)
}

func TestHandler_Gate_Expired(t *testing.T) {
	env := setupTestRouter(t)
	l := publicLink()
	past := time.Now().Add(-time.Hour)
	l.ExpiresAt = &past
	env.db.On("GetLinkByShortID", mock.Anything, shortID).Return(l, nil)

	w := env.do("GET", "/v/"+shortID, "", nil)

	assert.Equal(t, http.StatusGone, w.Code)
}

func TestHandler_Gate_UnknownShortID(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/v/not-valid!", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_Gate_AllowlistUsesOptionalToken(t *testing.T) {
	env := setupTestRouter(t)
	env.withUser(memberToken, memberUser())
	env.db.On("GetLinkByShortID", mock.Anything, shortID).Return(publicLink(), nil)
	env.db.On("GetLinkPermissions", mock.Anything, "link-1").Return([]*ydb.LinkPermission{
		{LinkID: "link-1", Email: "member@example.com"},
	}, nil)
	env.db.On("RecordClick", mock.Anything, mock.Anything).Return(int64(5), nil)

	w := env.do("GET", "/v/"+shortID, "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do("GET", "/v/"+shortID, memberToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	env.db.AssertNumberOfCalls(t, "RecordClick", 1)
}

func TestHandler_Gate_SourceMissing(t *testing.T) {
	env := setupTestRouter(t)
	l := publicLink()
	l.SourceURL = nil
	env.db.On("GetLinkByShortID", mock.Anything, shortID).Return(l, nil)
	env.db.On("GetLinkPermissions", mock.Anything, "link-1").Return(nil, nil)

	w := env.do("GET", "/v/"+shortID, "", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestHandler_CreateLink_PremiumRequired(t *testing.T) {
	env := setupTestRouter(t)
	env.withUser(memberToken, memberUser())

	w := env.do("POST", "/api/v1/links", memberToken, models.LinkRequest{
		Name:     "Demo",
		VideoURL: "https://videos.example.com/demo.mp4",
		Password: "secret",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, decodeError(t, w).Message, "password protection")
	env.db.AssertNotCalled(t, "CreateLink", mock.Anything, mock.Anything)
}

func TestHandler_CreateLink_Success(t *testing.T) {
	env := setupTestRouter(t)
	env.withUser(memberToken, memberUser())
	env.db.On("GetLinkByShortID", mock.Anything, mock.Anything).Return(nil, app_errors.ErrRecordNotFound)
	env.db.On("CreateLink", mock.Anything, mock.MatchedBy(func(l *ydb.VideoLink) bool {
		return l.OwnerID == "user-1" && l.SourceType == ydb.SourceTypeURL
	})).Return(nil)

	w := env.do("POST", "/api/v1/links", memberToken, models.LinkRequest{
		Name:     "Demo",
		VideoURL: "https://videos.example.com/demo.mp4",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	var resp models.LinkResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.ShortURL, "http://test.local/v/"))
	assert.Equal(t, int64(0), resp.Clicks)
}

func TestHandler_GetLink_NotOwner(t *testing.T) {
	env := setupTestRouter(t)
	env.withUser(memberToken, memberUser())
	l := publicLink()
	l.OwnerID = "someone-else"
	env.db.On("GetLinkByID", mock.Anything, "link-1").Return(l, nil)

	w := env.do("GET", "/api/v1/links/link-1", memberToken, nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandler_DeleteLink_NotFound(t *testing.T) {
	env := setupTestRouter(t)
	env.withUser(memberToken, memberUser())
	env.db.On("GetLinkByID", mock.Anything, "missing").Return(nil, app_errors.ErrRecordNotFound)

	w := env.do("DELETE", "/api/v1/links/missing", memberToken, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func multipartBody(t *testing.T, fields map[string]string, filename, contentType string, size int) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{0x1}, size))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func (e *testEnv) upload(path, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestHandler_UploadLink_FreeLimitSuggestsUpgrade(t *testing.T) {
	env := setupTestRouter(t)
	env.withUser(memberToken, memberUser())

	body, ct := multipartBody(t, map[string]string{"name": "Big"}, "big.mp4", "video/mp4", 1024*1024+512)
	w := env.upload("/api/v1/links/upload", memberToken, body, ct)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, decodeError(t, w).Message, "upgrade")
	env.storage.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
}

func TestHandler_UploadLink_FarOverLimitKeepsTierMessage(t *testing.T) {
	cases := []struct {
		name    string
		user    *ydb.User
		size    int
		message string
	}{
		{"free user sends a team sized file", memberUser(), 8*1024*1024 + 512, "upgrade"},
		{"premium user over the individual limit", premiumMember(), 4*1024*1024 + formOverhead + 512*1024, "limit exceeded"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := setupTestRouter(t)
			env.withUser(memberToken, tc.user)

			body, ct := multipartBody(t, map[string]string{"name": "Big"}, "big.mp4", "video/mp4", tc.size)
			w := env.upload("/api/v1/links/upload", memberToken, body, ct)

			assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
			assert.Contains(t, decodeError(t, w).Message, tc.message)
			env.storage.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_UploadLink_Success(t *testing.T) {
	env := setupTestRouter(t)
	env.withUser(memberToken, memberUser())
	env.db.On("GetLinkByShortID", mock.Anything, mock.Anything).Return(nil, app_errors.ErrRecordNotFound)
	env.storage.On("PutObject", mock.Anything, mock.MatchedBy(func(in *storage.UploadInput) bool {
		return in.ContentType == "video/mp4" && in.Size == 2048 && in.Public
	})).Return(nil)
	env.storage.On("PublicURL", mock.Anything).Return("https://storage.example.com/videos/clip.mp4")
	env.db.On("CreateLink", mock.Anything, mock.Anything).Return(nil)

	body, ct := multipartBody(t, map[string]string{"description": "From the form"}, "clip.mp4", "video/mp4", 2048)
	w := env.upload("/api/v1/links/upload", memberToken, body, ct)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp models.LinkResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "clip", resp.Name)
	assert.Equal(t, ydb.SourceTypeUpload, resp.SourceType)
}

func TestHandler_UploadLink_RequiresMultipart(t *testing.T) {
	env := setupTestRouter(t)
	env.withUser(memberToken, memberUser())

	w := env.do("POST", "/api/v1/links/upload", memberToken, models.LinkRequest{Name: "x"})

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestHandler_Admin_ForbiddenForMember(t *testing.T) {
	env := setupTestRouter(t)
	env.withUser(memberToken, memberUser())

	for _, tc := range []struct{ method, path string }{
		{"GET", "/api/v1/admin/users"},
		{"DELETE", "/api/v1/admin/users/user-2/premium"},
		{"POST", "/api/v1/admin/users/user-2/premium/extend"},
		{"GET", "/api/v1/admin/tickets"},
		{"GET", "/api/v1/admin/summary"},
		{"GET", "/api/v1/admin/audit-logs"},
	} {
		w := env.do(tc.method, tc.path, memberToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code, tc.path)
	}
}

func TestHandler_AssignPremium_UnknownPlan(t *testing.T) {
	env := setupTestRouter(t)
	env.withUser(adminToken, adminUser())

	w := env.do("POST", "/api/v1/admin/users/user-1/premium", adminToken, models.AssignPlanRequest{PlanKey: "lifetime"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env.db.AssertNotCalled(t, "UpdateUserPremium", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_UpdateTicketStatus_Invalid(t *testing.T) {
	env := setupTestRouter(t)
	env.withUser(adminToken, adminUser())

	w := env.do("PUT", "/api/v1/admin/tickets/ticket-1/status", adminToken, models.UpdateTicketStatusRequest{Status: "archived"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_UnexpectedErrorIsGeneric(t *testing.T) {
	env := setupTestRouter(t)
	env.withUser(memberToken, memberUser())
	env.db.On("ListLinksByOwner", mock.Anything, "user-1").Return(nil, errors.New("connection reset by peer"))

	w := env.do("GET", "/api/v1/links", memberToken, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, unexpectedErrorMessage, resp.Message)
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestHandler_AnalyticsRoutes(t *testing.T) {
	env := setupTestRouter(t)
	env.withUser(memberToken, memberUser())
	env.db.On("GetLinkByID", mock.Anything, "link-1").Return(publicLink(), nil)
	env.db.On("ListClickEvents", mock.Anything, "link-1", mock.Anything).Return(nil, nil)

	for _, path := range []string{"/analytics/link-1", "/api/v1/analytics/link-1"} {
		w := env.do("GET", path, memberToken, nil)
		require.Equal(t, http.StatusOK, w.Code, path)

		var resp models.LinkAnalyticsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Days, 7)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{app_errors.ErrLinkExpired, http.StatusGone},
		{app_errors.ErrPasswordRequired, http.StatusUnauthorized},
		{app_errors.ErrIncorrectPassword, http.StatusUnauthorized},
		{app_errors.ErrAccessDenied, http.StatusForbidden},
		{app_errors.ErrNotOwner, http.StatusForbidden},
		{&app_errors.PremiumRequiredError{Feature: "encryption"}, http.StatusForbidden},
		{&app_errors.UploadLimitError{SizeBytes: 2, LimitBytes: 1}, http.StatusRequestEntityTooLarge},
		{app_errors.ErrSourceMissing, http.StatusUnprocessableEntity},
		{app_errors.ErrLinkNotFound, http.StatusNotFound},
		{app_errors.ErrEmailAlreadyExists, http.StatusConflict},
		{errors.New("boom"), 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}
