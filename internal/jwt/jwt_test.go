package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumiforge/vidlinkgen-backend/internal/config"
	app_errors "github.com/lumiforge/vidlinkgen-backend/internal/errors"
)

func newTestManager(t *testing.T, secret string) *JWTManager {
	t.Helper()
	m := NewJWTManager(&config.Config{JWTSecretKey: secret})
	require.NotNil(t, m)
	return m
}

func TestNewJWTManager_RequiresSecret(t *testing.T) {
	assert.Nil(t, NewJWTManager(&config.Config{}))
}

func TestJWTManager_TokenPairCarriesKind(t *testing.T) {
	m := newTestManager(t, "test-secret")

	access, refresh, err := m.GenerateTokenPair("user-1")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, KindAccess, claims.Kind)
	assert.Equal(t, "vidlinkgen", claims.Issuer)

	claims, err = m.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, KindRefresh, claims.Kind)

	assert.Equal(t, 24*time.Hour, m.GetTokenExpiry(KindAccess))
	assert.Equal(t, 7*24*time.Hour, m.GetTokenExpiry(KindRefresh))
}

func TestJWTManager_KindsAreNotInterchangeable(t *testing.T) {
	m := newTestManager(t, "test-secret")
	access, refresh, err := m.GenerateTokenPair("user-1")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(refresh)
	assert.ErrorIs(t, err, app_errors.ErrInvalidToken)

	_, err = m.ValidateRefreshToken(access)
	assert.ErrorIs(t, err, app_errors.ErrInvalidToken)
}

func TestJWTManager_RejectsForeignSignature(t *testing.T) {
	issuerManager := newTestManager(t, "one")
	verifier := newTestManager(t, "two")

	access, _, err := issuerManager.GenerateTokenPair("user-1")
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(access)
	assert.ErrorIs(t, err, app_errors.ErrFailedToParseToken)
}

func TestJWTManager_RejectsForeignIssuerAndMethod(t *testing.T) {
	m := newTestManager(t, "test-secret")
	now := time.Now()

	cases := []struct {
		name   string
		method jwt.SigningMethod
		issuer string
	}{
		{"other issuer", jwt.SigningMethodHS256, "other-service"},
		{"other hmac method", jwt.SigningMethodHS512, "vidlinkgen"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token, err := jwt.NewWithClaims(tc.method, Claims{
				UserID: "user-1",
				Kind:   KindAccess,
				RegisteredClaims: jwt.RegisteredClaims{
					Issuer:    tc.issuer,
					Subject:   "user-1",
					ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
				},
			}).SignedString([]byte("test-secret"))
			require.NoError(t, err)

			_, err = m.ValidateAccessToken(token)
			assert.ErrorIs(t, err, app_errors.ErrFailedToParseToken)
		})
	}
}

func TestJWTManager_ExpiredAccessToken(t *testing.T) {
	m := newTestManager(t, "test-secret")
	issuedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issuedAt }

	access, refresh, err := m.GenerateTokenPair("user-1")
	require.NoError(t, err)

	m.now = func() time.Time { return issuedAt.Add(25 * time.Hour) }

	_, err = m.ValidateAccessToken(access)
	assert.ErrorIs(t, err, app_errors.ErrFailedToParseToken)

	_, err = m.ValidateRefreshToken(refresh)
	assert.NoError(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := ExtractTokenFromHeader("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	_, err = ExtractTokenFromHeader("")
	assert.ErrorIs(t, err, app_errors.ErrAuthHeaderEmpty)

	_, err = ExtractTokenFromHeader("Token abc")
	assert.ErrorIs(t, err, app_errors.ErrAuthHeaderWrongFormat)

	_, err = ExtractTokenFromHeader("Bearer   ")
	assert.ErrorIs(t, err, app_errors.ErrAuthHeaderWrongFormat)
}
