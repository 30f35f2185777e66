package jwt

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/lumiforge/vidlinkgen-backend/internal/config"
	app_errors "github.com/lumiforge/vidlinkgen-backend/internal/errors"
)

// TokenKind назначение токена
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"

	issuer = "vidlinkgen"

	accessTTL  = 24 * time.Hour
	refreshTTL = 7 * 24 * time.Hour
)

// Claims содержит только идентификатор пользователя и назначение токена
type Claims struct {
	UserID string    `json:"user_id"`
	Kind   TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// JWTManager подписывает токены HS256
type JWTManager struct {
	secretKey []byte
	parser    *jwt.Parser
	now       func() time.Time
}

// NewJWTManager возвращает nil, если секрет не задан
func NewJWTManager(cfg *config.Config) *JWTManager {
	if cfg.JWTSecretKey == "" {
		return nil
	}
	m := &JWTManager{
		secretKey: []byte(cfg.JWTSecretKey),
		now:       time.Now,
	}
	m.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(func() time.Time { return m.now() }),
	)
	return m
}

// GenerateTokenPair выпускает access и refresh токены для пользователя
func (j *JWTManager) GenerateTokenPair(userID string) (string, string, error) {
	accessToken, err := j.sign(userID, KindAccess)
	if err != nil {
		return "", "", app_errors.ErrFailedToGenerateAccessToken
	}
	refreshToken, err := j.sign(userID, KindRefresh)
	if err != nil {
		return "", "", app_errors.ErrFailedToGenerateRefreshToken
	}
	return accessToken, refreshToken, nil
}

// ValidateAccessToken принимает только access токены
func (j *JWTManager) ValidateAccessToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, KindAccess)
}

// ValidateRefreshToken принимает только refresh токены
func (j *JWTManager) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return j.validate(tokenString, KindRefresh)
}

func (j *JWTManager) GetTokenExpiry(kind TokenKind) time.Duration {
	if kind == KindRefresh {
		return refreshTTL
	}
	return accessTTL
}

func (j *JWTManager) sign(userID string, kind TokenKind) (string, error) {
	now := j.now()
	claims := Claims{
		UserID: userID,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.GetTokenExpiry(kind))),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
}

func (j *JWTManager) validate(tokenString string, kind TokenKind) (*Claims, error) {
	claims := &Claims{}
	token, err := j.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return j.secretKey, nil
	})
	if err != nil {
		return nil, app_errors.ErrFailedToParseToken
	}
	if !token.Valid || claims.Kind != kind || claims.UserID == "" || claims.UserID != claims.Subject {
		return nil, app_errors.ErrInvalidToken
	}
	return claims, nil
}

// ExtractTokenFromHeader извлекает токен из заголовка Authorization
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", app_errors.ErrAuthHeaderEmpty
	}
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", app_errors.ErrAuthHeaderWrongFormat
	}
	return strings.TrimSpace(token), nil
}
