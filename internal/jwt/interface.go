package jwt

import "time"

// TokenManager выпускает и проверяет токены сессии.
// Роль и премиум статус в токен не кладутся: они читаются из базы на каждом запросе.
type TokenManager interface {
	GenerateTokenPair(userID string) (string, string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
	GetTokenExpiry(kind TokenKind) time.Duration
}
