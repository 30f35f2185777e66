package errors

import (
	"errors"
	"fmt"
)

// Ошибки доступа к ссылке (Access Gate)
var (
	ErrLinkNotFound      = errors.New("link not found")
	ErrLinkExpired       = errors.New("link has expired")
	ErrPasswordRequired  = errors.New("password required")
	ErrIncorrectPassword = errors.New("wrong password")
	ErrAccessDenied      = errors.New("not authorized for this link")
	ErrSourceMissing     = errors.New("link has no playable video source")
)

// Ошибки авторизации и владения
var (
	ErrUnauthenticated   = errors.New("user not authenticated")
	ErrForbidden         = errors.New("access denied")
	ErrNotOwner          = errors.New("access denied: not the owner of this link")
	ErrPremiumRequired   = errors.New("requires premium")
	ErrUploadLimit       = errors.New("upload limit exceeded")
	ErrValidation        = errors.New("validation failed")
	ErrRecordNotFound    = errors.New("record not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrInvalidTicketStat = errors.New("invalid ticket status")
)

// Ошибки тарифов
var (
	ErrUnknownPlan    = errors.New("unknown plan")
	ErrNoActivePlan   = errors.New("user has no premium plan to extend")
	ErrNoMatchingPlan = errors.New("no plan matches the user's tier")
)

// Ошибки аутентификации
var (
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// Ошибки JWT
var (
	ErrFailedToGenerateAccessToken  = errors.New("failed to generate access token")
	ErrFailedToGenerateRefreshToken = errors.New("failed to generate refresh token")
	ErrUnexpectedSigningMethod      = errors.New("unexpected signing method")
	ErrFailedToParseToken           = errors.New("failed to parse token")
	ErrInvalidToken                 = errors.New("invalid token")
	ErrFailedToGenerateNewTokens    = errors.New("failed to generate new tokens")
	ErrAuthHeaderEmpty              = errors.New("authorization header is empty")
	ErrAuthHeaderWrongFormat        = errors.New("authorization header format must be Bearer {token}")
	ErrUserRoleNotFoundInContext    = errors.New("user role not found in context")
)

// Ошибки инициализации
var (
	ErrFailedToConnectDB          = errors.New("failed to connect to database")
	ErrJWTSecretKeyNotConfigured  = errors.New("JWT secret key is not configured")
	ErrFailedToInitStorageClient  = errors.New("failed to initialize storage client")
	ErrUnsupportedDatabaseBackend = errors.New("unsupported database backend")
)

// PremiumRequiredError сигнализирует, что функция доступна только на премиум тарифе
type PremiumRequiredError struct {
	Feature string
}

func (e *PremiumRequiredError) Error() string {
	return "requires premium to use " + e.Feature
}

func (e *PremiumRequiredError) Is(target error) bool {
	return target == ErrPremiumRequired
}

// UploadLimitError сообщает о превышении лимита размера файла для тарифа
type UploadLimitError struct {
	SizeBytes  int64
	LimitBytes int64
	Premium    bool
}

func (e *UploadLimitError) Error() string {
	limitMB := e.LimitBytes / (1024 * 1024)
	if !e.Premium {
		return fmt.Sprintf("file exceeds the %d MB limit of the free plan, upgrade to premium to upload larger videos", limitMB)
	}
	return fmt.Sprintf("upload limit exceeded: your plan allows files up to %d MB", limitMB)
}

func (e *UploadLimitError) Is(target error) bool {
	return target == ErrUploadLimit
}
