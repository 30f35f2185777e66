package validation

import (
	"regexp"
	"sort"
	"strings"
)

// EmailRegex содержит регулярное выражение для валидации email
var EmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// IsValidEmail проверяет валидность email адреса
func IsValidEmail(email string) bool {
	if email == "" {
		return false
	}
	if !EmailRegex.MatchString(email) {
		return false
	}
	return isValidEmailFormat(email)
}

// ValidateEmail выполняет валидацию email и возвращает ошибку
func ValidateEmail(email string, fieldName string) error {
	if !IsValidEmail(email) {
		return ValidationError{
			Field:   fieldName,
			Message: "is not a valid email address",
		}
	}
	return nil
}

// isValidEmailFormat выполняет дополнительные проверки формата email
func isValidEmailFormat(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))

	// Проверка длины
	if len(email) > 254 {
		return false
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}

	local := parts[0]
	domain := parts[1]

	if len(local) == 0 || len(local) > 64 {
		return false
	}
	if len(domain) == 0 || len(domain) > 253 {
		return false
	}

	// Точки в начале, конце и две подряд недопустимы
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") || strings.Contains(local, "..") {
		return false
	}

	return isValidDomain(domain)
}

// isValidDomain проверяет валидность домена
func isValidDomain(domain string) bool {
	if strings.Contains(domain, "..") {
		return false
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	if strings.HasPrefix(domain, "-") || strings.HasSuffix(domain, "-") {
		return false
	}
	for _, label := range strings.Split(domain, ".") {
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
	}
	return true
}

// NormalizeEmail приводит email к каноническому виду для сравнения
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeEmailList нормализует, проверяет и дедуплицирует список email.
// Пустые элементы пропускаются, результат отсортирован.
func NormalizeEmailList(emails []string, fieldName string) ([]string, error) {
	seen := make(map[string]struct{}, len(emails))
	out := make([]string, 0, len(emails))
	for _, raw := range emails {
		email := NormalizeEmail(raw)
		if email == "" {
			continue
		}
		if err := ValidateEmail(email, fieldName); err != nil {
			return nil, ValidationError{
				Field:   fieldName,
				Message: "contains an invalid email address: " + raw,
			}
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		out = append(out, email)
	}
	sort.Strings(out)
	return out, nil
}
