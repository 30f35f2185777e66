package validation

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// XSSRegexPatterns содержит регулярные выражения для обнаружения XSS-атак
var XSSRegexPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<script[^>]*>`),
	regexp.MustCompile(`(?i)javascript\s*:`),
	regexp.MustCompile(`(?i)vbscript\s*:`),
	regexp.MustCompile(`(?i)<[^>]+\son\w+\s*=`),
	regexp.MustCompile(`(?i)<iframe[^>]*>`),
	regexp.MustCompile(`(?i)<object[^>]*>`),
	regexp.MustCompile(`(?i)<embed[^>]*>`),
	regexp.MustCompile(`(?i)document\.cookie`),
}

// ContainsXSS проверяет наличие XSS-атак в строке
func ContainsXSS(input string) bool {
	for _, regex := range XSSRegexPatterns {
		if regex.MatchString(input) {
			return true
		}
	}
	return false
}

// ValidateText проверяет обязательность, длину и отсутствие разметки
func ValidateText(value, fieldName string, maxLen int, required bool) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if required {
			return ValidationError{Field: fieldName, Message: "is required"}
		}
		return nil
	}
	if !utf8.ValidString(trimmed) {
		return ValidationError{Field: fieldName, Message: "contains invalid characters"}
	}
	if maxLen > 0 && utf8.RuneCountInString(trimmed) > maxLen {
		return ValidationError{Field: fieldName, Message: "is too long"}
	}
	if ContainsXSS(trimmed) {
		return ValidationError{Field: fieldName, Message: "contains potentially dangerous content"}
	}
	return nil
}

// ValidateVideoURL проверяет внешний адрес видео: только абсолютные http(s) URL
func ValidateVideoURL(raw, fieldName string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ValidationError{Field: fieldName, Message: "must be an absolute URL"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ValidationError{Field: fieldName, Message: "must use http or https"}
	}
	return nil
}
