package validation

import (
	"path/filepath"
	"strings"
)

var videoExtensions = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/x-m4v",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".wmv":  "video/x-ms-wmv",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".3gp":  "video/3gpp",
	".ogv":  "video/ogg",
}

// NormalizeContentType убирает параметры и приводит к нижнему регистру
func NormalizeContentType(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}

// IsVideoContentType проверяет, является ли тип видео
func IsVideoContentType(contentType string) bool {
	return strings.HasPrefix(NormalizeContentType(contentType), "video/")
}

// GetContentTypeFromExtension возвращает MIME тип видео по расширению файла
func GetContentTypeFromExtension(filename string) string {
	if ct, ok := videoExtensions[strings.ToLower(filepath.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// ResolveVideoContentType определяет тип загружаемого видео.
// Если клиент прислал не видео тип, пробуем определить по расширению.
func ResolveVideoContentType(filename, contentType string, fieldName string) (string, error) {
	if IsVideoContentType(contentType) {
		return NormalizeContentType(contentType), nil
	}
	if ct := GetContentTypeFromExtension(filename); IsVideoContentType(ct) {
		return ct, nil
	}
	return "", ValidationError{Field: fieldName, Message: "must be a video file"}
}
