package validation

import (
	"path/filepath"
	"regexp"
	"strings"
)

// MaxFilenameLength максимальная длина имени файла
const MaxFilenameLength = 255

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ValidateFilename проверяет имя загружаемого файла
func ValidateFilename(filename string, fieldName string) error {
	name := strings.TrimSpace(filename)
	if name == "" {
		return ValidationError{Field: fieldName, Message: "is required"}
	}
	if len(name) > MaxFilenameLength {
		return ValidationError{Field: fieldName, Message: "is too long"}
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, "/\\\x00") {
		return ValidationError{Field: fieldName, Message: "contains a path"}
	}
	return nil
}

// SanitizeFilename оставляет в имени файла только безопасные символы для ключа объекта
func SanitizeFilename(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := strings.ToLower(filepath.Ext(base))
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	stem = unsafeFilenameChars.ReplaceAllString(stem, "_")
	stem = strings.Trim(stem, "._-")
	if stem == "" {
		stem = "video"
	}
	ext = unsafeFilenameChars.ReplaceAllString(ext, "")
	if ext == "." {
		ext = ""
	}

	if len(stem)+len(ext) > MaxFilenameLength {
		stem = stem[:MaxFilenameLength-len(ext)]
	}
	return stem + ext
}
