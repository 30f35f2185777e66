package access

import (
	"net/http"
	"strings"
	"unicode/utf8"
)

// Типы устройств посетителя
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
	DeviceUnknown = "unknown"

	unknownCountry = "unknown"
	maxUserAgent   = 512
)

// ClickMeta сведения о клиенте, сохраняемые с событием клика
type ClickMeta struct {
	UserAgent string
	Country   string
	Device    string
}

// MetaFromRequest извлекает сведения о клиенте из заголовков запроса.
// Страна берется из заголовка CDN или шлюза, если он есть.
func MetaFromRequest(r *http.Request) ClickMeta {
	ua := truncateUTF8(strings.ToValidUTF8(r.UserAgent(), ""), maxUserAgent)

	country := unknownCountry
	for _, h := range []string{"CF-IPCountry", "X-Country-Code"} {
		if v := strings.TrimSpace(r.Header.Get(h)); v != "" && !strings.EqualFold(v, "XX") {
			country = strings.ToUpper(strings.ToValidUTF8(v, ""))
			break
		}
	}

	return ClickMeta{
		UserAgent: ua,
		Country:   country,
		Device:    DetectDevice(ua),
	}
}

// truncateUTF8 обрезает строку до max байт по границе руны.
// Хранилище принимает в Text только корректный UTF-8.
func truncateUTF8(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// DetectDevice грубо определяет тип устройства по User-Agent
func DetectDevice(userAgent string) string {
	ua := strings.ToLower(userAgent)
	switch {
	case ua == "":
		return DeviceUnknown
	case strings.Contains(ua, "ipad") || strings.Contains(ua, "tablet") ||
		(strings.Contains(ua, "android") && !strings.Contains(ua, "mobile")):
		return DeviceTablet
	case strings.Contains(ua, "mobi") || strings.Contains(ua, "iphone") || strings.Contains(ua, "ipod"):
		return DeviceMobile
	default:
		return DeviceDesktop
	}
}
