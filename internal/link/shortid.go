package link

import (
	"crypto/rand"
	"math/big"
	"strings"
)

const (
	shortIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	// ShortIDLength длина публичного идентификатора ссылки
	ShortIDLength = 8
)

var shortIDBase = big.NewInt(int64(len(shortIDAlphabet)))

// NewShortID возвращает криптостойкую base62 строку длины ShortIDLength
func NewShortID() (string, error) {
	var b strings.Builder
	b.Grow(ShortIDLength)
	for i := 0; i < ShortIDLength; i++ {
		idx, err := rand.Int(rand.Reader, shortIDBase)
		if err != nil {
			return "", err
		}
		b.WriteByte(shortIDAlphabet[idx.Int64()])
	}
	return b.String(), nil
}

// IsShortID проверяет формат идентификатора без обращения к хранилищу
func IsShortID(s string) bool {
	if len(s) != ShortIDLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(shortIDAlphabet, s[i]) < 0 {
			return false
		}
	}
	return true
}
