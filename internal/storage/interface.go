package storage

import (
	"context"
	"io"
	"time"
)

// ProgressFunc вызывается по мере отправки байт объекта
type ProgressFunc func(sent, total int64)

// UploadInput описывает загружаемый объект
type UploadInput struct {
	Key         string
	Body        io.Reader
	Size        int64
	ContentType string
	// Public открывает объект на чтение без подписи
	Public     bool
	OnProgress ProgressFunc
}

// StorageProvider определяет интерфейс для работы с объектным хранилищем (S3)
type StorageProvider interface {
	// Методы загрузки
	PutObject(ctx context.Context, input *UploadInput) error

	// Методы скачивания и доступа
	PublicURL(key string) string
	GeneratePresignedDownloadURL(ctx context.Context, key string, lifetime time.Duration) (string, error)
	SetObjectPublic(ctx context.Context, key string, public bool) error

	// Методы управления объектами
	DeleteObject(ctx context.Context, key string) error
}
