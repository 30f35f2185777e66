package identity

import (
	"sync"
	"time"
)

// EventType тип изменения сессии
type EventType string

const (
	EventSignedIn       EventType = "signed_in"
	EventSignedOut      EventType = "signed_out"
	EventPremiumChanged EventType = "premium_changed"
)

// Event изменение сессии или премиум статуса пользователя
type Event struct {
	Type     EventType
	UserID   string
	Identity *Context
	ActorID  string
	At       time.Time
}

// Hub единая точка подписки на изменения сессий. Подписчики вызываются синхронно
// в горутине публикующего.
type Hub struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]func(Event))}
}

// Subscribe регистрирует обработчик и возвращает функцию отписки
func (h *Hub) Subscribe(fn func(Event)) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

// Publish рассылает событие всем подписчикам. Nil hub ничего не делает.
func (h *Hub) Publish(e Event) {
	if h == nil {
		return
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}

	h.mu.RLock()
	handlers := make([]func(Event), 0, len(h.subs))
	for _, fn := range h.subs {
		handlers = append(handlers, fn)
	}
	h.mu.RUnlock()

	for _, fn := range handlers {
		fn(e)
	}
}
