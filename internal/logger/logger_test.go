package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingAlerter struct {
	messages []string
}

func (r *recordingAlerter) SendAlert(msg string) error {
	r.messages = append(r.messages, msg)
	return nil
}

func TestTelegramHandler_AlertsOnlyOnErrors(t *testing.T) {
	var buf bytes.Buffer
	alerter := &recordingAlerter{}
	log := NewWithWriter(&buf, alerter)

	log.Info("link created", "link_id", "l1")
	log.Error("failed to record click", "error", errors.New("db down"))

	assert.Equal(t, []string{"failed to record click: db down"}, alerter.messages)
	assert.Contains(t, buf.String(), `"msg":"link created"`)
	assert.Contains(t, buf.String(), `"msg":"failed to record click"`)
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	l := NewWithWriter(&bytes.Buffer{}, nil)
	ctx := WithContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}
