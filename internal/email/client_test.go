package email

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_UnconfiguredSkipsDelivery(t *testing.T) {
	c := &Client{Sender: "noreply@example.com", AppURL: "https://vid.example.com"}
	assert.False(t, c.IsConfigured())

	msg, err := c.SendPremiumExpiringEmail(context.Background(), "user@example.com", "individual", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, EmailStatusSkipped, msg.Status)
	assert.Contains(t, msg.Body, "1 February 2025")
}

func TestClient_TicketCreatedWithoutSupportAddress(t *testing.T) {
	c := &Client{}
	msg, err := c.SendTicketCreatedEmail(context.Background(), TicketNotice{TicketID: "t1", Subject: "help"})
	require.NoError(t, err)
	assert.Equal(t, EmailStatusSkipped, msg.Status)
}

func TestClient_EscapesUserInput(t *testing.T) {
	c := &Client{SupportEmail: "support@example.com"}
	msg, err := c.SendTicketCreatedEmail(context.Background(), TicketNotice{
		TicketID: "t1",
		Email:    "a@example.com",
		Subject:  "broken",
		Message:  "<script>alert(1)</script>",
		Category: "bug",
		Priority: "high",
	})
	require.NoError(t, err)
	assert.NotContains(t, msg.Body, "<script>")
	assert.Equal(t, "[high] New bug ticket: broken", msg.Subject)
}
