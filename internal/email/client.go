package email

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	appconfig "github.com/lumiforge/vidlinkgen-backend/internal/config"
)

type Client struct {
	SESClient    *sesv2.Client
	Sender       string
	SupportEmail string
	AppURL       string
}

// NewClient создает клиент Postbox (SES v2 API). Без отправителя клиент считается ненастроенным.
func NewClient(ctx context.Context, appCfg *appconfig.Config) (*Client, error) {
	c := &Client{
		Sender:       appCfg.EmailFrom,
		SupportEmail: appCfg.SupportEmail,
		AppURL:       appCfg.PublicBaseURL,
	}
	if appCfg.EmailFrom == "" || appCfg.SESEndpoint == "" {
		return c, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(appCfg.SESAccessKeyID, appCfg.SESSecretAccessKey, "")),
		config.WithRegion(appCfg.SESRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load SES config: %w", err)
	}

	c.SESClient = sesv2.NewFromConfig(cfg, func(o *sesv2.Options) {
		o.BaseEndpoint = aws.String(appCfg.SESEndpoint)
	})
	return c, nil
}

// IsConfigured проверяет, настроен ли email сервис
func (c *Client) IsConfigured() bool {
	return c != nil && c.Sender != "" && c.SESClient != nil
}

// SendWelcomeEmail отправляет приветственное письмо после регистрации
func (c *Client) SendWelcomeEmail(ctx context.Context, toEmail, displayName string) (*EmailMessage, error) {
	name := html.EscapeString(displayName)
	if name == "" {
		name = "there"
	}
	subject := "Welcome to VidLinkGen"
	body := fmt.Sprintf(`
		<html>
		<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
			<h2>Hi %s!</h2>
			<p>Your VidLinkGen account is ready. Create your first shareable video link at <a href="%s">%s</a>.</p>
			<p style="font-size: 12px; color: #999;">This message was generated automatically. Please do not reply.</p>
		</body>
		</html>
	`, name, c.AppURL, c.AppURL)

	return c.deliver(ctx, EmailTypeWelcome, toEmail, subject, body)
}

// SendTicketReceivedEmail подтверждает пользователю получение обращения
func (c *Client) SendTicketReceivedEmail(ctx context.Context, t TicketNotice) (*EmailMessage, error) {
	subject := fmt.Sprintf("We received your request: %s", t.Subject)
	body := fmt.Sprintf(`
		<html>
		<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
			<h2>Support request received</h2>
			<p>Ticket <strong>%s</strong> (%s priority) has been registered. Our team will get back to you soon.</p>
			<blockquote>%s</blockquote>
		</body>
		</html>
	`, html.EscapeString(t.TicketID), html.EscapeString(t.Priority), html.EscapeString(t.Message))

	return c.deliver(ctx, EmailTypeTicketReceived, t.Email, subject, body)
}

// SendTicketCreatedEmail уведомляет команду поддержки о новом тикете
func (c *Client) SendTicketCreatedEmail(ctx context.Context, t TicketNotice) (*EmailMessage, error) {
	if c == nil || c.SupportEmail == "" {
		return &EmailMessage{Type: EmailTypeTicketCreated, Status: EmailStatusSkipped}, nil
	}
	subject := fmt.Sprintf("[%s] New %s ticket: %s", t.Priority, t.Category, t.Subject)
	body := fmt.Sprintf(`
		<html>
		<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
			<p><strong>From:</strong> %s</p>
			<p><strong>Ticket:</strong> %s</p>
			<p><strong>Category:</strong> %s</p>
			<p><strong>Priority:</strong> %s</p>
			<pre>%s</pre>
		</body>
		</html>
	`, html.EscapeString(t.Email), html.EscapeString(t.TicketID), html.EscapeString(t.Category),
		html.EscapeString(t.Priority), html.EscapeString(t.Message))

	return c.deliver(ctx, EmailTypeTicketCreated, c.SupportEmail, subject, body)
}

// SendPremiumExpiringEmail предупреждает о скором окончании тарифа
func (c *Client) SendPremiumExpiringEmail(ctx context.Context, toEmail, tier string, expiresAt time.Time) (*EmailMessage, error) {
	subject := "Your VidLinkGen premium plan expires soon"
	body := fmt.Sprintf(`
		<html>
		<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
			<p>Your <strong>%s</strong> plan expires on %s.</p>
			<p>Password protection, encryption and email restrictions stop working for new changes after that date. Contact support to extend.</p>
		</body>
		</html>
	`, html.EscapeString(tier), expiresAt.Format("2 January 2006"))

	return c.deliver(ctx, EmailTypePremiumExpiring, toEmail, subject, body)
}

// SendPremiumExpiredEmail сообщает об окончании тарифа
func (c *Client) SendPremiumExpiredEmail(ctx context.Context, toEmail, tier string) (*EmailMessage, error) {
	subject := "Your VidLinkGen premium plan has expired"
	body := fmt.Sprintf(`
		<html>
		<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
			<p>Your <strong>%s</strong> plan has expired. Existing links keep working. Contact support to renew.</p>
		</body>
		</html>
	`, html.EscapeString(tier))

	return c.deliver(ctx, EmailTypePremiumExpired, toEmail, subject, body)
}

func (c *Client) deliver(ctx context.Context, typ EmailType, to, subject, body string) (*EmailMessage, error) {
	message := &EmailMessage{
		Type:      typ,
		Recipient: to,
		Subject:   subject,
		Body:      body,
		Status:    EmailStatusSent,
		SentAt:    time.Now(),
	}
	if !c.IsConfigured() {
		message.Status = EmailStatusSkipped
		return message, nil
	}

	if err := c.sendHTMLEmail(ctx, to, subject, body); err != nil {
		message.Status = EmailStatusFailed
		message.Error = err.Error()
		return message, err
	}
	return message, nil
}

// sendHTMLEmail отправляет HTML email через SES
func (c *Client) sendHTMLEmail(ctx context.Context, toEmail, subject, htmlBody string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: &c.Sender,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data: &subject,
				},
				Body: &types.Body{
					Html: &types.Content{
						Data: &htmlBody,
					},
				},
			},
		},
	}

	_, err := c.SESClient.SendEmail(ctx, input)
	return err
}
