package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// EmailService defines the outbound notifications the API sends
type EmailService interface {
	SendWelcomeEmail(toEmail, toName string) error
	SendPasswordResetEmail(toEmail, toName, resetToken string) error
	SendUnsubscribeConfirmation(toEmail, toName string) error
}

// UnsubscribeTokenIssuer signs the token embedded in every footer
type UnsubscribeTokenIssuer interface {
	GenerateUnsubscribeToken(email string) (string, error)
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
	// PublicURL is the API base used for the unsubscribe link
	PublicURL string
	// FrontendURL is the web app base used for the password reset page
	FrontendURL string
}

// Message is a rendered email ready to be handed to a transport
type Message struct {
	To      string
	Subject string
	HTML    string
}

// sender delivers a rendered message. Swapped out in tests.
type sender func(cfg SMTPConfig, msg Message) error

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	tokens UnsubscribeTokenIssuer
	logger zerolog.Logger
	send   sender
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, tokens UnsubscribeTokenIssuer, logger zerolog.Logger) *EmailServiceImpl {
	return &EmailServiceImpl{
		config: config,
		tokens: tokens,
		logger: logger,
		send:   sendSMTP,
	}
}

var layout = template.Must(template.New("layout").Parse(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #1a3d7c;">{{.Heading}}</h2>
		<p>Hello {{.Name}},</p>
		{{range .Paragraphs}}<p>{{.}}</p>
		{{end}}{{if .ActionURL}}<div style="text-align: center; margin: 30px 0;">
			<a href="{{.ActionURL}}" style="background-color: #1a3d7c; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">{{.ActionLabel}}</a>
		</div>
		{{end}}<p>Best regards,<br>The YPropel Team</p>
		{{if .UnsubscribeURL}}<hr style="border: none; border-top: 1px solid #ddd; margin-top: 30px;">
		<p style="font-size: 12px; color: #888;">You are receiving this email because you have a YPropel account.
			<a href="{{.UnsubscribeURL}}" style="color: #888;">Unsubscribe</a></p>
		{{end}}
	</div>
</body>
</html>`))

type layoutData struct {
	Heading        string
	Name           string
	Paragraphs     []string
	ActionURL      string
	ActionLabel    string
	UnsubscribeURL string
}

// SendWelcomeEmail greets a newly registered member
func (s *EmailServiceImpl) SendWelcomeEmail(toEmail, toName string) error {
	return s.deliver(toEmail, "Welcome to YPropel", layoutData{
		Heading: "Welcome to YPropel!",
		Name:    toName,
		Paragraphs: []string{
			"Your account is ready. Complete your profile, browse open jobs and join a study circle to get started.",
			"Thank you for joining our community!",
		},
	}, true)
}

// SendPasswordResetEmail sends the one hour reset link
func (s *EmailServiceImpl) SendPasswordResetEmail(toEmail, toName, resetToken string) error {
	resetURL := strings.TrimRight(s.config.FrontendURL, "/") + "/reset-password?token=" + url.QueryEscape(resetToken)
	return s.deliver(toEmail, "Reset your YPropel password", layoutData{
		Heading: "Password reset",
		Name:    toName,
		Paragraphs: []string{
			"We received a request to reset your password. The link below is valid for one hour.",
			"If you did not ask for a new password you can ignore this email.",
		},
		ActionURL:   resetURL,
		ActionLabel: "Reset password",
	}, false)
}

// SendUnsubscribeConfirmation tells the member their unsubscribe went through
func (s *EmailServiceImpl) SendUnsubscribeConfirmation(toEmail, toName string) error {
	return s.deliver(toEmail, "You have been unsubscribed", layoutData{
		Heading: "Unsubscribed",
		Name:    toName,
		Paragraphs: []string{
			"You will no longer receive newsletters and notifications from YPropel.",
			"Account emails such as password resets are still delivered.",
		},
	}, false)
}

// render builds the message without sending it
func (s *EmailServiceImpl) render(toEmail, subject string, data layoutData, withFooter bool) (Message, error) {
	if withFooter {
		link, err := s.UnsubscribeURL(toEmail)
		if err != nil {
			return Message{}, err
		}
		data.UnsubscribeURL = link
	}

	var body bytes.Buffer
	if err := layout.Execute(&body, data); err != nil {
		return Message{}, fmt.Errorf("render email: %w", err)
	}
	return Message{To: toEmail, Subject: subject, HTML: body.String()}, nil
}

// UnsubscribeURL returns the signed footer link for email
func (s *EmailServiceImpl) UnsubscribeURL(toEmail string) (string, error) {
	token, err := s.tokens.GenerateUnsubscribeToken(toEmail)
	if err != nil {
		return "", fmt.Errorf("sign unsubscribe token: %w", err)
	}
	return strings.TrimRight(s.config.PublicURL, "/") + "/auth/unsubscribe?token=" + url.QueryEscape(token), nil
}

func (s *EmailServiceImpl) deliver(toEmail, subject string, data layoutData, withFooter bool) error {
	msg, err := s.render(toEmail, subject, data, withFooter)
	if err != nil {
		return err
	}

	// Without credentials log the email instead (development only)
	if s.config.Username == "" || s.config.Password == "" {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("subject", subject).
			Str("unsubscribeURL", data.UnsubscribeURL).
			Msg("SMTP credentials not configured - email not sent.")
		return nil
	}

	if err := s.send(s.config, msg); err != nil {
		s.logger.Error().Err(err).Str("toEmail", toEmail).Str("subject", subject).Msg("Failed to send email")
		return err
	}
	s.logger.Info().Str("toEmail", toEmail).Str("subject", subject).Msg("Email sent")
	return nil
}

func buildMIME(cfg SMTPConfig, msg Message) []byte {
	headers := map[string]string{
		"From":         fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail),
		"To":           msg.To,
		"Subject":      msg.Subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\r\n", k, headers[k])
	}
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}

func sendSMTP(cfg SMTPConfig, msg Message) error {
	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	serverAddress := cfg.Host + ":" + strconv.Itoa(cfg.Port)
	raw := buildMIME(cfg, msg)

	if !cfg.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, cfg.FromEmail, []string{msg.To}, raw); err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: cfg.Host})
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(cfg.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(raw); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}
