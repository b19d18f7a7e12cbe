package email

import (
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokens struct {
	err error
}

func (s stubTokens) GenerateUnsubscribeToken(email string) (string, error) {
	return "tok+" + email, s.err
}

func newTestService(cfg SMTPConfig, tokens UnsubscribeTokenIssuer) (*EmailServiceImpl, *[]Message) {
	sent := &[]Message{}
	svc := NewEmailService(cfg, tokens, zerolog.Nop())
	svc.send = func(_ SMTPConfig, msg Message) error {
		*sent = append(*sent, msg)
		return nil
	}
	return svc, sent
}

func configured() SMTPConfig {
	return SMTPConfig{
		Host: "smtp.example.com", Port: 587, Username: "user", Password: "pass",
		FromName: "YPropel", FromEmail: "no-reply@ypropel.com",
		PublicURL: "https://api.ypropel.com/", FrontendURL: "https://ypropel.com",
	}
}

func TestSendWelcomeEmail_AppendsUnsubscribeFooter(t *testing.T) {
	svc, sent := newTestService(configured(), stubTokens{})

	require.NoError(t, svc.SendWelcomeEmail("ana@example.com", "Ana"))
	require.Len(t, *sent, 1)

	msg := (*sent)[0]
	assert.Equal(t, "ana@example.com", msg.To)
	assert.Contains(t, msg.HTML, "Hello Ana,")
	assert.Contains(t, msg.HTML, "https://api.ypropel.com/auth/unsubscribe?token=tok%2Bana%40example.com")
}

func TestSendPasswordResetEmail_LinksToFrontend(t *testing.T) {
	svc, sent := newTestService(configured(), stubTokens{})

	require.NoError(t, svc.SendPasswordResetEmail("ana@example.com", "Ana", "abc.def"))
	require.Len(t, *sent, 1)
	assert.Contains(t, (*sent)[0].HTML, "https://ypropel.com/reset-password?token=abc.def")
	assert.NotContains(t, (*sent)[0].HTML, "Unsubscribe")
}

func TestSend_EscapesNames(t *testing.T) {
	svc, sent := newTestService(configured(), stubTokens{})

	require.NoError(t, svc.SendUnsubscribeConfirmation("x@example.com", "<script>"))
	assert.NotContains(t, (*sent)[0].HTML, "<script>")
}

func TestSend_WithoutCredentialsOnlyLogs(t *testing.T) {
	cfg := configured()
	cfg.Password = ""
	svc, sent := newTestService(cfg, stubTokens{})

	require.NoError(t, svc.SendWelcomeEmail("ana@example.com", "Ana"))
	assert.Empty(t, *sent)
}

func TestSendWelcomeEmail_TokenFailure(t *testing.T) {
	svc, sent := newTestService(configured(), stubTokens{err: errors.New("no secret")})

	assert.Error(t, svc.SendWelcomeEmail("ana@example.com", "Ana"))
	assert.Empty(t, *sent)
}

func TestBuildMIME(t *testing.T) {
	raw := string(buildMIME(configured(), Message{To: "a@b.c", Subject: "Hi", HTML: "<p>x</p>"}))
	assert.Contains(t, raw, "From: YPropel <no-reply@ypropel.com>\r\n")
	assert.Contains(t, raw, "Subject: Hi\r\n")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\n<p>x</p>"))
}
