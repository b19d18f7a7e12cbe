package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/pkg/auth"
	"github.com/ypropel/backend/internal/pkg/websocket"
	"github.com/ypropel/backend/internal/testutil/memrepo"
)

type sentMail struct {
	kind, to, token string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *recordingMailer) record(kind, to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{kind: kind, to: to, token: token})
	return nil
}

func (m *recordingMailer) SendWelcomeEmail(toEmail, toName string) error {
	return m.record("welcome", toEmail, "")
}

func (m *recordingMailer) SendPasswordResetEmail(toEmail, toName, resetToken string) error {
	return m.record("reset", toEmail, resetToken)
}

func (m *recordingMailer) SendUnsubscribeConfirmation(toEmail, toName string) error {
	return m.record("unsubscribe", toEmail, "")
}

func (m *recordingMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}
	}
	return m.sent[len(m.sent)-1]
}

type recordingHub struct {
	mu     sync.Mutex
	frames []*websocket.Message
}

func (h *recordingHub) Broadcast(message *websocket.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frames = append(h.frames, message)
}

type fakeGoogle struct {
	profile *auth.GoogleProfile
	err     error
}

func (g *fakeGoogle) Verify(idToken string) (*auth.GoogleProfile, error) {
	return g.profile, g.err
}

type fixture struct {
	store   *memrepo.Store
	svc     *Services
	tokens  *auth.JWTService
	mailer  *recordingMailer
	hub     *recordingHub
	google  *fakeGoogle
	lookups *memrepo.Lookups
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memrepo.NewStore()
	repos := store.Repositories()
	tokens := auth.NewJWTService(auth.JWTConfig{
		SecretKey:            "test-secret",
		UnsubscribeSecretKey: "test-unsubscribe-secret",
		AccessTokenExp:       time.Hour,
		ResetTokenExp:        time.Hour,
		UnsubscribeExp:       time.Hour,
		TokenIssuer:          "ypropel-test",
	})
	f := &fixture{
		store:   store,
		tokens:  tokens,
		mailer:  &recordingMailer{},
		hub:     &recordingHub{},
		google:  &fakeGoogle{},
		lookups: repos.LookupRepository.(*memrepo.Lookups),
	}
	f.svc = NewServices(Dependencies{
		Repos:  repos,
		Tokens: tokens,
		Google: f.google,
		Email:  f.mailer,
		Hub:    f.hub,
		Logger: zerolog.Nop(),
	})
	return f
}

// member creates an account directly through the repository
func (f *fixture) member(t *testing.T, name string) auth.Identity {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	u := &models.User{Name: name, Email: name + "@example.com", PasswordHash: hash}
	require.NoError(t, f.store.Repositories().UserRepository.Create(context.Background(), u))
	return auth.Identity{UserID: u.ID, Email: u.Email}
}
