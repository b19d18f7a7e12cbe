package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/middleware"
	"github.com/ypropel/backend/internal/pkg/apperrors"
	"github.com/ypropel/backend/internal/pkg/auth"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	go hub.Run()
	t.Cleanup(hub.Close)
	return hub
}

func receiveFrame(t *testing.T, ch <-chan []byte) Message {
	t.Helper()
	select {
	case data := <-ch:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no frame received")
		return Message{}
	}
}

func TestHub_BroadcastStaysInsideRoom(t *testing.T) {
	hub := startHub(t)

	inRoom := &Client{hub: hub, send: make(chan []byte, 4), userID: 1, circleID: 10}
	otherRoom := &Client{hub: hub, send: make(chan []byte, 4), userID: 2, circleID: 11}
	hub.register <- inRoom
	hub.register <- otherRoom

	hub.Broadcast(&Message{Type: MessageTypeChat, CircleID: 10, SenderID: 1, Content: "hi"})

	msg := receiveFrame(t, inRoom.send)
	assert.Equal(t, "hi", msg.Content)
	assert.Equal(t, int64(10), msg.CircleID)

	select {
	case <-otherRoom.send:
		t.Fatal("frame leaked into another circle")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, 1, hub.ClientsCount(10))
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := startHub(t)
	client := &Client{hub: hub, send: make(chan []byte, 1), userID: 1, circleID: 3}
	hub.register <- client
	hub.unregister <- client

	_, open := <-client.send
	assert.False(t, open)
	assert.Equal(t, 0, hub.ClientsCount(3))
}

type fakeStore struct {
	mu    sync.Mutex
	saved []string
}

func (s *fakeStore) CreateMessage(_ context.Context, circleID, userID int64, content string) (*models.CircleMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, content)
	return &models.CircleMessage{ID: int64(len(s.saved)), CircleID: circleID, UserID: userID, Content: content, CreatedAt: time.Now()}, nil
}

func TestMessageHandler_PersistsBeforeBroadcast(t *testing.T) {
	hub := startHub(t)
	store := &fakeStore{}
	NewMessageHandler(store, hub, zerolog.Nop()).Start()

	client := &Client{hub: hub, send: make(chan []byte, 4), userID: 5, circleID: 7}
	hub.register <- client

	hub.receive(&Message{Type: MessageTypeChat, CircleID: 7, SenderID: 5, Content: "saved line"})

	msg := receiveFrame(t, client.send)
	assert.Equal(t, int64(1), msg.ID)
	assert.Equal(t, "saved line", msg.Content)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, []string{"saved line"}, store.saved)
}

type fakeMembers map[int64]bool

func (m fakeMembers) IsMember(_ context.Context, circleID, userID int64) (bool, error) {
	if circleID == 404 {
		return false, apperrors.NewResourceNotFoundError("Study circle not found")
	}
	return m[userID], nil
}

type staticTokens map[string]auth.Identity

func (s staticTokens) ValidateAccessToken(token string) (auth.Identity, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return auth.Identity{}, auth.ErrInvalidToken
}

func newTestRouter(hub *Hub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	authMW := middleware.NewAuthMiddleware(staticTokens{
		"member":   {UserID: 1},
		"outsider": {UserID: 2},
	})
	handler := NewHandler(hub, fakeMembers{1: true}, nil, zerolog.Nop())

	r := gin.New()
	r.GET("/study-circles/:id/ws", authMW.JWTAuth(), handler.HandleConnection)
	return r
}

func TestHandleConnection_RejectsNonMembers(t *testing.T) {
	r := newTestRouter(startHub(t))

	cases := []struct {
		path   string
		status int
	}{
		{"/study-circles/1/ws?token=outsider", http.StatusForbidden},
		{"/study-circles/404/ws?token=member", http.StatusNotFound},
		{"/study-circles/abc/ws?token=member", http.StatusBadRequest},
		{"/study-circles/1/ws", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		req.Header.Set("Connection", "Upgrade")
		req.Header.Set("Upgrade", "websocket")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.status, w.Code, tc.path)
	}
}

func TestHandleConnection_MemberChatsOverSocket(t *testing.T) {
	hub := startHub(t)
	store := &fakeStore{}
	NewMessageHandler(store, hub, zerolog.Nop()).Start()

	srv := httptest.NewServer(newTestRouter(hub))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/study-circles/1/ws?token=member"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientsCount(1) == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(map[string]string{"content": "  hello circle  "}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "hello circle", msg.Content)
	assert.Equal(t, int64(1), msg.SenderID)
	assert.Equal(t, int64(1), msg.CircleID)
	assert.NotZero(t, msg.ID)
}
