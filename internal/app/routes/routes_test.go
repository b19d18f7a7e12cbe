package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/app/routes"
	"github.com/ypropel/backend/internal/app/services"
	"github.com/ypropel/backend/internal/bootstrap"
	"github.com/ypropel/backend/internal/middleware"
	"github.com/ypropel/backend/internal/pkg/auth"
	"github.com/ypropel/backend/internal/pkg/filestorage"
	"github.com/ypropel/backend/internal/pkg/ratelimit"
	"github.com/ypropel/backend/internal/testutil/memrepo"
)

type testAPI struct {
	router *gin.Engine
	store  *memrepo.Store
	tokens *auth.JWTService
}

func newTestAPI(t *testing.T, signinBudget int) *testAPI {
	t.Helper()
	store := memrepo.NewStore()
	tokens := auth.NewJWTService(auth.JWTConfig{
		SecretKey:            "router-secret",
		UnsubscribeSecretKey: "router-unsubscribe-secret",
		AccessTokenExp:       time.Hour,
		ResetTokenExp:        time.Hour,
		UnsubscribeExp:       time.Hour,
		TokenIssuer:          "ypropel-test",
	})
	media, err := filestorage.NewLocalStorage(t.TempDir(), "http://localhost:4000/uploads", 800)
	require.NoError(t, err)
	svc := services.NewServices(services.Dependencies{
		Repos:  store.Repositories(),
		Tokens: tokens,
		Media:  media,
		Logger: zerolog.Nop(),
	})

	router := bootstrap.NewEngine("test", []string{"http://localhost:3000"}, zerolog.Nop())
	limiter := ratelimit.New(ratelimit.NewMemoryStore(), signinBudget, time.Minute)
	t.Cleanup(func() { _ = limiter.Close() })

	routes.SetupRouter(router, bootstrap.BuildHandlers(svc, zerolog.Nop()), middleware.NewAuthMiddleware(tokens), limiter)
	return &testAPI{router: router, store: store, tokens: tokens}
}

// member creates an account and returns a bearer token for it
func (a *testAPI) member(t *testing.T, name string, admin bool) (int64, string) {
	t.Helper()
	ctx := context.Background()
	users := a.store.Repositories().UserRepository

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	u := &models.User{Name: name, Email: name + "@example.com", PasswordHash: hash}
	require.NoError(t, users.Create(ctx, u))
	if admin {
		require.NoError(t, users.SetAdmin(ctx, u.ID, true))
	}

	token, err := a.tokens.GenerateAccessToken(auth.Identity{UserID: u.ID, Email: u.Email, IsAdmin: admin})
	require.NoError(t, err)
	return u.ID, token
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// upload posts a single file as multipart form data
func (a *testAPI) upload(t *testing.T, path, token, field, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func idOf(t *testing.T, w *httptest.ResponseRecorder) int64 {
	t.Helper()
	return int64(decode[map[string]any](t, w)["id"].(float64))
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestAuthenticationGate(t *testing.T) {
	api := newTestAPI(t, 10)

	w := api.do(t, http.MethodGet, "/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", decode[map[string]string](t, w)["error"])

	w = api.do(t, http.MethodGet, "/users/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Public routes stay reachable anonymously
	w = api.do(t, http.MethodGet, "/jobs", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	api := newTestAPI(t, 10)
	_, memberToken := api.member(t, "member", false)
	_, adminToken := api.member(t, "boss", true)

	w := api.do(t, http.MethodGet, "/admin/users", memberToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, middleware.AdminRequiredMessage, decode[map[string]string](t, w)["error"])

	w = api.do(t, http.MethodGet, "/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[struct {
		Items []map[string]any `json:"items"`
	}](t, w)
	assert.Len(t, page.Items, 2)
}

func TestSignupSigninAndProfile(t *testing.T) {
	api := newTestAPI(t, 10)

	w := api.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodPost, "/auth/signin", "", map[string]string{
		"email": "ada@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(t, http.MethodPost, "/auth/signin", "", map[string]string{
		"email": "ada@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[struct {
		Token string `json:"token"`
	}](t, w).Token
	require.NotEmpty(t, token)

	w = api.do(t, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[map[string]any](t, w)
	assert.Equal(t, "ada@example.com", me["email"])
	assert.NotContains(t, me, "password_hash")
}

func TestSignupValidation(t *testing.T) {
	api := newTestAPI(t, 10)

	w := api.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"name": "   ", "email": "ada@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"name": "Ada", "email": "not-an-email", "password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSigninIsRateLimited(t *testing.T) {
	api := newTestAPI(t, 2)
	creds := map[string]string{"email": "nobody@example.com", "password": "password123"}

	for i := 0; i < 2; i++ {
		w := api.do(t, http.MethodPost, "/auth/signin", "", creds)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := api.do(t, http.MethodPost, "/auth/signin", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestPostLikeToggleAndEmptyUpdate(t *testing.T) {
	api := newTestAPI(t, 10)
	_, token := api.member(t, "poster", false)

	w := api.do(t, http.MethodPost, "/posts", token, map[string]string{"content": "hello world"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	postID := int64(decode[map[string]any](t, w)["id"].(float64))
	likePath := fmt.Sprintf("/posts/%d/like", postID)

	w = api.do(t, http.MethodPost, likePath, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]bool](t, w)["liked"])

	w = api.do(t, http.MethodPost, likePath, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode[map[string]bool](t, w)["liked"])

	postPath := fmt.Sprintf("/posts/%d", postID)
	w = api.do(t, http.MethodPut, postPath, token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPut, postPath, token, map[string]any{"user_id": 99})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPut, postPath, token, map[string]any{"content": "edited"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "edited", decode[map[string]any](t, w)["content"])
}

func TestPostOwnershipAndShare(t *testing.T) {
	api := newTestAPI(t, 10)
	_, owner := api.member(t, "owner", false)
	_, other := api.member(t, "other", false)

	w := api.do(t, http.MethodPost, "/posts", owner, map[string]string{"content": "mine"})
	require.Equal(t, http.StatusCreated, w.Code)
	postID := int64(decode[map[string]any](t, w)["id"].(float64))

	w = api.do(t, http.MethodDelete, fmt.Sprintf("/posts/%d", postID), other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	sharePath := fmt.Sprintf("/posts/%d/share", postID)
	w = api.do(t, http.MethodPost, sharePath, other, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, float64(1), decode[map[string]any](t, w)["shareCount"])

	w = api.do(t, http.MethodPost, sharePath, other, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodDelete, fmt.Sprintf("/posts/%d", postID), owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, fmt.Sprintf("/posts/%d", postID), owner, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStudyCircleDeleteIsCreatorOnly(t *testing.T) {
	api := newTestAPI(t, 10)
	_, creator := api.member(t, "creator", false)
	_, stranger := api.member(t, "stranger", false)

	w := api.do(t, http.MethodPost, "/study-circles", creator, map[string]any{"name": "Algorithms"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	circleID := int64(decode[map[string]any](t, w)["id"].(float64))
	circlePath := fmt.Sprintf("/study-circles/%d", circleID)

	w = api.do(t, http.MethodDelete, circlePath, stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodDelete, circlePath, creator, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/study-circles", creator, nil)
	require.Equal(t, http.StatusOK, w.Code)
	for _, c := range decode[[]map[string]any](t, w) {
		assert.NotEqual(t, float64(circleID), c["id"])
	}
}

func TestMessagingRules(t *testing.T) {
	api := newTestAPI(t, 10)
	aliceID, alice := api.member(t, "alice", false)
	bobID, bob := api.member(t, "bob", false)

	w := api.do(t, http.MethodPost, "/messages", alice, map[string]any{"receiverId": aliceID, "content": "me"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/messages", alice, map[string]any{"receiverId": 9999, "content": "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodPost, "/messages", alice, map[string]any{"receiverId": bobID, "content": "hi bob"})
	require.Equal(t, http.StatusCreated, w.Code)
	messageID := int64(decode[map[string]any](t, w)["id"].(float64))

	w = api.do(t, http.MethodGet, "/messages/unread-count", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[map[string]int](t, w)["unread"])

	w = api.do(t, http.MethodPut, fmt.Sprintf("/messages/%d/read", messageID), alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodGet, fmt.Sprintf("/messages/with/%d?markRead=true", aliceID), bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	w = api.do(t, http.MethodGet, "/messages/unread-count", bob, nil)
	assert.Equal(t, 0, decode[map[string]int](t, w)["unread"])
}

func TestInvalidPathIDs(t *testing.T) {
	api := newTestAPI(t, 10)
	_, token := api.member(t, "someone", false)

	w := api.do(t, http.MethodGet, "/posts/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid post ID", decode[map[string]string](t, w)["error"])

	w = api.do(t, http.MethodPost, "/study-circles/0/join", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostEditIsOwnerOnlyEvenForAdmins(t *testing.T) {
	api := newTestAPI(t, 10)
	_, owner := api.member(t, "owner", false)
	_, admin := api.member(t, "boss", true)

	w := api.do(t, http.MethodPost, "/posts", owner, map[string]string{"content": "original"})
	require.Equal(t, http.StatusCreated, w.Code)
	postPath := fmt.Sprintf("/posts/%d", idOf(t, w))

	w = api.do(t, http.MethodPut, postPath, admin, map[string]any{"content": "moderated"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodGet, postPath, owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "original", decode[map[string]any](t, w)["content"])
}

func TestFreelanceModeration(t *testing.T) {
	api := newTestAPI(t, 10)
	_, owner := api.member(t, "owner", false)
	_, stranger := api.member(t, "stranger", false)
	_, admin := api.member(t, "boss", true)

	w := api.do(t, http.MethodPost, "/freelance-services", owner, map[string]any{
		"title": "Resume review", "description": "Two rounds of edits",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	listingPath := fmt.Sprintf("/freelance-services/%d", idOf(t, w))

	w = api.do(t, http.MethodPut, listingPath, stranger, map[string]any{"title": "Taken"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = api.do(t, http.MethodDelete, listingPath, stranger, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodPut, listingPath, admin, map[string]any{"title": "Resume review (verified)"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Resume review (verified)", decode[map[string]any](t, w)["title"])

	w = api.do(t, http.MethodDelete, listingPath, admin, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, listingPath, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDiscussionTogglesAndCascade(t *testing.T) {
	api := newTestAPI(t, 10)
	_, owner := api.member(t, "owner", false)
	_, reader := api.member(t, "reader", false)

	w := api.do(t, http.MethodPost, "/discussion_topics", owner, map[string]any{
		"title": "Graduate school", "content": "Masters or straight to work?",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	topicPath := fmt.Sprintf("/discussion_topics/%d", idOf(t, w))

	toggles := []struct {
		action string
		key    string
	}{
		{"upvote", "upvoted"},
		{"like", "liked"},
		{"follow", "followed"},
	}
	for _, tc := range toggles {
		for _, want := range []bool{true, false, true} {
			w = api.do(t, http.MethodPost, topicPath+"/"+tc.action, reader, nil)
			require.Equal(t, http.StatusOK, w.Code, tc.action)
			assert.Equal(t, want, decode[map[string]bool](t, w)[tc.key], tc.action)
		}
	}

	w = api.do(t, http.MethodPost, topicPath+"/comments", reader, map[string]string{"content": "Work first"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	comment := decode[map[string]any](t, w)
	require.NotNil(t, comment["author"])
	assert.Equal(t, "reader", comment["author"].(map[string]any)["name"])

	w = api.do(t, http.MethodGet, topicPath, reader, nil)
	require.Equal(t, http.StatusOK, w.Code)
	topic := decode[map[string]any](t, w)
	assert.Equal(t, float64(1), topic["upvote_count"])
	assert.Equal(t, float64(1), topic["like_count"])
	assert.Equal(t, float64(1), topic["follow_count"])
	assert.Equal(t, float64(1), topic["comment_count"])
	assert.Equal(t, true, topic["upvoted"])

	w = api.do(t, http.MethodDelete, topicPath, reader, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = api.do(t, http.MethodDelete, topicPath, owner, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, topicPath+"/comments", reader, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = api.do(t, http.MethodPost, topicPath+"/upvote", reader, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVideoShareCountsEveryCall(t *testing.T) {
	api := newTestAPI(t, 10)
	ownerID, _ := api.member(t, "owner", false)
	_, viewer := api.member(t, "viewer", false)

	video := &models.Video{UserID: ownerID, Title: "Campus tour", VideoURL: "http://localhost:4000/uploads/videos/tour.mp4"}
	require.NoError(t, api.store.Repositories().VideoRepository.Create(context.Background(), video))
	sharePath := fmt.Sprintf("/api/videos/%d/share", video.ID)

	for want := 1; want <= 2; want++ {
		w := api.do(t, http.MethodPost, sharePath, viewer, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, want, decode[map[string]int](t, w)["shareCount"])
	}

	w := api.do(t, http.MethodPost, fmt.Sprintf("/api/videos/%d/share", video.ID+100), viewer, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResumeUploadTracksProfile(t *testing.T) {
	api := newTestAPI(t, 10)
	_, token := api.member(t, "applicant", false)
	_, other := api.member(t, "other", false)

	w := api.upload(t, "/members/resumes", token, "resume", "cv.exe", []byte("MZ"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.upload(t, "/members/resumes", token, "resume", "cv.pdf", []byte("%PDF-1.4 test"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resume := decode[map[string]any](t, w)
	fileURL := resume["file_url"].(string)
	assert.Equal(t, "cv.pdf", resume["file_name"])
	resumePath := fmt.Sprintf("/members/resumes/%d", int64(resume["id"].(float64)))

	w = api.do(t, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, fileURL, decode[map[string]any](t, w)["resume_url"])

	w = api.do(t, http.MethodDelete, resumePath, other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodDelete, resumePath, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[map[string]any](t, w)["resume_url"])

	w = api.do(t, http.MethodGet, "/members/resumes", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]map[string]any](t, w))
}

func TestArticleLike(t *testing.T) {
	api := newTestAPI(t, 10)
	_, admin := api.member(t, "editor", true)
	_, reader := api.member(t, "reader", false)

	w := api.do(t, http.MethodPost, "/admin/articles", reader, map[string]string{"title": "Nope", "content": "Nope"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodPost, "/admin/articles", admin, map[string]string{
		"title": "Writing a cover letter", "content": "Start with the role.",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	articlePath := fmt.Sprintf("/articles/%d", idOf(t, w))

	w = api.do(t, http.MethodPost, articlePath+"/like", reader, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]bool](t, w)["liked"])

	w = api.do(t, http.MethodGet, articlePath, reader, nil)
	require.Equal(t, http.StatusOK, w.Code)
	article := decode[map[string]any](t, w)
	assert.Equal(t, float64(1), article["like_count"])
	assert.Equal(t, true, article["liked"])

	w = api.do(t, http.MethodGet, articlePath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode[map[string]any](t, w)["liked"])
}

func TestContentAdminWrites(t *testing.T) {
	api := newTestAPI(t, 10)
	_, admin := api.member(t, "editor", true)

	w := api.do(t, http.MethodPost, "/admin/news", admin, map[string]any{"summary": "No headline"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "title is required", decode[map[string]string](t, w)["error"])

	w = api.do(t, http.MethodPost, "/admin/news", admin, map[string]any{"title": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/admin/news", admin, map[string]any{"title": "Fall fair dates", "rogue": "dropped"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[map[string]any](t, w)
	assert.NotContains(t, created, "rogue")
	newsPath := fmt.Sprintf("/admin/news/%d", int64(created["id"].(float64)))

	w = api.do(t, http.MethodPut, newsPath, admin, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPut, newsPath, admin, map[string]any{"title": map[string]any{"en": "nested"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPut, newsPath, admin, map[string]any{"title": "Fall fair dates announced"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Fall fair dates announced", decode[map[string]any](t, w)["title"])

	w = api.do(t, http.MethodGet, "/news", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[struct {
		Items []map[string]any `json:"items"`
	}](t, w)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Fall fair dates announced", page.Items[0]["title"])
}

func TestAdminUserManagement(t *testing.T) {
	api := newTestAPI(t, 10)
	adminID, admin := api.member(t, "boss", true)
	memberID, _ := api.member(t, "member", false)

	w := api.do(t, http.MethodPut, fmt.Sprintf("/admin/users/%d/admin", adminID), admin, map[string]any{"isAdmin": false})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPut, fmt.Sprintf("/admin/users/%d/admin", memberID), admin, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPut, fmt.Sprintf("/admin/users/%d/admin", memberID), admin, map[string]any{"isAdmin": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	promoted, err := api.store.Repositories().UserRepository.GetByID(context.Background(), memberID)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin)

	w = api.do(t, http.MethodPut, "/admin/users/9999/admin", admin, map[string]any{"isAdmin": true})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodDelete, fmt.Sprintf("/admin/users/%d", adminID), admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodDelete, fmt.Sprintf("/admin/users/%d", memberID), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = api.do(t, http.MethodDelete, fmt.Sprintf("/admin/users/%d", memberID), admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodGet, "/admin/stats", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode[map[string]int64](t, w)["users"])
}
