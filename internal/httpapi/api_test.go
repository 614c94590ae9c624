package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiyun-park/fanchannel-service/internal/channel"
	"github.com/jiyun-park/fanchannel-service/internal/chathub"
	"github.com/jiyun-park/fanchannel-service/internal/domain"
	"github.com/jiyun-park/fanchannel-service/internal/storage/inmemory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	hub := chathub.New()
	svc := channel.New(inmemory.New(), hub)
	handler := NewHandler(svc, NewTokenManager("test-secret"))
	srv := httptest.NewServer(NewRouter(handler, NewChatStream(svc, hub)))
	t.Cleanup(srv.Close)
	return srv
}

// do sends a JSON request and decodes the JSON response into out (when
// out is non-nil), returning the status code.
func do(t *testing.T, srv *httptest.Server, method, path, token string, body, out any) int {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func loginAdmin(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	var out struct {
		Token string `json:"token"`
	}
	status := do(t, srv, http.MethodPost, "/api/login", "", map[string]string{
		"username": "admin", "password": "1234",
	}, &out)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t)

	loginAdmin(t, srv)

	status := do(t, srv, http.MethodPost, "/api/login", "", map[string]string{
		"username": "admin", "password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAdminFeedAuthorization(t *testing.T) {
	srv := newTestServer(t)

	status := do(t, srv, http.MethodPost, "/api/feeds/admin/posts", "", map[string]any{
		"content": "notice",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, status)

	var post domain.Post
	status = do(t, srv, http.MethodPost, "/api/feeds/admin/posts", loginAdmin(t, srv), map[string]any{
		"content": "notice", "pinned": true,
	}, &post)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, domain.AdminName, post.Writer)
	assert.True(t, post.Pinned)
}

func TestFanFeedFlow(t *testing.T) {
	srv := newTestServer(t)

	status := do(t, srv, http.MethodPost, "/api/feeds/fan/posts", "", map[string]any{
		"content": "no writer",
	}, nil)
	require.Equal(t, http.StatusBadRequest, status)

	var post domain.Post
	status = do(t, srv, http.MethodPost, "/api/feeds/fan/posts", "", map[string]any{
		"writer": "nari", "content": "hello",
	}, &post)
	require.Equal(t, http.StatusCreated, status)

	var comment domain.Comment
	path := fmt.Sprintf("/api/feeds/fan/posts/%d/comments", post.ID)
	status = do(t, srv, http.MethodPost, path, "", map[string]string{
		"nickname": "mino", "body": "hi",
	}, &comment)
	require.Equal(t, http.StatusCreated, status)

	var likes struct {
		Likes int `json:"likes"`
	}
	path = fmt.Sprintf("/api/feeds/fan/posts/%d/likes", post.ID)
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, path, "", nil, &likes))
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, path, "", nil, &likes))
	assert.Equal(t, 2, likes.Likes)

	status = do(t, srv, http.MethodPost, "/api/feeds/fan/posts/999/likes", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, status)

	var posts []domain.Post
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/feeds/fan/posts", "", nil, &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, 2, posts[0].Likes)
	require.Len(t, posts[0].Comments, 1)
}

func TestUnknownFeedRejected(t *testing.T) {
	srv := newTestServer(t)

	status := do(t, srv, http.MethodGet, "/api/feeds/vip/posts", "", nil, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestChatEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var msg domain.ChatMessage
	status := do(t, srv, http.MethodPost, "/api/chat", "", map[string]string{
		"nickname": "nari", "message": "hello",
	}, &msg)
	require.Equal(t, http.StatusCreated, status)
	assert.False(t, msg.IsAdmin)

	status = do(t, srv, http.MethodPost, "/api/chat", loginAdmin(t, srv), map[string]string{
		"message": "welcome all",
	}, &msg)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, msg.IsAdmin)
	assert.Equal(t, domain.AdminName, msg.Nickname)

	var msgs []domain.ChatMessage
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/chat", "", nil, &msgs))
	require.Len(t, msgs, 2)
	assert.Equal(t, "welcome all", msgs[0].Message, "newest first")
}

func TestThemeEndpoints(t *testing.T) {
	srv := newTestServer(t)

	status := do(t, srv, http.MethodPut, "/api/theme", "", map[string]string{
		"bg_color": "#111111",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, status)

	var theme domain.ChatTheme
	status = do(t, srv, http.MethodPut, "/api/theme", loginAdmin(t, srv), map[string]string{
		"bg_color": "#111111",
	}, &theme)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "#111111", theme.BGColor)
	assert.Equal(t, "#000000", theme.TextColor)

	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/theme", "", nil, &theme))
	assert.Equal(t, "#111111", theme.BGColor)
}

func TestProfileEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var profile domain.Profile
	status := do(t, srv, http.MethodGet, "/api/profiles/admin", "", nil, &profile)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, profile.Password)

	status = do(t, srv, http.MethodPut, "/api/profile", loginAdmin(t, srv), map[string]string{
		"bio": "updated bio", "profile_url": "https://example.com/x.png",
	}, nil)
	require.Equal(t, http.StatusNoContent, status)

	require.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/profiles/admin", "", nil, &profile))
	assert.Equal(t, "updated bio", profile.Bio)
}

func TestTamperedTokenRejected(t *testing.T) {
	srv := newTestServer(t)

	token := loginAdmin(t, srv) + "x"
	status := do(t, srv, http.MethodPost, "/api/feeds/admin/posts", token, map[string]any{
		"content": "notice",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestChatStream(t *testing.T) {
	srv := newTestServer(t)

	// one message already in the log: the stream replays it on connect
	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/api/chat", "", map[string]string{
		"nickname": "nari", "message": "before connect",
	}, nil))

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chat"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg domain.ChatMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "before connect", msg.Message)

	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/api/chat", "", map[string]string{
		"nickname": "mino", "message": "live one",
	}, nil))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "live one", msg.Message)
}
