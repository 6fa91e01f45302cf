package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer builds a full server over an in-memory database and returns
// its base URL. Each call is an isolated instance.
func newTestServer(t *testing.T) string {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	srv, err := New(Config{
		Port:          0,
		DBPath:        ":memory:",
		SessionSecret: "test-secret-long-enough-to-sign",
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

// client is one browser-like session: a cookie jar keeps it logged in
// across requests.
type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newClient(t *testing.T, base string) *client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, base: base, http: &http.Client{Jar: jar}}
}

// do sends a request with an optional JSON body and decodes the response
// into out when out is non-nil.
func (c *client) do(method, path string, body, out interface{}) *http.Response {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(c.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

// register creates an account and returns its id. The session cookie lands
// in the client's jar, so the client is logged in afterwards.
func (c *client) register(alias string) string {
	c.t.Helper()

	var user struct {
		ID string `json:"id"`
	}
	resp := c.do(http.MethodPost, "/api/register", map[string]string{
		"name":         alias,
		"alias":        alias,
		"email":        alias + "@example.com",
		"password":     "longenough1",
		"confirmation": "longenough1",
	}, &user)
	require.Equal(c.t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(c.t, user.ID)
	return user.ID
}

func feedMessages(t *testing.T, c *client) []string {
	t.Helper()

	var feed []struct {
		Message string `json:"message"`
	}
	resp := c.do(http.MethodGet, "/api/feed", nil, &feed)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := make([]string, len(feed))
	for n, idea := range feed {
		result[n] = idea.Message
	}
	return result
}

func TestRegisterLoginAndMe(t *testing.T) {
	base := newTestServer(t)
	c := newClient(t, base)

	userID := c.register("solo")

	// Registration logs the user in.
	var me struct {
		ID    string `json:"id"`
		Alias string `json:"alias"`
	}
	resp := c.do(http.MethodGet, "/api/me", nil, &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, userID, me.ID)
	assert.Equal(t, "solo", me.Alias)

	// Logout drops the session.
	resp = c.do(http.MethodPost, "/api/logout", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = c.do(http.MethodGet, "/api/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Log back in with the same credentials.
	resp = c.do(http.MethodPost, "/api/login", map[string]string{
		"email":    "solo@example.com",
		"password": "longenough1",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = c.do(http.MethodGet, "/api/me", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	base := newTestServer(t)
	c := newClient(t, base)
	c.register("solo")
	c.do(http.MethodPost, "/api/logout", nil, nil)

	cases := []map[string]string{
		{"email": "solo@example.com", "password": "wrong-password"},
		{"email": "nobody@example.com", "password": "longenough1"},
	}

	var bodies []string
	for _, creds := range cases {
		var errResp struct {
			Message string `json:"message"`
		}
		resp := c.do(http.MethodPost, "/api/login", creds, &errResp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		bodies = append(bodies, errResp.Message)
	}

	// Wrong password and unknown email must be indistinguishable.
	assert.Equal(t, bodies[0], bodies[1])
}

func TestRegisterReportsAllViolations(t *testing.T) {
	base := newTestServer(t)
	c := newClient(t, base)

	var errResp struct {
		Error    string   `json:"error"`
		Messages []string `json:"messages"`
	}
	resp := c.do(http.MethodPost, "/api/register", map[string]string{
		"name":         "Al",
		"alias":        "ok-alias",
		"email":        "not-an-email",
		"password":     "longenough1",
		"confirmation": "longenough1",
	}, &errResp)

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation_error", errResp.Error)
	assert.Equal(t, []string{"name is not long enough", "invalid email"}, errResp.Messages)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	base := newTestServer(t)
	c := newClient(t, base)

	for _, path := range []string{"/api/me", "/api/feed", "/api/users"} {
		resp := c.do(http.MethodGet, path, nil, nil)
		assert.Equalf(t, http.StatusUnauthorized, resp.StatusCode, "GET %s without a session", path)
	}
}

func TestFeedFollowsTheGraph(t *testing.T) {
	base := newTestServer(t)

	alice := newClient(t, base)
	alice.register("alice")

	bob := newClient(t, base)
	bobID := bob.register("bob")

	// Alice posts; her own idea is in her feed.
	resp := alice.do(http.MethodPost, "/api/ideas", map[string]string{"message": "hello world"}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, []string{"hello world"}, feedMessages(t, alice))

	// Bob's post is invisible to alice until she follows him.
	resp = bob.do(http.MethodPost, "/api/ideas", map[string]string{"message": "hi from bob"}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, []string{"hello world"}, feedMessages(t, alice))

	resp = alice.do(http.MethodPost, "/api/users/"+bobID+"/follow", nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, []string{"hi from bob", "hello world"}, feedMessages(t, alice))

	// Unfollow hides bob again.
	resp = alice.do(http.MethodDelete, "/api/users/"+bobID+"/follow", nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, []string{"hello world"}, feedMessages(t, alice))
}

func TestSelfFollowRejected(t *testing.T) {
	base := newTestServer(t)
	c := newClient(t, base)
	userID := c.register("narcissus")

	resp := c.do(http.MethodPost, "/api/users/"+userID+"/follow", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLikeLifecycle(t *testing.T) {
	base := newTestServer(t)

	alice := newClient(t, base)
	alice.register("alice")
	bob := newClient(t, base)
	bob.register("bob")

	var idea struct {
		ID string `json:"id"`
	}
	resp := alice.do(http.MethodPost, "/api/ideas", map[string]string{"message": "like me"}, &idea)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Like twice: idempotent, the count stays at one.
	for range [2]struct{}{} {
		resp = bob.do(http.MethodPost, "/api/ideas/"+idea.ID+"/like", nil, nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	}

	var got struct {
		LikeCount int64 `json:"likeCount"`
		Liked     bool  `json:"liked"`
	}
	resp = bob.do(http.MethodGet, "/api/ideas/"+idea.ID, nil, &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(1), got.LikeCount)
	assert.True(t, got.Liked)

	resp = bob.do(http.MethodDelete, "/api/ideas/"+idea.ID+"/like", nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = bob.do(http.MethodGet, "/api/ideas/"+idea.ID, nil, &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(0), got.LikeCount)
	assert.False(t, got.Liked)
}

func TestIdeaAuthorOnlyEditing(t *testing.T) {
	base := newTestServer(t)

	alice := newClient(t, base)
	alice.register("alice")
	bob := newClient(t, base)
	bob.register("bob")

	var idea struct {
		ID string `json:"id"`
	}
	resp := alice.do(http.MethodPost, "/api/ideas", map[string]string{"message": "original"}, &idea)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = bob.do(http.MethodPut, "/api/ideas/"+idea.ID, map[string]string{"message": "hijacked"}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = bob.do(http.MethodDelete, "/api/ideas/"+idea.ID, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = alice.do(http.MethodPut, "/api/ideas/"+idea.ID, map[string]string{"message": "edited"}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = alice.do(http.MethodDelete, "/api/ideas/"+idea.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = alice.do(http.MethodGet, "/api/ideas/"+idea.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProfileShowsFollowState(t *testing.T) {
	base := newTestServer(t)

	alice := newClient(t, base)
	alice.register("alice")
	bob := newClient(t, base)
	bobID := bob.register("bob")

	var profile struct {
		User struct {
			ID    string `json:"id"`
			Alias string `json:"alias"`
		} `json:"user"`
		Following bool `json:"following"`
	}
	resp := alice.do(http.MethodGet, fmt.Sprintf("/api/users/%s/profile", bobID), nil, &profile)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, bobID, profile.User.ID)
	assert.False(t, profile.Following)

	resp = alice.do(http.MethodPost, "/api/users/"+bobID+"/follow", nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = alice.do(http.MethodGet, fmt.Sprintf("/api/users/%s/profile", bobID), nil, &profile)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, profile.Following)
}

func TestFollowerListings(t *testing.T) {
	base := newTestServer(t)

	alice := newClient(t, base)
	aliceID := alice.register("alice")
	bob := newClient(t, base)
	bobID := bob.register("bob")

	resp := alice.do(http.MethodPost, "/api/users/"+bobID+"/follow", nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var users []struct {
		ID string `json:"id"`
	}
	resp = alice.do(http.MethodGet, "/api/users/"+bobID+"/followers", nil, &users)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, users, 1)
	assert.Equal(t, aliceID, users[0].ID)

	users = nil
	resp = alice.do(http.MethodGet, "/api/users/"+aliceID+"/following", nil, &users)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, users, 1)
	assert.Equal(t, bobID, users[0].ID)
}
