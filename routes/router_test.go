package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/yatube/config"
	"github.com/cppla/yatube/utils"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type postJSON struct {
	ID       uint   `json:"id"`
	Text     string `json:"text"`
	Comments []struct {
		Text string `json:"text"`
	} `json:"comments"`
}

type feedJSON struct {
	Items    []postJSON `json:"items"`
	Total    int        `json:"total"`
	NumPages int        `json:"total_pages"`
}

type apiClient struct {
	t *testing.T
	r *gin.Engine
}

func (c apiClient) do(method, path, token string, body interface{}) (int, envelope) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)

	var env envelope
	require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (c apiClient) register(username string) string {
	c.t.Helper()
	status, env := c.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{"username": username, "password": "password1"})
	require.Equal(c.t, http.StatusOK, status, env.Message)
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(c.t, json.Unmarshal(env.Data, &out))
	return out.Token
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func newTestRouter(t *testing.T) apiClient {
	t.Helper()
	cfg := config.AppConfig{
		JWTSecret:          "router-test-secret",
		TokenTTLHours:      1,
		RateLimitPerMinute: 1000,
		GinMode:            "test",
		DBDriver:           "sqlite",
		DatabaseURI:        "file:router_test?mode=memory&cache=shared&_foreign_keys=on",
		LogLevel:           "silent",
		FeedCacheSeconds:   20,
		AdminUsernames:     []string{"admin"},
	}
	db, err := config.OpenDatabase(cfg)
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db, config.Models()...))

	bdb, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	cache := utils.NewBadgerCache(bdb)
	t.Cleanup(func() {
		_ = cache.Close()
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return apiClient{t: t, r: SetupRouter(cfg, db, cache)}
}

func TestRouter(t *testing.T) {
	c := newTestRouter(t)

	status, env := c.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, env.Code)

	admin := c.register("admin")
	leo := c.register("leo")
	ann := c.register("ann")

	t.Run("accounts", func(t *testing.T) {
		status, env := c.do(http.MethodPost, "/api/v1/auth/register", "", gin.H{"username": "leo", "password": "password1"})
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, 40901, env.Code)

		status, _ = c.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "leo", "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, status)

		status, env = c.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "leo", "password": "password1"})
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, string(env.Data), `"token"`)

		status, env = c.do(http.MethodGet, "/api/v1/auth/me", admin, nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, string(env.Data), `"is_admin":true`)
	})

	status, _ = c.do(http.MethodPost, "/api/v1/groups", leo, gin.H{"title": "Cats", "slug": "cats"})
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = c.do(http.MethodPost, "/api/v1/groups", admin, gin.H{"title": "Cats", "slug": "cats"})
	require.Equal(t, http.StatusOK, status)
	status, _ = c.do(http.MethodPost, "/api/v1/groups", admin, gin.H{"title": "Cats again", "slug": "cats"})
	assert.Equal(t, http.StatusConflict, status)

	status, env = c.do(http.MethodGet, "/api/v1/groups", "", nil)
	require.Equal(t, http.StatusOK, status)
	groups := decode[struct {
		Items []struct {
			ID   uint   `json:"id"`
			Slug string `json:"slug"`
		} `json:"items"`
	}](t, env.Data)
	require.Len(t, groups.Items, 1)
	catsID := groups.Items[0].ID

	status, env = c.do(http.MethodPost, "/api/v1/posts", leo, gin.H{"text": "first", "group_id": catsID})
	require.Equal(t, http.StatusOK, status, env.Message)
	first := decode[struct {
		Post postJSON `json:"post"`
	}](t, env.Data).Post

	t.Run("global feed is cached and invalidated", func(t *testing.T) {
		status, env := c.do(http.MethodGet, "/api/v1/posts", "", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Len(t, decode[feedJSON](t, env.Data).Items, 1)

		status, _ = c.do(http.MethodPost, "/api/v1/posts", leo, gin.H{"text": "second"})
		require.Equal(t, http.StatusOK, status)

		_, env = c.do(http.MethodGet, "/api/v1/posts", "", nil)
		feed := decode[feedJSON](t, env.Data)
		require.Len(t, feed.Items, 2)
		assert.Equal(t, "second", feed.Items[0].Text)

		status, _ = c.do(http.MethodPost, "/api/v1/posts", "", gin.H{"text": "anonymous"})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("ownership and validation", func(t *testing.T) {
		status, _ := c.do(http.MethodPut, "/api/v1/posts/"+itoa(first.ID), ann, gin.H{"text": "mine now"})
		assert.Equal(t, http.StatusForbidden, status)

		status, _ = c.do(http.MethodDelete, "/api/v1/posts/"+itoa(first.ID), ann, nil)
		assert.Equal(t, http.StatusForbidden, status)

		status, _ = c.do(http.MethodPut, "/api/v1/posts/9999", leo, gin.H{"text": "ghost"})
		assert.Equal(t, http.StatusNotFound, status)

		status, env := c.do(http.MethodPut, "/api/v1/posts/"+itoa(first.ID), leo, gin.H{"text": "first, edited", "group_id": catsID})
		require.Equal(t, http.StatusOK, status)
		assert.Contains(t, string(env.Data), "first, edited")
	})

	t.Run("comments", func(t *testing.T) {
		status, _ := c.do(http.MethodPost, "/api/v1/posts/"+itoa(first.ID)+"/comments", ann, gin.H{"text": "nice"})
		require.Equal(t, http.StatusOK, status)

		status, _ = c.do(http.MethodPost, "/api/v1/posts/"+itoa(first.ID)+"/comments", ann, gin.H{"text": ""})
		assert.Equal(t, http.StatusBadRequest, status)

		status, _ = c.do(http.MethodPost, "/api/v1/posts/9999/comments", ann, gin.H{"text": "lost"})
		assert.Equal(t, http.StatusNotFound, status)

		status, env := c.do(http.MethodGet, "/api/v1/posts/"+itoa(first.ID), "", nil)
		require.Equal(t, http.StatusOK, status)
		post := decode[struct {
			Post postJSON `json:"post"`
		}](t, env.Data).Post
		require.Len(t, post.Comments, 1)
		assert.Equal(t, "nice", post.Comments[0].Text)
	})

	t.Run("group feed", func(t *testing.T) {
		status, env := c.do(http.MethodGet, "/api/v1/groups/cats/posts", "", nil)
		require.Equal(t, http.StatusOK, status)
		view := decode[struct {
			Posts feedJSON `json:"posts"`
		}](t, env.Data)
		assert.Len(t, view.Posts.Items, 1)

		status, _ = c.do(http.MethodGet, "/api/v1/groups/dogs/posts", "", nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("follow", func(t *testing.T) {
		status, _ := c.do(http.MethodPost, "/api/v1/profiles/leo/follow", ann, nil)
		require.Equal(t, http.StatusOK, status)
		status, _ = c.do(http.MethodPost, "/api/v1/profiles/leo/follow", ann, nil)
		require.Equal(t, http.StatusOK, status)
		status, _ = c.do(http.MethodPost, "/api/v1/profiles/ann/follow", ann, nil)
		assert.Equal(t, http.StatusBadRequest, status)
		status, _ = c.do(http.MethodPost, "/api/v1/profiles/nobody/follow", ann, nil)
		assert.Equal(t, http.StatusNotFound, status)

		_, env := c.do(http.MethodGet, "/api/v1/follow/posts", ann, nil)
		assert.Len(t, decode[feedJSON](t, env.Data).Items, 2)

		_, env = c.do(http.MethodGet, "/api/v1/profiles/leo/posts", ann, nil)
		assert.True(t, decode[struct {
			Following bool `json:"following"`
		}](t, env.Data).Following)

		_, env = c.do(http.MethodGet, "/api/v1/profiles/leo/posts", "", nil)
		profile := decode[struct {
			Posts     feedJSON `json:"posts"`
			Following bool     `json:"following"`
		}](t, env.Data)
		assert.False(t, profile.Following)
		assert.Len(t, profile.Posts.Items, 2)

		status, _ = c.do(http.MethodDelete, "/api/v1/profiles/leo/follow", ann, nil)
		require.Equal(t, http.StatusOK, status)
		_, env = c.do(http.MethodGet, "/api/v1/follow/posts", ann, nil)
		assert.Empty(t, decode[feedJSON](t, env.Data).Items)
	})

	t.Run("logout revokes the token", func(t *testing.T) {
		status, _ := c.do(http.MethodPost, "/api/v1/auth/logout", ann, nil)
		require.Equal(t, http.StatusOK, status)
		status, env := c.do(http.MethodGet, "/api/v1/auth/me", ann, nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, 40104, env.Code)
	})

	t.Run("account deletion removes the author's posts", func(t *testing.T) {
		status, _ := c.do(http.MethodDelete, "/api/v1/users/me", leo, nil)
		require.Equal(t, http.StatusOK, status)

		_, env := c.do(http.MethodGet, "/api/v1/posts", "", nil)
		assert.Empty(t, decode[feedJSON](t, env.Data).Items)

		_, env = c.do(http.MethodGet, "/api/v1/stats", "", nil)
		assert.Contains(t, string(env.Data), `"post_count":0`)
		assert.Contains(t, string(env.Data), `"comment_count":0`)
	})

	status, env = c.do(http.MethodGet, "/api/v1/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, 40400, env.Code)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
