package oce

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ocesync/internal/core/domain"
	"github.com/custodia-labs/ocesync/internal/core/ports/driven"
)

// stubTokens is a TokenProvider returning a fixed value.
type stubTokens struct {
	value string
	err   error
}

func (s stubTokens) GetToken(context.Context) (string, error) { return s.value, s.err }
func (s stubTokens) AuthMethod() domain.AuthMethod           { return domain.AuthMethodStatic }

func newTestClient(t *testing.T, handler http.HandlerFunc, tokens driven.TokenProvider, preview bool) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		ContentServer: srv.URL,
		ChannelToken:  "chan-1",
		Preview:       preview,
		UserAgent:     "ocesync/test",
	}, srv.Client(), tokens)
}

func TestClient_ListItems_Scroll(t *testing.T) {
	var got *http.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = io.WriteString(w, `{"count":1,"scrollId":"scroll+1","items":[{"id":"A","type":"Blog-Post"}]}`)
	}, nil, false)

	page, err := c.ListItems(context.Background(), driven.ListRequest{
		Protocol: domain.PaginationScroll,
		Limit:    50,
		Query:    domain.DefaultScrollQuery,
		ScrollID: "prev/token",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, page.Count)
	assert.Equal(t, "scroll+1", page.ScrollID)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "A", page.Items[0]["id"])

	require.NotNil(t, got)
	assert.Equal(t, "/content/published/api/v1.1/items", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "50", q.Get("limit"))
	assert.Equal(t, "true", q.Get("scroll"))
	assert.Equal(t, "id:asc", q.Get("orderBy"))
	assert.Equal(t, "chan-1", q.Get("channelToken"))
	assert.Equal(t, `(name ne ".*")`, q.Get("q"))
	assert.Equal(t, "prev/token", q.Get("scrollId"))
	assert.Empty(t, q.Get("offset"))
	assert.Equal(t, "*/*", got.Header.Get("Accept"))
	assert.Equal(t, "ocesync/test", got.Header.Get("User-Agent"))
	assert.Empty(t, got.Header.Get("Authorization"))
}

func TestClient_ListItems_Offset(t *testing.T) {
	var got *http.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = io.WriteString(w, `{"hasMore":true,"totalResults":25,"items":[{"id":"A"}]}`)
	}, nil, true)

	page, err := c.ListItems(context.Background(), driven.ListRequest{
		Protocol: domain.PaginationOffset,
		Limit:    10,
		Offset:   20,
	})
	require.NoError(t, err)

	assert.True(t, page.HasMore)
	assert.Equal(t, 25, page.TotalResults)

	assert.Equal(t, "/content/preview/api/v1.1/items", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "20", q.Get("offset"))
	assert.Equal(t, "true", q.Get("totalResults"))
	assert.Empty(t, q.Get("scroll"))
	assert.False(t, q.Has("q"))
}

func TestClient_ListItems_NonPositiveLimit(t *testing.T) {
	var limit string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		limit = r.URL.Query().Get("limit")
		_, _ = io.WriteString(w, `{"count":0,"items":[]}`)
	}, nil, false)

	_, err := c.ListItems(context.Background(), driven.ListRequest{Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, "10", limit)
}

func TestClient_GetItem(t *testing.T) {
	t.Run("decodes item and sends credential", func(t *testing.T) {
		var got *http.Request
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			got = r
			_, _ = io.WriteString(w, `{"id":"CONT1","type":"Article","fields":{"title":"x"}}`)
		}, stubTokens{value: "Bearer abc"}, false)

		item, err := c.GetItem(context.Background(), "CONT1")
		require.NoError(t, err)

		assert.Equal(t, "CONT1", item["id"])
		assert.Equal(t, "/content/published/api/v1.1/items/CONT1", got.URL.Path)
		assert.Equal(t, "chan-1", got.URL.Query().Get("channelToken"))
		assert.Equal(t, "all", got.URL.Query().Get("expand"))
		assert.Equal(t, "Bearer abc", got.Header.Get("Authorization"))
	})

	t.Run("null body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `null`)
		}, nil, false)

		item, err := c.GetItem(context.Background(), "X")
		require.NoError(t, err)
		assert.Nil(t, item)
	})

	t.Run("not found", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "no such item", http.StatusNotFound)
		}, nil, false)

		_, err := c.GetItem(context.Background(), "X")
		require.Error(t, err)
		assert.True(t, IsNotFound(err))

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "no such item", apiErr.Message)
		assert.Contains(t, apiErr.URL, "/items/X")
	})

	t.Run("malformed body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `[1,2]`)
		}, nil, false)

		_, err := c.GetItem(context.Background(), "X")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode response")
	})

	t.Run("token failure", func(t *testing.T) {
		boom := errors.New("idp down")
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			t.Error("request must not be sent")
		}, stubTokens{err: boom}, false)

		_, err := c.GetItem(context.Background(), "X")
		assert.ErrorIs(t, err, boom)
	})
}

func TestClient_RateLimited(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}, nil, false)

	_, err := c.GetItem(context.Background(), "X")
	require.Error(t, err)
	assert.True(t, IsRateLimited(err))
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestClient_OpenBinary(t *testing.T) {
	var auth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, "binary-bytes")
	}, stubTokens{value: "Bearer abc"}, false)

	rc, err := c.OpenBinary(context.Background(), c.cfg.ContentServer+"/native/a.jpg")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "binary-bytes", string(data))
	assert.Equal(t, "Bearer abc", auth)
}

func TestClient_OpenBinary_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, nil, false)

	_, err := c.OpenBinary(context.Background(), c.cfg.ContentServer+"/native/a.jpg")
	assert.True(t, IsUnauthorized(err))
}
