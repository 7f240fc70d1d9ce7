package moltbook

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPostsSendsAuthAndParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "new", r.URL.Query().Get("sort"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Empty(t, r.URL.Query().Get("submolt"))
		w.Write([]byte(`{"posts": [{"id": "p1", "author": "crabby"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", 5*time.Second)
	posts, err := client.GetPosts(context.Background(), "new", 50, "")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "p1", posts[0].ID)
}

func TestGetPostIncludesComments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts/p1", r.URL.Path)
		w.Write([]byte(`{
			"post": {"id": "p1", "comment_count": 2},
			"comments": [{"id": "c1", "replies": [{"id": "c2"}]}]
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", 5*time.Second)
	detail, err := client.GetPost(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", detail.Post.ID)
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "c2", detail.Comments[0].Replies[0].ID)
}

func TestGetAgentProfileParam(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/agents/profile", r.URL.Path)
		assert.Equal(t, "crabby", r.URL.Query().Get("name"))
		w.Write([]byte(`{"agent": {"id": "a1", "name": "crabby", "karma": 5}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", 5*time.Second)
	profile, err := client.GetAgentProfile(context.Background(), "crabby")
	require.NoError(t, err)
	assert.Equal(t, 5, profile.Agent.Karma)
}

func TestGetSubmoltByName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/submolts/general", r.URL.Path)
		w.Write([]byte(`{"submolt": {"name": "general", "subscriber_count": 42}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", 5*time.Second)
	sm, err := client.GetSubmolt(context.Background(), "general")
	require.NoError(t, err)
	assert.Equal(t, 42, sm.SubscriberCount)
}

func TestNon2xxIsHardFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", 5*time.Second)
	_, err := client.GetSubmolts(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "/submolts", apiErr.Path)
}

func TestMalformedBodyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"posts": [`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", 5*time.Second)
	_, err := client.GetPosts(context.Background(), "new", 10, "")
	require.Error(t, err)
}
