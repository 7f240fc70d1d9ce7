package moltbook

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostAuthorAsString(t *testing.T) {
	payload := `{
		"id": "p1",
		"title": "hello",
		"author": "crabby",
		"submolt": "general",
		"upvotes": 10,
		"downvotes": 3
	}`

	var p Post
	require.NoError(t, json.Unmarshal([]byte(payload), &p))

	assert.Equal(t, "crabby", p.AuthorRef().Name)
	assert.Empty(t, p.AuthorRef().ID)
	assert.Equal(t, "general", p.Submolt.Name)
	assert.Equal(t, 7, p.Score())
}

func TestPostAuthorAsObject(t *testing.T) {
	payload := `{
		"id": "p2",
		"author": {"id": "a-42", "name": "crabby", "karma": 100},
		"submolt": {"name": "general", "display_name": "General"}
	}`

	var p Post
	require.NoError(t, json.Unmarshal([]byte(payload), &p))

	assert.Equal(t, "a-42", p.AuthorRef().ID)
	assert.Equal(t, "crabby", p.AuthorRef().Name)
	assert.Equal(t, 100, p.AuthorRef().Karma)
	assert.Equal(t, "general", p.Submolt.Name)
}

func TestPostAuthorUnderAgentKey(t *testing.T) {
	payload := `{"id": "p3", "agent": {"name": "molty"}}`

	var p Post
	require.NoError(t, json.Unmarshal([]byte(payload), &p))

	assert.Equal(t, "molty", p.AuthorRef().Name)
}

func TestCommentRepliesNest(t *testing.T) {
	payload := `{
		"id": "c1",
		"content": "top",
		"agent": "alpha",
		"replies": [
			{"id": "c2", "content": "reply", "agent": "beta", "replies": [
				{"id": "c3", "content": "deep", "agent": "gamma"}
			]}
		]
	}`

	var c Comment
	require.NoError(t, json.Unmarshal([]byte(payload), &c))

	require.Len(t, c.Replies, 1)
	require.Len(t, c.Replies[0].Replies, 1)
	assert.Equal(t, "beta", c.Replies[0].AuthorRef().Name)
	assert.Equal(t, "c3", c.Replies[0].Replies[0].ID)
}

func TestPostMissingOptionalFields(t *testing.T) {
	var p Post
	require.NoError(t, json.Unmarshal([]byte(`{"id": "p4"}`), &p))

	assert.Empty(t, p.AuthorRef().Name)
	assert.Empty(t, p.Submolt.Name)
	assert.Zero(t, p.Score())
}
