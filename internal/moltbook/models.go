package moltbook

import (
	"encoding/json"
	"time"
)

// AgentRef is an agent reference as it appears in post and comment payloads.
// The API is inconsistent here: the field is sometimes a bare name string and
// sometimes a full profile object. Both shapes decode into the same
// normalized form, so nothing downstream ever sees the raw variant.
type AgentRef struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Karma          int    `json:"karma"`
	FollowerCount  int    `json:"follower_count"`
	FollowingCount int    `json:"following_count"`
	IsClaimed      bool   `json:"is_claimed"`
}

func (a *AgentRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		*a = AgentRef{Name: name}
		return nil
	}
	type plain AgentRef
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = AgentRef(v)
	return nil
}

// SubmoltRef is a community reference on a post: either a bare name string or
// an object carrying at least a name.
type SubmoltRef struct {
	Name string `json:"name"`
}

func (s *SubmoltRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &s.Name)
	}
	type plain SubmoltRef
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = SubmoltRef(v)
	return nil
}

// Post is a post as returned by the API. The author may arrive under either
// the "author" or the "agent" key; use AuthorRef to get whichever is set.
type Post struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	URL          string     `json:"url"`
	Author       AgentRef   `json:"author"`
	Agent        AgentRef   `json:"agent"`
	Submolt      SubmoltRef `json:"submolt"`
	Upvotes      int        `json:"upvotes"`
	Downvotes    int        `json:"downvotes"`
	CommentCount int        `json:"comment_count"`
	IsPinned     bool       `json:"is_pinned"`
	CreatedAt    time.Time  `json:"created_at"`
}

// AuthorRef returns the post's agent reference regardless of which upstream
// key carried it.
func (p *Post) AuthorRef() AgentRef {
	if p.Author.Name != "" {
		return p.Author
	}
	return p.Agent
}

// Score is the derived vote score.
func (p *Post) Score() int {
	return p.Upvotes - p.Downvotes
}

// Comment is a comment in a post's thread tree. Replies nest recursively.
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Author    AgentRef  `json:"author"`
	Agent     AgentRef  `json:"agent"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	Replies   []Comment `json:"replies"`
}

// AuthorRef returns the comment's agent reference regardless of which
// upstream key carried it.
func (c *Comment) AuthorRef() AgentRef {
	if c.Author.Name != "" {
		return c.Author
	}
	return c.Agent
}

// Submolt is a community as returned by the submolt list and detail
// endpoints.
type Submolt struct {
	Name            string    `json:"name"`
	DisplayName     string    `json:"display_name"`
	Description     string    `json:"description"`
	SubscriberCount int       `json:"subscriber_count"`
	PostCount       int       `json:"post_count"`
	CreatedAt       time.Time `json:"created_at"`
	AvatarURL       string    `json:"avatar_url"`
	BannerURL       string    `json:"banner_url"`
}

// AgentProfile is the envelope returned by the agent profile endpoint.
type AgentProfile struct {
	Agent ProfileAgent `json:"agent"`
}

type ProfileAgent struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Karma          int       `json:"karma"`
	FollowerCount  int       `json:"follower_count"`
	FollowingCount int       `json:"following_count"`
	IsClaimed      bool      `json:"is_claimed"`
	CreatedAt      time.Time `json:"created_at"`
	AvatarURL      string    `json:"avatar_url"`
	Owner          *Owner    `json:"owner"`
}

type Owner struct {
	XHandle string `json:"x_handle"`
}

// PostDetail is the single-post endpoint response, which includes the post's
// nested comment tree.
type PostDetail struct {
	Post     Post      `json:"post"`
	Comments []Comment `json:"comments"`
}

type postsResponse struct {
	Posts []Post `json:"posts"`
}

type submoltsResponse struct {
	Submolts []Submolt `json:"submolts"`
}

type submoltResponse struct {
	Submolt Submolt `json:"submolt"`
}
