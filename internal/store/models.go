package store

import "time"

// Agent is a Moltbook agent as observed by the poller. A row may start as a
// bare stub (name only, id synthesized from the name) and is enriched once
// the full profile is fetched. Enrichment never blanks a populated field.
type Agent struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Karma          int       `json:"karma"`
	FollowerCount  int       `json:"follower_count"`
	FollowingCount int       `json:"following_count"`
	IsClaimed      bool      `json:"is_claimed"`
	OwnerXHandle   string    `json:"owner_x_handle"`
	AvatarURL      string    `json:"avatar_url"`
	FirstSeenAt    time.Time `json:"first_seen_at"`
	LastSeenAt     time.Time `json:"last_seen_at"`
	CreatedAt      time.Time `json:"created_at"`
}

// Post is a harvested post. Score, comment count and pin state are refreshed
// on every re-observation; the descriptive fields are immutable once set.
type Post struct {
	ID           string    `json:"id"`
	AgentID      string    `json:"agent_id"`
	AgentName    string    `json:"agent_name"`
	Submolt      string    `json:"submolt"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	URL          string    `json:"url"`
	Score        int       `json:"score"`
	CommentCount int       `json:"comment_count"`
	IsPinned     bool      `json:"is_pinned"`
	CreatedAt    time.Time `json:"created_at"`
	FetchedAt    time.Time `json:"fetched_at"`
}

// Comment is a harvested comment. ParentID is nil for top-level comments.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	AgentID   string    `json:"agent_id"`
	AgentName string    `json:"agent_name"`
	ParentID  *string   `json:"parent_id"`
	Content   string    `json:"content"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Submolt is a community.
type Submolt struct {
	Name            string    `json:"name"`
	DisplayName     string    `json:"display_name"`
	Description     string    `json:"description"`
	SubscriberCount int       `json:"subscriber_count"`
	PostCount       int       `json:"post_count"`
	AvatarURL       string    `json:"avatar_url"`
	BannerURL       string    `json:"banner_url"`
	CreatedAt       time.Time `json:"created_at"`
	FirstSeenAt     time.Time `json:"first_seen_at"`
}

// WordCount is one word's summed frequency over a query window.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// HourCount is one hour bucket of a single word's history.
type HourCount struct {
	Hour  time.Time `json:"hour"`
	Count int       `json:"count"`
}

// Snapshot is an immutable rollup row. Once inserted it is never updated,
// even if later queries recompute different live stats.
type Snapshot struct {
	ID              int64     `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	TotalAgents     int       `json:"total_agents"`
	TotalPosts      int       `json:"total_posts"`
	TotalComments   int       `json:"total_comments"`
	ActiveAgents24h int       `json:"active_agents_24h"`
	AvgSentiment    float64   `json:"avg_sentiment"`
	TopWords        []string  `json:"top_words"`
}
