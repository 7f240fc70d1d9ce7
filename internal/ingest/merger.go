// Package ingest reconciles externally fetched records into the store.
// Merges are idempotent: applying the same record twice leaves the same
// state as applying it once, and the second pass reports zero new rows.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"moltscope/internal/moltbook"
	"moltscope/internal/store"
)

// Merger reconciles posts, comments, agents and submolts into storage,
// resolving insert-vs-update and foreign-key ordering.
type Merger struct {
	store  *store.Store
	logger *slog.Logger
}

func New(st *store.Store, logger *slog.Logger) *Merger {
	return &Merger{store: st, logger: logger}
}

// MergePosts reconciles a batch of fetched posts and returns the number of
// rows newly inserted. Re-observed posts only refresh score, comment count
// and pin state. A post without an ID is skipped, never fatal.
func (m *Merger) MergePosts(ctx context.Context, posts []moltbook.Post) (int, error) {
	newCount := 0
	now := time.Now().UTC()

	for i := range posts {
		p := &posts[i]
		if p.ID == "" {
			m.logger.Debug("skipping post without id", "title", p.Title)
			continue
		}

		exists, err := m.store.PostExists(ctx, p.ID)
		if err != nil {
			return newCount, fmt.Errorf("check post %s: %w", p.ID, err)
		}

		author := p.AuthorRef()
		storedAgentID := ""
		if author.Name != "" {
			// The agent row has to exist before the post row references it.
			var err error
			storedAgentID, err = m.ensureAgent(ctx, author)
			if err != nil {
				return newCount, fmt.Errorf("ensure agent %s: %w", author.Name, err)
			}
		}

		row := &store.Post{
			ID:           p.ID,
			AgentID:      storedAgentID,
			AgentName:    author.Name,
			Submolt:      p.Submolt.Name,
			Title:        p.Title,
			Content:      p.Content,
			URL:          p.URL,
			Score:        p.Score(),
			CommentCount: p.CommentCount,
			IsPinned:     p.IsPinned,
			CreatedAt:    p.CreatedAt,
			FetchedAt:    now,
		}
		if err := m.store.UpsertPost(ctx, row); err != nil {
			return newCount, fmt.Errorf("upsert post %s: %w", p.ID, err)
		}
		if !exists {
			newCount++
		}
	}

	return newCount, nil
}

type commentWork struct {
	comment  moltbook.Comment
	parentID string
}

// MergeComments reconciles a post's comment tree and returns the number of
// comments newly inserted. Traversal is an explicit depth-first worklist:
// replies are only queued after their parent row is committed, so a reply's
// parent reference always resolves.
func (m *Merger) MergeComments(ctx context.Context, postID string, comments []moltbook.Comment) (int, error) {
	newCount := 0
	now := time.Now().UTC()

	stack := make([]commentWork, 0, len(comments))
	for i := len(comments) - 1; i >= 0; i-- {
		stack = append(stack, commentWork{comment: comments[i]})
	}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		c := item.comment
		if c.ID == "" {
			m.logger.Debug("skipping comment without id", "post_id", postID)
			continue
		}

		exists, err := m.store.CommentExists(ctx, c.ID)
		if err != nil {
			return newCount, fmt.Errorf("check comment %s: %w", c.ID, err)
		}

		author := c.AuthorRef()
		storedAgentID := ""
		if author.Name != "" {
			var err error
			storedAgentID, err = m.ensureAgent(ctx, author)
			if err != nil {
				return newCount, fmt.Errorf("ensure agent %s: %w", author.Name, err)
			}
		}

		var parentID *string
		if item.parentID != "" {
			pid := item.parentID
			parentID = &pid
		}

		row := &store.Comment{
			ID:        c.ID,
			PostID:    postID,
			AgentID:   storedAgentID,
			AgentName: author.Name,
			ParentID:  parentID,
			Content:   c.Content,
			Score:     c.Score,
			CreatedAt: c.CreatedAt,
			FetchedAt: now,
		}
		if err := m.store.UpsertComment(ctx, row); err != nil {
			return newCount, fmt.Errorf("upsert comment %s: %w", c.ID, err)
		}
		if !exists {
			newCount++
		}

		for i := len(c.Replies) - 1; i >= 0; i-- {
			stack = append(stack, commentWork{comment: c.Replies[i], parentID: c.ID})
		}
	}

	return newCount, nil
}

// MergeSubmolts reconciles the community list and returns the number of
// records processed. A submolt without a name is skipped.
func (m *Merger) MergeSubmolts(ctx context.Context, submolts []moltbook.Submolt) (int, error) {
	count := 0
	for i := range submolts {
		sm := &submolts[i]
		if sm.Name == "" {
			m.logger.Debug("skipping submolt without name")
			continue
		}

		row := &store.Submolt{
			Name:            sm.Name,
			DisplayName:     displayName(sm),
			Description:     sm.Description,
			SubscriberCount: sm.SubscriberCount,
			PostCount:       sm.PostCount,
			AvatarURL:       sm.AvatarURL,
			BannerURL:       sm.BannerURL,
			CreatedAt:       sm.CreatedAt,
		}
		if err := m.store.UpsertSubmolt(ctx, row); err != nil {
			return count, fmt.Errorf("upsert submolt %s: %w", sm.Name, err)
		}
		count++
	}
	return count, nil
}

// MergeAgentProfile reconciles a fully fetched agent profile. A profile
// without a name is silently dropped.
func (m *Merger) MergeAgentProfile(ctx context.Context, profile *moltbook.AgentProfile) error {
	agent := profile.Agent
	if agent.Name == "" {
		return nil
	}

	id := agent.ID
	if id == "" {
		id = agent.Name
	}

	row := &store.Agent{
		ID:             id,
		Name:           agent.Name,
		Description:    agent.Description,
		Karma:          agent.Karma,
		FollowerCount:  agent.FollowerCount,
		FollowingCount: agent.FollowingCount,
		IsClaimed:      agent.IsClaimed,
		AvatarURL:      agent.AvatarURL,
		CreatedAt:      agent.CreatedAt,
	}
	if agent.Owner != nil {
		row.OwnerXHandle = agent.Owner.XHandle
	}
	if err := m.store.UpsertAgentProfile(ctx, row); err != nil {
		return fmt.Errorf("upsert agent profile %s: %w", agent.Name, err)
	}
	return nil
}

// ensureAgent upserts at least a stub row for the referenced agent so the
// dependent post or comment insert satisfies its foreign key, and returns
// the id actually stored for the agent. A stub created earlier from a bare
// name keeps its synthesized id, so the reference may differ from the id the
// upstream payload carries.
func (m *Merger) ensureAgent(ctx context.Context, ref moltbook.AgentRef) (string, error) {
	err := m.store.UpsertAgentStub(ctx, &store.Agent{
		ID:             agentID(ref),
		Name:           ref.Name,
		Description:    ref.Description,
		Karma:          ref.Karma,
		FollowerCount:  ref.FollowerCount,
		FollowingCount: ref.FollowingCount,
		IsClaimed:      ref.IsClaimed,
	})
	if err != nil {
		return "", err
	}
	return m.store.AgentIDByName(ctx, ref.Name)
}

// agentID resolves the stored agent ID: the upstream ID when present, the
// name as a synthesized stand-in otherwise.
func agentID(ref moltbook.AgentRef) string {
	if ref.ID != "" {
		return ref.ID
	}
	return ref.Name
}

func displayName(sm *moltbook.Submolt) string {
	if sm.DisplayName != "" {
		return sm.DisplayName
	}
	return sm.Name
}
