package blog

import (
	"context"
	"fmt"
	"net/url"

	"github.com/eringen/pubhouse/content"
)

const recentPostsLimit = 5

// Dashboard is the per-author overview.
type Dashboard struct {
	User          content.User
	Counts        content.AuthorCounts
	Recent        []content.Post
	Posts         []content.Post
	TotalComments int64
	TotalLikes    int64
	AvatarURL     string
}

// AvatarURL returns the profile image of u, or a generated initials avatar
// when none was uploaded.
func AvatarURL(u content.User) string {
	if u.ImageURL != nil && *u.ImageURL != "" {
		return *u.ImageURL
	}
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=0D8ABC&color=fff&size=80",
		url.QueryEscape(u.Username))
}

// Dashboard aggregates the posts, comments and likes of actor.
func (s *Service) Dashboard(ctx context.Context, actor Actor) (*Dashboard, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	user, err := s.store.GetUser(ctx, actor.ID)
	if err != nil {
		return nil, translate(err, "User not found.")
	}
	counts, err := s.store.CountByAuthor(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	posts, err := s.store.ListByAuthor(ctx, actor.ID, 0)
	if err != nil {
		return nil, err
	}
	comments, err := s.store.CountCommentsForAuthor(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	likes, err := s.store.CountLikesForAuthor(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}

	recent := posts
	if len(recent) > recentPostsLimit {
		recent = recent[:recentPostsLimit]
	}
	return &Dashboard{
		User:          *user,
		Counts:        counts,
		Recent:        recent,
		Posts:         posts,
		TotalComments: comments,
		TotalLikes:    likes,
		AvatarURL:     AvatarURL(*user),
	}, nil
}
