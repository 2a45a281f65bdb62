package blog

import (
	"context"
	"fmt"
	"strings"

	"github.com/eringen/pubhouse/content"
)

// LikeOutcome is the result of a like attempt.
type LikeOutcome int

const (
	LikeRecorded LikeOutcome = iota + 1
	LikeAlreadyRecorded
	LikeRejected
)

func (o LikeOutcome) String() string {
	switch o {
	case LikeRecorded:
		return "recorded"
	case LikeAlreadyRecorded:
		return "already_recorded"
	case LikeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Message is the flash text shown for the outcome.
func (o LikeOutcome) Message() string {
	switch o {
	case LikeRecorded:
		return "You liked this post!"
	case LikeAlreadyRecorded:
		return "You have already liked this post."
	case LikeRejected:
		return msgSelfLike
	default:
		return ""
	}
}

const msgSelfLike = "You cannot like your own post."

// LikeResult carries the liked post so callers can redirect back to it.
type LikeResult struct {
	Post    *content.Post
	Outcome LikeOutcome
}

// Like records that actor likes post postID. Liking twice is harmless and
// reports LikeAlreadyRecorded. Authors cannot like their own posts; in that
// case the result still carries the post alongside the error.
func (s *Service) Like(ctx context.Context, actor Actor, postID int64) (LikeResult, error) {
	if err := requireActor(actor); err != nil {
		return LikeResult{}, err
	}
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return LikeResult{}, translate(err, msgPostNotFound)
	}
	res := LikeResult{Post: post}
	if post.AuthorID == actor.ID {
		res.Outcome = LikeRejected
		s.metrics.liked(res.Outcome)
		return res, Unauthorized(msgSelfLike)
	}

	created, err := s.store.InsertLike(ctx, postID, actor.ID)
	if err != nil {
		return LikeResult{}, translate(err, msgPostNotFound)
	}
	res.Outcome = LikeAlreadyRecorded
	if created {
		res.Outcome = LikeRecorded
	}
	s.metrics.liked(res.Outcome)
	return res, nil
}

// Comment appends text to post postID as actor. Blank text is ignored.
// The post is returned so callers can redirect back to it.
func (s *Service) Comment(ctx context.Context, actor Actor, postID int64, text string) (*content.Post, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, translate(err, msgPostNotFound)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return post, nil
	}
	if err := s.store.InsertComment(ctx, &content.Comment{
		PostID:   postID,
		AuthorID: actor.ID,
		Text:     text,
	}); err != nil {
		return nil, translate(err, msgPostNotFound)
	}
	s.metrics.commented()
	return post, nil
}

// Counts returns the current likes and comments counts of a post.
func (s *Service) Counts(ctx context.Context, postID int64) (likes, comments int64, err error) {
	if likes, err = s.store.CountLikes(ctx, postID); err != nil {
		return 0, 0, fmt.Errorf("count likes: %w", err)
	}
	if comments, err = s.store.CountComments(ctx, postID); err != nil {
		return 0, 0, fmt.Errorf("count comments: %w", err)
	}
	return likes, comments, nil
}
