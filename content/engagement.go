package content

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

type commentRow struct {
	ID         int64  `db:"id"`
	PostID     int64  `db:"post_id"`
	AuthorID   int64  `db:"author_id"`
	AuthorName string `db:"author_name"`
	Text       string `db:"text"`
	CreatedAt  string `db:"created_at"`
}

// InsertLike records that userID likes postID. created is false when the
// pair already existed; the UNIQUE(post_id, user_id) constraint makes this
// safe under concurrent requests.
func (s *Store) InsertLike(ctx context.Context, postID, userID int64) (created bool, err error) {
	res, err := s.exec(ctx, s.sb.Insert("likes").
		Columns("post_id", "user_id", "created_at").
		Values(postID, userID, formatTime(time.Now())).
		Suffix("ON CONFLICT(post_id, user_id) DO NOTHING"))
	if err != nil {
		return false, fmt.Errorf("insert like: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountLikes returns the number of likes on a post.
func (s *Store) CountLikes(ctx context.Context, postID int64) (int64, error) {
	return s.count(ctx, s.sb.Select("COUNT(*)").From("likes").Where(sq.Eq{"post_id": postID}))
}

// CountLikesForAuthor returns the number of likes across all posts by authorID.
func (s *Store) CountLikesForAuthor(ctx context.Context, authorID int64) (int64, error) {
	return s.count(ctx, s.sb.Select("COUNT(*)").
		From("likes l").
		Join("posts p ON p.id = l.post_id").
		Where(sq.Eq{"p.author_id": authorID}))
}

// InsertComment appends c and sets its ID and CreatedAt.
func (s *Store) InsertComment(ctx context.Context, c *Comment) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	res, err := s.exec(ctx, s.sb.Insert("comments").
		Columns("post_id", "author_id", "text", "created_at").
		Values(c.PostID, c.AuthorID, c.Text, formatTime(c.CreatedAt)))
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	c.ID, err = res.LastInsertId()
	return err
}

// ListComments returns the comments on a post oldest first.
func (s *Store) ListComments(ctx context.Context, postID int64) ([]Comment, error) {
	var rows []commentRow
	err := s.selectAll(ctx, &rows, s.sb.Select(
		"c.id", "c.post_id", "c.author_id", "u.username AS author_name", "c.text", "c.created_at",
	).
		From("comments c").
		Join("users u ON u.id = c.author_id").
		Where(sq.Eq{"c.post_id": postID}).
		OrderBy("c.created_at ASC", "c.id ASC"))
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	out := make([]Comment, 0, len(rows))
	for _, r := range rows {
		out = append(out, Comment{
			ID:         r.ID,
			PostID:     r.PostID,
			AuthorID:   r.AuthorID,
			AuthorName: r.AuthorName,
			Text:       r.Text,
			CreatedAt:  mustParseTime(r.CreatedAt),
		})
	}
	return out, nil
}

// CountComments returns the number of comments on a post.
func (s *Store) CountComments(ctx context.Context, postID int64) (int64, error) {
	return s.count(ctx, s.sb.Select("COUNT(*)").From("comments").Where(sq.Eq{"post_id": postID}))
}

// CountCommentsForAuthor returns the number of comments across all posts by authorID.
func (s *Store) CountCommentsForAuthor(ctx context.Context, authorID int64) (int64, error) {
	return s.count(ctx, s.sb.Select("COUNT(*)").
		From("comments c").
		Join("posts p ON p.id = c.post_id").
		Where(sq.Eq{"p.author_id": authorID}))
}
