package content

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

type postRow struct {
	ID            int64          `db:"id"`
	AuthorID      int64          `db:"author_id"`
	AuthorName    string         `db:"author_name"`
	CategoryID    sql.NullInt64  `db:"category_id"`
	CategoryName  sql.NullString `db:"category_name"`
	Title         string         `db:"title"`
	Slug          string         `db:"slug"`
	Summary       string         `db:"summary"`
	Content       string         `db:"content"`
	Status        string         `db:"status"`
	ImageURL      string         `db:"image_url"`
	ImageBlurHash string         `db:"image_blurhash"`
	Views         int64          `db:"views"`
	CreatedAt     string         `db:"created_at"`
	UpdatedAt     string         `db:"updated_at"`
}

func (r postRow) post() Post {
	p := Post{
		ID:            r.ID,
		AuthorID:      r.AuthorID,
		AuthorName:    r.AuthorName,
		CategoryName:  r.CategoryName.String,
		Title:         r.Title,
		Slug:          r.Slug,
		Summary:       r.Summary,
		Content:       r.Content,
		Status:        Status(r.Status),
		ImageURL:      r.ImageURL,
		ImageBlurHash: r.ImageBlurHash,
		Views:         r.Views,
		CreatedAt:     mustParseTime(r.CreatedAt),
		UpdatedAt:     mustParseTime(r.UpdatedAt),
	}
	if r.CategoryID.Valid {
		id := r.CategoryID.Int64
		p.CategoryID = &id
	}
	return p
}

func (s *Store) selectPosts() sq.SelectBuilder {
	return s.sb.Select(
		"p.id", "p.author_id", "u.username AS author_name",
		"p.category_id", "c.name AS category_name",
		"p.title", "p.slug", "p.summary", "p.content", "p.status",
		"p.image_url", "p.image_blurhash", "p.views",
		"p.created_at", "p.updated_at",
	).
		From("posts p").
		Join("users u ON u.id = p.author_id").
		LeftJoin("categories c ON c.id = p.category_id")
}

func (s *Store) getPostWhere(ctx context.Context, pred sq.Sqlizer) (*Post, error) {
	var row postRow
	if err := s.get(ctx, &row, s.selectPosts().Where(pred)); err != nil {
		return nil, err
	}
	p := row.post()
	tags, err := s.TagsForPost(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Tags = tags
	return &p, nil
}

func (s *Store) listPosts(ctx context.Context, b sq.SelectBuilder) ([]Post, error) {
	var rows []postRow
	if err := s.selectAll(ctx, &rows, b); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	posts := make([]Post, 0, len(rows))
	for _, r := range rows {
		posts = append(posts, r.post())
	}
	if err := s.attachTags(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// SlugExists reports whether any post uses slug.
func (s *Store) SlugExists(ctx context.Context, slug string) (bool, error) {
	n, err := s.count(ctx, s.sb.Select("COUNT(*)").From("posts").Where(sq.Eq{"slug": slug}))
	return n > 0, err
}

// InsertPost inserts p and sets its ID. CreatedAt defaults to now and
// UpdatedAt to CreatedAt. Returns ErrSlugTaken when the slug is in use.
func (s *Store) InsertPost(ctx context.Context, p *Post) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}
	res, err := s.exec(ctx, s.sb.Insert("posts").
		Columns("author_id", "category_id", "title", "slug", "summary", "content", "status",
			"image_url", "image_blurhash", "views", "created_at", "updated_at").
		Values(p.AuthorID, nullInt64(p.CategoryID), p.Title, p.Slug, p.Summary, p.Content, string(p.Status),
			p.ImageURL, p.ImageBlurHash, p.Views, formatTime(p.CreatedAt), formatTime(p.UpdatedAt)))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("insert post: %w", err)
	}
	p.ID, err = res.LastInsertId()
	return err
}

// UpdatePost writes the editable fields of p and bumps UpdatedAt. The
// author and slug are never changed.
func (s *Store) UpdatePost(ctx context.Context, p *Post) error {
	p.UpdatedAt = time.Now()
	res, err := s.exec(ctx, s.sb.Update("posts").
		Set("category_id", nullInt64(p.CategoryID)).
		Set("title", p.Title).
		Set("summary", p.Summary).
		Set("content", p.Content).
		Set("status", string(p.Status)).
		Set("image_url", p.ImageURL).
		Set("image_blurhash", p.ImageBlurHash).
		Set("updated_at", formatTime(p.UpdatedAt)).
		Where(sq.Eq{"id": p.ID, "author_id": p.AuthorID}))
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePost removes the post id owned by authorID together with its
// likes, comments and tag links.
func (s *Store) DeletePost(ctx context.Context, id, authorID int64) error {
	res, err := s.exec(ctx, s.sb.Delete("posts").Where(sq.Eq{"id": id, "author_id": authorID}))
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetPost returns a post by id regardless of status.
func (s *Store) GetPost(ctx context.Context, id int64) (*Post, error) {
	return s.getPostWhere(ctx, sq.Eq{"p.id": id})
}

// GetPostBySlug returns a post by slug regardless of status.
func (s *Store) GetPostBySlug(ctx context.Context, slug string) (*Post, error) {
	return s.getPostWhere(ctx, sq.Eq{"p.slug": slug})
}

// GetAuthorPost returns the post id only if authorID wrote it.
func (s *Store) GetAuthorPost(ctx context.Context, id, authorID int64) (*Post, error) {
	return s.getPostWhere(ctx, sq.Eq{"p.id": id, "p.author_id": authorID})
}

// IncrementViews adds one to the view counter of a post.
func (s *Store) IncrementViews(ctx context.Context, id int64) error {
	res, err := s.exec(ctx, s.sb.Update("posts").Set("views", sq.Expr("views + 1")).Where(sq.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPublished returns published posts newest first. limit <= 0 means all.
func (s *Store) ListPublished(ctx context.Context, limit int) ([]Post, error) {
	b := s.selectPosts().
		Where(sq.Eq{"p.status": string(StatusPublished)}).
		OrderBy("p.created_at DESC", "p.id DESC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	return s.listPosts(ctx, b)
}

// ListByAuthor returns every post by authorID newest first. limit <= 0 means all.
func (s *Store) ListByAuthor(ctx context.Context, authorID int64, limit int) ([]Post, error) {
	b := s.selectPosts().
		Where(sq.Eq{"p.author_id": authorID}).
		OrderBy("p.created_at DESC", "p.id DESC")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	return s.listPosts(ctx, b)
}

// CountPublished returns the number of published posts.
func (s *Store) CountPublished(ctx context.Context) (int64, error) {
	return s.count(ctx, s.sb.Select("COUNT(*)").From("posts").Where(sq.Eq{"status": string(StatusPublished)}))
}

// CountByAuthor returns the post counts of authorID split by status.
func (s *Store) CountByAuthor(ctx context.Context, authorID int64) (AuthorCounts, error) {
	var c AuthorCounts
	err := s.get(ctx, &c, s.sb.Select(
		"COUNT(*) AS total",
		"COALESCE(SUM(CASE WHEN status = 'published' THEN 1 ELSE 0 END), 0) AS published",
		"COALESCE(SUM(CASE WHEN status = 'draft' THEN 1 ELSE 0 END), 0) AS drafts",
	).From("posts").Where(sq.Eq{"author_id": authorID}))
	if err != nil {
		return AuthorCounts{}, fmt.Errorf("count author posts: %w", err)
	}
	return c, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
