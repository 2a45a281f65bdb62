package content

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

type categoryRow struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type tagRow struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// ListCategories returns all categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	var rows []categoryRow
	if err := s.selectAll(ctx, &rows, s.sb.Select("id", "name").From("categories").OrderBy("name")); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]Category, 0, len(rows))
	for _, r := range rows {
		out = append(out, Category{ID: r.ID, Name: r.Name})
	}
	return out, nil
}

// GetCategory returns the category with the given id.
func (s *Store) GetCategory(ctx context.Context, id int64) (*Category, error) {
	var r categoryRow
	if err := s.get(ctx, &r, s.sb.Select("id", "name").From("categories").Where(sq.Eq{"id": id})); err != nil {
		return nil, err
	}
	return &Category{ID: r.ID, Name: r.Name}, nil
}

// CreateCategory inserts a category. Returns ErrAlreadyExists on a duplicate name.
func (s *Store) CreateCategory(ctx context.Context, name string) (*Category, error) {
	res, err := s.exec(ctx, s.sb.Insert("categories").Columns("name").Values(name))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Category{ID: id, Name: name}, nil
}

// GetOrCreateTag returns the tag called name, creating it on first use.
// Concurrent callers with the same name converge on one row.
func (s *Store) GetOrCreateTag(ctx context.Context, name string) (*Tag, error) {
	if _, err := s.exec(ctx, s.sb.Insert("tags").Columns("name").Values(name).
		Suffix("ON CONFLICT(name) DO NOTHING")); err != nil {
		return nil, fmt.Errorf("insert tag: %w", err)
	}
	var r tagRow
	if err := s.get(ctx, &r, s.sb.Select("id", "name").From("tags").Where(sq.Eq{"name": name})); err != nil {
		return nil, fmt.Errorf("load tag %q: %w", name, err)
	}
	return &Tag{ID: r.ID, Name: r.Name}, nil
}

// SetPostTags replaces the tag set of a post.
func (s *Store) SetPostTags(ctx context.Context, postID int64, tagIDs []int64) error {
	if _, err := s.exec(ctx, s.sb.Delete("post_tags").Where(sq.Eq{"post_id": postID})); err != nil {
		return fmt.Errorf("clear post tags: %w", err)
	}
	if len(tagIDs) == 0 {
		return nil
	}
	ins := s.sb.Insert("post_tags").Options("OR IGNORE").Columns("post_id", "tag_id")
	for _, id := range tagIDs {
		ins = ins.Values(postID, id)
	}
	if _, err := s.exec(ctx, ins); err != nil {
		return fmt.Errorf("link post tags: %w", err)
	}
	return nil
}

// TagsForPost returns the tags of a post ordered by name.
func (s *Store) TagsForPost(ctx context.Context, postID int64) ([]Tag, error) {
	var rows []tagRow
	err := s.selectAll(ctx, &rows, s.sb.Select("t.id", "t.name").
		From("tags t").
		Join("post_tags pt ON pt.tag_id = t.id").
		Where(sq.Eq{"pt.post_id": postID}).
		OrderBy("t.name"))
	if err != nil {
		return nil, fmt.Errorf("load post tags: %w", err)
	}
	tags := make([]Tag, 0, len(rows))
	for _, r := range rows {
		tags = append(tags, Tag{ID: r.ID, Name: r.Name})
	}
	return tags, nil
}

// attachTags loads the tags of every post in one query.
func (s *Store) attachTags(ctx context.Context, posts []Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]int64, len(posts))
	byID := make(map[int64]int, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		byID[p.ID] = i
	}
	var rows []struct {
		PostID int64  `db:"post_id"`
		ID     int64  `db:"id"`
		Name   string `db:"name"`
	}
	err := s.selectAll(ctx, &rows, s.sb.Select("pt.post_id", "t.id", "t.name").
		From("post_tags pt").
		Join("tags t ON t.id = pt.tag_id").
		Where(sq.Eq{"pt.post_id": ids}).
		OrderBy("t.name"))
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	for _, r := range rows {
		i := byID[r.PostID]
		posts[i].Tags = append(posts[i].Tags, Tag{ID: r.ID, Name: r.Name})
	}
	return nil
}
