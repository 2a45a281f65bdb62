package blog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/eringen/pubhouse/content"
)

const (
	msgPostNotFound     = "Post not found."
	msgCategoryNotFound = "Selected category does not exist."
	msgInvalidDate      = "Invalid date format. Use YYYY-MM-DD."
)

// dateLayouts are the accepted formats of the creation date override.
var dateLayouts = []string{"2006-01-02", "2006-01-02T15:04"}

// NewPost is the input of CreatePost. Category is the raw category id from
// the form and Tags a comma separated list; both may be empty.
type NewPost struct {
	Title    string
	Summary  string
	Content  string
	Category string
	Tags     string
	Status   string
	Image    *Upload
	Date     string
}

// PostEdit is the input of EditPost. Nil fields keep their current value.
// An empty Category clears the category.
type PostEdit struct {
	Title    *string
	Summary  *string
	Content  *string
	Status   *string
	Category *string
	Tags     *string
	Image    *Upload
}

// PostDetail is a post with everything its page shows.
type PostDetail struct {
	Post            content.Post
	LikesCount      int64
	CommentsCount   int64
	Comments        []content.Comment
	MetaDescription string
	MetaKeywords    string
}

type postFields struct {
	Title   string `label:"Title" validate:"required"`
	Summary string `label:"Summary" validate:"required"`
	Content string `label:"Content" validate:"required"`
	Status  string `label:"Status" validate:"oneof=draft published"`
}

func (f postFields) status() content.Status {
	return content.Status(f.Status)
}

// ParseTags splits a comma separated tag list into trimmed, non-empty,
// de-duplicated names in input order.
func ParseTags(raw string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func normalizeStatus(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return string(content.StatusDraft)
	}
	return raw
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// resolveCategory turns a raw category id into a reference. An empty value
// means no category.
func (s *Service) resolveCategory(ctx context.Context, raw string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, Validation(msgCategoryNotFound)
	}
	cat, err := s.store.GetCategory(ctx, id)
	if errors.Is(err, content.ErrNotFound) {
		return nil, Validation(msgCategoryNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load category: %w", err)
	}
	return &cat.ID, nil
}

// collect appends the messages of a validation error to msgs and returns
// any other error unchanged.
func collect(msgs *[]string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) && e.Kind == KindValidation {
		*msgs = append(*msgs, e.Messages()...)
		return nil
	}
	return err
}

func linkTags(ctx context.Context, tx *content.Store, postID int64, names []string) error {
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		tag, err := tx.GetOrCreateTag(ctx, name)
		if err != nil {
			return err
		}
		ids = append(ids, tag.ID)
	}
	return tx.SetPostTags(ctx, postID, ids)
}

// CreatePost validates in and stores a new post owned by actor under a
// freshly allocated unique slug. The post row and its tag links are written
// in one transaction.
func (s *Service) CreatePost(ctx context.Context, actor Actor, in NewPost) (*content.Post, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	f := postFields{
		Title:   strings.TrimSpace(in.Title),
		Summary: strings.TrimSpace(in.Summary),
		Content: strings.TrimSpace(in.Content),
		Status:  normalizeStatus(in.Status),
	}
	msgs := s.validate.messages(f)

	createdAt := s.now()
	if d := strings.TrimSpace(in.Date); d != "" {
		t, ok := parseDate(d)
		if !ok {
			msgs = append(msgs, msgInvalidDate)
		}
		createdAt = t
	}
	categoryID, err := s.resolveCategory(ctx, in.Category)
	if err := collect(&msgs, err); err != nil {
		return nil, err
	}
	if len(msgs) > 0 {
		return nil, Validation(msgs...)
	}

	media, err := s.saveImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	post := &content.Post{
		AuthorID:   actor.ID,
		CategoryID: categoryID,
		Title:      f.Title,
		Summary:    f.Summary,
		Content:    f.Content,
		Status:     f.status(),
		CreatedAt:  createdAt,
	}
	if media != nil {
		post.ImageURL = media.URL
		post.ImageBlurHash = media.BlurHash
	}
	tags := ParseTags(in.Tags)

	for attempt := 1; ; attempt++ {
		err = s.store.WithTx(ctx, func(tx *content.Store) error {
			slug, err := allocateSlug(ctx, tx, post.Title)
			if err != nil {
				return err
			}
			post.Slug = slug
			if err := tx.InsertPost(ctx, post); err != nil {
				return err
			}
			return linkTags(ctx, tx, post.ID, tags)
		})
		if errors.Is(err, content.ErrSlugTaken) && attempt < maxSlugAttempts {
			s.logger.WarnContext(ctx, "slug taken, retrying", "slug", post.Slug, "attempt", attempt)
			post.ID = 0
			continue
		}
		break
	}
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.metrics.postCreated()
	s.logger.InfoContext(ctx, "post created", "post_id", post.ID, "slug", post.Slug, "author_id", actor.ID)
	return s.store.GetPost(ctx, post.ID)
}

// ownPost loads post id if actor wrote it. A post that does not exist and
// a post by someone else are both reported as not found.
func (s *Service) ownPost(ctx context.Context, actor Actor, id int64) (*content.Post, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	p, err := s.store.GetAuthorPost(ctx, id, actor.ID)
	if err != nil {
		return nil, translate(err, msgPostNotFound)
	}
	return p, nil
}

// EditablePost returns post id for the edit form.
func (s *Service) EditablePost(ctx context.Context, actor Actor, id int64) (*content.Post, error) {
	return s.ownPost(ctx, actor, id)
}

// EditPost applies in to post id. The slug never changes.
func (s *Service) EditPost(ctx context.Context, actor Actor, id int64, in PostEdit) (*content.Post, error) {
	post, err := s.ownPost(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	f := postFields{
		Title:   post.Title,
		Summary: post.Summary,
		Content: post.Content,
		Status:  string(post.Status),
	}
	if in.Title != nil {
		f.Title = strings.TrimSpace(*in.Title)
	}
	if in.Summary != nil {
		f.Summary = strings.TrimSpace(*in.Summary)
	}
	if in.Content != nil {
		f.Content = strings.TrimSpace(*in.Content)
	}
	if in.Status != nil {
		f.Status = normalizeStatus(*in.Status)
	}
	msgs := s.validate.messages(f)
	if in.Category != nil {
		categoryID, err := s.resolveCategory(ctx, *in.Category)
		if err := collect(&msgs, err); err != nil {
			return nil, err
		}
		post.CategoryID = categoryID
	}
	if len(msgs) > 0 {
		return nil, Validation(msgs...)
	}

	media, err := s.saveImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	post.Title = f.Title
	post.Summary = f.Summary
	post.Content = f.Content
	post.Status = f.status()
	if media != nil {
		post.ImageURL = media.URL
		post.ImageBlurHash = media.BlurHash
	}

	err = s.store.WithTx(ctx, func(tx *content.Store) error {
		if err := tx.UpdatePost(ctx, post); err != nil {
			return err
		}
		if in.Tags == nil {
			return nil
		}
		return linkTags(ctx, tx, post.ID, ParseTags(*in.Tags))
	})
	if err != nil {
		return nil, translate(err, msgPostNotFound)
	}
	s.logger.InfoContext(ctx, "post updated", "post_id", post.ID, "author_id", actor.ID)
	return s.store.GetPost(ctx, post.ID)
}

// PrepareDelete returns the post the actor is about to delete, for the
// confirmation page.
func (s *Service) PrepareDelete(ctx context.Context, actor Actor, id int64) (*content.Post, error) {
	return s.ownPost(ctx, actor, id)
}

// DeletePost removes post id and, through the store's cascades, its
// likes, comments and tag links.
func (s *Service) DeletePost(ctx context.Context, actor Actor, id int64) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if err := s.store.DeletePost(ctx, id, actor.ID); err != nil {
		return translate(err, msgPostNotFound)
	}
	s.logger.InfoContext(ctx, "post deleted", "post_id", id, "author_id", actor.ID)
	return nil
}

// ViewPost counts a view of the post with the given slug and returns its
// detail. Drafts are viewable by anyone who knows the slug.
func (s *Service) ViewPost(ctx context.Context, slug string) (*PostDetail, error) {
	p, err := s.store.GetPostBySlug(ctx, slug)
	if err != nil {
		return nil, translate(err, msgPostNotFound)
	}
	if err := s.store.IncrementViews(ctx, p.ID); err != nil {
		return nil, translate(err, msgPostNotFound)
	}
	if p, err = s.store.GetPost(ctx, p.ID); err != nil {
		return nil, translate(err, msgPostNotFound)
	}

	likes, comments, err := s.Counts(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	list, err := s.store.ListComments(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	d := &PostDetail{
		Post:            *p,
		LikesCount:      likes,
		CommentsCount:   comments,
		Comments:        list,
		MetaDescription: p.Summary,
		MetaKeywords:    strings.Join(p.TagNames(), ", "),
	}
	if d.MetaDescription == "" {
		d.MetaDescription = p.Title
	}
	return d, nil
}

// PostByID returns any post by id. Used to redirect legacy numeric URLs.
func (s *Service) PostByID(ctx context.Context, id int64) (*content.Post, error) {
	p, err := s.store.GetPost(ctx, id)
	if err != nil {
		return nil, translate(err, msgPostNotFound)
	}
	return p, nil
}
