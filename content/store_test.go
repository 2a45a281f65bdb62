package content

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "test_blog.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestUser(t *testing.T, s *Store, username string) *User {
	t.Helper()
	u := &User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func createTestPost(t *testing.T, s *Store, author *User, slug string, status Status) *Post {
	t.Helper()
	p := &Post{
		AuthorID: author.ID,
		Title:    "Title " + slug,
		Slug:     slug,
		Summary:  "summary",
		Content:  "content",
		Status:   status,
	}
	require.NoError(t, s.InsertPost(context.Background(), p))
	return p
}

func TestOpenSeedsCategories(t *testing.T) {
	s := setupTestStore(t)

	cats, err := s.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, 4)
}

func TestUserUniqueness(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	createTestUser(t, s, "alice")

	err := s.CreateUser(ctx, &User{Username: "alice", Email: "other@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	err = s.CreateUser(ctx, &User{Username: "alice2", Email: "alice@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	exists, err := s.UsernameExists(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserImageIsOptional(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "alice")

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ImageURL)

	img := "/media/alice.jpg"
	got.ImageURL = &img
	require.NoError(t, s.UpdateUser(ctx, got))

	got, err = s.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, got.ImageURL)
	assert.Equal(t, img, *got.ImageURL)
}

func TestInsertAndGetPost(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	author := createTestUser(t, s, "alice")
	cat := int64(2)

	created := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	p := &Post{
		AuthorID:   author.ID,
		CategoryID: &cat,
		Title:      "Test Post",
		Slug:       "test-post",
		Summary:    "A test post summary",
		Content:    "This is test content.",
		Status:     StatusPublished,
		CreatedAt:  created,
	}
	require.NoError(t, s.InsertPost(ctx, p))
	require.NotZero(t, p.ID)

	got, err := s.GetPostBySlug(ctx, "test-post")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "Test Post", got.Title)
	assert.Equal(t, "alice", got.AuthorName)
	assert.Equal(t, "Technology", got.CategoryName)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, cat, *got.CategoryID)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.Equal(t, "/post/test-post/", got.Link())
	assert.True(t, got.Published())
}

func TestInsertPostDuplicateSlug(t *testing.T) {
	s := setupTestStore(t)
	author := createTestUser(t, s, "alice")
	createTestPost(t, s, author, "dup", StatusDraft)

	err := s.InsertPost(context.Background(), &Post{
		AuthorID: author.ID, Title: "t", Slug: "dup", Summary: "s", Content: "c",
	})
	assert.ErrorIs(t, err, ErrSlugTaken)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestGetPostNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetPostBySlug(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthorScopedLookups(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	alice := createTestUser(t, s, "alice")
	bob := createTestUser(t, s, "bob")
	p := createTestPost(t, s, alice, "mine", StatusDraft)

	_, err := s.GetAuthorPost(ctx, p.ID, bob.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.DeletePost(ctx, p.ID, bob.ID), ErrNotFound)

	other := *p
	other.AuthorID = bob.ID
	other.Title = "hijacked"
	assert.ErrorIs(t, s.UpdatePost(ctx, &other), ErrNotFound)

	got, err := s.GetAuthorPost(ctx, p.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Title mine", got.Title)
}

func TestTagsGetOrCreateAndReplace(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	author := createTestUser(t, s, "alice")
	p := createTestPost(t, s, author, "tagged", StatusPublished)

	goTag, err := s.GetOrCreateTag(ctx, "go")
	require.NoError(t, err)
	again, err := s.GetOrCreateTag(ctx, "go")
	require.NoError(t, err)
	assert.Equal(t, goTag.ID, again.ID)

	web, err := s.GetOrCreateTag(ctx, "web")
	require.NoError(t, err)

	require.NoError(t, s.SetPostTags(ctx, p.ID, []int64{goTag.ID, web.ID, goTag.ID}))
	tags, err := s.TagsForPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "web"}, Post{Tags: tags}.TagNames())

	require.NoError(t, s.SetPostTags(ctx, p.ID, []int64{web.ID}))
	tags, err = s.TagsForPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"web"}, Post{Tags: tags}.TagNames())
}

func TestListPublishedOrderAndTags(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	author := createTestUser(t, s, "alice")

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, slug := range []string{"post-1", "post-2", "post-3"} {
		p := &Post{AuthorID: author.ID, Title: slug, Slug: slug, Summary: "s", Content: "c",
			Status: StatusPublished, CreatedAt: base.Add(time.Duration(i) * 24 * time.Hour)}
		require.NoError(t, s.InsertPost(ctx, p))
	}
	createTestPost(t, s, author, "draft", StatusDraft)

	tag, err := s.GetOrCreateTag(ctx, "go")
	require.NoError(t, err)
	first, err := s.GetPostBySlug(ctx, "post-1")
	require.NoError(t, err)
	require.NoError(t, s.SetPostTags(ctx, first.ID, []int64{tag.ID}))

	posts, err := s.ListPublished(ctx, 0)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "post-3", posts[0].Slug)
	assert.Equal(t, "post-1", posts[2].Slug)
	assert.Equal(t, []string{"go"}, posts[2].TagNames())

	limited, err := s.ListPublished(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	n, err := s.CountPublished(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestCountByAuthor(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	alice := createTestUser(t, s, "alice")
	bob := createTestUser(t, s, "bob")

	createTestPost(t, s, alice, "a1", StatusPublished)
	createTestPost(t, s, alice, "a2", StatusDraft)
	createTestPost(t, s, alice, "a3", StatusDraft)
	createTestPost(t, s, bob, "b1", StatusPublished)

	c, err := s.CountByAuthor(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, AuthorCounts{Total: 3, Published: 1, Drafts: 2}, c)

	empty, err := s.CountByAuthor(ctx, 999)
	require.NoError(t, err)
	assert.Equal(t, AuthorCounts{}, empty)

	featured, ok, err := s.FeaturedAuthor(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "alice", featured)
}

func TestInsertLikeIsIdempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	alice := createTestUser(t, s, "alice")
	bob := createTestUser(t, s, "bob")
	p := createTestPost(t, s, alice, "likeable", StatusPublished)

	created, err := s.InsertLike(ctx, p.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.InsertLike(ctx, p.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, created)

	n, err := s.CountLikes(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = s.CountLikesForAuthor(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestCommentsAndCascadeDelete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	alice := createTestUser(t, s, "alice")
	bob := createTestUser(t, s, "bob")
	p := createTestPost(t, s, alice, "discussed", StatusPublished)

	require.NoError(t, s.InsertComment(ctx, &Comment{PostID: p.ID, AuthorID: bob.ID, Text: "first"}))
	require.NoError(t, s.InsertComment(ctx, &Comment{PostID: p.ID, AuthorID: alice.ID, Text: "second"}))
	_, err := s.InsertLike(ctx, p.ID, bob.ID)
	require.NoError(t, err)

	comments, err := s.ListComments(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Text)
	assert.Equal(t, "bob", comments[0].AuthorName)

	n, err := s.CountCommentsForAuthor(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	require.NoError(t, s.DeletePost(ctx, p.ID, alice.ID))

	n, err = s.CountComments(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = s.CountLikes(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestIncrementViews(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	alice := createTestUser(t, s, "alice")
	p := createTestPost(t, s, alice, "viewed", StatusPublished)

	require.NoError(t, s.IncrementViews(ctx, p.ID))
	require.NoError(t, s.IncrementViews(ctx, p.ID))

	got, err := s.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.Views)

	assert.ErrorIs(t, s.IncrementViews(ctx, 12345), ErrNotFound)
}

func TestWithTxRollsBack(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	alice := createTestUser(t, s, "alice")

	err := s.WithTx(ctx, func(tx *Store) error {
		if err := tx.InsertPost(ctx, &Post{AuthorID: alice.ID, Title: "t", Slug: "rolled-back", Summary: "s", Content: "c"}); err != nil {
			return err
		}
		return tx.InsertPost(ctx, &Post{AuthorID: alice.ID, Title: "t", Slug: "rolled-back", Summary: "s", Content: "c"})
	})
	require.ErrorIs(t, err, ErrSlugTaken)

	exists, err := s.SlugExists(ctx, "rolled-back")
	require.NoError(t, err)
	assert.False(t, exists)
}
