package blog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pubhouse/content"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Go  is   fun!  ", "go-is-fun"},
		{"Café au lait", "cafe-au-lait"},
		{"Sci-Fi/Fantasy", "sci-fi-fantasy"},
		{"2024: A Review", "2024-a-review"},
		{"!!!", ""},
		{"日本語", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"go", "web"}, ParseTags(" go, web ,go, , "))
	assert.Nil(t, ParseTags(""))
	assert.Nil(t, ParseTags(" , ,"))
}

func TestCreatePostAllocatesSequentialSlugs(t *testing.T) {
	s := newTestService(t)
	actor := newActor(t, s)

	var slugs []string
	for i := 0; i < 3; i++ {
		slugs = append(slugs, createPost(t, s, actor, "Hello World").Slug)
	}
	assert.Equal(t, []string{"hello-world", "hello-world-1", "hello-world-2"}, slugs)
}

func TestCreatePostSymbolOnlyTitle(t *testing.T) {
	s := newTestService(t)
	actor := newActor(t, s)

	assert.Equal(t, "post", createPost(t, s, actor, "!!!").Slug)
	assert.Equal(t, "post-1", createPost(t, s, actor, "???").Slug)
}

func TestCreatePostConcurrentSameTitle(t *testing.T) {
	s := newTestService(t)
	actor := newActor(t, s)

	const n = 8
	var wg sync.WaitGroup
	slugs := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := s.CreatePost(context.Background(), actor, newPostInput("Same Title"))
			errs[i] = err
			if err == nil {
				slugs[i] = p.Slug
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.False(t, seen[slugs[i]], "duplicate slug %q", slugs[i])
		seen[slugs[i]] = true
	}
	assert.True(t, seen["same-title"])
}

func TestCreatePostValidation(t *testing.T) {
	s := newTestService(t)
	actor := newActor(t, s)
	ctx := context.Background()

	_, err := s.CreatePost(ctx, actor, NewPost{Title: "  ", Summary: "", Content: "\n"})
	require.ErrorIs(t, err, ErrValidation)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Title is required.", verr.Message)
	assert.Equal(t, []string{"Title is required.", "Summary is required.", "Content is required."}, verr.Messages())

	in := newPostInput("Valid")
	in.Summary = ""
	_, err = s.CreatePost(ctx, actor, in)
	assert.Equal(t, []string{"Summary is required."}, Messages(err))

	in = newPostInput("Valid")
	in.Status = "archived"
	_, err = s.CreatePost(ctx, actor, in)
	assert.ErrorIs(t, err, ErrValidation)

	in = newPostInput("Valid")
	in.Category = "999"
	_, err = s.CreatePost(ctx, actor, in)
	assert.Equal(t, []string{"Selected category does not exist."}, Messages(err))

	in = newPostInput("Valid")
	in.Category = "abc"
	_, err = s.CreatePost(ctx, actor, in)
	assert.Equal(t, []string{"Selected category does not exist."}, Messages(err))

	in = newPostInput("Valid")
	in.Date = "01/02/2024"
	_, err = s.CreatePost(ctx, actor, in)
	assert.Equal(t, []string{"Invalid date format. Use YYYY-MM-DD."}, Messages(err))

	exists, err := s.store.SlugExists(ctx, "valid")
	require.NoError(t, err)
	assert.False(t, exists, "failed creates must not write")
}

func TestCreatePostRequiresLogin(t *testing.T) {
	s := newTestService(t)

	_, err := s.CreatePost(context.Background(), Actor{}, newPostInput("Anon"))
	assert.ErrorIs(t, err, ErrAuthorization)
}

func TestCreatePostFields(t *testing.T) {
	media := &fakeMedia{}
	s := newTestService(t, WithMediaStore(media))
	actor := newActor(t, s)

	in := newPostInput("  Full Post  ")
	in.Status = ""
	in.Category = "2"
	in.Tags = "go, web, go"
	in.Date = "2024-03-01"
	in.Image = testUpload("cover.jpg")

	p, err := s.CreatePost(context.Background(), actor, in)
	require.NoError(t, err)
	assert.Equal(t, "Full Post", p.Title)
	assert.Equal(t, "full-post", p.Slug)
	assert.Equal(t, content.StatusDraft, p.Status)
	assert.Equal(t, "Technology", p.CategoryName)
	assert.Equal(t, []string{"go", "web"}, p.TagNames())
	assert.True(t, p.CreatedAt.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "/media/cover.jpg", p.ImageURL)
	assert.NotEmpty(t, p.ImageBlurHash)
	assert.Equal(t, actor.Username, p.AuthorName)
	assert.Equal(t, []string{"cover.jpg"}, media.saved)
}

func TestCreatePostDateWithTime(t *testing.T) {
	s := newTestService(t)
	actor := newActor(t, s)

	in := newPostInput("Timed")
	in.Date = "2023-12-24T18:30"
	p, err := s.CreatePost(context.Background(), actor, in)
	require.NoError(t, err)
	assert.True(t, p.CreatedAt.Equal(time.Date(2023, 12, 24, 18, 30, 0, 0, time.UTC)))
}

func TestCreatePostImageWithoutMediaStore(t *testing.T) {
	s := newTestService(t)
	actor := newActor(t, s)

	in := newPostInput("Pictured")
	in.Image = testUpload("a.png")
	_, err := s.CreatePost(context.Background(), actor, in)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEditPost(t *testing.T) {
	s := newTestService(t)
	actor := newActor(t, s)
	ctx := context.Background()

	in := newPostInput("Original Title")
	in.Tags = "old"
	p, err := s.CreatePost(ctx, actor, in)
	require.NoError(t, err)

	edited, err := s.EditPost(ctx, actor, p.ID, PostEdit{
		Title:  ptr("New Title"),
		Status: ptr("draft"),
		Tags:   ptr("new, fresh"),
	})
	require.NoError(t, err)
	assert.Equal(t, "New Title", edited.Title)
	assert.Equal(t, "original-title", edited.Slug)
	assert.Equal(t, p.Summary, edited.Summary)
	assert.Equal(t, content.StatusDraft, edited.Status)
	assert.Equal(t, []string{"fresh", "new"}, edited.TagNames())
	assert.False(t, edited.UpdatedAt.Before(p.UpdatedAt))

	edited, err = s.EditPost(ctx, actor, p.ID, PostEdit{Category: ptr("3")})
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh", "new"}, edited.TagNames(), "nil tags keep the tag set")
	assert.Equal(t, "Lifestyle", edited.CategoryName)

	edited, err = s.EditPost(ctx, actor, p.ID, PostEdit{Category: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, edited.CategoryID)

	_, err = s.EditPost(ctx, actor, p.ID, PostEdit{Title: ptr("   ")})
	assert.Equal(t, []string{"Title is required."}, Messages(err))
}

func TestEditAndDeleteByNonAuthor(t *testing.T) {
	s := newTestService(t)
	author := newActor(t, s)
	other := newActor(t, s)
	ctx := context.Background()
	p := createPost(t, s, author, "Mine")

	_, err := s.EditPost(ctx, other, p.ID, PostEdit{Title: ptr("Stolen")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.PrepareDelete(ctx, other, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.DeletePost(ctx, other, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.PostByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Title)

	_, err = s.EditPost(ctx, author, 4242, PostEdit{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePost(t *testing.T) {
	s := newTestService(t)
	author := newActor(t, s)
	fan := newActor(t, s)
	ctx := context.Background()
	p := createPost(t, s, author, "Short Lived")

	_, err := s.Like(ctx, fan, p.ID)
	require.NoError(t, err)
	_, err = s.Comment(ctx, fan, p.ID, "nice")
	require.NoError(t, err)

	confirm, err := s.PrepareDelete(ctx, author, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, confirm.ID)

	require.NoError(t, s.DeletePost(ctx, author, p.ID))

	_, err = s.ViewPost(ctx, p.Slug)
	assert.ErrorIs(t, err, ErrNotFound)

	d, err := s.Dashboard(ctx, author)
	require.NoError(t, err)
	assert.Zero(t, d.Counts.Total)
	assert.Zero(t, d.TotalLikes)
	assert.Zero(t, d.TotalComments)
}

func TestViewPost(t *testing.T) {
	s := newTestService(t)
	author := newActor(t, s)
	reader := newActor(t, s)
	ctx := context.Background()

	in := newPostInput("Viewed Post")
	in.Tags = "go, sqlite"
	p, err := s.CreatePost(ctx, author, in)
	require.NoError(t, err)
	assert.Zero(t, p.Views)

	_, err = s.Comment(ctx, reader, p.ID, "first!")
	require.NoError(t, err)
	_, err = s.Like(ctx, reader, p.ID)
	require.NoError(t, err)

	d, err := s.ViewPost(ctx, "viewed-post")
	require.NoError(t, err)
	assert.EqualValues(t, 1, d.Post.Views)
	assert.EqualValues(t, 1, d.LikesCount)
	assert.EqualValues(t, 1, d.CommentsCount)
	require.Len(t, d.Comments, 1)
	assert.Equal(t, reader.Username, d.Comments[0].AuthorName)
	assert.Equal(t, p.Summary, d.MetaDescription)
	assert.Equal(t, "go, sqlite", d.MetaKeywords)

	d, err = s.ViewPost(ctx, "viewed-post")
	require.NoError(t, err)
	assert.EqualValues(t, 2, d.Post.Views)

	_, err = s.ViewPost(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestViewPostMetaDescriptionFallsBackToTitle(t *testing.T) {
	s := newTestService(t)
	author := newActor(t, s)
	ctx := context.Background()

	require.NoError(t, s.store.InsertPost(ctx, &content.Post{
		AuthorID: author.ID, Title: "No Summary", Slug: "no-summary", Content: "body",
		Status: content.StatusPublished,
	}))

	d, err := s.ViewPost(ctx, "no-summary")
	require.NoError(t, err)
	assert.Equal(t, "No Summary", d.MetaDescription)
	assert.Empty(t, d.MetaKeywords)
}
