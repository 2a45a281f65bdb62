package views

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/pubhouse"
	"github.com/eringen/pubhouse/blog"
	"github.com/eringen/pubhouse/content"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func basePage(actor blog.Actor) pubhouse.Page {
	return pubhouse.Page{
		Site:      pubhouse.SiteInfo{Name: "Test Blog", URL: "http://example.com"},
		Meta:      pubhouse.PageMeta{Title: "Title", URL: "http://example.com/", OGType: "website"},
		Actor:     actor,
		Flashes:   []pubhouse.Flash{{Level: pubhouse.FlashSuccess, Text: "Saved!"}},
		CSRFToken: "tok123",
	}
}

func samplePost() content.Post {
	cat := int64(2)
	return content.Post{
		ID:           7,
		AuthorID:     1,
		AuthorName:   "alice",
		CategoryID:   &cat,
		CategoryName: "Technology",
		Title:        "Hello <World>",
		Slug:         "hello-world",
		Summary:      "A summary",
		Content:      "First line\nsecond line\n\nNext <b>para</b>",
		Status:       content.StatusPublished,
		CreatedAt:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Tags:         []content.Tag{{ID: 1, Name: "go"}, {ID: 2, Name: "web"}},
	}
}

func TestLayoutShowsFlashesAndAnonymousNav(t *testing.T) {
	out := render(t, Default().Login(basePage(blog.Actor{})))
	assert.Contains(t, out, "<title>Title | Test Blog</title>")
	assert.Contains(t, out, `class="flash flash-success"`)
	assert.Contains(t, out, "Saved!")
	assert.Contains(t, out, `href="/signup/"`)
	assert.Contains(t, out, `value="tok123"`)
	assert.NotContains(t, out, "Log out")
}

func TestLayoutLoggedInNav(t *testing.T) {
	out := render(t, Default().Terms(basePage(blog.Actor{ID: 1, Username: "alice"})))
	assert.Contains(t, out, "Log out")
	assert.Contains(t, out, `href="/dashboard/"`)
	assert.Contains(t, out, "Terms of Service")
}

func TestPostPageEscapesContent(t *testing.T) {
	p := samplePost()
	out := render(t, Default().Post(pubhouse.PostPage{
		Page: basePage(blog.Actor{ID: 2, Username: "bob"}),
		Detail: blog.PostDetail{
			Post:          p,
			LikesCount:    3,
			CommentsCount: 1,
			Comments:      []content.Comment{{AuthorName: "bob", Text: "Nice!", CreatedAt: p.CreatedAt}},
		},
		JSONLD: `{"@type":"BlogPosting"}`,
	}))
	assert.Contains(t, out, "Hello &lt;World&gt;")
	assert.Contains(t, out, "<p>First line<br>second line</p>")
	assert.Contains(t, out, "Next &lt;b&gt;para&lt;/b&gt;")
	assert.Contains(t, out, `<script type="application/ld+json">{"@type":"BlogPosting"}</script>`)
	assert.Contains(t, out, "3 likes · 1 comments")
	assert.Contains(t, out, `action="/post/7/like/"`)
	assert.Contains(t, out, "Nice!")
	assert.NotContains(t, out, `href="/edit_post/7/"`)
}

func TestPostPageAuthorSeesEditLinks(t *testing.T) {
	out := render(t, Default().Post(pubhouse.PostPage{
		Page:     basePage(blog.Actor{ID: 1, Username: "alice"}),
		Detail:   blog.PostDetail{Post: samplePost()},
		IsAuthor: true,
	}))
	assert.Contains(t, out, `href="/edit_post/7/"`)
	assert.Contains(t, out, `href="/delete_post/7/"`)
	assert.NotContains(t, out, `action="/post/7/like/"`)
}

func TestPostFormAddAndEdit(t *testing.T) {
	cats := []content.Category{{ID: 1, Name: "Lifestyle"}, {ID: 2, Name: "Technology"}}
	actor := blog.Actor{ID: 1, Username: "alice"}

	add := render(t, Default().PostForm(pubhouse.PostFormPage{Page: basePage(actor), Categories: cats}))
	assert.Contains(t, add, `action="/add_post/"`)
	assert.Contains(t, add, `name="date"`)
	assert.NotContains(t, add, " selected>")

	p := samplePost()
	edit := render(t, Default().PostForm(pubhouse.PostFormPage{Page: basePage(actor), Post: &p, Categories: cats}))
	assert.Contains(t, edit, `action="/edit_post/7/"`)
	assert.Contains(t, edit, `<option value="2" selected>Technology</option>`)
	assert.Contains(t, edit, `value="go, web"`)
	assert.Contains(t, edit, `<option value="published" selected>`)
	assert.NotContains(t, edit, `name="date"`)
}

func TestDashboardPage(t *testing.T) {
	u := content.User{ID: 1, Username: "alice", Email: "alice@example.com"}
	out := render(t, Default().Dashboard(pubhouse.DashboardPage{
		Page: basePage(blog.Actor{ID: 1, Username: "alice"}),
		Dashboard: blog.Dashboard{
			User:       u,
			Counts:     content.AuthorCounts{Total: 3, Published: 2, Drafts: 1},
			Posts:      []content.Post{samplePost()},
			TotalLikes: 4,
			AvatarURL:  blog.AvatarURL(u),
		},
	}))
	assert.Contains(t, out, "Total posts: 3")
	assert.Contains(t, out, "Published: 2")
	assert.Contains(t, out, "Drafts: 1")
	assert.Contains(t, out, "Likes received: 4")
	assert.Contains(t, out, "Write your first post")
	assert.Contains(t, out, `href="/edit_post/7/"`)
}

func TestHomeAndExplore(t *testing.T) {
	p := samplePost()
	actor := blog.Actor{ID: 1, Username: "alice"}
	home := render(t, Default().Home(pubhouse.HomePage{
		Page:  basePage(actor),
		Stats: blog.HomeStats{Latest: &p, PublishedCount: 1, UserCount: 2, FeaturedAuthor: "alice"},
	}))
	assert.Contains(t, home, "Welcome back, alice")
	assert.Contains(t, home, "Featured author: alice")
	assert.Contains(t, home, `href="/post/hello-world/"`)

	empty := render(t, Default().Explore(pubhouse.ExplorePage{Page: basePage(blog.Actor{})}))
	assert.Contains(t, empty, "No posts yet.")
}

func TestParagraphs(t *testing.T) {
	assert.Equal(t, "", string(paragraphs("   ")))
	assert.Equal(t, "<p>a<br>b</p>\n<p>c</p>\n", string(paragraphs("a\r\nb\r\n\r\n\r\nc")))
}

func TestExploreEmbedsWebsiteSchema(t *testing.T) {
	p := samplePost()
	out := render(t, Default().Explore(pubhouse.ExplorePage{
		Page:   basePage(blog.Actor{}),
		Posts:  []content.Post{p},
		JSONLD: pubhouse.WebsiteJSONLD(pubhouse.SiteInfo{Name: "Test Blog", URL: "http://example.com"}),
	}))
	assert.Contains(t, out, `"@type":"WebSite"`)
	assert.Contains(t, out, `<a href="/post/hello-world/">Hello &lt;World&gt;</a>`)
	assert.Contains(t, out, `<span class="tag">go</span>`)
}
