// Package content is the SQLite-backed store for users, posts, categories,
// tags, likes and comments.
package content

import "time"

// Status is the lifecycle state of a post.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// User is an account that can author posts, like and comment.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	// ImageURL is the uploaded profile image, nil when none was set.
	ImageURL  *string
	CreatedAt time.Time
}

// Category groups posts. A post references at most one.
type Category struct {
	ID   int64
	Name string
}

// Tag is a free-form label attached to posts.
type Tag struct {
	ID   int64
	Name string
}

// Post is a publishable content item.
type Post struct {
	ID            int64
	AuthorID      int64
	AuthorName    string
	CategoryID    *int64
	CategoryName  string
	Title         string
	Slug          string
	Summary       string
	Content       string
	Status        Status
	ImageURL      string
	ImageBlurHash string
	Views         int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Tags          []Tag
}

// Link returns the canonical path of the post.
func (p Post) Link() string {
	return "/post/" + p.Slug + "/"
}

// Published reports whether the post is visible in public listings.
func (p Post) Published() bool {
	return p.Status == StatusPublished
}

// TagNames returns the names of the post's tags in order.
func (p Post) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Name)
	}
	return names
}

// Comment is an append-only remark on a post.
type Comment struct {
	ID         int64
	PostID     int64
	AuthorID   int64
	AuthorName string
	Text       string
	CreatedAt  time.Time
}

// AuthorCounts aggregates the posts of one author by status.
type AuthorCounts struct {
	Total     int64 `db:"total"`
	Published int64 `db:"published"`
	Drafts    int64 `db:"drafts"`
}
