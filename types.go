package pubhouse

import (
	"github.com/eringen/pubhouse/blog"
	"github.com/eringen/pubhouse/content"
)

// SiteInfo is the public part of SiteConfig handed to templates.
type SiteInfo struct {
	Name        string
	URL         string
	Description string
	Author      string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	Keywords    string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}

// Page is embedded in every page view-model.
type Page struct {
	Site      SiteInfo
	Meta      PageMeta
	Actor     blog.Actor
	Flashes   []Flash
	CSRFToken string
}

type HomePage struct {
	Page
	Stats blog.HomeStats
}

type ExplorePage struct {
	Page
	Posts  []content.Post
	JSONLD string
}

type PostPage struct {
	Page
	Detail blog.PostDetail
	// IsAuthor is true when the viewer wrote the post.
	IsAuthor bool
	JSONLD   string
}

// PostFormPage renders both the add and the edit form. Post is nil when
// adding.
type PostFormPage struct {
	Page
	Post       *content.Post
	Categories []content.Category
}

type DeletePage struct {
	Page
	Post content.Post
}

type DashboardPage struct {
	Page
	Dashboard blog.Dashboard
}

type ProfilePage struct {
	Page
	User      content.User
	AvatarURL string
}
