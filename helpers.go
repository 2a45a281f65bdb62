package pubhouse

import (
	"encoding/json"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/eringen/pubhouse/content"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// parseID parses a positive numeric path parameter.
func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// WebsiteJSONLD returns a JSON-LD string for a WebSite schema.
func WebsiteJSONLD(site SiteInfo) string {
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        site.Name,
		"url":         BuildURL(site.URL),
		"description": site.Description,
	}
	if site.Author != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  site.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJSONLD returns a JSON-LD string for a BlogPosting schema.
func BlogPostingJSONLD(post content.Post, site SiteInfo) string {
	postURL := BuildURL(site.URL, "post", post.Slug)
	data := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Summary,
		"datePublished": post.CreatedAt.Format(time.RFC3339),
		"dateModified":  post.UpdatedAt.Format(time.RFC3339),
		"url":           postURL,
		"author": map[string]string{
			"@type": "Person",
			"name":  post.AuthorName,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if site.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  site.Name,
		}
	}
	if post.ImageURL != "" {
		data["image"] = BuildURL(site.URL) + strings.TrimPrefix(post.ImageURL, "/")
	}
	if tags := post.TagNames(); len(tags) > 0 {
		data["keywords"] = strings.Join(tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
