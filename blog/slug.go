package blog

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/eringen/pubhouse/content"
)

// fallbackSlug is used when a title has no ASCII letters or digits.
const fallbackSlug = "post"

// maxSlugAttempts bounds how often a create is retried after another
// writer claimed the slug between allocation and insert.
const maxSlugAttempts = 5

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	multipleHyphens = regexp.MustCompile(`-+`)
)

// Slugify converts a title to a URL-safe slug.
// "Hello World" -> "hello-world".
// "Café au lait!" -> "cafe-au-lait".
func Slugify(s string) string {
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)
	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = multipleHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// slugChecker is the part of the store the allocator needs.
type slugChecker interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// allocateSlug returns the first free slug among base, base-1, base-2, ...
func allocateSlug(ctx context.Context, store slugChecker, title string) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = fallbackSlug
	}
	candidate := base
	for n := 1; ; n++ {
		taken, err := store.SlugExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

var _ slugChecker = (*content.Store)(nil)
