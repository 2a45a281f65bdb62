package blog

import (
	"context"

	"github.com/eringen/pubhouse/content"
)

// HomeStats is what the landing page shows a logged-in user.
type HomeStats struct {
	Latest         *content.Post
	PublishedCount int64
	UserCount      int64
	FeaturedAuthor string
}

// Explore returns every published post, newest first.
func (s *Service) Explore(ctx context.Context) ([]content.Post, error) {
	return s.store.ListPublished(ctx, 0)
}

// Home gathers the landing page statistics.
func (s *Service) Home(ctx context.Context, actor Actor) (*HomeStats, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	var st HomeStats
	latest, err := s.store.ListPublished(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(latest) > 0 {
		st.Latest = &latest[0]
	}
	if st.PublishedCount, err = s.store.CountPublished(ctx); err != nil {
		return nil, err
	}
	if st.UserCount, err = s.store.CountUsers(ctx); err != nil {
		return nil, err
	}
	if st.FeaturedAuthor, _, err = s.store.FeaturedAuthor(ctx); err != nil {
		return nil, err
	}
	return &st, nil
}
