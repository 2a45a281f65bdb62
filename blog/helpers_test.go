package blog

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/eringen/pubhouse/content"
)

var userSeq atomic.Int64

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	store, err := content.Open(filepath.Join(t.TempDir(), "blog.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	opts = append([]Option{WithPasswordCost(bcrypt.MinCost)}, opts...)
	return New(store, opts...)
}

// newActor registers a user with random details and returns it as an Actor.
func newActor(t *testing.T, s *Service) Actor {
	t.Helper()
	n := userSeq.Add(1)
	u, err := s.CreateUser(context.Background(),
		fmt.Sprintf("%s%d", strings.ReplaceAll(Slugify(gofakeit.Username()), "-", ""), n),
		fmt.Sprintf("user%d.%s", n, gofakeit.Email()),
		"secret123")
	require.NoError(t, err)
	return Actor{ID: u.ID, Username: u.Username}
}

func newPostInput(title string) NewPost {
	return NewPost{
		Title:   title,
		Summary: gofakeit.Sentence(8),
		Content: gofakeit.Paragraph(2, 3, 10, "\n\n"),
		Status:  string(content.StatusPublished),
	}
}

func createPost(t *testing.T, s *Service, actor Actor, title string) *content.Post {
	t.Helper()
	p, err := s.CreatePost(context.Background(), actor, newPostInput(title))
	require.NoError(t, err)
	return p
}

type fakeMedia struct {
	mu    sync.Mutex
	saved []string
}

func (f *fakeMedia) Save(_ context.Context, up Upload) (Media, error) {
	rc, err := up.Open()
	if err != nil {
		return Media{}, err
	}
	defer rc.Close()
	if _, err := io.ReadAll(rc); err != nil {
		return Media{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, up.Name)
	return Media{URL: "/media/" + up.Name, BlurHash: "LEHV6nWB2yk8"}, nil
}

func testUpload(name string) *Upload {
	return &Upload{
		Name: name,
		Size: 4,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("data")), nil
		},
	}
}

func ptr[T any](v T) *T { return &v }
