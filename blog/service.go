// Package blog implements the publishing and engagement workflows on top of
// the content store: post creation with unique slugs, author-only editing
// and deletion, likes, comments, the author dashboard and accounts.
//
// Every operation takes the acting user explicitly as an Actor. Failures the
// user can act on are returned as *Error values of kind validation,
// authorization or not found.
package blog

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/eringen/pubhouse/content"
)

// Service runs the workflows against a content.Store.
type Service struct {
	store    *content.Store
	media    MediaStore
	metrics  *Metrics
	logger   *slog.Logger
	validate *inputValidator
	hashCost int
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithMediaStore sets where uploaded images are stored.
func WithMediaStore(m MediaStore) Option {
	return func(s *Service) { s.media = m }
}

// WithMetrics sets the counters workflow events are recorded on.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithPasswordCost sets the bcrypt cost used for new password hashes.
func WithPasswordCost(cost int) Option {
	return func(s *Service) { s.hashCost = cost }
}

// New creates a Service.
func New(store *content.Store, opts ...Option) *Service {
	s := &Service{
		store:    store,
		logger:   slog.Default(),
		validate: newInputValidator(),
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Categories lists the categories a post can be filed under.
func (s *Service) Categories(ctx context.Context) ([]content.Category, error) {
	return s.store.ListCategories(ctx)
}

// translate maps store sentinels onto workflow errors.
func translate(err error, notFoundMsg string) error {
	if errors.Is(err, content.ErrNotFound) {
		return NotFound(notFoundMsg)
	}
	return err
}
