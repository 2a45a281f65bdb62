package blog

import (
	"context"
	"io"
)

// Upload is an image submitted with a form.
type Upload struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// Media is a stored image: the public URL and a blurhash placeholder.
type Media struct {
	URL      string
	BlurHash string
}

// MediaStore persists uploaded images.
type MediaStore interface {
	Save(ctx context.Context, up Upload) (Media, error)
}

// ErrNoMediaStore is returned when an image is submitted but no MediaStore
// is configured.
var ErrNoMediaStore = Validation("Image uploads are not enabled.")

func (s *Service) saveImage(ctx context.Context, up *Upload) (*Media, error) {
	if up == nil {
		return nil, nil
	}
	if s.media == nil {
		return nil, ErrNoMediaStore
	}
	m, err := s.media.Save(ctx, *up)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
