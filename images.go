package pubhouse

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bbrks/go-blurhash"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/image/draw"

	"github.com/eringen/pubhouse/blog"
)

const (
	maxImageWidth = 800
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
	blurHashWidth = 32
	nameAlphabet  = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// DiskMedia stores uploaded images as downsized JPEGs in a directory served
// under urlPrefix.
type DiskMedia struct {
	dir       string
	urlPrefix string
}

// NewDiskMedia creates a DiskMedia writing into dir.
func NewDiskMedia(dir, urlPrefix string) *DiskMedia {
	return &DiskMedia{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}
}

// Save decodes the upload, resizes it to at most maxImageWidth, re-encodes
// it as JPEG and writes it under a unique name.
func (m *DiskMedia) Save(_ context.Context, up blog.Upload) (blog.Media, error) {
	if up.Size > maxUploadSize {
		return blog.Media{}, blog.Validation("Image is too large (max 10MB).")
	}
	src, err := up.Open()
	if err != nil {
		return blog.Media{}, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	data, hash, err := processImage(io.LimitReader(src, maxUploadSize+1))
	if err != nil {
		return blog.Media{}, blog.Validation("Invalid image: " + err.Error())
	}

	id, err := gonanoid.Generate(nameAlphabet, 10)
	if err != nil {
		return blog.Media{}, fmt.Errorf("generate image name: %w", err)
	}
	name := id + ".jpg"
	if base := slugifyFilename(up.Name); base != "" {
		name = base + "-" + name
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return blog.Media{}, fmt.Errorf("create media dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(m.dir, name), data, 0o644); err != nil {
		return blog.Media{}, fmt.Errorf("write image: %w", err)
	}
	return blog.Media{URL: m.urlPrefix + "/" + name, BlurHash: hash}, nil
}

// processImage decodes an image from src, resizes it to maxImageWidth if
// wider, and encodes it as JPEG. It also returns a blurhash placeholder.
func processImage(src io.Reader) ([]byte, string, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", fmt.Errorf("encode jpeg: %w", err)
	}

	hash, err := blurhash.Encode(4, 3, thumbnail(img))
	if err != nil {
		return nil, "", fmt.Errorf("encode blurhash: %w", err)
	}
	return buf.Bytes(), hash, nil
}

// thumbnail shrinks img for blurhash computation, which needs very little
// resolution.
func thumbnail(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() <= blurHashWidth {
		return img
	}
	th := b.Dy() * blurHashWidth / b.Dx()
	if th < 1 {
		th = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, blurHashWidth, th))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// slugifyFilename converts a filename (without extension) to a URL-safe slug.
func slugifyFilename(name string) string {
	ext := filepath.Ext(name)
	return blog.Slugify(strings.TrimSuffix(filepath.Base(name), ext))
}
