// Package imagery loads artwork images and turns them into pixelated
// half-block cells for the terminal.
package imagery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register decoders
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultMaxBytes caps the size of a downloaded image.
const DefaultMaxBytes = 16 << 20

// ErrTooLarge is returned when an image exceeds the loader's size limit.
var ErrTooLarge = errors.New("imagery: image too large")

// Loader fetches images from http(s) URLs or local paths.
type Loader struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	logger    *log.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient sets the HTTP client used for remote images.
func WithHTTPClient(c *http.Client) LoaderOption {
	return func(l *Loader) { l.client = c }
}

// WithUserAgent sets the User-Agent header on remote requests.
func WithUserAgent(ua string) LoaderOption {
	return func(l *Loader) { l.userAgent = ua }
}

// WithMaxBytes limits how much of an image is read.
func WithMaxBytes(n int64) LoaderOption {
	return func(l *Loader) { l.maxBytes = n }
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(logger *log.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates a loader with a 20 second HTTP timeout.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		client:    &http.Client{Timeout: 20 * time.Second},
		userAgent: "guessmet/1.0",
		maxBytes:  DefaultMaxBytes,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and decodes the image at src. src is an http(s) URL, a
// file:// URL or a plain file path.
func (l *Loader) Load(ctx context.Context, src string) (image.Image, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, errors.New("imagery: empty image source")
	}

	var (
		data []byte
		err  error
	)
	switch {
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		data, err = l.fetch(ctx, src)
	default:
		data, err = l.readFile(ctx, strings.TrimPrefix(src, "file://"))
	}
	if err != nil {
		return nil, err
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imagery: decode %s: %w", src, err)
	}
	l.logger.Debug("image loaded", "src", src, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return img, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("imagery: build request: %w", err)
	}
	req.Header.Set("User-Agent", l.userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imagery: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("imagery: fetch %s: unexpected status %d", url, resp.StatusCode)
	}
	return l.readAll(resp.Body)
}

func (l *Loader) readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("imagery: open %s: %w", path, err)
	}
	defer f.Close()
	return l.readAll(f)
}

func (l *Loader) readAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("imagery: read image: %w", err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}
