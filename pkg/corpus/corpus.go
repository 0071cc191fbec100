package corpus

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"github.com/autobrr/namedir/pkg/directory"
	"github.com/autobrr/namedir/pkg/httputils"
)

// maxLineBytes bounds a single name; bufio's 64KiB default is too small for some exports.
const maxLineBytes = 1 << 20

type Option func(*opener)

type opener struct {
	client *http.Client
	query  url.Values
}

// WithHTTPClient sets the client used for http(s) locations.
func WithHTTPClient(client *http.Client) Option {
	return func(o *opener) {
		o.client = client
	}
}

// WithQuery adds query parameters to http(s) locations. Filesystem paths ignore it.
func WithQuery(query url.Values) Option {
	return func(o *opener) {
		o.query = query
	}
}

// Open returns a reader over the decompressed corpus at location,
// which is a filesystem path or an http(s) URL.
func Open(ctx context.Context, location string, opts ...Option) (io.ReadCloser, error) {
	o := &opener{}
	for _, opt := range opts {
		opt(o)
	}

	raw, name, err := o.openRaw(ctx, location)
	if err != nil {
		return nil, err
	}

	rc, err := decompress(raw, name)
	if err != nil {
		raw.Close()
		return nil, errors.Wrapf(err, "decompress %q", location)
	}

	return rc, nil
}

func (o *opener) openRaw(ctx context.Context, location string) (io.ReadCloser, string, error) {
	if u, err := url.Parse(location); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		client := o.client
		if client == nil {
			client = httputils.NewRetryableHttpClient(60*time.Second, nil)
		}

		requestURL, err := httputils.URLWithQuery(location, o.query)
		if err != nil {
			return nil, "", errors.Wrapf(err, "build corpus url %q", location)
		}

		resp, err := httputils.Get(ctx, client, requestURL, map[string]string{"Accept": "text/plain"})
		if err != nil {
			// location, not requestURL: the query may carry credentials
			return nil, "", errors.Wrapf(err, "fetch corpus %q", location)
		}

		return resp.Body, u.Path, nil
	}

	f, err := os.Open(location)
	if err != nil {
		return nil, "", errors.Wrap(err, "open corpus")
	}

	return f, location, nil
}

func decompress(raw io.ReadCloser, name string) (io.ReadCloser, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".gz":
		zr, err := gzip.NewReader(raw)
		if err != nil {
			return nil, err
		}
		return &stackedReadCloser{Reader: zr, closers: []io.Closer{zr, raw}}, nil
	case ".zst", ".zstd":
		dec, err := zstd.NewReader(raw)
		if err != nil {
			return nil, err
		}
		return &stackedReadCloser{Reader: dec, closers: []io.Closer{dec.IOReadCloser(), raw}}, nil
	default:
		return raw, nil
	}
}

// stackedReadCloser closes a decompressor and its underlying source in order.
type stackedReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedReadCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// NewScanner returns a line scanner over r that accepts long lines.
func NewScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return scanner
}

// Load opens location and folds it into an Index. Any error is a load failure.
func Load(ctx context.Context, location string, opts []Option, buildOpts ...directory.BuilderOption) (*directory.Index, error) {
	rc, err := Open(ctx, location, opts...)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	idx, err := directory.BuildFrom(ctx, NewScanner(rc), buildOpts...)
	if err != nil {
		return nil, errors.Wrapf(err, "build index from %q", location)
	}

	return idx, nil
}
