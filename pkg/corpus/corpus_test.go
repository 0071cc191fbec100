package corpus

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobrr/namedir/pkg/directory"
	"github.com/autobrr/namedir/pkg/httputils"
)

const sample = "Alice\nAmy\n\nBob\nBobby\nCarl\n"

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func zstded(t *testing.T, s string) []byte {
	t.Helper()
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	return enc.EncodeAll([]byte(s), nil)
}

func TestOpen_Files(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content []byte
	}{
		{name: "plain", file: "names.txt", content: []byte(sample)},
		{name: "gzip", file: "names.txt.gz", content: gzipped(t, sample)},
		{name: "zstd", file: "names.txt.zst", content: zstded(t, sample)},
		{name: "zstd_uppercase_ext", file: "NAMES.ZST", content: zstded(t, sample)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, tt.content, 0o600))

			rc, err := Open(context.Background(), path)
			require.NoError(t, err)
			defer rc.Close()

			got, err := io.ReadAll(rc)
			require.NoError(t, err)
			assert.Equal(t, sample, string(got))
		})
	}
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := Open(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpen_CorruptGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.txt.gz")
	require.NoError(t, os.WriteFile(path, []byte("not gzip"), 0o600))

	_, err := Open(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decompress")
}

func TestOpen_HTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/names.txt.gz":
			_, _ = w.Write(gzipped(t, sample))
		case "/names.txt":
			_, _ = io.WriteString(w, sample)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := httputils.NewRetryableHttpClient(5*time.Second, nil)

	for _, p := range []string{"/names.txt", "/names.txt.gz"} {
		rc, err := Open(context.Background(), server.URL+p, WithHTTPClient(client))
		require.NoError(t, err, p)

		got, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, sample, string(got), p)
	}

	_, err := Open(context.Background(), server.URL+"/missing.txt", WithHTTPClient(client))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch corpus")
}

func TestOpen_HTTPWithQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") != "secret" || r.URL.Query().Get("v") != "2" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		_, _ = io.WriteString(w, sample)
	}))
	defer server.Close()

	client := httputils.NewRetryableHttpClient(5*time.Second, nil)

	rc, err := Open(context.Background(), server.URL+"/names.txt?v=2", WithHTTPClient(client),
		WithQuery(url.Values{"token": {"secret"}}))
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, sample, string(got))

	_, err = Open(context.Background(), server.URL+"/names.txt?v=2", WithHTTPClient(client))
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret")
}

func TestNewScanner_LongLines(t *testing.T) {
	long := strings.Repeat("a", 200*1024)
	scanner := NewScanner(strings.NewReader(long + "\nBob\n"))

	require.True(t, scanner.Scan())
	assert.Len(t, scanner.Text(), len(long))
	require.True(t, scanner.Scan())
	assert.Equal(t, "Bob", scanner.Text())
	assert.False(t, scanner.Scan())
	assert.NoError(t, scanner.Err())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.txt.zst")
	require.NoError(t, os.WriteFile(path, zstded(t, sample), 0o600))

	idx, err := Load(context.Background(), path, nil)
	require.NoError(t, err)

	assert.Equal(t, 5, idx.Count())
	assert.Equal(t, map[string]int{"A": 0, "B": 2, "C": 4}, idx.LetterIndex().Index)
}

func TestLoad_UnsortedWithVerification(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.txt")
	require.NoError(t, os.WriteFile(path, []byte("Bob\nAlice\n"), 0o600))

	_, err := Load(context.Background(), path, nil, directory.WithVerifySorted())
	require.ErrorIs(t, err, directory.ErrUnsorted)
	assert.Contains(t, err.Error(), "build index")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), nil)
	require.Error(t, err)
}
