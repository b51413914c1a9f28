package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "wordgraph/backend/pkg/errors"
)

func TestExtractBookID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.gutenberg.org/cache/epub/1342/pg1342.txt", "1342"},
		{"https://www.gutenberg.org/ebooks/84/", "84"},
		{"https://www.gutenberg.org/ebooks/84", "unknown"},
		{"https://example.com/book.txt", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, extractBookID(tt.url))
		})
	}
}

func TestNewGutenberg_EmptyURL(t *testing.T) {
	_, err := NewGutenberg(GutenbergConfig{URL: "  "})
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeSource))
}

func TestGutenberg_PlainText(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("The Cold cord, a CARD! It is the card of 1813."))
	}))
	defer srv.Close()

	src, err := NewGutenberg(GutenbergConfig{URL: srv.URL + "/files/1342/"})
	require.NoError(t, err)
	assert.Equal(t, "gutenberg:1342", src.Name())

	words, err := src.Words(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[int][]string{
		3: {"the"},
		4: {"card", "cold", "cord"},
	}, words)

	lake := t.TempDir()
	dest, err := src.SaveRaw(context.Background(), lake)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(lake, "gutenberg_1342.txt"), dest)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "the cold cord, a card! it is the card of 1813.", string(data))

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "book is downloaded once")
}

func TestGutenberg_DropsTokensGluedToWordCharacters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("café abc123 the_end 1st words"))
	}))
	defer srv.Close()

	src, err := NewGutenberg(GutenbergConfig{URL: srv.URL})
	require.NoError(t, err)

	words, err := src.Words(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[int][]string{5: {"words"}}, words)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"cold, cord; card.", []string{"cold", "cord", "card"}},
		{"café", nil},
		{"naïve", nil},
		{"abc123", nil},
		{"the_end", nil},
		{"1st", nil},
		{"don't", []string{"don", "t"}},
		{"(war)-and-peace", []string{"war", "and", "peace"}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenize(tt.text))
		})
	}
}

func TestGutenberg_HTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Skip</title><style>.warm{}</style></head>
<body><script>var word = 1;</script><p>Warm words</p>
<div>ward</div>
</body></html>`))
	}))
	defer srv.Close()

	src, err := NewGutenberg(GutenbergConfig{URL: srv.URL, MinLength: 4})
	require.NoError(t, err)
	assert.Equal(t, "unknown", src.BookID())

	words, err := src.Words(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[int][]string{
		4: {"ward", "warm"},
		5: {"words"},
	}, words)
}

func TestGutenberg_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	src, err := NewGutenberg(GutenbergConfig{URL: srv.URL + "/ebooks/7/"})
	require.NoError(t, err)

	_, err = src.Words(context.Background())
	require.Error(t, err)

	var fetchErr *apperrors.ErrSourceFetchFailed
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusServiceUnavailable, fetchErr.StatusCode)
	assert.True(t, apperrors.IsRetryable(err))
}
