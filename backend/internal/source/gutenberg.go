package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"wordgraph/backend/internal/constants"
	apperrors "wordgraph/backend/pkg/errors"
)

var (
	bookIDPattern = regexp.MustCompile(`/(\d+)/?`)
	tokenPattern  = regexp.MustCompile(`[a-zA-Z]+`)
)

// GutenbergConfig configures a Project Gutenberg source
type GutenbergConfig struct {
	URL       string
	MinLength int
	Client    *http.Client
	Logger    *zap.Logger
}

// Gutenberg downloads a book once and tokenizes it into ASCII words
type Gutenberg struct {
	url       string
	bookID    string
	minLength int
	client    *http.Client
	logger    *zap.Logger

	mu      sync.Mutex
	content string
	fetched bool
}

// NewGutenberg creates a source for the book at cfg.URL
func NewGutenberg(cfg GutenbergConfig) (*Gutenberg, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, apperrors.NewSourceFetchFailed("", 0, fmt.Errorf("book URL must not be empty"))
	}
	if cfg.MinLength <= 0 {
		cfg.MinLength = constants.GutenbergMinWordLength
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 60 * time.Second}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Gutenberg{
		url:       cfg.URL,
		bookID:    extractBookID(cfg.URL),
		minLength: cfg.MinLength,
		client:    cfg.Client,
		logger:    cfg.Logger,
	}, nil
}

// Name identifies the book
func (g *Gutenberg) Name() string {
	return "gutenberg:" + g.bookID
}

// BookID is the numeric id found in the URL, or "unknown"
func (g *Gutenberg) BookID() string {
	return g.bookID
}

// Words downloads the book if needed and returns its tokens
func (g *Gutenberg) Words(ctx context.Context) (map[int][]string, error) {
	content, err := g.fetch(ctx)
	if err != nil {
		return nil, err
	}

	set := make(wordSet)
	for _, tok := range tokenize(content) {
		if len(tok) < g.minLength {
			continue
		}
		set.add(len(tok), tok)
	}
	return set.sorted(), nil
}

// tokenize returns the ASCII letter runs of text that stand alone as words.
// A run touching another word character, such as "caf" in "café" or "abc"
// in "abc123", is dropped rather than cut out of the longer token.
func tokenize(text string) []string {
	var out []string
	for _, loc := range tokenPattern.FindAllStringIndex(text, -1) {
		if loc[0] > 0 {
			if r, _ := utf8.DecodeLastRuneInString(text[:loc[0]]); isWordRune(r) {
				continue
			}
		}
		if loc[1] < len(text) {
			if r, _ := utf8.DecodeRuneInString(text[loc[1]:]); isWordRune(r) {
				continue
			}
		}
		out = append(out, text[loc[0]:loc[1]])
	}
	return out
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// SaveRaw writes the downloaded text to dir/gutenberg_<id>.txt
func (g *Gutenberg) SaveRaw(ctx context.Context, dir string) (string, error) {
	content, err := g.fetch(ctx)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.NewSourceReadFailed(dir, err)
	}
	dest := filepath.Join(dir, fmt.Sprintf("gutenberg_%s.txt", g.bookID))
	if err := os.WriteFile(dest, []byte(content), 0o644); err != nil {
		return "", apperrors.NewSourceReadFailed(dest, err)
	}
	return dest, nil
}

// fetch downloads the book on first use. Failed downloads are not cached.
func (g *Gutenberg) fetch(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.fetched {
		return g.content, nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", g.url, nil)
	if err != nil {
		return "", apperrors.NewSourceFetchFailed(g.url, 0, err)
	}
	req.Header.Set("User-Agent", constants.UserAgent)
	req.Header.Set("Accept", "text/plain, text/html")

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return "", apperrors.NewSourceFetchFailed(g.url, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperrors.NewSourceFetchFailed(g.url, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewSourceFetchFailed(g.url, resp.StatusCode, err)
	}

	text := string(body)
	if strings.Contains(resp.Header.Get("Content-Type"), "html") {
		text, err = htmlToText(body)
		if err != nil {
			return "", apperrors.NewSourceFetchFailed(g.url, resp.StatusCode, err)
		}
	}

	g.content = strings.ToLower(text)
	g.fetched = true

	g.logger.Info("Downloaded book",
		zap.String("book_id", g.bookID),
		zap.Int("bytes", len(body)),
		zap.Duration("duration", time.Since(start)),
	)
	return g.content, nil
}

// htmlToText keeps the visible body text of an HTML page
func htmlToText(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript").Remove()
	return doc.Find("body").Text(), nil
}

func extractBookID(url string) string {
	if m := bookIDPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return "unknown"
}
