package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	apperrors "wordgraph/backend/pkg/errors"
)

// LocalDictionary reads one word per line from a file on disk
type LocalDictionary struct {
	path string
}

// NewLocalDictionary returns a source for path. The file must exist.
func NewLocalDictionary(path string) (*LocalDictionary, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, apperrors.NewSourceReadFailed(path, err)
	}
	if info.IsDir() {
		return nil, apperrors.NewSourceReadFailed(path, fmt.Errorf("is a directory"))
	}
	return &LocalDictionary{path: path}, nil
}

// Name returns the dictionary file name
func (d *LocalDictionary) Name() string {
	return "dictionary:" + filepath.Base(d.path)
}

// Path returns the dictionary location
func (d *LocalDictionary) Path() string {
	return d.path
}

// Words reads the dictionary. Lines are trimmed and lowercased; anything that
// is not made only of letters is skipped.
func (d *LocalDictionary) Words(ctx context.Context) (map[int][]string, error) {
	f, err := os.Open(d.path)
	if err != nil {
		return nil, apperrors.NewSourceReadFailed(d.path, err)
	}
	defer f.Close()

	set := make(wordSet)
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		w := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if isAlphabetic(w) {
			set.add(utf8.RuneCountInString(w), w)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.NewSourceReadFailed(d.path, err)
	}

	return set.sorted(), nil
}

// SaveRaw copies the dictionary file into dir
func (d *LocalDictionary) SaveRaw(ctx context.Context, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.NewSourceReadFailed(dir, err)
	}
	dest := filepath.Join(dir, filepath.Base(d.path))

	src, err := os.Open(d.path)
	if err != nil {
		return "", apperrors.NewSourceReadFailed(d.path, err)
	}
	defer src.Close()

	out, err := os.Create(dest)
	if err != nil {
		return "", apperrors.NewSourceReadFailed(dest, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return "", apperrors.NewSourceReadFailed(dest, err)
	}
	if err := out.Close(); err != nil {
		return "", apperrors.NewSourceReadFailed(dest, err)
	}
	return dest, nil
}

func isAlphabetic(w string) bool {
	if w == "" {
		return false
	}
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
