// Package wordstore is the word datamart: every ingested word, keyed by its
// length, persisted in BadgerDB.
package wordstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	apperrors "wordgraph/backend/pkg/errors"
)

const keyPrefix = "words/"

// Config configures the datamart
type Config struct {
	// Path is the database directory. Required unless InMemory is set.
	Path string
	// InMemory keeps everything in RAM, for tests
	InMemory bool
	// SyncWrites fsyncs every commit
	SyncWrites bool
	Logger     *zap.Logger
}

// DefaultConfig returns a durable configuration rooted at path
func DefaultConfig(path string) Config {
	return Config{
		Path:       path,
		SyncWrites: true,
	}
}

// InMemoryConfig returns a configuration that never touches disk
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// Store holds the words known to the system grouped by length
type Store struct {
	db     *badger.DB
	logger *zap.Logger
}

// Open opens (or creates) the datamart
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, apperrors.NewStoreFailed("open", errors.New("path is required for persistent datamart"))
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, apperrors.NewStoreFailed("open", fmt.Errorf("create datamart directory %s: %w", cfg.Path, err))
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).
		WithNumVersionsToKeep(1).
		WithLogger(&badgerLogger{sugar: cfg.Logger.Sugar()})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, apperrors.NewStoreFailed("open", err)
	}

	return &Store{db: db, logger: cfg.Logger}, nil
}

// Close releases the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Merge adds words to the datamart and returns, per length present in the
// input, how many of them were not stored before. Words whose rune count does
// not match their bucket are ignored.
func (s *Store) Merge(ctx context.Context, byLength map[int][]string) (map[int]int, error) {
	added := make(map[int]int, len(byLength))

	lengths := make([]int, 0, len(byLength))
	for length := range byLength {
		lengths = append(lengths, length)
	}
	sort.Ints(lengths)

	for _, length := range lengths {
		if err := ctx.Err(); err != nil {
			return added, err
		}

		fresh, err := s.missing(length, byLength[length])
		if err != nil {
			return added, err
		}
		added[length] = len(fresh)
		if len(fresh) == 0 {
			continue
		}

		wb := s.db.NewWriteBatch()
		for _, w := range fresh {
			if err := wb.Set(wordKey(length, w), nil); err != nil {
				wb.Cancel()
				return added, apperrors.NewStoreFailed("merge", err)
			}
		}
		if err := wb.Flush(); err != nil {
			return added, apperrors.NewStoreFailed("merge", err)
		}
	}

	s.logger.Debug("Merged words into datamart", zap.Int("lengths", len(lengths)))
	return added, nil
}

// missing returns the distinct words of the batch not yet stored
func (s *Store) missing(length int, words []string) ([]string, error) {
	seen := make(map[string]struct{}, len(words))
	var fresh []string

	err := s.db.View(func(txn *badger.Txn) error {
		for _, w := range words {
			if utf8.RuneCountInString(w) != length {
				continue
			}
			if _, dup := seen[w]; dup {
				continue
			}
			seen[w] = struct{}{}

			_, err := txn.Get(wordKey(length, w))
			if errors.Is(err, badger.ErrKeyNotFound) {
				fresh = append(fresh, w)
				continue
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.NewStoreFailed("lookup", err)
	}
	return fresh, nil
}

// WordsOfLength returns the stored words of the given length, sorted
func (s *Store) WordsOfLength(length int) ([]string, error) {
	prefix := []byte(fmt.Sprintf("%s%d/", keyPrefix, length))
	words := []string{}

	err := s.scan(prefix, func(key string) {
		words = append(words, strings.TrimPrefix(key, string(prefix)))
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(words)
	return words, nil
}

// Lengths returns the word lengths present, ascending
func (s *Store) Lengths() ([]int, error) {
	set := make(map[int]struct{})
	err := s.scan([]byte(keyPrefix), func(key string) {
		if length, _, ok := parseKey(key); ok {
			set[length] = struct{}{}
		}
	})
	if err != nil {
		return nil, err
	}

	lengths := make([]int, 0, len(set))
	for l := range set {
		lengths = append(lengths, l)
	}
	sort.Ints(lengths)
	return lengths, nil
}

// AllWords returns every stored word, sorted
func (s *Store) AllWords() ([]string, error) {
	words := []string{}
	err := s.scan([]byte(keyPrefix), func(key string) {
		if _, w, ok := parseKey(key); ok {
			words = append(words, w)
		}
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(words)
	return words, nil
}

// Count returns the number of stored words per length
func (s *Store) Count() (map[int]int, error) {
	counts := make(map[int]int)
	err := s.scan([]byte(keyPrefix), func(key string) {
		if length, _, ok := parseKey(key); ok {
			counts[length]++
		}
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (s *Store) scan(prefix []byte, fn func(key string)) error {
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			fn(string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return apperrors.NewStoreFailed("scan", err)
	}
	return nil
}

func wordKey(length int, word string) []byte {
	return []byte(keyPrefix + strconv.Itoa(length) + "/" + word)
}

// parseKey splits "words/<len>/<word>"
func parseKey(key string) (int, string, bool) {
	rest, ok := strings.CutPrefix(key, keyPrefix)
	if !ok {
		return 0, "", false
	}
	lenPart, word, ok := strings.Cut(rest, "/")
	if !ok || word == "" {
		return 0, "", false
	}
	length, err := strconv.Atoi(lenPart)
	if err != nil || utf8.RuneCountInString(word) != length {
		return 0, "", false
	}
	return length, word, true
}

// badgerLogger routes badger's internal logging through zap
type badgerLogger struct {
	sugar *zap.SugaredLogger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}
