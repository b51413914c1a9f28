// Package ingest moves words from sources into the datamart, archiving the
// raw inputs in the data lake along the way.
package ingest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"wordgraph/backend/internal/source"
)

// MaxConcurrentSources bounds how many sources are fetched at once
const MaxConcurrentSources = 4

// Merger is the part of the datamart ingestion writes to
type Merger interface {
	Merge(ctx context.Context, byLength map[int][]string) (map[int]int, error)
}

// SourceReport describes what one source contributed
type SourceReport struct {
	Name    string      `json:"name"`
	RawPath string      `json:"raw_path"`
	Words   map[int]int `json:"words"`
}

// Report summarizes an ingestion run
type Report struct {
	Sources     []SourceReport `json:"sources"`
	NewByLength map[int]int    `json:"new_by_length"`
	TotalNew    int            `json:"total_new"`
	Duration    time.Duration  `json:"duration"`
}

// Lengths returns the lengths in NewByLength, ascending
func (r Report) Lengths() []int {
	lengths := make([]int, 0, len(r.NewByLength))
	for l := range r.NewByLength {
		lengths = append(lengths, l)
	}
	sort.Ints(lengths)
	return lengths
}

// Manager runs ingestion against one datamart and data lake
type Manager struct {
	store    Merger
	dataLake string
	logger   *zap.Logger
}

// NewManager creates an ingestion manager
func NewManager(store Merger, dataLake string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:    store,
		dataLake: dataLake,
		logger:   logger,
	}
}

// Process archives and reads every source concurrently, then merges all words
// into the datamart. Nothing is merged if any source fails.
func (m *Manager) Process(ctx context.Context, sources ...source.WordSource) (*Report, error) {
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentSources)

	reports := make([]SourceReport, len(sources))
	merged := make(map[int]map[string]struct{})
	var mu sync.Mutex

	for i, src := range sources {
		idx := i
		s := src
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			rawPath, err := s.SaveRaw(gctx, m.dataLake)
			if err != nil {
				return fmt.Errorf("archive %s: %w", s.Name(), err)
			}

			words, err := s.Words(gctx)
			if err != nil {
				return fmt.Errorf("read %s: %w", s.Name(), err)
			}

			counts := make(map[int]int, len(words))
			mu.Lock()
			for length, list := range words {
				counts[length] = len(list)
				bucket, ok := merged[length]
				if !ok {
					bucket = make(map[string]struct{}, len(list))
					merged[length] = bucket
				}
				for _, w := range list {
					bucket[w] = struct{}{}
				}
			}
			mu.Unlock()

			reports[idx] = SourceReport{Name: s.Name(), RawPath: rawPath, Words: counts}
			m.logger.Info("Source read",
				zap.String("source", s.Name()),
				zap.String("raw_path", rawPath),
				zap.Int("lengths", len(words)),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	byLength := make(map[int][]string, len(merged))
	for length, bucket := range merged {
		list := make([]string, 0, len(bucket))
		for w := range bucket {
			list = append(list, w)
		}
		sort.Strings(list)
		byLength[length] = list
	}

	added, err := m.store.Merge(ctx, byLength)
	if err != nil {
		return nil, fmt.Errorf("merge into datamart: %w", err)
	}

	report := &Report{
		Sources:     reports,
		NewByLength: added,
		Duration:    time.Since(start),
	}
	for _, n := range added {
		report.TotalNew += n
	}

	m.logger.Info("Ingestion completed",
		zap.Int("sources", len(sources)),
		zap.Int("new_words", report.TotalNew),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}
