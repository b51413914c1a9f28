package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wordgraph/backend/internal/app"
	"wordgraph/backend/internal/ingest"
	"wordgraph/backend/internal/snapshot"
	"wordgraph/backend/internal/source"
	"wordgraph/backend/pkg/config"
	"wordgraph/backend/pkg/logger"
)

// newRootCmd builds the command tree. Configuration comes from the same
// environment variables and .env file as the server.
func newRootCmd() *cobra.Command {
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "wordgraph",
		Short:         "Build and query the one-letter word graph",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			return logger.InitWithOptions(cfg.Env, logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	getConfig := func() *config.Config { return cfg }
	root.AddCommand(
		newIngestCmd(getConfig),
		newBuildCmd(getConfig),
		newStatsCmd(getConfig),
		newPathCmd(getConfig),
	)
	return root
}

func newIngestCmd(cfg func() *config.Config) *cobra.Command {
	var files, books []string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Add words from dictionary files or Project Gutenberg books to the datamart",
		Example: `  wordgraph ingest --file /usr/share/dict/words
  wordgraph ingest --gutenberg https://www.gutenberg.org/cache/epub/1342/pg1342.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(files) == 0 && len(books) == 0 {
				return fmt.Errorf("at least one --file or --gutenberg source is required")
			}
			c := cfg()
			log := logger.Get()

			var sources []source.WordSource
			for _, f := range files {
				dict, err := source.NewLocalDictionary(f)
				if err != nil {
					return err
				}
				sources = append(sources, dict)
			}
			client := &http.Client{Timeout: c.HTTPTimeout}
			for _, url := range books {
				book, err := source.NewGutenberg(source.GutenbergConfig{
					URL:       url,
					MinLength: c.MinWordLength,
					Client:    client,
					Logger:    log.Named("gutenberg"),
				})
				if err != nil {
					return err
				}
				sources = append(sources, book)
			}

			datamart, err := app.OpenDatamart(c, log)
			if err != nil {
				return err
			}
			defer datamart.Close()

			report, err := ingest.NewManager(datamart, c.DataLakePath, log.Named("ingest")).Process(cmd.Context(), sources...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Processing completed.")
			fmt.Fprintf(out, "Total new words added: %d\n", report.TotalNew)
			for _, length := range report.Lengths() {
				fmt.Fprintf(out, "Length %d: %d new words\n", length, report.NewByLength[length])
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&files, "file", nil, "local dictionary file, one word per line (repeatable)")
	cmd.Flags().StringArrayVar(&books, "gutenberg", nil, "Project Gutenberg book URL (repeatable)")
	return cmd
}

func newBuildCmd(cfg func() *config.Config) *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the graph from the datamart and save a snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cfg()
			log := logger.Get()
			if strategy != "" {
				c.BuildStrategy = strategy
			}

			builder, err := app.NewBuilder(c, log)
			if err != nil {
				return err
			}

			datamart, err := app.OpenDatamart(c, log)
			if err != nil {
				return err
			}
			defer datamart.Close()

			store, closeStore, err := app.OpenSnapshotStore(cmd.Context(), c, log)
			if err != nil {
				return err
			}
			defer closeStore()

			loaded, stats, err := snapshot.NewRebuilder(datamart, store, app.NewHolder(c), builder, log).Rebuild(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Graph built: %d nodes, %d edges (%s, %s)\nSnapshot: %s\n",
				stats.Nodes, stats.Edges, stats.Strategy, stats.Duration.Round(time.Millisecond), loaded.Meta.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "build strategy: bucketed or naive (default from BUILD_STRATEGY)")
	return cmd
}

func newStatsCmd(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print statistics for the saved graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := restore(cmd.Context(), cfg())
			if err != nil {
				return err
			}
			info := loaded.Analyzer.BasicInfo()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Snapshot:            %s (%s)\n", loaded.Meta.ID, loaded.Meta.Strategy)
			fmt.Fprintf(out, "Nodes:               %d\n", info.NumberOfNodes)
			fmt.Fprintf(out, "Edges:               %d\n", info.NumberOfEdges)
			fmt.Fprintf(out, "Average degree:      %.2f\n", info.AverageDegree)
			fmt.Fprintf(out, "Components:          %d\n", info.NumberOfConnectedComponents)
			fmt.Fprintf(out, "Largest component:   %d\n", info.LargestComponentSize)
			fmt.Fprintf(out, "Isolated words:      %d\n", len(loaded.Analyzer.IsolatedNodes()))
			return nil
		},
	}
}

func newPathCmd(cfg func() *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "path WORD1 WORD2",
		Short: "Print the shortest transformation path between two words",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := restore(cmd.Context(), cfg())
			if err != nil {
				return err
			}
			from := strings.ToLower(args[0])
			to := strings.ToLower(args[1])

			path := loaded.Analyzer.ShortestPath(from, to)
			if path == nil {
				return fmt.Errorf("no path found between %q and %q", from, to)
			}
			printPath(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func restore(ctx context.Context, c *config.Config) (*snapshot.Loaded, error) {
	log := logger.Get()
	store, closeStore, err := app.OpenSnapshotStore(ctx, c, log)
	if err != nil {
		return nil, err
	}
	defer closeStore()

	loaded, err := snapshot.Restore(ctx, store, app.NewHolder(c))
	if err != nil {
		return nil, err
	}
	log.Debug("Snapshot restored", zap.String("snapshot_id", loaded.Meta.ID))
	return loaded, nil
}

func printPath(w io.Writer, path []string) {
	fmt.Fprintln(w, strings.Join(path, " -> "))
	fmt.Fprintf(w, "%d steps\n", len(path)-1)
}
