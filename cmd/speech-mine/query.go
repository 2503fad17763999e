package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/snarg/speech-mine/internal/config"
	"github.com/snarg/speech-mine/internal/ingest"
	"github.com/snarg/speech-mine/internal/search"
	"github.com/snarg/speech-mine/internal/storage"
	"github.com/snarg/speech-mine/internal/transcript"
)

// loadLocal builds an index from a CSV path and optional metadata path.
// Relative paths resolve against --dir when it is set.
func loadLocal(ctx context.Context, dir string, args []string) (*transcript.Index, error) {
	l := &ingest.Loader{Store: storage.NewLocalStore(dir), CSVKey: args[0]}
	if len(args) > 1 {
		l.MetadataKey = args[1]
	}
	for _, key := range []string{l.CSVKey, l.MetadataKey} {
		if key != "" && !l.Store.Exists(ctx, key) {
			return nil, fmt.Errorf("file not found: %s", filepath.Join(dir, key))
		}
	}
	return l.Load(ctx, 1)
}

// cliLogger logs to stderr so stdout stays clean JSON.
func cliLogger(flags *rootFlags) zerolog.Logger {
	cfg, err := flags.loadConfig(config.Overrides{})
	level := flags.logLevel
	if err == nil {
		level = cfg.LogLevel
	}
	return newLogger(zerolog.ConsoleWriter{Out: os.Stderr}, level)
}

func newSearchCmd(flags *rootFlags) *cobra.Command {
	var (
		simRange   []float64
		topK       int
		outputType string
		savePath   string
	)
	cmd := &cobra.Command{
		Use:   "search QUERY CSV [METADATA]",
		Short: "Fuzzy-search a transcript for a phrase",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := cliLogger(flags)
			if len(simRange) != 2 {
				return fmt.Errorf("--similarity-range takes exactly two values, got %d", len(simRange))
			}

			req := search.NewRequest(args[0])
			req.MinSimilarity, req.MaxSimilarity = simRange[0], simRange[1]
			req.TopK = topK
			req.OutputType = outputType
			if err := req.Normalize(); err != nil {
				return err
			}

			idx, err := loadLocal(cmd.Context(), flags.dir, args[1:])
			if err != nil {
				return err
			}
			log.Info().
				Int("words", idx.WordCount()).
				Int("segments", len(idx.Segments())).
				Str("query", req.Query).
				Float64("min_similarity", req.MinSimilarity).
				Float64("max_similarity", req.MaxSimilarity).
				Int("top_k", req.TopK).
				Msg("searching transcript")

			resp := search.Run(idx, req)
			if resp.TotalMatches == 0 {
				log.Info().Msg("no matches found within the similarity range")
			} else {
				log.Info().Int("matches", resp.TotalMatches).Msg("search complete")
			}

			if savePath == "" {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			if dir := filepath.Dir(savePath); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
			}
			f, err := os.Create(savePath)
			if err != nil {
				return fmt.Errorf("create %s: %w", savePath, err)
			}
			defer f.Close()
			if err := writeJSON(f, resp); err != nil {
				return fmt.Errorf("write %s: %w", savePath, err)
			}
			log.Info().Str("path", savePath).Msg("results saved")
			return nil
		},
	}
	cmd.Flags().Float64SliceVar(&simRange, "similarity-range", []float64{0, 1}, "Minimum and maximum similarity, e.g. 0.7,1.0")
	cmd.Flags().IntVar(&topK, "top-k", search.DefaultTopK, "Maximum number of results")
	cmd.Flags().StringVar(&outputType, "output-type", search.OutputUtterance, "Result view: utterance or timestamp")
	cmd.Flags().StringVar(&savePath, "save-path", "", "Write results to this JSON file instead of stdout")
	return cmd
}

func newStatsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats CSV [METADATA]",
		Short: "Print transcript statistics",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := loadLocal(cmd.Context(), flags.dir, args)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), idx.Stats())
		},
	}
}

func newExportCmd(flags *rootFlags) *cobra.Command {
	var view string
	cmd := &cobra.Command{
		Use:   "export CSV [METADATA]",
		Short: "Export the indexed transcript as JSON",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := loadLocal(cmd.Context(), flags.dir, args)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), idx.Export(view))
		},
	}
	cmd.Flags().StringVar(&view, "view", transcript.ViewCombined, "words, segments, utterances or json")
	return cmd
}
