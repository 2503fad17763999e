package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/snarg/speech-mine/internal/config"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	envFile  string
	logLevel string
	dir      string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	rootCmd := &cobra.Command{
		Use:   "speech-mine",
		Short: "Index and fuzzy-search diarized transcripts",
		Long: `speech-mine loads a word-level transcript CSV (with optional metadata
JSON), indexes it by utterance, and answers word lookups and fuzzy phrase
searches from the command line or over HTTP.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.envFile, "env-file", "", "Path to .env file (default .env)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flags.dir, "dir", "", "Transcript directory (overrides TRANSCRIPT_DIR)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(flags),
		newSearchCmd(flags),
		newStatsCmd(flags),
		newExportCmd(flags),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "speech-mine %s (%s, %s)\n", version, commit, buildDate)
		},
	}
}

// loadConfig applies the persistent flags as config overrides.
func (f *rootFlags) loadConfig(o config.Overrides) (*config.Config, error) {
	o.EnvFile = f.envFile
	o.LogLevel = f.logLevel
	o.TranscriptDir = f.dir
	return config.Load(o)
}

// newLogger builds the process logger at the configured level.
func newLogger(w io.Writer, levelName string) zerolog.Logger {
	level, err := zerolog.ParseLevel(levelName)
	if err != nil || levelName == "" {
		level = zerolog.InfoLevel
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(level)
}

// writeJSON writes v as indented JSON without HTML escaping.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
