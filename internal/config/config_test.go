package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cleanup := setEnvs(t, map[string]string{
		"TRANSCRIPT_DIR": "/srv/transcripts",
		"S3_BUCKET":      "",
	})
	defer cleanup()

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load(Overrides{EnvFile: "nonexistent.env"})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.HTTPAddr != ":8080" {
			t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
		}
		if cfg.LogLevel != "info" {
			t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
		}
		if cfg.TranscriptCSV != "transcript.csv" {
			t.Errorf("TranscriptCSV = %q, want transcript.csv", cfg.TranscriptCSV)
		}
		if cfg.TranscriptMetadata != "" {
			t.Errorf("TranscriptMetadata = %q, want empty", cfg.TranscriptMetadata)
		}
		if !cfg.WatchEnabled {
			t.Error("WatchEnabled = false, want true")
		}
		if cfg.ReadTimeout != 5*time.Second {
			t.Errorf("ReadTimeout = %v, want 5s", cfg.ReadTimeout)
		}
		if cfg.SearchDefaultTopK != 10 || cfg.SearchMaxTopK != 1000 {
			t.Errorf("search top-k = %d/%d, want 10/1000", cfg.SearchDefaultTopK, cfg.SearchMaxTopK)
		}
		if cfg.S3.Region != "us-east-1" {
			t.Errorf("S3.Region = %q, want us-east-1", cfg.S3.Region)
		}
		if cfg.S3.Enabled() {
			t.Error("S3.Enabled() = true with no bucket")
		}
	})

	t.Run("env_vars_read", func(t *testing.T) {
		cfg, err := Load(Overrides{EnvFile: "nonexistent.env"})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.TranscriptDir != "/srv/transcripts" {
			t.Errorf("TranscriptDir = %q, want /srv/transcripts", cfg.TranscriptDir)
		}
	})

	t.Run("cli_overrides_take_priority", func(t *testing.T) {
		cfg, err := Load(Overrides{
			EnvFile:            "nonexistent.env",
			HTTPAddr:           ":9090",
			LogLevel:           "debug",
			TranscriptDir:      "/tmp/override",
			TranscriptCSV:      "meeting.csv",
			TranscriptMetadata: "meeting_metadata.json",
		})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.HTTPAddr != ":9090" {
			t.Errorf("HTTPAddr = %q, want :9090", cfg.HTTPAddr)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
		}
		if cfg.TranscriptDir != "/tmp/override" {
			t.Errorf("TranscriptDir = %q, want override", cfg.TranscriptDir)
		}
		if cfg.TranscriptCSV != "meeting.csv" {
			t.Errorf("TranscriptCSV = %q, want meeting.csv", cfg.TranscriptCSV)
		}
		if cfg.TranscriptMetadata != "meeting_metadata.json" {
			t.Errorf("TranscriptMetadata = %q, want meeting_metadata.json", cfg.TranscriptMetadata)
		}
	})

	t.Run("empty_overrides_use_env", func(t *testing.T) {
		cfg, err := Load(Overrides{EnvFile: "nonexistent.env"})
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		// Empty override fields should not overwrite env values
		if cfg.TranscriptDir != "/srv/transcripts" {
			t.Errorf("TranscriptDir = %q, want env value", cfg.TranscriptDir)
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	cleanup := setEnvs(t, map[string]string{"S3_BUCKET": "", "SEARCH_MAX_TOP_K": ""})
	defer cleanup()
	os.Unsetenv("S3_BUCKET")
	os.Unsetenv("SEARCH_MAX_TOP_K")

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("S3_BUCKET=transcripts\nSEARCH_MAX_TOP_K=25\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(Overrides{EnvFile: path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.S3.Enabled() || cfg.S3.Bucket != "transcripts" {
		t.Errorf("S3.Bucket = %q, want transcripts", cfg.S3.Bucket)
	}
	if cfg.SearchMaxTopK != 25 {
		t.Errorf("SearchMaxTopK = %d, want 25", cfg.SearchMaxTopK)
	}
}

func TestLoadInvalidValue(t *testing.T) {
	cleanup := setEnvs(t, map[string]string{"HTTP_READ_TIMEOUT": "soon"})
	defer cleanup()

	if _, err := Load(Overrides{EnvFile: "nonexistent.env"}); err == nil {
		t.Error("expected error for unparseable duration")
	}
}

// setEnvs sets environment variables and returns a cleanup function.
func setEnvs(t *testing.T, envs map[string]string) func() {
	t.Helper()
	originals := make(map[string]string)
	unset := make([]string, 0)

	for k, v := range envs {
		if orig, ok := os.LookupEnv(k); ok {
			originals[k] = orig
		} else {
			unset = append(unset, k)
		}
		os.Setenv(k, v)
	}

	return func() {
		for k, v := range originals {
			os.Setenv(k, v)
		}
		for _, k := range unset {
			os.Unsetenv(k)
		}
	}
}
