package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = `type,speaker,start,end,text,word,word_position,confidence,overlap_duration
segment,SPEAKER_01,0.0,1.72,Hello world.,,,-0.18,1.689
word,SPEAKER_01,0.0,0.5,Hello world.,Hello,0,0.95,1.689
word,SPEAKER_01,0.5,1.72,Hello world.,world.,1,0.98,1.689
segment,SPEAKER_00,2.0,3.5,How are you?,,,-0.15,1.5
word,SPEAKER_00,2.0,2.3,How are you?,How,0,0.92,1.5
word,SPEAKER_00,2.3,2.6,How are you?,are,1,0.96,1.5
word,SPEAKER_00,2.6,3.5,How are you?,you?,2,0.94,1.5
`

func writeSample(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "t.csv"), []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "t.json"), []byte(`{"language":"en","duration":3.5}`), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--env-file", "nonexistent.env"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestSearchCommand(t *testing.T) {
	dir := writeSample(t)

	t.Run("stdout", func(t *testing.T) {
		out, err := run(t, "--dir", dir, "search", "how are you?", "t.csv", "t.json",
			"--similarity-range", "0.5,1.0", "--top-k", "3")
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		var resp map[string]any
		if err := json.Unmarshal([]byte(out), &resp); err != nil {
			t.Fatalf("decode: %v\n%s", err, out)
		}
		if resp["query"] != "how are you?" {
			t.Errorf("query = %v", resp["query"])
		}
		info := resp["transcript_info"].(map[string]any)
		if info["language"] != "en" {
			t.Errorf("transcript_info = %v", info)
		}
		if resp["total_matches"].(float64) < 1 {
			t.Errorf("total_matches = %v, want >= 1", resp["total_matches"])
		}
		if !strings.Contains(out, "\n  \"query\"") {
			t.Error("expected two-space indented JSON")
		}
	})

	t.Run("save_path", func(t *testing.T) {
		save := filepath.Join(dir, "out", "results.json")
		out, err := run(t, "--dir", dir, "search", "Hello", "t.csv", "--output-type", "timestamp", "--save-path", save)
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if out != "" {
			t.Errorf("stdout = %q, want empty when saving", out)
		}
		data, err := os.ReadFile(save)
		if err != nil {
			t.Fatalf("read saved results: %v", err)
		}
		var resp map[string]any
		if err := json.Unmarshal(data, &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		params := resp["search_parameters"].(map[string]any)
		if params["output_type"] != "timestamp" {
			t.Errorf("output_type = %v", params["output_type"])
		}
	})

	t.Run("invalid_range", func(t *testing.T) {
		if _, err := run(t, "--dir", dir, "search", "x", "t.csv", "--similarity-range", "0.9,0.1"); err == nil {
			t.Error("expected error for min > max")
		}
	})

	t.Run("zero_top_k", func(t *testing.T) {
		if _, err := run(t, "--dir", dir, "search", "x", "t.csv", "--top-k", "0"); err == nil {
			t.Error("expected error for --top-k 0")
		}
	})

	t.Run("missing_csv", func(t *testing.T) {
		if _, err := run(t, "--dir", dir, "search", "x", "missing.csv"); err == nil {
			t.Error("expected error for missing csv")
		}
	})
}

func TestStatsCommand(t *testing.T) {
	dir := writeSample(t)
	out, err := run(t, "stats", filepath.Join(dir, "t.csv"), filepath.Join(dir, "t.json"))
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	var stats map[string]any
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats["total_utterances"] != 2.0 || stats["total_words"] != 5.0 || stats["duration"] != 3.5 {
		t.Errorf("stats = %v", stats)
	}
}

func TestExportCommand(t *testing.T) {
	dir := writeSample(t)
	out, err := run(t, "--dir", dir, "export", "t.csv", "--view", "segments")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var segments []map[string]any
	if err := json.Unmarshal([]byte(out), &segments); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(segments) != 2 {
		t.Errorf("got %d segments, want 2", len(segments))
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "speech-mine dev") {
		t.Errorf("version output = %q", out)
	}
}
