package ingest

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/snarg/speech-mine/internal/transcript"
)

// ParseCSV reads a transcript CSV. Columns are matched by header name, so
// column order does not matter and missing columns read as empty cells.
// Rows with an unknown type are dropped. Only I/O and CSV syntax errors are
// returned; malformed numeric cells become absent values.
func ParseCSV(r io.Reader) ([]transcript.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	cols := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		cols[i] = strings.TrimSpace(h)
	}

	var rows []transcript.Row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		fields := make(map[string]string, len(cols))
		for i, c := range cols {
			if i < len(rec) {
				fields[c] = rec[i]
			}
		}
		if row, ok := transcript.ParseRow(fields); ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// ParseMetadata decodes a metadata JSON object.
func ParseMetadata(r io.Reader) (map[string]any, error) {
	var md map[string]any
	if err := json.NewDecoder(r).Decode(&md); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	if md == nil {
		md = map[string]any{}
	}
	return md, nil
}
