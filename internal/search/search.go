// Package search runs fuzzy phrase searches over a transcript index and
// projects the raw spans into utterance- or timestamp-relative results.
package search

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/snarg/speech-mine/internal/fuzzy"
	"github.com/snarg/speech-mine/internal/metrics"
	"github.com/snarg/speech-mine/internal/transcript"
)

// Output types.
const (
	OutputUtterance = "utterance"
	OutputTimestamp = "timestamp"
)

// DefaultTopK is the result limit NewRequest starts from.
const DefaultTopK = 10

var (
	ErrInvalidSimilarityRange = errors.New("similarity range must be between 0.0 and 1.0, with min <= max")
	ErrInvalidOutputType      = errors.New(`output type must be "utterance" or "timestamp"`)
	ErrInvalidTopK            = errors.New("top_k must be a positive integer")
	ErrNoIndex                = errors.New("no transcript loaded")
)

// Request is a fuzzy search query.
type Request struct {
	Query         string
	MinSimilarity float64
	MaxSimilarity float64
	TopK          int
	OutputType    string
}

// NewRequest returns a request with the full similarity range, the default
// top-k and utterance output.
func NewRequest(query string) Request {
	return Request{
		Query:         query,
		MinSimilarity: 0,
		MaxSimilarity: 1,
		TopK:          DefaultTopK,
		OutputType:    OutputUtterance,
	}
}

// Normalize fills the output type default and validates the request. TopK
// has no fallback here; callers that accept an omitted limit fill it in
// before calling.
func (r *Request) Normalize() error {
	if r.OutputType == "" {
		r.OutputType = OutputUtterance
	}
	if r.TopK <= 0 {
		return ErrInvalidTopK
	}
	if !(0 <= r.MinSimilarity && r.MinSimilarity <= r.MaxSimilarity && r.MaxSimilarity <= 1) {
		return ErrInvalidSimilarityRange
	}
	if r.OutputType != OutputUtterance && r.OutputType != OutputTimestamp {
		return ErrInvalidOutputType
	}
	return nil
}

// SimilarityRange echoes the requested score bounds.
type SimilarityRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Parameters echoes the effective search parameters.
type Parameters struct {
	SimilarityRange SimilarityRange `json:"similarity_range"`
	TopK            int             `json:"top_k"`
	OutputType      string          `json:"output_type"`
}

// Response is the search result envelope. Results holds []UtteranceHit or
// []TimestampHit depending on the output type. TotalMatches counts raw spans
// before projection, so it can exceed len(Results) in the utterance view.
type Response struct {
	Query            string         `json:"query"`
	SearchParameters Parameters     `json:"search_parameters"`
	TranscriptInfo   map[string]any `json:"transcript_info"`
	Results          any            `json:"results"`
	TotalMatches     int            `json:"total_matches"`
}

// Run executes req against idx. req must already be normalized.
func Run(idx *transcript.Index, req Request) *Response {
	spans := fuzzy.MatchWords(idx.Words(), req.Query,
		fuzzy.WithSimilarityRange(req.MinSimilarity, req.MaxSimilarity),
		fuzzy.WithTopK(req.TopK),
	)

	p := NewProjector(idx)
	var results any
	if req.OutputType == OutputTimestamp {
		results = p.TimestampView(spans)
	} else {
		results = p.UtteranceView(spans)
	}

	return &Response{
		Query: req.Query,
		SearchParameters: Parameters{
			SimilarityRange: SimilarityRange{Min: req.MinSimilarity, Max: req.MaxSimilarity},
			TopK:            req.TopK,
			OutputType:      req.OutputType,
		},
		TranscriptInfo: idx.Stats(),
		Results:        results,
		TotalMatches:   len(spans),
	}
}

// IndexSource yields the index searches run against.
type IndexSource interface {
	Current() *transcript.Index
}

// Service validates requests, runs them against the current index and
// records metrics. It is safe for concurrent use.
type Service struct {
	source  IndexSource
	maxTopK int
	log     zerolog.Logger
}

// NewService creates a search service. maxTopK <= 0 means no cap.
func NewService(source IndexSource, maxTopK int, log zerolog.Logger) *Service {
	return &Service{source: source, maxTopK: maxTopK, log: log}
}

// Search runs req against the index current at call time.
func (s *Service) Search(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	if err := req.Normalize(); err != nil {
		metrics.ObserveSearch(req.OutputType, "invalid", 0, time.Since(start))
		return nil, err
	}
	if s.maxTopK > 0 && req.TopK > s.maxTopK {
		req.TopK = s.maxTopK
	}

	idx := s.source.Current()
	if idx == nil {
		metrics.ObserveSearch(req.OutputType, "no_index", 0, time.Since(start))
		return nil, ErrNoIndex
	}

	resp := Run(idx, req)
	elapsed := time.Since(start)
	metrics.ObserveSearch(req.OutputType, "ok", resp.TotalMatches, elapsed)

	s.log.Debug().
		Str("query", req.Query).
		Str("output_type", req.OutputType).
		Int("top_k", req.TopK).
		Int("matches", resp.TotalMatches).
		Uint64("index_version", idx.Version()).
		Dur("elapsed", elapsed).
		Msg("search completed")
	return resp, nil
}
