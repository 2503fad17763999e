package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/snarg/speech-mine/internal/transcript"
)

type staticSource struct{ idx *transcript.Index }

func (s staticSource) Current() *transcript.Index { return s.idx }

func TestCollector(t *testing.T) {
	t.Run("nil_source_reports_zero", func(t *testing.T) {
		if n := testutil.CollectAndCount(NewCollector(nil)); n != 4 {
			t.Errorf("collected %d metrics, want 4", n)
		}
	})

	t.Run("live_index", func(t *testing.T) {
		pos := 0
		idx := transcript.Build([]transcript.Row{
			{Kind: transcript.KindSegment, Text: "Hi there."},
			{Kind: transcript.KindWord, Text: "Hi there.", Word: "Hi", WordPosition: &pos},
		}, transcript.WithVersion(3), transcript.WithLoadedAt(time.Unix(1700000000, 0)))

		expected := `
# HELP speech_mine_index_utterances Utterances in the loaded transcript.
# TYPE speech_mine_index_utterances gauge
speech_mine_index_utterances 1
# HELP speech_mine_index_version Load generation of the live index.
# TYPE speech_mine_index_version gauge
speech_mine_index_version 3
`
		err := testutil.CollectAndCompare(NewCollector(staticSource{idx}), strings.NewReader(expected),
			"speech_mine_index_utterances", "speech_mine_index_version")
		if err != nil {
			t.Error(err)
		}
	})
}

func TestObserveSearch(t *testing.T) {
	okBefore := testutil.ToFloat64(SearchesTotal.WithLabelValues("utterance", "ok"))
	invalidBefore := testutil.ToFloat64(SearchesTotal.WithLabelValues("timestamp", "invalid"))

	ObserveSearch("utterance", "ok", 4, time.Millisecond)
	ObserveSearch("timestamp", "invalid", 0, time.Microsecond)

	if got := testutil.ToFloat64(SearchesTotal.WithLabelValues("utterance", "ok")) - okBefore; got != 1 {
		t.Errorf("ok searches delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(SearchesTotal.WithLabelValues("timestamp", "invalid")) - invalidBefore; got != 1 {
		t.Errorf("invalid searches delta = %v, want 1", got)
	}
}

func TestInstrumentHandler(t *testing.T) {
	r := chi.NewRouter()
	r.Use(InstrumentHandler)
	r.Get("/api/v1/utterances/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	counter := HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/utterances/{id}", "418")
	before := testutil.ToFloat64(counter)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/v1/utterances/7", nil))

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("request counter delta = %v, want 1", got)
	}
}

var _ prometheus.Collector = (*Collector)(nil)
