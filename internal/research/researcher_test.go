package research

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestResearchSynthesizesFromSources(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<p>Hexagonal architecture with ports and adapters.</p>"))
	}))
	defer srv.Close()

	r := NewResearcher(nil, NewFetcher(), nil)
	r.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	result := r.Research(context.Background(), "hexagonal_architecture", []string{srv.URL})

	if len(result.Sources) != 1 || result.Sources[0] != srv.URL {
		t.Fatalf("Sources = %v, want [%s]", result.Sources, srv.URL)
	}
	if !strings.HasPrefix(result.Summary, "Research Summary for hexagonal_architecture:") {
		t.Errorf("summary lacks header: %q", result.Summary)
	}
	if !strings.Contains(result.Summary, "1. From "+srv.URL) {
		t.Errorf("summary lacks source excerpt: %q", result.Summary)
	}
	// Curated topics also append the local pattern note.
	if !strings.Contains(result.Summary, "Local reference") {
		t.Errorf("summary lacks local knowledge note: %q", result.Summary)
	}
	// One fully relevant source: 1.0 * (1/3).
	if result.Confidence < 0.33 || result.Confidence > 0.34 {
		t.Errorf("Confidence = %v, want ~0.333", result.Confidence)
	}
	if result.LastUpdated != "2026-08-30" {
		t.Errorf("LastUpdated = %q, want 2026-08-30", result.LastUpdated)
	}
}

func TestResearchDegradesWhenAllFetchesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	r := NewResearcher(nil, NewFetcher(), nil)
	result := r.Research(context.Background(), "unknown_topic", []string{srv.URL})

	if len(result.Sources) != 0 {
		t.Errorf("Sources = %v, want empty", result.Sources)
	}
	if result.Confidence != 0.0 {
		t.Errorf("Confidence = %v, want 0", result.Confidence)
	}
	if result.Summary != "No authoritative sources found for unknown_topic" {
		t.Errorf("Summary = %q", result.Summary)
	}
}

func TestResearchDedupesAndCapsSources(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("content"))
	}))
	defer srv.Close()

	sources := []string{
		srv.URL + "/a", srv.URL + "/a", // duplicate
		srv.URL + "/b", srv.URL + "/c", srv.URL + "/d",
		srv.URL + "/e", srv.URL + "/f", // beyond the cap after dedupe
	}

	r := NewResearcher(nil, NewFetcher(), nil)
	result := r.Research(context.Background(), "some_topic", sources)

	if got := hits.Load(); got != 5 {
		t.Errorf("server hit %d times, want 5 (deduped and capped)", got)
	}
	if len(result.Sources) != 5 {
		t.Errorf("Sources = %v, want 5 entries", result.Sources)
	}
}

func TestResearchRanksTopThreeByRelevance(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/weak", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("nothing relevant here"))
	})
	mux.HandleFunc("/strong", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("circuit breaker patterns for reliability"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	r := NewResearcher(nil, NewFetcher(), nil)
	result := r.Research(context.Background(), "reliability_patterns",
		[]string{srv.URL + "/weak", srv.URL + "/strong"})

	if !strings.Contains(result.Summary, "1. From "+srv.URL+"/strong") {
		t.Errorf("most relevant source not ranked first: %q", result.Summary)
	}
}

func TestResearchUnknownTopicUsesSearchFallback(t *testing.T) {
	c := NewCatalog()
	urls := c.Resolve("totally made up topic")
	if len(urls) != 1 {
		t.Fatalf("Resolve() = %v, want single fallback", urls)
	}
	if !strings.HasPrefix(urls[0], "https://github.com/search?q=") {
		t.Errorf("fallback URL = %q", urls[0])
	}
	if strings.Contains(urls[0], " ") {
		t.Errorf("fallback URL is not escaped: %q", urls[0])
	}
}

func TestKnowledgeNoteCoverage(t *testing.T) {
	for _, topic := range []string{"hexagonal_architecture", "error_handling_patterns", "reliability_patterns"} {
		note, ok := KnowledgeNote(topic)
		if !ok {
			t.Errorf("KnowledgeNote(%q) missing", topic)
			continue
		}
		if note.Description == "" || len(note.Points) == 0 {
			t.Errorf("KnowledgeNote(%q) is empty: %+v", topic, note)
		}
	}
	if _, ok := KnowledgeNote("nope"); ok {
		t.Error("KnowledgeNote returned a note for an unknown topic")
	}
}
