package research

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/NJRca/Metapod/internal/config"
)

// Result is the outcome of one research call. It is never mutated after
// being returned.
type Result struct {
	Topic       string   `json:"topic" yaml:"topic"`
	Sources     []string `json:"sources" yaml:"sources"`
	Summary     string   `json:"summary" yaml:"summary"`
	Confidence  float64  `json:"confidence" yaml:"confidence"`
	LastUpdated string   `json:"last_updated" yaml:"lastUpdated"`
}

// summaryPreviewLength bounds the content excerpt per source in the summary.
const summaryPreviewLength = 500

// Researcher composes the catalog, fetcher and scorer into the research
// operation. Individual source failures degrade the result; they never fail
// the call.
type Researcher struct {
	catalog    *Catalog
	fetcher    *Fetcher
	logger     *slog.Logger
	maxSources int
	now        func() time.Time
}

// NewResearcher wires a researcher from its parts. Nil catalog or fetcher
// fall back to the built-in implementations.
func NewResearcher(catalog *Catalog, fetcher *Fetcher, logger *slog.Logger) *Researcher {
	if catalog == nil {
		catalog = NewCatalog()
	}
	if fetcher == nil {
		fetcher = NewFetcher()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Researcher{
		catalog:    catalog,
		fetcher:    fetcher,
		logger:     logger,
		maxSources: config.ResearchMaxSources,
		now:        time.Now,
	}
}

type fetchedSource struct {
	url       string
	content   string
	relevance float64
}

// Research resolves sources for a topic (unless the caller supplies its own),
// fetches up to the source cap, scores each document, and synthesizes a
// summary with a confidence estimate.
func (r *Researcher) Research(ctx context.Context, topic string, sources []string) Result {
	if sources == nil {
		sources = r.catalog.Resolve(topic)
	}
	sources = dedupe(sources)
	if len(sources) > r.maxSources {
		sources = sources[:r.maxSources]
	}

	var fetched []fetchedSource
	for _, src := range sources {
		content, err := r.fetcher.Fetch(ctx, src)
		if err != nil {
			r.logger.Warn("failed to fetch source", "topic", topic, "url", src, "error", err)
			continue
		}
		fetched = append(fetched, fetchedSource{
			url:       src,
			content:   content,
			relevance: Relevance(content, topic),
		})
	}

	urls := make([]string, 0, len(fetched))
	relevances := make([]float64, 0, len(fetched))
	for _, f := range fetched {
		urls = append(urls, f.url)
		relevances = append(relevances, f.relevance)
	}

	return Result{
		Topic:       topic,
		Sources:     urls,
		Summary:     r.synthesize(topic, fetched),
		Confidence:  Confidence(relevances),
		LastUpdated: r.now().UTC().Format(time.DateOnly),
	}
}

// synthesize orders fetched sources by descending relevance and concatenates
// excerpt blocks for the top three. Ties keep fetch order so the summary is
// deterministic.
func (r *Researcher) synthesize(topic string, fetched []fetchedSource) string {
	if len(fetched) == 0 {
		return fmt.Sprintf("No authoritative sources found for %s", topic)
	}

	ranked := make([]fetchedSource, len(fetched))
	copy(ranked, fetched)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].relevance > ranked[j].relevance
	})
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}

	parts := []string{fmt.Sprintf("Research Summary for %s:", topic)}
	for i, f := range ranked {
		preview := f.content
		if len(preview) > summaryPreviewLength {
			preview = preview[:summaryPreviewLength]
		}
		parts = append(parts, fmt.Sprintf("%d. From %s: %s...", i+1, f.url, preview))
	}

	if note, ok := KnowledgeNote(topic); ok {
		parts = append(parts, fmt.Sprintf("Local reference (%s): %s", note.Description, strings.Join(note.Points, "; ")))
	}

	return strings.Join(parts, "\n\n")
}

func dedupe(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
