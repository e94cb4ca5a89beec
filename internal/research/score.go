package research

import "strings"

// Relevance scores how well a fetched document matches a topic. The topic is
// lowercased, underscores become spaces, and the result is split into
// keywords; the score is the fraction of keywords present as substrings of
// the lowercased content. An empty keyword set scores 0.
func Relevance(content, topic string) float64 {
	keywords := strings.Fields(strings.ReplaceAll(strings.ToLower(topic), "_", " "))
	if len(keywords) == 0 {
		return 0.0
	}

	lower := strings.ToLower(content)
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			matches++
		}
	}
	return float64(matches) / float64(len(keywords))
}

// Confidence aggregates per-source relevance into a trust score: the average
// relevance weighted by how close the source count gets to three. No sources
// means no confidence.
func Confidence(relevances []float64) float64 {
	if len(relevances) == 0 {
		return 0.0
	}

	total := 0.0
	for _, r := range relevances {
		total += r
	}
	avg := total / float64(len(relevances))

	sourceFactor := float64(len(relevances)) / 3.0
	if sourceFactor > 1.0 {
		sourceFactor = 1.0
	}
	return avg * sourceFactor
}
