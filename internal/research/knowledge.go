package research

// PatternNote is a locally curated reference for a well-known topic. Notes
// supplement fetched sources in the synthesized summary; they are not counted
// as sources and never affect confidence.
type PatternNote struct {
	Description string
	Points      []string
}

var knowledgeBase = map[string]PatternNote{
	"hexagonal_architecture": {
		Description: "Ports and Adapters pattern for clean architecture",
		Points: []string{
			"Ports: interfaces defining business operations",
			"Adapters: implementations for external systems",
			"Core: pure business logic without dependencies",
		},
	},
	"error_handling_patterns": {
		Description: "Problem Details for HTTP APIs (RFC 9457)",
		Points: []string{
			"type: URI identifying the problem type",
			"title: human-readable summary",
			"status: HTTP status code",
			"detail: human-readable explanation",
		},
	},
	"reliability_patterns": {
		Description: "Defensive patterns for fragile dependencies",
		Points: []string{
			"Timeouts prevent indefinite blocking on external calls",
			"Retry with exponential backoff handles transient failures",
			"Circuit breakers prevent cascade failures",
			"Bulkheads isolate critical resources",
		},
	},
}

// KnowledgeNote returns the curated note for a topic, if one exists.
func KnowledgeNote(topic string) (PatternNote, bool) {
	note, ok := knowledgeBase[topic]
	return note, ok
}
