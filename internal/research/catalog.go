// Package research discovers, fetches and scores external reference material
// for a topic, then synthesizes a summary with a confidence estimate.
package research

import (
	"fmt"
	"net/url"
)

// Catalog resolves a topic to candidate source URLs. Unknown topics fall back
// to a single generic search URL so a research call always has something to
// try.
type Catalog struct {
	sources map[string][]string
}

// NewCatalog returns the built-in topic table.
func NewCatalog() *Catalog {
	return &Catalog{sources: map[string][]string{
		"latest_framework_patterns": {
			"https://docs.nestjs.com/",
			"https://fastapi.tiangolo.com/",
			"https://gin-gonic.com/docs/",
			"https://github.com/microsoft/api-guidelines",
		},
		"security_best_practices": {
			"https://owasp.org/www-project-api-security/",
			"https://cheatsheetseries.owasp.org/",
			"https://github.com/OWASP/ASVS",
		},
		"observability_standards": {
			"https://opentelemetry.io/docs/",
			"https://prometheus.io/docs/",
			"https://grafana.com/docs/",
			"https://www.elastic.co/guide/",
		},
		"hexagonal_architecture": {
			"https://alistair.cockburn.us/hexagonal-architecture/",
			"https://blog.cleancoder.com/uncle-bob/2012/08/13/the-clean-architecture.html",
			"https://github.com/Sairyss/domain-driven-hexagon",
		},
		"error_handling_patterns": {
			"https://tools.ietf.org/rfc/rfc9457.txt",
			"https://github.com/microsoft/api-guidelines/blob/vNext/Guidelines.md#7102-error-condition-responses",
		},
	}}
}

// Resolve returns the candidate URLs for a topic, or the generic search
// fallback when the topic is unknown.
func (c *Catalog) Resolve(topic string) []string {
	if urls, ok := c.sources[topic]; ok {
		out := make([]string, len(urls))
		copy(out, urls)
		return out
	}
	return []string{fmt.Sprintf("https://github.com/search?q=%s", url.QueryEscape(topic))}
}
