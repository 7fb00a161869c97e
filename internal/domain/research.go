package domain

import (
	"fmt"
	"strings"
)

// ResearchResult is the structured outcome of researching a topic.
type ResearchResult struct {
	Summary  string `json:"summary"`
	KeyFacts string `json:"key_facts"`
	Trends   string `json:"trends"`
	Sources  string `json:"sources"`
}

// FallbackResearch is returned when research could not be completed.
func FallbackResearch(topic string) ResearchResult {
	return ResearchResult{
		Summary:  fmt.Sprintf("Unable to research topic '%s' at this time. Please try again later.", topic),
		KeyFacts: "No key facts available.",
		Trends:   "No trends available.",
		Sources:  "No sources available.",
	}
}

// Section markers, matched against the lower-cased start of a line.
var (
	keyFactMarkers = []string{"key fact", "fact:", "•", "-"}
	trendMarkers   = []string{"trend:", "current trend", "developing:"}
	sourceMarkers  = []string{"source:", "reference:", "from:", "via:"}
)

// ParseResearch splits free-form research output into its sections.
// The summary is the first paragraph. Lines matching no marker are dropped.
func ParseResearch(text string) ResearchResult {
	summary, _, _ := strings.Cut(text, "\n\n")
	lines := strings.Split(text, "\n")
	return ResearchResult{
		Summary:  summary,
		KeyFacts: collectLines(lines, keyFactMarkers, "No key facts found."),
		Trends:   collectLines(lines, trendMarkers, "No trends found."),
		Sources:  collectLines(lines, sourceMarkers, "No sources found."),
	}
}

func collectLines(lines, markers []string, empty string) string {
	var sb strings.Builder
	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, m := range markers {
			if strings.HasPrefix(lower, m) {
				sb.WriteString(line)
				sb.WriteByte('\n')
				break
			}
		}
	}
	if out := strings.TrimSpace(sb.String()); out != "" {
		return out
	}
	return empty
}
