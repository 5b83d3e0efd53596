// internal/workers/recommendation/refine-ranking/rerank.go
package refineranking

import (
	"fmt"
	"regexp"
	"strings"

	"autotrader-workers/internal/models"
)

// rerankItem is one entry of the JSON array the model is asked to return.
type rerankItem struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

var (
	fenceOpen  = regexp.MustCompile("^```[a-zA-Z]*\n?")
	fenceClose = regexp.MustCompile("\n?```$")
)

// stripCodeFences removes a surrounding markdown code fence, with or without
// a language tag. Models add these despite being told not to.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = fenceOpen.ReplaceAllString(s, "")
		s = fenceClose.ReplaceAllString(s, "")
	}
	return s
}

// candidateContext renders the ranked list as one bullet line per vehicle,
// the form the rerank prompt embeds.
func candidateContext(hits []models.CandidateHit) string {
	lines := make([]string, 0, len(hits))
	for _, hit := range hits {
		p := hit.Payload
		lines = append(lines, fmt.Sprintf("- [%s] %d %s %s %s (%s) - $%.0f - %s",
			hit.ID, p.Year, p.Make, p.Model, p.Trim, p.Color, p.Price, reasonText(hit)))
	}
	return strings.Join(lines, "\n")
}

func reasonText(hit models.CandidateHit) string {
	if len(hit.Reasons) == 0 {
		return fmt.Sprintf("Vector similarity score: %.3f", hit.Similarity)
	}
	return strings.Join(hit.Reasons, "; ")
}

// applyRerank reorders hits to follow the model's id sequence and relabels
// each mentioned hit with the model's reason. Ids the model invented are
// skipped; hits the model omitted keep their relative order at the tail, so
// a partial answer can never drop candidates.
func applyRerank(hits []models.CandidateHit, items []rerankItem) []models.CandidateHit {
	byID := make(map[string]int, len(hits))
	for i, hit := range hits {
		byID[hit.ID] = i
	}

	out := make([]models.CandidateHit, 0, len(hits))
	taken := make(map[string]bool, len(items))
	for _, item := range items {
		idx, ok := byID[item.ID]
		if !ok || taken[item.ID] {
			continue
		}
		taken[item.ID] = true
		hit := hits[idx]
		if item.Reason != "" {
			hit.Reasons = []string{item.Reason}
		}
		out = append(out, hit)
	}

	for _, hit := range hits {
		if !taken[hit.ID] {
			out = append(out, hit)
		}
	}
	return out
}
