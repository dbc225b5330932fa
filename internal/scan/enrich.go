package scan

import (
	"strings"

	"github.com/pbes/hscode-service/internal/classifier"
	"github.com/pbes/hscode-service/internal/reference"
)

// Enricher reconciles classifier candidates against the reference index.
type Enricher struct {
	index *reference.Index
}

// NewEnricher creates an enricher backed by the given index.
func NewEnricher(index *reference.Index) *Enricher {
	return &Enricher{index: index}
}

// Enrich cross-references each candidate match. The candidate's code is
// normalized and looked up hierarchically; when that fails, the original
// query and then the candidate's own description are tried as text searches.
// Reconciled dataset columns replace the candidate's code and description
// where present, and are attached only when the match validated.
func (e *Enricher) Enrich(matches []classifier.Match, query string) []classifier.Match {
	if len(matches) == 0 {
		return []classifier.Match{}
	}

	enriched := make([]classifier.Match, 0, len(matches))
	for _, match := range matches {
		normalized := reference.FormatCode(match.HSCode)
		if normalized == "" {
			normalized = match.HSCode
		}

		var columns map[string]string
		if row := e.index.LookupByCode(normalized); row != nil {
			columns = row.Columns
		}
		if len(columns) == 0 {
			if row := e.index.BestByDescription(query); row != nil {
				columns = row.Columns
			}
		}
		if len(columns) == 0 {
			if row := e.index.BestByDescription(match.Description); row != nil {
				columns = row.Columns
			}
		}

		validated := len(columns) > 0

		code := normalized
		if v := columnValue(columns, "HS Code"); v != "" {
			code = v
		}
		description := match.Description
		if v := columnValue(columns, "Description"); v != "" {
			description = v
		}

		out := match
		out.HSCode = code
		out.Description = description
		out.Validated = validated
		if validated {
			out.ReferenceColumns = columns
		} else {
			out.ReferenceColumns = nil
		}

		enriched = append(enriched, out)
	}

	return enriched
}

// columnValue fetches a column by name, matching keys case-insensitively so
// "HS Code" and "hs code" header spellings both resolve.
func columnValue(columns map[string]string, key string) string {
	for k, v := range columns {
		if strings.EqualFold(k, key) {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}
