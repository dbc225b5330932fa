// Package classifier defines the boundary to the external HS code model and
// the Ollama-backed implementation of it.
package classifier

import "context"

// Subsection is a sub-code entry attached to a candidate match.
type Subsection struct {
	HSCode string `json:"hsCode"`
	Title  string `json:"title"`
	Notes  string `json:"notes"`
}

// Match is one candidate HS code produced by the model. ReferenceColumns and
// Validated are populated later by the enrichment pipeline, never by the
// model itself.
type Match struct {
	HSCode           string            `json:"hsCode"`
	Description      string            `json:"description"`
	MatchPercent     float64           `json:"matchPercent"`
	Comment          string            `json:"comment"`
	Subsections      []Subsection      `json:"subsections,omitempty"`
	ReferenceColumns map[string]string `json:"referenceColumns,omitempty"`
	Validated        bool              `json:"validated"`
}

// ModelResponse is the structured reply expected from the model: candidate
// matches plus an optional note when the input was insufficient.
type ModelResponse struct {
	Matches []Match `json:"matches"`
	Note    string  `json:"note,omitempty"`
}

// Client is the contract the scan orchestrator requires from the external
// classifier. Implementations must honor context cancellation and must map
// unparseable model output to an empty ModelResponse with a note rather than
// an error.
type Client interface {
	Scan(ctx context.Context, description, imageBase64 string) (*ModelResponse, error)
}
