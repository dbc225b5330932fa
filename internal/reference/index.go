// Package reference maintains the in-memory index over the HS code reference
// workbook and answers exact, hierarchical and free-text queries against it.
package reference

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	// requiredHeader is the normalized form of the key column header.
	requiredHeader = "hscode"

	// DefaultTopK is used when a search request does not specify a limit.
	DefaultTopK = 5
	// MaxTopK caps the number of rows a single search may return.
	MaxTopK = 50
)

// row is one reference record: the canonical code, the raw columns keyed by
// their original header, and a lowercase blob used for text search.
type row struct {
	code       string
	columns    map[string]string
	searchText string
}

// Row is the caller-facing view of a reference record with blank and
// zero-like columns removed.
type Row struct {
	Columns map[string]string `json:"columns"`
}

// SearchResult carries ranked search output.
type SearchResult struct {
	Total int    `json:"total"`
	Rows  []Row  `json:"rows"`
	Note  string `json:"note,omitempty"`
}

// LoadResult reports the outcome of a workbook load attempt.
type LoadResult struct {
	Loaded  bool
	Message string
	Rows    int
}

// Index is the reloadable reference dataset. A single mutex serializes
// reload, lookup and search; the dataset is small and read-dominant, and a
// reload swaps the whole row slice under the lock so readers never see a
// partially built index.
type Index struct {
	path   string
	logger *slog.Logger

	mu            sync.Mutex
	rows          []row
	loadedModTime time.Time
}

// NewIndex creates an index backed by the workbook at path. The file is read
// lazily on first use.
func NewIndex(path string, logger *slog.Logger) *Index {
	return &Index{
		path:   path,
		logger: logger,
	}
}

// Reload forces the workbook to be re-read regardless of its modification
// time. Load problems are reported in the result, never as an error: the
// index simply becomes empty until a later reload succeeds.
func (ix *Index) Reload() LoadResult {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.loadLocked(true)
}

// LookupByCode finds the best row for an HS code. An exact canonical match
// wins outright; otherwise rows sharing at least the 6-digit prefix compete
// on prefix specificity, ties resolving to the smaller canonical code.
// Returns nil when the dataset is not loaded or nothing matches.
func (ix *Index) LookupByCode(code string) *Row {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if loaded := ix.loadLocked(false); !loaded.Loaded {
		return nil
	}

	match := ix.findBestByCodeLocked(code)
	if match == nil {
		return nil
	}
	return &Row{Columns: filterColumns(match.columns)}
}

// Search ranks every row against a free-text query. topK defaults to
// DefaultTopK when non-positive and is capped at MaxTopK.
func (ix *Index) Search(query string, topK int) SearchResult {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	loaded := ix.loadLocked(false)
	if !loaded.Loaded {
		return SearchResult{Rows: []Row{}, Note: loaded.Message}
	}

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return SearchResult{Rows: []Row{}, Note: "Query is required."}
	}

	requested := topK
	if requested <= 0 {
		requested = DefaultTopK
	}
	limit := requested
	if limit > MaxTopK {
		limit = MaxTopK
	}

	tokens := tokenize(trimmed)
	formatted := FormatCode(trimmed)
	lowerQuery := strings.ToLower(trimmed)

	type scoredRow struct {
		row   *row
		score int
	}

	scored := make([]scoredRow, 0, len(ix.rows))
	for i := range ix.rows {
		r := &ix.rows[i]
		score := searchScore(r, lowerQuery, tokens, formatted)
		if score > 0 {
			scored = append(scored, scoredRow{row: r, score: score})
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].row.code < scored[j].row.code
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	rows := make([]Row, len(scored))
	for i, s := range scored {
		rows[i] = Row{Columns: filterColumns(s.row.columns)}
	}

	return SearchResult{Total: len(rows), Rows: rows}
}

// BestByDescription returns the single highest-scoring row for a free-text
// query, or nil when the query is blank or nothing scores above zero.
func (ix *Index) BestByDescription(query string) *Row {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil
	}

	result := ix.Search(trimmed, 1)
	if result.Total == 0 || len(result.Rows) == 0 {
		return nil
	}
	return &result.Rows[0]
}

// loadLocked reads the workbook. When force is false and the file's
// modification time is unchanged since the last successful load, the cached
// rows are kept. Any failure empties the index and reports a message.
func (ix *Index) loadLocked(force bool) LoadResult {
	info, err := os.Stat(ix.path)
	if err != nil {
		ix.rows = nil
		ix.loadedModTime = time.Time{}
		return LoadResult{Message: fmt.Sprintf("Workbook not found at %q. Place the reference file there and retry.", ix.path)}
	}

	modTime := info.ModTime()
	if !force && len(ix.rows) > 0 && ix.loadedModTime.Equal(modTime) {
		return LoadResult{Loaded: true, Message: "Loaded", Rows: len(ix.rows)}
	}

	f, err := excelize.OpenFile(ix.path)
	if err != nil {
		ix.rows = nil
		ix.loadedModTime = time.Time{}
		return LoadResult{Message: fmt.Sprintf("Failed to read workbook: %v", err)}
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		ix.rows = nil
		ix.loadedModTime = modTime
		return LoadResult{Message: "Workbook has no worksheets."}
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		ix.rows = nil
		ix.loadedModTime = time.Time{}
		return LoadResult{Message: fmt.Sprintf("Failed to read worksheet rows: %v", err)}
	}

	headers, headerIdx := findHeaders(cells)
	if len(headers) == 0 {
		ix.rows = nil
		ix.loadedModTime = modTime
		return LoadResult{Message: "Worksheet is empty."}
	}

	codeColumn := -1
	for _, h := range headers {
		if normalizeHeader(h.name) == requiredHeader {
			codeColumn = h.column
			break
		}
	}
	if codeColumn < 0 {
		ix.rows = nil
		ix.loadedModTime = modTime
		return LoadResult{Message: "Missing required 'HS Code' column."}
	}

	parsed := make([]row, 0, len(cells))
	for i := headerIdx + 1; i < len(cells); i++ {
		columns := make(map[string]string, len(headers))
		values := make([]string, 0, len(headers))
		var code string

		for _, h := range headers {
			raw := ""
			if h.column < len(cells[i]) {
				raw = strings.TrimSpace(cells[i][h.column])
			}
			if h.column == codeColumn {
				raw = FormatCode(raw)
				code = raw
			}
			columns[h.name] = raw
			values = append(values, raw)
		}

		if code == "" {
			continue
		}

		parsed = append(parsed, row{
			code:       code,
			columns:    columns,
			searchText: strings.ToLower(strings.Join(values, " ")),
		})
	}

	ix.rows = parsed
	ix.loadedModTime = modTime
	ix.logger.Info("Reference workbook loaded",
		slog.String("path", ix.path),
		slog.Int("rows", len(parsed)),
	)

	return LoadResult{Loaded: true, Message: "Loaded", Rows: len(parsed)}
}

type header struct {
	column int
	name   string
}

// findHeaders locates the first populated row and returns its non-blank
// cells with their column positions.
func findHeaders(cells [][]string) ([]header, int) {
	for i, rowCells := range cells {
		var headers []header
		for col, cell := range rowCells {
			name := strings.TrimSpace(cell)
			if name != "" {
				headers = append(headers, header{column: col, name: name})
			}
		}
		if len(headers) > 0 {
			return headers, i
		}
	}
	return nil, -1
}

// findBestByCodeLocked implements the exact-then-hierarchical lookup.
func (ix *Index) findBestByCodeLocked(code string) *row {
	formatted := FormatCode(code)
	if formatted != "" {
		for i := range ix.rows {
			if strings.EqualFold(ix.rows[i].code, formatted) {
				return &ix.rows[i]
			}
		}
	}

	digits := digitsOf(code)
	if len(digits) < 6 {
		return nil
	}

	global6 := digits[:6]
	var regional8, country10 string
	if len(digits) >= 8 {
		regional8 = digits[:8]
	}
	if len(digits) >= 10 {
		country10 = digits[:10]
	}

	var best *row
	bestScore := -1
	for i := range ix.rows {
		candidate := &ix.rows[i]
		candidateDigits := digitsOf(candidate.code)
		if !strings.HasPrefix(candidateDigits, global6) {
			continue
		}

		score := prefixScore(candidateDigits, global6, regional8, country10)
		if score > bestScore || (score == bestScore && best != nil && candidate.code < best.code) {
			best = candidate
			bestScore = score
		}
	}

	return best
}

// prefixScore ranks a candidate by how many prefix levels it shares with the
// query. The +5 heading bonus applies only to codes carrying a full 10 digits
// whose trailing four are all zero.
func prefixScore(candidateDigits, global6, regional8, country10 string) int {
	score := 0
	if strings.HasPrefix(candidateDigits, global6) {
		score += 10
	}
	if regional8 != "" && strings.HasPrefix(candidateDigits, regional8) {
		score += 20
	}
	if country10 != "" && strings.HasPrefix(candidateDigits, country10) {
		score += 40
	}
	if len(candidateDigits) >= 10 && candidateDigits[6:10] == "0000" {
		score += 5
	}
	return score
}

// searchScore ranks a row against a free-text query.
func searchScore(r *row, lowerQuery string, tokens []string, formattedCode string) int {
	score := 0

	if formattedCode != "" {
		if strings.EqualFold(r.code, formattedCode) {
			score += 100
		} else if strings.HasPrefix(r.code, formattedCode) {
			score += 20
		}
	}

	if strings.Contains(r.searchText, lowerQuery) {
		score += 10
	}

	for _, token := range tokens {
		if strings.Contains(r.searchText, token) {
			score += 2
		}
	}

	return score
}
