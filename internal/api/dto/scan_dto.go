package dto

// ScanRequest is the body of POST /api/v1/hscode/scan. Description and
// ImageBase64 are individually optional but at least one must be present.
type ScanRequest struct {
	RequestID   string `json:"requestId"`
	Description string `json:"description"`
	ImageBase64 string `json:"imageBase64"`
}

// ScanAcceptedResponse acknowledges an admitted scan.
type ScanAcceptedResponse struct {
	RequestID string `json:"requestId,omitempty"`
	Status    string `json:"status"`
	JobID     string `json:"jobId"`
}

// SearchRequest is the body of POST /api/v1/hscode/reference/search.
type SearchRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"topK"`
}
