package classifier

import (
	"encoding/json"
	"strings"
)

const unparseableNote = "Unable to parse model response. Please refine the item description."

// parseModelContent turns the chat message content into a ModelResponse.
// Content may arrive as an embedded JSON object or as a string; strings get
// progressively more lenient treatment: direct decode, code-fence stripping,
// then brace-delimited extraction. Nothing parseable yields zero matches with
// a note, never an error.
func parseModelContent(content json.RawMessage) *ModelResponse {
	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return &ModelResponse{Matches: []Match{}, Note: "No response from model."}
	}

	// Structured content: the model honored the format schema.
	if trimmed[0] == '{' || trimmed[0] == '[' {
		if resp := tryDecodeResponse(trimmed); resp != nil {
			return resp
		}
		return &ModelResponse{Matches: []Match{}, Note: unparseableNote}
	}

	var text string
	if err := json.Unmarshal(content, &text); err != nil {
		return &ModelResponse{Matches: []Match{}, Note: unparseableNote}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return &ModelResponse{Matches: []Match{}, Note: "No response from model."}
	}

	text = stripCodeFences(text)

	if resp := tryDecodeResponse(text); resp != nil {
		return resp
	}
	if resp := tryDecodeResponse(extractJSONObject(text)); resp != nil {
		return resp
	}

	return &ModelResponse{Matches: []Match{}, Note: unparseableNote}
}

// tryDecodeResponse decodes a candidate JSON document, returning nil when it
// is empty or malformed.
func tryDecodeResponse(candidate string) *ModelResponse {
	if strings.TrimSpace(candidate) == "" {
		return nil
	}

	var resp ModelResponse
	if err := json.Unmarshal([]byte(candidate), &resp); err != nil {
		return nil
	}

	if resp.Matches == nil {
		resp.Matches = []Match{}
	}
	return &resp
}

// extractJSONObject pulls the outermost {...} span out of surrounding prose.
func extractJSONObject(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return ""
	}
	return content[start : end+1]
}

// stripCodeFences removes a leading ```lang fence and its closing fence.
func stripCodeFences(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}

	firstNewline := strings.Index(content, "\n")
	if firstNewline < 0 {
		return content
	}

	stripped := content[firstNewline+1:]
	if lastFence := strings.LastIndex(stripped, "```"); lastFence >= 0 {
		stripped = stripped[:lastFence]
	}

	return strings.TrimSpace(stripped)
}
