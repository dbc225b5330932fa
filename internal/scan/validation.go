package scan

import "strings"

// Caller-facing guidance messages for rejected submissions.
const (
	MsgMissingInput = "Provide a detailed description or a clear image to begin."
	MsgNotGoods     = "This tool only supports HS code classification for goods. Please provide a specific item description."
	MsgNotSpecific  = "Please provide a more specific description (material, use, size, brand, etc.)."
)

// blockedPhrases are off-topic subjects that mark a description as not
// goods-related.
var blockedPhrases = []string{
	"weather",
	"football",
	"soccer",
	"match",
	"scores",
	"news",
	"politic",
	"election",
	"president",
	"governor",
	"import duty",
	"customs duty",
	"tariff",
	"tax rate",
	"exchange rate",
	"visa",
	"passport",
}

// blockedIntents are conversational phrasings that signal a general question
// rather than an item description.
var blockedIntents = []string{
	"tell me about",
	"what is",
	"who is",
	"how to",
	"explain",
}

// IsDescriptionSpecific requires at least 5 words and 25 characters.
func IsDescriptionSpecific(description string) bool {
	words := strings.Fields(description)
	return len(words) >= 5 && len(description) >= 25
}

// IsGoodsRelated reports whether a description is free of the off-topic
// denylist. Matching is case-insensitive substring containment.
func IsGoodsRelated(description string) bool {
	text := strings.ToLower(description)

	for _, phrase := range blockedPhrases {
		if strings.Contains(text, phrase) {
			return false
		}
	}
	for _, phrase := range blockedIntents {
		if strings.Contains(text, phrase) {
			return false
		}
	}

	return true
}

// NormalizeImageBase64 trims a submitted image payload and strips a leading
// data: URL prefix, leaving bare base64.
func NormalizeImageBase64(imageBase64 string) string {
	trimmed := strings.TrimSpace(imageBase64)
	if trimmed == "" {
		return ""
	}

	if strings.HasPrefix(strings.ToLower(trimmed), "data:") {
		if comma := strings.Index(trimmed, ","); comma > -1 && comma < len(trimmed)-1 {
			return trimmed[comma+1:]
		}
	}

	return trimmed
}
