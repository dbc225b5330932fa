package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsDescriptionSpecific(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        bool
	}{
		{
			name:        "single word",
			description: "red",
			want:        false,
		},
		{
			name:        "enough words but too short",
			description: "a b c d e",
			want:        false,
		},
		{
			name:        "long but too few words",
			description: "polytetrafluoroethylene-coated cookware",
			want:        false,
		},
		{
			name:        "specific item",
			description: "2kg stainless steel pressure cooker with glass lid",
			want:        true,
		},
		{
			name:        "empty",
			description: "",
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDescriptionSpecific(tt.description))
		})
	}
}

func TestIsGoodsRelated(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        bool
	}{
		{
			name:        "ordinary item",
			description: "2kg stainless steel pressure cooker with glass lid",
			want:        true,
		},
		{
			name:        "off-topic subject",
			description: "what's the weather in Lagos today",
			want:        false,
		},
		{
			name:        "conversational intent",
			description: "tell me about stainless steel cookware",
			want:        false,
		},
		{
			name:        "duty question",
			description: "import duty on frozen chicken",
			want:        false,
		},
		{
			name:        "case insensitive",
			description: "WHAT IS the capital of France",
			want:        false,
		},
		{
			name:        "denylist word inside larger context",
			description: "football boots with molded studs",
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsGoodsRelated(tt.description))
		})
	}
}

func TestNormalizeImageBase64(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare base64 passes through",
			input: "aW1hZ2VieXRlcw==",
			want:  "aW1hZ2VieXRlcw==",
		},
		{
			name:  "data url prefix stripped",
			input: "data:image/png;base64,aW1hZ2VieXRlcw==",
			want:  "aW1hZ2VieXRlcw==",
		},
		{
			name:  "uppercase scheme stripped",
			input: "DATA:image/jpeg;base64,aW1hZ2VieXRlcw==",
			want:  "aW1hZ2VieXRlcw==",
		},
		{
			name:  "surrounding whitespace trimmed",
			input: "  aW1hZ2VieXRlcw==  ",
			want:  "aW1hZ2VieXRlcw==",
		},
		{
			name:  "data url with empty payload kept verbatim",
			input: "data:image/png;base64,",
			want:  "data:image/png;base64,",
		},
		{
			name:  "empty",
			input: "   ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeImageBase64(tt.input))
		})
	}
}
