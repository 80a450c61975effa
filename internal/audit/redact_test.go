package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactMetadata(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]any
		expected map[string]any
	}{
		{
			name:     "nil stays nil",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty stays empty",
			input:    map[string]any{},
			expected: map[string]any{},
		},
		{
			name:  "sensitive keys replaced, others pass through",
			input: map[string]any{"notes": "steward rejected: incomplete data", "status": "draft"},
			expected: map[string]any{
				"notes":  RedactionToken,
				"status": "draft",
			},
		},
		{
			name:  "payload redacted regardless of value type",
			input: map[string]any{"payload": map[string]any{"rows": 12}, "count": 12},
			expected: map[string]any{
				"payload": RedactionToken,
				"count":   12,
			},
		},
		{
			name: "redaction is shallow: nested sensitive keys pass through",
			input: map[string]any{
				"context": map[string]any{"note": "inner value survives"},
			},
			expected: map[string]any{
				"context": map[string]any{"note": "inner value survives"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RedactMetadata(tt.input))
		})
	}
}

func TestRedactMetadataDoesNotMutateInput(t *testing.T) {
	input := map[string]any{"note": "original"}
	_ = RedactMetadata(input)
	assert.Equal(t, "original", input["note"])
}
