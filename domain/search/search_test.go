package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSearchQuery(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Query
	}{
		{
			name:     "terms only",
			input:    "/find sticky notes",
			expected: Query{RawInput: "/find sticky notes", Terms: "sticky notes", Limit: DefaultLimit},
		},
		{
			name:     "sender and limit",
			input:    "/find layout --from alice --limit 3",
			expected: Query{RawInput: "/find layout --from alice --limit 3", Terms: "layout", From: "alice", Limit: 3},
		},
		{
			name:     "invalid limit keeps the default",
			input:    "/find layout --limit -2",
			expected: Query{RawInput: "/find layout --limit -2", Terms: "layout", Limit: DefaultLimit},
		},
		{
			name:     "dangling flag is a term",
			input:    "/find --from",
			expected: Query{RawInput: "/find --from", Terms: "--from", Limit: DefaultLimit},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			req.Equal(tt.expected, *NewSearchQuery(tt.input))
		})
	}
}
