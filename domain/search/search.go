package search

import (
	"strconv"
	"strings"
)

const DefaultLimit = 10

// Query represents the structured parameters of a chat history search.
// It decouples the raw chat input from the index requirements.
type Query struct {
	RawInput string // The original message from the user
	Terms    string // The actual text to search in the index
	From     string // Optional sender nickname filter
	Limit    int    // Number of results
}

// NewSearchQuery parses a raw string to extract command-line style arguments.
// Example: /find whiteboard layout --from alice --limit 5
func NewSearchQuery(input string) *Query {
	query := &Query{
		RawInput: input,
		Limit:    DefaultLimit,
	}

	parts := strings.Fields(input)
	var textTerms []string

	for i := 0; i < len(parts); i++ {
		part := parts[i]

		if strings.HasPrefix(part, "--") && i+1 < len(parts) {
			key := strings.TrimPrefix(part, "--")
			val := parts[i+1]

			switch key {
			case "from":
				query.From = val
			case "limit":
				if limit, err := strconv.Atoi(val); err == nil && limit > 0 {
					query.Limit = limit
				}
			}
			i++ // Skip the value part in next iteration
			continue
		}

		// Commands like /find are not search terms
		if !strings.HasPrefix(part, "/") {
			textTerms = append(textTerms, part)
		}
	}

	query.Terms = strings.Join(textTerms, " ")
	return query
}

func (q Query) IsEmpty() bool {
	return q.Terms == "" && q.From == ""
}
