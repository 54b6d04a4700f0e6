// Package moderation masks forbidden words in chat lines and whiteboard text.
package moderation

import (
	"log/slog"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Moderator matches a dictionary against folded text: lower case, leet speak mapped back
// to letters, punctuation and spaces skipped. Matches are masked in the original text.
type Moderator struct {
	log     *slog.Logger
	matcher *goahocorasick.Machine
	mask    rune
}

// NewModerator builds the automaton once. Words without any letter are skipped.
func NewModerator(words []string, mask rune, log *slog.Logger) (*Moderator, error) {
	patterns := make([][]rune, 0, len(words))
	for _, word := range words {
		folded, _ := fold(word)
		if len(folded) == 0 {
			log.Debug("Skipping censored word without letters", "word", word)
			continue
		}
		patterns = append(patterns, folded)
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{log: log, matcher: m, mask: mask}, nil
}

// Censor returns text with every match masked, spacing and punctuation around matches kept,
// and the folded words that matched in order of appearance.
func (m *Moderator) Censor(text string) (string, []string) {
	folded, origin := fold(text)
	if len(folded) == 0 {
		return text, nil
	}
	hits := m.matcher.MultiPatternSearch(folded, false)
	if len(hits) == 0 {
		return text, nil
	}

	runes := []rune(text)
	words := make([]string, 0, len(hits))
	for _, hit := range hits {
		end := hit.Pos + len(hit.Word)
		if hit.Pos < 0 || end > len(origin) {
			continue
		}
		// from the first to the last matched rune, noise in between included
		for i := origin[hit.Pos]; i <= origin[end-1]; i++ {
			runes[i] = m.mask
		}
		words = append(words, string(hit.Word))
	}
	return string(runes), words
}

// fold returns the searchable form of s and, for each folded rune, its index in s.
func fold(s string) ([]rune, []int) {
	runes := []rune(s)
	folded := make([]rune, 0, len(runes))
	origin := make([]int, 0, len(runes))
	for i, r := range runes {
		r = unleet(r)
		if unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
			continue
		}
		folded = append(folded, unicode.ToLower(r))
		origin = append(origin, i)
	}
	return folded, origin
}

func unleet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}
