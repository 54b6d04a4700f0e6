package moderation

import (
	"log/slog"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newTestModerator(t *testing.T, words ...string) *Moderator {
	mod, err := NewModerator(words, '#', logs.GetLoggerFromLevel(slog.LevelDebug))
	require.NoError(t, err)
	return mod
}

func TestModerator_Censor(t *testing.T) {
	// Words long enough not to hide inside ordinary ones
	mod := newTestModerator(t, "idiot", "stupid", "shut up")

	tests := []struct {
		name  string
		input string
		want  string
		words []string
	}{
		{name: "single word", input: "what an idiot move", want: "what an ***** move", words: []string{"idiot"}},
		{name: "repeated", input: "idiot idiot", want: "***** *****", words: []string{"idiot", "idiot"}},
		{name: "leet speak", input: "5tup1d sketch", want: "****** sketch", words: []string{"stupid"}},
		{name: "noise inside the word", input: "so S.T.U.P.I.D", want: "so ***********", words: []string{"stupid"}},
		{name: "phrase across spaces", input: "just shut up!", want: "just *******!", words: []string{"shutup"}},
		{name: "accents kept", input: "été idiot", want: "été *****", words: []string{"idiot"}},
		{name: "clean text", input: "move the sticky note left", want: "move the sticky note left"},
		{name: "only noise", input: "... !!", want: "... !!"},
		{name: "empty", input: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			got, words := mod.Censor(tt.input)
			req.Equal(tt.want, got)
			if tt.words == nil {
				req.Empty(words)
				return
			}
			req.Equal(tt.words, words)
		})
	}
}

func TestModerator_SkipsWordsWithoutLetters(t *testing.T) {
	req := require.New(t)

	// Given a dictionary polluted with noise
	mod := newTestModerator(t, "...", ",,,", "", "idiot")

	// Then noise in a message is left alone
	got, words := mod.Censor("hello ... ,,,")
	req.Equal("hello ... ,,,", got)
	req.Empty(words)

	got, _ = mod.Censor("hello idiot")
	req.Equal("hello *****", got)
}
