package internal

import (
	"testing"
	"time"

	"github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func required(t *testing.T) {
	t.Setenv("BADGER_FILEPATH", t.TempDir())
	t.Setenv("BLUGE_FILEPATH", t.TempDir())
}

func TestConfig_Defaults(t *testing.T) {
	req := require.New(t)
	required(t)

	var config Config
	_, err := env.UnmarshalFromEnviron(&config)

	req.NoError(err)
	req.NoError(config.Validate())
	req.Equal(256, config.BufferSize)
	req.Equal(5*time.Second, config.PeerTTL)
	req.Equal("*", config.CharReplacement)
	req.True(config.EnableModeration)
	req.Nil(config.LimitMessages)
}

func TestConfig_StorageIsRequired(t *testing.T) {
	req := require.New(t)
	required(t)
	var config Config
	_, err := env.UnmarshalFromEnviron(&config)
	req.NoError(err)

	config.BlugeFilepath = ""

	req.Error(config.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "replacement is more than a character", key: "CHARACTER_REPLACEMENT", value: "##"},
		{name: "peers expire before the next beacon", key: "PEER_TTL", value: "500ms"},
		{name: "no buffer", key: "BUFFER_SIZE", value: "0"},
		{name: "threshold is a percentage", key: "LOW_CAPACITY_THRESHOLD", value: "140"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			required(t)
			t.Setenv(tt.key, tt.value)

			var config Config
			_, err := env.UnmarshalFromEnviron(&config)
			req.NoError(err)

			req.Error(config.Validate())
		})
	}
}

func TestCharacterRune(t *testing.T) {
	req := require.New(t)
	r, err := CharacterRune("#")
	req.NoError(err)
	req.Equal('#', r)

	_, err = CharacterRune("")
	req.Error(err)
}
