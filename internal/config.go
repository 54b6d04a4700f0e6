package internal

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	LogLevel  string `env:"LOG_LEVEL,default=INFO"`
	Nickname  string `env:"NICKNAME"`
	DebugPort int    `env:"DEBUG_PORT,default=8081" validate:"gte=0,lte=65535"`

	BadgerFilepath string `env:"BADGER_FILEPATH,required=true" validate:"required"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,required=true" validate:"required"`
	LimitMessages  *int   `env:"LIMIT_MESSAGES" validate:"omitempty,gt=0"`

	BufferSize           int           `env:"BUFFER_SIZE,default=256" validate:"gt=0"`
	SinkTimeout          time.Duration `env:"SINK_TIMEOUT,default=500ms" validate:"gt=0"`
	SendTimeout          time.Duration `env:"SEND_TIMEOUT,default=2s" validate:"gt=0"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=1s" validate:"gt=0"`
	MetricInterval       time.Duration `env:"METRIC_INTERVAL,default=5s" validate:"gt=0"`
	LowCapacityThreshold int           `env:"LOW_CAPACITY_THRESHOLD,default=10" validate:"gte=0,lte=100"`
	SearchBatchSize      int           `env:"SEARCH_BATCH_SIZE,default=20" validate:"gt=0"`
	SearchFlushTimeout   time.Duration `env:"SEARCH_FLUSH_TIMEOUT,default=1s" validate:"gt=0"`
	ActivitySize         int           `env:"ACTIVITY_SIZE,default=50" validate:"gt=0"`

	EnableModeration bool   `env:"ENABLE_MODERATION,default=true"`
	CharReplacement  string `env:"CHARACTER_REPLACEMENT,default=*"`

	ListenAddr     string        `env:"LISTEN_ADDR,default=:0"`
	AdvertiseHost  string        `env:"ADVERTISE_HOST"`
	BeaconAddr     string        `env:"BEACON_ADDR,default=255.255.255.255"`
	BeaconPort     int           `env:"BEACON_PORT,default=47474" validate:"gt=0,lte=65535"`
	BeaconInterval time.Duration `env:"BEACON_INTERVAL,default=1s" validate:"gt=0"`
	PeerTTL        time.Duration `env:"PEER_TTL,default=5s" validate:"gtfield=BeaconInterval"`
	SendQueue      int           `env:"SEND_QUEUE,default=64" validate:"gt=0"`
	AnswerTimeout  time.Duration `env:"ANSWER_TIMEOUT,default=30s" validate:"gt=0"`

	TextWidth  float64 `env:"TEXT_WIDTH,default=200" validate:"gt=0"`
	TextHeight float64 `env:"TEXT_HEIGHT,default=50" validate:"gt=0"`
}

// Validate checks the ranges the environment tags cannot express.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := CharacterRune(c.CharReplacement); err != nil {
		return err
	}
	return nil
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
