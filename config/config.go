package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"chessbot/meta"
	"chessbot/searcher"
	"chessbot/speech"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Search      searcher.Config   `yaml:"search"`
	Goroutines  int               `yaml:"goroutines"`
	Duration    time.Duration     `yaml:"duration"`
	TrialBudget int               `yaml:"trial_budget"`
	Seed        *uint64           `yaml:"seed"`
	TopN        int               `yaml:"top_n"`
	LogLevel    string            `yaml:"log_level"`
	Speech      SpeechConfig      `yaml:"speech"`
	Server      ServerConfig      `yaml:"server"`
	Experiments ExperimentsConfig `yaml:"experiments"`
}

// SpeechLog is the speech command that writes announcements to the log.
const SpeechLog = "log"

type SpeechConfig struct {
	Enabled bool     `yaml:"enabled"`
	Command string   `yaml:"command"` // External program, or SpeechLog
	Args    []string `yaml:"args"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type ExperimentsConfig struct {
	Dir      string `yaml:"dir"`
	Games    int    `yaml:"games"`
	MaxPlies int    `yaml:"max_plies"`
	Compress bool   `yaml:"compress"`
	Remote   string `yaml:"remote"` // Ranking service played by the remote experiment
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Search: searcher.Config{
			MovesAhead:           meta.MOVES_AHEAD,
			Cautiousness:         meta.CAUTIOUSNESS,
			DefenseToAttackRatio: meta.DEFENSE_TO_ATTACK_RATIO,
		},
		Goroutines: meta.GO_ROUTINES,
		TopN:       meta.TOP_N,
		LogLevel:   "info",
		Speech:     SpeechConfig{Command: "espeak"},
		Server:     ServerConfig{Addr: meta.LISTEN_ADDR},
		Experiments: ExperimentsConfig{
			Dir:      "experiments",
			Games:    10,
			MaxPlies: meta.MAX_PLIES,
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	if err := Decode(f, &cfg); err != nil {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}
	return cfg, nil
}

// Decode strictly decodes YAML from r into cfg and validates the result.
func Decode(r io.Reader, cfg *Config) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode config: %w", err)
	}
	return cfg.Validate()
}

func (c Config) Validate() error {
	if err := c.Search.Validate(); err != nil {
		return err
	}
	if c.Goroutines < 1 {
		return fmt.Errorf("%w: goroutines %d must be at least 1", ErrInvalid, c.Goroutines)
	}
	if c.Duration < 0 {
		return fmt.Errorf("%w: duration %s is negative", ErrInvalid, c.Duration)
	}
	if c.TrialBudget < 0 {
		return fmt.Errorf("%w: trial budget %d is negative", ErrInvalid, c.TrialBudget)
	}
	if c.TopN < 1 {
		return fmt.Errorf("%w: top n %d must be at least 1", ErrInvalid, c.TopN)
	}
	if c.Speech.Enabled && c.Speech.Command == "" {
		return fmt.Errorf("%w: speech enabled without a command", ErrInvalid)
	}
	if c.Experiments.Games < 1 {
		return fmt.Errorf("%w: experiment games %d must be at least 1", ErrInvalid, c.Experiments.Games)
	}
	if c.Experiments.MaxPlies < 1 {
		return fmt.Errorf("%w: experiment max plies %d must be at least 1", ErrInvalid, c.Experiments.MaxPlies)
	}
	return nil
}

// RankerOptions translates the search settings into searcher options.
func (c Config) RankerOptions() []searcher.Option {
	options := []searcher.Option{searcher.WithGoroutines(c.Goroutines)}
	if c.Duration > 0 {
		options = append(options, searcher.WithDuration(c.Duration))
	}
	if c.TrialBudget > 0 {
		options = append(options, searcher.WithTrialBudget(c.TrialBudget))
	}
	if c.Seed != nil {
		options = append(options, searcher.WithSeed(*c.Seed))
	}
	return options
}

// Announcer returns the announcer selected by the speech settings.
func (c Config) Announcer(logger zerolog.Logger) speech.Announcer {
	switch {
	case !c.Speech.Enabled:
		return speech.Nop
	case c.Speech.Command == SpeechLog:
		return speech.NewLog(logger)
	}
	return speech.NewCommand(c.Speech.Command, c.Speech.Args...)
}

// NewRanker builds a ranker from the configuration.
func (c Config) NewRanker(extra ...searcher.Option) (*searcher.Ranker, error) {
	return searcher.NewRanker(c.Search, append(c.RankerOptions(), extra...)...)
}
