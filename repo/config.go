package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"StreamerPoll/model"

	"github.com/rs/zerolog"
	"go.yaml.in/yaml/v3"
)

// Format is the encoding of a poll config document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// ConfigSource fetches the poll configuration from wherever it is kept.
type ConfigSource interface {
	Name() string
	Load(ctx context.Context) (model.PollConfig, error)
}

// pollConfigDocument is the on-disk / on-wire shape of the poll configuration.
type pollConfigDocument struct {
	PollOptions          []string               `json:"pollOptions" yaml:"pollOptions"`
	NeverPollOptions     []string               `json:"neverPollOptions,omitempty" yaml:"neverPollOptions,omitempty"`
	Messages             model.MessageTemplates `json:"messages" yaml:"messages"`
	NumberOfOptions      *int                   `json:"numberOfOptions,omitempty" yaml:"numberOfOptions,omitempty"`
	NumberOfNeverOptions *int                   `json:"numberOfNeverOptions,omitempty" yaml:"numberOfNeverOptions,omitempty"`
}

// formatFor guesses the encoding from a file name or URL path.
func formatFor(name string) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// DecodePollConfig parses a config document. Missing templates and counts are
// filled from DefaultPollConfig.
func DecodePollConfig(data []byte, format Format) (model.PollConfig, error) {
	var doc pollConfigDocument
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return model.PollConfig{}, fmt.Errorf("error decoding poll config: %w", err)
	}
	return doc.pollConfig(), nil
}

func (d pollConfigDocument) pollConfig() model.PollConfig {
	defaults := DefaultPollConfig()

	cfg := model.PollConfig{
		PollOptions:         d.PollOptions,
		NeverPollOptions:    d.NeverPollOptions,
		Messages:            d.Messages,
		OptionsPerPoll:      defaults.OptionsPerPoll,
		NeverOptionsPerPoll: defaults.NeverOptionsPerPoll,
	}
	if cfg.Messages.PollIntro == "" {
		cfg.Messages.PollIntro = defaults.Messages.PollIntro
	}
	if cfg.Messages.PollOption == "" {
		cfg.Messages.PollOption = defaults.Messages.PollOption
	}
	if cfg.Messages.PollResult == "" {
		cfg.Messages.PollResult = defaults.Messages.PollResult
	}
	if d.NumberOfOptions != nil {
		cfg.OptionsPerPoll = *d.NumberOfOptions
	}
	if d.NumberOfNeverOptions != nil {
		cfg.NeverOptionsPerPoll = *d.NumberOfNeverOptions
	}
	return cfg.Normalized()
}

func documentFor(cfg model.PollConfig) pollConfigDocument {
	options, never := cfg.OptionsPerPoll, cfg.NeverOptionsPerPoll
	return pollConfigDocument{
		PollOptions:          cfg.PollOptions,
		NeverPollOptions:     cfg.NeverPollOptions,
		Messages:             cfg.Messages,
		NumberOfOptions:      &options,
		NumberOfNeverOptions: &never,
	}
}

// LoadPollConfig loads from src and falls back to DefaultPollConfig on any failure.
// It never returns an error: a bot without its config still runs with the defaults.
func LoadPollConfig(ctx context.Context, src ConfigSource, log zerolog.Logger) model.PollConfig {
	if src == nil {
		log.Warn().Msg("no poll config source, using defaults")
		return DefaultPollConfig()
	}

	cfg, err := src.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Str("source", src.Name()).Msg("error loading poll config, using defaults")
		return DefaultPollConfig()
	}
	if len(cfg.PollOptions) == 0 {
		log.Warn().Str("source", src.Name()).Msg("poll config has no options, polls will be skipped")
	}

	log.Info().
		Str("source", src.Name()).
		Int("options", len(cfg.PollOptions)).
		Int("never", len(cfg.NeverPollOptions)).
		Int("perPoll", cfg.OptionsPerPoll).
		Msg("poll config loaded")
	return cfg
}
