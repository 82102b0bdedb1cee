package config

import (
	"errors"
	"fmt"
	"time"

	"StreamerPoll/poll"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Settings is the process configuration, read from the environment at startup.
type Settings struct {
	BotToken string `env:"POLL_BOT_TOKEN"`

	ConfigPath string `env:"POLL_CONFIG_PATH" envDefault:"config.json"`
	ConfigURL  string `env:"POLL_CONFIG_URL"`

	FirebaseServiceAccountKeyPath string `env:"FIREBASE_SERVICE_ACCOUNT_KEY_PATH"`
	FirebaseDatabaseURL           string `env:"FIREBASE_DATABASE_URL"`
	FirebaseConfigPath            string `env:"FIREBASE_POLL_CONFIG_PATH" envDefault:"pollConfig"`

	NATSURL             string `env:"NATS_URL"`
	NATSInboundSubject  string `env:"NATS_INBOUND_SUBJECT" envDefault:"chat.messages"`
	NATSOutboundSubject string `env:"NATS_OUTBOUND_SUBJECT" envDefault:"chat.outbound"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY"`

	BaseChance       float64       `env:"POLL_BASE_CHANCE" envDefault:"0.1"`
	ChanceIncrement  float64       `env:"POLL_CHANCE_INCREMENT" envDefault:"0.05"`
	MaxChance        float64       `env:"POLL_MAX_CHANCE" envDefault:"0.5"`
	CooldownMessages int           `env:"POLL_COOLDOWN_MESSAGES" envDefault:"10"`
	HistorySize      int           `env:"POLL_HISTORY_SIZE" envDefault:"7"`
	ResultDelay      time.Duration `env:"POLL_RESULT_DELAY" envDefault:"5s"`
	MinVotes         int           `env:"POLL_MIN_VOTES" envDefault:"5000"`
	MaxVotes         int           `env:"POLL_MAX_VOTES" envDefault:"10000"`
	UserMessagesOnly bool          `env:"POLL_USER_MESSAGES_ONLY"`
	StartActive      bool          `env:"POLL_START_ACTIVE" envDefault:"true"`
	CharacterName    string        `env:"POLL_CHARACTER_NAME" envDefault:"Character"`
	Seed             int64         `env:"POLL_SEED"`
}

// Load reads an optional .env file and then the environment.
func Load(envFiles ...string) (Settings, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		// a missing .env is normal outside local development
		_ = godotenv.Load(file)
	}

	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate rejects settings the trigger state machine cannot run with.
func (s Settings) Validate() error {
	var errs []error
	if s.BaseChance < 0 || s.BaseChance > 1 {
		errs = append(errs, fmt.Errorf("POLL_BASE_CHANCE must be within [0,1], got %v", s.BaseChance))
	}
	if s.MaxChance < s.BaseChance || s.MaxChance > 1 {
		errs = append(errs, fmt.Errorf("POLL_MAX_CHANCE must be within [POLL_BASE_CHANCE,1], got %v", s.MaxChance))
	}
	if s.ChanceIncrement < 0 {
		errs = append(errs, fmt.Errorf("POLL_CHANCE_INCREMENT must not be negative, got %v", s.ChanceIncrement))
	}
	if s.CooldownMessages < 0 {
		errs = append(errs, fmt.Errorf("POLL_COOLDOWN_MESSAGES must not be negative, got %d", s.CooldownMessages))
	}
	if s.HistorySize < 0 {
		errs = append(errs, fmt.Errorf("POLL_HISTORY_SIZE must not be negative, got %d", s.HistorySize))
	}
	if s.ResultDelay < 0 {
		errs = append(errs, fmt.Errorf("POLL_RESULT_DELAY must not be negative, got %v", s.ResultDelay))
	}
	if s.MinVotes < 0 || s.MaxVotes < s.MinVotes {
		errs = append(errs, fmt.Errorf("vote range [%d,%d] is invalid", s.MinVotes, s.MaxVotes))
	}
	return errors.Join(errs...)
}

// UsesFirebase reports whether the poll config should come from Firebase.
func (s Settings) UsesFirebase() bool {
	return s.FirebaseServiceAccountKeyPath != "" && s.FirebaseDatabaseURL != ""
}

// EngineOptions maps the settings onto the poll engine's tuning.
func (s Settings) EngineOptions() poll.Options {
	return poll.Options{
		BaseChance:           s.BaseChance,
		ChanceIncrement:      s.ChanceIncrement,
		MaxChance:            s.MaxChance,
		CooldownMessages:     s.CooldownMessages,
		HistorySize:          s.HistorySize,
		ResultDelay:          s.ResultDelay,
		MinVotes:             s.MinVotes,
		MaxVotes:             s.MaxVotes,
		UserMessagesOnly:     s.UserMessagesOnly,
		StartActive:          s.StartActive,
		DefaultCharacterName: s.CharacterName,
	}
}
