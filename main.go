package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"StreamerPoll/config"
	"StreamerPoll/handler"
	"StreamerPoll/poll"
	"StreamerPoll/repo"

	"github.com/go-telegram/bot"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	pushConfig := flag.Bool("push-config", false, "upload the local poll config file to Firebase and exit")
	flag.Parse()

	settings, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading settings")
	}
	logger := newLogger(settings)
	log.Logger = logger

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *pushConfig {
		if err := pushPollConfig(ctx, settings, logger); err != nil {
			log.Fatal().Err(err).Msg("Error publishing poll config")
		}
		log.Info().Str("path", settings.FirebaseConfigPath).Msg("Poll config published")
		return
	}

	if settings.BotToken == "" && settings.NATSURL == "" {
		log.Warn().Msg("Neither POLL_BOT_TOKEN nor NATS_URL is set, no chat host to attach to")
		return
	}

	source := configSource(ctx, settings, logger)
	cfg := repo.LoadPollConfig(ctx, source, logger)
	registry := poll.NewRegistry(cfg, settings.EngineOptions(), settings.Seed, logger)
	defer registry.StopAll()

	if settings.NATSURL != "" {
		nc, err := nats.Connect(settings.NATSURL, nats.Name("streamer-poll"))
		if err != nil {
			log.Fatal().Err(err).Str("url", settings.NATSURL).Msg("Error connecting to NATS")
		}
		defer nc.Drain()

		bridge := handler.NewNATSBridge(nc, registry, settings.NATSInboundSubject, settings.NATSOutboundSubject, logger)
		if err := bridge.Start(); err != nil {
			log.Fatal().Err(err).Msg("Error starting NATS bridge")
		}
		defer bridge.Close()
	}

	if settings.BotToken != "" {
		h := handler.NewPollBotHandler(registry, source, logger)
		b, err := bot.New(settings.BotToken, bot.WithDefaultHandler(h.Handler))
		if err != nil {
			log.Fatal().Err(err).Msg("Error creating bot")
		}
		// Start blocks until ctx is cancelled
		b.Start(ctx)
	} else {
		<-ctx.Done()
	}
	log.Info().Msg("Bot stopped")
}

func newLogger(s config.Settings) zerolog.Logger {
	level, err := zerolog.ParseLevel(s.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	if s.LogPretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}

// configSource picks where the poll config comes from: Firebase, then a URL, then the local file.
func configSource(ctx context.Context, s config.Settings, logger zerolog.Logger) repo.ConfigSource {
	if s.UsesFirebase() {
		fc, err := InitializeFirebase(ctx, s)
		if err == nil {
			return repo.FirebaseSource{Store: fc, Path: s.FirebaseConfigPath}
		}
		logger.Warn().Err(err).Msg("Firebase unavailable, falling back to local poll config")
	}
	if s.ConfigURL != "" {
		return repo.NewHTTPSource(s.ConfigURL)
	}
	return repo.FileSource{Path: s.ConfigPath}
}

func pushPollConfig(ctx context.Context, s config.Settings, logger zerolog.Logger) error {
	if !s.UsesFirebase() {
		return errors.New("FIREBASE_SERVICE_ACCOUNT_KEY_PATH and FIREBASE_DATABASE_URL must be set")
	}
	fc, err := InitializeFirebase(ctx, s)
	if err != nil {
		return err
	}
	cfg, err := repo.FileSource{Path: s.ConfigPath}.Load(ctx)
	if err != nil {
		return fmt.Errorf("error reading %s: %w", s.ConfigPath, err)
	}
	logger.Debug().Int("options", len(cfg.PollOptions)).Msg("Uploading poll config")
	return repo.PublishPollConfig(ctx, fc, s.FirebaseConfigPath, cfg)
}

// InitializeFirebase initializes the Firebase connector and returns it
func InitializeFirebase(ctx context.Context, s config.Settings) (*repo.FirebaseConnector, error) {
	if s.FirebaseServiceAccountKeyPath == "" {
		return nil, fmt.Errorf("FIREBASE_SERVICE_ACCOUNT_KEY_PATH environment variable not set")
	}
	if s.FirebaseDatabaseURL == "" {
		return nil, fmt.Errorf("FIREBASE_DATABASE_URL environment variable not set")
	}

	firebaseConnector, err := repo.NewFirebaseConnector(ctx, s.FirebaseServiceAccountKeyPath, s.FirebaseDatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("error creating Firebase connector: %w", err)
	}
	return firebaseConnector, nil
}
