package poll

import (
	"math/rand"
	"sync"

	"StreamerPoll/model"

	"github.com/rs/zerolog"
)

// Registry keeps one Engine per chat, created on first use.
type Registry struct {
	mu      sync.Mutex
	cfg     model.PollConfig
	opts    Options
	seed    int64
	clock   Clock
	log     zerolog.Logger
	engines map[string]*Engine
}

// NewRegistry builds engines with cfg and opts. A non-zero seed makes every chat's
// randomness reproducible; 0 seeds each chat from crypto/rand.
func NewRegistry(cfg model.PollConfig, opts Options, seed int64, log zerolog.Logger) *Registry {
	return &Registry{
		cfg:     cfg,
		opts:    opts,
		seed:    seed,
		clock:   systemClock{},
		log:     log,
		engines: make(map[string]*Engine),
	}
}

// SetClock replaces the clock handed to engines created afterwards.
func (r *Registry) SetClock(clock Clock) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clock = clock
}

// Engine returns the chat's engine, creating it with emitter when it does not exist yet.
func (r *Registry) Engine(chatID string, emitter Emitter) *Engine {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.engines[chatID]; ok {
		return e
	}

	options := []EngineOption{
		WithChatID(chatID),
		WithClock(r.clock),
		WithLogger(r.log),
	}
	if r.seed != 0 {
		options = append(options, WithRand(rand.New(rand.NewSource(r.seed))))
	}
	e := NewEngine(r.cfg, emitter, r.opts, options...)
	r.engines[chatID] = e
	r.log.Debug().Str("chat", chatID).Msg("poll engine created")
	return e
}

// Lookup returns the chat's engine without creating one.
func (r *Registry) Lookup(chatID string) (*Engine, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.engines[chatID]
	return e, ok
}

// Reload applies cfg to every existing engine and to engines created later.
func (r *Registry) Reload(cfg model.PollConfig) {
	r.mu.Lock()
	r.cfg = cfg
	engines := r.snapshot()
	r.mu.Unlock()

	for _, e := range engines {
		e.SetConfig(cfg)
	}
	r.log.Info().Int("chats", len(engines)).Int("options", len(cfg.PollOptions)).Msg("poll config reloaded")
}

// StopAll deactivates every engine, cancelling pending results.
func (r *Registry) StopAll() {
	r.mu.Lock()
	engines := r.snapshot()
	r.mu.Unlock()

	for _, e := range engines {
		e.Stop()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.engines)
}

func (r *Registry) snapshot() []*Engine {
	out := make([]*Engine, 0, len(r.engines))
	for _, e := range r.engines {
		out = append(out, e)
	}
	return out
}
