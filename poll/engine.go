package poll

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"StreamerPoll/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Emitter appends a fully rendered message to the chat the engine belongs to.
type Emitter interface {
	Emit(msg model.ChatMessage) error
}

// EmitterFunc adapts a plain function to Emitter.
type EmitterFunc func(msg model.ChatMessage) error

func (f EmitterFunc) Emit(msg model.ChatMessage) error { return f(msg) }

// Options tunes the trigger state machine and the vote simulation.
type Options struct {
	BaseChance       float64
	ChanceIncrement  float64
	MaxChance        float64
	CooldownMessages int
	HistorySize      int
	ResultDelay      time.Duration
	MinVotes         int
	MaxVotes         int

	// UserMessagesOnly ignores messages not written by the user.
	UserMessagesOnly bool
	StartActive      bool

	DefaultCharacterName string
}

func DefaultOptions() Options {
	return Options{
		BaseChance:           0.1,
		ChanceIncrement:      0.05,
		MaxChance:            0.5,
		CooldownMessages:     10,
		HistorySize:          7,
		ResultDelay:          5 * time.Second,
		MinVotes:             5000,
		MaxVotes:             10000,
		StartActive:          true,
		DefaultCharacterName: "Character",
	}
}

// EngineOption customizes an Engine at construction.
type EngineOption func(*Engine)

func WithRand(rng *rand.Rand) EngineOption {
	return func(e *Engine) { e.rng = rng }
}

func WithClock(clock Clock) EngineOption {
	return func(e *Engine) { e.clock = clock }
}

func WithLogger(log zerolog.Logger) EngineOption {
	return func(e *Engine) { e.log = log }
}

func WithChatID(chatID string) EngineOption {
	return func(e *Engine) { e.chatID = chatID }
}

// Engine decides when a chat gets a poll, builds it and announces the result.
// All methods are safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	opts    Options
	cfg     model.PollConfig
	state   model.TriggerState
	history *History

	active        bool
	characterName string
	pending       *model.PollRound
	timer         Timer

	chatID  string
	emitter Emitter
	rng     *rand.Rand
	clock   Clock
	log     zerolog.Logger
}

func NewEngine(cfg model.PollConfig, emitter Emitter, opts Options, options ...EngineOption) *Engine {
	e := &Engine{
		opts:    opts,
		cfg:     cfg.Normalized(),
		history: NewHistory(opts.HistorySize),
		active:  opts.StartActive,
		emitter: emitter,
		clock:   systemClock{},
		log:     zerolog.Nop(),
	}
	for _, option := range options {
		option(e)
	}
	if e.rng == nil {
		seed, err := NewSeed()
		if err != nil {
			seed = e.clock.Now().UnixNano()
		}
		e.rng = rand.New(rand.NewSource(seed))
	}
	if e.emitter == nil {
		e.emitter = EmitterFunc(func(model.ChatMessage) error { return nil })
	}
	e.log = e.log.With().Str("chat", e.chatID).Logger()
	e.state = e.initialState()
	return e
}

func (e *Engine) initialState() model.TriggerState {
	return model.TriggerState{EventChance: e.opts.BaseChance}
}

// OnChatMessage is called once per chat message. While cooling down it only counts
// the cooldown down; otherwise it rolls against the current chance and either runs a
// poll or raises the chance for the next message.
func (e *Engine) OnChatMessage(isFromUser bool) (*model.PollRound, error) {
	round, err := e.check(isFromUser)
	if round != nil {
		e.announce(round)
	}
	return round, err
}

func (e *Engine) check(isFromUser bool) (*model.PollRound, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return nil, nil
	}
	if e.opts.UserMessagesOnly && !isFromUser {
		return nil, nil
	}

	if e.state.CooldownRemaining > 0 {
		e.state.CooldownRemaining--
		e.log.Debug().Int("cooldown", e.state.CooldownRemaining).Msg("poll check skipped, cooling down")
		return nil, nil
	}

	e.state.MessageCount++
	roll := e.rng.Float64()
	e.log.Debug().
		Int("messages", e.state.MessageCount).
		Float64("roll", roll).
		Float64("chance", e.state.EventChance).
		Msg("poll check")

	if roll < e.state.EventChance {
		round, err := e.buildRound()
		if err != nil {
			e.log.Warn().Err(err).Msg("poll triggered but aborted")
			return nil, err
		}
		e.state = model.TriggerState{
			EventChance:       e.opts.BaseChance,
			CooldownRemaining: e.opts.CooldownMessages,
		}
		e.log.Info().Str("round", round.ID).Int("cooldown", e.opts.CooldownMessages).Msg("poll triggered")
		return round, nil
	}

	e.state.EventChance = math.Min(e.state.EventChance+e.opts.ChanceIncrement, e.opts.MaxChance)
	e.log.Debug().Float64("chance", e.state.EventChance).Msg("no poll this time")
	return nil, nil
}

// TriggerPoll runs a poll immediately, bypassing the chance roll and leaving the
// trigger counters alone.
func (e *Engine) TriggerPoll() (*model.PollRound, error) {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		return nil, model.ErrEngineInactive
	}
	round, err := e.buildRound()
	e.mu.Unlock()
	if err != nil {
		e.log.Warn().Err(err).Msg("poll aborted")
		return nil, err
	}
	e.announce(round)
	return round, nil
}

// buildRound selects the options, simulates the votes and marks the round pending.
// Nothing is mutated when it fails, except that a shortage caused by recent rounds
// ages the oldest of them out.
func (e *Engine) buildRound() (*model.PollRound, error) {
	if e.pending != nil {
		return nil, model.ErrPollInProgress
	}
	cfg := e.cfg
	if len(cfg.PollOptions) == 0 {
		return nil, model.ErrNoPollOptions
	}

	never := RandomElements(e.rng, cfg.NeverPollOptions, cfg.NeverOptionsPerPoll)
	base := without(cfg.PollOptions, setOf(cfg.NeverPollOptions))
	eligible := base
	if e.history.Enabled() {
		eligible = without(base, e.history.Used())
	}

	if len(eligible) < cfg.OptionsPerPoll {
		if len(base) >= cfg.OptionsPerPoll && e.history.EvictOldest() {
			return nil, fmt.Errorf("%w: %d left after excluding recent rounds, need %d",
				model.ErrInsufficientOptions, len(eligible), cfg.OptionsPerPoll)
		}
		return nil, fmt.Errorf("%w: have %d, need %d",
			model.ErrInsufficientOptions, len(eligible), cfg.OptionsPerPoll)
	}

	selected := RandomElements(e.rng, eligible, cfg.OptionsPerPoll)
	e.history.Push(selected)

	round := SimulateResults(e.rng, selected, never, e.opts.MinVotes, e.opts.MaxVotes)
	round.ID = uuid.NewString()
	round.CreatedAt = e.clock.Now()
	round.CharacterName = e.characterNameLocked()
	round.Announcement = renderAnnouncement(cfg.Messages, round.CharacterName, round.Presented())
	round.ResultMessage = renderResult(cfg.Messages, round)

	e.pending = &round
	e.log.Debug().
		Str("round", round.ID).
		Strs("options", round.Selected).
		Strs("never", round.NeverChosen).
		Str("winner", round.Winner).
		Msg("poll round built")
	return &round, nil
}

// announce emits the options and either the result right away or a timer for it.
func (e *Engine) announce(round *model.PollRound) {
	e.emit(round, round.Announcement)

	if e.opts.ResultDelay <= 0 {
		e.finish(round.ID)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pending == nil || e.pending.ID != round.ID {
		// stopped while the announcement was going out
		return
	}
	e.timer = e.clock.AfterFunc(e.opts.ResultDelay, func() { e.finish(round.ID) })
	e.log.Debug().Str("round", round.ID).Dur("delay", e.opts.ResultDelay).Msg("poll result scheduled")
}

// finish emits the result of the pending round if it is still the one identified by id.
func (e *Engine) finish(id string) {
	e.mu.Lock()
	round := e.pending
	if round == nil || round.ID != id {
		e.mu.Unlock()
		return
	}
	e.pending = nil
	e.timer = nil
	e.mu.Unlock()

	e.emit(round, round.ResultMessage)
	e.log.Info().Str("round", round.ID).Str("winner", round.Winner).Msg("poll result announced")
}

func (e *Engine) emit(round *model.PollRound, text string) {
	msg := model.ChatMessage{
		ChatID:   e.chatID,
		Name:     round.CharacterName,
		Text:     text,
		SendDate: e.clock.Now(),
	}
	if err := e.emitter.Emit(msg); err != nil {
		e.log.Error().Err(err).Str("round", round.ID).Msg("error emitting poll message")
	}
}

// SimulatePollResults runs the vote simulation with the engine's randomness and vote range.
func (e *Engine) SimulatePollResults(selected, never []string) (model.PollRound, error) {
	if len(selected) == 0 {
		return model.PollRound{}, model.ErrNoPollOptions
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return SimulateResults(e.rng, selected, never, e.opts.MinVotes, e.opts.MaxVotes), nil
}

// Reset puts the trigger counters back to their initial values.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = e.initialState()
	e.log.Info().Msg("poll counters reset")
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = true
	e.log.Info().Msg("poll engine started")
}

// Stop deactivates the engine and cancels a result that has not been announced yet.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active = false
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	if e.pending != nil {
		e.log.Info().Str("round", e.pending.ID).Msg("pending poll result cancelled")
		e.pending = nil
	}
	e.log.Info().Msg("poll engine stopped")
}

// SetConfig swaps in a reloaded configuration. Recent rounds refer to the old pool,
// so the history is cleared.
func (e *Engine) SetConfig(cfg model.PollConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg = cfg.Normalized()
	e.history.Clear()
}

func (e *Engine) SetCharacterName(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.characterName = name
}

func (e *Engine) CharacterName() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.characterNameLocked()
}

func (e *Engine) characterNameLocked() string {
	if e.characterName != "" {
		return e.characterName
	}
	return e.opts.DefaultCharacterName
}

func (e *Engine) State() model.TriggerState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// PollPending reports whether a round is waiting for its result.
func (e *Engine) PollPending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending != nil
}

func (e *Engine) History() [][]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Rounds()
}

func (e *Engine) Config() model.PollConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}
