package poll

import (
	"fmt"
	"sync"
	"time"

	"StreamerPoll/model"
)

// fixedSource makes every draw return the same value: Float64 yields v/2^63 and
// Intn yields (v>>32) % n.
type fixedSource struct{ v int64 }

func (s fixedSource) Int63() int64 { return s.v }
func (s fixedSource) Seed(int64)   {}

const (
	alwaysTrigger = int64(0)       // Float64 == 0
	neverTrigger  = int64(1) << 62 // Float64 == 0.5, never below the max chance
)

type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{delay: d, fn: f}
	c.timers = append(c.timers, t)
	return t
}

// fireAll runs every timer that is neither stopped nor already fired.
func (c *fakeClock) fireAll() int {
	c.mu.Lock()
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.fn()
	}
	return len(due)
}

type recorder struct {
	mu       sync.Mutex
	messages []model.ChatMessage
}

func (r *recorder) Emit(msg model.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

func (r *recorder) last() model.ChatMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.messages[len(r.messages)-1]
}

func testConfig(options, never int) model.PollConfig {
	cfg := model.PollConfig{
		Messages: model.MessageTemplates{
			PollIntro:  "{characterName} asks chat:\n",
			PollOption: "{index}. {option}\n",
			PollResult: "{characterName}: the winner is {winningOption}!",
		},
		OptionsPerPoll:      4,
		NeverOptionsPerPoll: 2,
	}
	for i := 1; i <= options; i++ {
		cfg.PollOptions = append(cfg.PollOptions, fmt.Sprintf("option %d", i))
	}
	for i := 1; i <= never; i++ {
		cfg.NeverPollOptions = append(cfg.NeverPollOptions, fmt.Sprintf("secret %d", i))
	}
	return cfg
}

func syncOptions() Options {
	opts := DefaultOptions()
	opts.ResultDelay = 0
	return opts
}
