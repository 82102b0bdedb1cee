package model

import (
	"sort"
	"time"
)

const (
	DefaultOptionsPerPoll      = 4
	DefaultNeverOptionsPerPoll = 2

	// The vote simulation needs the winner to hold a strict majority of what the
	// never-options leave, with one point for every other option.
	MaxOptionsPerPoll      = 30
	MaxNeverOptionsPerPoll = 10
)

// MessageTemplates holds the {placeholder} templates used to render a poll.
type MessageTemplates struct {
	PollIntro      string `json:"pollIntro" yaml:"pollIntro"`
	PollOption     string `json:"pollOption" yaml:"pollOption"`
	PollResult     string `json:"pollResult" yaml:"pollResult"`
	PollResultLine string `json:"pollResultLine,omitempty" yaml:"pollResultLine,omitempty"`
}

// PollConfig is the option pool and presentation loaded at startup.
type PollConfig struct {
	PollOptions         []string
	NeverPollOptions    []string
	Messages            MessageTemplates
	OptionsPerPoll      int
	NeverOptionsPerPoll int
}

// Normalized returns a copy with duplicate options removed and per-poll counts
// clamped to what the pools and the vote simulation can serve.
func (c PollConfig) Normalized() PollConfig {
	out := c
	out.PollOptions = dedupe(c.PollOptions)
	out.NeverPollOptions = dedupe(c.NeverPollOptions)

	if out.OptionsPerPoll < 1 {
		out.OptionsPerPoll = DefaultOptionsPerPoll
	}
	if out.OptionsPerPoll > MaxOptionsPerPoll {
		out.OptionsPerPoll = MaxOptionsPerPoll
	}
	if out.NeverOptionsPerPoll < 0 {
		out.NeverOptionsPerPoll = 0
	}
	if out.NeverOptionsPerPoll > MaxNeverOptionsPerPoll {
		out.NeverOptionsPerPoll = MaxNeverOptionsPerPoll
	}
	if out.NeverOptionsPerPoll > len(out.NeverPollOptions) {
		out.NeverOptionsPerPoll = len(out.NeverPollOptions)
	}
	return out
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// OptionResult is the simulated outcome for one presented option.
type OptionResult struct {
	Option  string
	Percent int
	Votes   int
	Never   bool
}

// PollRound is one triggered poll, from selection to announced result.
type PollRound struct {
	ID            string
	Selected      []string
	NeverChosen   []string
	Results       []OptionResult // presentation order: selected, then never-options
	Winner        string
	TotalVotes    int
	CharacterName string
	Announcement  string
	ResultMessage string
	CreatedAt     time.Time
}

// Presented returns every option shown to the chat, numbered in this order.
func (r PollRound) Presented() []string {
	out := make([]string, 0, len(r.Selected)+len(r.NeverChosen))
	out = append(out, r.Selected...)
	return append(out, r.NeverChosen...)
}

// VoteShare maps each presented option to its simulated percentage.
func (r PollRound) VoteShare() map[string]int {
	share := make(map[string]int, len(r.Results))
	for _, res := range r.Results {
		share[res.Option] = res.Percent
	}
	return share
}

// VoteCount maps each presented option to its simulated vote count.
func (r PollRound) VoteCount() map[string]int {
	counts := make(map[string]int, len(r.Results))
	for _, res := range r.Results {
		counts[res.Option] = res.Votes
	}
	return counts
}

// Ranking returns the results by descending percentage, ties kept in presentation order.
func (r PollRound) Ranking() []OptionResult {
	ranked := make([]OptionResult, len(r.Results))
	copy(ranked, r.Results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Percent > ranked[j].Percent
	})
	return ranked
}
