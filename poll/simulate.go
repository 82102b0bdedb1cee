package poll

import (
	"math"
	"math/rand"

	"StreamerPoll/model"
)

// SimulateResults invents a vote breakdown for a poll.
//
// Every never-option gets 0, 1 or 2 percent. One selected option is picked as the
// winner and takes strictly more than half of what is left; the other selected options
// get at least one point each, assigned in order, with the last one absorbing the
// remainder so the percentages always total exactly 100. Vote counts are the
// percentages applied to a random total and rounded, so they may drift from the total.
//
// A single selected option takes everything the never-options leave. selected must
// be non-empty, which Engine.SimulatePollResults checks, and no longer than half of the
// points left after the never-options, which model.MaxOptionsPerPoll guarantees.
func SimulateResults(rng *rand.Rand, selected, never []string, minVotes, maxVotes int) model.PollRound {
	round := model.PollRound{
		Selected:    append([]string(nil), selected...),
		NeverChosen: append([]string(nil), never...),
	}
	if maxVotes < minVotes {
		maxVotes = minVotes
	}
	round.TotalVotes = minVotes + rng.Intn(maxVotes-minVotes+1)

	remaining := 100
	neverPercent := make([]int, len(never))
	for i := range never {
		neverPercent[i] = rng.Intn(3)
		remaining -= neverPercent[i]
	}

	percent := make([]int, len(selected))
	if len(selected) > 0 {
		winner := rng.Intn(len(selected))
		round.Winner = selected[winner]

		others := len(selected) - 1
		minWin := remaining/2 + 1
		maxWin := remaining - others
		if maxWin < minWin {
			maxWin = minWin
		}
		if others == 0 {
			percent[winner] = remaining
		} else {
			percent[winner] = minWin + rng.Intn(maxWin-minWin+1)
		}

		left := remaining - percent[winner]
		unassigned := others
		for i := range selected {
			if i == winner {
				continue
			}
			unassigned--
			if unassigned == 0 {
				percent[i] = left
				break
			}
			share := 1 + rng.Intn(left-unassigned)
			percent[i] = share
			left -= share
		}
	}

	round.Results = make([]model.OptionResult, 0, len(selected)+len(never))
	for i, option := range selected {
		round.Results = append(round.Results, model.OptionResult{
			Option:  option,
			Percent: percent[i],
			Votes:   votesFor(percent[i], round.TotalVotes),
		})
	}
	for i, option := range never {
		round.Results = append(round.Results, model.OptionResult{
			Option:  option,
			Percent: neverPercent[i],
			Votes:   votesFor(neverPercent[i], round.TotalVotes),
			Never:   true,
		})
	}
	return round
}

func votesFor(percent, total int) int {
	return int(math.Round(float64(percent) / 100 * float64(total)))
}
