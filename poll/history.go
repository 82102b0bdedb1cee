package poll

// History is a bounded FIFO of the option sets picked by recent rounds.
// A History with size 0 records nothing.
type History struct {
	size   int
	rounds [][]string
}

func NewHistory(size int) *History {
	if size < 0 {
		size = 0
	}
	return &History{size: size}
}

// Enabled reports whether rounds are being recorded at all.
func (h *History) Enabled() bool {
	return h.size > 0
}

// Push records a round, evicting the oldest when the buffer is full.
func (h *History) Push(selected []string) {
	if h.size == 0 {
		return
	}
	round := make([]string, len(selected))
	copy(round, selected)
	h.rounds = append(h.rounds, round)
	if len(h.rounds) > h.size {
		h.rounds = h.rounds[len(h.rounds)-h.size:]
	}
}

// EvictOldest drops the oldest round. It returns false when the history is empty.
func (h *History) EvictOldest() bool {
	if len(h.rounds) == 0 {
		return false
	}
	h.rounds = h.rounds[1:]
	return true
}

// Used returns every option appearing in any recorded round.
func (h *History) Used() map[string]struct{} {
	used := make(map[string]struct{})
	for _, round := range h.rounds {
		for _, option := range round {
			used[option] = struct{}{}
		}
	}
	return used
}

func (h *History) Len() int {
	return len(h.rounds)
}

func (h *History) Clear() {
	h.rounds = nil
}

// Rounds returns a copy of the recorded rounds, oldest first.
func (h *History) Rounds() [][]string {
	out := make([][]string, len(h.rounds))
	for i, round := range h.rounds {
		out[i] = append([]string(nil), round...)
	}
	return out
}
