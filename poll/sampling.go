package poll

import "math/rand"

// RandomElements draws up to n distinct positions from pool, uniformly and without
// replacement. The pool itself is left untouched.
func RandomElements(rng *rand.Rand, pool []string, n int) []string {
	if n <= 0 || len(pool) == 0 {
		return []string{}
	}
	shuffled := make([]string, len(pool))
	copy(shuffled, pool)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	if n > len(shuffled) {
		n = len(shuffled)
	}
	return shuffled[:n]
}

// without returns the entries of pool not present in any of the exclusion sets.
func without(pool []string, exclude ...map[string]struct{}) []string {
	out := make([]string, 0, len(pool))
	for _, option := range pool {
		skip := false
		for _, set := range exclude {
			if _, ok := set[option]; ok {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, option)
		}
	}
	return out
}

func setOf(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
