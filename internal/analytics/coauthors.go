package analytics

import (
	"sort"

	"github.com/fmaignacio/observatorio-tere/internal/dataset"
	"github.com/fmaignacio/observatorio-tere/pkg/contracts/domain"
)

// Pair is an unordered pair of distinct authors stored with A < B
type Pair struct {
	A string
	B string
}

// NewPair returns the canonical pair for x and y
func NewPair(x, y string) Pair {
	if y < x {
		x, y = y, x
	}
	return Pair{A: x, B: y}
}

// Label renders the pair as "A & B"
func (p Pair) Label() string {
	return p.A + " & " + p.B
}

// CoauthorPairs counts, for every session with at least two distinct authors,
// one occurrence per unordered pair of those authors
func CoauthorPairs(table *dataset.Table) map[Pair]int {
	sessions := make(map[string][]string)
	seen := make(map[[2]string]struct{})
	var order []string
	for _, e := range table.Rows() {
		key := e.SessionKey()
		if _, ok := sessions[key]; !ok {
			order = append(order, key)
			sessions[key] = nil
		}
		id := [2]string{key, e.Author}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		sessions[key] = append(sessions[key], e.Author)
	}

	pairs := make(map[Pair]int)
	for _, key := range order {
		authors := sessions[key]
		for i := 0; i < len(authors); i++ {
			for j := i + 1; j < len(authors); j++ {
				pairs[NewPair(authors[i], authors[j])]++
			}
		}
	}
	return pairs
}

// TopCoauthorPairs returns the n most frequent pairs, count descending, then
// by A and B. n <= 0 returns every pair.
func TopCoauthorPairs(table *dataset.Table, n int) []domain.CoauthorPair {
	counts := CoauthorPairs(table)
	out := make([]domain.CoauthorPair, 0, len(counts))
	for p, count := range counts {
		out = append(out, domain.CoauthorPair{A: p.A, B: p.B, Count: count, Label: p.Label()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
