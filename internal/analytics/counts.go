package analytics

import (
	"sort"

	"github.com/fmaignacio/observatorio-tere/internal/dataset"
	"github.com/fmaignacio/observatorio-tere/pkg/contracts/domain"
)

// StatusDistribution counts events per status label
func StatusDistribution(table *dataset.Table) map[string]int {
	dist := make(map[string]int)
	for _, e := range table.Rows() {
		dist[e.Status]++
	}
	return dist
}

// StatusCounts returns the status distribution ordered by count descending.
// Equal counts keep the order in which the labels first appear.
func StatusCounts(table *dataset.Table) []domain.StatusCount {
	keys, counts := countOrdered(table, func(e domain.BillEvent) string { return e.Status })
	out := make([]domain.StatusCount, len(keys))
	for i, k := range keys {
		out[i] = domain.StatusCount{Status: k, Count: counts[k]}
	}
	return out
}

// MonthlyCounts counts events per calendar month, in chronological order
func MonthlyCounts(table *dataset.Table) []domain.MonthCount {
	counts := make(map[string]int)
	for _, e := range table.Rows() {
		counts[e.MonthKey()]++
	}
	months := make([]string, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	sort.Strings(months)

	out := make([]domain.MonthCount, len(months))
	for i, m := range months {
		out[i] = domain.MonthCount{Month: m, Count: counts[m]}
	}
	return out
}

// TopAuthors returns the n authors with the most events, count descending.
// Ties keep first-encountered order. n <= 0 returns every author.
func TopAuthors(table *dataset.Table, n int) []domain.AuthorCount {
	keys, counts := countOrdered(table, func(e domain.BillEvent) string { return e.Author })
	if n > 0 && len(keys) > n {
		keys = keys[:n]
	}
	out := make([]domain.AuthorCount, len(keys))
	for i, k := range keys {
		out[i] = domain.AuthorCount{Author: k, Count: counts[k]}
	}
	return out
}

// countOrdered counts rows by key and returns the keys sorted by count
// descending, stable on first appearance
func countOrdered(table *dataset.Table, key func(domain.BillEvent) string) ([]string, map[string]int) {
	counts := make(map[string]int)
	var keys []string
	for _, e := range table.Rows() {
		k := key(e)
		if _, ok := counts[k]; !ok {
			keys = append(keys, k)
		}
		counts[k]++
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return counts[keys[i]] > counts[keys[j]]
	})
	return keys, counts
}
