package analytics

import (
	"sort"

	"github.com/fmaignacio/observatorio-tere/internal/dataset"
	"github.com/fmaignacio/observatorio-tere/pkg/contracts/domain"
)

// ActivityMatrix pivots event counts into twelve month rows by one column per
// observed year, years ascending. Months without events are zero.
func ActivityMatrix(table *dataset.Table) domain.ActivityMatrix {
	counts := make(map[[2]int]int)
	seenYears := make(map[int]struct{})
	for _, e := range table.Rows() {
		counts[[2]int{e.Month, e.Year}]++
		seenYears[e.Year] = struct{}{}
	}

	years := make([]int, 0, len(seenYears))
	for y := range seenYears {
		years = append(years, y)
	}
	sort.Ints(years)

	m := domain.ActivityMatrix{
		Years:  years,
		Months: make([]int, 12),
		Cells:  make([][]int, 12),
	}
	for i := range m.Months {
		month := i + 1
		m.Months[i] = month
		m.Cells[i] = make([]int, len(years))
		for j, y := range years {
			m.Cells[i][j] = counts[[2]int{month, y}]
		}
	}
	return m
}
