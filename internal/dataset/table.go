package dataset

import (
	"sort"
	"time"

	"github.com/fmaignacio/observatorio-tere/pkg/contracts/domain"
)

// Table is an immutable, ordered collection of bill events.
// A nil *Table behaves as an empty table.
type Table struct {
	rows []domain.BillEvent
}

// NewTable copies events into a new table, keeping their order
func NewTable(events []domain.BillEvent) *Table {
	rows := make([]domain.BillEvent, len(events))
	copy(rows, events)
	return &Table{rows: rows}
}

// Len returns the number of events
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// At returns the i-th event
func (t *Table) At(i int) domain.BillEvent {
	return t.rows[i]
}

// Rows returns a copy of the events
func (t *Table) Rows() []domain.BillEvent {
	if t == nil {
		return nil
	}
	rows := make([]domain.BillEvent, len(t.rows))
	copy(rows, t.rows)
	return rows
}

// Where returns a new table with the events matching pred, in order
func (t *Table) Where(pred func(domain.BillEvent) bool) *Table {
	out := &Table{}
	if t == nil {
		return out
	}
	for _, e := range t.rows {
		if pred(e) {
			out.rows = append(out.rows, e)
		}
	}
	return out
}

// DateBounds returns the earliest and latest session dates.
// ok is false for an empty table.
func (t *Table) DateBounds() (minDate, maxDate time.Time, ok bool) {
	if t.Len() == 0 {
		return time.Time{}, time.Time{}, false
	}
	minDate, maxDate = t.rows[0].SessionDate, t.rows[0].SessionDate
	for _, e := range t.rows[1:] {
		if e.SessionDate.Before(minDate) {
			minDate = e.SessionDate
		}
		if e.SessionDate.After(maxDate) {
			maxDate = e.SessionDate
		}
	}
	return minDate, maxDate, true
}

// Authors returns the sorted distinct authors
func (t *Table) Authors() []string {
	return t.distinct(func(e domain.BillEvent) string { return e.Author })
}

// Statuses returns the sorted distinct status labels
func (t *Table) Statuses() []string {
	return t.distinct(func(e domain.BillEvent) string { return e.Status })
}

// Bills returns the sorted distinct bill identifiers
func (t *Table) Bills() []string {
	return t.distinct(func(e domain.BillEvent) string { return e.BillID })
}

// UniqueBills returns the number of distinct bill identifiers
func (t *Table) UniqueBills() int {
	return len(t.Bills())
}

// UniqueSessions returns the number of distinct session dates
func (t *Table) UniqueSessions() int {
	return len(t.distinct(func(e domain.BillEvent) string { return e.SessionKey() }))
}

func (t *Table) distinct(key func(domain.BillEvent) string) []string {
	if t.Len() == 0 {
		return []string{}
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, e := range t.rows {
		k := key(e)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
