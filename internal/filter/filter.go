package filter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fmaignacio/observatorio-tere/internal/dataset"
	"github.com/fmaignacio/observatorio-tere/pkg/contracts/domain"
)

// ErrInvalidSpec is returned for a filter that cannot be applied
var ErrInvalidSpec = errors.New("invalid filter specification")

// Spec selects a subset of the table. The zero Spec selects everything.
type Spec struct {
	Start      *time.Time        `json:"start,omitempty"`
	End        *time.Time        `json:"end,omitempty"`
	Preset     domain.DatePreset `json:"preset,omitempty"`
	Authors    []string          `json:"authors,omitempty"`
	Statuses   []string          `json:"statuses,omitempty"`
	BillSearch string            `json:"bill_search,omitempty"`
}

// Validate reports whether the filter can be applied
func (s Spec) Validate() error {
	if !s.Preset.Valid() {
		return fmt.Errorf("%w: unknown preset %q", ErrInvalidSpec, s.Preset)
	}
	if s.Start != nil && s.End != nil && s.Start.After(*s.End) {
		return fmt.Errorf("%w: start %s is after end %s", ErrInvalidSpec,
			s.Start.Format(domain.DateLayout), s.End.Format(domain.DateLayout))
	}
	return nil
}

// Resolve returns the effective inclusive date range of spec over table.
// Relative presets end at the latest observed date; "all" spans the observed
// range. A custom range fills each missing end with the observed bound.
// ok is false when no range can be derived, which only happens for an empty
// table without explicit bounds.
func Resolve(table *dataset.Table, spec Spec) (r domain.DateRange, ok bool) {
	minDate, maxDate, observed := table.DateBounds()

	switch {
	case spec.Preset == domain.PresetAll:
		return domain.DateRange{Start: minDate, End: maxDate}, observed
	case spec.Preset.Days() > 0:
		if !observed {
			return domain.DateRange{}, false
		}
		return domain.DateRange{Start: maxDate.AddDate(0, 0, -spec.Preset.Days()), End: maxDate}, true
	}

	start, end := minDate, maxDate
	if spec.Start != nil {
		start = day(*spec.Start)
	}
	if spec.End != nil {
		end = day(*spec.End)
	}
	if !observed && (spec.Start == nil || spec.End == nil) {
		return domain.DateRange{}, false
	}
	return domain.DateRange{Start: start, End: end}, true
}

// Apply returns the rows matching every active predicate of spec, in table
// order. Empty author and status sets do not restrict.
func Apply(table *dataset.Table, spec Spec) (*dataset.Table, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	dates, hasRange := Resolve(table, spec)
	authors := set(spec.Authors)
	statuses := set(spec.Statuses)
	bill := strings.ToLower(strings.TrimSpace(spec.BillSearch))

	return table.Where(func(e domain.BillEvent) bool {
		if hasRange && !dates.Contains(e.SessionDate) {
			return false
		}
		if len(authors) > 0 {
			if _, ok := authors[e.Author]; !ok {
				return false
			}
		}
		if len(statuses) > 0 {
			if _, ok := statuses[e.Status]; !ok {
				return false
			}
		}
		if bill != "" && !strings.Contains(strings.ToLower(e.BillID), bill) {
			return false
		}
		return true
	}), nil
}

// Search returns the rows whose bill id, author or status contains term,
// ignoring case. It is meant for the full table, independent of any Spec.
// An empty term matches nothing.
func Search(table *dataset.Table, term string) *dataset.Table {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return dataset.NewTable(nil)
	}
	return table.Where(func(e domain.BillEvent) bool {
		return strings.Contains(strings.ToLower(e.BillID), term) ||
			strings.Contains(strings.ToLower(e.Author), term) ||
			strings.Contains(strings.ToLower(e.Status), term)
	})
}

// AuthorOptions lists the sorted distinct authors of table whose name
// contains query, ignoring case. An empty query lists all authors.
func AuthorOptions(table *dataset.Table, query string) []string {
	authors := table.Authors()
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return authors
	}
	out := make([]string, 0, len(authors))
	for _, a := range authors {
		if strings.Contains(strings.ToLower(a), query) {
			out = append(out, a)
		}
	}
	return out
}

func set(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
