package analytics

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fmaignacio/observatorio-tere/internal/dataset"
	"github.com/fmaignacio/observatorio-tere/pkg/contracts/domain"
)

// Sort columns accepted by SortEvents
const (
	SortByDate   = "date"
	SortByBill   = "bill"
	SortByAuthor = "author"
	SortByStatus = "status"
)

// ErrUnknownSortColumn is returned by SortEvents for an unsupported column
var ErrUnknownSortColumn = errors.New("unknown sort column")

// BillTimeline returns the history of billID ordered by session date.
// Events on the same date keep table order, so the current status is the
// status of the chronologically last event. ok is false when the bill has no
// events.
func BillTimeline(table *dataset.Table, billID string) (domain.BillTimeline, bool) {
	rows := chronological(table.Where(func(e domain.BillEvent) bool { return e.BillID == billID }).Rows())
	if len(rows) == 0 {
		return domain.BillTimeline{BillID: billID, Events: []domain.TimelineEvent{}}, false
	}

	first, last := rows[0], rows[len(rows)-1]
	firstDate, lastDate := first.SessionDate, last.SessionDate
	return domain.BillTimeline{
		BillID:        billID,
		Author:        first.Author,
		CurrentStatus: last.Status,
		DaysInProcess: int(lastDate.Sub(firstDate).Hours() / 24),
		FirstDate:     &firstDate,
		LastDate:      &lastDate,
		Events:        timelineEvents(rows),
	}, true
}

// SearchGroups groups search hits by bill, sorted by bill id. The author is
// that of the first hit; the current status comes from the bill's complete
// history in full rather than from the hits alone.
func SearchGroups(results, full *dataset.Table) []domain.SearchGroup {
	byBill := make(map[string][]domain.BillEvent)
	for _, e := range results.Rows() {
		byBill[e.BillID] = append(byBill[e.BillID], e)
	}

	bills := make([]string, 0, len(byBill))
	for b := range byBill {
		bills = append(bills, b)
	}
	sort.Strings(bills)

	groups := make([]domain.SearchGroup, 0, len(bills))
	for _, bill := range bills {
		hits := byBill[bill]
		history := chronological(hits)

		current := history[len(history)-1].Status
		if timeline, ok := BillTimeline(full, bill); ok {
			current = timeline.CurrentStatus
		}

		groups = append(groups, domain.SearchGroup{
			BillID:        bill,
			Author:        hits[0].Author,
			CurrentStatus: current,
			FirstMention:  history[0].SessionDate,
			LastMention:   history[len(history)-1].SessionDate,
			Hits:          len(hits),
			History:       timelineEvents(history),
		})
	}
	return groups
}

// SortEvents returns a copy of rows stably sorted by column
func SortEvents(rows []domain.BillEvent, column string, ascending bool) ([]domain.BillEvent, error) {
	var less func(a, b domain.BillEvent) bool
	switch strings.ToLower(column) {
	case "", SortByDate:
		less = func(a, b domain.BillEvent) bool { return a.SessionDate.Before(b.SessionDate) }
	case SortByBill:
		less = func(a, b domain.BillEvent) bool { return a.BillID < b.BillID }
	case SortByAuthor:
		less = func(a, b domain.BillEvent) bool { return a.Author < b.Author }
	case SortByStatus:
		less = func(a, b domain.BillEvent) bool { return a.Status < b.Status }
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSortColumn, column)
	}

	out := make([]domain.BillEvent, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		if ascending {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})
	return out, nil
}

func chronological(rows []domain.BillEvent) []domain.BillEvent {
	out := make([]domain.BillEvent, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SessionDate.Before(out[j].SessionDate)
	})
	return out
}

func timelineEvents(rows []domain.BillEvent) []domain.TimelineEvent {
	events := make([]domain.TimelineEvent, len(rows))
	for i, e := range rows {
		events[i] = domain.TimelineEvent{
			SessionDate: e.SessionDate,
			Status:      e.Status,
			Source:      e.Source,
			Attendees:   e.Attendees,
		}
	}
	return events
}
