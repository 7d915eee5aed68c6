package domain

import (
	"time"
)

// NotAvailable is the label used when an aggregate has no data
const NotAvailable = "N/A"

// StatusCount is the number of events carrying a status label
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// MonthCount is the number of events in a calendar month ("2024-02")
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// AuthorCount is the number of events proposed by an author
type AuthorCount struct {
	Author string `json:"author"`
	Count  int    `json:"count"`
}

// AuthorProfile summarizes one council member's activity.
// FirstDate and LastDate are nil when the author has no events.
type AuthorProfile struct {
	Author       string     `json:"author"`
	Total        int        `json:"total"`
	Approved     int        `json:"approved"`
	ApprovalRate float64    `json:"approval_rate"`
	FirstDate    *time.Time `json:"first_date"`
	LastDate     *time.Time `json:"last_date"`
}

// AuthorApproval is one row of the per-author approval ranking
type AuthorApproval struct {
	Author       string  `json:"author"`
	Total        int     `json:"total"`
	Approved     int     `json:"approved"`
	ApprovalRate float64 `json:"approval_rate"`
}

// ActivityMatrix is a month (1-12) by year event count pivot.
// Cells[m][y] holds the count for month Months[m] in year Years[y].
type ActivityMatrix struct {
	Years  []int   `json:"years"`
	Months []int   `json:"months"`
	Cells  [][]int `json:"cells"`
}

// Count returns the cell for a month (1-12) and year, zero when absent
func (m ActivityMatrix) Count(month, year int) int {
	if month < 1 || month > len(m.Cells) {
		return 0
	}
	for i, y := range m.Years {
		if y == year {
			return m.Cells[month-1][i]
		}
	}
	return 0
}

// TimelineEvent is one step of a bill's history
type TimelineEvent struct {
	SessionDate time.Time `json:"session_date"`
	Status      string    `json:"status"`
	Source      string    `json:"source"`
	Attendees   string    `json:"attendees,omitempty"`
}

// BillTimeline is the chronological history of one bill
type BillTimeline struct {
	BillID        string          `json:"bill_id"`
	Author        string          `json:"author"`
	CurrentStatus string          `json:"current_status"`
	DaysInProcess int             `json:"days_in_process"`
	FirstDate     *time.Time      `json:"first_date"`
	LastDate      *time.Time      `json:"last_date"`
	Events        []TimelineEvent `json:"events"`
}

// CoauthorPair counts sessions in which two distinct authors both had events.
// A always sorts before B.
type CoauthorPair struct {
	A     string `json:"author_a"`
	B     string `json:"author_b"`
	Count int    `json:"count"`
	Label string `json:"label"`
}

// KPIs are the headline indicators of a filtered view
type KPIs struct {
	TotalEvents      int     `json:"total_events"`
	DatasetEvents    int     `json:"dataset_events"`
	FilteredOut      int     `json:"filtered_out"`
	UniqueBills      int     `json:"unique_bills"`
	MostActiveAuthor string  `json:"most_active_author"`
	MostActiveShort  string  `json:"most_active_short"`
	MostActiveCount  int     `json:"most_active_count"`
	ApprovalRate     float64 `json:"approval_rate"`
	ApprovedCount    int     `json:"approved_count"`
	UniqueSessions   int     `json:"unique_sessions"`
}

// SearchGroup collects the search hits of one bill
type SearchGroup struct {
	BillID        string          `json:"bill_id"`
	Author        string          `json:"author"`
	CurrentStatus string          `json:"current_status"`
	FirstMention  time.Time       `json:"first_mention"`
	LastMention   time.Time       `json:"last_mention"`
	Hits          int             `json:"hits"`
	History       []TimelineEvent `json:"history"`
}
