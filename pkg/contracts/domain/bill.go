package domain

import (
	"time"
)

// Source table column names as they appear in the CSV header
const (
	ColumnBill      = "PL"
	ColumnAuthor    = "Autor"
	ColumnStatus    = "Status"
	ColumnDate      = "Data Sessão"
	ColumnAttendees = "Presentes"
	ColumnSource    = "Fonte"
)

// Columns lists the source columns in export order.
var Columns = []string{
	ColumnBill,
	ColumnAuthor,
	ColumnStatus,
	ColumnDate,
	ColumnAttendees,
	ColumnSource,
}

// DateLayout is the calendar date layout used for exports and query parameters
const DateLayout = "2006-01-02"

// BillEvent represents one recorded session event for a bill ("PL").
// A bill has one event per session where it was mentioned.
type BillEvent struct {
	// Row is the zero-based data row offset in the source file
	Row         int       `json:"row"`
	BillID      string    `json:"bill_id" csv:"PL"`
	Author      string    `json:"author" csv:"Autor"`
	Status      string    `json:"status" csv:"Status"`
	SessionDate time.Time `json:"session_date" csv:"Data Sessão"`
	Attendees   string    `json:"attendees" csv:"Presentes"`
	Source      string    `json:"source" csv:"Fonte"`

	// Derived calendar fields, computed at load time
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	Quarter   int    `json:"quarter"`
}

// NewBillEvent builds an event and fills the derived calendar fields.
// The session date is truncated to its calendar date in UTC.
func NewBillEvent(row int, billID, author, status string, sessionDate time.Time, attendees, source string) BillEvent {
	day := time.Date(sessionDate.Year(), sessionDate.Month(), sessionDate.Day(), 0, 0, 0, 0, time.UTC)
	return BillEvent{
		Row:         row,
		BillID:      billID,
		Author:      author,
		Status:      status,
		SessionDate: day,
		Attendees:   attendees,
		Source:      source,
		Year:        day.Year(),
		Month:       int(day.Month()),
		MonthName:   day.Month().String(),
		Quarter:     (int(day.Month())-1)/3 + 1,
	}
}

// SessionKey returns the calendar date identifying the event's session
func (e BillEvent) SessionKey() string {
	return e.SessionDate.Format(DateLayout)
}

// MonthKey returns the year-month bucket of the event ("2024-02")
func (e BillEvent) MonthKey() string {
	return e.SessionDate.Format("2006-01")
}

// Record returns the event as a CSV record in Columns order
func (e BillEvent) Record() []string {
	return []string{
		e.BillID,
		e.Author,
		e.Status,
		e.SessionDate.Format(DateLayout),
		e.Attendees,
		e.Source,
	}
}

// DatePreset selects a quick date range relative to the observed data
type DatePreset string

const (
	PresetCustom     DatePreset = "custom"
	PresetLast30Days DatePreset = "last_30_days"
	PresetLast90Days DatePreset = "last_90_days"
	PresetLast6Month DatePreset = "last_180_days"
	PresetAll        DatePreset = "all"
)

// Presets lists the supported quick date presets in display order
var Presets = []DatePreset{
	PresetCustom,
	PresetLast30Days,
	PresetLast90Days,
	PresetLast6Month,
	PresetAll,
}

// Days returns the window length of a relative preset, zero otherwise
func (p DatePreset) Days() int {
	switch p {
	case PresetLast30Days:
		return 30
	case PresetLast90Days:
		return 90
	case PresetLast6Month:
		return 180
	default:
		return 0
	}
}

// Valid reports whether the preset is known. The empty preset is treated as custom.
func (p DatePreset) Valid() bool {
	switch p {
	case "", PresetCustom, PresetLast30Days, PresetLast90Days, PresetLast6Month, PresetAll:
		return true
	}
	return false
}

// DateRange is an inclusive calendar date range
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls within the range, both ends inclusive
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}
