package services

import (
	"time"

	"github.com/fmaignacio/observatorio-tere/internal/config"
	"github.com/fmaignacio/observatorio-tere/internal/dataset"
	"github.com/fmaignacio/observatorio-tere/internal/filter"
	"github.com/fmaignacio/observatorio-tere/pkg/contracts/domain"
)

// Query is one dashboard request: a filter plus table presentation options
type Query struct {
	Filter      filter.Spec `json:"filter"`
	SortBy      string      `json:"sort_by,omitempty"`
	Ascending   bool        `json:"ascending"`
	AuthorQuery string      `json:"author_query,omitempty"`
}

// Options lists the values the filter controls can offer
type Options struct {
	DateMin  *time.Time            `json:"date_min"`
	DateMax  *time.Time            `json:"date_max"`
	Range    *domain.DateRange     `json:"range,omitempty"`
	Presets  []domain.DatePreset   `json:"presets"`
	Authors  []string              `json:"authors"`
	Statuses []string              `json:"statuses"`
	Bills    []string              `json:"bills"`
	Features config.FeaturesConfig `json:"features"`
}

// Overview is the main dashboard tab
type Overview struct {
	Range        *domain.DateRange    `json:"range,omitempty"`
	KPIs         domain.KPIs          `json:"kpis"`
	StatusCounts []domain.StatusCount `json:"status_counts"`
	Monthly      []domain.MonthCount  `json:"monthly"`
	TopAuthors   []domain.AuthorCount `json:"top_authors"`
}

// EventsPage is the detailed, sorted table of the filtered view
type EventsPage struct {
	Total  int                `json:"total"`
	SortBy string             `json:"sort_by"`
	Order  string             `json:"order"`
	Events []domain.BillEvent `json:"events"`
}

// ExportResult is a serialized view ready to be downloaded or saved
type ExportResult struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Records     int    `json:"records"`
	Data        []byte `json:"-"`
}

// AuthorView is the per-author tab over the filtered view
type AuthorView struct {
	Profile      domain.AuthorProfile `json:"profile"`
	StatusCounts []domain.StatusCount `json:"status_counts"`
	Monthly      []domain.MonthCount  `json:"monthly"`
	Events       []domain.BillEvent   `json:"events"`
}

// SearchResult groups the free-text search hits by bill
type SearchResult struct {
	Term   string               `json:"term"`
	Total  int                  `json:"total"`
	Groups []domain.SearchGroup `json:"groups"`
}

// AdvancedStats are the heatmap, approval ranking and coauthor pairs
type AdvancedStats struct {
	Activity        domain.ActivityMatrix   `json:"activity"`
	ApprovalRanking []domain.AuthorApproval `json:"approval_ranking"`
	CoauthorPairs   []domain.CoauthorPair   `json:"coauthor_pairs"`
}

// ReloadResult describes a manual dataset refresh
type ReloadResult struct {
	Rows   int                `json:"rows"`
	Report dataset.LoadReport `json:"report"`
}

// Summary describes the full, unfiltered table
type Summary struct {
	Rows           int                  `json:"rows"`
	UniqueBills    int                  `json:"unique_bills"`
	UniqueSessions int                  `json:"unique_sessions"`
	Authors        int                  `json:"authors"`
	DateMin        *time.Time           `json:"date_min"`
	DateMax        *time.Time           `json:"date_max"`
	ApprovalRate   float64              `json:"approval_rate"`
	StatusCounts   []domain.StatusCount `json:"status_counts"`
	Report         dataset.LoadReport   `json:"report"`
}
