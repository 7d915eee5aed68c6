package http

import (
	"net/url"
	"strings"
	"time"

	"github.com/fmaignacio/observatorio-tere/internal/filter"
	"github.com/fmaignacio/observatorio-tere/internal/services"
	"github.com/fmaignacio/observatorio-tere/pkg/contracts/domain"
)

// Filter query parameters
const (
	ParamStart       = "start"
	ParamEnd         = "end"
	ParamPreset      = "preset"
	ParamAuthor      = "author"
	ParamStatus      = "status"
	ParamBill        = "bill"
	ParamAuthorQuery = "author_query"
	ParamSortBy      = "sort_by"
	ParamOrder       = "order"
	ParamFormat      = "format"
	ParamSearch      = "q"
)

// FilterParams are the parameters accepted by every filtered view
var FilterParams = []string{
	ParamStart, ParamEnd, ParamPreset, ParamAuthor, ParamStatus,
	ParamBill, ParamAuthorQuery, ParamSortBy, ParamOrder,
}

// DashboardQuery is the raw, validated form of the filter query string.
// author and status repeat for multi-selection.
type DashboardQuery struct {
	Start       string   `query:"start" validate:"ymd"`
	End         string   `query:"end" validate:"ymd"`
	Preset      string   `query:"preset" validate:"preset"`
	Authors     []string `query:"author" validate:"dive,max=200"`
	Statuses    []string `query:"status" validate:"dive,max=200"`
	Bill        string   `query:"bill" validate:"max=100"`
	AuthorQuery string   `query:"author_query" validate:"max=100"`
	SortBy      string   `query:"sort_by" validate:"omitempty,oneof=date bill author status"`
	Order       string   `query:"order" validate:"omitempty,oneof=asc desc"`
}

// ParseDashboardQuery reads the filter parameters from values. Empty
// repeated values are dropped.
func ParseDashboardQuery(values url.Values) DashboardQuery {
	return DashboardQuery{
		Start:       strings.TrimSpace(values.Get(ParamStart)),
		End:         strings.TrimSpace(values.Get(ParamEnd)),
		Preset:      strings.TrimSpace(values.Get(ParamPreset)),
		Authors:     nonEmpty(values[ParamAuthor]),
		Statuses:    nonEmpty(values[ParamStatus]),
		Bill:        values.Get(ParamBill),
		AuthorQuery: values.Get(ParamAuthorQuery),
		SortBy:      strings.ToLower(strings.TrimSpace(values.Get(ParamSortBy))),
		Order:       strings.ToLower(strings.TrimSpace(values.Get(ParamOrder))),
	}
}

// ServiceQuery converts a validated query. Dates must already have passed
// validation; unparsable ones are treated as absent.
func (q DashboardQuery) ServiceQuery() services.Query {
	return services.Query{
		Filter: filter.Spec{
			Start:      parseDay(q.Start),
			End:        parseDay(q.End),
			Preset:     domain.DatePreset(q.Preset),
			Authors:    q.Authors,
			Statuses:   q.Statuses,
			BillSearch: q.Bill,
		},
		SortBy:      q.SortBy,
		Ascending:   q.Order == "asc",
		AuthorQuery: q.AuthorQuery,
	}
}

func parseDay(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
