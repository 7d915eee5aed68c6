package http

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fmaignacio/observatorio-tere/internal/shared/testutil"
	"github.com/fmaignacio/observatorio-tere/pkg/contracts/domain"
)

func TestParseDashboardQuery(t *testing.T) {
	values := url.Values{
		ParamStart:  {" 2024-01-01 "},
		ParamPreset: {"last_30_days"},
		ParamAuthor: {"Ana", " ", "Bia "},
		ParamStatus: {"Aprovado"},
		ParamSortBy: {" Status"},
		ParamOrder:  {"ASC"},
	}

	dq := ParseDashboardQuery(values)
	assert.Equal(t, "2024-01-01", dq.Start)
	assert.Equal(t, []string{"Ana", "Bia"}, dq.Authors)
	assert.Equal(t, "status", dq.SortBy)
	assert.Equal(t, "asc", dq.Order)

	q := dq.ServiceQuery()
	assert.Equal(t, testutil.DatePtr("2024-01-01"), q.Filter.Start)
	assert.Nil(t, q.Filter.End)
	assert.Equal(t, domain.PresetLast30Days, q.Filter.Preset)
	assert.Equal(t, []string{"Aprovado"}, q.Filter.Statuses)
	assert.True(t, q.Ascending)
}

func TestParseDashboardQuery_Empty(t *testing.T) {
	q := ParseDashboardQuery(url.Values{}).ServiceQuery()
	assert.Nil(t, q.Filter.Start)
	assert.Nil(t, q.Filter.Authors)
	assert.False(t, q.Ascending, "newest first by default")
	assert.Empty(t, q.SortBy)
}
