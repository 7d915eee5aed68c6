package analytics

import (
	"strings"

	"github.com/fmaignacio/observatorio-tere/internal/dataset"
	"github.com/fmaignacio/observatorio-tere/pkg/contracts/domain"
)

// KPIs computes the headline indicators of filtered against the full table.
// An empty view reports "N/A" as the most active author and a 0% rate.
func KPIs(filtered, full *dataset.Table, c Classifier) domain.KPIs {
	approved, total := approvedCount(filtered.Rows(), c)

	k := domain.KPIs{
		TotalEvents:      total,
		DatasetEvents:    full.Len(),
		FilteredOut:      full.Len() - total,
		UniqueBills:      filtered.UniqueBills(),
		MostActiveAuthor: domain.NotAvailable,
		MostActiveShort:  domain.NotAvailable,
		ApprovalRate:     rate(approved, total),
		ApprovedCount:    approved,
		UniqueSessions:   filtered.UniqueSessions(),
	}
	if k.FilteredOut < 0 {
		k.FilteredOut = 0
	}

	if top := TopAuthors(filtered, 1); len(top) == 1 {
		k.MostActiveAuthor = top[0].Author
		k.MostActiveShort = firstName(top[0].Author)
		k.MostActiveCount = top[0].Count
	}
	return k
}

func firstName(name string) string {
	if fields := strings.Fields(name); len(fields) > 0 {
		return fields[0]
	}
	return name
}
