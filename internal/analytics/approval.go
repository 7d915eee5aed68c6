package analytics

import (
	"sort"

	"github.com/fmaignacio/observatorio-tere/internal/dataset"
	"github.com/fmaignacio/observatorio-tere/pkg/contracts/domain"
)

// DefaultMinBills is the minimum number of events for an author to be ranked
const DefaultMinBills = 3

// DefaultRankingSize is the default length of rankings
const DefaultRankingSize = 10

// ApprovalRate returns the percentage of approved events in table using the
// default classifier. An empty table has a rate of 0.
func ApprovalRate(table *dataset.Table) float64 {
	return ApprovalRateWith(table, DefaultClassifier)
}

// ApprovalRateWith is ApprovalRate with an explicit classifier
func ApprovalRateWith(table *dataset.Table, c Classifier) float64 {
	approved, total := approvedCount(table.Rows(), c)
	return rate(approved, total)
}

// AuthorProfile summarizes the events of one author. The dates are nil when
// the author has no events in table.
func AuthorProfile(table *dataset.Table, author string, c Classifier) domain.AuthorProfile {
	rows := table.Where(func(e domain.BillEvent) bool { return e.Author == author })
	approved, total := approvedCount(rows.Rows(), c)

	profile := domain.AuthorProfile{
		Author:       author,
		Total:        total,
		Approved:     approved,
		ApprovalRate: rate(approved, total),
	}
	if first, last, ok := rows.DateBounds(); ok {
		profile.FirstDate = &first
		profile.LastDate = &last
	}
	return profile
}

// AuthorApprovalRanking ranks authors with at least minBills events by
// approval rate, highest first, keeping the top n. Equal rates keep
// first-encountered order. Non-positive arguments use the defaults.
func AuthorApprovalRanking(table *dataset.Table, minBills, n int, c Classifier) []domain.AuthorApproval {
	if minBills <= 0 {
		minBills = DefaultMinBills
	}
	if n <= 0 {
		n = DefaultRankingSize
	}
	c = classifierOrDefault(c)

	type tally struct{ total, approved int }
	tallies := make(map[string]*tally)
	var order []string
	for _, e := range table.Rows() {
		t, ok := tallies[e.Author]
		if !ok {
			t = &tally{}
			tallies[e.Author] = t
			order = append(order, e.Author)
		}
		t.total++
		if c.IsApproved(e.Status) {
			t.approved++
		}
	}

	ranking := make([]domain.AuthorApproval, 0, len(order))
	for _, author := range order {
		t := tallies[author]
		if t.total < minBills {
			continue
		}
		ranking = append(ranking, domain.AuthorApproval{
			Author:       author,
			Total:        t.total,
			Approved:     t.approved,
			ApprovalRate: rate(t.approved, t.total),
		})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].ApprovalRate > ranking[j].ApprovalRate
	})
	if len(ranking) > n {
		ranking = ranking[:n]
	}
	return ranking
}

func approvedCount(rows []domain.BillEvent, c Classifier) (approved, total int) {
	c = classifierOrDefault(c)
	for _, e := range rows {
		if c.IsApproved(e.Status) {
			approved++
		}
	}
	return approved, len(rows)
}

func rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
