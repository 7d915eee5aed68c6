package analytics

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmaignacio/observatorio-tere/internal/dataset"
	"github.com/fmaignacio/observatorio-tere/internal/shared/testutil"
	"github.com/fmaignacio/observatorio-tere/pkg/contracts/domain"
)

func sample() *dataset.Table  { return dataset.NewTable(testutil.SampleEvents()) }
func example() *dataset.Table { return dataset.NewTable(testutil.ExampleEvents()) }
func empty() *dataset.Table   { return dataset.NewTable(nil) }

func TestReferenceExample(t *testing.T) {
	table := example()

	assert.Equal(t, map[string]int{
		"Em Discussão":                 1,
		"Aprovado (Votação Simbólica)": 1,
		"Rejeitado":                    1,
	}, StatusDistribution(table))

	timeline, ok := BillTimeline(table, "1/2025")
	require.True(t, ok)
	assert.Equal(t, "Aprovado (Votação Simbólica)", timeline.CurrentStatus)

	assert.Equal(t, map[Pair]int{{A: "Ana", B: "Bia"}: 1}, CoauthorPairs(table))
}

func TestStatusCounts(t *testing.T) {
	counts := StatusCounts(sample())
	require.Len(t, counts, 7)
	assert.Equal(t, domain.StatusCount{Status: "Em Discussão", Count: 3}, counts[0])
	assert.Equal(t, "Aprovado (Votação Simbólica)", counts[1].Status, "ties keep first-seen order")
	assert.Equal(t, "Rejeitado", counts[2].Status)

	assert.Empty(t, StatusCounts(empty()))
	assert.Empty(t, StatusDistribution(empty()))
}

func TestMonthlyCounts(t *testing.T) {
	assert.Equal(t, []domain.MonthCount{
		{Month: "2024-02", Count: 2},
		{Month: "2024-03", Count: 2},
		{Month: "2024-04", Count: 2},
		{Month: "2025-01", Count: 3},
	}, MonthlyCounts(sample()))
	assert.Empty(t, MonthlyCounts(empty()))
}

func TestTopAuthors(t *testing.T) {
	assert.Equal(t, []domain.AuthorCount{
		{Author: "Ana Souza", Count: 5},
		{Author: "Bia Lima", Count: 2},
		{Author: "Carlos Mendes", Count: 2},
	}, TopAuthors(sample(), 10))

	top := TopAuthors(sample(), 2)
	require.Len(t, top, 2)
	assert.Equal(t, "Bia Lima", top[1].Author, "Bia appears before Carlos")

	assert.Empty(t, TopAuthors(empty(), 10))
}

func TestApprovalRate(t *testing.T) {
	assert.InDelta(t, 100.0/3, ApprovalRate(sample()), 1e-9)
	assert.InDelta(t, 100.0/3, ApprovalRate(example()), 1e-9)
	assert.Equal(t, 0.0, ApprovalRate(empty()))
}

func TestApprovalRate_Monotonic(t *testing.T) {
	base := testutil.SampleEvents()
	before := ApprovalRate(dataset.NewTable(base))

	withRejected := append(append([]domain.BillEvent(nil), base...),
		testutil.Event(9, "8/2025", "Bia Lima", "Rejeitado", "2025-01-20"))
	assert.LessOrEqual(t, ApprovalRate(dataset.NewTable(withRejected)), before)

	withApproved := append(append([]domain.BillEvent(nil), base...),
		testutil.Event(9, "8/2025", "Bia Lima", "APROVADO em redação final", "2025-01-20"))
	assert.GreaterOrEqual(t, ApprovalRate(dataset.NewTable(withApproved)), before)
}

func TestAuthorProfile(t *testing.T) {
	profile := AuthorProfile(sample(), "Ana Souza", nil)
	assert.Equal(t, 5, profile.Total)
	assert.Equal(t, 2, profile.Approved)
	assert.InDelta(t, 40.0, profile.ApprovalRate, 1e-9)
	require.NotNil(t, profile.FirstDate)
	require.NotNil(t, profile.LastDate)
	assert.Equal(t, testutil.Date("2024-02-01"), *profile.FirstDate)
	assert.Equal(t, testutil.Date("2025-01-20"), *profile.LastDate)

	missing := AuthorProfile(sample(), "Ninguém", nil)
	assert.Equal(t, 0, missing.Total)
	assert.Equal(t, 0.0, missing.ApprovalRate)
	assert.Nil(t, missing.FirstDate)
	assert.Nil(t, missing.LastDate)
}

func TestAuthorApprovalRanking(t *testing.T) {
	ranking := AuthorApprovalRanking(sample(), 0, 0, nil)
	require.Len(t, ranking, 1, "only Ana has three or more events")
	assert.Equal(t, "Ana Souza", ranking[0].Author)

	ranking = AuthorApprovalRanking(sample(), 2, 10, nil)
	require.Len(t, ranking, 3)
	assert.Equal(t, []string{"Carlos Mendes", "Ana Souza", "Bia Lima"},
		[]string{ranking[0].Author, ranking[1].Author, ranking[2].Author})
	assert.InDelta(t, 50.0, ranking[0].ApprovalRate, 1e-9)

	assert.Len(t, AuthorApprovalRanking(sample(), 1, 2, nil), 2)
	assert.Empty(t, AuthorApprovalRanking(empty(), 1, 10, nil))
}

func TestActivityMatrix(t *testing.T) {
	m := ActivityMatrix(sample())
	assert.Equal(t, []int{2024, 2025}, m.Years)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, m.Months)
	require.Len(t, m.Cells, 12)

	assert.Equal(t, 2, m.Count(2, 2024))
	assert.Equal(t, 2, m.Count(3, 2024))
	assert.Equal(t, 2, m.Count(4, 2024))
	assert.Equal(t, 3, m.Count(1, 2025))
	assert.Equal(t, 0, m.Count(1, 2024))
	assert.Equal(t, 0, m.Count(6, 2030))

	total := 0
	for _, row := range m.Cells {
		for _, c := range row {
			total += c
		}
	}
	assert.Equal(t, 9, total)

	e := ActivityMatrix(empty())
	assert.Empty(t, e.Years)
	assert.Len(t, e.Cells, 12)
}

func TestCoauthorPairs(t *testing.T) {
	pairs := CoauthorPairs(sample())
	assert.Equal(t, map[Pair]int{
		{A: "Ana Souza", B: "Bia Lima"}:      2,
		{A: "Ana Souza", B: "Carlos Mendes"}: 2,
	}, pairs)

	for p := range pairs {
		assert.NotEqual(t, p.A, p.B)
		assert.Less(t, p.A, p.B)
	}

	assert.Empty(t, CoauthorPairs(empty()))

	single := dataset.NewTable([]domain.BillEvent{
		testutil.Event(0, "1/2025", "Ana", "Em Discussão", "2024-02-01"),
		testutil.Event(1, "2/2025", "Ana", "Em Discussão", "2024-02-01"),
	})
	assert.Empty(t, CoauthorPairs(single), "one author per session contributes nothing")
}

func TestCoauthorPairs_OrderIndependent(t *testing.T) {
	forward := testutil.ExampleEvents()
	reversed := []domain.BillEvent{forward[2], forward[1], forward[0]}

	assert.Equal(t, CoauthorPairs(dataset.NewTable(forward)), CoauthorPairs(dataset.NewTable(reversed)))
	assert.Equal(t, NewPair("Bia", "Ana"), NewPair("Ana", "Bia"))
}

func TestTopCoauthorPairs(t *testing.T) {
	top := TopCoauthorPairs(sample(), 10)
	require.Len(t, top, 2)
	assert.Equal(t, "Ana Souza & Bia Lima", top[0].Label)
	assert.Equal(t, "Ana Souza & Carlos Mendes", top[1].Label)
	assert.Equal(t, 2, top[0].Count)

	assert.Len(t, TopCoauthorPairs(sample(), 1), 1)
}

func TestBillTimeline(t *testing.T) {
	timeline, ok := BillTimeline(sample(), "3/2025")
	require.True(t, ok)
	assert.Equal(t, "Carlos Mendes", timeline.Author)
	assert.Equal(t, "Aprovado", timeline.CurrentStatus)
	assert.Equal(t, 45, timeline.DaysInProcess)
	require.Len(t, timeline.Events, 2)
	assert.Equal(t, "Encaminhado para Comissão", timeline.Events[0].Status)

	_, ok = BillTimeline(sample(), "99/2025")
	assert.False(t, ok)
}

func TestBillTimeline_SortedForAnyOrder(t *testing.T) {
	events := []domain.BillEvent{
		testutil.Event(0, "1/2025", "Ana", "Aprovado", "2024-05-01"),
		testutil.Event(1, "1/2025", "Ana", "Em Discussão", "2024-02-01"),
		testutil.Event(2, "1/2025", "Ana", "Encaminhado para Comissão", "2024-03-01"),
		testutil.Event(3, "1/2025", "Ana", "Rejeitado", "2024-05-01"),
	}
	timeline, ok := BillTimeline(dataset.NewTable(events), "1/2025")
	require.True(t, ok)

	for i := 1; i < len(timeline.Events); i++ {
		assert.False(t, timeline.Events[i].SessionDate.Before(timeline.Events[i-1].SessionDate))
	}
	assert.Equal(t, "Rejeitado", timeline.CurrentStatus, "same-date ties keep table order")
	assert.Equal(t, "Ana", timeline.Author)
}

func TestSearchGroups(t *testing.T) {
	results := sample().Where(func(e domain.BillEvent) bool { return e.Status == "Em Discussão" })

	groups := SearchGroups(results, sample())
	require.Len(t, groups, 3)
	assert.Equal(t, []string{"1/2025", "4/2025", "7/2025"},
		[]string{groups[0].BillID, groups[1].BillID, groups[2].BillID})

	first := groups[0]
	assert.Equal(t, "Ana Souza", first.Author)
	assert.Equal(t, 1, first.Hits)
	assert.Equal(t, "Aprovado (Votação Simbólica)", first.CurrentStatus, "status comes from the full history")
	assert.Equal(t, testutil.Date("2024-02-01"), first.FirstMention)

	assert.Empty(t, SearchGroups(empty(), sample()))
}

func TestSortEvents(t *testing.T) {
	rows := testutil.SampleEvents()

	byAuthor, err := SortEvents(rows, SortByAuthor, false)
	require.NoError(t, err)
	assert.Equal(t, "Carlos Mendes", byAuthor[0].Author)
	assert.Equal(t, 3, byAuthor[0].Row)
	assert.Equal(t, 4, byAuthor[1].Row, "stable within equal keys")

	byDate, err := SortEvents(rows, "", true)
	require.NoError(t, err)
	for i := 1; i < len(byDate); i++ {
		assert.False(t, byDate[i].SessionDate.Before(byDate[i-1].SessionDate))
	}

	byBill, err := SortEvents(rows, "BILL", true)
	require.NoError(t, err)
	assert.Equal(t, "1/2025", byBill[0].BillID)

	_, err = SortEvents(rows, "fonte", true)
	assert.True(t, errors.Is(err, ErrUnknownSortColumn))

	assert.Equal(t, 0, rows[0].Row, "input is not reordered")
}

func TestKPIs(t *testing.T) {
	full := sample()
	ana := full.Where(func(e domain.BillEvent) bool { return e.Author == "Ana Souza" })

	k := KPIs(ana, full, nil)
	assert.Equal(t, 5, k.TotalEvents)
	assert.Equal(t, 9, k.DatasetEvents)
	assert.Equal(t, 4, k.FilteredOut)
	assert.Equal(t, 4, k.UniqueBills)
	assert.Equal(t, "Ana Souza", k.MostActiveAuthor)
	assert.Equal(t, "Ana", k.MostActiveShort)
	assert.Equal(t, 5, k.MostActiveCount)
	assert.InDelta(t, 40.0, k.ApprovalRate, 1e-9)
	assert.Equal(t, 2, k.ApprovedCount)
	assert.Equal(t, 5, k.UniqueSessions)
}

func TestKPIs_Empty(t *testing.T) {
	k := KPIs(empty(), sample(), nil)
	assert.Equal(t, 0, k.TotalEvents)
	assert.Equal(t, 9, k.FilteredOut)
	assert.Equal(t, domain.NotAvailable, k.MostActiveAuthor)
	assert.Equal(t, domain.NotAvailable, k.MostActiveShort)
	assert.Equal(t, 0.0, k.ApprovalRate)
	assert.Equal(t, 0, k.UniqueSessions)
}

func TestCatalogClassifier(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	c := NewCatalogClassifier(map[string]bool{
		"Aprovado":                      true,
		" Aprovado (Votação Simbólica)": true,
		"Rejeitado":                     false,
		"Não aprovado":                  false,
	}, logger)

	tests := []struct {
		status string
		want   bool
	}{
		{"Aprovado", true},
		{"Aprovado (Votação Simbólica)", true},
		{"Rejeitado", false},
		{"Não aprovado", false},
		{"aprovado em 1ª votação", true},
		{"Em Discussão", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.IsApproved(tt.status), tt.status)
	}

	c.IsApproved("Em Discussão")
	assert.ElementsMatch(t, []string{"aprovado em 1ª votação", "Em Discussão"}, c.Unknown())
	assert.Len(t, logs.GetRecordsByLevel(slog.LevelWarn), 2, "unknown labels are logged once")

	assert.True(t, SubstringClassifier{}.IsApproved("Não aprovado"), "substring rule matches negations")
	assert.Equal(t, 0.0, ApprovalRateWith(dataset.NewTable([]domain.BillEvent{
		testutil.Event(0, "1/2025", "Ana", "Não aprovado", "2024-02-01"),
	}), c))
}

func TestNewClassifier(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	assert.Equal(t, DefaultClassifier, NewClassifier(nil, logger))
	assert.IsType(t, &CatalogClassifier{}, NewClassifier(map[string]bool{"Aprovado": true}, logger))
}
