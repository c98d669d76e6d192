package homepage

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"showcase-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prop(id string, opts ...func(*domain.Property)) domain.Property {
	p := domain.Property{ID: id, Status: domain.StatusActive, Type: domain.TypeApartment}
	for _, o := range opts {
		o(&p)
	}
	return p
}

func withStatus(s domain.PropertyStatus) func(*domain.Property) {
	return func(p *domain.Property) { p.Status = s }
}

func withType(t string) func(*domain.Property) {
	return func(p *domain.Property) { p.Type = t }
}

func withPriority(n int) func(*domain.Property) {
	return func(p *domain.Property) { p.HomepageDisplay.HomepagePriority = n }
}

func withViews(total, week, month int64) func(*domain.Property) {
	return func(p *domain.Property) {
		p.ViewsStats = domain.ViewsStats{TotalViews: total, LastWeekViews: week, LastMonthViews: month}
	}
}

func ids(props []domain.Property) []string {
	out := make([]string, len(props))
	for i, p := range props {
		out[i] = p.ID
	}
	return out
}

func settings(mode domain.DisplayMode, n int) domain.HomepageSettings {
	return domain.HomepageSettings{DisplayMode: mode, NumberOfProperties: n}
}

func TestFilter_OnlyActiveWithoutTypes(t *testing.T) {
	props := []domain.Property{
		prop("1"),
		prop("2", withStatus(domain.StatusSold)),
		prop("3", withStatus(domain.StatusReserved)),
		prop("4", withType(domain.TypeLand)),
		prop("5", withStatus(domain.StatusDraft)),
	}
	s := settings(domain.DisplayRandom, 10)
	s.Filters.OnlyActive = true

	assert.Equal(t, []string{"1", "4"}, ids(Filter(props, s)))
}

func TestFilter_TypesAndActiveCompose(t *testing.T) {
	props := []domain.Property{
		prop("1", withType(domain.TypeVilla)),
		prop("2", withType(domain.TypeVilla), withStatus(domain.StatusSold)),
		prop("3", withType(domain.TypeCommercial)),
		prop("4", withType("duplex")),
	}
	s := settings(domain.DisplayRandom, 10)
	s.Filters = domain.HomepageFilters{Types: []string{domain.TypeVilla, "duplex"}, OnlyActive: true}
	assert.Equal(t, []string{"1", "4"}, ids(Filter(props, s)))

	s.Filters.OnlyActive = false
	assert.Equal(t, []string{"1", "2", "4"}, ids(Filter(props, s)))
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	props := []domain.Property{prop("1", withStatus(domain.StatusSold)), prop("2")}
	s := settings(domain.DisplayRandom, 10)
	s.Filters.OnlyActive = true

	_ = Filter(props, s)
	assert.Equal(t, []string{"1", "2"}, ids(props))
}

func TestSelect_CapInvariant(t *testing.T) {
	props := make([]domain.Property, 0, 20)
	for i := 0; i < 20; i++ {
		props = append(props, prop(fmt.Sprint(i), withViews(int64(i), int64(i), int64(i)), withPriority(i)))
	}
	all := map[string]struct{}{}
	for _, p := range props {
		all[p.ID] = struct{}{}
	}

	modes := []domain.DisplayMode{domain.DisplayManual, domain.DisplayMostViewed, domain.DisplayRandom, "bogus"}
	for _, mode := range modes {
		for _, n := range []int{-1, 0, 1, 3, 20, 25} {
			s := settings(mode, n)
			for id := range all {
				s.ManuallySelectedIDs = append(s.ManuallySelectedIDs, id)
			}
			out := Select(props, s)
			limit := n
			if limit < 0 {
				limit = 0
			}
			assert.LessOrEqual(t, len(out), limit, "mode=%s n=%d", mode, n)
		}
	}
}

func TestSelect_SubsetInvariant(t *testing.T) {
	props := []domain.Property{prop("a"), prop("b", withStatus(domain.StatusSold)), prop("c")}
	s := settings(domain.DisplayManual, 10)
	s.ManuallySelectedIDs = []string{"a", "c", "ghost"}

	out := Select(props, s)
	known := map[string]bool{"a": true, "b": true, "c": true}
	require.NotEmpty(t, out)
	for _, p := range out {
		assert.True(t, known[p.ID], "unexpected id %s", p.ID)
	}
	assert.NotContains(t, ids(out), "ghost")
}

func TestRank_Manual(t *testing.T) {
	props := []domain.Property{
		prop("1", withPriority(5)),
		prop("2", withPriority(9)),
		prop("3", withPriority(10)),
	}
	s := settings(domain.DisplayManual, 10)
	s.ManuallySelectedIDs = []string{"1", "3"}

	assert.Equal(t, []string{"3", "1"}, ids(Rank(props, s, s.SelectedIDSet())))
}

func TestRank_MostViewedWeek(t *testing.T) {
	props := []domain.Property{
		prop("B", withViews(1000, 22, 30)),
		prop("A", withViews(10, 45, 50)),
	}
	s := settings(domain.DisplayMostViewed, 10)
	s.PopularityPeriod = domain.PeriodWeek

	assert.Equal(t, []string{"A", "B"}, ids(Rank(props, s, nil)))
}

func TestRank_MostViewedPeriods(t *testing.T) {
	props := []domain.Property{
		prop("week", withViews(1, 100, 2)),
		prop("month", withViews(2, 1, 100)),
		prop("total", withViews(100, 2, 1)),
	}
	cases := []struct {
		period domain.PopularityPeriod
		first  string
	}{
		{domain.PeriodWeek, "week"},
		{domain.PeriodMonth, "month"},
		{domain.PeriodAllTime, "total"},
		{"", "total"},
		{"fortnight", "total"},
	}
	for _, tc := range cases {
		s := settings(domain.DisplayMostViewed, 10)
		s.PopularityPeriod = tc.period
		out := Rank(props, s, nil)
		require.Len(t, out, 3)
		assert.Equal(t, tc.first, out[0].ID, "period=%q", tc.period)
	}
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	manual := []domain.Property{
		prop("x", withPriority(1)),
		prop("y", withPriority(3)),
		prop("z", withPriority(1)),
		prop("w", withPriority(3)),
	}
	s := settings(domain.DisplayManual, 10)
	s.ManuallySelectedIDs = []string{"w", "x", "y", "z"}
	assert.Equal(t, []string{"y", "w", "x", "z"}, ids(Rank(manual, s, s.SelectedIDSet())))

	viewed := []domain.Property{
		prop("p", withViews(5, 0, 0)),
		prop("q", withViews(7, 0, 0)),
		prop("r", withViews(5, 0, 0)),
	}
	s = settings(domain.DisplayMostViewed, 10)
	s.PopularityPeriod = domain.PeriodAllTime
	assert.Equal(t, []string{"q", "p", "r"}, ids(Rank(viewed, s, nil)))
}

func TestRank_RandomAndUnknownKeepInputOrder(t *testing.T) {
	props := []domain.Property{prop("3"), prop("1"), prop("2")}
	for _, mode := range []domain.DisplayMode{domain.DisplayRandom, "", "carousel"} {
		out := Rank(props, settings(mode, 10), nil)
		assert.Equal(t, []string{"3", "1", "2"}, ids(out), "mode=%q", mode)
	}
}

func TestSelect_Truncation(t *testing.T) {
	props := []domain.Property{
		prop("e", withViews(1, 0, 0)),
		prop("a", withViews(5, 0, 0)),
		prop("c", withViews(3, 0, 0)),
		prop("b", withViews(4, 0, 0)),
		prop("d", withViews(2, 0, 0)),
	}
	s := settings(domain.DisplayMostViewed, 3)
	s.PopularityPeriod = domain.PeriodAllTime

	ranked := Rank(Filter(props, s), s, nil)
	require.Len(t, ranked, 5)

	out := Select(props, s)
	assert.Equal(t, ids(ranked[:3]), ids(out))
	assert.Equal(t, []string{"a", "b", "c"}, ids(out))
}

func TestSelect_NoActiveProperties(t *testing.T) {
	props := []domain.Property{
		prop("1", withStatus(domain.StatusSold)),
		prop("2", withStatus(domain.StatusDraft)),
	}
	for _, mode := range []domain.DisplayMode{domain.DisplayManual, domain.DisplayMostViewed, domain.DisplayRandom} {
		s := settings(mode, 6)
		s.Filters.OnlyActive = true
		s.ManuallySelectedIDs = []string{"1", "2"}

		out := Select(props, s)
		require.NotNil(t, out)
		assert.Empty(t, out)
	}
}

func TestSelect_Idempotent(t *testing.T) {
	props := []domain.Property{
		prop("1", withPriority(2), withViews(3, 3, 3)),
		prop("2", withPriority(2), withViews(3, 3, 3)),
		prop("3", withPriority(7), withViews(9, 9, 9)),
		prop("4", withPriority(0), withViews(1, 1, 1)),
	}
	for _, mode := range []domain.DisplayMode{domain.DisplayManual, domain.DisplayMostViewed} {
		s := settings(mode, 3)
		s.ManuallySelectedIDs = []string{"1", "2", "3", "4"}
		s.PopularityPeriod = domain.PeriodMonth

		first := Select(props, s)
		second := Select(props, s)
		assert.Equal(t, ids(first), ids(second), "mode=%s", mode)
	}
}

func TestPolicy_ShuffleOnlyInRandomMode(t *testing.T) {
	props := make([]domain.Property, 0, 10)
	for i := 0; i < 10; i++ {
		props = append(props, prop(fmt.Sprint(i), withPriority(10-i)))
	}
	calls := 0
	policy := Policy{Shuffle: func(items []domain.Property) {
		calls++
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}}

	s := settings(domain.DisplayManual, 3)
	s.ManuallySelectedIDs = []string{"0", "1", "2", "3"}
	assert.Equal(t, []string{"0", "1", "2"}, ids(policy.Select(props, s)))
	assert.Equal(t, 0, calls)
	assert.True(t, policy.Deterministic(domain.DisplayManual))

	s = settings(domain.DisplayRandom, 3)
	assert.Equal(t, []string{"9", "8", "7"}, ids(policy.Select(props, s)))
	assert.Equal(t, 1, calls)
	assert.False(t, policy.Deterministic(domain.DisplayRandom))

	// вход не перемешан
	assert.Equal(t, "0", props[0].ID)
}

func TestNewShuffler_SeededIsReproducibleAndPermutes(t *testing.T) {
	build := func() []domain.Property {
		out := make([]domain.Property, 0, 12)
		for i := 0; i < 12; i++ {
			out = append(out, prop(fmt.Sprint(i)))
		}
		return out
	}

	a, b := build(), build()
	NewShuffler(rand.NewPCG(1, 2))(a)
	NewShuffler(rand.NewPCG(1, 2))(b)
	assert.Equal(t, ids(a), ids(b))
	assert.ElementsMatch(t, ids(build()), ids(a))
}
