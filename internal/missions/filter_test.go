package missions_test

import (
	"slices"
	"testing"

	"go-akashdhara/internal/catalog"
	"go-akashdhara/internal/domain"
	"go-akashdhara/internal/missions"
)

func ids(ms []domain.Mission) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}

func TestFilterByCountry(t *testing.T) {
	all := catalog.MustLoad().Missions()

	spec := missions.DefaultFilterSpec()
	spec.Countries = []string{"India"}
	got := missions.Filter(all, spec, "")

	want := []string{"chandrayaan-1", "mangalyaan", "chandrayaan-3"}
	if !slices.Equal(ids(got), want) {
		t.Fatalf("expected %v, got %v", want, ids(got))
	}
	for _, m := range got {
		if m.ID == "apollo-11" || m.ID == "voyager-1" {
			t.Fatalf("unexpected mission %s in India filter", m.ID)
		}
	}
}

func TestFilterDimensionsAreANDed(t *testing.T) {
	all := catalog.MustLoad().Missions()

	spec := missions.DefaultFilterSpec()
	spec.Countries = []string{"India"}
	spec.MissionTypes = []string{string(domain.TypeMars)}
	got := missions.Filter(all, spec, "")
	if !slices.Equal(ids(got), []string{"mangalyaan"}) {
		t.Fatalf("expected only mangalyaan, got %v", ids(got))
	}

	spec.Statuses = []string{string(domain.StatusOngoing)}
	if got := missions.Filter(all, spec, ""); len(got) != 0 {
		t.Fatalf("expected no missions, got %v", ids(got))
	}
}

func TestFilterSearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	all := catalog.MustLoad().Missions()

	cases := []struct {
		search string
		want   []string
	}{
		{"", ids(all)},
		{"VOYAGER", []string{"voyager-1"}},
		{"isro", []string{"chandrayaan-1", "mangalyaan", "chandrayaan-3"}},
		{"united states", []string{"apollo-11", "mars-perseverance", "voyager-1"}},
		{"microbial", []string{"mars-perseverance"}},
		{"no such mission", []string{}},
	}
	for _, tc := range cases {
		got := ids(missions.Filter(all, missions.FilterSpec{}, tc.search))
		if !slices.Equal(got, tc.want) {
			t.Errorf("search %q: expected %v, got %v", tc.search, tc.want, got)
		}
	}
}

func TestFilterDateRangeInclusive(t *testing.T) {
	all := catalog.MustLoad().Missions()

	spec := missions.FilterSpec{DateRange: missions.YearRange{StartYear: 2008, EndYear: 2020}}
	got := ids(missions.Filter(all, spec, ""))
	want := []string{"chandrayaan-1", "mars-perseverance", "mangalyaan"}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFilterIsIdempotent(t *testing.T) {
	all := catalog.MustLoad().Missions()

	spec := missions.DefaultFilterSpec()
	spec.Statuses = []string{string(domain.StatusSuccess)}
	once := missions.Filter(all, spec, "a")
	twice := missions.Filter(once, spec, "a")
	if !slices.Equal(ids(once), ids(twice)) {
		t.Fatalf("filter not idempotent: %v vs %v", ids(once), ids(twice))
	}
}

func TestSortByDate(t *testing.T) {
	all := catalog.MustLoad().Missions()

	asc := missions.Apply(all, missions.Query{SortBy: missions.SortByDate, Order: missions.Ascending})
	want := []string{"apollo-11", "voyager-1", "chandrayaan-1", "mangalyaan", "mars-perseverance", "chandrayaan-3"}
	if !slices.Equal(ids(asc), want) {
		t.Fatalf("expected %v, got %v", want, ids(asc))
	}

	desc := missions.Apply(all, missions.DefaultQuery())
	slices.Reverse(want)
	if !slices.Equal(ids(desc), want) {
		t.Fatalf("expected %v, got %v", want, ids(desc))
	}
}

func TestSortIsStableInBothDirections(t *testing.T) {
	all := catalog.MustLoad().Missions()

	// NASA ties: apollo-11, mars-perseverance, voyager-1 in catalog order.
	for _, order := range []missions.SortOrder{missions.Ascending, missions.Descending} {
		sorted := missions.Apply(all, missions.Query{SortBy: missions.SortByAgency, Order: order})
		var nasa []string
		for _, m := range sorted {
			if m.Agency == "NASA" {
				nasa = append(nasa, m.ID)
			}
		}
		want := []string{"apollo-11", "mars-perseverance", "voyager-1"}
		if !slices.Equal(nasa, want) {
			t.Fatalf("order %s: expected ties %v, got %v", order, want, nasa)
		}
	}

	desc := missions.Apply(all, missions.Query{SortBy: missions.SortByAgency, Order: missions.Descending})
	back := missions.Apply(desc, missions.Query{SortBy: missions.SortByAgency, Order: missions.Ascending})
	first := missions.Apply(all, missions.Query{SortBy: missions.SortByAgency, Order: missions.Ascending})
	if !slices.Equal(ids(back), ids(first)) {
		t.Fatalf("round trip changed order: %v vs %v", ids(back), ids(first))
	}
}

func TestSortByName(t *testing.T) {
	all := catalog.MustLoad().Missions()
	got := ids(missions.Apply(all, missions.Query{SortBy: missions.SortByName, Order: missions.Ascending}))
	want := []string{"apollo-11", "chandrayaan-1", "chandrayaan-3", "mangalyaan", "mars-perseverance", "voyager-1"}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	all := catalog.MustLoad().Missions()
	before := ids(all)
	missions.Apply(all, missions.Query{SortBy: missions.SortByName, Order: missions.Descending})
	if !slices.Equal(before, ids(all)) {
		t.Fatalf("input reordered")
	}
}

func TestToggleFilter(t *testing.T) {
	spec := missions.DefaultFilterSpec()
	on := spec.Toggle(missions.DimensionCountry, "India")
	if !slices.Equal(on.Countries, []string{"India"}) {
		t.Fatalf("expected India selected, got %v", on.Countries)
	}
	if len(spec.Countries) != 0 {
		t.Fatalf("Toggle modified receiver")
	}
	off := on.Toggle(missions.DimensionCountry, "India")
	if len(off.Countries) != 0 {
		t.Fatalf("expected India removed, got %v", off.Countries)
	}
}

func TestParseSort(t *testing.T) {
	if k, err := missions.ParseSortKey(""); err != nil || k != missions.SortByDate {
		t.Fatalf("expected default date key, got %q %v", k, err)
	}
	if _, err := missions.ParseSortKey("cost"); err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if o, err := missions.ParseSortOrder("ASC"); err != nil || o != missions.Ascending {
		t.Fatalf("expected asc, got %q %v", o, err)
	}
}

func TestParseQuery(t *testing.T) {
	q, err := missions.ParseQuery(missions.Params{
		Countries: []string{"India,United States", "India"},
		Statuses:  []string{"Success"},
		StartYear: 1969,
		Sort:      "name",
	})
	if err != nil {
		t.Fatalf("ParseQuery failed: %v", err)
	}
	if !slices.Equal(q.Filters.Countries, []string{"India", "United States"}) {
		t.Fatalf("unexpected countries %v", q.Filters.Countries)
	}
	if q.Filters.DateRange != (missions.YearRange{StartYear: 1969, EndYear: missions.DefaultEndYear}) {
		t.Fatalf("unexpected range %+v", q.Filters.DateRange)
	}
	if q.SortBy != missions.SortByName || q.Order != missions.Descending {
		t.Fatalf("unexpected ordering %s %s", q.SortBy, q.Order)
	}

	bad := []missions.Params{
		{Types: []string{"Asteroid Mining"}},
		{Statuses: []string{"Exploded"}},
		{StartYear: 2020, EndYear: 2010},
		{Order: "sideways"},
	}
	for _, p := range bad {
		if _, err := missions.ParseQuery(p); err == nil {
			t.Errorf("expected error for %+v", p)
		}
	}
}
