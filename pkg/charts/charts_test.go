package charts

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ruslano69/launchdash/pkg/launch"
)

// abDataset: site A has classes [1,0,1], site B has [1,1].
func abDataset() *launch.Dataset {
	return launch.NewDataset("ab", []launch.Record{
		{Site: "A", PayloadMassKg: 1000, Class: 1, BoosterCategory: "FT"},
		{Site: "A", PayloadMassKg: 2000, Class: 0, BoosterCategory: "v1.1"},
		{Site: "B", PayloadMassKg: 3000, Class: 1, BoosterCategory: "FT"},
		{Site: "A", PayloadMassKg: 4000, Class: 1, BoosterCategory: "B4"},
		{Site: "B", PayloadMassKg: 5000, Class: 1, BoosterCategory: "B5"},
	})
}

func fiveSiteDataset() *launch.Dataset {
	sites := []string{"CCAFS LC-40", "CCAFS SLC-40", "KSC LC-39A", "VAFB SLC-4E", "Boca Chica"}
	var recs []launch.Record
	for i, s := range sites {
		for j := 0; j <= i; j++ {
			recs = append(recs, launch.Record{Site: s, PayloadMassKg: float64(1000 * (i + j)), Class: j % 2, BoosterCategory: "FT"})
		}
	}
	return launch.NewDataset("five", recs)
}

func slicesByLabel(spec ChartSpec) map[string]float64 {
	m := make(map[string]float64)
	for _, s := range spec.Slices {
		m[s.Label] = s.Value
	}
	return m
}

func TestBuildSuccessProportion_AllSites(t *testing.T) {
	spec := BuildSuccessProportion(abDataset(), AllSites)

	if spec.Kind != KindPie {
		t.Errorf("Kind = %q, want pie", spec.Kind)
	}
	want := map[string]float64{"A": 2, "B": 2}
	if got := slicesByLabel(spec); !reflect.DeepEqual(got, want) {
		t.Errorf("slices = %v, want %v", got, want)
	}
	if spec.Title != "Successful launches by site" {
		t.Errorf("Title = %q", spec.Title)
	}
}

func TestBuildSuccessProportion_SingleSite(t *testing.T) {
	spec := BuildSuccessProportion(abDataset(), "A")

	want := map[string]float64{LabelSuccess: 2, LabelFailure: 1}
	if got := slicesByLabel(spec); !reflect.DeepEqual(got, want) {
		t.Errorf("slices = %v, want %v", got, want)
	}
	if spec.Slices[0].Label != LabelFailure {
		t.Errorf("first slice = %q, want failure first", spec.Slices[0].Label)
	}
	if spec.Title != "Successful launches for site A" {
		t.Errorf("Title = %q, should name the site", spec.Title)
	}
}

func TestBuildSuccessProportion_SliceCount(t *testing.T) {
	ds := fiveSiteDataset()

	if got := len(BuildSuccessProportion(ds, AllSites).Slices); got != 5 {
		t.Errorf("ALL: %d slices, want 5", got)
	}
	// every site with at least two records has both outcomes
	for _, site := range []string{"CCAFS SLC-40", "KSC LC-39A", "VAFB SLC-4E", "Boca Chica"} {
		if got := len(BuildSuccessProportion(ds, site).Slices); got != 2 {
			t.Errorf("%s: %d slices, want 2", site, got)
		}
	}
}

func TestBuildSuccessProportion_TotalEqualsSuccesses(t *testing.T) {
	ds := fiveSiteDataset()
	var successes float64
	for _, r := range ds.Records() {
		if r.Success() {
			successes++
		}
	}
	if got := BuildSuccessProportion(ds, AllSites).Total(); got != successes {
		t.Errorf("Total() = %v, want %v", got, successes)
	}
}

func TestBuildSuccessProportion_UnknownSite(t *testing.T) {
	spec := BuildSuccessProportion(abDataset(), "Mars Base 1")
	if !spec.Empty() {
		t.Errorf("unknown site: %d slices, want 0", len(spec.Slices))
	}
}

func TestBuildSuccessProportion_SentinelCaseInsensitive(t *testing.T) {
	ds := abDataset()
	if !reflect.DeepEqual(BuildSuccessProportion(ds, "all"), BuildSuccessProportion(ds, "ALL")) {
		t.Error(`"all" and "ALL" must both mean all sites`)
	}
}

func TestBuildPayloadScatter_RangeExcludesOutside(t *testing.T) {
	ds := launch.NewDataset("three", []launch.Record{
		{Site: "A", PayloadMassKg: 500, Class: 1, BoosterCategory: "FT"},
		{Site: "A", PayloadMassKg: 12000, Class: 0, BoosterCategory: "B5"},
		{Site: "B", PayloadMassKg: 3000, Class: 1, BoosterCategory: "FT"},
	})

	spec := BuildPayloadScatter(ds, "ALL", Range{Lo: 0, Hi: 10000})
	if len(spec.Points) != 2 {
		t.Fatalf("points = %d, want 2", len(spec.Points))
	}
	for _, p := range spec.Points {
		if p.X == 12000 {
			t.Error("12000 kg should be excluded")
		}
	}
	if spec.XField != launch.ColumnPayload || spec.YField != launch.ColumnClass || spec.ColorField != launch.ColumnBoosterCategory {
		t.Errorf("bindings = %q/%q/%q", spec.XField, spec.YField, spec.ColorField)
	}
	if !reflect.DeepEqual(spec.Series, []string{"FT"}) {
		t.Errorf("Series = %v, want [FT]", spec.Series)
	}
}

func TestBuildPayloadScatter_InclusiveBounds(t *testing.T) {
	spec := BuildPayloadScatter(abDataset(), AllSites, Range{Lo: 2000, Hi: 4000})
	if len(spec.Points) != 3 {
		t.Errorf("points = %d, want 3 (both ends inclusive)", len(spec.Points))
	}
}

func TestBuildPayloadScatter_SiteFilter(t *testing.T) {
	spec := BuildPayloadScatter(abDataset(), "B", Range{Lo: 0, Hi: 10000})
	if len(spec.Points) != 2 {
		t.Fatalf("points = %d, want 2", len(spec.Points))
	}
	for _, p := range spec.Points {
		if p.Site != "B" {
			t.Errorf("point from site %q leaked through filter", p.Site)
		}
	}
	if spec.Title != "Correlation between payload and success for site B" {
		t.Errorf("Title = %q", spec.Title)
	}
}

func TestBuildPayloadScatter_InvertedRangeIsEmpty(t *testing.T) {
	spec := BuildPayloadScatter(abDataset(), AllSites, Range{Lo: 5000, Hi: 1000})
	if !spec.Empty() {
		t.Errorf("lo > hi: %d points, want 0", len(spec.Points))
	}
}

func TestBuildPayloadScatter_XRangeClippedToSlider(t *testing.T) {
	ds := abDataset() // max payload 5000, slider max 10000

	tests := []struct {
		name string
		sel  Range
		want Range
	}{
		{"inside", Range{Lo: 1000, Hi: 4000}, Range{Lo: 1000, Hi: 4000}},
		{"negative lo", Range{Lo: -500, Hi: 4000}, Range{Lo: 0, Hi: 4000}},
		{"huge", Range{Lo: -1e308, Hi: 1e308}, Range{Lo: 0, Hi: 10000}},
		{"beyond slider", Range{Lo: 20000, Hi: 30000}, Range{Lo: 20000, Hi: 30000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := BuildPayloadScatter(ds, AllSites, tt.sel)
			if spec.XRange == nil || *spec.XRange != tt.want {
				t.Errorf("XRange = %v, want %v", spec.XRange, tt.want)
			}
		})
	}

	// clipping the axis never changes which points are selected
	if got := len(BuildPayloadScatter(ds, AllSites, Range{Lo: -1e308, Hi: 1e308}).Points); got != 5 {
		t.Errorf("points = %d, want 5", got)
	}
}

func TestBuildPayloadScatter_Monotonic(t *testing.T) {
	ds := fiveSiteDataset()
	for _, site := range []string{AllSites, "KSC LC-39A", "nowhere"} {
		prev := -1
		for _, r := range []Range{{4000, 4000}, {3000, 5000}, {2000, 6000}, {0, 10000}, {-1, 1e9}} {
			n := len(BuildPayloadScatter(ds, site, r).Points)
			if n < prev {
				t.Errorf("site %s: widening to %v dropped points %d -> %d", site, r, prev, n)
			}
			prev = n
		}
	}
}

func TestBuilders_Idempotent(t *testing.T) {
	ds := abDataset()
	sel := Selection{Site: "A", Payload: Range{Lo: 0, Hi: 4500}}

	if !reflect.DeepEqual(BuildSuccessProportion(ds, sel.Site), BuildSuccessProportion(ds, sel.Site)) {
		t.Error("BuildSuccessProportion is not idempotent")
	}
	if !reflect.DeepEqual(BuildPayloadScatter(ds, sel.Site, sel.Payload), BuildPayloadScatter(ds, sel.Site, sel.Payload)) {
		t.Error("BuildPayloadScatter is not idempotent")
	}
}

func TestRegistry_Dispatch(t *testing.T) {
	reg := DefaultRegistry()
	ds := abDataset()
	sel := Selection{Site: "A", Payload: Range{Lo: 0, Hi: 10000}}

	tests := []struct {
		input string
		want  []string
	}{
		{InputSiteDropdown, []string{OutputSuccessPie, OutputPayloadScatter}},
		{InputPayloadRange, []string{OutputPayloadScatter}},
		{"unknown-input", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			specs := reg.Dispatch(ds, Event{Input: tt.input, Selection: sel})
			var got []string
			for _, s := range specs {
				got = append(got, s.Output)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Dispatch(%s) outputs = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRegistry_Build(t *testing.T) {
	reg := DefaultRegistry()
	ds := abDataset()

	spec, err := reg.Build(ds, OutputSuccessPie, DefaultSelection(ds))
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if spec.Output != OutputSuccessPie || len(spec.Slices) != 2 {
		t.Errorf("Build() = %+v", spec)
	}

	if _, err := reg.Build(ds, "nope", DefaultSelection(ds)); !errors.Is(err, ErrUnknownOutput) {
		t.Errorf("Build(nope) error = %v, want ErrUnknownOutput", err)
	}
}

func TestRegistry_Initial(t *testing.T) {
	reg := DefaultRegistry()
	ds := abDataset()
	specs := reg.Initial(ds, DefaultSelection(ds))
	if len(specs) != 2 {
		t.Fatalf("Initial() = %d specs, want 2", len(specs))
	}
	// default range covers the whole dataset
	if got := len(specs[1].Points); got != ds.Len() {
		t.Errorf("initial scatter has %d points, want %d", got, ds.Len())
	}
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	reg := DefaultRegistry()
	err := reg.Register(Callback{Output: OutputSuccessPie, Build: func(*launch.Dataset, Selection) ChartSpec { return ChartSpec{} }})
	if err == nil {
		t.Error("Register() duplicate output: error = nil")
	}
}

func TestBuildControls(t *testing.T) {
	ds := launch.NewDataset("c", []launch.Record{
		{Site: "KSC LC-39A", PayloadMassKg: 2000, Class: 1},
		{Site: "Starbase", PayloadMassKg: 15600, Class: 1},
	})
	c := BuildControls(ds, map[string]string{"Starbase": "Starbase, Texas"})

	if c.Max != 15600 {
		t.Errorf("Max = %v, want 15600 (grows past 10000)", c.Max)
	}
	if c.Min != 0 || c.Step != 1000 {
		t.Errorf("Min/Step = %v/%v, want 0/1000", c.Min, c.Step)
	}
	if c.Sites[0].Value != AllSites {
		t.Errorf("first option = %+v, want All sites", c.Sites[0])
	}
	if c.Sites[1].Label != "Kennedy Space Center Launch Complex 39A" || c.Sites[2].Label != "Starbase, Texas" {
		t.Errorf("labels = %+v", c.Sites)
	}
	last := c.Marks[len(c.Marks)-1]
	if last.Value != 10000 || last.Label != "10000" {
		t.Errorf("last mark = %+v, want 10000", last)
	}
	if c.Default.Payload != (Range{Lo: 2000, Hi: 15600}) {
		t.Errorf("Default.Payload = %v", c.Default.Payload)
	}

	small := BuildControls(abDataset(), nil)
	if small.Max != 10000 {
		t.Errorf("Max = %v, want 10000 floor", small.Max)
	}
}

func TestSelection_Canonical(t *testing.T) {
	a := Selection{Site: "all", Payload: Range{Lo: 0, Hi: 9600}}
	b := Selection{Site: "ALL", Payload: Range{Lo: 0, Hi: 9600}}
	if a.Canonical() != b.Canonical() {
		t.Errorf("Canonical() %q != %q", a.Canonical(), b.Canonical())
	}
}
