package charts

import (
	"github.com/ruslano69/launchdash/pkg/launch"
)

// FilterRecords - сначала диапазон масс, потом площадка; порядок датасета сохраняется
func FilterRecords(ds *launch.Dataset, site string, payload Range) []launch.Record {
	if payload.Empty() {
		return nil
	}
	all := IsAllSites(site)

	var out []launch.Record
	ds.Each(func(r launch.Record) bool {
		if !payload.Contains(r.PayloadMassKg) {
			return true
		}
		if !all && r.Site != site {
			return true
		}
		out = append(out, r)
		return true
	})
	return out
}

// BuildPayloadScatter - диаграмма рассеяния: масса по X, класс по Y,
// цвет по категории ускорителя.
//
// XRange - выборка, обрезанная по области слайдера [SliderMin, SliderMax]:
// на фильтрацию это не влияет, а ось остается конечной.
func BuildPayloadScatter(ds *launch.Dataset, site string, payload Range) ChartSpec {
	title := "Correlation between payload and success for all sites"
	if !IsAllSites(site) {
		title = "Correlation between payload and success for site " + site
	}

	xr := payload.Clip(SliderMin, SliderMax(ds))
	if xr.Empty() {
		xr = payload
	}
	spec := ChartSpec{
		Output:     OutputPayloadScatter,
		Kind:       KindScatter,
		Title:      title,
		XField:     launch.ColumnPayload,
		YField:     launch.ColumnClass,
		ColorField: launch.ColumnBoosterCategory,
		XRange:     &xr,
	}

	seen := make(map[string]bool)
	for _, r := range FilterRecords(ds, site, payload) {
		spec.Points = append(spec.Points, Point{
			X:     r.PayloadMassKg,
			Y:     float64(r.Class),
			Color: r.BoosterCategory,
			Site:  r.Site,
		})
		if !seen[r.BoosterCategory] {
			seen[r.BoosterCategory] = true
			spec.Series = append(spec.Series, r.BoosterCategory)
		}
	}
	return spec
}
