package charts

import (
	"github.com/ruslano69/launchdash/pkg/launch"
)

// Подписи секторов для одной площадки
const (
	LabelFailure = "failure"
	LabelSuccess = "success"
)

// BuildSuccessProportion - круговая диаграмма для селектора площадки
//
// Для AllSites считает успешные запуски по площадкам на всем датасете:
// один сектор на площадку в порядке имен, нулевые тоже. Для конкретной
// площадки считает записи по классам исхода: сначала failure, потом success,
// отсутствующие классы пропускаются. Неизвестная площадка дает пустую диаграмму.
func BuildSuccessProportion(ds *launch.Dataset, site string) ChartSpec {
	spec := ChartSpec{
		Output: OutputSuccessPie,
		Kind:   KindPie,
	}

	if IsAllSites(site) {
		spec.Title = "Successful launches by site"
		spec.NameField = launch.ColumnSite
		spec.ValueField = launch.ColumnClass

		successes := make(map[string]int)
		ds.Each(func(r launch.Record) bool {
			if r.Success() {
				successes[r.Site]++
			}
			return true
		})
		for _, name := range ds.Sites() {
			spec.Slices = append(spec.Slices, Slice{
				Label: name,
				Key:   name,
				Value: float64(successes[name]),
			})
		}
		return spec
	}

	spec.Title = "Successful launches for site " + site
	spec.NameField = launch.ColumnClass

	var counts [2]int
	ds.Each(func(r launch.Record) bool {
		if r.Site == site && (r.Class == launch.ClassFailure || r.Class == launch.ClassSuccess) {
			counts[r.Class]++
		}
		return true
	})

	if counts[launch.ClassFailure] > 0 {
		spec.Slices = append(spec.Slices, Slice{Label: LabelFailure, Key: "0", Value: float64(counts[launch.ClassFailure])})
	}
	if counts[launch.ClassSuccess] > 0 {
		spec.Slices = append(spec.Slices, Slice{Label: LabelSuccess, Key: "1", Value: float64(counts[launch.ClassSuccess])})
	}
	return spec
}
