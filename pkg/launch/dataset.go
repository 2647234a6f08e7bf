package launch

import (
	"math"
	"sort"
	"strconv"

	"github.com/zeebo/xxh3"
)

// Dataset - загруженный в память набор запусков.
// После создания не изменяется; безопасен для параллельного чтения.
type Dataset struct {
	source      string
	records     []Record
	minPayload  float64
	maxPayload  float64
	sites       []string
	categories  []string
	fingerprint uint64
}

// NewDataset создает Dataset из готовых записей.
// Слайс копируется, min/max и справочники вычисляются один раз.
func NewDataset(source string, records []Record) *Dataset {
	ds := &Dataset{
		source:  source,
		records: make([]Record, len(records)),
	}
	copy(ds.records, records)

	if len(ds.records) > 0 {
		ds.minPayload = math.Inf(1)
		ds.maxPayload = math.Inf(-1)
	}

	sites := make(map[string]struct{})
	categories := make(map[string]struct{})
	h := xxh3.New()

	for _, r := range ds.records {
		if r.PayloadMassKg < ds.minPayload {
			ds.minPayload = r.PayloadMassKg
		}
		if r.PayloadMassKg > ds.maxPayload {
			ds.maxPayload = r.PayloadMassKg
		}
		sites[r.Site] = struct{}{}
		categories[r.BoosterCategory] = struct{}{}

		h.WriteString(r.Site)
		h.WriteString("|")
		h.WriteString(strconv.FormatFloat(r.PayloadMassKg, 'g', -1, 64))
		h.WriteString("|")
		h.WriteString(strconv.Itoa(r.Class))
		h.WriteString("|")
		h.WriteString(r.BoosterCategory)
		h.WriteString("\n")
	}

	ds.sites = sortedKeys(sites)
	ds.categories = sortedKeys(categories)
	ds.fingerprint = h.Sum64()

	return ds
}

// Records возвращает копию всех записей в порядке загрузки
func (d *Dataset) Records() []Record {
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Each вызывает fn для каждой записи без копирования слайса.
// Остановка при fn == false.
func (d *Dataset) Each(fn func(Record) bool) {
	for _, r := range d.records {
		if !fn(r) {
			return
		}
	}
}

// Len - количество записей
func (d *Dataset) Len() int { return len(d.records) }

// MinPayload - минимальная масса полезной нагрузки (0 для пустого датасета)
func (d *Dataset) MinPayload() float64 { return d.minPayload }

// MaxPayload - максимальная масса полезной нагрузки (0 для пустого датасета)
func (d *Dataset) MaxPayload() float64 { return d.maxPayload }

// Sites - отсортированный список различных площадок
func (d *Dataset) Sites() []string {
	return append([]string(nil), d.sites...)
}

// BoosterCategories - отсортированный список категорий ускорителей
func (d *Dataset) BoosterCategories() []string {
	return append([]string(nil), d.categories...)
}

// Fingerprint - xxh3 от канонического представления записей.
// Одинаковые данные дают одинаковый fingerprint независимо от формата источника.
func (d *Dataset) Fingerprint() uint64 { return d.fingerprint }

// Source - откуда загружены данные (путь, s3 URL или тип БД)
func (d *Dataset) Source() string { return d.source }

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
