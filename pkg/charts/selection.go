// Package charts строит описания графиков по набору запусков и текущему
// состоянию контролов. Построители чистые: читают датасет, не меняют его
// и на одинаковом входе возвращают одинаковый результат.
package charts

import (
	"fmt"
	"math"
	"strings"

	"github.com/ruslano69/launchdash/pkg/launch"
)

// AllSites - значение селектора площадки "без фильтра"
const AllSites = "ALL"

// IsAllSites - true, если site означает "все площадки" (регистр не важен)
func IsAllSites(site string) bool {
	return strings.EqualFold(strings.TrimSpace(site), AllSites)
}

// Range - замкнутый интервал масс [Lo, Hi].
// Lo > Hi допустим и не содержит ни одного значения.
type Range struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// Contains - входит ли v в [Lo, Hi] (обе границы включительно)
func (r Range) Contains(v float64) bool {
	return r.Lo <= v && v <= r.Hi
}

// Empty - интервал не содержит значений
func (r Range) Empty() bool { return r.Lo > r.Hi }

// Clip пересекает интервал с [lo, hi]
func (r Range) Clip(lo, hi float64) Range {
	return Range{Lo: math.Max(r.Lo, lo), Hi: math.Min(r.Hi, hi)}
}

func (r Range) String() string {
	return fmt.Sprintf("[%g, %g]", r.Lo, r.Hi)
}

// Selection - текущее состояние двух контролов
type Selection struct {
	Site    string `json:"site"`
	Payload Range  `json:"payload"`
}

// DefaultSelection - все площадки на всем диапазоне масс ds
func DefaultSelection(ds *launch.Dataset) Selection {
	return Selection{
		Site:    AllSites,
		Payload: Range{Lo: ds.MinPayload(), Hi: ds.MaxPayload()},
	}
}

// Canonical - стабильное текстовое представление выборки для ключей кэша
func (s Selection) Canonical() string {
	site := s.Site
	if IsAllSites(site) {
		site = AllSites
	}
	return fmt.Sprintf("site=%s;lo=%g;hi=%g", site, s.Payload.Lo, s.Payload.Hi)
}
