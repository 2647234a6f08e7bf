package charts

import (
	"math"
	"strconv"

	"github.com/ruslano69/launchdash/pkg/launch"
)

// Геометрия слайдера. Верхняя граница растет вместе с данными сверх SliderMinMax.
const (
	SliderMin     = 0
	SliderMinMax  = 10000
	SliderStep    = 1000
	sliderMarkGap = 2500
)

// DefaultSiteLabels - подписи известных площадок в выпадающем списке
var DefaultSiteLabels = map[string]string{
	"CCAFS LC-40":  "Cape Canaveral Launch Complex 40",
	"CCAFS SLC-40": "Cape Canaveral Space Launch Complex 40",
	"KSC LC-39A":   "Kennedy Space Center Launch Complex 39A",
	"VAFB SLC-4E":  "Vandenberg Space Launch Complex 4E",
}

// Option - пункт выпадающего списка
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Mark - подписанная отметка слайдера
type Mark struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

// Controls - настройки списка и слайдера для датасета
type Controls struct {
	Sites   []Option  `json:"sites"`
	Min     float64   `json:"min"`
	Max     float64   `json:"max"`
	Step    float64   `json:"step"`
	Marks   []Mark    `json:"marks"`
	Default Selection `json:"default"`
}

// SliderMax - верхняя граница слайдера: max(SliderMinMax, max_payload)
func SliderMax(ds *launch.Dataset) float64 {
	return math.Max(SliderMinMax, ds.MaxPayload())
}

// BuildControls выводит настройки контролов из датасета.
// labels перекрывает DefaultSiteLabels; площадка без подписи показывается по имени.
func BuildControls(ds *launch.Dataset, labels map[string]string) Controls {
	c := Controls{
		Min:     SliderMin,
		Max:     SliderMax(ds),
		Step:    SliderStep,
		Default: DefaultSelection(ds),
	}

	c.Sites = append(c.Sites, Option{Label: "All sites", Value: AllSites})
	for _, site := range ds.Sites() {
		label := site
		if l, ok := DefaultSiteLabels[site]; ok {
			label = l
		}
		if l, ok := labels[site]; ok && l != "" {
			label = l
		}
		c.Sites = append(c.Sites, Option{Label: label, Value: site})
	}

	for v := float64(SliderMin); v <= SliderMinMax; v += sliderMarkGap {
		c.Marks = append(c.Marks, Mark{Value: v, Label: strconv.FormatFloat(v, 'f', -1, 64)})
	}
	return c
}
