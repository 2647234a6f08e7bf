// Package render рисует описания графиков (charts.ChartSpec) в SVG или PNG.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ruslano69/launchdash/pkg/charts"
)

// Format - формат изображения
type Format string

const (
	SVG Format = "svg"
	PNG Format = "png"
)

// ParseFormat - разбирает расширение файла ("svg", "png")
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(s, "."))); f {
	case SVG, PNG:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported image format %q", s)
	}
}

// ContentType - MIME тип формата
func (f Format) ContentType() string {
	if f == PNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (f Format) provider() chart.RendererProvider {
	if f == PNG {
		return chart.PNG
	}
	return chart.SVG
}

// Size - размер изображения в пикселях
type Size struct {
	Width  int
	Height int
}

// DefaultSize - размер по умолчанию
var DefaultSize = Size{Width: 720, Height: 440}

func (s Size) orDefault() Size {
	if s.Width <= 0 || s.Height <= 0 {
		return DefaultSize
	}
	return s
}

// palette - цвета категорий ускорителей по порядку Series, по кругу
var palette = []drawing.Color{
	chart.ColorBlue,
	chart.ColorGreen,
	chart.ColorRed,
	chart.ColorOrange,
	drawing.ColorFromHex("9467bd"),
	drawing.ColorFromHex("8c564b"),
	drawing.ColorFromHex("e377c2"),
	chart.ColorAlternateGray,
}

// yPadding - отступ строк исхода 0/1 от краев графика
const yPadding = 0.25

// Render - рисует спецификацию графика в w
func Render(spec charts.ChartSpec, format Format, w io.Writer, size Size) error {
	size = size.orDefault()
	if format != SVG && format != PNG {
		return fmt.Errorf("render: unsupported format %q", format)
	}
	if spec.Empty() || (spec.Kind == charts.KindPie && spec.Total() == 0) {
		return placeholder(spec.Title, format, w, size)
	}

	switch spec.Kind {
	case charts.KindPie:
		return renderPie(spec, format, w, size)
	case charts.KindScatter:
		return renderScatter(spec, format, w, size)
	default:
		return fmt.Errorf("render: unknown chart kind %q", spec.Kind)
	}
}

func renderPie(spec charts.ChartSpec, format Format, w io.Writer, size Size) error {
	values := make([]chart.Value, 0, len(spec.Slices))
	for _, s := range spec.Slices {
		// go-chart не рисует нулевые секторы
		if s.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%g)", s.Label, s.Value),
			Value: s.Value,
		})
	}

	pie := chart.PieChart{
		Title:  spec.Title,
		Width:  size.Width,
		Height: size.Height,
		Values: values,
	}
	if err := pie.Render(format.provider(), w); err != nil {
		return fmt.Errorf("render pie %s: %w", spec.Output, err)
	}
	return nil
}

func renderScatter(spec charts.ChartSpec, format Format, w io.Writer, size Size) error {
	groups := make(map[string]int, len(spec.Series))
	series := make([]chart.Series, 0, len(spec.Series))
	for i, name := range spec.Series {
		groups[name] = i
		series = append(series, chart.ContinuousSeries{
			Name:  name,
			Style: pointStyle(palette[i%len(palette)]),
		})
	}
	for _, p := range spec.Points {
		i, ok := groups[p.Color]
		if !ok {
			i = len(series)
			groups[p.Color] = i
			series = append(series, chart.ContinuousSeries{Name: p.Color, Style: pointStyle(palette[i%len(palette)])})
		}
		cs := series[i].(chart.ContinuousSeries)
		cs.XValues = append(cs.XValues, p.X)
		cs.YValues = append(cs.YValues, p.Y)
		series[i] = cs
	}

	// серия без точек не проходит валидацию go-chart
	nonEmpty := series[:0]
	for _, s := range series {
		if len(s.(chart.ContinuousSeries).XValues) > 0 {
			nonEmpty = append(nonEmpty, s)
		}
	}

	lo, hi := xBounds(spec)
	ch := chart.Chart{
		Title:      spec.Title,
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  spec.XField,
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		YAxis: chart.YAxis{
			Name:  spec.YField,
			Range: &chart.ContinuousRange{Min: -yPadding, Max: 1 + yPadding},
			Ticks: []chart.Tick{
				{Value: -yPadding, Label: ""},
				{Value: 0, Label: "0"},
				{Value: 1, Label: "1"},
				{Value: 1 + yPadding, Label: ""},
			},
		},
		Series: nonEmpty,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(format.provider(), w); err != nil {
		return fmt.Errorf("render scatter %s: %w", spec.Output, err)
	}
	return nil
}

// pointStyle - только точки, без соединяющих линий
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    5,
		DotColor:    col,
	}
}

// xBounds - диапазон оси X: XRange, если он задан и конечен, иначе разброс
// данных. Диапазон нулевой ширины расширяется, чтобы ось можно было нарисовать.
func xBounds(spec charts.ChartSpec) (float64, float64) {
	var lo, hi float64
	if r := spec.XRange; r != nil && !r.Empty() && finite(r.Hi-r.Lo) {
		lo, hi = r.Lo, r.Hi
	} else {
		lo, hi = math.Inf(1), math.Inf(-1)
		for _, p := range spec.Points {
			lo = math.Min(lo, p.X)
			hi = math.Max(hi, p.X)
		}
	}
	if hi-lo < 1 {
		lo, hi = lo-500, hi+500
	}
	return lo, hi
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
