package render

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// NoDataText - надпись вместо графика без данных
const NoDataText = "No data for the current selection"

// placeholder - заголовок и NoDataText на пустом холсте.
// go-chart отказывается рисовать графики без значений.
func placeholder(title string, format Format, w io.Writer, size Size) error {
	r, err := format.provider()(size.Width, size.Height)
	if err != nil {
		return fmt.Errorf("render placeholder: %w", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return fmt.Errorf("render placeholder: %w", err)
	}

	r.SetFillColor(drawing.ColorWhite)
	r.MoveTo(0, 0)
	r.LineTo(size.Width, 0)
	r.LineTo(size.Width, size.Height)
	r.LineTo(0, size.Height)
	r.Close()
	r.Fill()

	r.SetFont(font)
	r.SetFontColor(drawing.ColorBlack)
	if title != "" {
		r.SetFontSize(14)
		tb := r.MeasureText(title)
		r.Text(title, (size.Width-tb.Width())/2, 30)
	}

	r.SetFontSize(12)
	r.SetFontColor(chart.ColorAlternateGray)
	nb := r.MeasureText(NoDataText)
	r.Text(NoDataText, (size.Width-nb.Width())/2, size.Height/2)

	return r.Save(w)
}
