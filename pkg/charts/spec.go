package charts

// Kind - тип графика для рендерера
type Kind string

const (
	KindPie     Kind = "pie"
	KindScatter Kind = "scatter"
)

// Slice - сектор круговой диаграммы
type Slice struct {
	Label string  `json:"label"`
	Key   string  `json:"key"` // площадка или класс исхода
	Value float64 `json:"value"`
}

// Point - точка диаграммы рассеяния
type Point struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"` // значение цветового измерения
	Site  string  `json:"site"`
}

// ChartSpec - описание графика без отрисовки: тип, привязки полей и
// подмножество данных. Картинку из него делает pkg/render.
type ChartSpec struct {
	Output string `json:"output"`
	Kind   Kind   `json:"kind"`
	Title  string `json:"title"`

	// pie
	NameField  string  `json:"name_field,omitempty"`
	ValueField string  `json:"value_field,omitempty"`
	Slices     []Slice `json:"slices,omitempty"`

	// scatter
	XField     string   `json:"x_field,omitempty"`
	YField     string   `json:"y_field,omitempty"`
	ColorField string   `json:"color_field,omitempty"`
	Points     []Point  `json:"points,omitempty"`
	Series     []string `json:"series,omitempty"` // различные цвета в порядке появления
	XRange     *Range   `json:"x_range,omitempty"`
}

// Empty - в описании нет данных
func (c ChartSpec) Empty() bool {
	return len(c.Slices) == 0 && len(c.Points) == 0
}

// Total - сумма значений секторов
func (c ChartSpec) Total() float64 {
	var t float64
	for _, s := range c.Slices {
		t += s.Value
	}
	return t
}
