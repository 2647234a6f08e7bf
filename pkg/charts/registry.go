package charts

import (
	"errors"
	"fmt"

	"github.com/ruslano69/launchdash/pkg/launch"
)

// Идентификаторы выходов и входов дашборда
const (
	OutputSuccessPie     = "success-pie-chart"
	OutputPayloadScatter = "success-payload-scatter-chart"

	InputSiteDropdown = "site-dropdown"
	InputPayloadRange = "payload-slider"
)

// ErrUnknownOutput - Registry.Build для незарегистрированного выхода
var ErrUnknownOutput = errors.New("unknown chart output")

// BuildFunc строит график для текущей выборки
type BuildFunc func(ds *launch.Dataset, sel Selection) ChartSpec

// Callback связывает выход с входами, от которых он зависит
type Callback struct {
	Output string
	Inputs []string
	Build  BuildFunc
}

func (c Callback) dependsOn(input string) bool {
	for _, in := range c.Inputs {
		if in == input {
			return true
		}
	}
	return false
}

// Event - изменение контрола: какой вход сдвинулся и выборка после него
type Event struct {
	Input     string    `json:"input"`
	Selection Selection `json:"selection"`
}

// Registry - явная таблица "выход -> callback".
// Callback'и выполняются в порядке регистрации; после сборки Registry только читается.
type Registry struct {
	callbacks []Callback
	byOutput  map[string]int
}

// NewRegistry создает пустой реестр
func NewRegistry() *Registry {
	return &Registry{byOutput: make(map[string]int)}
}

// DefaultRegistry - два графика дашборда
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(Callback{
		Output: OutputSuccessPie,
		Inputs: []string{InputSiteDropdown},
		Build: func(ds *launch.Dataset, sel Selection) ChartSpec {
			return BuildSuccessProportion(ds, sel.Site)
		},
	})
	r.MustRegister(Callback{
		Output: OutputPayloadScatter,
		Inputs: []string{InputSiteDropdown, InputPayloadRange},
		Build: func(ds *launch.Dataset, sel Selection) ChartSpec {
			return BuildPayloadScatter(ds, sel.Site, sel.Payload)
		},
	})
	return r
}

// Register добавляет callback; выходы уникальны
func (r *Registry) Register(cb Callback) error {
	if cb.Output == "" || cb.Build == nil {
		return fmt.Errorf("callback needs an output and a build func")
	}
	if _, dup := r.byOutput[cb.Output]; dup {
		return fmt.Errorf("output %q already registered", cb.Output)
	}
	r.byOutput[cb.Output] = len(r.callbacks)
	r.callbacks = append(r.callbacks, cb)
	return nil
}

// MustRegister - Register с паникой при ошибке
func (r *Registry) MustRegister(cb Callback) {
	if err := r.Register(cb); err != nil {
		panic(err)
	}
}

// Outputs - зарегистрированные выходы в порядке регистрации
func (r *Registry) Outputs() []string {
	out := make([]string, len(r.callbacks))
	for i, cb := range r.callbacks {
		out[i] = cb.Output
	}
	return out
}

// Has - зарегистрирован ли выход
func (r *Registry) Has(output string) bool {
	_, ok := r.byOutput[output]
	return ok
}

// Build выполняет callback одного выхода
func (r *Registry) Build(ds *launch.Dataset, output string, sel Selection) (ChartSpec, error) {
	i, ok := r.byOutput[output]
	if !ok {
		return ChartSpec{}, fmt.Errorf("%w: %q", ErrUnknownOutput, output)
	}
	return r.run(ds, r.callbacks[i], sel), nil
}

// Dispatch выполняет все callback'и, зависящие от изменившегося входа.
// На вход, от которого никто не зависит, ответ пустой.
func (r *Registry) Dispatch(ds *launch.Dataset, ev Event) []ChartSpec {
	var specs []ChartSpec
	for _, cb := range r.callbacks {
		if cb.dependsOn(ev.Input) {
			specs = append(specs, r.run(ds, cb, ev.Selection))
		}
	}
	return specs
}

// Initial строит все выходы (первая отрисовка страницы, GET /api/charts)
func (r *Registry) Initial(ds *launch.Dataset, sel Selection) []ChartSpec {
	specs := make([]ChartSpec, 0, len(r.callbacks))
	for _, cb := range r.callbacks {
		specs = append(specs, r.run(ds, cb, sel))
	}
	return specs
}

func (r *Registry) run(ds *launch.Dataset, cb Callback, sel Selection) ChartSpec {
	spec := cb.Build(ds, sel)
	spec.Output = cb.Output
	return spec
}
