package launch

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn - в заголовке нет обязательной колонки
	ErrMissingColumn = errors.New("missing required column")

	// ErrInvalidValue - значение ячейки не проходит проверку
	ErrInvalidValue = errors.New("invalid value")

	// ErrUnsupportedSource - неизвестный тип источника
	ErrUnsupportedSource = errors.New("unsupported source type")
)

// LoadError - фатальная ошибка загрузки датасета при старте.
// Path всегда заполнен; Column и Row - если ошибка относится к конкретной ячейке.
type LoadError struct {
	Path   string
	Column string
	Row    int // 1-based номер строки данных (без заголовка), 0 = не применимо
	Err    error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("launch: load %q", e.Path)
	if e.Row > 0 {
		msg += fmt.Sprintf(" row %d", e.Row)
	}
	if e.Column != "" {
		msg += fmt.Sprintf(" column %q", e.Column)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// loadErr оборачивает ошибку в *LoadError, не оборачивая повторно
func loadErr(path string, err error) error {
	var le *LoadError
	if errors.As(err, &le) {
		if le.Path == "" {
			le.Path = path
		}
		return le
	}
	return &LoadError{Path: path, Err: err}
}
