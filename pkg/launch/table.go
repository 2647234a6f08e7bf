package launch

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// columnIndex - позиции обязательных колонок в заголовке
type columnIndex struct {
	site, payload, class, booster int
}

// indexHeader ищет обязательные колонки; лишние колонки игнорируются
func indexHeader(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}

	for _, col := range RequiredColumns {
		if _, ok := pos[col]; !ok {
			return columnIndex{}, &LoadError{Column: col, Err: ErrMissingColumn}
		}
	}

	return columnIndex{
		site:    pos[ColumnSite],
		payload: pos[ColumnPayload],
		class:   pos[ColumnClass],
		booster: pos[ColumnBoosterCategory],
	}, nil
}

// parseTable превращает прямоугольную таблицу (заголовок + строки) в записи.
// Используется всеми источниками: csv, xlsx, sql.
func parseTable(header []string, rows [][]string) ([]Record, error) {
	idx, err := indexHeader(header)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec, err := parseRow(idx, row)
		if err != nil {
			if le, ok := err.(*LoadError); ok {
				le.Row = i + 1
			}
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(idx columnIndex, row []string) (Record, error) {
	cell := func(i int) string {
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	site := cell(idx.site)
	if site == "" {
		return Record{}, &LoadError{Column: ColumnSite, Err: fmt.Errorf("%w: empty site", ErrInvalidValue)}
	}

	payload, err := strconv.ParseFloat(cell(idx.payload), 64)
	if err != nil {
		return Record{}, &LoadError{Column: ColumnPayload, Err: fmt.Errorf("%w: %q is not a number", ErrInvalidValue, cell(idx.payload))}
	}
	if math.IsNaN(payload) || math.IsInf(payload, 0) {
		return Record{}, &LoadError{Column: ColumnPayload, Err: fmt.Errorf("%w: payload %q is not finite", ErrInvalidValue, cell(idx.payload))}
	}
	if payload < 0 {
		return Record{}, &LoadError{Column: ColumnPayload, Err: fmt.Errorf("%w: negative payload %v", ErrInvalidValue, payload)}
	}

	class, err := parseClass(cell(idx.class))
	if err != nil {
		return Record{}, &LoadError{Column: ColumnClass, Err: err}
	}

	return Record{
		Site:            site,
		PayloadMassKg:   payload,
		Class:           class,
		BoosterCategory: cell(idx.booster),
	}, nil
}

// parseClass принимает 0/1, в том числе в виде "1.0" (так пишут выгрузки из pandas и Excel)
func parseClass(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty class", ErrInvalidValue)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not 0 or 1", ErrInvalidValue, s)
	}
	switch f {
	case 0:
		return ClassFailure, nil
	case 1:
		return ClassSuccess, nil
	}
	return 0, fmt.Errorf("%w: %q is not 0 or 1", ErrInvalidValue, s)
}
