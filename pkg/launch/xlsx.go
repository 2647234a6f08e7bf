package launch

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// readXLSX читает лист Excel: первая строка - заголовок.
// Пустой sheet = первый лист книги.
func readXLSX(r io.Reader, sheet string) ([]Record, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q has no header", ErrMissingColumn, sheet)
	}

	return parseTable(rows[0], rows[1:])
}
