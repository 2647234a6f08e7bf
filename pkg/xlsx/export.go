package xlsx

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/ruslano69/launchdash/pkg/launch"
)

// DefaultSheet - имя листа по умолчанию
const DefaultSheet = "Launches"

// встроенные форматы чисел excelize (NumFmt)
const (
	numFmtInteger = 1
	numFmtDecimal = 2
	numFmtText    = 49
)

// WriteRecords - выгружает записи запусков в XLSX
//
// Заголовки совпадают с колонками набора данных, поэтому выгрузку можно
// снова загрузить как источник типа xlsx.
//
// Example:
//
//	err := xlsx.WriteRecords(w, charts.FilterRecords(ds, site, rng), "")
func WriteRecords(w io.Writer, records []launch.Record, sheetName string) error {
	f, err := build(records, sheetName)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

func build(records []launch.Record, sheetName string) (*excelize.File, error) {
	if sheetName == "" {
		sheetName = DefaultSheet
	}

	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	if err := writeSheet(f, sheetName, records); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// writeSheet - заголовок, строки и ширина колонок
func writeSheet(f *excelize.File, sheetName string, records []launch.Record) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	// SetCellStyle принимает ID стиля из NewStyle, а не ID встроенного формата
	styles := make(map[int]int, 3)
	for _, numFmt := range []int{numFmtInteger, numFmtDecimal, numFmtText} {
		id, err := f.NewStyle(&excelize.Style{NumFmt: numFmt})
		if err != nil {
			return fmt.Errorf("failed to create cell style (numFmt %d): %w", numFmt, err)
		}
		styles[numFmt] = id
	}

	for col, name := range launch.RequiredColumns {
		cell := columnName(col+1) + "1"
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return fmt.Errorf("failed to write header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to style header %s: %w", cell, err)
		}
	}

	formats := []int{numFmtText, numFmtDecimal, numFmtInteger, numFmtText}
	for i, r := range records {
		row := strconv.Itoa(i + 2)
		values := []any{r.Site, r.PayloadMassKg, r.Class, r.BoosterCategory}
		for col, v := range values {
			cell := columnName(col+1) + row
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
			if err := f.SetCellStyle(sheetName, cell, cell, styles[formats[col]]); err != nil {
				return fmt.Errorf("failed to style cell %s: %w", cell, err)
			}
		}
	}

	widths := []float64{18, 18, 8, 26}
	for col, width := range widths {
		name := columnName(col + 1)
		if err := f.SetColWidth(sheetName, name, name, width); err != nil {
			return fmt.Errorf("failed to set width of column %s: %w", name, err)
		}
	}
	return nil
}

// columnName - convert column index to Excel column name (1 → A, 27 → AA)
func columnName(col int) string {
	name := ""
	for col > 0 {
		col--
		name = string(rune('A'+col%26)) + name
		col /= 26
	}
	return name
}
