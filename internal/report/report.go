// Package report exports container states as an xlsx workbook.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"fattybrewing"
)

const (
	SheetContainers = "Containers"
	SheetContents   = "Contents"
)

var (
	containerHeader = []interface{}{"id", "name", "type", "size", "unit", "filled", "free", "full", "entries"}
	contentHeader   = []interface{}{"container_id", "position", "substance", "type", "amount", "unit", "temperature", "temp_unit", "updated_at"}
)

// Write renders one row per container on the first sheet and one row per
// ledger entry on the second.
func Write(w io.Writer, states []fattybrewing.State) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetContainers); err != nil {
		return err
	}
	if _, err := f.NewSheet(SheetContents); err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetContainers, "A1", &containerHeader); err != nil {
		return fmt.Errorf("containers header: %w", err)
	}
	if err := f.SetSheetRow(SheetContents, "A1", &contentHeader); err != nil {
		return fmt.Errorf("contents header: %w", err)
	}

	contentRow := 2
	for i, st := range states {
		c, err := fattybrewing.Restore(st)
		if err != nil {
			return err
		}
		row := []interface{}{
			st.ID,
			st.Name,
			string(st.Kind),
			st.Size.Amount.String(),
			st.Size.Unit.Symbol,
			c.TotalFilled().Amount.String(),
			c.Free().Amount.String(),
			c.Full(),
			len(st.Contents),
		}
		if err := setRow(f, SheetContainers, i+2, row); err != nil {
			return err
		}

		for pos, e := range st.Contents {
			row := []interface{}{
				st.ID,
				pos,
				e.Substance,
				string(e.Type),
				e.Quantity.Amount.String(),
				e.Quantity.Unit.Symbol,
				e.Temperature.Degrees.String(),
				e.Temperature.Unit.Symbol,
				e.UpdatedAt.Format("2006-01-02 15:04:05"),
			}
			if err := setRow(f, SheetContents, contentRow, row); err != nil {
				return err
			}
			contentRow++
		}
	}

	return f.Write(w)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("%s row %d: %w", sheet, row, err)
	}
	return nil
}
