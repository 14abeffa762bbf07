package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// BuildXLSX renders the report into a single-sheet workbook named after
// its index key. Styles with actions get one row per actor line.
func BuildXLSX(rep *Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := rep.Index
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	header := xlsxHeader(rep.Style)
	for col, title := range header {
		if err := setCell(f, sheet, col, 1, title); err != nil {
			return nil, err
		}
	}

	row := 2
	for _, item := range rep.Items {
		for _, values := range xlsxRows(rep.Style, item) {
			for col, v := range values {
				if err := setCell(f, sheet, col, row, v); err != nil {
					return nil, err
				}
			}
			row++
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setCell(f *excelize.File, sheet string, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(sheet, cell, v)
}

func xlsxHeader(s Style) []string {
	switch s {
	case Level3:
		return []string{"ID", "Price", "Insurance fee", "Assistance fee", "Platform fee"}
	case Level4:
		return []string{"ID", "Price", "Deductible reduction", "Insurance fee", "Assistance fee", "Platform fee"}
	case Level5:
		return []string{"ID", "Who", "Type", "Amount"}
	case Level6:
		return []string{"ID", "Rental ID", "Who", "Type", "Amount"}
	default:
		return []string{"ID", "Price"}
	}
}

func xlsxRows(s Style, item Item) [][]any {
	switch s {
	case Level3:
		c := item.Commission
		return [][]any{{item.ID, *item.Price, c.InsuranceFee, c.AssistanceFee, c.PlatformFee}}
	case Level4:
		c := item.Commission
		return [][]any{{item.ID, *item.Price, item.Options.DeductibleReduction, c.InsuranceFee, c.AssistanceFee, c.PlatformFee}}
	case Level5, Level6:
		rows := make([][]any, 0, len(item.Actions))
		for _, a := range item.Actions {
			if s == Level6 {
				rows = append(rows, []any{item.ID, *item.RentalID, string(a.Who), string(a.Type), a.Amount})
			} else {
				rows = append(rows, []any{item.ID, string(a.Who), string(a.Type), a.Amount})
			}
		}
		return rows
	default:
		return [][]any{{item.ID, *item.Price}}
	}
}
