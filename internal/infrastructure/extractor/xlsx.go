package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// convertXlsx flattens every sheet row-wise, cells joined by tabs. Good
// enough for classification; nobody reads formulas out of this.
func convertXlsx(raw []byte) (string, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("open xlsx: %w", err)
	}
	defer workbook.Close()

	var b strings.Builder
	for _, sheet := range workbook.GetSheetList() {
		rows, err := workbook.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		for _, row := range rows {
			line := strings.TrimSpace(strings.Join(row, "\t"))
			if line != "" {
				b.WriteString(line)
				b.WriteByte('\n')
			}
		}
	}
	return b.String(), nil
}
