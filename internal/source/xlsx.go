package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/always1st-js/KPC-ai-survey-dashboard/internal/survey"
)

// xlsxReader reads a downloaded workbook export. An empty sheet name means
// the first sheet.
type xlsxReader struct {
	sheet string
}

func (xlsxReader) CanRead(src string) bool {
	return strings.HasSuffix(strings.ToLower(src), ".xlsx")
}

func (r xlsxReader) Read(_ context.Context, src string) (*survey.Table, error) {
	f, err := excelize.OpenFile(src)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return &survey.Table{}, nil
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: available sheets: %s: %w", sheet, strings.Join(f.GetSheetList(), ", "), err)
	}
	if len(rows) == 0 {
		return &survey.Table{}, nil
	}
	return survey.NewTable(rows[0], rows[1:]), nil
}
