package survey

import "strings"

// Row maps a column header to the raw cell text of one survey response.
type Row map[string]string

// Get returns the cell for column, or "" when the column is unknown.
func (r Row) Get(column string) string {
	if column == "" {
		return ""
	}
	return r[column]
}

// Table is an immutable snapshot of a loaded survey sheet.
// Columns keeps the header order; it is the only ordering the resolver sees.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable builds a Table from a header row and raw records. Records shorter
// than the header are padded with empty cells, extra cells are ignored, and
// records without any non-empty cell are dropped. When a header repeats, the
// first occurrence keeps its position and the later value wins in the row.
func NewTable(header []string, records [][]string) *Table {
	t := &Table{}
	header = append([]string(nil), header...)
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		if seen[h] {
			continue
		}
		seen[h] = true
		t.Columns = append(t.Columns, h)
	}
	for _, rec := range records {
		row := make(Row, len(header))
		nonEmpty := false
		for i, h := range header {
			v := ""
			if i < len(rec) {
				v = rec[i]
			}
			if v != "" {
				nonEmpty = true
			}
			row[h] = v
		}
		if !nonEmpty {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Len returns the number of responses in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Resolve finds the column for keywords in this table's header order.
func (t *Table) Resolve(keywords ...string) (string, bool) {
	if t == nil {
		return "", false
	}
	return ResolveColumn(t.Columns, keywords)
}

// Values returns the cells of column for every row, in row order.
func Values(rows []Row, column string) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Get(column)
	}
	return out
}
