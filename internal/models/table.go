package models

// RawTable is an untyped table as read from a CSV or parquet source.
// Every row has len(Columns) cells.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the index of the named column or -1
func (t RawTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at row i of the named column and whether the column exists
func (t RawTable) Cell(i int, column string) (string, bool) {
	idx := t.ColumnIndex(column)
	if idx < 0 || i < 0 || i >= len(t.Rows) || idx >= len(t.Rows[i]) {
		return "", false
	}
	return t.Rows[i][idx], true
}

// Len returns the number of rows
func (t RawTable) Len() int {
	return len(t.Rows)
}
