package domain

// Table is a loosely-typed tabular dataset: ordered column names plus rows keyed
// by column. A missing cell reads as "".
type Table struct {
	Columns []string
	Rows    []map[string]string
}

func NewTable(cols ...string) *Table {
	return &Table{Columns: append([]string(nil), cols...)}
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func (t *Table) Empty() bool { return t.Len() == 0 }

func (t *Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// EnsureColumn appends col to the header when absent.
func (t *Table) EnsureColumn(col string) {
	if !t.HasColumn(col) {
		t.Columns = append(t.Columns, col)
	}
}

// RenameColumn renames a header entry and moves cell values. A no-op when from is
// absent; when to already exists the from column is dropped and to keeps its values.
func (t *Table) RenameColumn(from, to string) {
	if !t.HasColumn(from) || from == to {
		return
	}
	if t.HasColumn(to) {
		t.dropColumn(from)
		return
	}
	for i, c := range t.Columns {
		if c == from {
			t.Columns[i] = to
		}
	}
	for _, r := range t.Rows {
		if v, ok := r[from]; ok {
			r[to] = v
			delete(r, from)
		}
	}
}

func (t *Table) dropColumn(col string) {
	out := t.Columns[:0]
	for _, c := range t.Columns {
		if c != col {
			out = append(out, c)
		}
	}
	t.Columns = out
	for _, r := range t.Rows {
		delete(r, col)
	}
}

func (t *Table) Get(i int, col string) string { return t.Rows[i][col] }

func (t *Table) Set(i int, col, v string) {
	if t.Rows[i] == nil {
		t.Rows[i] = map[string]string{}
	}
	t.Rows[i][col] = v
}

// Append adds a row; keys that are not columns are kept but not written out.
func (t *Table) Append(row map[string]string) { t.Rows = append(t.Rows, row) }

// Project returns a new table holding only cols, in that order. Missing columns
// yield empty cells.
func (t *Table) Project(cols ...string) *Table {
	out := NewTable(cols...)
	out.Rows = make([]map[string]string, 0, t.Len())
	for _, r := range t.Rows {
		nr := make(map[string]string, len(cols))
		for _, c := range cols {
			nr[c] = r[c]
		}
		out.Rows = append(out.Rows, nr)
	}
	return out
}

// Records returns the rows as ordered string slices following Columns.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, t.Len())
	for _, r := range t.Rows {
		rec := make([]string, len(t.Columns))
		for j, c := range t.Columns {
			rec[j] = r[c]
		}
		out = append(out, rec)
	}
	return out
}
