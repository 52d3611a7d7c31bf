package interaction

import "fmt"

// Table is a block of float columns keyed by header names.
type Table struct {
	Header []string
	Rows   [][]float64
}

func (t *Table) index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Column copies out the named column.
func (t *Table) Column(name string) ([]float64, error) {
	i := t.index(name)
	if i < 0 {
		return nil, fmt.Errorf("interaction: no column %q", name)
	}
	col := make([]float64, len(t.Rows))
	for k, row := range t.Rows {
		col[k] = row[i]
	}
	return col, nil
}

func (t *Table) Len() int { return len(t.Rows) }
