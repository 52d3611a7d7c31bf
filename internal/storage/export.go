package storage

import (
	"encoding/json"
	"io"
	"math"
)

type ExportData struct {
	Meta   RunMetadata                      `json:"meta"`
	Tables map[string]map[string][]*float64 `json:"tables"`
}

// ExportJSON writes a run and all of its tables, column by column.
// Non-finite values become null.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	data := ExportData{Meta: *meta, Tables: make(map[string]map[string][]*float64, len(meta.Tables))}
	for _, name := range meta.Tables {
		t, err := s.LoadTable(runID, name)
		if err != nil {
			return err
		}
		cols := make(map[string][]*float64, len(t.Header))
		for _, h := range t.Header {
			col, _ := t.Column(h)
			out := make([]*float64, len(col))
			for i := range col {
				if !math.IsInf(col[i], 0) && !math.IsNaN(col[i]) {
					out[i] = &col[i]
				}
			}
			cols[h] = out
		}
		data.Tables[name] = cols
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
