package isochrone

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Source delivers the numeric rows of the table for one metallicity.
type Source interface {
	Rows(z float64) (rows [][]float64, name string, err error)
}

// FileName is the table file name for metallicity z.
func FileName(z float64) string {
	return fmt.Sprintf("Padova-Z%.4f.dat", z)
}

// DirSource reads Padova-Z<z>.dat files from a directory.
type DirSource struct {
	Dir string
}

func (d DirSource) Path(z float64) string {
	return filepath.Join(d.Dir, FileName(z))
}

func (d DirSource) Rows(z float64) ([][]float64, string, error) {
	path := d.Path(z)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, path, ErrMissingTable
		}
		return nil, path, err
	}
	defer f.Close()

	rows, err := ReadRows(f)
	return rows, path, err
}

// ReadRows parses whitespace-separated numeric rows. Blank lines and lines
// starting with '#' are skipped.
func ReadRows(r io.Reader) ([][]float64, error) {
	var rows [][]float64
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %d: %v", ErrMalformed, line, i+1, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}
