package path

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadCSV reads waypoints as "x, y, speed" rows. Blank lines and lines
// starting with '#' are skipped; a non-numeric first row is treated as a
// header.
func LoadCSV(r io.Reader) (Path, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	cr.FieldsPerRecord = -1

	var p Path
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		if len(rec) < 3 {
			return nil, fmt.Errorf("waypoint row %d: expected 3 columns, got %d", line, len(rec))
		}

		vals := make([]float64, 3)
		for i := 0; i < 3; i++ {
			vals[i], err = strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
			if err != nil {
				break
			}
		}
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("waypoint row %d: %w", line, err)
		}

		p = append(p, Waypoint{X: vals[0], Y: vals[1], Speed: vals[2]})
	}
	return p, nil
}

func LoadFile(path string) (Path, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCSV(f)
}
