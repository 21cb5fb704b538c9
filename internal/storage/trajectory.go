package storage

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/vehsim/internal/dynamo"
)

// WriteTrajectory writes one "time, position" row per sample. Values use the
// shortest representation that parses back to the same float64.
func WriteTrajectory(w io.Writer, samples []dynamo.Sample) error {
	bw := bufio.NewWriter(w)
	for _, s := range samples {
		if _, err := fmt.Fprintf(bw, "%s, %s\n", formatFloat(s.Time), formatFloat(s.Position)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadTrajectory parses a table written by WriteTrajectory.
func ReadTrajectory(r io.Reader) (times, positions []float64, err error) {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Split(text, ",")
		if len(fields) != 2 {
			return nil, nil, fmt.Errorf("trajectory line %d: expected 2 columns, got %d", line, len(fields))
		}
		t, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("trajectory line %d: %w", line, err)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, nil, fmt.Errorf("trajectory line %d: %w", line, err)
		}
		times = append(times, t)
		positions = append(positions, x)
	}
	return times, positions, sc.Err()
}
