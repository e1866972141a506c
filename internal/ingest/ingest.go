// Package ingest reads recorded sensor logs into measurement values. A log
// is line-oriented, whitespace separated: a one-character sensor tag followed
// by the sensor's numeric fields, a timestamp in microseconds, and the four
// ground-truth values, e.g.
//
//	L 4.632 0.405 1477010443000000 0.600 0.600 5.200 0.000
//	R 8.461 0.018 -3.044 1477010443050000 8.600 0.250 -3.000 0.000
package ingest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/banshee-data/fusion.report/internal/measurement"
)

// ReadLog parses a sensor log from r. Blank lines are skipped; any malformed
// line aborts the read with an error naming the line number, since a partial
// log would silently skew the filter's results.
func ReadLog(r io.Reader) ([]measurement.Measurement, error) {
	var out []measurement.Measurement

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		tokens := strings.Fields(text)
		tag := tokens[0]
		fields := make([]float64, 0, len(tokens)-1)
		for _, tok := range tokens[1:] {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad numeric field %q: %w", line, tok, err)
			}
			fields = append(fields, v)
		}

		m, err := measurement.New(tag, fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading sensor log: %w", err)
	}

	return out, nil
}

// ReadLogFile opens and parses the sensor log at path.
func ReadLogFile(path string) ([]measurement.Measurement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening sensor log: %w", err)
	}
	defer f.Close()

	ms, err := ReadLog(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ms, nil
}
