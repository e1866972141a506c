package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/fusion.report/internal/measurement"
)

const sampleLog = `L 4.632 0.405 1477010443000000 0.600 0.600 5.200 0.000
R 8.461 0.018 -3.044 1477010443050000 8.600 0.250 -3.000 0.000

L 8.450 0.250 1477010443100000 8.450 0.250 -3.000 0.000
`

func TestReadLog(t *testing.T) {
	ms, err := ReadLog(strings.NewReader(sampleLog))
	if err != nil {
		t.Fatalf("ReadLog: %v", err)
	}
	if len(ms) != 3 {
		t.Fatalf("parsed %d measurements, want 3", len(ms))
	}

	if ms[0].Sensor() != measurement.SensorLidar {
		t.Errorf("ms[0] sensor = %v, want lidar", ms[0].Sensor())
	}
	if ms[1].Sensor() != measurement.SensorRadar {
		t.Errorf("ms[1] sensor = %v, want radar", ms[1].Sensor())
	}
	if got := ms[1].Timestamp(); got != 1477010443050000 {
		t.Errorf("ms[1] timestamp = %d, want 1477010443050000", got)
	}
	if z := ms[1].Observation(); z.Len() != 3 || z.AtVec(0) != 8.461 {
		t.Errorf("ms[1] observation = %v", z.RawVector().Data)
	}
}

func TestReadLogErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantSub string
	}{
		{"unknown tag", "X 1 2 3 4 5 6 7\n", "line 1"},
		{"bad float", "L 4.632 junk 100 1 2 3 4\n", "bad numeric field"},
		{"wrong arity", "L 4.632 0.405 100\n", "line 1"},
		{"error on later line", sampleLog + "Q 1 2 3 4 5 6 7\n", "line 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadLog(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestReadLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sensors.txt")
	if err := os.WriteFile(path, []byte(sampleLog), 0644); err != nil {
		t.Fatal(err)
	}

	ms, err := ReadLogFile(path)
	if err != nil {
		t.Fatalf("ReadLogFile: %v", err)
	}
	if len(ms) != 3 {
		t.Errorf("parsed %d measurements, want 3", len(ms))
	}

	if _, err := ReadLogFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
