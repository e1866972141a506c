package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/fusion.report/internal/db"
)

var testEstimates = []db.Estimate{
	{Seq: 0, Sensor: "lidar", PX: 0.6, PY: 0.6, MeasuredX: 0.63, MeasuredY: 0.58, TruthX: 0.6, TruthY: 0.6},
	{Seq: 1, Sensor: "radar", PX: 0.86, PY: 0.61, MeasuredX: 0.87, MeasuredY: 0.6, TruthX: 0.86, TruthY: 0.6},
	{Seq: 2, Sensor: "lidar", PX: 1.12, PY: 0.62, MeasuredX: 1.1, MeasuredY: 0.63, TruthX: 1.12, TruthY: 0.6},
}

func TestWriteTrajectoryHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTrajectoryHTML(&buf, "run test", testEstimates); err != nil {
		t.Fatalf("WriteTrajectoryHTML: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"ground truth", "measurements", "estimate", "echarts"} {
		if !strings.Contains(out, want) {
			t.Errorf("chart output missing %q", want)
		}
	}
}

func TestWriteTrajectoryHTMLEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTrajectoryHTML(&buf, "empty", nil); err == nil {
		t.Error("expected error for empty estimate list")
	}
}

func TestSaveTrajectoryPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trajectory.png")
	if err := SaveTrajectoryPNG(path, "run test", testEstimates); err != nil {
		t.Fatalf("SaveTrajectoryPNG: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat plot: %v", err)
	}
	if info.Size() == 0 {
		t.Error("plot file is empty")
	}
}

func TestSaveTrajectoryPNGEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trajectory.png")
	if err := SaveTrajectoryPNG(path, "empty", nil); err == nil {
		t.Error("expected error for empty estimate list")
	}
}
