// Command fusion runs the lidar/radar EKF over a recorded sensor log,
// reports the RMSE against ground truth, and optionally persists the run and
// renders its trajectory.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/fusion.report/internal/db"
	"github.com/banshee-data/fusion.report/internal/ekf"
	"github.com/banshee-data/fusion.report/internal/geom"
	"github.com/banshee-data/fusion.report/internal/ingest"
	"github.com/banshee-data/fusion.report/internal/measurement"
	"github.com/banshee-data/fusion.report/internal/rmse"
)

var (
	input     = flag.String("input", "", "Sensor log to process (required)")
	dbPath    = flag.String("db", "fusion.db", "Run store path; empty to skip persistence")
	chartPath = flag.String("chart", "", "Write an HTML trajectory chart to this path")
	plotPath  = flag.String("plot", "", "Write a PNG trajectory plot to this path")
	verbose   = flag.Bool("v", false, "Log every measurement cycle")
)

func main() {
	flag.Parse()
	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	measurements, err := ingest.ReadLogFile(*input)
	if err != nil {
		log.Fatalf("reading sensor log: %v", err)
	}
	log.Printf("loaded %d measurements from %s", len(measurements), *input)

	run, estimates, err := processLog(*input, measurements, *verbose)
	if err != nil {
		log.Fatalf("processing %s: %v", *input, err)
	}

	log.Printf("RMSE: x=%.4f y=%.4f vx=%.4f vy=%.4f",
		run.RMSEX, run.RMSEY, run.RMSEVX, run.RMSEVY)

	if *dbPath != "" {
		store, err := db.NewDB(*dbPath)
		if err != nil {
			log.Fatalf("opening run store: %v", err)
		}
		defer store.Close()

		if err := store.InsertRun(run); err != nil {
			log.Fatalf("recording run: %v", err)
		}
		if err := store.InsertEstimates(estimates); err != nil {
			log.Fatalf("recording estimates: %v", err)
		}
		log.Printf("recorded run %s (%d estimates) in %s", run.ID, len(estimates), *dbPath)
	}

	if *chartPath != "" {
		if err := writeChart(*chartPath, run, estimates); err != nil {
			log.Fatalf("writing chart: %v", err)
		}
		log.Printf("wrote trajectory chart to %s", *chartPath)
	}
	if *plotPath != "" {
		if err := writePlot(*plotPath, run, estimates); err != nil {
			log.Fatalf("writing plot: %v", err)
		}
		log.Printf("wrote trajectory plot to %s", *plotPath)
	}
}

// processLog drives the filter over the measurements and collects one
// estimate row per cycle. Cycles whose radar update hits singular geometry
// are logged and skipped; the prediction still counts toward the RMSE.
func processLog(source string, measurements []measurement.Measurement, verbose bool) (db.Run, []db.Estimate, error) {
	filter := ekf.New()
	var acc rmse.Accumulator

	run := db.Run{
		ID:         uuid.NewString(),
		SourceFile: source,
		StartedAt:  time.Now().UTC(),
	}

	estimates := make([]db.Estimate, 0, len(measurements))
	for i, m := range measurements {
		if err := filter.ProcessMeasurement(m); err != nil {
			var sge *geom.SingularGeometryError
			if !errors.As(err, &sge) {
				return db.Run{}, nil, fmt.Errorf("cycle %d: %w", i, err)
			}
			log.Printf("cycle %d: skipping update: %v", i, err)
		}

		x := filter.State()
		if err := acc.Add(x, m.GroundTruth()); err != nil {
			return db.Run{}, nil, fmt.Errorf("cycle %d: %w", i, err)
		}

		mx, my := measuredXY(m)
		truth := m.GroundTruth()
		estimates = append(estimates, db.Estimate{
			RunID:     run.ID,
			Seq:       i,
			Timestamp: m.Timestamp(),
			Sensor:    string(m.Sensor()),
			PX:        x.AtVec(0),
			PY:        x.AtVec(1),
			VX:        x.AtVec(2),
			VY:        x.AtVec(3),
			MeasuredX: mx,
			MeasuredY: my,
			TruthX:    truth.AtVec(0),
			TruthY:    truth.AtVec(1),
			TruthVX:   truth.AtVec(2),
			TruthVY:   truth.AtVec(3),
		})

		if verbose {
			log.Printf("%s -> estimate [%.3f %.3f %.3f %.3f]",
				m, x.AtVec(0), x.AtVec(1), x.AtVec(2), x.AtVec(3))
		}
	}

	result, err := acc.RMSE()
	if err != nil {
		return db.Run{}, nil, err
	}
	run.RMSEX = result.AtVec(0)
	run.RMSEY = result.AtVec(1)
	run.RMSEVX = result.AtVec(2)
	run.RMSEVY = result.AtVec(3)

	return run, estimates, nil
}

// measuredXY reduces a measurement to a Cartesian position for charting.
func measuredXY(m measurement.Measurement) (x, y float64) {
	switch m := m.(type) {
	case *measurement.LidarMeasurement:
		return m.X, m.Y
	case *measurement.RadarMeasurement:
		return geom.PolarToCartesian(m.Rho, m.Phi, m.RhoDot)
	}
	return 0, 0
}
