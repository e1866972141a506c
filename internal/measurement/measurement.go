// Package measurement defines the sensor reading types ingested by the
// fusion pipeline. Each reading carries the raw measurement in the sensor's
// native frame plus the ground-truth state recorded alongside it in the
// sensor log, and exposes the measurement as the column vector the filter
// update expects.
package measurement

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SensorType identifies the sensor that produced a measurement. Future
// sensors are additional constants here, not boolean flags on the records.
type SensorType string

const (
	SensorLidar SensorType = "lidar" // Cartesian (x, y) reporting
	SensorRadar SensorType = "radar" // polar (range, bearing, range-rate) reporting
)

// Measurement is one ingested sensor reading. The two concrete types are
// LidarMeasurement and RadarMeasurement; consumers switch exhaustively on
// the concrete type (or on Sensor()) rather than probing optional fields.
type Measurement interface {
	// Sensor reports which sensor variant this reading is.
	Sensor() SensorType
	// Timestamp is the capture time in microseconds.
	Timestamp() int64
	// Observation returns the measurement as the column vector z consumed
	// by the filter update: 2x1 (x, y) for lidar, 3x1 (rho, phi, rhoDot)
	// for radar.
	Observation() *mat.VecDense
	// GroundTruth returns the 4x1 true state (x, y, vx, vy) logged with
	// the reading.
	GroundTruth() *mat.VecDense
	fmt.Stringer

	sealed()
}

// LidarMeasurement is a Cartesian position reading.
type LidarMeasurement struct {
	X, Y float64
	Time int64

	TruthX, TruthY, TruthVX, TruthVY float64
}

// RadarMeasurement is a polar reading: range, bearing (radians, (-pi, pi]),
// and range-rate.
type RadarMeasurement struct {
	Rho, Phi, RhoDot float64
	Time             int64

	TruthX, TruthY, TruthVX, TruthVY float64
}

// Field counts after the sensor tag, per log line layout.
const (
	lidarFieldCount = 7 // x y timestamp gt_x gt_y gt_vx gt_vy
	radarFieldCount = 8 // rho phi rhoDot timestamp gt_x gt_y gt_vx gt_vy
)

// New builds a Measurement from a sensor tag and the already-parsed numeric
// fields that followed it in the log line. Unknown tags are an error rather
// than defaulting to either variant.
func New(tag string, fields []float64) (Measurement, error) {
	switch tag {
	case "L":
		if len(fields) != lidarFieldCount {
			return nil, fmt.Errorf("lidar record needs %d fields, got %d", lidarFieldCount, len(fields))
		}
		return &LidarMeasurement{
			X:       fields[0],
			Y:       fields[1],
			Time:    int64(fields[2]),
			TruthX:  fields[3],
			TruthY:  fields[4],
			TruthVX: fields[5],
			TruthVY: fields[6],
		}, nil
	case "R":
		if len(fields) != radarFieldCount {
			return nil, fmt.Errorf("radar record needs %d fields, got %d", radarFieldCount, len(fields))
		}
		return &RadarMeasurement{
			Rho:     fields[0],
			Phi:     fields[1],
			RhoDot:  fields[2],
			Time:    int64(fields[3]),
			TruthX:  fields[4],
			TruthY:  fields[5],
			TruthVX: fields[6],
			TruthVY: fields[7],
		}, nil
	default:
		return nil, fmt.Errorf("unknown sensor tag %q", tag)
	}
}

func (m *LidarMeasurement) Sensor() SensorType { return SensorLidar }
func (m *LidarMeasurement) Timestamp() int64   { return m.Time }

func (m *LidarMeasurement) Observation() *mat.VecDense {
	return mat.NewVecDense(2, []float64{m.X, m.Y})
}

func (m *LidarMeasurement) GroundTruth() *mat.VecDense {
	return mat.NewVecDense(4, []float64{m.TruthX, m.TruthY, m.TruthVX, m.TruthVY})
}

func (m *LidarMeasurement) String() string {
	return fmt.Sprintf("LIDAR t=%d z=[%.3f %.3f] truth=[%.3f %.3f %.3f %.3f]",
		m.Time, m.X, m.Y, m.TruthX, m.TruthY, m.TruthVX, m.TruthVY)
}

func (m *LidarMeasurement) sealed() {}

func (m *RadarMeasurement) Sensor() SensorType { return SensorRadar }
func (m *RadarMeasurement) Timestamp() int64   { return m.Time }

func (m *RadarMeasurement) Observation() *mat.VecDense {
	return mat.NewVecDense(3, []float64{m.Rho, m.Phi, m.RhoDot})
}

func (m *RadarMeasurement) GroundTruth() *mat.VecDense {
	return mat.NewVecDense(4, []float64{m.TruthX, m.TruthY, m.TruthVX, m.TruthVY})
}

func (m *RadarMeasurement) String() string {
	return fmt.Sprintf("RADAR t=%d z=[%.3f %.3f %.3f] truth=[%.3f %.3f %.3f %.3f]",
		m.Time, m.Rho, m.Phi, m.RhoDot, m.TruthX, m.TruthY, m.TruthVX, m.TruthVY)
}

func (m *RadarMeasurement) sealed() {}
