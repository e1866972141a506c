// Package ekf implements the extended Kalman filter that fuses lidar and
// radar measurements into a single constant-velocity track over the 4-state
// [px py vx vy]. Lidar readings are linear in the state and use the plain
// Kalman update; radar readings are polar, so the update linearises the
// observation map with the Jacobian from the geom package at each cycle.
package ekf

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/fusion.report/internal/geom"
	"github.com/banshee-data/fusion.report/internal/measurement"
)

const (
	// maxPredictDt caps the prediction interval (seconds) for a single
	// step. Gaps in a recorded log would otherwise balloon the process
	// noise and with it the covariance.
	maxPredictDt = 1.0

	// microsPerSecond converts log timestamps to seconds.
	microsPerSecond = 1e6
)

// Noise parameters for the constant-velocity model and the two sensors.
// Process noise is the spectral density of the unmodelled acceleration.
const (
	processNoiseAX = 9.0
	processNoiseAY = 9.0

	lidarPosVar = 0.0225

	radarRangeVar     = 0.09
	radarBearingVar   = 0.0009
	radarRangeRateVar = 0.09
)

// Filter is a lidar/radar fusion EKF. The zero value is not usable; call New.
// A Filter is not safe for concurrent use — it mutates its state estimate on
// every ProcessMeasurement call.
type Filter struct {
	x *mat.VecDense // state estimate, 4x1
	p *mat.Dense    // state covariance, 4x4

	hLidar *mat.Dense // lidar observation matrix, 2x4
	rLidar *mat.Dense // lidar measurement noise, 2x2
	rRadar *mat.Dense // radar measurement noise, 3x3

	initialized bool
	lastTime    int64 // microseconds
}

// New returns a filter awaiting its first measurement.
func New() *Filter {
	return &Filter{
		x: mat.NewVecDense(4, nil),
		p: mat.NewDense(4, 4, []float64{
			1, 0, 0, 0,
			0, 1, 0, 0,
			0, 0, 1000, 0,
			0, 0, 0, 1000,
		}),
		hLidar: mat.NewDense(2, 4, []float64{
			1, 0, 0, 0,
			0, 1, 0, 0,
		}),
		rLidar: mat.NewDense(2, 2, []float64{
			lidarPosVar, 0,
			0, lidarPosVar,
		}),
		rRadar: mat.NewDense(3, 3, []float64{
			radarRangeVar, 0, 0,
			0, radarBearingVar, 0,
			0, 0, radarRangeRateVar,
		}),
	}
}

// State returns a copy of the current 4x1 state estimate [px py vx vy].
func (f *Filter) State() *mat.VecDense {
	out := mat.NewVecDense(4, nil)
	out.CopyVec(f.x)
	return out
}

// Covariance returns a copy of the current 4x4 state covariance.
func (f *Filter) Covariance() *mat.Dense {
	return mat.DenseCopyOf(f.p)
}

// Initialized reports whether the filter has consumed its first measurement.
func (f *Filter) Initialized() bool { return f.initialized }

// ProcessMeasurement advances the filter by one cycle: the first measurement
// seeds the state, every later one predicts forward to the measurement time
// and runs the sensor-appropriate update. A singular-geometry error from the
// radar model skips that update (the prediction stands) and is returned so
// the caller can log the cycle.
func (f *Filter) ProcessMeasurement(m measurement.Measurement) error {
	if !f.initialized {
		f.init(m)
		return nil
	}

	dt := float64(m.Timestamp()-f.lastTime) / microsPerSecond
	if dt > maxPredictDt {
		dt = maxPredictDt
	}
	f.lastTime = m.Timestamp()

	if dt > 0 {
		f.Predict(dt)
	}
	return f.Update(m)
}

// init seeds the state from the first measurement. A lidar reading is the
// position directly; a radar reading is mapped through the polar-to-Cartesian
// transform. Velocity is unobservable from a single reading and starts at
// zero with the large prior variance set in New.
func (f *Filter) init(m measurement.Measurement) {
	switch m := m.(type) {
	case *measurement.LidarMeasurement:
		f.x.SetVec(0, m.X)
		f.x.SetVec(1, m.Y)
	case *measurement.RadarMeasurement:
		x, y := geom.PolarToCartesian(m.Rho, m.Phi, m.RhoDot)
		f.x.SetVec(0, x)
		f.x.SetVec(1, y)
	}
	f.lastTime = m.Timestamp()
	f.initialized = true
}

// Predict advances the state estimate dt seconds under the constant-velocity
// model: x' = F·x, P' = F·P·Fᵀ + Q(dt).
func (f *Filter) Predict(dt float64) {
	F := mat.NewDense(4, 4, []float64{
		1, 0, dt, 0,
		0, 1, 0, dt,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})

	var x mat.VecDense
	x.MulVec(F, f.x)
	f.x.CopyVec(&x)

	var fp, fpft mat.Dense
	fp.Mul(F, f.p)
	fpft.Mul(&fp, F.T())
	fpft.Add(&fpft, processNoise(dt))
	f.p.Copy(&fpft)
}

// processNoise builds Q(dt) for the constant-velocity model with the
// acceleration spectral densities processNoiseAX/AY.
func processNoise(dt float64) *mat.Dense {
	dt2 := dt * dt
	dt3 := dt2 * dt / 2
	dt4 := dt2 * dt2 / 4

	return mat.NewDense(4, 4, []float64{
		dt4 * processNoiseAX, 0, dt3 * processNoiseAX, 0,
		0, dt4 * processNoiseAY, 0, dt3 * processNoiseAY,
		dt3 * processNoiseAX, 0, dt2 * processNoiseAX, 0,
		0, dt3 * processNoiseAY, 0, dt2 * processNoiseAY,
	})
}

// Update folds one measurement into the state estimate.
func (f *Filter) Update(m measurement.Measurement) error {
	switch m := m.(type) {
	case *measurement.LidarMeasurement:
		var y mat.VecDense
		y.MulVec(f.hLidar, f.x)
		y.SubVec(m.Observation(), &y)
		return f.applyGain(&y, f.hLidar, f.rLidar)
	case *measurement.RadarMeasurement:
		return f.updateRadar(m)
	default:
		return fmt.Errorf("unhandled measurement type %T", m)
	}
}

// updateRadar runs the extended update: the predicted observation comes from
// the exact nonlinear transform, the gain from its Jacobian at the current
// estimate. The Jacobian is recomputed every cycle because the linearisation
// point moves with the estimate.
func (f *Filter) updateRadar(m *measurement.RadarMeasurement) error {
	zPred, err := geom.CartesianToPolar(f.x)
	if err != nil {
		return err
	}
	h, err := geom.Jacobian(f.x)
	if err != nil {
		return err
	}

	var y mat.VecDense
	y.SubVec(m.Observation(), zPred)
	y.SetVec(1, normalizeBearing(y.AtVec(1)))

	return f.applyGain(&y, h, f.rRadar)
}

// applyGain performs the shared gain computation and state/covariance
// correction for an innovation y with observation matrix h and measurement
// noise r:
//
//	S = H·P·Hᵀ + R,  K = P·Hᵀ·S⁻¹,  x += K·y,  P = (I − K·H)·P
func (f *Filter) applyGain(y *mat.VecDense, h, r *mat.Dense) error {
	var pht mat.Dense
	pht.Mul(f.p, h.T())

	var s mat.Dense
	s.Mul(h, &pht)
	s.Add(&s, r)

	var sInv mat.Dense
	if err := sInv.Inverse(&s); err != nil {
		return fmt.Errorf("innovation covariance not invertible: %w", err)
	}

	var k mat.Dense
	k.Mul(&pht, &sInv)

	var ky mat.VecDense
	ky.MulVec(&k, y)
	f.x.AddVec(f.x, &ky)

	var kh mat.Dense
	kh.Mul(&k, h)
	ikh := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		ikh.Set(i, i, 1)
	}
	ikh.Sub(ikh, &kh)

	var p mat.Dense
	p.Mul(ikh, f.p)
	f.p.Copy(&p)

	return nil
}

// normalizeBearing wraps an angle into (-pi, pi]. The innovation bearing is
// a difference of two bearings and can land just outside the branch cut.
func normalizeBearing(phi float64) float64 {
	for phi > math.Pi {
		phi -= 2 * math.Pi
	}
	for phi <= -math.Pi {
		phi += 2 * math.Pi
	}
	return phi
}
