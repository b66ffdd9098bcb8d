package sizing

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/arloliu/voxoct/errs"
)

// minDistinctThresholds is the number of distinct thresholds a fit needs.
const minDistinctThresholds = 2

// Fit fits every model to the samples and ranks them by R².
//
// Power and exponential models are fitted in log space and are skipped
// when a sample has a non-positive size.
//
// Returns:
//   - *Result: Best fit and all candidates, best first
//   - error: ErrInsufficientSamples with fewer than two distinct thresholds
func Fit(samples []Sample) (*Result, error) {
	x := make([]float64, len(samples))
	y := make([]float64, len(samples))
	distinct := make(map[float32]struct{}, len(samples))
	positive := true
	for i, s := range samples {
		if s.Threshold < 0 {
			return nil, fmt.Errorf("%w: %v", errs.ErrInvalidThreshold, s.Threshold)
		}
		x[i] = float64(s.Threshold) + 1
		y[i] = float64(s.Bytes)
		distinct[s.Threshold] = struct{}{}
		if s.Bytes <= 0 {
			positive = false
		}
	}
	if len(distinct) < minDistinctThresholds {
		return nil, fmt.Errorf("%w: %d distinct thresholds", errs.ErrInsufficientSamples, len(distinct))
	}

	models := []*Model{
		fitLinearized(ModelHyperbolic, x, y, inverse, identity),
		fitLinearized(ModelLogarithmic, x, y, math.Log, identity),
	}
	if positive {
		models = append(models,
			fitLinearized(ModelPower, x, y, math.Log, math.Log),
			fitLinearized(ModelExponential, x, y, identity, math.Log),
		)
	}

	slices.SortStableFunc(models, func(a, b *Model) int {
		return cmp.Compare(b.RSquared, a.RSquared)
	})

	return &Result{BestFit: models[0], Models: models, Samples: slices.Clone(samples)}, nil
}

func identity(v float64) float64 { return v }

func inverse(v float64) float64 { return 1 / v }

// fitLinearized regresses fy(y) on fx(t) and maps the intercept back to the
// model's a coefficient.
func fitLinearized(mt ModelType, t, y []float64, fx, fy func(float64) float64) *Model {
	xs := make([]float64, len(t))
	ys := make([]float64, len(y))
	for i := range t {
		xs[i] = fx(t[i])
		ys[i] = fy(y[i])
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)

	m := &Model{Type: mt, A: alpha, B: beta}
	if mt == ModelPower || mt == ModelExponential {
		m.A = math.Exp(alpha)
	}
	// A degenerate regression (all x equal after the transform) yields NaN.
	if math.IsNaN(m.A) || math.IsNaN(m.B) {
		m.A, m.B = 0, 0
	}

	predicted := make([]float64, len(t))
	for i := range t {
		predicted[i] = m.Estimate(t[i] - 1)
	}
	m.RSquared, m.RMSE = goodness(predicted, y)

	return m
}

// goodness returns R² and RMSE of predicted against observed. A constant
// observation series scores 1 when matched exactly and 0 otherwise.
func goodness(predicted, observed []float64) (r2, rmse float64) {
	var ss float64
	for i := range observed {
		d := observed[i] - predicted[i]
		ss += d * d
	}
	rmse = math.Sqrt(ss / float64(len(observed)))

	r2 = stat.RSquaredFrom(predicted, observed, nil)
	if math.IsNaN(r2) || math.IsInf(r2, 0) {
		r2 = 0
		if rmse < 1e-9 {
			r2 = 1
		}
	}

	return r2, rmse
}

// ThresholdFor returns the smallest threshold in [lo, hi] whose estimated
// size does not exceed target, assuming size decreases with the threshold.
//
// Returns:
//   - float32: lo when it already fits, else the bisected threshold
//   - error: ErrTargetUnreachable when even hi is estimated above target
func ThresholdFor(m *Model, target float64, lo, hi float32) (float32, error) {
	if lo < 0 || hi < lo {
		return 0, fmt.Errorf("%w: range [%v, %v]", errs.ErrInvalidThreshold, lo, hi)
	}

	l, h := float64(lo), float64(hi)
	if m.Estimate(l) <= target {
		return lo, nil
	}
	if m.Estimate(h) > target {
		return 0, fmt.Errorf("%w: %.0f bytes estimated at threshold %v", errs.ErrTargetUnreachable, m.Estimate(h), hi)
	}

	for range 64 {
		mid := (l + h) / 2
		if m.Estimate(mid) <= target {
			h = mid
		} else {
			l = mid
		}
	}

	return float32(h), nil
}
