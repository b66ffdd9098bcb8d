package sizing

import (
	"fmt"
	"math"
	"strings"

	"github.com/arloliu/voxoct/errs"
)

// ModelType identifies the closed form of a size model.
type ModelType int

const (
	// ModelHyperbolic is size = a + b / t.
	ModelHyperbolic ModelType = iota
	// ModelLogarithmic is size = a + b * ln(t).
	ModelLogarithmic
	// ModelPower is size = a * t^b.
	ModelPower
	// ModelExponential is size = a * e^(b*t).
	ModelExponential
)

var modelTypeNames = map[ModelType]string{
	ModelHyperbolic:  "hyperbolic",
	ModelLogarithmic: "logarithmic",
	ModelPower:       "power",
	ModelExponential: "exponential",
}

func (mt ModelType) String() string {
	if name, ok := modelTypeNames[mt]; ok {
		return name
	}

	return "unknown"
}

// ParseModelType returns the model type for a case-insensitive name.
func ParseModelType(name string) (ModelType, error) {
	for mt, n := range modelTypeNames {
		if strings.EqualFold(n, name) {
			return mt, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", errs.ErrUnknownModel, name)
}

// Model is a fitted size model.
type Model struct {
	Type ModelType
	A, B float64
	// RSquared is the coefficient of determination against the measured
	// sizes, not against the linearized data.
	RSquared float64
	// RMSE is the root mean square error in bytes.
	RMSE float64
}

// NewModel creates a model from known coefficients, for example ones
// fitted earlier and stored in a configuration file.
func NewModel(name string, a, b float64) (*Model, error) {
	mt, err := ParseModelType(name)
	if err != nil {
		return nil, err
	}

	return &Model{Type: mt, A: a, B: b}, nil
}

// Estimate returns the predicted size in bytes for a threshold.
// Thresholds below zero yield +Inf.
func (m *Model) Estimate(threshold float64) float64 {
	if threshold < 0 {
		return math.Inf(1)
	}
	t := threshold + 1

	switch m.Type {
	case ModelHyperbolic:
		return m.A + m.B/t
	case ModelLogarithmic:
		return m.A + m.B*math.Log(t)
	case ModelPower:
		return m.A * math.Pow(t, m.B)
	case ModelExponential:
		return m.A * math.Exp(m.B*t)
	default:
		return math.NaN()
	}
}

// Formula renders the model with its coefficients.
func (m *Model) Formula() string {
	switch m.Type {
	case ModelHyperbolic:
		return fmt.Sprintf("size = %.2f + %.2f / t", m.A, m.B)
	case ModelLogarithmic:
		return fmt.Sprintf("size = %.2f + %.2f * ln(t)", m.A, m.B)
	case ModelPower:
		return fmt.Sprintf("size = %.2f * t^%.4f", m.A, m.B)
	case ModelExponential:
		return fmt.Sprintf("size = %.2f * e^(%.4f*t)", m.A, m.B)
	default:
		return "unknown"
	}
}

func (m *Model) String() string {
	return fmt.Sprintf("Model{Type: %s, R²: %.4f, RMSE: %.1f, Formula: %s}",
		m.Type, m.RSquared, m.RMSE, m.Formula())
}

// Result is the outcome of Fit.
type Result struct {
	// BestFit is the model with the highest R².
	BestFit *Model
	// Models holds every fitted model, best first.
	Models []*Model
	// Samples are the measurements the models were fitted to.
	Samples []Sample
}

func (r *Result) String() string {
	if r.BestFit == nil {
		return "Result{BestFit: nil}"
	}

	return fmt.Sprintf("Result{BestFit: %s, Models: %d, Samples: %d}", r.BestFit, len(r.Models), len(r.Samples))
}
