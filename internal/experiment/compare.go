package experiment

import (
	"context"
	"math"

	"github.com/san-kum/chaosdp/internal/dynamo"
	"github.com/san-kum/chaosdp/internal/metrics"
	"github.com/san-kum/chaosdp/internal/physics"
)

// Comparison is the outcome of integrating one start state with one
// stepper.
type Comparison struct {
	Integrator  string
	FinalTheta1 float64
	FinalTheta2 float64
	EnergyDrift float64
	Steps       int
	Valid       bool
}

// Compare integrates a pendulum released at rest from angle (radians) with
// every named stepper using the same fixed dt and reports where each one
// ends up. Divergence between rows is the combined effect of truncation
// error and chaos.
func (r *Registry) Compare(ctx context.Context, model physics.Model, names []string, angle, dt, duration float64) ([]Comparison, error) {
	if !(dt > 0) {
		return nil, dynamo.ErrParameterBounds
	}
	if len(names) == 0 {
		names = r.ListIntegrators()
	}

	out := make([]Comparison, 0, len(names))
	for _, name := range names {
		integ, err := r.GetIntegrator(name)
		if err != nil {
			return nil, err
		}

		drift := metrics.NewEnergyDrift(model)
		x := physics.NewDoublePendulum(model, angle).State()
		steps := int(math.Round(duration / dt))
		row := Comparison{Integrator: name, Valid: true}

		for i := 0; i < steps; i++ {
			if i%1024 == 0 {
				if err := ctx.Err(); err != nil {
					return out, err
				}
			}
			drift.Observe(x, float64(i)*dt)
			x = integ.Step(model, x, float64(i)*dt, dt)
			row.Steps++
			if !x.IsValid() {
				row.Valid = false
				break
			}
		}
		if row.Valid {
			drift.Observe(x, float64(row.Steps)*dt)
		}

		row.FinalTheta1, row.FinalTheta2 = x[0], x[1]
		row.EnergyDrift = drift.Value()
		out = append(out, row)
		dynamo.Logger().Debug("compared integrator", "integrator", name, "drift", row.EnergyDrift)
	}
	return out, nil
}
