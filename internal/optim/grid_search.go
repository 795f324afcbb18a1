package optim

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/chaosdp/internal/dynamo"
	"github.com/san-kum/chaosdp/internal/experiment"
)

// Objective scores a finished run. Lower is better unless the search
// maximizes.
type Objective func(r *experiment.Result) float64

// MetricObjective reads a named metric collected during the run.
func MetricObjective(name string) Objective {
	return func(r *experiment.Result) float64 {
		v, ok := r.Metrics[name]
		if !ok {
			return math.NaN()
		}
		return v
	}
}

// FinalSpread is the bottom bob spread after the last frame.
func FinalSpread(r *experiment.Result) float64 {
	if len(r.Samples) == 0 {
		return math.NaN()
	}
	return r.Samples[len(r.Samples)-1].Spread
}

// Objectives lists the objectives selectable by name.
var Objectives = map[string]Objective{
	"energy":       MetricObjective("energy"),
	"energy_drift": MetricObjective("energy_drift"),
	"stability":    MetricObjective("stability"),
	"final_spread": FinalSpread,
}

func GetObjective(name string) (Objective, error) {
	obj, ok := Objectives[name]
	if !ok {
		names := make([]string, 0, len(Objectives))
		for n := range Objectives {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown objective %q (available: %s): %w", name, strings.Join(names, ", "), dynamo.ErrParameterBounds)
	}
	return obj, nil
}

// Trial is one evaluated grid point.
type Trial struct {
	Params map[string]float64
	Score  float64
	Err    error
}

type SearchResult struct {
	Best   Trial
	Trials []Trial
}

// GridSearch evaluates every combination of the given parameter values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	Maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search builds and runs one experiment per grid point. Trials whose build
// or run fails, or whose score is NaN, are recorded but never chosen as
// best. It returns an error only if ctx ends or no trial produced a score.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	objective Objective,
) (*SearchResult, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("%d parameters but %d ranges: %w", len(g.paramNames), len(g.ranges), dynamo.ErrDimensionMismatch)
	}

	res := &SearchResult{Best: Trial{Score: math.NaN()}}
	g.searchRecursive(ctx, 0, make(map[string]float64), buildExperiment, objective, res)
	if err := ctx.Err(); err != nil {
		return res, err
	}
	if math.IsNaN(res.Best.Score) {
		return res, fmt.Errorf("no grid point produced a score")
	}
	return res, nil
}

func (g *GridSearch) better(a, b float64) bool {
	if math.IsNaN(b) {
		return true
	}
	if g.Maximize {
		return a > b
	}
	return a < b
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	objective Objective,
	res *SearchResult,
) {
	if ctx.Err() != nil {
		return
	}
	if depth == len(g.paramNames) {
		trial := Trial{Params: current, Score: math.NaN()}
		defer func() { res.Trials = append(res.Trials, trial) }()

		exp, err := buildExperiment(current)
		if err != nil {
			trial.Err = err
			return
		}
		result, err := exp.Run(ctx)
		if err != nil {
			trial.Err = err
			return
		}

		trial.Score = objective(result)
		if !math.IsNaN(trial.Score) && g.better(trial.Score, res.Best.Score) {
			res.Best = trial
		}
		dynamo.Logger().Debug("grid point", "params", current, "score", trial.Score)
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(ctx, depth+1, newParams, buildExperiment, objective, res)
	}
}

// ParseRange reads "name=lo:hi:n" (n evenly spaced values, both ends
// included) or "name=v1,v2,...".
func ParseRange(arg string) (string, []float64, error) {
	name, values, ok := strings.Cut(arg, "=")
	if !ok || name == "" || values == "" {
		return "", nil, fmt.Errorf("range %q: want name=lo:hi:n or name=v1,v2", arg)
	}

	if parts := strings.Split(values, ":"); len(parts) == 3 {
		lo, err1 := strconv.ParseFloat(parts[0], 64)
		hi, err2 := strconv.ParseFloat(parts[1], 64)
		n, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil || n < 1 {
			return "", nil, fmt.Errorf("range %q: bad lo:hi:n", arg)
		}
		if n == 1 {
			return name, []float64{lo}, nil
		}
		out := make([]float64, n)
		for i := range out {
			out[i] = lo + (hi-lo)*float64(i)/float64(n-1)
		}
		return name, out, nil
	}

	var out []float64
	for _, s := range strings.Split(values, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return "", nil, fmt.Errorf("range %q: %w", arg, err)
		}
		out = append(out, v)
	}
	return name, out, nil
}
