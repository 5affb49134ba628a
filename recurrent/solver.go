package recurrent

import "math"

/*
Solver is an RMSProp solver with gradient clipping and L2 regularization.
*/
type Solver struct {
	DecayRate float64
	SmoothEPS float64
	StepCache map[string]*Mat
}

/*
SolverStats is the result of running the solver.
*/
type SolverStats map[string]float64

/*
NewSolver instantiates a Solver
*/
func NewSolver() *Solver {
	return &Solver{
		DecayRate: 0.999,
		SmoothEPS: 1e-8,
		StepCache: make(map[string]*Mat),
	}
}

/*
Step updates every param from its accumulated gradient and then resets the
gradient. Only params handed in are touched.
*/
func (solver *Solver) Step(params []Param, stepSize float64, regc float64, clipval float64) SolverStats {
	solverStats := SolverStats{}
	numClipped := 0.0
	numTot := 0.0

	for _, p := range params {
		s, hasKey := solver.StepCache[p.Name]
		if !hasKey {
			s = NewMat(p.RowCount, p.ColumnCount)
			solver.StepCache[p.Name] = s
		}
		for i := range p.W {
			// rmsprop adaptive learning rate
			mdwi := p.DW[i]
			s.W[i] = s.W[i]*solver.DecayRate + (1.0-solver.DecayRate)*mdwi*mdwi

			// gradient clip
			if mdwi > clipval {
				mdwi = clipval
				numClipped++
			}
			if mdwi < -clipval {
				mdwi = -clipval
				numClipped++
			}
			numTot++

			// update (and regularize)
			p.W[i] += -stepSize*mdwi/math.Sqrt(s.W[i]+solver.SmoothEPS) - regc*p.W[i]
			p.DW[i] = 0 // reset gradients for next iteration
		}
	}
	if numTot > 0 {
		solverStats["ratio_clipped"] = numClipped / numTot
	}
	return solverStats
}
