package stake

import "math"

// Epsilon is the float64 machine epsilon (2^-52).
var Epsilon = math.Nextafter(1, 2) - 1

// maxIterations caps the bisection loop. Halving any finite float64 bracket
// reaches the precision floor well before this.
const maxIterations = 2100

// Outcome identifies which terminal state ended a search.
type Outcome int

const (
	// AtLeft means the slope was non-positive at the left edge of the bracket.
	AtLeft Outcome = iota
	// AtRight means the slope was non-negative at the right edge of the bracket.
	AtRight
	// Converged means the bracket shrank to the precision floor.
	Converged
)

func (o Outcome) String() string {
	switch o {
	case AtLeft:
		return "left"
	case AtRight:
		return "right"
	case Converged:
		return "converged"
	default:
		return "unknown"
	}
}

// Result describes a finished search.
type Result struct {
	Stake   float64
	Outcome Outcome
	Steps   int // midpoint bisections performed
}

// Search returns the stake in [l, r] where Slope changes sign, assuming the
// slope is non-increasing across the bracket.
func Search(l, r, b, k, p float64) float64 {
	return Trace(l, r, b, k, p).Stake
}

// Trace runs the same search as Search and reports how it ended.
func Trace(l, r, b, k, p float64) Result {
	steps := 0
	for {
		if Slope(b, p, k, l) <= 0 {
			return Result{Stake: l, Outcome: AtLeft, Steps: steps}
		}
		if Slope(b, p, k, r) >= 0 {
			return Result{Stake: r, Outcome: AtRight, Steps: steps}
		}

		m := (l + r) * 0.5
		if r/l <= 1+Epsilon || r-l <= 2*Epsilon || steps >= maxIterations {
			return Result{Stake: m, Outcome: Converged, Steps: steps}
		}

		// A zero slope at the midpoint keeps the right half.
		if Slope(b, p, k, m) < 0 {
			r = m
		} else {
			l = m
		}
		steps++
	}
}

// Optimal returns the growth-maximizing stake for success probability p,
// payout ratio k and stake bound b, searching the interval [0, b].
func Optimal(p, k, b float64) float64 {
	return Search(0, b, b, k, p)
}
