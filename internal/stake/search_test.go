package stake

import (
	"math"
	"testing"
)

func TestSlopeExampleSigns(t *testing.T) {
	if s := Slope(1, 0.75, 1, 0); s <= 0 {
		t.Fatalf("expected positive slope at 0 with an edge, got %v", s)
	}
	if s := Slope(1, 0.75, 1, 1); s >= 0 {
		t.Fatalf("expected negative slope at b, got %v", s)
	}
}

func TestSlopeKnownValues(t *testing.T) {
	// p=0.75, k=1, b=1 reduces to 0.5 - 2x + 0.5x².
	for _, x := range []float64{0, 0.25, 0.5, 1} {
		want := 0.5 - 2*x + 0.5*x*x
		if got := Slope(1, 0.75, 1, x); math.Abs(got-want) > 1e-14 {
			t.Fatalf("slope(%v): want %v got %v", x, want, got)
		}
	}
}

func TestSlopeZeroEdgeDropsCubicTerm(t *testing.T) {
	// h = k - p - pk vanishes at p = k/(1+k); the first product drops out.
	cases := []struct{ p, k, b float64 }{
		{0.5, 1, 1},
		{0.75, 3, 1},
		{0.5, 1, 4},
	}
	for _, c := range cases {
		for i := 0; i <= 10; i++ {
			x := c.b * float64(i) / 10
			want := ((c.k-1)*c.b - 2*c.k*x) * c.b
			if got := Slope(c.b, c.p, c.k, x); math.Abs(got-want) > 1e-12*math.Max(1, math.Abs(want)) {
				t.Fatalf("p=%v k=%v b=%v x=%v: want %v got %v", c.p, c.k, c.b, x, want, got)
			}
		}
	}
}

func TestOptimalInteriorExample(t *testing.T) {
	res := Trace(0, 1, 1, 1, 0.75)
	if res.Steps == 0 {
		t.Fatalf("expected bisection steps, got %+v", res)
	}
	if res.Stake <= 0 || res.Stake >= 1 {
		t.Fatalf("expected interior stake, got %v", res.Stake)
	}
	want := 2 - math.Sqrt(3)
	if math.Abs(res.Stake-want) > 1e-12 {
		t.Fatalf("expected stake near %v, got %v", want, res.Stake)
	}
	if got := Optimal(0.75, 1, 1); got != res.Stake {
		t.Fatalf("Optimal disagrees with Trace: %v vs %v", got, res.Stake)
	}
}

func TestOptimalNoEdgeIsZero(t *testing.T) {
	res := Trace(0, 1, 1, 1, 0.5)
	if res.Stake != 0 || res.Outcome != AtLeft || res.Steps != 0 {
		t.Fatalf("expected left shortcut with stake 0, got %+v", res)
	}
}

func TestLeftShortcut(t *testing.T) {
	// slope at 0 is b²(p(1+k) - 1), non-positive when p <= 1/(1+k).
	cases := []struct{ p, k, b float64 }{
		{0.5, 1, 1},
		{0.3, 2, 1},
		{0.1, 0.5, 10},
		{0.25, 3, 0.5},
	}
	for _, c := range cases {
		if Slope(c.b, c.p, c.k, 0) > 0 {
			t.Fatalf("case %+v: expected non-positive slope at 0", c)
		}
		if got := Search(0, c.b, c.b, c.k, c.p); got != 0 {
			t.Fatalf("case %+v: expected 0, got %v", c, got)
		}
	}
}

func TestRightShortcut(t *testing.T) {
	cases := []struct{ p, k, b float64 }{
		{1, 2, 1},
		{1.2, 1, 1},
		{1.5, 0.5, 3},
	}
	for _, c := range cases {
		if Slope(c.b, c.p, c.k, c.b) < 0 {
			t.Fatalf("case %+v: expected non-negative slope at b", c)
		}
		res := Trace(0, c.b, c.b, c.k, c.p)
		if res.Stake != c.b || res.Outcome != AtRight {
			t.Fatalf("case %+v: expected right shortcut at b, got %+v", c, res)
		}
	}
}

func TestSearchStaysInBracketAndConverges(t *testing.T) {
	for _, b := range []float64{1e-6, 0.01, 1, 7, 1e6} {
		for _, k := range []float64{0.25, 0.5, 1, 2, 5} {
			for p := 0.05; p < 1; p += 0.05 {
				res := Trace(0, b, b, k, p)
				if res.Stake < 0 || res.Stake > b {
					t.Fatalf("p=%v k=%v b=%v: stake %v outside [0,b]", p, k, b, res.Stake)
				}
				if res.Steps > 64 {
					t.Fatalf("p=%v k=%v b=%v: %d bisection steps", p, k, b, res.Steps)
				}
			}
		}
	}
}

func TestInteriorStakeNearSignChange(t *testing.T) {
	cases := []struct{ p, k, b float64 }{
		{0.75, 1, 1},
		{0.6, 1.5, 1},
		{0.55, 1, 100},
		{0.4, 2, 0.3},
	}
	for _, c := range cases {
		res := Trace(0, c.b, c.b, c.k, c.p)
		if res.Stake <= 0 || res.Stake >= c.b {
			t.Fatalf("case %+v: expected interior optimum, got %+v", c, res)
		}
		// Rounding near the root can end the search on a re-checked edge
		// rather than the guard, but never far from the crossing.
		width := math.Max(2*Epsilon, res.Stake*2*Epsilon)
		lo := math.Max(0, res.Stake-4*width)
		hi := math.Min(c.b, res.Stake+4*width)
		if Slope(c.b, c.p, c.k, lo) < 0 || Slope(c.b, c.p, c.k, hi) > 0 {
			t.Fatalf("case %+v: stake %v not within guard width of the root", c, res.Stake)
		}
	}
}

func TestMidpointZeroGoesRight(t *testing.T) {
	// p=0.75, k=3, b=1: h=0 and slope = 2 - 6x, which is exactly zero at x=1/3.
	// Bracket [0, 2/3] has midpoint 1/3 in float64, so the first halving keeps
	// the right half.
	l, r := 0.0, 2.0/3
	m := (l + r) * 0.5
	if Slope(1, 0.75, 3, m) != 0 {
		t.Skipf("midpoint slope not exactly zero: %v", Slope(1, 0.75, 3, m))
	}
	// Going right makes m the new left edge, where the zero slope stops the
	// search. Going left would have ended on the right edge instead.
	res := Trace(l, r, 1, 3, 0.75)
	if res.Stake != m || res.Outcome != AtLeft || res.Steps != 1 {
		t.Fatalf("expected one step right then a stop at %v, got %+v", m, res)
	}
}

func TestPrecisionGuardOnNarrowBracket(t *testing.T) {
	l := 2 - math.Sqrt(3)
	r := math.Nextafter(l, 1)
	res := Trace(l, r, 1, 1, 0.75)
	if res.Outcome == Converged && res.Steps != 0 {
		t.Fatalf("expected guard to fire immediately, took %d steps", res.Steps)
	}
	if res.Stake < l || res.Stake > r {
		t.Fatalf("stake %v outside [%v,%v]", res.Stake, l, r)
	}
}

func TestSearchTerminatesOnNaN(t *testing.T) {
	res := Trace(0, 1, 1, 1, math.NaN())
	if res.Steps > maxIterations {
		t.Fatalf("expected at most %d steps, got %d", maxIterations, res.Steps)
	}
}

func TestOutcomeString(t *testing.T) {
	if AtLeft.String() != "left" || AtRight.String() != "right" || Converged.String() != "converged" {
		t.Fatal("unexpected outcome names")
	}
	if Outcome(42).String() != "unknown" {
		t.Fatal("expected unknown for out-of-range outcome")
	}
}
