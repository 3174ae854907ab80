package stake

// Slope returns the derivative of the expected-growth objective with respect
// to the stake x, for stake bound b, success probability p and payout ratio k.
//
// The objective is the product of a quadratic growth term and a linear term,
// so its derivative is quadratic in x. Inputs are not range-checked; values
// outside the model's domain still produce a finite result for finite inputs.
func Slope(b, p, k, x float64) float64 {
	h := k - p - p*k // edge direction
	m := b + h*x
	return -(b*b+(k-1)*b*x-k*x*x)*h + ((k-1)*b-2*k*x)*m
}
