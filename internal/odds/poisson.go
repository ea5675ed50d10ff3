package odds

import "math"

// Lambda bounds. Expected-goals rates outside this range are garbage input
// (a combined rate above 12 goals per match does not occur in practice).
const (
	minLambda = 0.01
	maxLambda = 12.0
)

// clampLambda forces the rate into a sane positive range before use.
func clampLambda(lambda float64) float64 {
	if math.IsNaN(lambda) || lambda < minLambda {
		return minLambda
	}
	if lambda > maxLambda {
		return maxLambda
	}
	return lambda
}

// pmf returns the Poisson probability mass e^-lambda * lambda^k / k!.
// Computed iteratively; no explicit factorial, no recursion, so adversarial
// k cannot blow the stack or overflow an intermediate.
func pmf(lambda float64, k int) float64 {
	p := math.Exp(-lambda)
	for i := 1; i <= k; i++ {
		p *= lambda / float64(i)
	}
	return p
}

// ProbabilityOverLine returns P(X > line) for X ~ Poisson(lambda), i.e.
// the probability that the goal (or corner) count clears a bookmaker line
// such as 2.5. Lines below zero trivially give probability 1.
func ProbabilityOverLine(lambda, line float64) float64 {
	lambda = clampLambda(lambda)

	// P(X > 2.5) = 1 - P(X <= 2) = 1 - sum of pmf(0..2).
	cutoff := int(math.Floor(line + 0.5))
	sum := 0.0
	for k := 0; k < cutoff; k++ {
		sum += pmf(lambda, k)
	}

	p := 1 - sum
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
