package model

// Outcome is the classifier's verdict for one signal.
type Outcome struct {
	Result    Result
	HitLevels []int
	// Profit is nil for PENDING and FALSE: "not computed" is distinct
	// from "zero profit".
	Profit *float64
	// Coarse marks a one-shot classification from a single current price.
	// Temporal precedence cannot be established from one sample, so the
	// verdict carries lower confidence.
	Coarse bool
}

// Decisive reports whether the outcome terminates the signal.
func (o Outcome) Decisive() bool { return o.Result.Terminal() }
