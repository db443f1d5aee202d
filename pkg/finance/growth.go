package finance

// Accumulator tracks a balance that receives a contribution at the start of
// each period and then grows at a fixed periodic rate.
type Accumulator struct {
	Rate        float64
	Balance     float64
	Contributed float64
}

// Step captures the deltas for a single period.
type Step struct {
	Contribution float64
	Growth       float64
	Balance      float64
}

// NewAccumulator starts an accumulator from an opening balance. The opening
// balance does not count as contributed.
func NewAccumulator(periodicRate, opening float64) *Accumulator {
	return &Accumulator{Rate: periodicRate, Balance: opening}
}

// Add applies one period: balance = (balance + contribution) * (1 + rate).
func (a *Accumulator) Add(contribution float64) Step {
	a.Balance += contribution
	a.Contributed += contribution
	growth := a.Balance * a.Rate
	a.Balance += growth
	return Step{Contribution: contribution, Growth: growth, Balance: a.Balance}
}

// Returns is the balance in excess of what was contributed.
func (a *Accumulator) Returns() float64 {
	return a.Balance - a.Contributed
}
