package loans

import "github.com/iwvelando/finance-calculators/pkg/constants"

// Payoff summarizes repaying a revolving balance with a fixed monthly payment.
type Payoff struct {
	Months        int
	TotalInterest float64
	PaidOff       bool

	// Balances holds the balance at the start of each month, the opening balance first.
	// Balances are never negative; the final payment only covers what is owed.
	Balances []float64
}

// CalculatePayoff accrues monthly interest on balance and applies payment each month until the
// balance is cleared or maxMonths is reached.
func CalculatePayoff(balance, annualRate, payment float64, maxMonths int) Payoff {
	monthlyRate := annualRate / constants.MonthsPerYear / constants.PercentageMultiplier

	result := Payoff{Balances: []float64{balance}}
	remaining := balance
	for remaining > 0 && result.Months < maxMonths {
		interest := remaining * monthlyRate
		result.TotalInterest += interest
		remaining = remaining + interest - payment
		result.Months++
		if remaining < 0 {
			remaining = 0
		}
		result.Balances = append(result.Balances, remaining)
	}
	result.PaidOff = remaining <= 0
	return result
}
