// Package loans provides common loan processing utilities.
package loans

import (
	"fmt"
	"math"

	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/mathutil"
	"go.uber.org/zap"
)

// Payment holds the values for a given payment.
type Payment struct {
	Period             int
	Payment            float64
	Principal          float64
	Interest           float64
	RemainingPrincipal float64
}

// LoanTerms describes an amortizing loan with monthly payments.
type LoanTerms struct {
	Name         string
	Principal    float64
	DownPayment  float64
	InterestRate float64 // annual percent
	Term         int     // months

	// ExtraPrincipal maps a payment period (1-based) to an extra principal amount.
	ExtraPrincipal map[int]float64
}

// Financed returns the amount actually borrowed.
func (l LoanTerms) Financed() float64 {
	return l.Principal - l.DownPayment
}

// Schedule is a generated amortization schedule.
type Schedule struct {
	MonthlyPayment float64
	Financed       float64
	Payments       []Payment
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the standard amortization formula.
// A zero rate repays the financed amount in equal parts; the calculators reject zero rates before
// reaching here, so only direct callers of this package see that case.
func CalculateMonthlyPayment(principal, downPayment, annualInterestRate float64, termMonths int) float64 {
	if annualInterestRate == 0 {
		return (principal - downPayment) / float64(termMonths)
	}

	periodicInterestRate := annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
	power := math.Pow((1.00 + periodicInterestRate), float64(termMonths))
	discountFactor := (power - 1.00) / power
	return (principal - downPayment) * periodicInterestRate / discountFactor
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// CalculateFlatRatePayment returns the monthly installment of a flat-rate loan, where interest is
// charged on the full principal for the whole tenure.
func CalculateFlatRatePayment(principal, annualFlatRate float64, termMonths int) float64 {
	years := float64(termMonths) / constants.MonthsPerYear
	interest := principal * annualFlatRate * years / constants.PercentageMultiplier
	return (principal + interest) / float64(termMonths)
}

// FlatRateBalances returns the outstanding principal of a flat-rate loan for periods 0..termMonths.
// Principal is repaid in equal parts.
func FlatRateBalances(principal float64, termMonths int) []float64 {
	if termMonths <= 0 {
		return nil
	}
	step := principal / float64(termMonths)
	balances := make([]float64, termMonths+1)
	balance := principal
	for i := range balances {
		balances[i] = balance
		balance -= step
	}
	return balances
}

// CapExtraPrincipal limits an extra principal payment to the remaining balance after the regular
// principal portion, so a prepayment never overpays the loan.
func CapExtraPrincipal(logger *zap.Logger, loanName string, period int, extra, balance float64) float64 {
	if logger == nil {
		logger = zap.NewNop()
	}
	if balance < 0 {
		balance = 0
	}
	if extra > balance {
		logger.Debug("capping extra principal payment to prevent overpayment",
			zap.String("op", "loans.CapExtraPrincipal"),
			zap.String("loan", loanName),
			zap.Int("period", period),
			zap.Float64("requested", extra),
			zap.Float64("capped_to_balance", balance))
		return balance
	}
	return extra
}

// TotalPayment is the sum of every payment in the schedule.
func (s *Schedule) TotalPayment() float64 {
	total := 0.0
	for _, p := range s.Payments {
		total += p.Payment
	}
	return total
}

// TotalInterest is the sum of the interest portions in the schedule.
func (s *Schedule) TotalInterest() float64 {
	total := 0.0
	for _, p := range s.Payments {
		total += p.Interest
	}
	return total
}

// Balances returns the outstanding balance before each period's payment, starting with the
// financed amount at period 0 and ending with the balance after the final payment.
func (s *Schedule) Balances() []float64 {
	balances := make([]float64, 0, len(s.Payments)+1)
	balances = append(balances, s.Financed)
	for _, p := range s.Payments {
		balances = append(balances, p.RemainingPrincipal)
	}
	return balances
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// GenerateSchedule creates a complete amortization schedule for a loan. The schedule ends early
// when extra principal payments retire the loan before its term.
func (g *AmortizationScheduleGenerator) GenerateSchedule(loan LoanTerms) (*Schedule, error) {
	if loan.Term <= 0 {
		return nil, fmt.Errorf("loan %s: term must be positive, got %d months", loan.Name, loan.Term)
	}
	if loan.Financed() <= 0 {
		return nil, fmt.Errorf("loan %s: financed amount must be positive, got %.2f", loan.Name, loan.Financed())
	}

	monthlyPayment := CalculateMonthlyPayment(loan.Principal, loan.DownPayment, loan.InterestRate, loan.Term)
	schedule := &Schedule{
		MonthlyPayment: monthlyPayment,
		Financed:       loan.Financed(),
		Payments:       make([]Payment, 0, loan.Term),
	}

	balance := loan.Financed()
	for period := 1; period <= loan.Term; period++ {
		var current Payment
		current.Period = period
		current.Interest = CalculateInterestPayment(balance, loan.InterestRate)
		current.Principal = monthlyPayment - current.Interest

		if extra, ok := loan.ExtraPrincipal[period]; ok && extra > 0 {
			extra = CapExtraPrincipal(g.logger, loan.Name, period, extra, balance-current.Principal)
			g.logger.Debug(fmt.Sprintf("period %d: applying extra principal payment %.2f for loan %s",
				period, extra, loan.Name),
				zap.String("op", "loans.GenerateSchedule"),
			)
			current.Principal += extra
		}
		if current.Principal > balance {
			current.Principal = balance
		}
		current.Payment = current.Principal + current.Interest

		if period == loan.Term || mathutil.IsZero(balance-current.Principal) {
			// We will get machine error otherwise so just set to 0.
			current.RemainingPrincipal = 0.00
		} else {
			current.RemainingPrincipal = balance - current.Principal
		}
		schedule.Payments = append(schedule.Payments, current)

		if current.RemainingPrincipal == 0 {
			if period < loan.Term {
				g.logger.Debug(fmt.Sprintf("loan %s retired early at period %d of %d", loan.Name, period, loan.Term),
					zap.String("op", "loans.GenerateSchedule"),
				)
			}
			break
		}
		balance = current.RemainingPrincipal
	}

	return schedule, nil
}
