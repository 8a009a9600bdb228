package core

import (
	"fmt"
	"math"
	"time"
)

// KPIBundle is the set of metrics derived for one period. It is recomputed on
// every request and never persisted.
type KPIBundle struct {
	Period             Period
	PeriodTransactions []Transaction

	TotalIncome  Money
	TotalExpense Money
	NetSavings   Money

	PriorPeriod         Period
	PriorNetSavings     Money
	SavingsVariationPct float64
	BudgetUsedPct       float64
	GoalProgressPct     float64
	Anomalies           []Transaction
	AnomalyCount        int

	// IsCurrentPeriod reports whether Period is the month of the supplied now.
	// ProjectedSavings is zero whenever it is false.
	IsCurrentPeriod  bool
	ProjectedSavings Money
	// OnTrackForGoal reports whether the projection reaches the savings goal.
	OnTrackForGoal bool
}

// ComputeKPIs derives the KPI bundle for (year, month) from the full ledger.
//
// now is the caller's notion of today; it only decides whether a projection
// is made. Budget and savings goal values <= 0 mean "no ceiling" and "no goal".
// An empty ledger or an empty month yields a zero bundle, not an error.
// A month outside 1-12 or a transaction with a non-positive amount fails with
// an error wrapping ErrInvalidArgument.
func ComputeKPIs(all []Transaction, budget, savingsGoal Money, year, month int, now time.Time) (KPIBundle, error) {
	period, err := NewPeriod(year, month)
	if err != nil {
		return KPIBundle{}, err
	}
	for _, t := range all {
		if err := t.Amount.Validate(); err != nil {
			return KPIBundle{}, fmt.Errorf("transaction %d: %w", t.ID, err)
		}
	}

	current := FilterPeriod(all, period)
	prior := period.Prev()

	income, expense := Totals(current)
	net := income.Sub(expense)
	priorIncome, priorExpense := Totals(FilterPeriod(all, prior))
	priorNet := priorIncome.Sub(priorExpense)

	anomalies := DetectAnomalies(current)

	b := KPIBundle{
		Period:              period,
		PeriodTransactions:  current,
		TotalIncome:         income,
		TotalExpense:        expense,
		NetSavings:          net,
		PriorPeriod:         prior,
		PriorNetSavings:     priorNet,
		SavingsVariationPct: SavingsVariation(net, priorNet),
		BudgetUsedPct:       percentOf(expense, budget),
		GoalProgressPct:     percentOf(net, savingsGoal),
		Anomalies:           anomalies,
		AnomalyCount:        len(anomalies),
	}

	if PeriodOf(now) == period {
		b.IsCurrentPeriod = true
		b.ProjectedSavings = ProjectSavings(net, now.Day(), period.DaysInMonth())
		b.OnTrackForGoal = b.ProjectedSavings.Cents >= savingsGoal.Cents
	}
	return b, nil
}

// Totals sums income and expense amounts separately.
func Totals(txs []Transaction) (income, expense Money) {
	for _, t := range txs {
		switch t.Kind {
		case Income:
			income.Cents += t.Amount.Cents
		case Expense:
			expense.Cents += t.Amount.Cents
		}
	}
	return income, expense
}

// TotalBalance is lifetime income minus lifetime expense.
func TotalBalance(all []Transaction) Money {
	income, expense := Totals(all)
	return income.Sub(expense)
}

// SavingsVariation is the percentage change of net savings against the prior
// period. With zero prior savings it is 100 when current savings are positive
// and 0 otherwise.
func SavingsVariation(current, prior Money) float64 {
	if prior.Cents != 0 {
		return float64(current.Cents-prior.Cents) / math.Abs(float64(prior.Cents)) * 100
	}
	if current.Cents > 0 {
		return 100.0
	}
	return 0.0
}

// ProjectSavings extrapolates net savings linearly to the end of the month.
func ProjectSavings(net Money, daysElapsed, daysInMonth int) Money {
	if daysElapsed <= 0 {
		return Money{}
	}
	return Money{Cents: int64(math.Round(float64(net.Cents) / float64(daysElapsed) * float64(daysInMonth)))}
}

func percentOf(part, whole Money) float64 {
	if whole.Cents <= 0 {
		return 0
	}
	return float64(part.Cents) / float64(whole.Cents) * 100
}
