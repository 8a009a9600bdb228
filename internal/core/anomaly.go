package core

import "math"

const (
	// AnomalyMinSample is the number of expenses below which no statistics are computed.
	AnomalyMinSample = 5
	// AnomalyThreshold is the number of standard deviations above the
	// category mean an expense must exceed to be flagged.
	AnomalyThreshold = 1.5
)

type categoryStats struct {
	Count  int
	Mean   float64 // cents
	StdDev float64 // sample standard deviation, cents
}

// DetectAnomalies flags expenses that are unusually high for their category.
//
// Income transactions in txs are ignored. When fewer than AnomalyMinSample
// expenses remain the result is empty. A transaction is anomalous when its
// category has a positive sample standard deviation and its amount is greater
// than mean + AnomalyThreshold*stddev. The result keeps input order, which
// callers must not rely on.
func DetectAnomalies(txs []Transaction) []Transaction {
	expenses := filterKind(txs, Expense)
	if len(expenses) < AnomalyMinSample {
		return []Transaction{}
	}
	stats := statsByCategory(expenses)
	return filter(expenses, func(t Transaction) bool {
		s := stats[t.Category]
		return s.StdDev > 0 && float64(t.Amount.Cents) > s.Mean+AnomalyThreshold*s.StdDev
	})
}

func groupByCategory(txs []Transaction) map[string][]float64 {
	groups := make(map[string][]float64)
	for _, t := range txs {
		groups[t.Category] = append(groups[t.Category], float64(t.Amount.Cents))
	}
	return groups
}

func statsByCategory(txs []Transaction) map[string]categoryStats {
	groups := groupByCategory(txs)
	stats := make(map[string]categoryStats, len(groups))
	for cat, amounts := range groups {
		mean := meanOf(amounts)
		stats[cat] = categoryStats{
			Count:  len(amounts),
			Mean:   mean,
			StdDev: sampleStdDev(amounts, mean),
		}
	}
	return stats
}

func meanOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleStdDev uses the n-1 denominator; fewer than two values have no variance.
func sampleStdDev(xs []float64, mean float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var sq float64
	for _, x := range xs {
		d := x - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(xs)-1))
}
