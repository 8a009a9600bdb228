package core

import "sort"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// ExpensesByCategory sums expense amounts per category, largest first and
// ties broken by name. Income is ignored.
func ExpensesByCategory(txs []Transaction) []CategoryAmount {
	sums := make(map[string]int64)
	for _, t := range filterKind(txs, Expense) {
		sums[t.Category] += t.Amount.Cents
	}
	out := make([]CategoryAmount, 0, len(sums))
	for name, cents := range sums {
		out = append(out, CategoryAmount{Name: name, Amount: Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}
