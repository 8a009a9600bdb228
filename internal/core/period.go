package core

import (
	"fmt"
	"time"
)

// Period is a single calendar month.
type Period struct {
	Year  int
	Month int // 1-12
}

// NewPeriod returns the period for year and month, rejecting months outside 1-12.
func NewPeriod(year, month int) (Period, error) {
	p := Period{Year: year, Month: month}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return fmt.Errorf("%w: got %d", ErrInvalidMonth, p.Month)
	}
	return nil
}

// FirstDay returns midnight UTC of the first day of the month.
func (p Period) FirstDay() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// Prev is the month containing the day before FirstDay, so January rolls
// back to December of the previous year.
func (p Period) Prev() Period {
	return PeriodOf(p.FirstDay().AddDate(0, 0, -1))
}

func (p Period) Next() Period {
	return PeriodOf(p.FirstDay().AddDate(0, 1, 0))
}

// DaysInMonth returns 28-31, leap-year aware.
func (p Period) DaysInMonth() int {
	return p.FirstDay().AddDate(0, 1, -1).Day()
}

func (p Period) Contains(d Date) bool {
	return d.Year() == p.Year && d.Month() == p.Month
}

// String formats the period as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// FilterPeriod returns the transactions dated inside p, preserving input order.
func FilterPeriod(txs []Transaction, p Period) []Transaction {
	return filter(txs, func(t Transaction) bool { return p.Contains(t.Date) })
}

func filterKind(txs []Transaction, k Kind) []Transaction {
	return filter(txs, func(t Transaction) bool { return t.Kind == k })
}

func filter(txs []Transaction, keep func(Transaction) bool) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
