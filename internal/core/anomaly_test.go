package core

import (
	"math"
	"testing"
)

func expense(id int64, category string, cents int64) Transaction {
	return Transaction{ID: id, Kind: Expense, Category: category, Amount: Money{Cents: cents}, Date: NewDate(2024, 1, 10)}
}

func income(id int64, cents int64) Transaction {
	return Transaction{ID: id, Kind: Income, Category: "Salary", Amount: Money{Cents: cents}, Date: NewDate(2024, 1, 5)}
}

func TestDetectAnomaliesBelowMinimumSample(t *testing.T) {
	txs := []Transaction{
		expense(1, "Food", 100),
		expense(2, "Food", 100),
		expense(3, "Food", 100),
		expense(4, "Food", 100000),
	}
	if got := DetectAnomalies(txs); len(got) != 0 {
		t.Fatalf("expected no anomalies with %d expenses, got %d", len(txs), len(got))
	}

	// Income rows do not count towards the sample size.
	txs = append(txs, income(5, 1), income(6, 1))
	if got := DetectAnomalies(txs); len(got) != 0 {
		t.Fatalf("expected no anomalies when only 4 expenses, got %d", len(got))
	}
}

func TestDetectAnomaliesFlagsOutlier(t *testing.T) {
	txs := []Transaction{
		income(1, 100000),
		expense(2, "Food", 20000),
		expense(3, "Food", 22000),
		expense(4, "Food", 21000),
		expense(5, "Food", 20500),
		expense(6, "Food", 90000),
	}
	got := DetectAnomalies(txs)
	if len(got) != 1 || got[0].ID != 6 {
		t.Fatalf("expected only the 900.00 expense, got %+v", got)
	}
}

func TestDetectAnomaliesConstantCategory(t *testing.T) {
	txs := []Transaction{
		expense(1, "Rent", 150000),
		expense(2, "Rent", 150000),
		expense(3, "Rent", 150000),
		expense(4, "Rent", 150000),
		expense(5, "Rent", 150000),
		expense(6, "Gift", 999999), // single member: no variance signal
	}
	if got := DetectAnomalies(txs); len(got) != 0 {
		t.Fatalf("expected zero anomalies for zero-variance categories, got %+v", got)
	}
}

func TestDetectAnomaliesPerCategory(t *testing.T) {
	// Rent is high but consistent; only the coffee outlier stands out.
	txs := []Transaction{
		expense(1, "Rent", 120000),
		expense(2, "Rent", 121000),
		expense(3, "Coffee", 300),
		expense(4, "Coffee", 320),
		expense(5, "Coffee", 310),
		expense(6, "Coffee", 290),
		expense(7, "Coffee", 305),
		expense(8, "Coffee", 2500),
	}
	got := DetectAnomalies(txs)
	if len(got) != 1 || got[0].ID != 8 {
		t.Fatalf("expected coffee outlier only, got %+v", got)
	}
}

func TestDetectAnomaliesEmptyInput(t *testing.T) {
	got := DetectAnomalies(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
}

func TestSampleStdDev(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	mean := meanOf(xs)
	if mean != 5 {
		t.Fatalf("mean = %v, want 5", mean)
	}
	// population stddev is 2; sample stddev is sqrt(32/7)
	want := math.Sqrt(32.0 / 7.0)
	if got := sampleStdDev(xs, mean); math.Abs(got-want) > 1e-12 {
		t.Fatalf("sampleStdDev = %v, want %v", got, want)
	}
	if got := sampleStdDev([]float64{42}, 42); got != 0 {
		t.Fatalf("single value stddev = %v, want 0", got)
	}
}
