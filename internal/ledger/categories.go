package ledger

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"finanzas/internal/core"
)

var (
	DefaultExpenseCategories = []string{"Food", "Transport", "Housing", "Health", "Education", "Entertainment", "Other"}
	DefaultIncomeCategories  = []string{"Salary", "Freelance", "Investments", "Other"}
)

// Categories maps each kind to the categories offered for it.
type Categories map[core.Kind][]string

// DefaultCategories returns a fresh copy of the built-in category lists.
func DefaultCategories() Categories {
	return Categories{
		core.Expense: append([]string(nil), DefaultExpenseCategories...),
		core.Income:  append([]string(nil), DefaultIncomeCategories...),
	}
}

// LoadCategories reads seed_expense_categories.txt and seed_income_categories.txt
// from base. A missing or empty file falls back to the defaults for that kind.
func LoadCategories(base string) Categories {
	c := DefaultCategories()
	if base == "" {
		return c
	}
	if lines := readLines(filepath.Join(base, "seed_expense_categories.txt")); len(lines) > 0 {
		c[core.Expense] = lines
	}
	if lines := readLines(filepath.Join(base, "seed_income_categories.txt")); len(lines) > 0 {
		c[core.Income] = lines
	}
	return c
}

// For returns a copy of the list for kind.
func (c Categories) For(kind core.Kind) []string {
	return append([]string(nil), c[kind]...)
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return dedupe(out)
}

// dedupe keeps the first occurrence of each value in input order.
func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
