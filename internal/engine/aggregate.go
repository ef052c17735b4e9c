package engine

import (
	"sort"
	"time"

	"finanmaster/internal/core"
)

// Totals holds the headline figures for one window.
type Totals struct {
	IncomeCents  int64
	ExpenseCents int64
	BalanceCents int64
}

// CategoryTotal is an amount aggregated by category name. Slices of it keep
// first-encounter order so ranking ties stay deterministic.
type CategoryTotal struct {
	Category   string
	TotalCents int64
}

// MonthBucket is one chart point: income, expense and balance for a single
// calendar month.
type MonthBucket struct {
	Label        string
	Year         int
	Month        time.Month
	IncomeCents  int64
	ExpenseCents int64
	BalanceCents int64
}

// SumByKind sums transaction amounts of the given kind. An empty slice sums
// to zero.
func SumByKind(txs []core.Transaction, kind core.TransactionKind) int64 {
	var total int64
	for _, t := range txs {
		if t.Kind == kind {
			total += t.Amount.Cents
		}
	}
	return total
}

// TotalsOf computes income, expense and balance over a transaction set.
func TotalsOf(txs []core.Transaction) Totals {
	income := SumByKind(txs, core.Income)
	expense := SumByKind(txs, core.Expense)
	return Totals{IncomeCents: income, ExpenseCents: expense, BalanceCents: income - expense}
}

// GroupByCategory totals amounts of the given kind per category. Only
// categories with at least one matching transaction appear, in the order
// they were first seen.
func GroupByCategory(txs []core.Transaction, kind core.TransactionKind) []CategoryTotal {
	index := make(map[string]int)
	var out []CategoryTotal
	for _, t := range txs {
		if t.Kind != kind {
			continue
		}
		if i, ok := index[t.Category]; ok {
			out[i].TotalCents += t.Amount.Cents
			continue
		}
		index[t.Category] = len(out)
		out = append(out, CategoryTotal{Category: t.Category, TotalCents: t.Amount.Cents})
	}
	return out
}

// FilterRange returns the transactions falling inside the window.
func FilterRange(txs []core.Transaction, r DateRange) []core.Transaction {
	var out []core.Transaction
	for _, t := range txs {
		if r.Contains(t.Date.Time) {
			out = append(out, t)
		}
	}
	return out
}

// filterMonth keeps transactions dated in the referenced calendar month.
func filterMonth(txs []core.Transaction, ref MonthRef) []core.Transaction {
	var out []core.Transaction
	for _, t := range txs {
		if t.Date.Year() == ref.Year && t.Date.Month() == ref.Month {
			out = append(out, t)
		}
	}
	return out
}

// MonthlyBuckets computes one bucket per referenced month, each by
// re-filtering the full transaction set independently. Bucket order follows
// the months slice, which callers build chronologically.
func MonthlyBuckets(txs []core.Transaction, months []MonthRef) []MonthBucket {
	buckets := make([]MonthBucket, len(months))
	for i, ref := range months {
		t := TotalsOf(filterMonth(txs, ref))
		buckets[i] = MonthBucket{
			Label:        ref.Label(),
			Year:         ref.Year,
			Month:        ref.Month,
			IncomeCents:  t.IncomeCents,
			ExpenseCents: t.ExpenseCents,
			BalanceCents: t.BalanceCents,
		}
	}
	return buckets
}

// RankCategories sorts totals descending by value without mutating the
// input. Equal totals keep their first-encounter order.
func RankCategories(cats []CategoryTotal) []CategoryTotal {
	ranked := make([]CategoryTotal, len(cats))
	copy(ranked, cats)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalCents > ranked[j].TotalCents
	})
	return ranked
}

// LargestCategory returns the category with the highest total. Ties resolve
// to the first encountered.
func LargestCategory(cats []CategoryTotal) (CategoryTotal, bool) {
	if len(cats) == 0 {
		return CategoryTotal{}, false
	}
	best := cats[0]
	for _, c := range cats[1:] {
		if c.TotalCents > best.TotalCents {
			best = c
		}
	}
	return best, true
}

// SmallestCategory returns the category with the lowest total. Ties resolve
// to the first encountered.
func SmallestCategory(cats []CategoryTotal) (CategoryTotal, bool) {
	if len(cats) == 0 {
		return CategoryTotal{}, false
	}
	best := cats[0]
	for _, c := range cats[1:] {
		if c.TotalCents < best.TotalCents {
			best = c
		}
	}
	return best, true
}

// SumCategories adds up a category total slice.
func SumCategories(cats []CategoryTotal) int64 {
	var total int64
	for _, c := range cats {
		total += c.TotalCents
	}
	return total
}
