package engine

import "math"

// Trends carries the dashboard's period-over-period figures. A nil field
// means "no trend" (previous period empty, or income zero) and must never be
// read as 0%.
type Trends struct {
	Balance     *float64
	Income      *float64
	Expense     *float64
	SavingsRate *float64
}

// PercentChange returns the percentage change from previous to current,
// rounded to one decimal. Nil when previous is zero: there is no meaningful
// trend against an empty baseline.
func PercentChange(current, previous int64) *float64 {
	if previous == 0 {
		return nil
	}
	v := round1((float64(current-previous) / float64(previous)) * 100)
	return &v
}

// SavingsRate returns balance as a percentage of income, rounded to one
// decimal. Nil when income is not positive.
func SavingsRate(balanceCents, incomeCents int64) *float64 {
	if incomeCents <= 0 {
		return nil
	}
	v := round1((float64(balanceCents) / float64(incomeCents)) * 100)
	return &v
}

// Ratio returns part as a percentage of whole, rounded to one decimal. Nil
// when whole is not positive. Used for budget progress and category shares.
func Ratio(partCents, wholeCents int64) *float64 {
	if wholeCents <= 0 {
		return nil
	}
	v := round1((float64(partCents) / float64(wholeCents)) * 100)
	return &v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
