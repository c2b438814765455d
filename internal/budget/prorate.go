package budget

import (
	"math/big"
	"time"
)

// Lookup indexes monthly budgets by year-month key.
type Lookup map[string]MonthlyBudget

// NewLookup builds a lookup from a budget listing. Later entries replace
// earlier ones with the same key.
func NewLookup(budgets []MonthlyBudget) Lookup {
	l := make(Lookup, len(budgets))
	for _, b := range budgets {
		l[b.YearMonth] = b
	}
	return l
}

// Amount returns the budget for key, or 0 when the month has no entry.
func (l Lookup) Amount(key string) int64 {
	if b, ok := l[key]; ok {
		return b.Amount
	}
	return 0
}

// Contribution is the prorated share of one month's budget.
type Contribution struct {
	Segment
	Budget      int64
	DaysInMonth int
	Amount      *big.Rat
}

// Prorate returns the per-month contributions for the inclusive range
// [start, end]. An inverted range yields no contributions.
func Prorate(start, end time.Time, lookup Lookup) []Contribution {
	segs := Split(start, end)
	out := make([]Contribution, 0, len(segs))
	for _, s := range segs {
		budget := lookup.Amount(s.YearMonth)
		dim := DaysIn(s.Year, s.Month)

		num := new(big.Int).Mul(big.NewInt(budget), big.NewInt(int64(s.Days)))
		amount := new(big.Rat).SetFrac(num, big.NewInt(int64(dim)))

		out = append(out, Contribution{
			Segment:     s,
			Budget:      budget,
			DaysInMonth: dim,
			Amount:      amount,
		})
	}
	return out
}

// Total sums the amounts of a breakdown.
func Total(contribs []Contribution) *big.Rat {
	total := new(big.Rat)
	for _, c := range contribs {
		total.Add(total, c.Amount)
	}
	return total
}

// Query returns the prorated budget total for the inclusive range
// [start, end]. The result is exact; an inverted range returns 0.
func Query(start, end time.Time, budgets []MonthlyBudget) *big.Rat {
	if Day(end).Before(Day(start)) {
		return new(big.Rat)
	}
	return Total(Prorate(start, end, NewLookup(budgets)))
}
