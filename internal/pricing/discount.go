package pricing

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// Unbounded marks the open end of the last discount tier.
const Unbounded int64 = math.MaxInt64

// DiscountTier applies Rate to every rental day whose index lies in
// [FromDay, ToDay].
type DiscountTier struct {
	FromDay int64
	ToDay   int64
	Rate    decimal.Decimal
}

func (t DiscountTier) contains(day int64) bool {
	return day >= t.FromDay && day <= t.ToDay
}

// DiscountTable is an ordered list of disjoint day tiers.
type DiscountTable struct {
	tiers []DiscountTier
}

// DefaultDiscountTable returns the standard length-of-rental discounts.
func DefaultDiscountTable() DiscountTable {
	return DiscountTable{tiers: []DiscountTier{
		{FromDay: 0, ToDay: 1, Rate: decimal.Zero},
		{FromDay: 2, ToDay: 4, Rate: decimal.RequireFromString("0.1")},
		{FromDay: 5, ToDay: 10, Rate: decimal.RequireFromString("0.3")},
		{FromDay: 11, ToDay: Unbounded, Rate: decimal.RequireFromString("0.5")},
	}}
}

// NewDiscountTable sorts tiers by their first day and rejects empty,
// overlapping or out-of-range tiers.
func NewDiscountTable(tiers []DiscountTier) (DiscountTable, error) {
	sorted := make([]DiscountTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].FromDay < sorted[j].FromDay })

	for i, t := range sorted {
		if t.FromDay < 0 || t.ToDay < t.FromDay {
			return DiscountTable{}, fmt.Errorf("discount tier %d-%d: invalid day range", t.FromDay, t.ToDay)
		}
		if t.Rate.IsNegative() || t.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return DiscountTable{}, fmt.Errorf("discount tier %d-%d: rate %s out of [0,1]", t.FromDay, t.ToDay, t.Rate)
		}
		if i > 0 && t.FromDay <= sorted[i-1].ToDay {
			return DiscountTable{}, fmt.Errorf("discount tier %d-%d overlaps %d-%d", t.FromDay, t.ToDay, sorted[i-1].FromDay, sorted[i-1].ToDay)
		}
	}
	return DiscountTable{tiers: sorted}, nil
}

// Tiers returns a copy of the table rows.
func (d DiscountTable) Tiers() []DiscountTier {
	out := make([]DiscountTier, len(d.tiers))
	copy(out, d.tiers)
	return out
}

// RateForDay returns the rate of the tier containing day, or zero.
func (d DiscountTable) RateForDay(day int64) decimal.Decimal {
	for _, t := range d.tiers {
		if t.contains(day) {
			return t.Rate
		}
	}
	return decimal.Zero
}

// TotalDiscount sums pricePerDay × rate for each day 1..days and truncates
// the sum once, toward zero. Each day is discounted at its own tier's
// rate; the top tier never applies to the whole stay.
func (d DiscountTable) TotalDiscount(pricePerDay, days int64) int64 {
	price := decimal.NewFromInt(pricePerDay)
	total := decimal.Zero
	for day := int64(1); day <= days; day++ {
		total = total.Add(price.Mul(d.RateForDay(day)))
	}
	return total.IntPart()
}
