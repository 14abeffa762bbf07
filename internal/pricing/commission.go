package pricing

import (
	"github.com/shopspring/decimal"

	"fleet-rental-pricing/internal/domain"
)

// CommissionSplitter decomposes the commission taken on a discounted price.
type CommissionSplitter struct {
	Rate                decimal.Decimal
	InsuranceShare      decimal.Decimal
	AssistanceFeePerDay int64
}

func DefaultCommissionSplitter() CommissionSplitter {
	return CommissionSplitter{
		Rate:                decimal.RequireFromString("0.3"),
		InsuranceShare:      decimal.RequireFromString("0.5"),
		AssistanceFeePerDay: 100,
	}
}

// Split computes the commission breakdown. The platform fee is whatever is
// left after insurance and assistance and goes negative when the
// assistance fee alone exceeds the commission.
func (c CommissionSplitter) Split(discountedPrice, days int64) domain.Commission {
	total := decimal.NewFromInt(discountedPrice).Mul(c.Rate).IntPart()
	insurance := decimal.NewFromInt(total).Mul(c.InsuranceShare).IntPart()
	assistance := days * c.AssistanceFeePerDay
	return domain.Commission{
		Total:         total,
		InsuranceFee:  insurance,
		AssistanceFee: assistance,
		PlatformFee:   total - insurance - assistance,
	}
}
