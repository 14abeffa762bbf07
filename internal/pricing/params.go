package pricing

// Params are the tariff constants the pipeline prices with.
type Params struct {
	Discounts                 DiscountTable
	Commission                CommissionSplitter
	DeductibleReductionPerDay int64
}

func DefaultParams() Params {
	return Params{
		Discounts:                 DefaultDiscountTable(),
		Commission:                DefaultCommissionSplitter(),
		DeductibleReductionPerDay: 400,
	}
}
