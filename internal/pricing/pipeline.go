package pricing

import (
	"fmt"

	"fleet-rental-pricing/internal/domain"
	"fleet-rental-pricing/internal/logger"
)

type StageName string

const (
	StagePrice      StageName = "price"
	StageDiscount   StageName = "discount"
	StageCommission StageName = "commission"
	StageOptions    StageName = "options"
	StagePayments   StageName = "payments"
)

// stage recomputes its outputs from the rental's current inputs and moves
// the rental to produces.
type stage struct {
	name     StageName
	produces domain.RentalState
	run      func(*domain.Rental) error
}

// Pipeline is the ordered list of pricing stages. Each stage depends on
// every stage before it.
type Pipeline struct {
	params Params
	stages []stage
}

func NewPipeline(params Params) *Pipeline {
	p := &Pipeline{params: params}
	p.stages = []stage{
		{name: StagePrice, produces: domain.RentalPriced, run: p.price},
		{name: StageDiscount, produces: domain.RentalDiscounted, run: p.discount},
		{name: StageCommission, produces: domain.RentalCommissionSplit, run: p.commission},
		{name: StageOptions, produces: domain.RentalOptionsApplied, run: p.options},
		{name: StagePayments, produces: domain.RentalPaymentsIssued, run: p.payments},
	}
	return p
}

// Stages returns the stage names in execution order.
func (p *Pipeline) Stages() []StageName {
	names := make([]StageName, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.name
	}
	return names
}

// Run executes every stage from the first one.
func (p *Pipeline) Run(r *domain.Rental) error {
	return p.RunThrough(r, StagePayments)
}

// RunThrough executes every stage up to and including name, in order,
// whatever the rental's current state.
func (p *Pipeline) RunThrough(r *domain.Rental, name StageName) error {
	idx, err := p.index(name)
	if err != nil {
		return err
	}
	for i := 0; i <= idx; i++ {
		if err := p.exec(r, p.stages[i]); err != nil {
			return err
		}
	}
	return nil
}

// RunStage executes one stage. Earlier stages whose output is missing are
// run first, so a stage never sees an incomplete rental.
func (p *Pipeline) RunStage(r *domain.Rental, name StageName) error {
	idx, err := p.index(name)
	if err != nil {
		return err
	}
	for i := 0; i < idx; i++ {
		if r.State >= p.stages[i].produces {
			continue
		}
		if err := p.exec(r, p.stages[i]); err != nil {
			return err
		}
	}
	return p.exec(r, p.stages[idx])
}

func (p *Pipeline) index(name StageName) (int, error) {
	for i, s := range p.stages {
		if s.name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown pricing stage %q", name)
}

func (p *Pipeline) exec(r *domain.Rental, s stage) error {
	logger.StageStarted(string(s.name), r.ID)
	if err := s.run(r); err != nil {
		logger.StageFailed(string(s.name), r.ID, err)
		return err
	}
	r.State = s.produces
	logger.StageCompleted(string(s.name), r.ID, "state", r.State.String())
	return nil
}

func (p *Pipeline) price(r *domain.Rental) error {
	r.BasePrice = r.Car.PricePerDay*r.NumberOfDays + r.Car.PricePerKm*r.Distance
	return nil
}

func (p *Pipeline) discount(r *domain.Rental) error {
	r.Discount = p.params.Discounts.TotalDiscount(r.Car.PricePerDay, r.NumberOfDays)
	r.DiscountedPrice = r.BasePrice - r.Discount
	return nil
}

func (p *Pipeline) commission(r *domain.Rental) error {
	r.Commission = p.params.Commission.Split(r.DiscountedPrice, r.NumberOfDays)
	return nil
}

func (p *Pipeline) options(r *domain.Rental) error {
	r.Options = domain.Options{}
	if r.DeductibleReduction {
		r.Options.DeductibleReduction = r.NumberOfDays * p.params.DeductibleReductionPerDay
	}
	return nil
}

// payments appends a new statement to every actor's history; earlier
// statements are never replaced.
func (p *Pipeline) payments(r *domain.Rental) error {
	statements, err := BuildStatements(r)
	if err != nil {
		return err
	}
	for _, s := range statements {
		r.History(s.Actor()).Append(s)
	}
	return nil
}
