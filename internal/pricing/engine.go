package pricing

import (
	"fleet-rental-pricing/internal/domain"
)

// Engine is the pure pricing and ledger core. It holds no rentals and
// performs no I/O; callers keep the records.
type Engine struct {
	pipeline *Pipeline
}

func NewEngine(params Params) *Engine {
	return &Engine{pipeline: NewPipeline(params)}
}

func (e *Engine) Pipeline() *Pipeline { return e.pipeline }

func (e *Engine) BuildCar(req domain.CarRequest) (*domain.Car, error) {
	return domain.NewCar(req)
}

// BuildRental validates the request against car and runs the full pipeline,
// leaving one pending statement per actor.
func (e *Engine) BuildRental(car *domain.Car, req domain.RentalRequest) (*domain.Rental, error) {
	r, err := domain.NewRental(car, req)
	if err != nil {
		return nil, err
	}
	if err := e.pipeline.Run(r); err != nil {
		return nil, err
	}
	return r, nil
}

// IssuePayments settles every pending statement of the rental.
func (e *Engine) IssuePayments(r *domain.Rental) int {
	return r.IssuePayments()
}

// ApplyModification changes the rental's inputs, replays the pipeline and
// refreshes the outstanding figure of every actor. The replay appends new
// pending statements next to the settled ones, so outstanding amounts are
// the deltas owed since the last settlement.
func (e *Engine) ApplyModification(r *domain.Rental, adj domain.Adjustment) (*domain.Rental, error) {
	if r == nil || (adj.RentalID != nil && *adj.RentalID != r.ID) {
		var id int64
		if adj.RentalID != nil {
			id = *adj.RentalID
		}
		return nil, domain.NewDomainError("rental", id, domain.ErrRentalNotFound)
	}
	before := *r
	if err := r.Adjust(adj); err != nil {
		return nil, err
	}
	// The payments stage appends only after every statement is built, so
	// restoring the fields is enough to undo a failed replay.
	if err := e.pipeline.Run(r); err != nil {
		*r = before
		return nil, err
	}
	r.ComputeOutstanding()
	return r, nil
}
