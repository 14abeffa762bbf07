package domain

import (
	"time"

	"fleet-rental-pricing/internal/utils"
)

// RentalState tracks how far the pricing chain has run for a rental.
type RentalState int

const (
	RentalCreated RentalState = iota
	RentalPriced
	RentalDiscounted
	RentalCommissionSplit
	RentalOptionsApplied
	RentalPaymentsIssued
)

func (s RentalState) String() string {
	switch s {
	case RentalCreated:
		return "CREATED"
	case RentalPriced:
		return "PRICED"
	case RentalDiscounted:
		return "DISCOUNTED"
	case RentalCommissionSplit:
		return "COMMISSION_SPLIT"
	case RentalOptionsApplied:
		return "OPTIONS_APPLIED"
	case RentalPaymentsIssued:
		return "PAYMENTS_ISSUED"
	default:
		return "UNKNOWN"
	}
}

// RentalRequest is the unvalidated shape of a rental record.
type RentalRequest struct {
	ID                  *int64  `json:"id"`
	CarID               *int64  `json:"car_id"`
	StartDate           *string `json:"start_date"`
	EndDate             *string `json:"end_date"`
	Distance            *int64  `json:"distance"`
	DeductibleReduction *bool   `json:"deductible_reduction"`
}

// Complete reports whether every required field is present.
func (r RentalRequest) Complete() bool {
	return r.ID != nil && r.CarID != nil && r.StartDate != nil && r.EndDate != nil && r.Distance != nil
}

// Adjustment changes the dates and/or distance of a processed rental.
type Adjustment struct {
	ID        *int64  `json:"id"`
	RentalID  *int64  `json:"rental_id"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Distance  *int64  `json:"distance"`
}

// Commission is the split of the commission taken on the discounted price.
type Commission struct {
	Total         int64 `json:"-"`
	InsuranceFee  int64 `json:"insurance_fee"`
	AssistanceFee int64 `json:"assistance_fee"`
	PlatformFee   int64 `json:"platform_fee"`
}

// Options holds the add-on fees of a rental.
type Options struct {
	DeductibleReduction int64 `json:"deductible_reduction"`
}

type Rental struct {
	ID                  int64
	Car                 *Car
	StartDate           time.Time
	EndDate             time.Time
	Distance            int64
	DeductibleReduction bool

	// Derived, filled by the pricing stages in order.
	NumberOfDays    int64
	BasePrice       int64
	Discount        int64
	DiscountedPrice int64
	Commission      Commission
	Options         Options
	Ledger          map[Actor]*StatementHistory
	State           RentalState
}

func NewRental(car *Car, req RentalRequest) (*Rental, error) {
	switch {
	case req.ID == nil:
		return nil, missingField("rental", "id")
	case req.CarID == nil:
		return nil, missingField("rental", "car_id")
	case req.StartDate == nil:
		return nil, missingField("rental", "start_date")
	case req.EndDate == nil:
		return nil, missingField("rental", "end_date")
	case req.Distance == nil:
		return nil, missingField("rental", "distance")
	}
	id := *req.ID
	if car == nil || car.ID != *req.CarID {
		return nil, NewDomainError("rental", id, ErrCarNotFound)
	}

	start, err := utils.ParseDate(*req.StartDate)
	if err != nil {
		return nil, &ValidationError{Record: "rental", Field: "start_date", Reason: err.Error()}
	}
	end, err := utils.ParseDate(*req.EndDate)
	if err != nil {
		return nil, &ValidationError{Record: "rental", Field: "end_date", Reason: err.Error()}
	}
	days, err := utils.RentalDays(start, end)
	if err != nil {
		return nil, NewDomainError("rental", id, ErrNegativeSpan)
	}
	if *req.Distance < 0 {
		return nil, NewDomainError("rental", id, ErrNegativeDistance)
	}

	r := &Rental{
		ID:           id,
		Car:          car,
		StartDate:    start,
		EndDate:      end,
		Distance:     *req.Distance,
		NumberOfDays: days,
		Ledger:       make(map[Actor]*StatementHistory, len(Actors)),
		State:        RentalCreated,
	}
	if req.DeductibleReduction != nil {
		r.DeductibleReduction = *req.DeductibleReduction
	}
	for _, actor := range Actors {
		r.Ledger[actor] = NewStatementHistory(actor)
	}
	return r, nil
}

// Adjust applies the present fields of adj. The new inputs are validated
// together before any of them is written, so a rejected adjustment leaves
// the rental as it was. On success the rental goes back to the start of
// the pricing chain.
func (r *Rental) Adjust(adj Adjustment) error {
	start, end, distance := r.StartDate, r.EndDate, r.Distance
	if adj.StartDate != nil {
		t, err := utils.ParseDate(*adj.StartDate)
		if err != nil {
			return &ValidationError{Record: "rental_modification", Field: "start_date", Reason: err.Error()}
		}
		start = t
	}
	if adj.EndDate != nil {
		t, err := utils.ParseDate(*adj.EndDate)
		if err != nil {
			return &ValidationError{Record: "rental_modification", Field: "end_date", Reason: err.Error()}
		}
		end = t
	}
	if adj.Distance != nil {
		distance = *adj.Distance
	}

	days, err := utils.RentalDays(start, end)
	if err != nil {
		return NewDomainError("rental", r.ID, ErrNegativeSpan)
	}
	if distance < 0 {
		return NewDomainError("rental", r.ID, ErrNegativeDistance)
	}

	r.StartDate, r.EndDate, r.Distance, r.NumberOfDays = start, end, distance, days
	r.State = RentalCreated
	return nil
}

// History returns the statement history of actor.
func (r *Rental) History(actor Actor) *StatementHistory {
	return r.Ledger[actor]
}

// IssuePayments settles every pending statement of every actor.
func (r *Rental) IssuePayments() int {
	issued := 0
	for _, actor := range Actors {
		issued += r.Ledger[actor].IssuePayments()
	}
	return issued
}

// ComputeOutstanding refreshes the outstanding figure of every actor.
func (r *Rental) ComputeOutstanding() map[Actor]Outstanding {
	out := make(map[Actor]Outstanding, len(Actors))
	for _, actor := range Actors {
		out[actor] = r.Ledger[actor].ComputeOutstanding()
	}
	return out
}

// Modified reports whether outstanding figures have been computed, which
// only happens after a modification.
func (r *Rental) Modified() bool {
	_, ok := r.Ledger[ActorDriver].Outstanding()
	return ok
}
