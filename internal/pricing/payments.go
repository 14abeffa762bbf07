package pricing

import (
	"fleet-rental-pricing/internal/domain"
)

// BuildStatements turns a priced rental into one statement per actor,
// in domain.Actors order. Credit legs are marked explicitly; anything
// else is a debit.
func BuildStatements(r *domain.Rental) ([]*domain.Statement, error) {
	if r.State < domain.RentalCommissionSplit {
		return nil, domain.NewDomainError("rental", r.ID, domain.ErrMissingCommission)
	}
	if r.State < domain.RentalOptionsApplied {
		return nil, domain.NewDomainError("rental", r.ID, domain.ErrMissingOptions)
	}

	c := r.Commission
	entries := map[domain.Actor][]domain.Entry{
		domain.ActorDriver: {
			{Type: domain.EntryRentalPrice, Amount: r.DiscountedPrice, Direction: domain.DirectionDebit},
		},
		domain.ActorOwner: {
			{Type: domain.EntryRentalPrice, Amount: r.DiscountedPrice - c.Total, Direction: domain.DirectionCredit},
		},
		domain.ActorInsurance: {
			{Type: domain.EntryInsuranceFee, Amount: c.InsuranceFee, Direction: domain.DirectionCredit},
		},
		domain.ActorAssistance: {
			{Type: domain.EntryAssistanceFee, Amount: c.AssistanceFee, Direction: domain.DirectionCredit},
		},
		domain.ActorPlatform: {
			{Type: domain.EntryPlatformFee, Amount: c.PlatformFee, Direction: domain.DirectionCredit},
		},
	}

	if r.DeductibleReduction {
		fee := r.Options.DeductibleReduction
		entries[domain.ActorDriver] = append(entries[domain.ActorDriver],
			domain.Entry{Type: domain.EntryDeductibleReduction, Amount: fee, Direction: domain.DirectionDebit})
		entries[domain.ActorPlatform] = append(entries[domain.ActorPlatform],
			domain.Entry{Type: domain.EntryDeductibleReduction, Amount: fee, Direction: domain.DirectionCredit})
	}

	statements := make([]*domain.Statement, 0, len(domain.Actors))
	for _, actor := range domain.Actors {
		statements = append(statements, domain.NewStatement(actor, entries[actor]...))
	}
	return statements, nil
}
