package report

import (
	"encoding/json"
	"fmt"
	"io"

	"fleet-rental-pricing/internal/domain"
)

// Style names a report layout.
type Style string

const (
	Level1 Style = "level1"
	Level2 Style = "level2"
	Level3 Style = "level3"
	Level4 Style = "level4"
	Level5 Style = "level5"
	Level6 Style = "level6"
)

type field int

const (
	fieldPrice field = iota
	fieldCommission
	fieldOptions
	fieldActions
	fieldOutstanding
)

func (f field) String() string {
	switch f {
	case fieldPrice:
		return "price"
	case fieldCommission:
		return "commission"
	case fieldOptions:
		return "options"
	case fieldActions:
		return "actions"
	case fieldOutstanding:
		return "outstanding"
	default:
		return "unknown"
	}
}

type layout struct {
	index    string
	required []field
}

var layouts = map[Style]layout{
	Level1: {index: "rentals", required: []field{fieldPrice}},
	Level2: {index: "rentals", required: []field{fieldPrice}},
	Level3: {index: "rentals", required: []field{fieldPrice, fieldCommission}},
	Level4: {index: "rentals", required: []field{fieldPrice, fieldCommission, fieldOptions}},
	Level5: {index: "rentals", required: []field{fieldActions}},
	Level6: {index: "rental_modifications", required: []field{fieldOutstanding}},
}

// ResolveStyle maps a style name to a known style. Unknown names fall back
// to Level1.
func ResolveStyle(name string) Style {
	if _, ok := layouts[Style(name)]; ok {
		return Style(name)
	}
	return Level1
}

// Action is one actor's line in a report.
type Action struct {
	Who    domain.Actor       `json:"who"`
	Type   domain.BalanceType `json:"type"`
	Amount int64              `json:"amount"`
}

// Item is one rental in a report. Only the fields of the chosen style are set.
type Item struct {
	ID         int64              `json:"id"`
	RentalID   *int64             `json:"rental_id,omitempty"`
	Price      *int64             `json:"price,omitempty"`
	Options    *domain.Options    `json:"options,omitempty"`
	Commission *domain.Commission `json:"commission,omitempty"`
	Actions    []Action           `json:"actions,omitempty"`
}

// Report is a rendered list of items under the style's index key.
type Report struct {
	Style Style
	Index string
	Items []Item
}

func (r *Report) MarshalJSON() ([]byte, error) {
	items := r.Items
	if items == nil {
		items = []Item{}
	}
	return json.Marshal(map[string][]Item{r.Index: items})
}

// Build renders rentals in the given style. A rental lacking a field the
// style requires is left out and its error collected; the others still render.
func Build(rentals []*domain.Rental, style string) (*Report, []error) {
	s := ResolveStyle(style)
	l := layouts[s]
	rep := &Report{Style: s, Index: l.index, Items: make([]Item, 0, len(rentals))}

	var errs []error
	for _, r := range rentals {
		// Unmodified rentals have nothing outstanding to list.
		if s == Level6 && !r.Modified() {
			continue
		}
		if err := checkRequired(r, l.required); err != nil {
			errs = append(errs, err)
			continue
		}
		if s == Level6 {
			id := r.ID
			rep.Items = append(rep.Items, Item{
				ID:       int64(len(rep.Items) + 1),
				RentalID: &id,
				Actions:  outstandingActions(r),
			})
			continue
		}
		rep.Items = append(rep.Items, buildItem(r, l.required))
	}
	return rep, errs
}

// Write encodes the report as indented JSON.
func (r *Report) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func checkRequired(r *domain.Rental, fields []field) error {
	for _, f := range fields {
		if !has(r, f) {
			return fmt.Errorf("rental %d: %w", r.ID, &domain.ValidationError{
				Record: "report", Field: f.String(), Reason: "is not computed",
			})
		}
	}
	return nil
}

func has(r *domain.Rental, f field) bool {
	switch f {
	case fieldPrice:
		return r.State >= domain.RentalDiscounted
	case fieldCommission:
		return r.State >= domain.RentalCommissionSplit
	case fieldOptions:
		return r.State >= domain.RentalOptionsApplied
	case fieldActions:
		for _, actor := range domain.Actors {
			if h := r.History(actor); h == nil || h.Latest() == nil {
				return false
			}
		}
		return true
	case fieldOutstanding:
		return r.Modified()
	}
	return false
}

func buildItem(r *domain.Rental, fields []field) Item {
	item := Item{ID: r.ID}
	for _, f := range fields {
		switch f {
		case fieldPrice:
			price := r.DiscountedPrice
			item.Price = &price
		case fieldCommission:
			c := r.Commission
			item.Commission = &c
		case fieldOptions:
			o := r.Options
			item.Options = &o
		case fieldActions:
			item.Actions = latestActions(r)
		}
	}
	return item
}

func latestActions(r *domain.Rental) []Action {
	actions := make([]Action, 0, len(domain.Actors))
	for _, actor := range domain.Actors {
		s := r.History(actor).Latest()
		actions = append(actions, Action{Who: actor, Type: s.Type(), Amount: s.UnsignedAmount()})
	}
	return actions
}

func outstandingActions(r *domain.Rental) []Action {
	actions := make([]Action, 0, len(domain.Actors))
	for _, actor := range domain.Actors {
		o, _ := r.History(actor).Outstanding()
		actions = append(actions, Action{Who: actor, Type: o.Type, Amount: o.Amount})
	}
	return actions
}
