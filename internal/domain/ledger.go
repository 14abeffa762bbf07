package domain

// Actor is an economic party of a rental.
type Actor string

const (
	ActorDriver     Actor = "driver"
	ActorOwner      Actor = "owner"
	ActorInsurance  Actor = "insurance"
	ActorAssistance Actor = "assistance"
	ActorPlatform   Actor = "platform"
)

// Actors lists every actor in reporting order.
var Actors = []Actor{ActorDriver, ActorOwner, ActorInsurance, ActorAssistance, ActorPlatform}

// Entry labels.
const (
	EntryRentalPrice         = "rental_price"
	EntryInsuranceFee        = "insurance_fee"
	EntryAssistanceFee       = "assistance_fee"
	EntryPlatformFee         = "platform_fee"
	EntryDeductibleReduction = "deductible_reduction"
)

type BalanceType string

const (
	Credit BalanceType = "credit"
	Debit  BalanceType = "debit"
)

// SignType maps a signed amount to its balance type. Zero is a credit.
func SignType(raw int64) BalanceType {
	if raw < 0 {
		return Debit
	}
	return Credit
}

// Direction of an entry. The zero value is a debit: an entry only counts
// as a credit when it says so.
type Direction int

const (
	DirectionDebit Direction = iota
	DirectionCredit
)

// Entry is one labelled line of a statement. Amount is never negative;
// the sign comes from Direction.
type Entry struct {
	Type      string    `json:"type"`
	Amount    int64     `json:"amount"`
	Direction Direction `json:"-"`
}

// IsDebit reports whether the entry takes money from the actor.
func (e Entry) IsDebit() bool { return e.Direction != DirectionCredit }

// Signed returns the amount with its ledger sign applied.
func (e Entry) Signed() int64 {
	if e.IsDebit() {
		return -e.Amount
	}
	return e.Amount
}

// Statement aggregates the entries of one actor for one ledger event.
// Its entries never change once built; the only transition is Pending -> Paid.
type Statement struct {
	actor   Actor
	entries []Entry
	raw     int64
	paid    bool
}

func NewStatement(actor Actor, entries ...Entry) *Statement {
	s := &Statement{actor: actor, entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		s.entries = append(s.entries, e)
		s.raw += e.Signed()
	}
	return s
}

func (s *Statement) Actor() Actor { return s.actor }

// Entries returns a copy of the statement lines.
func (s *Statement) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// RawAmount is the signed sum of all entries; negative means the actor pays.
func (s *Statement) RawAmount() int64 { return s.raw }

func (s *Statement) UnsignedAmount() int64 { return abs(s.raw) }

func (s *Statement) Type() BalanceType { return SignType(s.raw) }

func (s *Statement) Paid() bool { return s.paid }

// MarkPaid settles the statement. It reports false if it was already paid.
func (s *Statement) MarkPaid() bool {
	if s.paid {
		return false
	}
	s.paid = true
	return true
}

// Outstanding is what remains to reconcile for one actor.
type Outstanding struct {
	Type   BalanceType `json:"type"`
	Amount int64       `json:"amount"`
}

// StatementHistory is the append-only sequence of statements of one actor.
type StatementHistory struct {
	actor       Actor
	statements  []*Statement
	outstanding *Outstanding
}

func NewStatementHistory(actor Actor) *StatementHistory {
	return &StatementHistory{actor: actor}
}

func (h *StatementHistory) Actor() Actor { return h.actor }

// Append adds a statement after every existing one.
func (h *StatementHistory) Append(s *Statement) {
	h.statements = append(h.statements, s)
}

// Statements returns the statements in insertion order.
func (h *StatementHistory) Statements() []*Statement {
	out := make([]*Statement, len(h.statements))
	copy(out, h.statements)
	return out
}

func (h *StatementHistory) Len() int { return len(h.statements) }

// Latest returns the most recently appended statement, or nil.
func (h *StatementHistory) Latest() *Statement {
	if len(h.statements) == 0 {
		return nil
	}
	return h.statements[len(h.statements)-1]
}

// IssuePayments marks every pending statement as paid and returns how many
// changed state.
func (h *StatementHistory) IssuePayments() int {
	issued := 0
	for _, s := range h.statements {
		if s.MarkPaid() {
			issued++
		}
	}
	return issued
}

// ComputeOutstanding folds the history into a single figure. Paid
// statements count with their sign flipped and pending ones as is, so a
// settled statement followed by its recomputation leaves the difference.
func (h *StatementHistory) ComputeOutstanding() Outstanding {
	var raw int64
	for _, s := range h.statements {
		if s.Paid() {
			raw -= s.RawAmount()
		} else {
			raw += s.RawAmount()
		}
	}
	o := Outstanding{Type: SignType(raw), Amount: abs(raw)}
	h.outstanding = &o
	return o
}

// Outstanding returns the last computed outstanding figure, if any.
func (h *StatementHistory) Outstanding() (Outstanding, bool) {
	if h.outstanding == nil {
		return Outstanding{}, false
	}
	return *h.outstanding, true
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
