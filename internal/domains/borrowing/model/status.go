package model

import "fmt"

// Status of a borrowing. Persisted values are the Indonesian labels.
type Status string

const (
	StatusQueued    Status = "antri"
	StatusActive    Status = "dipinjam"
	StatusReturned  Status = "dikembalikan"
	StatusCancelled Status = "dibatalkan"
)

// transitions lists the allowed targets for every state.
// Returned and cancelled are terminal.
var transitions = map[Status][]Status{
	StatusQueued:    {StatusActive, StatusCancelled},
	StatusActive:    {StatusReturned},
	StatusReturned:  {},
	StatusCancelled: {},
}

// Statuses lists every state in lifecycle order
func Statuses() []Status {
	return []Status{StatusQueued, StatusActive, StatusReturned, StatusCancelled}
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// CanTransition reports whether from -> to is in the table
func CanTransition(from, to Status) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// TransitionPlan is what the repository applies atomically
type TransitionPlan struct {
	From           Status
	To             Status
	StockDelta     int // -1 when entering active, +1 when leaving it
	StampConfirmed bool
	StampReturned  bool
	AdminNotes     *string // nil keeps the stored notes
}

// PlanTransition derives the stock and timestamp effects of from -> to
func PlanTransition(from, to Status, adminNotes *string) (TransitionPlan, error) {
	if !CanTransition(from, to) {
		return TransitionPlan{}, InvalidTransitionError(from, to)
	}

	plan := TransitionPlan{From: from, To: to, AdminNotes: adminNotes}
	switch to {
	case StatusActive:
		plan.StockDelta = -1
		plan.StampConfirmed = true
	case StatusReturned:
		plan.StampReturned = true
	}
	if from == StatusActive && (to == StatusReturned || to == StatusCancelled) {
		plan.StockDelta = 1
	}
	return plan, nil
}

func (p TransitionPlan) String() string {
	return fmt.Sprintf("%s->%s (stock %+d)", p.From, p.To, p.StockDelta)
}
