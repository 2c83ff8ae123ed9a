package game

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIllegalAction is returned when an agent picks an index that is out of
	// range or masked off.
	ErrIllegalAction = errors.New("illegal action")

	// ErrTreeInvariant signals a configuration or engine defect: a node with
	// no legal action, or an aggressive action that leaves nobody to respond.
	ErrTreeInvariant = errors.New("tree invariant violated")
)

// IllegalActionError carries the offending choice.
type IllegalActionError struct {
	Seat   int
	Index  int
	Mask   []bool
	Street Street
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("%v: seat %d chose %d on %s with mask %v", ErrIllegalAction, e.Seat, e.Index, e.Street, e.Mask)
}

func (e *IllegalActionError) Unwrap() error { return ErrIllegalAction }

// InvariantError carries the full context of a broken node.
type InvariantError struct {
	Reason string
	Ledger Ledger
}

func (e *InvariantError) Error() string {
	var history strings.Builder
	for i, a := range e.Ledger.History {
		if i > 0 {
			history.WriteString(", ")
		}
		history.WriteString(a.String())
	}
	return fmt.Sprintf("%v: %s (street=%s to_move=%d last_to_act=%d bets=%v stacks=%v active=%v history=[%s])",
		ErrTreeInvariant, e.Reason, e.Ledger.Street, e.Ledger.ToMove, e.Ledger.LastToAct,
		e.Ledger.Bets, e.Ledger.Stacks, e.Ledger.Active, history.String())
}

func (e *InvariantError) Unwrap() error { return ErrTreeInvariant }

func invariant(l *Ledger, format string, args ...any) error {
	return &InvariantError{Reason: fmt.Sprintf(format, args...), Ledger: l.Clone()}
}
