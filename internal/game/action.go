package game

import "fmt"

// Street is a betting round. Deal is the pre-hand state before hole cards.
type Street uint8

const (
	Deal Street = iota
	Preflop
	Flop
	Turn
	River
)

func (s Street) String() string {
	switch s {
	case Deal:
		return "deal"
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	default:
		return fmt.Sprintf("street(%d)", uint8(s))
	}
}

// ActionKind enumerates the moves a seat can make.
type ActionKind uint8

const (
	Fold ActionKind = iota
	Call
	Raise
	AllIn
)

func (k ActionKind) String() string {
	switch k {
	case Fold:
		return "fold"
	case Call:
		return "call"
	case Raise:
		return "raise"
	case AllIn:
		return "allin"
	default:
		return "unknown"
	}
}

// Action is one recorded move. RaiseIndex is the ladder slot for raises and
// -1 otherwise.
type Action struct {
	Kind       ActionKind
	RaiseIndex int
	Seat       int
	Street     Street
}

// NoAction marks a seat that has not acted yet.
var NoAction = Action{Kind: Fold, RaiseIndex: -1, Seat: -1}

func (a Action) String() string {
	if a.Kind == Raise {
		return fmt.Sprintf("%s seat=%d raise[%d]", a.Street, a.Seat, a.RaiseIndex)
	}
	return fmt.Sprintf("%s seat=%d %s", a.Street, a.Seat, a.Kind)
}

// Fixed mask slots. Raise slot i sits at RaiseSlot(i); all-in is last, see
// Config.AllInIndex.
const (
	FoldIndex = 0
	CallIndex = 1
)

// RaiseSlot returns the mask index of ladder slot i.
func RaiseSlot(i int) int { return 2 + i }

// ActionAt maps a mask index to the action it represents.
func ActionAt(cfg *Config, index, seat int, street Street) Action {
	switch {
	case index == FoldIndex:
		return Action{Kind: Fold, RaiseIndex: -1, Seat: seat, Street: street}
	case index == CallIndex:
		return Action{Kind: Call, RaiseIndex: -1, Seat: seat, Street: street}
	case index == cfg.AllInIndex():
		return Action{Kind: AllIn, RaiseIndex: -1, Seat: seat, Street: street}
	default:
		return Action{Kind: Raise, RaiseIndex: index - RaiseSlot(0), Seat: seat, Street: street}
	}
}
