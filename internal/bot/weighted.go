package bot

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/pokerelo/internal/game"
)

// Weights are the relative preferences of a WeightedBot for each kind of
// action. The raise weight is shared evenly between the legal raise slots.
type Weights struct {
	Fold  float64
	Call  float64
	Raise float64
	AllIn float64
}

// WeightedBot samples a legal action in proportion to per-street weights
// loaded from an HCL policy file:
//
//	fold   = 1
//	call   = 3
//	raise  = 1
//	all_in = 0.2
//
//	street "river" {
//	  fold = 2
//	}
//
// Street blocks override only the attributes they set.
type WeightedBot struct {
	Name    string
	streets [game.River + 1]Weights
}

// weightsHCL holds the attributes one block set; nil means inherit.
type weightsHCL struct {
	Fold, Call, Raise, AllIn *float64
}

type streetHCL struct {
	Name  string   `hcl:"name,label"`
	Fold  *float64 `hcl:"fold,optional"`
	Call  *float64 `hcl:"call,optional"`
	Raise *float64 `hcl:"raise,optional"`
	AllIn *float64 `hcl:"all_in,optional"`
}

type policyHCL struct {
	Name    *string     `hcl:"name,optional"`
	Fold    *float64    `hcl:"fold,optional"`
	Call    *float64    `hcl:"call,optional"`
	Raise   *float64    `hcl:"raise,optional"`
	AllIn   *float64    `hcl:"all_in,optional"`
	Streets []streetHCL `hcl:"street,block"`
}

// NewWeightedBot plays the same weights on every street.
func NewWeightedBot(name string, w Weights) *WeightedBot {
	b := &WeightedBot{Name: name}
	for i := range b.streets {
		b.streets[i] = w
	}
	return b
}

// LoadWeighted reads a policy file from disk.
func LoadWeighted(filename string) (*WeightedBot, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy: %w", err)
	}
	return ParseWeighted(src, filename)
}

// ParseWeighted decodes an HCL policy. Unset weights default to 1.
func ParseWeighted(src []byte, filename string) (*WeightedBot, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw policyHCL
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	base := Weights{Fold: 1, Call: 1, Raise: 1, AllIn: 1}
	override(&base, weightsHCL{Fold: raw.Fold, Call: raw.Call, Raise: raw.Raise, AllIn: raw.AllIn})

	b := NewWeightedBot(filename, base)
	if raw.Name != nil {
		b.Name = *raw.Name
	}

	var errs []error
	for _, s := range raw.Streets {
		street, ok := streetNames[s.Name]
		if !ok {
			errs = append(errs, fmt.Errorf("unknown street %q", s.Name))
			continue
		}
		override(&b.streets[street], weightsHCL{Fold: s.Fold, Call: s.Call, Raise: s.Raise, AllIn: s.AllIn})
	}
	for street := game.Preflop; street <= game.River; street++ {
		w := b.streets[street]
		if w.Fold < 0 || w.Call < 0 || w.Raise < 0 || w.AllIn < 0 {
			errs = append(errs, fmt.Errorf("%s: weights must not be negative", street))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid policy %s: %w", filename, err)
	}
	return b, nil
}

var streetNames = map[string]game.Street{
	"preflop": game.Preflop,
	"flop":    game.Flop,
	"turn":    game.Turn,
	"river":   game.River,
}

func override(w *Weights, h weightsHCL) {
	if h.Fold != nil {
		w.Fold = *h.Fold
	}
	if h.Call != nil {
		w.Call = *h.Call
	}
	if h.Raise != nil {
		w.Raise = *h.Raise
	}
	if h.AllIn != nil {
		w.AllIn = *h.AllIn
	}
}

// Weights returns the weights in force on street.
func (b *WeightedBot) Weights(street game.Street) Weights {
	return b.streets[street]
}

func (b *WeightedBot) ChooseAction(d game.Decision) (int, error) {
	legal := d.Legal()
	if len(legal) == 0 {
		return 0, ErrNoLegalAction
	}

	w := b.streets[d.Street]
	allIn := d.Config.AllInIndex()
	raises := 0
	for _, i := range legal {
		if i >= game.RaiseSlot(0) && i < allIn {
			raises++
		}
	}

	weights := make([]float64, len(legal))
	total := 0.0
	for n, i := range legal {
		switch {
		case i == game.FoldIndex:
			weights[n] = w.Fold
		case i == game.CallIndex:
			weights[n] = w.Call
		case i == allIn:
			weights[n] = w.AllIn
		default:
			weights[n] = w.Raise / float64(raises)
		}
		total += weights[n]
	}
	if total <= 0 {
		return legal[d.Rand.IntN(len(legal))], nil
	}

	x := d.Rand.Float64() * total
	for n, i := range legal {
		x -= weights[n]
		if x < 0 {
			return i, nil
		}
	}
	// Float rounding can leave x at exactly zero; take the last weighted slot.
	for n := len(legal) - 1; n >= 0; n-- {
		if weights[n] > 0 {
			return legal[n], nil
		}
	}
	return legal[len(legal)-1], nil
}
