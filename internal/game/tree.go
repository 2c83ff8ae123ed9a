package game

import (
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/pokerelo/internal/randutil"
)

// NodeKind tags an arena entry.
type NodeKind uint8

const (
	PlayNode NodeKind = iota
	ChanceNode
	TerminalNode
)

func (k NodeKind) String() string {
	switch k {
	case PlayNode:
		return "play"
	case ChanceNode:
		return "chance"
	case TerminalNode:
		return "terminal"
	default:
		return "unknown"
	}
}

// NodeID indexes Tree nodes. NoNode fills the child slot of an illegal action.
type NodeID int32

const NoNode NodeID = -1

// Node is one state of the hand.
type Node struct {
	Kind     NodeKind
	Ledger   Ledger
	Children []NodeID
	Mask     []bool
	Expanded bool
	Rewards  []float64
}

// Tree is the node arena for a single hand. It is not safe for concurrent
// use; every hand gets its own tree.
type Tree struct {
	cfg        *Config
	nodes      []Node
	dealer     Dealer
	rng        *rand.Rand
	logger     *log.Logger
	permissive bool
	illegal    int
	path       []NodeID
}

// Option configures a Tree.
type Option func(*Tree)

// WithSeed makes the tree's random source (and deterministic dealing)
// reproducible.
func WithSeed(seed int64) Option {
	return func(t *Tree) { t.rng = randutil.New(seed) }
}

// WithDealer replaces the default deck dealer.
func WithDealer(d Dealer) Option {
	return func(t *Tree) { t.dealer = d }
}

// WithLogger sets the logger used for hand tracing.
func WithLogger(logger *log.Logger) Option {
	return func(t *Tree) { t.logger = logger.WithPrefix("tree") }
}

// WithPermissive lets agents return masked-off indices. The tree substitutes
// the lowest legal index and counts the substitution instead of failing.
// Intended for diagnostics only.
func WithPermissive(permissive bool) Option {
	return func(t *Tree) { t.permissive = permissive }
}

// NewTree validates cfg and creates a tree holding only the root Chance node,
// with antes and blinds already posted.
func NewTree(cfg Config, opts ...Option) (*Tree, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}
	cfg.PreflopRaises = slices.Clone(cfg.PreflopRaises)
	cfg.PostflopRaises = slices.Clone(cfg.PostflopRaises)

	t := &Tree{
		cfg:    &cfg,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.rng == nil {
		t.rng = randutil.New(time.Now().UnixNano())
	}
	t.add(ChanceNode, newRootLedger(t.cfg))
	return t, nil
}

// Config returns the tree's configuration.
func (t *Tree) Config() *Config { return t.cfg }

// Root is the id of the root node.
func (t *Tree) Root() NodeID { return 0 }

// Len is the number of nodes built so far.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node with the given id. The pointer is only valid until
// the next Expand.
func (t *Tree) Node(id NodeID) *Node { return &t.nodes[id] }

// IllegalChoices counts masked-off picks replaced in permissive mode.
func (t *Tree) IllegalChoices() int { return t.illegal }

// Path returns the nodes visited by the last PlayOneHand, root first.
func (t *Tree) Path() []NodeID { return slices.Clone(t.path) }

func (t *Tree) add(kind NodeKind, l Ledger) NodeID {
	t.nodes = append(t.nodes, Node{Kind: kind, Ledger: l})
	return NodeID(len(t.nodes) - 1)
}

// PlayOneHand drives the tree from the root to a Terminal node, asking the
// seated agent at every Play node, and returns the per-seat rewards. With
// deterministic dealing the cards come from the tree's seeded source;
// otherwise a fresh time-seeded deck is used.
func (t *Tree) PlayOneHand(agents []Agent, deterministic bool) ([]float64, error) {
	if len(agents) != t.cfg.Seats {
		return nil, fmt.Errorf("need %d agents, got %d", t.cfg.Seats, len(agents))
	}
	if t.dealer == nil {
		src := t.rng
		if !deterministic {
			src = randutil.New(time.Now().UnixNano())
		}
		t.dealer = NewDeckDealer(t.cfg.Seats, src)
	}

	id := t.Root()
	t.path = t.path[:0]
	for {
		t.path = append(t.path, id)
		if err := t.Expand(id); err != nil {
			return nil, err
		}
		node := &t.nodes[id]
		switch node.Kind {
		case TerminalNode:
			t.logger.Debug("Hand finished", "rewards", node.Rewards, "actions", len(node.Ledger.History))
			return slices.Clone(node.Rewards), nil

		case ChanceNode:
			id = node.Children[0]

		case PlayNode:
			seat := node.Ledger.ToMove
			index, err := agents[seat].ChooseAction(Decision{
				View:   newView(&node.Ledger),
				Mask:   slices.Clone(node.Mask),
				Street: node.Ledger.Street,
				Config: t.cfg,
				Rand:   t.rng,
			})
			if err != nil {
				return nil, fmt.Errorf("agent at seat %d: %w", seat, err)
			}
			if index < 0 || index >= len(node.Mask) || !node.Mask[index] {
				illegal := &IllegalActionError{
					Seat:   seat,
					Index:  index,
					Mask:   slices.Clone(node.Mask),
					Street: node.Ledger.Street,
				}
				if !t.permissive {
					return nil, illegal
				}
				t.illegal++
				t.logger.Debug("Replacing illegal choice", "error", illegal)
				index = slices.Index(node.Mask, true)
			}
			t.logger.Debug("Action", "seat", seat, "street", node.Ledger.Street, "index", index)
			id = node.Children[index]
		}
	}
}
