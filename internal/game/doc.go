// Package game implements the no-limit hold'em game tree used for self-play.
//
// The main type is Tree, an arena of Play, Chance and Terminal nodes that is
// expanded lazily as a hand is played. Each node owns a Ledger snapshot of
// bets, stacks and action history; children are derived from cloned ledgers
// so a parent is never mutated once it has been expanded.
//
// # Basic Usage
//
// Play one hand between seated agents:
//
//	cfg := game.DefaultConfig()
//	tree, err := game.NewTree(cfg, game.WithSeed(42))
//	if err != nil {
//	    return err
//	}
//	rewards, err := tree.PlayOneHand(agents, true)
//
// # Legality
//
// Every Play node exposes a fixed-length legality mask laid out as
// fold, call, one slot per configured raise ratio, all-in. Expand computes
// the mask and the child for every legal slot exactly once.
//
// # Architecture
//
//   - Config: immutable per-run sizing (blinds, raise ladders, commitment floor)
//   - Ledger: copy-on-branch record of one hand
//   - Tree: node arena, expansion and hand driver
//   - Dealer: cards and showdown settlement, backed by paulhankin/poker
//
// Trees are single-owner: a tree and its nodes belong to the goroutine that
// plays the hand and are discarded afterwards.
package game
