package bot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lox/pokerelo/internal/game"
	"github.com/lox/pokerelo/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decision builds a three-handed decision for seat 0. toCall > 0 means the
// seat faces a bet.
func decision(t *testing.T, street game.Street, toCall int, mask ...bool) game.Decision {
	t.Helper()
	cfg := game.DefaultConfig()
	require.Len(t, mask, cfg.ActionCount())
	return game.Decision{
		View: game.View{
			Seat:   0,
			Bets:   []int{40, 40 + toCall, 40},
			Stacks: []int{260, 260 - toCall, 260},
			Active: []bool{true, true, true},
		},
		Mask:   mask,
		Street: street,
		Config: &cfg,
		Rand:   randutil.New(1),
	}
}

// Masks in fold, call, four raise slots, all-in order.
var unopened = []bool{false, true, true, true, false, true, true}
var facing = []bool{true, true, false, true, false, false, true}

func TestRandBotOnlyPicksLegal(t *testing.T) {
	t.Parallel()
	d := decision(t, game.Flop, 0, unopened...)
	seen := map[int]bool{}
	for range 500 {
		i, err := NewRandBot().ChooseAction(d)
		require.NoError(t, err)
		require.True(t, d.Mask[i], "picked illegal index %d", i)
		seen[i] = true
	}
	assert.Len(t, seen, len(d.Legal()), "every legal index should be drawn eventually")
}

func TestRandBotRejectsEmptyMask(t *testing.T) {
	t.Parallel()
	d := decision(t, game.Flop, 0, make([]bool, 7)...)
	_, err := NewRandBot().ChooseAction(d)
	require.ErrorIs(t, err, ErrNoLegalAction)
}

func TestFoldBot(t *testing.T) {
	t.Parallel()
	i, err := NewFoldBot().ChooseAction(decision(t, game.Flop, 0, unopened...))
	require.NoError(t, err)
	assert.Equal(t, game.CallIndex, i, "checks when nothing to call")

	i, err = NewFoldBot().ChooseAction(decision(t, game.Flop, 40, facing...))
	require.NoError(t, err)
	assert.Equal(t, game.FoldIndex, i)
}

func TestCallBot(t *testing.T) {
	t.Parallel()
	bot := NewCallBot(nil)

	i, err := bot.ChooseAction(decision(t, game.Turn, 40, facing...))
	require.NoError(t, err)
	assert.Equal(t, game.CallIndex, i)

	t.Run("folds river to two raises", func(t *testing.T) {
		d := decision(t, game.River, 80, facing...)
		d.View.History = []game.Action{
			{Kind: game.Raise, RaiseIndex: 1, Seat: 1, Street: game.River},
			{Kind: game.Raise, RaiseIndex: 1, Seat: 2, Street: game.River},
		}
		i, err := bot.ChooseAction(d)
		require.NoError(t, err)
		assert.Equal(t, game.FoldIndex, i)
	})

	t.Run("shoves when a call is not possible", func(t *testing.T) {
		d := decision(t, game.Flop, 40, true, false, false, false, false, false, true)
		i, err := bot.ChooseAction(d)
		require.NoError(t, err)
		assert.Equal(t, d.Config.AllInIndex(), i)
	})
}

func TestManiacBotStaysLegalAndAggressive(t *testing.T) {
	t.Parallel()
	d := decision(t, game.Flop, 40, facing...)
	counts := map[int]int{}
	for range 1000 {
		i, err := NewManiacBot().ChooseAction(d)
		require.NoError(t, err)
		require.True(t, d.Mask[i])
		counts[i]++
	}
	assert.Greater(t, counts[d.Config.AllInIndex()], counts[game.FoldIndex])
	assert.Zero(t, counts[game.RaiseSlot(1)], "shoves rather than raising when all-in is open")
}

func TestWeightedBotFollowsWeights(t *testing.T) {
	t.Parallel()
	src := []byte(`
name   = "station"
fold   = 0
call   = 1
raise  = 0
all_in = 0

street "river" {
  call = 0
  fold = 1
}
`)
	b, err := ParseWeighted(src, "station.hcl")
	require.NoError(t, err)
	assert.Equal(t, "station", b.Name)
	assert.Equal(t, Weights{Call: 1}, b.Weights(game.Flop))
	assert.Equal(t, Weights{Fold: 1}, b.Weights(game.River))

	for range 100 {
		i, err := b.ChooseAction(decision(t, game.Turn, 40, facing...))
		require.NoError(t, err)
		require.Equal(t, game.CallIndex, i)

		i, err = b.ChooseAction(decision(t, game.River, 40, facing...))
		require.NoError(t, err)
		require.Equal(t, game.FoldIndex, i)
	}
}

func TestWeightedBotFallsBackToUniform(t *testing.T) {
	t.Parallel()
	b := NewWeightedBot("never", Weights{Fold: 1})
	d := decision(t, game.Flop, 0, unopened...) // fold is masked
	for range 100 {
		i, err := b.ChooseAction(d)
		require.NoError(t, err)
		require.True(t, d.Mask[i])
	}
}

func TestParseWeightedErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `fold = `},
		{"negative", `fold = -1`},
		{"unknown street", "street \"showdown\" {\n  fold = 1\n}\n"},
		{"unknown attribute", `bluff = 1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWeighted([]byte(tt.src), "bad.hcl")
			require.Error(t, err)
		})
	}
}

func TestResolver(t *testing.T) {
	t.Parallel()
	r := NewResolver(nil)

	for _, name := range []string{"random", "call", "fold", "maniac"} {
		a, err := r.Load(name, 0)
		require.NoError(t, err, name)
		require.NotNil(t, a, name)
	}

	_, err := r.Load("gto-wizard", 0)
	require.ErrorIs(t, err, ErrUnknownAgent)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "7.hcl"), []byte(`name = "iter7"`), 0o644))

	a, err := r.Load("weighted:"+dir, 7)
	require.NoError(t, err)
	assert.Equal(t, "iter7", a.(*WeightedBot).Name)

	again, err := r.Load("weighted:"+dir, 7)
	require.NoError(t, err)
	assert.Same(t, a, again)

	_, err = r.Load("weighted:"+dir, 8)
	require.Error(t, err)
}

func TestBotsPlayFullHands(t *testing.T) {
	t.Parallel()
	r := NewResolver(nil)
	agents := make([]game.Agent, 3)
	for i, name := range []string{"random", "call", "maniac"} {
		a, err := r.Load(name, 0)
		require.NoError(t, err)
		agents[i] = a
	}

	for seed := int64(1); seed <= 200; seed++ {
		tree, err := game.NewTree(game.DefaultConfig(), game.WithSeed(seed))
		require.NoError(t, err)
		rewards, err := tree.PlayOneHand(agents, true)
		require.NoError(t, err, "seed %d", seed)

		sum := 0.0
		for _, r := range rewards {
			sum += r
		}
		require.InDelta(t, 0, sum, 1e-9, "seed %d", seed)
	}
}
