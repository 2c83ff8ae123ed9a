package tournament

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteStateFormat(t *testing.T) {
	t.Parallel()
	tour := newTestTournament(t, Options{}, "random", "call")
	setRating(tour, 1, Rating{Elo: 2410.25, HandsPlayed: 123456, OverMaxRating: true})

	var buf bytes.Buffer
	require.NoError(t, tour.WriteState(&buf))
	assert.Equal(t, "0;1400;random;0;false\n1;2410.25;call;123456;true\n", buf.String())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "ratings.txt")

	tour := newTestTournament(t, Options{}, "random", "call", "maniac")
	setRating(tour, 0, Rating{Elo: 1423.7361, HandsPlayed: 17})
	setRating(tour, 1, Rating{Elo: 2401.0001, HandsPlayed: 250000, OverMaxRating: true})
	setRating(tour, 2, Rating{Elo: 0.1, HandsPlayed: 3})
	require.NoError(t, tour.SaveState(path))

	loaded := newTestTournament(t, Options{})
	require.NoError(t, loaded.LoadState(path))
	require.Equal(t, tour.AgentCount(), loaded.AgentCount())

	for i, want := range tour.Standings() {
		got := loaded.Standings()[i]
		assert.Equal(t, want.Identity, got.Identity)
		assert.Equal(t, want.Iteration, got.Iteration)
		assert.Equal(t, want.Rating, got.Rating, "record %d", i)
		assert.NotNil(t, got.Agent)
	}
}

func TestReadStateOptionalFields(t *testing.T) {
	t.Parallel()
	tour := newTestTournament(t, Options{})
	require.NoError(t, tour.ReadState(strings.NewReader("3;1512.5;random\n\n4;1300;call;42\n")))

	standings := tour.Standings()
	require.Len(t, standings, 2)
	assert.Equal(t, Rating{Elo: 1512.5}, standings[0].Rating)
	assert.Equal(t, 3, standings[0].Iteration)
	assert.Equal(t, Rating{Elo: 1300, HandsPlayed: 42}, standings[1].Rating)
}

func TestReadStateRejectsMalformedInput(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		line string
	}{
		{"too few fields", "1;1400"},
		{"too many fields", "1;1400;random;0;false;extra"},
		{"bad iteration", "x;1400;random"},
		{"negative iteration", "-1;1400;random"},
		{"bad elo", "1;abc;random"},
		{"nan elo", "1;NaN;random"},
		{"negative hands", "1;1400;random;-1"},
		{"bad flag", "1;1400;random;5;maybe"},
		{"unknown agent", "1;1400;gto-wizard;5;false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tour := newTestTournament(t, Options{})
			err := tour.ReadState(strings.NewReader("0;1400;random;0;false\n" + tt.line + "\n"))
			require.ErrorIs(t, err, ErrPersistence)

			var perr *PersistenceError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, 2, perr.Line)
			assert.Zero(t, tour.AgentCount(), "a failed load registers nothing")
		})
	}
}

func TestLoadStateMissingFile(t *testing.T) {
	t.Parallel()
	tour := newTestTournament(t, Options{})
	err := tour.LoadState(filepath.Join(t.TempDir(), "missing.txt"))
	require.ErrorIs(t, err, ErrPersistence)
}

func TestSaveStateUnwritablePath(t *testing.T) {
	t.Parallel()
	tour := newTestTournament(t, Options{}, "random")
	err := tour.SaveState(filepath.Join(t.TempDir(), "no", "such", "dir", "ratings.txt"))
	require.ErrorIs(t, err, ErrPersistence)
}
