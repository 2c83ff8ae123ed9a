package tournament

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/lox/pokerelo/internal/fileutil"
)

// The rating table is stored one record per line in roster order:
//
//	iteration;elo;identity;hands_played;over_max_rating
//
// The last two fields may be omitted and default to 0 and false.

// SaveState atomically replaces path with the current rating table.
func (t *Tournament) SaveState(path string) error {
	err := fileutil.WriteAtomic(path, 0o644, t.WriteState)
	if err != nil {
		var perr *PersistenceError
		if errors.As(err, &perr) {
			perr.Path = path
			return perr
		}
		return &PersistenceError{Path: path, Err: err}
	}
	t.logger.Info("Saved ratings", "path", path, "agents", len(t.records))
	return nil
}

// WriteState writes the rating table to w.
func (t *Tournament) WriteState(w io.Writer) error {
	for i, s := range t.Standings() {
		_, err := fmt.Fprintf(w, "%d;%s;%s;%d;%t\n",
			s.Iteration,
			strconv.FormatFloat(float64(s.Elo), 'g', -1, 32),
			s.Identity,
			s.HandsPlayed,
			s.OverMaxRating)
		if err != nil {
			return &PersistenceError{Line: i + 1, Err: err}
		}
	}
	return nil
}

// LoadState appends the records saved at path to the roster.
func (t *Tournament) LoadState(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	defer f.Close()

	if err := t.ReadState(f); err != nil {
		var perr *PersistenceError
		if errors.As(err, &perr) {
			perr.Path = path
			return perr
		}
		return &PersistenceError{Path: path, Err: err}
	}
	t.logger.Info("Loaded ratings", "path", path, "agents", len(t.records))
	return nil
}

// ReadState parses a rating table from r and registers every record in it.
// Nothing is registered unless every line parses and every agent resolves.
func (t *Tournament) ReadState(r io.Reader) error {
	var loaded []*record
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		rec, err := t.parseRecord(text)
		if err != nil {
			return &PersistenceError{Line: line, Err: err}
		}
		loaded = append(loaded, rec)
	}
	if err := scanner.Err(); err != nil {
		return &PersistenceError{Line: line, Err: err}
	}
	t.records = append(t.records, loaded...)
	return nil
}

func (t *Tournament) parseRecord(text string) (*record, error) {
	parts := strings.Split(text, ";")
	if len(parts) < 3 || len(parts) > 5 {
		return nil, fmt.Errorf("expected 3 to 5 fields, got %d", len(parts))
	}

	iteration, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid iteration: %w", err)
	}
	elo, err := strconv.ParseFloat(parts[1], 32)
	if err != nil {
		return nil, fmt.Errorf("invalid elo: %w", err)
	}
	if math.IsNaN(elo) || math.IsInf(elo, 0) {
		return nil, fmt.Errorf("invalid elo %q", parts[1])
	}
	hands := uint64(0)
	if len(parts) > 3 {
		if hands, err = strconv.ParseUint(parts[3], 10, 63); err != nil {
			return nil, fmt.Errorf("invalid hands played: %w", err)
		}
	}
	over := false
	if len(parts) > 4 {
		switch parts[4] {
		case "true":
			over = true
		case "false":
		default:
			return nil, fmt.Errorf("invalid over_max_rating %q", parts[4])
		}
	}

	rec, err := t.newRecord(parts[2], int(iteration))
	if err != nil {
		return nil, err
	}
	rec.rating = Rating{Elo: float32(elo), HandsPlayed: int(hands), OverMaxRating: over}
	return rec, nil
}
