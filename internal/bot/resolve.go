package bot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/lox/pokerelo/internal/game"
)

// ErrUnknownAgent is returned for identities no loader understands.
var ErrUnknownAgent = errors.New("unknown agent")

// Loader turns a registered identity and iteration into a playable policy.
type Loader interface {
	Load(identity string, iteration int) (game.Agent, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(identity string, iteration int) (game.Agent, error)

func (f LoaderFunc) Load(identity string, iteration int) (game.Agent, error) {
	return f(identity, iteration)
}

// Resolver is the default Loader. It knows the built-in bots by name
// ("random", "call", "fold", "maniac") and loads "weighted:<path>" policies
// from HCL files. When path is a directory the file for the iteration,
// <path>/<iteration>.hcl, is used. Parsed policies are cached by file.
type Resolver struct {
	logger *log.Logger

	mu       sync.Mutex
	policies map[string]*WeightedBot
}

// NewResolver creates a Resolver; a nil logger discards.
func NewResolver(logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{
		logger:   logger.WithPrefix("bot"),
		policies: make(map[string]*WeightedBot),
	}
}

func (r *Resolver) Load(identity string, iteration int) (game.Agent, error) {
	if path, ok := strings.CutPrefix(identity, "weighted:"); ok {
		b, err := r.loadWeighted(path, iteration)
		if err != nil {
			return nil, err
		}
		return b, nil
	}

	switch strings.ToLower(identity) {
	case "random", "rand":
		return NewRandBot(), nil
	case "call", "calling", "calling-station":
		return NewCallBot(r.logger), nil
	case "fold":
		return NewFoldBot(), nil
	case "maniac", "aggressive":
		return NewManiacBot(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAgent, identity)
	}
}

func (r *Resolver) loadWeighted(path string, iteration int) (*WeightedBot, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, fmt.Sprintf("%d.hcl", iteration))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.policies[path]; ok {
		return b, nil
	}
	b, err := LoadWeighted(path)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("Loaded policy", "path", path, "name", b.Name)
	r.policies[path] = b
	return b, nil
}
