// Package simulator plays many seeded rounds with a fixed player strategy and
// aggregates the results.
package simulator

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/blackjack"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for running simulations
type Config struct {
	Rounds  int
	Workers int
	StandOn int
	Seed    int64
	Logger  *log.Logger
}

// Strategy picks the player's next action from the current view
type Strategy func(v blackjack.RoundView) blackjack.Action

// HitBelow hits while the player's effective sum is below standOn.
func HitBelow(standOn int) Strategy {
	return func(v blackjack.RoundView) blackjack.Action {
		if v.PlayerEffectiveSum < standOn {
			return blackjack.ActionHit
		}
		return blackjack.ActionStand
	}
}

// Simulator runs blackjack round simulations
type Simulator struct {
	config   Config
	strategy Strategy
	logger   *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Simulator{
		config:   config,
		strategy: HitBelow(config.StandOn),
		logger:   logger.WithPrefix("sim"),
	}
}

// Seeds returns the per-round seeds for a run. Round i always gets the same
// seed for a given master seed, whatever the worker count.
func Seeds(master int64, rounds int) []int64 {
	stream := randutil.New(master)
	seeds := make([]int64, rounds)
	for i := range seeds {
		seeds[i] = randutil.Derive(stream)
	}
	return seeds
}

// Run executes the simulation and returns the aggregate statistics
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if s.config.Rounds <= 0 {
		return nil, fmt.Errorf("rounds must be positive, got %d", s.config.Rounds)
	}

	workers := s.config.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > s.config.Rounds {
		workers = s.config.Rounds
	}

	seeds := Seeds(s.config.Seed, s.config.Rounds)
	perWorker := make([]*statistics.Statistics, workers)

	s.logger.Debug("Starting simulation", "rounds", s.config.Rounds, "workers", workers, "stand_on", s.config.StandOn, "seed", s.config.Seed)

	g, ctx := errgroup.WithContext(ctx)
	chunk := (len(seeds) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, len(seeds))
		if start >= end {
			perWorker[w] = &statistics.Statistics{}
			continue
		}

		g.Go(func() error {
			stats, err := s.runWorker(ctx, seeds[start:end])
			if err != nil {
				return fmt.Errorf("worker %d: %w", w, err)
			}
			perWorker[w] = stats
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := &statistics.Statistics{}
	for _, stats := range perWorker {
		total.Merge(stats)
	}

	if err := total.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	s.logger.Debug("Simulation complete", "rounds", total.Rounds, "mean", total.Mean())
	return total, nil
}

// runWorker plays seeds on one engine owned by this goroutine
func (s *Simulator) runWorker(ctx context.Context, seeds []int64) (*statistics.Statistics, error) {
	engine := blackjack.NewEngine(blackjack.WithLogger(s.logger))
	stats := &statistics.Statistics{}

	for i, seed := range seeds {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		result, err := PlayRound(engine, seed, s.strategy)
		if err != nil {
			return nil, fmt.Errorf("round seed %d: %w", seed, err)
		}
		stats.Add(result)
	}

	return stats, nil
}

// PlayRound plays one full round on engine with the given strategy
func PlayRound(engine *blackjack.Engine, seed int64, strategy Strategy) (statistics.RoundResult, error) {
	view := engine.Start(seed)
	result := statistics.RoundResult{Seed: seed}

	for view.CanAct() {
		var err error
		switch strategy(view) {
		case blackjack.ActionHit:
			result.Hits++
			view, err = engine.Hit()
		default:
			view, err = engine.Stand()
		}
		if err != nil {
			return statistics.RoundResult{}, err
		}
	}

	result.Outcome = view.Outcome
	result.PlayerSum = view.PlayerEffectiveSum
	result.DealerSum = view.DealerEffectiveSum
	// Dealer starts with two cards: the concealed one and one visible
	result.DealerDraw = len(view.DealerVisibleCards) - 2
	return result, nil
}
