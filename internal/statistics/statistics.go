package statistics

import (
	"fmt"
	"math"

	"github.com/lox/blackjack/internal/blackjack"
)

// RoundResult represents the outcome of a single round for the player
type RoundResult struct {
	Seed       int64             // RNG seed for this round (for replay)
	Outcome    blackjack.Outcome // Final outcome
	PlayerSum  int               // Player's effective sum at the end
	DealerSum  int               // Dealer's effective sum at the end
	Hits       int               // Number of hits the player took
	DealerDraw int               // Cards the dealer drew after the stand
}

// Net returns the unit result: +1 for a win, -1 for a loss, 0 for a tie
func (r RoundResult) Net() int {
	switch r.Outcome {
	case blackjack.PlayerWin:
		return 1
	case blackjack.DealerWin:
		return -1
	default:
		return 0
	}
}

// Statistics tracks aggregate results over many rounds. Every field is an
// integer count so merging partial results in any order gives the same totals.
type Statistics struct {
	Rounds  int
	SumNet  int
	SumNet2 int // Sum of squared unit results, for variance

	PlayerWins  int
	DealerWins  int
	Ties        int
	PlayerBusts int // Rounds lost by going over 21
	DealerBusts int // Rounds won because the dealer went over 21

	Hits        int
	DealerDraws int

	// PlayerSums counts final player sums, index 0 unused. Busted hands above
	// 30 are counted at 30.
	PlayerSums [31]int
}

// Add incorporates a round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	net := result.Net()
	s.Rounds++
	s.SumNet += net
	s.SumNet2 += net * net

	switch result.Outcome {
	case blackjack.PlayerWin:
		s.PlayerWins++
		if result.DealerSum > blackjack.BlackjackValue {
			s.DealerBusts++
		}
	case blackjack.DealerWin:
		s.DealerWins++
		if result.PlayerSum > blackjack.BlackjackValue {
			s.PlayerBusts++
		}
	case blackjack.Tie:
		s.Ties++
	}

	s.Hits += result.Hits
	s.DealerDraws += result.DealerDraw

	sum := result.PlayerSum
	if sum > len(s.PlayerSums)-1 {
		sum = len(s.PlayerSums) - 1
	}
	if sum > 0 {
		s.PlayerSums[sum]++
	}
}

// Merge folds another set of statistics into s
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumNet += other.SumNet
	s.SumNet2 += other.SumNet2
	s.PlayerWins += other.PlayerWins
	s.DealerWins += other.DealerWins
	s.Ties += other.Ties
	s.PlayerBusts += other.PlayerBusts
	s.DealerBusts += other.DealerBusts
	s.Hits += other.Hits
	s.DealerDraws += other.DealerDraws
	for i := range s.PlayerSums {
		s.PlayerSums[i] += other.PlayerSums[i]
	}
}

// Mean returns the average unit result per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.SumNet) / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (float64(s.SumNet2) - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// WinRate returns the fraction of rounds the player won
func (s *Statistics) WinRate() float64 {
	return s.rate(s.PlayerWins)
}

// TieRate returns the fraction of rounds that tied
func (s *Statistics) TieRate() float64 {
	return s.rate(s.Ties)
}

// LossRate returns the fraction of rounds the dealer won
func (s *Statistics) LossRate() float64 {
	return s.rate(s.DealerWins)
}

func (s *Statistics) rate(n int) float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(n) / float64(s.Rounds)
}

// Validate checks that the counts are consistent with each other
func (s *Statistics) Validate() error {
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	if total := s.PlayerWins + s.DealerWins + s.Ties; total != s.Rounds {
		return fmt.Errorf("outcomes total (%d) does not match rounds (%d)", total, s.Rounds)
	}

	if s.SumNet != s.PlayerWins-s.DealerWins {
		return fmt.Errorf("ledger mismatch: SumNet=%d, wins=%d, losses=%d", s.SumNet, s.PlayerWins, s.DealerWins)
	}

	if s.SumNet2 != s.PlayerWins+s.DealerWins {
		return fmt.Errorf("ledger mismatch: SumNet2=%d, decided rounds=%d", s.SumNet2, s.PlayerWins+s.DealerWins)
	}

	if s.PlayerBusts > s.DealerWins {
		return fmt.Errorf("player busts (%d) exceed dealer wins (%d)", s.PlayerBusts, s.DealerWins)
	}
	if s.DealerBusts > s.PlayerWins {
		return fmt.Errorf("dealer busts (%d) exceed player wins (%d)", s.DealerBusts, s.PlayerWins)
	}

	hands := 0
	for _, n := range s.PlayerSums {
		hands += n
	}
	if hands != s.Rounds {
		return fmt.Errorf("player sums total (%d) does not match rounds (%d)", hands, s.Rounds)
	}

	return nil
}
