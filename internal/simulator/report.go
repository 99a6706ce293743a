package simulator

import (
	"fmt"
	"time"

	"github.com/lox/blackjack/internal/fileutil"
	"github.com/lox/blackjack/internal/statistics"
	"github.com/pterm/pterm"
)

// Report is the serialisable summary of a simulation run
type Report struct {
	Seed    int64 `json:"seed"`
	Rounds  int   `json:"rounds"`
	Workers int   `json:"workers"`
	StandOn int   `json:"stand_on"`

	PlayerWins  int `json:"player_wins"`
	DealerWins  int `json:"dealer_wins"`
	Ties        int `json:"ties"`
	PlayerBusts int `json:"player_busts"`
	DealerBusts int `json:"dealer_busts"`

	WinRate  float64 `json:"win_rate"`
	TieRate  float64 `json:"tie_rate"`
	LossRate float64 `json:"loss_rate"`

	MeanNet  float64 `json:"mean_net"`
	StdDev   float64 `json:"std_dev"`
	CI95Low  float64 `json:"ci95_low"`
	CI95High float64 `json:"ci95_high"`

	AvgHits        float64 `json:"avg_hits"`
	AvgDealerDraws float64 `json:"avg_dealer_draws"`

	Elapsed string `json:"elapsed,omitempty"`
}

// NewReport builds a report from a configuration and its results
func NewReport(cfg Config, stats *statistics.Statistics, elapsed time.Duration) Report {
	low, high := stats.ConfidenceInterval95()

	r := Report{
		Seed:        cfg.Seed,
		Rounds:      stats.Rounds,
		Workers:     cfg.Workers,
		StandOn:     cfg.StandOn,
		PlayerWins:  stats.PlayerWins,
		DealerWins:  stats.DealerWins,
		Ties:        stats.Ties,
		PlayerBusts: stats.PlayerBusts,
		DealerBusts: stats.DealerBusts,
		WinRate:     stats.WinRate(),
		TieRate:     stats.TieRate(),
		LossRate:    stats.LossRate(),
		MeanNet:     stats.Mean(),
		StdDev:      stats.StdDev(),
		CI95Low:     low,
		CI95High:    high,
	}
	if stats.Rounds > 0 {
		r.AvgHits = float64(stats.Hits) / float64(stats.Rounds)
		r.AvgDealerDraws = float64(stats.DealerDraws) / float64(stats.Rounds)
	}
	if elapsed > 0 {
		r.Elapsed = elapsed.Round(time.Millisecond).String()
	}
	return r
}

// WriteJSON writes the report to filename atomically
func (r Report) WriteJSON(filename string) error {
	return fileutil.WriteJSONAtomic(filename, r, 0o644)
}

// Table renders the report as a text table
func (r Report) Table() (string, error) {
	data := pterm.TableData{
		{"Metric", "Value"},
		{"Rounds", fmt.Sprintf("%d", r.Rounds)},
		{"Seed", fmt.Sprintf("%d", r.Seed)},
		{"Stand on", fmt.Sprintf("%d", r.StandOn)},
		{"Player wins", fmt.Sprintf("%d (%.2f%%)", r.PlayerWins, r.WinRate*100)},
		{"Dealer wins", fmt.Sprintf("%d (%.2f%%)", r.DealerWins, r.LossRate*100)},
		{"Ties", fmt.Sprintf("%d (%.2f%%)", r.Ties, r.TieRate*100)},
		{"Player busts", fmt.Sprintf("%d", r.PlayerBusts)},
		{"Dealer busts", fmt.Sprintf("%d", r.DealerBusts)},
		{"Mean net/round", fmt.Sprintf("%+.4f", r.MeanNet)},
		{"Std dev", fmt.Sprintf("%.4f", r.StdDev)},
		{"95% CI", fmt.Sprintf("[%+.4f, %+.4f]", r.CI95Low, r.CI95High)},
		{"Avg hits", fmt.Sprintf("%.3f", r.AvgHits)},
		{"Avg dealer draws", fmt.Sprintf("%.3f", r.AvgDealerDraws)},
	}
	if r.Elapsed != "" {
		data = append(data, []string{"Elapsed", r.Elapsed})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}
