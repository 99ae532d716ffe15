// Package aprstats aggregates daily APR samples per vault and smooths them
// with a simple moving average for the dashboard charts.
package aprstats

import (
	"fmt"
	"sync"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
)

const (
	defaultWindow = 7
	maxSamples    = 4096
)

// Tracker accumulates daily APR observations keyed by vault id. Each series
// is capped at the most recent observations.
type Tracker struct {
	mu      sync.RWMutex
	samples map[string][]float64
	window  int
}

// NewTracker creates a tracker with the given smoothing window in samples.
func NewTracker(window int) *Tracker {
	if window < 1 {
		window = defaultWindow
	}
	return &Tracker{
		samples: make(map[string][]float64),
		window:  window,
	}
}

// Record appends a daily APR observation for the vault.
func (t *Tracker) Record(vaultID string, dailyApr float64) {
	t.mu.Lock()
	recorded := append(t.samples[vaultID], dailyApr)
	if len(recorded) > maxSamples {
		recorded = recorded[len(recorded)-maxSamples:]
	}
	t.samples[vaultID] = recorded
	t.mu.Unlock()
}

// Samples returns a copy of the recorded observations for the vault.
func (t *Tracker) Samples(vaultID string) []float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	recorded := t.samples[vaultID]
	out := make([]float64, len(recorded))
	copy(out, recorded)
	return out
}

// AverageDailyApr returns the arithmetic mean of all observations for the vault.
func (t *Tracker) AverageDailyApr(vaultID string) (float64, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	recorded := t.samples[vaultID]
	if len(recorded) == 0 {
		return 0, fmt.Errorf("no apr samples recorded for %s", vaultID)
	}

	sum := 0.0
	for _, sample := range recorded {
		sum += sample
	}
	return sum / float64(len(recorded)), nil
}

// SmoothedDailyApr returns the moving average series over the tracker window.
// The result has len(samples)-window+1 points.
func (t *Tracker) SmoothedDailyApr(vaultID string) ([]float64, error) {
	recorded := t.Samples(vaultID)
	if len(recorded) < t.window {
		return nil, fmt.Errorf("not enough apr samples for %s: need %d, got %d", vaultID, t.window, len(recorded))
	}

	sma := trend.NewSmaWithPeriod[float64](t.window)
	smoothed := helper.ChanToSlice(sma.Compute(helper.SliceToChan(recorded)))
	return smoothed, nil
}
