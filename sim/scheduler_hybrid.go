package sim

// HybridPriorityScheduler blends three signals into a single score:
// shorter jobs rank higher, jobs waiting past the aging threshold get a
// boost that grows with wait time, and GPU-hungry jobs take a penalty so
// one large job does not starve many small ones. Highest score wins;
// ties break by earliest submit time then ascending ID.
//
// Scores depend only on job fields and the simulation clock, so selection
// is deterministic for a fixed pending set and clock.
type HybridPriorityScheduler struct {
	AgingThreshold float64 // Pending seconds before the aging boost applies
	AgingBoost     float64 // Maximum multiplier once MaxWaitTime is reached
	MaxWaitTime    float64 // Wait time at which the boost saturates
}

// NewHybridPriorityScheduler returns the scheduler with the defaults from
// the reference policy: 5 minute threshold, 2x boost, 30 minute saturation.
func NewHybridPriorityScheduler() *HybridPriorityScheduler {
	return &HybridPriorityScheduler{
		AgingThreshold: 300.0,
		AgingBoost:     2.0,
		MaxWaitTime:    1800.0,
	}
}

func (h *HybridPriorityScheduler) Name() string { return "hybrid-priority" }

func (h *HybridPriorityScheduler) SelectJob(pending []*Job, clock float64) *Job {
	return maxJob(pending, func(a, b *Job) bool {
		sa, sb := h.score(a, clock), h.score(b, clock)
		if sa != sb {
			return sa < sb
		}
		// maxJob flips the comparison, so the tie-break flips too.
		return earlierSubmit(b, a)
	})
}

func (h *HybridPriorityScheduler) score(j *Job, clock float64) float64 {
	base := 1.0 / (1.0 + j.RemainingTime()/3600)

	aging := 1.0
	if wait := clock - j.SubmitTime; wait > h.AgingThreshold {
		factor := wait / h.MaxWaitTime
		if factor > 1.0 {
			factor = 1.0
		}
		aging = h.AgingBoost * factor
	}

	gpuPenalty := 1.0 / (1.0 + float64(j.NumGPU)/4)

	return base * aging * gpuPenalty
}
