package sim

// PredictiveBackfillScheduler fills capacity gaps by working through a
// strategy cascade:
//
//  1. the most work-efficient job (iterations per GPU-second), if its
//     efficiency clears a threshold
//  2. the shortest job among those small enough to slot into gaps
//  3. the least GPU-hungry job among those shorter than the lookahead window
//  4. the shortest remaining job, as the fallback
//
// Every stage breaks ties by earliest submit time then ascending ID, so
// selection is deterministic for a fixed pending set.
type PredictiveBackfillScheduler struct {
	MinGPUThreshold     int     // Max GPU demand for a job to count as backfill-sized
	TimeWindow          float64 // Lookahead window in simulated seconds
	EfficiencyThreshold float64 // Minimum iterations per GPU-second for stage 1
}

// NewPredictiveBackfillScheduler returns the scheduler with the reference
// defaults: 2 GPU backfill size, 1 hour window, 0.1 efficiency floor.
func NewPredictiveBackfillScheduler() *PredictiveBackfillScheduler {
	return &PredictiveBackfillScheduler{
		MinGPUThreshold:     2,
		TimeWindow:          3600.0,
		EfficiencyThreshold: 0.1,
	}
}

func (p *PredictiveBackfillScheduler) Name() string { return "predictive-backfill" }

func (p *PredictiveBackfillScheduler) SelectJob(pending []*Job, _ float64) *Job {
	if len(pending) == 0 {
		return nil
	}

	mostEfficient := maxJob(pending, func(a, b *Job) bool {
		ea, eb := jobEfficiency(a), jobEfficiency(b)
		if ea != eb {
			return ea < eb
		}
		return earlierSubmit(b, a)
	})
	if jobEfficiency(mostEfficient) > p.EfficiencyThreshold {
		return mostEfficient
	}

	var small []*Job
	for _, j := range pending {
		if j.NumGPU <= p.MinGPUThreshold {
			small = append(small, j)
		}
	}
	if len(small) > 0 {
		return minJob(small, func(a, b *Job) bool {
			if a.RemainingTime() != b.RemainingTime() {
				return a.RemainingTime() < b.RemainingTime()
			}
			return earlierSubmit(a, b)
		})
	}

	var medium []*Job
	for _, j := range pending {
		if j.RemainingTime() < p.TimeWindow {
			medium = append(medium, j)
		}
	}
	if len(medium) > 0 {
		return minJob(medium, func(a, b *Job) bool {
			if a.NumGPU != b.NumGPU {
				return a.NumGPU < b.NumGPU
			}
			return earlierSubmit(a, b)
		})
	}

	return minJob(pending, func(a, b *Job) bool {
		if a.RemainingTime() != b.RemainingTime() {
			return a.RemainingTime() < b.RemainingTime()
		}
		return earlierSubmit(a, b)
	})
}

// jobEfficiency is work delivered per GPU-second of remaining occupancy.
// Jobs with no remaining work are placed for free, so they rank highest.
func jobEfficiency(j *Job) float64 {
	denom := float64(j.NumGPU) * j.RemainingTime()
	if denom <= 0 {
		return float64(j.Iterations)
	}
	return float64(j.Iterations) / denom
}
