package sim

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// SmartBatchScheduler groups pending jobs by model family and looks for a
// batch of similar jobs worth draining together. A batch scores by work
// per GPU-second (batch time is bounded by its longest member) with a
// bonus for homogeneous shape (low variance in remaining time and GPU
// demand). When a good-enough batch exists the scheduler returns its head
// job; otherwise it falls back to the best individual job by a combined
// efficiency score.
type SmartBatchScheduler struct {
	BatchSizeThreshold int // Minimum jobs to count as a batch
	MaxBatchSize       int // Largest batch window evaluated
	MaxBatchGPU        int // GPU budget a batch may not exceed
}

// NewSmartBatchScheduler returns the scheduler with the reference
// defaults: batches of 3-5 jobs within an 8 GPU budget.
func NewSmartBatchScheduler() *SmartBatchScheduler {
	return &SmartBatchScheduler{
		BatchSizeThreshold: 3,
		MaxBatchSize:       5,
		MaxBatchGPU:        8,
	}
}

func (s *SmartBatchScheduler) Name() string { return "smart-batch" }

func (s *SmartBatchScheduler) SelectJob(pending []*Job, _ float64) *Job {
	if len(pending) == 0 {
		return nil
	}
	if batch := s.findBestBatch(pending); len(batch) >= s.BatchSizeThreshold {
		return batch[0]
	}
	return s.selectIndividual(pending)
}

// findBestBatch evaluates sliding windows of similar-family jobs and
// returns the highest-scoring batch, or nil when none qualifies.
// Families are visited in sorted name order and jobs keep their queue
// order within a family, so the result is deterministic.
func (s *SmartBatchScheduler) findBestBatch(pending []*Job) []*Job {
	if len(pending) < s.BatchSizeThreshold {
		return nil
	}

	families := make(map[string][]*Job)
	for _, j := range pending {
		fam := modelFamily(j.ModelName)
		families[fam] = append(families[fam], j)
	}
	names := make([]string, 0, len(families))
	for fam := range families {
		names = append(names, fam)
	}
	sort.Strings(names)

	var best []*Job
	bestScore := 0.0
	for _, fam := range names {
		jobs := families[fam]
		if len(jobs) < s.BatchSizeThreshold {
			continue
		}
		maxSize := s.MaxBatchSize
		if maxSize > len(jobs) {
			maxSize = len(jobs)
		}
		for size := s.BatchSizeThreshold; size <= maxSize; size++ {
			for i := 0; i+size <= len(jobs); i++ {
				batch := jobs[i : i+size]
				if score := s.batchScore(batch); score > bestScore {
					bestScore = score
					best = batch
				}
			}
		}
	}
	return best
}

// batchScore combines work-per-GPU-second efficiency with a similarity
// bonus; zero means the batch is invalid (over the GPU budget).
func (s *SmartBatchScheduler) batchScore(batch []*Job) float64 {
	totalGPUs := 0
	totalWork := 0.0
	longest := 0.0
	remaining := make([]float64, len(batch))
	gpus := make([]float64, len(batch))
	for i, j := range batch {
		totalGPUs += j.NumGPU
		totalWork += float64(j.Iterations)
		remaining[i] = j.RemainingTime()
		gpus[i] = float64(j.NumGPU)
		if remaining[i] > longest {
			longest = remaining[i]
		}
	}
	if totalGPUs > s.MaxBatchGPU {
		return 0
	}

	gpuTime := float64(totalGPUs) * longest
	if gpuTime <= 0 {
		return 0
	}
	efficiency := totalWork / gpuTime

	similarity := 1.0 / (1.0 + stat.PopVariance(remaining, nil) + stat.PopVariance(gpus, nil))
	return efficiency * similarity
}

// selectIndividual scores each job on efficiency, GPU frugality, and
// shortness, returning the highest scorer with deterministic ties.
func (s *SmartBatchScheduler) selectIndividual(pending []*Job) *Job {
	return maxJob(pending, func(a, b *Job) bool {
		sa, sb := individualScore(a), individualScore(b)
		if sa != sb {
			return sa < sb
		}
		return earlierSubmit(b, a)
	})
}

func individualScore(j *Job) float64 {
	gpuScore := 1.0 / (1.0 + float64(j.NumGPU)/4)
	timeScore := 1.0 / (1.0 + j.RemainingTime()/3600)
	return jobEfficiency(j) * gpuScore * timeScore
}

// modelFamily buckets a model label into a coarse architecture family.
func modelFamily(modelName string) string {
	name := strings.ToLower(modelName)
	switch {
	case strings.Contains(name, "resnet"):
		return "resnet"
	case strings.Contains(name, "bert"):
		return "bert"
	case strings.Contains(name, "transformer"):
		return "transformer"
	case strings.Contains(name, "lstm"):
		return "lstm"
	default:
		return "other"
	}
}
