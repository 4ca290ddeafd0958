package workload

import (
	"github.com/sirupsen/logrus"
	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// JobArrival is one generated submission: when it arrives and the job
// parameters to submit.
type JobArrival struct {
	SubmitTime float64
	NumGPU     int
	Iterations int
	ModelName  string
	Duration   float64
}

// Generator draws a deterministic arrival sequence from a WorkloadSpec.
// All distributions share one seeded source, so equal seeds produce equal
// streams.
type Generator struct {
	spec     WorkloadSpec
	rng      *exprand.Rand
	gap      distuv.Exponential // inter-arrival gaps (Poisson process)
	gpuDist  distuv.Beta        // GPU demand, scaled onto [1, max]
	duration distuv.Weibull     // per-iteration duration
}

// NewGenerator validates the spec and prepares the seeded distributions.
func NewGenerator(spec WorkloadSpec) (*Generator, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	src := exprand.NewSource(uint64(spec.Seed))
	return &Generator{
		spec:     spec,
		rng:      exprand.New(src),
		gap:      distuv.Exponential{Rate: spec.Arrival.Rate, Src: src},
		gpuDist:  distuv.Beta{Alpha: spec.GPU.Alpha, Beta: spec.GPU.Beta, Src: src},
		duration: distuv.Weibull{Lambda: spec.Duration.Lambda, K: spec.Duration.K, Src: src},
	}, nil
}

// Generate produces the full arrival sequence, ordered by submit time.
func (g *Generator) Generate() []JobArrival {
	arrivals := make([]JobArrival, 0, g.spec.Count)
	clock := 0.0
	for i := 0; i < g.spec.Count; i++ {
		clock += g.gap.Rand()
		arrivals = append(arrivals, JobArrival{
			SubmitTime: clock,
			NumGPU:     g.drawGPUs(),
			Iterations: g.drawIterations(),
			ModelName:  g.drawModel(),
			Duration:   g.drawDuration(),
		})
	}
	logrus.Debugf("generated %d arrivals over %.2fs", len(arrivals), clock)
	return arrivals
}

// drawGPUs scales a Beta draw onto [1, max].
func (g *Generator) drawGPUs() int {
	gpus := 1 + int(g.gpuDist.Rand()*float64(g.spec.GPU.Max))
	if gpus > g.spec.GPU.Max {
		gpus = g.spec.GPU.Max
	}
	return gpus
}

func (g *Generator) drawIterations() int {
	span := g.spec.Iterations.Max - g.spec.Iterations.Min + 1
	return g.spec.Iterations.Min + g.rng.Intn(span)
}

// drawDuration keeps durations strictly positive; a Weibull draw can
// round to zero at small lambda.
func (g *Generator) drawDuration() float64 {
	d := g.duration.Rand()
	if d <= 0 {
		d = 0.1
	}
	return d
}

func (g *Generator) drawModel() string {
	if len(g.spec.Models) == 0 {
		return "unnamed"
	}
	return g.spec.Models[g.rng.Intn(len(g.spec.Models))]
}
