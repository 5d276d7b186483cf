// Package workload synthesizes Azure-Functions-shaped applications, functions,
// and per-minute invocation bursts for the simulator to drive. The reference
// implementation fits these distributions against the Azure Functions trace;
// this package ships fixed, representative parameters instead of a trace
// loader.
package workload

import (
	"math"
	"math/rand"
)

// LognormalSampler draws positive durations from a log-normal distribution,
// mirroring scipy.stats.lognorm.rvs(s, loc, scale).
type LognormalSampler struct {
	Shape float64 // scipy's "s" (sigma of the underlying normal)
	Loc   float64
	Scale float64
}

// Sample returns a value in milliseconds, clipped to be at least 1ms the way
// the original clips exec_time_list to (1, None).
func (s LognormalSampler) Sample(rng *rand.Rand) int64 {
	z := rng.NormFloat64()
	val := s.Loc + s.Scale*math.Exp(s.Shape*z)
	rounded := int64(math.Round(val))
	if rounded < 1 {
		return 1
	}
	return rounded
}

// MemoryMixtureSampler approximates a 3-component Gaussian mixture over
// application memory footprints (MB), mirroring fit_memory_distribution's
// GaussianMixture(n_components=3, covariance_type="spherical").
type MemoryMixtureSampler struct {
	Weights []float64 // must sum to 1, len == len(Means) == len(StdDevs)
	Means   []float64
	StdDevs []float64
	Min     int64
	Max     int64
}

// Sample picks a component by weight, then draws a clamped Gaussian from it.
func (s MemoryMixtureSampler) Sample(rng *rand.Rand) int64 {
	u := rng.Float64()
	component := len(s.Weights) - 1
	cumulative := 0.0
	for i, w := range s.Weights {
		cumulative += w
		if u < cumulative {
			component = i
			break
		}
	}
	val := rng.NormFloat64()*s.StdDevs[component] + s.Means[component]
	clamped := math.Min(float64(s.Max), math.Max(float64(s.Min), val))
	return int64(math.Round(clamped))
}

// DefaultExecTimeSampler is the fixed stand-in for
// fit_fun_execution_time_distribution(triggers={"http"}, fit_trigger="http"):
// Azure HTTP-trigger function execution times skew heavily toward tens of
// milliseconds with a long tail.
var DefaultExecTimeSampler = LognormalSampler{Shape: 0.9, Loc: 0, Scale: 45}

// DefaultMemorySampler is the fixed stand-in for fit_memory_distribution's
// application-memory mixture: most applications cluster around 128MB and
// 256MB, with a small long tail near 1.5GB.
var DefaultMemorySampler = MemoryMixtureSampler{
	Weights: []float64{0.55, 0.35, 0.10},
	Means:   []float64{128, 256, 1536},
	StdDevs: []float64{32, 64, 256},
	Min:     64,
	Max:     3008,
}

// invocationRateCurve approximates fit_fun_invocation_distribution's
// np.poly1d(degree=5) fit of invocation count against minute-of-day: with
// the default coefficients it rises monotonically across the day, from 6 at
// minute 0 to roughly 1040 near minute 1440, most steeply in the morning.
// coeffs are evaluated highest-degree-first, matching
// np.poly1d's convention.
type invocationRateCurve struct {
	coeffs []float64
}

// eval evaluates the polynomial at minute x via Horner's method.
func (c invocationRateCurve) eval(x float64) float64 {
	result := 0.0
	for _, coeff := range c.coeffs {
		result = result*x + coeff
	}
	return result
}

// DefaultInvocationRateCurve is the fixed stand-in for the Azure trace's
// weekday HTTP-trigger invocation-count fit, normalized to minute-of-day
// in [0, 1440).
var DefaultInvocationRateCurve = invocationRateCurve{
	coeffs: []float64{
		-1.4e-13, 8.9e-10, -1.9e-6, 1.6e-3, 0.3, 6.0,
	},
}

// RateAt returns the expected per-function invocation count at minuteOfDay,
// floored at 1 so that no function ever contributes a non-positive count.
func (c invocationRateCurve) RateAt(minuteOfDay int) int {
	v := int(c.eval(float64(minuteOfDay)))
	if v < 1 {
		return 1
	}
	return v
}

// RateAt is exported on the package-level default curve.
func RateAt(minuteOfDay int) int {
	return DefaultInvocationRateCurve.RateAt(minuteOfDay)
}
