package biometric

import (
	"math"
	"math/rand/v2"
	"time"
)

// Source yields uniform values in [0, 1).
type Source interface {
	Float64() float64
}

// NewSource returns a PCG-backed Source. A zero seed is replaced by the
// current time.
func NewSource(seed uint64) Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Reading is one channel value and its tier.
type Reading struct {
	Value  float64
	Status Status
}

// Snapshot is the full set of channel readings taken on one tick. The zero
// value is the inactive snapshot.
type Snapshot struct {
	HeartRate   Reading
	HRV         Reading
	GSR         Reading
	Temperature Reading
	SampledAt   time.Time
}

// Reading returns the reading of channel c.
func (s Snapshot) Reading(c Channel) Reading {
	switch c {
	case HeartRate:
		return s.HeartRate
	case HRV:
		return s.HRV
	case GSR:
		return s.GSR
	default:
		return s.Temperature
	}
}

func (s *Snapshot) set(c Channel, r Reading) {
	switch c {
	case HeartRate:
		s.HeartRate = r
	case HRV:
		s.HRV = r
	case GSR:
		s.GSR = r
	default:
		s.Temperature = r
	}
}

// Worst returns the most severe status across all channels.
func (s Snapshot) Worst() Status {
	worst := StatusInactive
	for _, c := range Channels {
		if st := s.Reading(c).Status; st > worst {
			worst = st
		}
	}

	return worst
}

// band maps the first draw onto a tier: the tier applies while r is below upper.
type band struct {
	upper  float64
	status Status
}

var bands = []band{
	{upper: 0.70, status: StatusNormal},
	{upper: 0.90, status: StatusWarning},
	{upper: 1.00, status: StatusCritical},
}

func tierOf(r float64) Status {
	for _, b := range bands {
		if r < b.upper {
			return b.status
		}
	}

	return StatusCritical
}

// Sample draws one reading for channel c. The first draw picks the tier, a
// second draw picks the low or high side for warning and critical tiers, and
// the last draw picks the value inside the chosen range.
func Sample(c Channel, src Source) Reading {
	p := profiles[c]

	status := tierOf(src.Float64())

	var rng Range
	switch status {
	case StatusNormal:
		rng = p.Normal
	case StatusWarning:
		rng = p.Warning[side(src)]
	default:
		rng = p.Critical[side(src)]
	}

	v := rng.Min + src.Float64()*(rng.Max-rng.Min)

	return Reading{
		Value:  quantize(v, rng, p.Decimals),
		Status: status,
	}
}

// SampleAll draws a fresh snapshot, one independent reading per channel.
func SampleAll(src Source, at time.Time) Snapshot {
	s := Snapshot{SampledAt: at}
	for _, c := range Channels {
		s.set(c, Sample(c, src))
	}

	return s
}

// side returns 0 (low) or 1 (high) with equal probability.
func side(src Source) int {
	if src.Float64() < 0.5 {
		return 0
	}

	return 1
}

// quantize truncates integer channels and rounds decimal channels, keeping
// the result inside rng so the value still classifies into the drawn tier.
func quantize(v float64, rng Range, decimals int) float64 {
	if decimals == 0 {
		return math.Floor(v)
	}

	scale := math.Pow10(decimals)
	q := math.Round(v*scale) / scale

	if q >= rng.Max {
		q = (math.Round(rng.Max*scale) - 1) / scale
	}
	if q < rng.Min {
		q = math.Round(rng.Min*scale) / scale
	}

	return q
}
