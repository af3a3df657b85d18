package biometric_test

import (
	"math"
	"testing"
	"time"

	"codeberg.org/mutker/drivemon/internal/biometric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// script replays fixed draws in order.
type script struct {
	draws []float64
	i     int
}

func (s *script) Float64() float64 {
	v := s.draws[s.i%len(s.draws)]
	s.i++
	return v
}

func draws(v ...float64) *script {
	return &script{draws: v}
}

func inAnyBand(p biometric.Profile, v float64) bool {
	ranges := []biometric.Range{p.Normal, p.Warning[0], p.Warning[1], p.Critical[0], p.Critical[1]}
	for _, r := range ranges {
		if r.Contains(v) {
			return true
		}
	}
	return false
}

func TestSampleStaysInBandsForAllSeeds(t *testing.T) {
	for seed := uint64(1); seed <= 50; seed++ {
		src := biometric.NewSource(seed)
		for i := 0; i < 200; i++ {
			for _, c := range biometric.Channels {
				p := biometric.ProfileOf(c)
				r := biometric.Sample(c, src)

				require.True(t, inAnyBand(p, r.Value), "%s value %v outside bands (seed %d)", c, r.Value, seed)
				require.Equal(t, biometric.Classify(c, r.Value), r.Status,
					"%s value %v reported %s (seed %d)", c, r.Value, r.Status, seed)
			}
		}
	}
}

func TestSamplePrecision(t *testing.T) {
	src := biometric.NewSource(7)
	for i := 0; i < 500; i++ {
		hr := biometric.Sample(biometric.HeartRate, src).Value
		assert.Equal(t, math.Trunc(hr), hr)

		hrv := biometric.Sample(biometric.HRV, src).Value
		assert.Equal(t, math.Trunc(hrv), hrv)

		gsr := biometric.Sample(biometric.GSR, src).Value
		assert.InDelta(t, math.Round(gsr*10)/10, gsr, 1e-9)

		temp := biometric.Sample(biometric.Temperature, src).Value
		assert.InDelta(t, math.Round(temp*10)/10, temp, 1e-9)
	}
}

func TestForcedNormalHeartRate(t *testing.T) {
	for _, v := range []float64{0, 0.25, 0.5, 0.999} {
		r := biometric.Sample(biometric.HeartRate, draws(0.5, v))

		assert.Equal(t, biometric.StatusNormal, r.Status)
		assert.GreaterOrEqual(t, r.Value, 60.0)
		assert.Less(t, r.Value, 100.0)
		assert.Equal(t, math.Trunc(r.Value), r.Value)
	}
}

func TestForcedCriticalLowHeartRate(t *testing.T) {
	for _, v := range []float64{0, 0.5, 0.999} {
		r := biometric.Sample(biometric.HeartRate, draws(0.95, 0.2, v))

		assert.Equal(t, biometric.StatusCritical, r.Status)
		assert.GreaterOrEqual(t, r.Value, 30.0)
		assert.Less(t, r.Value, 50.0)
	}
}

func TestBandBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		draws  []float64
		status biometric.Status
		lo, hi float64
	}{
		{"just below warning", []float64{0.6999, 0}, biometric.StatusNormal, 60, 100},
		{"warning starts at 0.70", []float64{0.70, 0.1, 0}, biometric.StatusWarning, 50, 60},
		{"warning high side", []float64{0.80, 0.5, 0}, biometric.StatusWarning, 100, 120},
		{"critical starts at 0.90", []float64{0.90, 0.1, 0}, biometric.StatusCritical, 30, 50},
		{"critical high side", []float64{0.99, 0.7, 0.5}, biometric.StatusCritical, 120, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := biometric.Sample(biometric.HeartRate, draws(tt.draws...))
			assert.Equal(t, tt.status, r.Status)
			assert.GreaterOrEqual(t, r.Value, tt.lo)
			assert.Less(t, r.Value, tt.hi)
		})
	}
}

func TestDecimalRoundingKeepsTier(t *testing.T) {
	// 0.999 of the normal GSR range rounds to 20.0, which is the warning band.
	r := biometric.Sample(biometric.GSR, draws(0.1, 0.999))
	assert.Equal(t, biometric.StatusNormal, r.Status)
	assert.Equal(t, 19.9, r.Value)

	r = biometric.Sample(biometric.Temperature, draws(0.1, 0.9999))
	assert.Equal(t, biometric.StatusNormal, r.Status)
	assert.Equal(t, 37.1, r.Value)

	r = biometric.Sample(biometric.Temperature, draws(0.1, 0))
	assert.Equal(t, 36.1, r.Value)
	assert.Equal(t, biometric.StatusNormal, biometric.Classify(biometric.Temperature, r.Value))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		c    biometric.Channel
		v    float64
		want biometric.Status
	}{
		{biometric.HeartRate, 72, biometric.StatusNormal},
		{biometric.HeartRate, 100, biometric.StatusWarning},
		{biometric.HeartRate, 49, biometric.StatusCritical},
		{biometric.HeartRate, 200, biometric.StatusCritical},
		{biometric.HRV, 0, biometric.StatusCritical},
		{biometric.HRV, 15, biometric.StatusWarning},
		{biometric.GSR, 0.5, biometric.StatusWarning},
		{biometric.GSR, 0.4, biometric.StatusCritical},
		{biometric.Temperature, 36.1, biometric.StatusNormal},
		{biometric.Temperature, 37.2, biometric.StatusWarning},
		{biometric.Temperature, 38.5, biometric.StatusCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, biometric.Classify(tt.c, tt.v), "%s=%v", tt.c, tt.v)
	}
}

func TestSampleAllIsIndependentPerChannel(t *testing.T) {
	// Every channel gets its own tier draw: normal, warning, critical, normal.
	src := draws(
		0.1, 0.5, // heart rate
		0.75, 0.9, 0.5, // hrv: warning high
		0.95, 0.1, 0.5, // gsr: critical low
		0.3, 0.5, // temperature
	)
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	s := biometric.SampleAll(src, at)

	assert.Equal(t, at, s.SampledAt)
	assert.Equal(t, biometric.StatusNormal, s.HeartRate.Status)
	assert.Equal(t, biometric.StatusWarning, s.HRV.Status)
	assert.Equal(t, 70.0, s.HRV.Value)
	assert.Equal(t, biometric.StatusCritical, s.GSR.Status)
	assert.Equal(t, 0.3, s.GSR.Value)
	assert.Equal(t, biometric.StatusNormal, s.Temperature.Status)
	assert.Equal(t, biometric.StatusCritical, s.Worst())
}

func TestStatusDisplay(t *testing.T) {
	tests := []struct {
		s            biometric.Status
		label, color string
	}{
		{biometric.StatusNormal, "Normal", "#34C759"},
		{biometric.StatusWarning, "Warning", "#FFC107"},
		{biometric.StatusCritical, "Critical", "#FF3B30"},
		{biometric.StatusInactive, "Inactive", "#9E9E9E"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.label, tt.s.Label())
		assert.Equal(t, tt.color, tt.s.Color())
	}
}

func TestZeroSnapshotIsInactive(t *testing.T) {
	var s biometric.Snapshot
	for _, c := range biometric.Channels {
		assert.Equal(t, biometric.Reading{Value: 0, Status: biometric.StatusInactive}, s.Reading(c))
	}
	assert.Equal(t, biometric.StatusInactive, s.Worst())
}
