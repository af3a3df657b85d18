package biometric

// Channel is one monitored vital sign.
type Channel int

const (
	HeartRate Channel = iota
	HRV
	GSR
	Temperature
)

// Channels lists every channel in display order.
var Channels = []Channel{HeartRate, HRV, GSR, Temperature}

// Range is a half-open interval [Min, Max).
type Range struct {
	Min, Max float64
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v < r.Max
}

// Profile holds the threshold bands of a channel. Warning and Critical hold
// the low side first.
type Profile struct {
	Channel  Channel
	Name     string
	Key      string
	Unit     string
	Normal   Range
	Warning  [2]Range
	Critical [2]Range
	// Decimals is the number of decimal places kept; 0 truncates to an integer.
	Decimals int
}

var profiles = [...]Profile{
	HeartRate: {
		Channel:  HeartRate,
		Name:     "Heart Rate",
		Key:      "heart_rate",
		Unit:     "BPM",
		Normal:   Range{60, 100},
		Warning:  [2]Range{{50, 60}, {100, 120}},
		Critical: [2]Range{{30, 50}, {120, 150}},
	},
	HRV: {
		Channel:  HRV,
		Name:     "HRV",
		Key:      "hrv",
		Unit:     "ms",
		Normal:   Range{20, 60},
		Warning:  [2]Range{{10, 20}, {60, 80}},
		Critical: [2]Range{{0, 10}, {80, 100}},
	},
	GSR: {
		Channel:  GSR,
		Name:     "GSR",
		Key:      "gsr",
		Unit:     "μS",
		Normal:   Range{2, 20},
		Warning:  [2]Range{{0.5, 2}, {20, 25}},
		Critical: [2]Range{{0, 0.5}, {25, 30}},
		Decimals: 1,
	},
	Temperature: {
		Channel:  Temperature,
		Name:     "Temperature",
		Key:      "temperature",
		Unit:     "°C",
		Normal:   Range{36.1, 37.2},
		Warning:  [2]Range{{35, 36.1}, {37.2, 38}},
		Critical: [2]Range{{34, 35}, {38, 39}},
		Decimals: 1,
	},
}

// ProfileOf returns the threshold profile of c.
func ProfileOf(c Channel) Profile {
	return profiles[c]
}

func (c Channel) String() string {
	return profiles[c].Key
}

// Classify returns the tier v falls into for channel c. Values outside every
// band are critical.
func Classify(c Channel, v float64) Status {
	p := profiles[c]

	switch {
	case p.Normal.Contains(v):
		return StatusNormal
	case p.Warning[0].Contains(v), p.Warning[1].Contains(v):
		return StatusWarning
	default:
		return StatusCritical
	}
}

// IsLow reports whether v is below the normal range of c.
func IsLow(c Channel, v float64) bool {
	return v < profiles[c].Normal.Min
}
