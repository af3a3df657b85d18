package alert

// Kind is the type of alert raised to the driver.
type Kind int

const (
	KindDrowsiness Kind = iota
	KindHealth
)

func (k Kind) String() string {
	if k == KindHealth {
		return "health"
	}

	return "drowsiness"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "drowsiness":
		return KindDrowsiness, true
	case "health":
		return KindHealth, true
	default:
		return 0, false
	}
}

// Content is the text shown for an alert and its detail sheet.
type Content struct {
	Title           string
	Description     string
	SheetTitle      string
	Explanation     string
	Recommendations []string
}

var contents = map[Kind]Content{
	KindDrowsiness: {
		Title:       "Drowsiness Detected",
		Description: "You appear to be showing signs of drowsiness. Please take a break.",
		SheetTitle:  "Drowsiness Alert",
		Explanation: "We detected signs of drowsiness based on your biometric data. HRV decreases, " +
			"along with reduced GSR and consistent patterns in movement, may indicate drowsiness.",
		Recommendations: []string{
			"Find a safe place to stop and rest",
			"Take a 15-20 minute power nap",
			"Consider consuming caffeine before resuming",
		},
	},
	KindHealth: {
		Title: "Health Alert",
		Description: "Potential health issue detected. Consider pulling over safely.\n" +
			"An emergency has been sent to the emergency contact.",
		SheetTitle: "Health Alert",
		Explanation: "We detected potential health concerns. Sudden changes in heart rate, decreasing " +
			"skin temperature, and unusual GSR patterns may indicate a possible health issue.",
		Recommendations: []string{
			"Pull over safely if possible",
			"Contact emergency services if symptoms persist",
			"Try to remain calm and practice deep breathing",
		},
	},
}

// Content returns the display text of k.
func (k Kind) Content() Content {
	return contents[k]
}

// Trigger records why an alert was raised.
type Trigger int

const (
	// TriggerTimed alerts are scheduled relative to the start of a drive.
	TriggerTimed Trigger = iota
	// TriggerManual alerts are raised on request.
	TriggerManual
	// TriggerThreshold alerts come from sampled biometric statuses.
	TriggerThreshold
)

func (t Trigger) String() string {
	switch t {
	case TriggerManual:
		return "manual"
	case TriggerThreshold:
		return "threshold"
	default:
		return "timed"
	}
}
