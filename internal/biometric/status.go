package biometric

// Status is the tier a channel reading falls into.
type Status int

const (
	StatusInactive Status = iota
	StatusNormal
	StatusWarning
	StatusCritical
)

func (s Status) String() string {
	switch s {
	case StatusNormal:
		return "normal"
	case StatusWarning:
		return "warning"
	case StatusCritical:
		return "critical"
	default:
		return "inactive"
	}
}

// Label is the human readable status shown next to a reading.
func (s Status) Label() string {
	switch s {
	case StatusNormal:
		return "Normal"
	case StatusWarning:
		return "Warning"
	case StatusCritical:
		return "Critical"
	default:
		return "Inactive"
	}
}

// Color is the hex colour used to render the status.
func (s Status) Color() string {
	switch s {
	case StatusNormal:
		return "#34C759"
	case StatusWarning:
		return "#FFC107"
	case StatusCritical:
		return "#FF3B30"
	default:
		return "#9E9E9E"
	}
}
