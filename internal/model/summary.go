package model

// Thresholds used to flag readings on the dashboards and in summaries.
const (
	// HeartRateHigh is the average BPM at or above which heart rate is flagged.
	HeartRateHigh = 95

	// RespirationHigh is the breaths per minute at or above which respiration is flagged.
	RespirationHigh = 20

	// SleepScoreLow is the score at or below which sleep is flagged.
	SleepScoreLow = 60
)

// AlertKind identifies which reading triggered an alert.
type AlertKind int

const (
	// AlertHeartRateHigh is raised when Readings.BPM >= HeartRateHigh.
	AlertHeartRateHigh AlertKind = iota

	// AlertRespirationHigh is raised when Readings.Respiration >= RespirationHigh.
	AlertRespirationHigh

	// AlertSleepLow is raised when Readings.SleepScore <= SleepScoreLow.
	AlertSleepLow
)

// String returns a short machine-friendly name for the alert kind.
func (k AlertKind) String() string {
	switch k {
	case AlertHeartRateHigh:
		return "heart_rate_high"
	case AlertRespirationHigh:
		return "respiration_high"
	case AlertSleepLow:
		return "sleep_low"
	default:
		return "unknown"
	}
}

// Label returns the French label displayed to practitioners.
func (k AlertKind) Label() string {
	switch k {
	case AlertHeartRateHigh:
		return "Fréquence cardiaque élevée"
	case AlertRespirationHigh:
		return "Fréquence respiratoire élevée"
	case AlertSleepLow:
		return "Qualité de sommeil faible"
	default:
		return "Alerte inconnue"
	}
}

// MarshalText lets AlertKind appear as its String form in JSON.
func (k AlertKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Summary is a profile together with the alerts derived from its readings.
type Summary struct {
	Profile Profile     `json:"profile"`
	Alerts  []AlertKind `json:"alerts"`
}

// NewSummary computes the alerts for p.
// Alerts is never nil so that it serializes as an empty list.
func NewSummary(p Profile) *Summary {
	alerts := make([]AlertKind, 0, 3)
	if p.Readings.BPM >= HeartRateHigh {
		alerts = append(alerts, AlertHeartRateHigh)
	}
	if p.Readings.Respiration >= RespirationHigh {
		alerts = append(alerts, AlertRespirationHigh)
	}
	if p.Readings.SleepScore <= SleepScoreLow {
		alerts = append(alerts, AlertSleepLow)
	}
	return &Summary{Profile: p, Alerts: alerts}
}

// HasAlerts reports whether any reading crossed its threshold.
func (s *Summary) HasAlerts() bool {
	return len(s.Alerts) > 0
}
