package dashboard

import "github.com/rileyhilliard/hazmon/internal/telemetry"

// DangerAlert is added to the feed when readings cross into danger.
const DangerAlert = "THRESHOLD_DANGER_SENSOR"

// Default thresholds for the danger status.
const (
	DefaultGasThreshold  = 350.0
	DefaultFireThreshold = 60.0
)

// Thresholds decide when the sensor readings mean danger.
type Thresholds struct {
	Gas  float64
	Fire float64
}

// Danger reports whether either reading is at or over its threshold.
// Missing readings never count as danger.
func (t Thresholds) Danger(s telemetry.SensorSnapshot) bool {
	if s.MQ3 != nil && *s.MQ3 >= t.Gas {
		return true
	}
	return s.Temp != nil && *s.Temp >= t.Fire
}

// mergeSnapshot overlays the fields present in next onto prev.
func mergeSnapshot(prev, next telemetry.SensorSnapshot) telemetry.SensorSnapshot {
	if next.MQ3 != nil {
		prev.MQ3 = next.MQ3
	}
	if next.Temp != nil {
		prev.Temp = next.Temp
	}
	if next.DistMQ3 != nil {
		prev.DistMQ3 = next.DistMQ3
	}
	if next.DistTemp != nil {
		prev.DistTemp = next.DistTemp
	}
	return prev
}
