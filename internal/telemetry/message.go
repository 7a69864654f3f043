// Package telemetry defines the frames pushed by the sensor collector over
// its WebSocket and the decoder that turns them into tagged messages.
//
// The canonical wire shape is a JSON object discriminated by "type":
//
//	{"type":"sensors","mq3":412.5,"temp":24.1,"dist_mq3":1.8,"dist_temp":3.2}
//	{"type":"nodes","nodes":[{"label":"gas","value":412.5,"unit":"ppm","distance":1.8,"dist_unit":"m"}]}
//	{"type":"alert","message":"Gas detected","severity":"critical"}
//	{"type":"status","online":true}
//
// Frames without a "type" are routed by field presence so older collectors
// keep working: sensor fields, "nodes" and a plain-string "alert" may all
// appear in one frame. The plain-string "alert" field is deprecated.
package telemetry

// Kind discriminates decoded messages.
type Kind int

const (
	KindSensors Kind = iota
	KindNodes
	KindAlert
	KindStatus
)

// Wire type tags.
const (
	TypeSensors = "sensors"
	TypeNodes   = "nodes"
	TypeAlert   = "alert"
	TypeStatus  = "status"
)

// String returns the wire tag for the kind.
func (k Kind) String() string {
	switch k {
	case KindSensors:
		return TypeSensors
	case KindNodes:
		return TypeNodes
	case KindAlert:
		return TypeAlert
	case KindStatus:
		return TypeStatus
	default:
		return "unknown"
	}
}

// Message is one decoded unit of telemetry.
type Message interface {
	Kind() Kind
}

// SensorSnapshot carries the latest smoothed sensor readings.
// A nil field was absent from the frame.
type SensorSnapshot struct {
	MQ3      *float64
	Temp     *float64
	DistMQ3  *float64
	DistTemp *float64
}

// Kind implements Message.
func (SensorSnapshot) Kind() Kind { return KindSensors }

// Field returns the reading with the given wire name (mq3, temp, dist_mq3,
// dist_temp), or nil if it is absent or the name is unknown.
func (s SensorSnapshot) Field(name string) *float64 {
	switch name {
	case fieldMQ3:
		return s.MQ3
	case fieldTemp:
		return s.Temp
	case fieldDistMQ3:
		return s.DistMQ3
	case fieldDistTemp:
		return s.DistTemp
	default:
		return nil
	}
}

// Node is one beacon in the proximity list.
type Node struct {
	Label    string  `json:"label"`
	Value    float64 `json:"value"`
	Unit     string  `json:"unit"`
	Distance float64 `json:"distance"`
	DistUnit string  `json:"dist_unit"`
}

// NodeList replaces the displayed node list. An empty list is meaningful:
// no nodes are in range.
type NodeList struct {
	Nodes []Node
}

// Kind implements Message.
func (NodeList) Kind() Kind { return KindNodes }

// Alert is a free-text event raised by the collector.
type Alert struct {
	Message  string
	Severity string

	// Legacy is set when the alert arrived in the deprecated plain-string form.
	Legacy bool
}

// Kind implements Message.
func (Alert) Kind() Kind { return KindAlert }

// Status reports whether the collector itself considers its sensors online.
type Status struct {
	Online bool
}

// Kind implements Message.
func (Status) Kind() Kind { return KindStatus }

// Float returns a pointer to v, for building snapshots.
func Float(v float64) *float64 {
	return &v
}
