package telemetry

import (
	"encoding/json"
	"fmt"
)

type sensorsFrame struct {
	Type     string   `json:"type"`
	MQ3      *float64 `json:"mq3,omitempty"`
	Temp     *float64 `json:"temp,omitempty"`
	DistMQ3  *float64 `json:"dist_mq3,omitempty"`
	DistTemp *float64 `json:"dist_temp,omitempty"`
}

type nodesFrame struct {
	Type  string `json:"type"`
	Nodes []Node `json:"nodes"`
}

type alertFrame struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Severity string `json:"severity,omitempty"`
}

type statusFrame struct {
	Type   string `json:"type"`
	Online bool   `json:"online"`
}

// Encode renders a message in the canonical typed wire shape.
func Encode(m Message) ([]byte, error) {
	switch v := m.(type) {
	case SensorSnapshot:
		return json.Marshal(sensorsFrame{Type: TypeSensors, MQ3: v.MQ3, Temp: v.Temp, DistMQ3: v.DistMQ3, DistTemp: v.DistTemp})
	case NodeList:
		nodes := v.Nodes
		if nodes == nil {
			nodes = []Node{}
		}
		return json.Marshal(nodesFrame{Type: TypeNodes, Nodes: nodes})
	case Alert:
		return json.Marshal(alertFrame{Type: TypeAlert, Message: v.Message, Severity: v.Severity})
	case Status:
		return json.Marshal(statusFrame{Type: TypeStatus, Online: v.Online})
	default:
		return nil, fmt.Errorf("telemetry: cannot encode %T", m)
	}
}

// MustEncode is Encode for fixtures; it panics on error.
func MustEncode(m Message) []byte {
	b, err := Encode(m)
	if err != nil {
		panic(err)
	}
	return b
}
