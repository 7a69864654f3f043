package telemetry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rileyhilliard/hazmon/internal/errors"
)

// Field names on the wire.
const (
	fieldType     = "type"
	fieldMQ3      = "mq3"
	fieldTemp     = "temp"
	fieldDistMQ3  = "dist_mq3"
	fieldDistTemp = "dist_temp"
	fieldNodes    = "nodes"
	fieldAlert    = "alert"
	fieldMessage  = "message"
	fieldSeverity = "severity"
	fieldOnline   = "online"
)

var sensorFields = []string{fieldMQ3, fieldTemp, fieldDistMQ3, fieldDistTemp}

// Decode parses one text frame into messages. Untyped frames can yield
// several messages, in the order sensors, nodes, alert.
//
// Every failure is an ErrDecode error; the caller drops the frame and
// carries on.
func Decode(raw []byte) ([]Message, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, decodeErr("Empty frame", nil)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, decodeErr("Frame is not a JSON object", err)
	}
	if fields == nil {
		return nil, decodeErr("Frame is null", nil)
	}

	if rawType, ok := present(fields, fieldType); ok {
		var typ string
		if err := json.Unmarshal(rawType, &typ); err != nil {
			return nil, decodeErr("Frame type must be a string", err)
		}
		msg, err := decodeTyped(strings.ToLower(typ), fields)
		if err != nil {
			return nil, err
		}
		return []Message{msg}, nil
	}

	return decodeUntyped(fields)
}

func decodeTyped(typ string, fields map[string]json.RawMessage) (Message, error) {
	switch typ {
	case TypeSensors:
		snap, found, err := decodeSensors(fields)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, decodeErr("Sensor frame carries no readings", nil)
		}
		return snap, nil

	case TypeNodes:
		list, found, err := decodeNodes(fields)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, decodeErr("Nodes frame is missing the nodes field", nil)
		}
		return list, nil

	case TypeAlert:
		var msg, severity string
		if err := decodeString(fields, fieldMessage, &msg); err != nil {
			return nil, err
		}
		if strings.TrimSpace(msg) == "" {
			return nil, decodeErr("Alert frame has no message", nil)
		}
		if err := decodeString(fields, fieldSeverity, &severity); err != nil {
			return nil, err
		}
		return Alert{Message: msg, Severity: severity}, nil

	case TypeStatus:
		rawOnline, ok := present(fields, fieldOnline)
		if !ok {
			return nil, decodeErr("Status frame is missing the online field", nil)
		}
		var online bool
		if err := json.Unmarshal(rawOnline, &online); err != nil {
			return nil, decodeErr("Status online must be a boolean", err)
		}
		return Status{Online: online}, nil

	default:
		return nil, decodeErr(fmt.Sprintf("Unknown frame type %q", typ), nil)
	}
}

func decodeUntyped(fields map[string]json.RawMessage) ([]Message, error) {
	var out []Message

	snap, found, err := decodeSensors(fields)
	if err != nil {
		return nil, err
	}
	if found {
		out = append(out, snap)
	}

	list, found, err := decodeNodes(fields)
	if err != nil {
		return nil, err
	}
	if found {
		out = append(out, list)
	}

	if rawAlert, ok := present(fields, fieldAlert); ok {
		var text string
		if err := json.Unmarshal(rawAlert, &text); err != nil {
			return nil, decodeErr("Legacy alert must be a string", err)
		}
		if strings.TrimSpace(text) != "" {
			out = append(out, Alert{Message: text, Legacy: true})
		}
	}

	if len(out) == 0 {
		return nil, decodeErr("Frame has no recognized fields", nil)
	}
	return out, nil
}

func decodeSensors(fields map[string]json.RawMessage) (SensorSnapshot, bool, error) {
	var snap SensorSnapshot
	targets := map[string]**float64{
		fieldMQ3:      &snap.MQ3,
		fieldTemp:     &snap.Temp,
		fieldDistMQ3:  &snap.DistMQ3,
		fieldDistTemp: &snap.DistTemp,
	}

	found := false
	for _, name := range sensorFields {
		raw, ok := present(fields, name)
		if !ok {
			continue
		}
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return SensorSnapshot{}, false, decodeErr(fmt.Sprintf("Sensor field %s must be a number", name), err)
		}
		*targets[name] = &v
		found = true
	}
	return snap, found, nil
}

func decodeNodes(fields map[string]json.RawMessage) (NodeList, bool, error) {
	raw, ok := fields[fieldNodes]
	if !ok {
		return NodeList{}, false, nil
	}
	if isNull(raw) {
		return NodeList{Nodes: []Node{}}, true, nil
	}

	var nodes []Node
	if err := json.Unmarshal(raw, &nodes); err != nil {
		return NodeList{}, false, decodeErr("Nodes must be a list of node objects", err)
	}
	if nodes == nil {
		nodes = []Node{}
	}
	return NodeList{Nodes: nodes}, true, nil
}

func decodeString(fields map[string]json.RawMessage, name string, dst *string) error {
	raw, ok := present(fields, name)
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return decodeErr(fmt.Sprintf("Field %s must be a string", name), err)
	}
	return nil
}

// present returns the raw field when it exists and is not JSON null.
func present(fields map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return nil, false
	}
	return raw, true
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeErr(message string, cause error) error {
	return errors.WrapWithCode(cause, errors.ErrDecode, message, "")
}
