package dashboard

import (
	"math"
	"testing"

	"github.com/rileyhilliard/hazmon/internal/telemetry"
	"github.com/stretchr/testify/assert"
)

func TestFormatReading(t *testing.T) {
	tests := []struct {
		name string
		in   *float64
		want string
	}{
		{"nil", nil, Placeholder},
		{"rounds down", telemetry.Float(12.34), "12.3"},
		{"rounds up", telemetry.Float(20.56), "20.6"},
		{"integer", telemetry.Float(350), "350.0"},
		{"negative", telemetry.Float(-4.21), "-4.2"},
		{"tie rounds away from zero", telemetry.Float(21.25), "21.3"},
		{"tie above odd digit", telemetry.Float(21.75), "21.8"},
		{"negative tie", telemetry.Float(-1.25), "-1.3"},
		{"below tie in binary", telemetry.Float(1.05), "1.1"},
		{"just under tie in binary", telemetry.Float(0.15), "0.1"},
		{"large", telemetry.Float(123456.75), "123456.8"},
		{"nan", telemetry.Float(math.NaN()), Placeholder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatReading(tt.in))
		})
	}
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		name string
		in   *float64
		want string
	}{
		{"nil", nil, Placeholder},
		{"rounds down", telemetry.Float(1.234), "1.23"},
		{"rounds up", telemetry.Float(0.987), "0.99"},
		{"zero", telemetry.Float(0), "0.00"},
		{"tie rounds away from zero", telemetry.Float(0.125), "0.13"},
		{"tie above odd digit", telemetry.Float(1.375), "1.38"},
		{"exact value below tie", telemetry.Float(1.005), "1.00"},
		{"small", telemetry.Float(0.004), "0.00"},
		{"negative zero", telemetry.Float(math.Copysign(0, -1)), "0.00"},
		{"inf", telemetry.Float(math.Inf(1)), Placeholder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDistance(tt.in))
		})
	}
}
