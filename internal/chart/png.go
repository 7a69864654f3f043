package chart

import (
	"io"

	"github.com/rileyhilliard/hazmon/internal/errors"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// PNGSurface draws with go-chart's raster renderer. One surface unit is one
// pixel.
type PNGSurface struct {
	width, height int
	r             gochart.Renderer

	Background  drawing.Color
	Baseline    drawing.Color
	Stroke      drawing.Color
	StrokeWidth float64

	lines int
}

// NewPNGSurface creates a blank width x height image.
func NewPNGSurface(width, height int) (*PNGSurface, error) {
	r, err := gochart.PNG(width, height)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrRender,
			"Couldn't create the chart image", "")
	}
	s := &PNGSurface{
		width:       width,
		height:      height,
		r:           r,
		Background:  gochart.ColorWhite,
		Baseline:    gochart.ColorLightGray,
		Stroke:      gochart.ColorBlue,
		StrokeWidth: 2,
	}
	s.Clear()
	return s, nil
}

func (s *PNGSurface) Size() (int, int) { return s.width, s.height }

func (s *PNGSurface) Clear() {
	s.r.ResetStyle()
	s.r.SetFillColor(s.Background)
	s.r.MoveTo(0, 0)
	s.r.LineTo(s.width, 0)
	s.r.LineTo(s.width, s.height)
	s.r.LineTo(0, s.height)
	s.r.Close()
	s.r.Fill()
	s.lines = 0
}

// Line draws in the baseline colour; polylines use Stroke.
func (s *PNGSurface) Line(from, to Point) {
	s.segment(from, to, s.Baseline, 1)
}

func (s *PNGSurface) Polyline(pts []Point) {
	for i := 1; i < len(pts); i++ {
		s.segment(pts[i-1], pts[i], s.Stroke, s.StrokeWidth)
	}
}

func (s *PNGSurface) segment(from, to Point, color drawing.Color, width float64) {
	a, b, ok := clipSegment(from, to, float64(s.width-1), float64(s.height-1))
	if !ok {
		return
	}
	s.r.ResetStyle()
	s.r.SetStrokeColor(color)
	s.r.SetStrokeWidth(width)
	s.r.MoveTo(clamp(a.X, s.width-1), clamp(a.Y, s.height-1))
	s.r.LineTo(clamp(b.X, s.width-1), clamp(b.Y, s.height-1))
	s.r.Stroke()
	s.lines++
}

// Segments counts the segments drawn since the last Clear.
func (s *PNGSurface) Segments() int { return s.lines }

// Save encodes the image as PNG.
func (s *PNGSurface) Save(w io.Writer) error {
	if err := s.r.Save(w); err != nil {
		return errors.WrapWithCode(err, errors.ErrRender, "Couldn't write the chart image", "")
	}
	return nil
}
