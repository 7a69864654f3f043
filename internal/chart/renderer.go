package chart

import "math"

// BaselineInset is how far above the bottom edge the baseline sits.
const BaselineInset = 2

// Renderer keeps a rolling buffer and mirrors it onto a surface.
type Renderer struct {
	buf     *Buffer
	surface Surface
}

// NewRenderer creates a renderer with the given capacity and draws the
// empty chart.
func NewRenderer(capacity int, surface Surface) *Renderer {
	r := &Renderer{buf: NewBuffer(capacity), surface: surface}
	r.Redraw()
	return r
}

// AddSample appends v and redraws. Any finite value is accepted, however
// far off the surface it lands; NaN and infinities have no position and are
// skipped.
func (r *Renderer) AddSample(v float64) {
	if !math.IsNaN(v) && !math.IsInf(v, 0) {
		r.buf.Add(v)
	}
	r.Redraw()
}

// Redraw clears the surface and draws the baseline, plus the polyline when
// there are at least two samples. Calling it again without new samples
// draws exactly the same thing.
func (r *Renderer) Redraw() {
	r.surface.Clear()

	w, h := r.surface.Size()
	baseline := float64(h - BaselineInset)
	r.surface.Line(Point{X: 0, Y: baseline}, Point{X: float64(w), Y: baseline})

	values := r.buf.Values()
	n := len(values)
	if n < 2 {
		return
	}

	pts := make([]Point, n)
	for i, v := range values {
		pts[i] = Point{
			X: float64(i) * float64(w) / float64(n-1),
			Y: baseline - v,
		}
	}
	r.surface.Polyline(pts)
}

// Values returns the buffered samples oldest first.
func (r *Renderer) Values() []float64 { return r.buf.Values() }

// Len is the number of buffered samples.
func (r *Renderer) Len() int { return r.buf.Len() }

// Reset drops all samples and redraws the empty chart.
func (r *Renderer) Reset() {
	r.buf.Reset()
	r.Redraw()
}
