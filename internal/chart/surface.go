package chart

import "fmt"

// Point is a position in surface units, origin top-left, y growing down.
type Point struct {
	X, Y float64
}

// Surface is something a Renderer can draw on.
type Surface interface {
	// Size is the drawable area in surface units.
	Size() (width, height int)
	// Clear erases everything drawn so far.
	Clear()
	// Line draws a straight segment. Points outside the surface are clipped.
	Line(from, to Point)
	// Polyline draws connected segments through pts in order.
	Polyline(pts []Point)
}

// Op is one recorded drawing command.
type Op struct {
	Name   string
	Points []Point
}

func (o Op) String() string {
	return fmt.Sprintf("%s%v", o.Name, o.Points)
}

// RecordingSurface draws nothing and remembers every command since the last
// Clear. Two redraws of the same state produce equal Ops.
type RecordingSurface struct {
	Width, Height int

	ops    []Op
	clears int
}

// NewRecordingSurface returns a recording surface of the given size.
func NewRecordingSurface(width, height int) *RecordingSurface {
	return &RecordingSurface{Width: width, Height: height}
}

func (s *RecordingSurface) Size() (int, int) { return s.Width, s.Height }

func (s *RecordingSurface) Clear() {
	s.ops = s.ops[:0]
	s.clears++
}

func (s *RecordingSurface) Line(from, to Point) {
	s.ops = append(s.ops, Op{Name: "line", Points: []Point{from, to}})
}

func (s *RecordingSurface) Polyline(pts []Point) {
	cp := make([]Point, len(pts))
	copy(cp, pts)
	s.ops = append(s.ops, Op{Name: "polyline", Points: cp})
}

// Ops returns a copy of the commands drawn since the last Clear.
func (s *RecordingSurface) Ops() []Op {
	out := make([]Op, len(s.ops))
	copy(out, s.ops)
	return out
}

// Clears counts how many times the surface was cleared.
func (s *RecordingSurface) Clears() int { return s.clears }
