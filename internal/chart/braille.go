package chart

import (
	"math"
	"strings"
)

// Braille cells are 2 dots wide and 4 tall. U+2800 is the empty cell and
// each dot sets one bit:
//
//	1 4
//	2 5
//	3 6
//	7 8
const brailleBase = '⠀'

// brailleBits[row][col] is the bit for the dot at that position in a cell.
var brailleBits = [4][2]uint8{
	{0, 3},
	{1, 4},
	{2, 5},
	{6, 7},
}

// BrailleSurface is a terminal canvas. One surface unit is one braille dot,
// so a surface of cols x rows cells is (2*cols) x (4*rows) units.
type BrailleSurface struct {
	cols, rows int
	cells      [][]rune
}

// NewBrailleSurface creates a blank canvas of cols x rows terminal cells.
func NewBrailleSurface(cols, rows int) *BrailleSurface {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	s := &BrailleSurface{cols: cols, rows: rows, cells: make([][]rune, rows)}
	for i := range s.cells {
		s.cells[i] = make([]rune, cols)
	}
	s.Clear()
	return s
}

// Cells returns the canvas size in terminal cells.
func (s *BrailleSurface) Cells() (cols, rows int) { return s.cols, s.rows }

func (s *BrailleSurface) Size() (int, int) { return s.cols * 2, s.rows * 4 }

func (s *BrailleSurface) Clear() {
	for _, row := range s.cells {
		for j := range row {
			row[j] = brailleBase
		}
	}
}

func (s *BrailleSurface) Line(from, to Point) {
	w, h := s.Size()
	a, b, ok := clipSegment(from, to, float64(w-1), float64(h-1))
	if !ok {
		return
	}
	s.bresenham(clamp(a.X, w-1), clamp(a.Y, h-1), clamp(b.X, w-1), clamp(b.Y, h-1))
}

func (s *BrailleSurface) Polyline(pts []Point) {
	for i := 1; i < len(pts); i++ {
		s.Line(pts[i-1], pts[i])
	}
}

// Dot reports whether the dot at (x, y) is set.
func (s *BrailleSurface) Dot(x, y int) bool {
	w, h := s.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return false
	}
	bit := rune(1) << brailleBits[y%4][x%2]
	return s.cells[y/4][x/2]&bit != 0
}

// Lines renders each cell row as a string.
func (s *BrailleSurface) Lines() []string {
	out := make([]string, s.rows)
	for i, row := range s.cells {
		out[i] = string(row)
	}
	return out
}

// String renders the canvas, rows separated by newlines.
func (s *BrailleSurface) String() string {
	return strings.Join(s.Lines(), "\n")
}

func (s *BrailleSurface) set(x, y int) {
	w, h := s.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	s.cells[y/4][x/2] |= rune(1) << brailleBits[y%4][x%2]
}

func (s *BrailleSurface) bresenham(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy

	for {
		s.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// clipSegment trims a segment to the rectangle [0,maxX]x[0,maxY]
// (Liang-Barsky). ok is false when nothing of the segment is inside.
func clipSegment(a, b Point, maxX, maxY float64) (Point, Point, bool) {
	if maxX < 0 || maxY < 0 {
		return a, b, false
	}
	dx, dy := b.X-a.X, b.Y-a.Y
	if !finite(a.X, a.Y, b.X, b.Y, dx, dy) {
		return a, b, false
	}
	t0, t1 := 0.0, 1.0

	edges := [4][2]float64{
		{-dx, a.X},
		{dx, maxX - a.X},
		{-dy, a.Y},
		{dy, maxY - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return a, b, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return a, b, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}

	return Point{X: a.X + t0*dx, Y: a.Y + t0*dy},
		Point{X: a.X + t1*dx, Y: a.Y + t1*dy}, true
}

// clamp rounds v to the nearest dot in [0, maxV].
func clamp(v float64, maxV int) int {
	r := int(math.Round(v))
	if r < 0 {
		return 0
	}
	if r > maxV {
		return maxV
	}
	return r
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
