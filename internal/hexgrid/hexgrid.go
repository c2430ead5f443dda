// Package hexgrid implements geometry on the fixed battle board: an odd-row
// offset hex grid (odd rows are shifted half a hex to the right).
package hexgrid

import "math"

const (
	Cols        = 7
	RowsPerSide = 4
	Rows        = RowsPerSide * 2
)

// Hex is one board cell in offset coordinates.
type Hex struct {
	Col int `json:"col" yaml:"col"`
	Row int `json:"row" yaml:"row"`
}

func (h Hex) IsOdd() bool { return h.Row%2 != 0 }

// InBounds reports whether h lies on the board.
func InBounds(h Hex) bool {
	return h.Col >= 0 && h.Col < Cols && h.Row >= 0 && h.Row < Rows
}

// TeamOf returns the team owning the half of the board h sits on.
func TeamOf(h Hex) int {
	if h.Row < RowsPerSide {
		return 0
	}
	return 1
}

// Inverse mirrors h through the board center.
func Inverse(h Hex) Hex {
	return Hex{Col: Cols - h.Col - 1, Row: Rows - h.Row - 1}
}

type axial struct{ q, r int }

func toAxial(h Hex) axial {
	return axial{q: h.Col - (h.Row-(h.Row&1))/2, r: h.Row}
}

func fromAxial(a axial) Hex {
	return Hex{Col: a.q + (a.r-(a.r&1))/2, Row: a.r}
}

var directions = [6]axial{
	{q: 1, r: 0},
	{q: 1, r: -1},
	{q: 0, r: -1},
	{q: -1, r: 0},
	{q: -1, r: 1},
	{q: 0, r: 1},
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Distance is the number of steps on the shortest path between a and b.
func Distance(a, b Hex) int {
	x, y := toAxial(a), toAxial(b)
	dq := x.q - y.q
	dr := x.r - y.r
	return (abs(dq) + abs(dr) + abs(dq+dr)) / 2
}

// Neighbors returns the in-bounds hexes adjacent to h.
func Neighbors(h Hex) []Hex {
	return Ring(h, 1)
}

// Ring returns every in-bounds hex exactly radius steps from center.
// Radius 0 yields the center itself.
func Ring(center Hex, radius int) []Hex {
	if radius <= 0 {
		return []Hex{center}
	}
	c := toAxial(center)
	cur := axial{q: c.q + directions[4].q*radius, r: c.r + directions[4].r*radius}
	out := make([]Hex, 0, 6*radius)
	for side := 0; side < 6; side++ {
		for step := 0; step < radius; step++ {
			if h := fromAxial(cur); InBounds(h) {
				out = append(out, h)
			}
			cur = axial{q: cur.q + directions[side].q, r: cur.r + directions[side].r}
		}
	}
	return out
}

// Within returns all in-bounds hexes at distance 0..radius from center,
// nearest rings first.
func Within(center Hex, radius int) []Hex {
	var out []Hex
	for d := 0; d <= radius; d++ {
		out = append(out, Ring(center, d)...)
	}
	return out
}

// ClosestFree walks outward from target and returns the first hex not in
// occupied. It fails only when every board hex is occupied.
func ClosestFree(target Hex, occupied map[Hex]bool) (Hex, bool) {
	if !InBounds(target) {
		target = clamp(target)
	}
	seen := map[Hex]bool{target: true}
	queue := []Hex{target}
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if !occupied[h] {
			return h, true
		}
		for _, n := range Neighbors(h) {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return Hex{}, false
}

func clamp(h Hex) Hex {
	h.Col = min(max(h.Col, 0), Cols-1)
	h.Row = min(max(h.Row, 0), Rows-1)
	return h
}

// All lists every board hex row by row.
func All() []Hex {
	out := make([]Hex, 0, Cols*Rows)
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			out = append(out, Hex{Col: col, Row: row})
		}
	}
	return out
}

// Center returns the continuous position of h where adjacent centers are
// exactly one unit apart.
func Center(h Hex) (x, y float64) {
	x = float64(h.Col)
	if h.IsOdd() {
		x += 0.5
	}
	return x, float64(h.Row) * math.Sqrt(3) / 2
}
