// Package earcut triangulates polygons with holes by ear clipping.
//
// Input is a flat coordinate list (x0, y0, x1, y1, ...) with an optional
// stride for extra per-vertex components, plus the vertex index at which
// each hole ring starts. Output is a flat list of vertex indices, three per
// triangle.
package earcut

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrInvalidInput = errors.New("earcut: invalid input")

// node is a vertex in a circular doubly linked ring.
type node struct {
	i          int // vertex offset in the coordinate list
	x, y       float64
	prev, next *node
	steiner    bool
}

// Triangulate returns the triangle indices of the polygon described by
// data. dim is the number of components per vertex; only the first two are
// read. A polygon with fewer than three distinct vertices yields no
// triangles.
func Triangulate(data []float64, holeIndices []int, dim int) ([]int, error) {
	if dim < 2 {
		return nil, fmt.Errorf("%w: dimension %d", ErrInvalidInput, dim)
	}
	if len(data)%dim != 0 {
		return nil, fmt.Errorf("%w: %d coordinates for dimension %d", ErrInvalidInput, len(data), dim)
	}
	n := len(data) / dim
	prevHole := 0
	for _, h := range holeIndices {
		if h <= prevHole || h >= n {
			return nil, fmt.Errorf("%w: hole index %d", ErrInvalidInput, h)
		}
		prevHole = h
	}
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite coordinate", ErrInvalidInput)
		}
	}

	outerLen := len(data)
	if len(holeIndices) > 0 {
		outerLen = holeIndices[0] * dim
	}
	t := &triangulator{dim: dim}
	outer := t.linkedList(data, 0, outerLen, true)
	if outer == nil || outer.next == outer.prev {
		return []int{}, nil
	}
	if len(holeIndices) > 0 {
		outer = t.eliminateHoles(data, holeIndices, outer)
	}
	t.earcutLinked(outer, 0)
	if t.triangles == nil {
		t.triangles = []int{}
	}
	return t.triangles, nil
}

type triangulator struct {
	dim       int
	triangles []int
}

func (t *triangulator) emit(a, b, c *node) {
	t.triangles = append(t.triangles, a.i/t.dim, b.i/t.dim, c.i/t.dim)
}

// linkedList builds a ring from data[start:end] in the requested winding.
func (t *triangulator) linkedList(data []float64, start, end int, clockwise bool) *node {
	var last *node
	if clockwise == (signedArea(data, start, end, t.dim) > 0) {
		for i := start; i < end; i += t.dim {
			last = insertNode(i, data[i], data[i+1], last)
		}
	} else {
		for i := end - t.dim; i >= start; i -= t.dim {
			last = insertNode(i, data[i], data[i+1], last)
		}
	}
	if last != nil && equals(last, last.next) {
		removeNode(last)
		last = last.next
	}
	return last
}

// filterPoints removes duplicate and collinear vertices between start and
// end.
func filterPoints(start, end *node) *node {
	if start == nil {
		return nil
	}
	if end == nil {
		end = start
	}
	p := start
	for {
		again := false
		if !p.steiner && (equals(p, p.next) || area(p.prev, p, p.next) == 0) {
			removeNode(p)
			p = p.prev
			end = p
			if p == p.next {
				break
			}
			again = true
		} else {
			p = p.next
		}
		if !again && p == end {
			break
		}
	}
	return end
}

// earcutLinked clips ears off the ring. When no ear is found, pass 0
// filters degenerate points, pass 1 cures small self-intersections and
// pass 2 splits the ring along a valid diagonal.
func (t *triangulator) earcutLinked(ear *node, pass int) {
	if ear == nil {
		return
	}
	stop := ear
	for ear.prev != ear.next {
		prev, next := ear.prev, ear.next
		if isEar(ear) {
			t.emit(prev, ear, next)
			removeNode(ear)
			ear = next.next
			stop = next.next
			continue
		}
		ear = next
		if ear == stop {
			switch pass {
			case 0:
				t.earcutLinked(filterPoints(ear, nil), 1)
			case 1:
				ear = t.cureLocalIntersections(filterPoints(ear, nil))
				t.earcutLinked(ear, 2)
			case 2:
				t.splitEarcut(ear)
			}
			return
		}
	}
}

func isEar(ear *node) bool {
	a, b, c := ear.prev, ear, ear.next
	if area(a, b, c) >= 0 {
		return false // reflex
	}
	x0, x1 := math.Min(a.x, math.Min(b.x, c.x)), math.Max(a.x, math.Max(b.x, c.x))
	y0, y1 := math.Min(a.y, math.Min(b.y, c.y)), math.Max(a.y, math.Max(b.y, c.y))
	for p := c.next; p != a; p = p.next {
		if p.x >= x0 && p.x <= x1 && p.y >= y0 && p.y <= y1 &&
			pointInTriangle(a.x, a.y, b.x, b.y, c.x, c.y, p.x, p.y) &&
			area(p.prev, p, p.next) >= 0 {
			return false
		}
	}
	return true
}

func (t *triangulator) cureLocalIntersections(start *node) *node {
	p := start
	for {
		a, b := p.prev, p.next.next
		if !equals(a, b) && intersects(a, p, p.next, b) && locallyInside(a, b) && locallyInside(b, a) {
			t.emit(a, p, b)
			removeNode(p)
			removeNode(p.next)
			p = b
			start = b
		}
		p = p.next
		if p == start {
			break
		}
	}
	return filterPoints(p, nil)
}

func (t *triangulator) splitEarcut(start *node) {
	a := start
	for {
		for b := a.next.next; b != a.prev; b = b.next {
			if a.i != b.i && isValidDiagonal(a, b) {
				c := splitPolygon(a, b)
				a = filterPoints(a, a.next)
				c = filterPoints(c, c.next)
				t.earcutLinked(a, 0)
				t.earcutLinked(c, 0)
				return
			}
		}
		a = a.next
		if a == start {
			return
		}
	}
}

// eliminateHoles bridges every hole into the outer ring, leftmost first.
func (t *triangulator) eliminateHoles(data []float64, holeIndices []int, outer *node) *node {
	queue := make([]*node, 0, len(holeIndices))
	for k, h := range holeIndices {
		start := h * t.dim
		end := len(data)
		if k < len(holeIndices)-1 {
			end = holeIndices[k+1] * t.dim
		}
		list := t.linkedList(data, start, end, false)
		if list == nil {
			continue
		}
		if list == list.next {
			list.steiner = true
		}
		queue = append(queue, leftmost(list))
	}
	sort.SliceStable(queue, func(i, j int) bool { return queue[i].x < queue[j].x })
	for _, hole := range queue {
		outer = eliminateHole(hole, outer)
	}
	return outer
}

func eliminateHole(hole, outer *node) *node {
	bridge := findHoleBridge(hole, outer)
	if bridge == nil {
		return outer
	}
	reverse := splitPolygon(bridge, hole)
	filterPoints(reverse, reverse.next)
	return filterPoints(bridge, bridge.next)
}

// findHoleBridge finds an outer vertex visible from the hole's leftmost
// vertex.
func findHoleBridge(hole, outer *node) *node {
	hx, hy := hole.x, hole.y
	qx := math.Inf(-1)
	var m *node

	// Ray cast left from the hole vertex to the nearest outer edge.
	p := outer
	for {
		if hy <= p.y && hy >= p.next.y && p.next.y != p.y {
			x := p.x + (hy-p.y)*(p.next.x-p.x)/(p.next.y-p.y)
			if x <= hx && x > qx {
				qx = x
				m = p.next
				if p.x < p.next.x {
					m = p
				}
				if x == hx {
					return m
				}
			}
		}
		p = p.next
		if p == outer {
			break
		}
	}
	if m == nil {
		return nil
	}

	// Among reflex vertices inside the triangle (hole, hit point, m), pick
	// the one with the smallest angle to the ray.
	stop := m
	mx, my := m.x, m.y
	tanMin := math.Inf(1)
	p = m
	for {
		if hx >= p.x && p.x >= mx && hx != p.x {
			ax, cx := qx, hx
			if hy < my {
				ax, cx = hx, qx
			}
			if pointInTriangle(ax, hy, mx, my, cx, hy, p.x, p.y) {
				tan := math.Abs(hy-p.y) / (hx - p.x)
				if locallyInside(p, hole) &&
					(tan < tanMin || (tan == tanMin && (p.x > m.x || (p.x == m.x && sectorContainsSector(m, p))))) {
					m = p
					tanMin = tan
				}
			}
		}
		p = p.next
		if p == stop {
			break
		}
	}
	return m
}

func sectorContainsSector(m, p *node) bool {
	return area(m.prev, m, p.prev) < 0 && area(p.next, m, m.next) < 0
}

func leftmost(start *node) *node {
	best := start
	for p := start.next; p != start; p = p.next {
		if p.x < best.x || (p.x == best.x && p.y < best.y) {
			best = p
		}
	}
	return best
}

func pointInTriangle(ax, ay, bx, by, cx, cy, px, py float64) bool {
	return (cx-px)*(ay-py) >= (ax-px)*(cy-py) &&
		(ax-px)*(by-py) >= (bx-px)*(ay-py) &&
		(bx-px)*(cy-py) >= (cx-px)*(by-py)
}

func isValidDiagonal(a, b *node) bool {
	if a.next.i == b.i || a.prev.i == b.i || intersectsPolygon(a, b) {
		return false
	}
	if locallyInside(a, b) && locallyInside(b, a) && middleInside(a, b) &&
		(area(a.prev, a, b.prev) != 0 || area(a, b.prev, b) != 0) {
		return true
	}
	return equals(a, b) && area(a.prev, a, a.next) > 0 && area(b.prev, b, b.next) > 0
}

// area is twice the signed area of triangle pqr.
func area(p, q, r *node) float64 {
	return (q.y-p.y)*(r.x-q.x) - (q.x-p.x)*(r.y-q.y)
}

func equals(a, b *node) bool { return a.x == b.x && a.y == b.y }

func intersects(p1, q1, p2, q2 *node) bool {
	o1 := sign(area(p1, q1, p2))
	o2 := sign(area(p1, q1, q2))
	o3 := sign(area(p2, q2, p1))
	o4 := sign(area(p2, q2, q1))
	if o1 != o2 && o3 != o4 {
		return true
	}
	return (o1 == 0 && onSegment(p1, p2, q1)) ||
		(o2 == 0 && onSegment(p1, q2, q1)) ||
		(o3 == 0 && onSegment(p2, p1, q2)) ||
		(o4 == 0 && onSegment(p2, q1, q2))
}

// onSegment reports whether q lies on segment pr, given collinear points.
func onSegment(p, q, r *node) bool {
	return q.x <= math.Max(p.x, r.x) && q.x >= math.Min(p.x, r.x) &&
		q.y <= math.Max(p.y, r.y) && q.y >= math.Min(p.y, r.y)
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func intersectsPolygon(a, b *node) bool {
	p := a
	for {
		if p.i != a.i && p.next.i != a.i && p.i != b.i && p.next.i != b.i && intersects(p, p.next, a, b) {
			return true
		}
		p = p.next
		if p == a {
			return false
		}
	}
}

func locallyInside(a, b *node) bool {
	if area(a.prev, a, a.next) < 0 {
		return area(a, b, a.next) >= 0 && area(a, a.prev, b) >= 0
	}
	return area(a, b, a.prev) < 0 || area(a, a.next, b) < 0
}

// middleInside reports whether the midpoint of ab lies inside the ring.
func middleInside(a, b *node) bool {
	inside := false
	px, py := (a.x+b.x)/2, (a.y+b.y)/2
	p := a
	for {
		if (p.y > py) != (p.next.y > py) && p.next.y != p.y &&
			px < (p.next.x-p.x)*(py-p.y)/(p.next.y-p.y)+p.x {
			inside = !inside
		}
		p = p.next
		if p == a {
			return inside
		}
	}
}

// splitPolygon links a to b with a double edge, splitting the ring in two.
// It returns the copy of b that starts the second ring.
func splitPolygon(a, b *node) *node {
	a2 := &node{i: a.i, x: a.x, y: a.y}
	b2 := &node{i: b.i, x: b.x, y: b.y}
	an, bp := a.next, b.prev

	a.next, b.prev = b, a
	a2.next, an.prev = an, a2
	b2.next, a2.prev = a2, b2
	bp.next, b2.prev = b2, bp
	return b2
}

func insertNode(i int, x, y float64, last *node) *node {
	p := &node{i: i, x: x, y: y}
	if last == nil {
		p.prev, p.next = p, p
		return p
	}
	p.next, p.prev = last.next, last
	last.next.prev = p
	last.next = p
	return p
}

func removeNode(p *node) {
	p.next.prev = p.prev
	p.prev.next = p.next
}

// signedArea is twice the signed area of the ring data[start:end].
func signedArea(data []float64, start, end, dim int) float64 {
	sum := 0.0
	j := end - dim
	for i := start; i < end; i += dim {
		sum += (data[j] - data[i]) * (data[i+1] + data[j+1])
		j = i
	}
	return sum
}

// Deviation returns the relative difference between the polygon's area and
// the summed area of triangles. Zero means an exact triangulation.
func Deviation(data []float64, holeIndices []int, dim int, triangles []int) float64 {
	outerLen := len(data)
	if len(holeIndices) > 0 {
		outerLen = holeIndices[0] * dim
	}
	polygonArea := math.Abs(signedArea(data, 0, outerLen, dim))
	for k, h := range holeIndices {
		start := h * dim
		end := len(data)
		if k < len(holeIndices)-1 {
			end = holeIndices[k+1] * dim
		}
		polygonArea -= math.Abs(signedArea(data, start, end, dim))
	}

	trianglesArea := 0.0
	for k := 0; k+2 < len(triangles); k += 3 {
		a, b, c := triangles[k]*dim, triangles[k+1]*dim, triangles[k+2]*dim
		trianglesArea += math.Abs(
			(data[a]-data[c])*(data[b+1]-data[a+1]) -
				(data[a]-data[b])*(data[c+1]-data[a+1]))
	}
	if polygonArea == 0 && trianglesArea == 0 {
		return 0
	}
	return math.Abs((trianglesArea - polygonArea) / polygonArea)
}
