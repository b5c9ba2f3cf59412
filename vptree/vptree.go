// Copyright ©2012 Dan Kortschak <dan.kortschak@adelaide.edu.au>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package vptree implements a vantage point tree for exact nearest neighbour
// search in a Euclidean space.
//
// Each node partitions the points below it by their distance from the node's
// vantage point: points no further than the node's radius go left and the
// rest go right. The tree is built in bulk by Build. Insert appends to the
// retained point set and rebuilds the whole tree, costing O(n log n) per
// call; callers adding many points should collect them and call Build once.
//
// A Tree is not safe for concurrent use.
package vptree

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/biogo/knn/space"
)

// A Node holds a vantage point and the radius partitioning its subtrees.
type Node struct {
	Point       space.Point
	Index       int
	Radius      float64
	Left, Right *Node
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%.3f r=%.3f", n.Point, n.Radius)
}

// A Tree implements vantage point tree construction and nearest neighbour
// search.
type Tree struct {
	Root  *Node
	Count int

	// Dims is the dimensionality of the stored points. It is set by the
	// first Build or Insert of a non-empty point set.
	Dims int

	// Epsilon is the squared distance at or below which a stored point
	// is treated as the query itself and excluded from search results.
	// A negative Epsilon disables the exclusion.
	Epsilon float64

	points []space.Point
}

// New returns an empty vantage point tree.
func New() *Tree {
	return &Tree{Epsilon: space.DefaultEpsilon}
}

// Build replaces the contents of the tree with copies of points. The
// dimensionality of the tree is taken from the first point and every other
// point must match it; otherwise Build returns an error and leaves the tree
// unchanged. Building from an empty slice empties the tree.
func (t *Tree) Build(points []space.Point) error {
	var dims int
	if len(points) != 0 {
		dims = len(points[0])
		if dims == 0 {
			return space.ErrNoDims
		}
		for _, p := range points[1:] {
			if err := p.Check(dims); err != nil {
				return err
			}
		}
	}

	t.points = make([]space.Point, len(points))
	for i, p := range points {
		t.points[i] = p.Clone()
	}
	if dims != 0 {
		t.Dims = dims
	}
	t.Rebuild()
	return nil
}

// Insert adds a copy of p to the retained point set and rebuilds the tree.
// A point with the wrong dimensionality is rejected with a *space.DimError and
// the tree is left unchanged.
func (t *Tree) Insert(p space.Point) error {
	if t.Dims == 0 {
		if len(p) == 0 {
			return space.ErrNoDims
		}
		t.Dims = len(p)
	}
	if err := p.Check(t.Dims); err != nil {
		return err
	}
	t.points = append(t.points, p.Clone())
	t.Rebuild()
	return nil
}

// Rebuild reconstructs the tree from the retained point set.
func (t *Tree) Rebuild() {
	work := make([]item, len(t.points))
	for i, p := range t.points {
		work[i] = item{p: p, idx: i}
	}
	t.Root = build(work)
	t.Count = t.Root.count()
}

type item struct {
	p   space.Point
	idx int
}

// distances is a slice of float64 that can be passed to space.Select.
type distances []float64

func (d distances) Len() int                              { return len(d) }
func (d distances) Less(i, j int) bool                    { return d[i] < d[j] }
func (d distances) Swap(i, j int)                         { d[i], d[j] = d[j], d[i] }
func (d distances) Slice(start, end int) space.SortSlicer { return d[start:end] }

// build constructs a subtree using the last element of work as the vantage
// point. The order of work is preserved within each partition.
func build(work []item) *Node {
	if len(work) == 0 {
		return nil
	}
	vp := work[len(work)-1]
	work = work[:len(work)-1]

	n := &Node{Point: vp.p, Index: vp.idx}
	if len(work) == 0 {
		return n
	}

	dist := make([]float64, len(work))
	for i, w := range work {
		dist[i] = math.Sqrt(space.SqDistance(vp.p, w.p))
	}
	med := append(distances(nil), dist...)
	mid := len(med) / 2
	space.Select(med, mid)
	n.Radius = med[mid]

	inner := make([]item, 0, mid+1)
	outer := make([]item, 0, len(work)-mid)
	for i, w := range work {
		if dist[i] <= n.Radius {
			inner = append(inner, w)
		} else {
			outer = append(outer, w)
		}
	}
	n.Left = build(inner)
	n.Right = build(outer)
	return n
}

func (n *Node) count() int {
	if n == nil {
		return 0
	}
	return 1 + n.Left.count() + n.Right.count()
}

// Len returns the number of elements in the tree.
func (t *Tree) Len() int { return t.Count }

// Points returns a copy of the retained point set in insertion order.
func (t *Tree) Points() []space.Point {
	p := make([]space.Point, len(t.points))
	for i, v := range t.points {
		p[i] = v.Clone()
	}
	return p
}

// MemoryUsage returns an estimate of the number of bytes held by the tree's
// nodes. It is intended for reporting only.
func (t *Tree) MemoryUsage() uintptr {
	per := unsafe.Sizeof(Node{}) + uintptr(t.Dims)*unsafe.Sizeof(float64(0))
	return uintptr(t.Count) * per
}

var inf = math.Inf(1)

// slack is the relative tolerance applied to the triangle inequality bound.
// The bound compares differences of square roots, so rounding can place a
// point that ties the current best just outside it.
const slack = 1e-9

// reachable returns whether the subtree on the far side of a vantage point
// with radius r, at distance d from the query, may hold a point no further
// than bound from the query.
func reachable(d, r, bound float64) bool {
	return math.Abs(d-r) <= bound+slack*(d+r+bound)
}

// Nearest returns the closest point to q that lies further than the tree's
// Epsilon from it. If no such point exists, including when the tree is empty,
// Nearest returns a Neighbor holding q itself at distance zero and ok is false.
func (t *Tree) Nearest(q space.Point) (n space.Neighbor, ok bool, err error) {
	none := space.Neighbor{Point: q, Index: -1}
	if t.Root == nil {
		return none, false, nil
	}
	if err := q.Check(t.Dims); err != nil {
		return none, false, err
	}
	bn, bd := t.Root.search(q, t.Epsilon, nil, inf)
	if bn == nil {
		return none, false, nil
	}
	return space.Neighbor{Point: bn.Point, Dist: math.Sqrt(bd), Index: bn.Index}, true, nil
}

func (n *Node) search(q space.Point, eps float64, bn *Node, bd float64) (*Node, float64) {
	if n == nil {
		return bn, bd
	}

	d2 := space.SqDistance(q, n.Point)
	if d2 > eps && (bn == nil || space.Closer(d2, n.Index, bd, bn.Index)) {
		bn, bd = n, d2
	}

	d := math.Sqrt(d2)
	first, second := n.Left, n.Right
	if d > n.Radius {
		first, second = n.Right, n.Left
	}
	bn, bd = first.search(q, eps, bn, bd)
	if second != nil && reachable(d, n.Radius, math.Sqrt(bd)) {
		bn, bd = second.search(q, eps, bn, bd)
	}
	return bn, bd
}

// NearestN returns up to k points closest to q in ascending order of
// distance, excluding points within the tree's Epsilon of q. Equidistant
// points are ordered with the most recently inserted first. NearestN returns
// nil if k is less than one or the tree is empty.
func (t *Tree) NearestN(k int, q space.Point) ([]space.Neighbor, error) {
	if t.Root == nil || k < 1 {
		return nil, nil
	}
	if err := q.Check(t.Dims); err != nil {
		return nil, err
	}
	if k > t.Count {
		k = t.Count
	}
	h := space.NewHeap(k)
	t.Root.searchN(q, t.Epsilon, h)
	return h.Neighbors(), nil
}

func (n *Node) searchN(q space.Point, eps float64, h *space.Heap) {
	if n == nil {
		return
	}

	d2 := space.SqDistance(q, n.Point)
	if d2 > eps {
		h.Keep(n.Point, d2, n.Index)
	}

	d := math.Sqrt(d2)
	first, second := n.Left, n.Right
	if d > n.Radius {
		first, second = n.Right, n.Left
	}
	first.searchN(q, eps, h)
	// Worst is +Inf until the heap holds k candidates.
	if second != nil && reachable(d, n.Radius, math.Sqrt(h.Worst())) {
		second.searchN(q, eps, h)
	}
}

// An Operation is a function that operates on a vantage point stored in a tree
// at the given depth. If done is returned true, the Operation is indicating that
// no further work needs to be done and so the Do function should traverse no further.
type Operation func(n *Node, depth int) (done bool)

// Do performs fn on every node of the tree in pre-order. A boolean is
// returned indicating whether the Do traversal was interrupted by an
// Operation returning true.
func (t *Tree) Do(fn Operation) bool {
	if t.Root == nil {
		return false
	}
	return t.Root.do(fn, 0)
}

func (n *Node) do(fn Operation, depth int) (done bool) {
	if fn(n, depth) {
		return true
	}
	if n.Left != nil && n.Left.do(fn, depth+1) {
		return true
	}
	return n.Right != nil && n.Right.do(fn, depth+1)
}
