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

// Package kdtree implements a k-d tree for exact nearest neighbour search in
// a Euclidean space.
//
// Points are added one at a time and routed by comparing a single coordinate
// at each level. No rebalancing is performed, so inserting points in sorted
// order produces a degenerate tree.
//
// A Tree is not safe for concurrent use. Callers that share a Tree between
// goroutines must serialise Insert against all other calls.
package kdtree

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/biogo/knn/space"
)

// A Node holds a single point value in a k-d tree.
type Node struct {
	Point       space.Point
	Axis        int
	Index       int
	Left, Right *Node
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%.3f %d", n.Point, n.Axis)
}

// A Tree implements a k-d tree creation and nearest neighbour search.
type Tree struct {
	Root  *Node
	Count int

	// Dims is the dimensionality of every point in the tree. The zero
	// Tree adopts the dimensionality of the first inserted point.
	Dims int

	// Epsilon is the squared distance at or below which a stored point
	// is treated as the query itself and excluded from search results.
	// A negative Epsilon disables the exclusion.
	Epsilon float64
}

// New returns an empty k-d tree for points of the given dimensionality.
// New panics if dims is less than one.
func New(dims int) *Tree {
	if dims < 1 {
		panic("kdtree: invalid dimensionality")
	}
	return &Tree{Dims: dims, Epsilon: space.DefaultEpsilon}
}

// Insert adds a copy of p to the tree. At each node p is sent left if its
// coordinate on the node's axis is less than the node's, and right otherwise.
// A point with the wrong dimensionality is rejected with a *space.DimError and
// the tree is left unchanged. No rebalancing of the tree is performed.
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
	t.Root = t.Root.insert(p.Clone(), 0, t.Dims, t.Count)
	t.Count++
	return nil
}

func (n *Node) insert(p space.Point, depth, dims, idx int) *Node {
	if n == nil {
		return &Node{
			Point: p,
			Axis:  depth % dims,
			Index: idx,
		}
	}

	if p[n.Axis] < n.Point[n.Axis] {
		n.Left = n.Left.insert(p, depth+1, dims, idx)
	} else {
		n.Right = n.Right.insert(p, depth+1, dims, idx)
	}

	return n
}

// Len returns the number of elements in the tree.
func (t *Tree) Len() int { return t.Count }

// MemoryUsage returns an estimate of the number of bytes held by the tree's
// nodes. It is intended for reporting only.
func (t *Tree) MemoryUsage() uintptr {
	per := unsafe.Sizeof(Node{}) + uintptr(t.Dims)*unsafe.Sizeof(float64(0))
	return uintptr(t.Count) * per
}

var inf = math.Inf(1)

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

	if d := space.SqDistance(q, n.Point); d > eps && (bn == nil || space.Closer(d, n.Index, bd, bn.Index)) {
		bn, bd = n, d
	}

	c := q[n.Axis] - n.Point[n.Axis]
	if c < 0 {
		bn, bd = n.Left.search(q, eps, bn, bd)
		if c*c <= bd {
			bn, bd = n.Right.search(q, eps, bn, bd)
		}
		return bn, bd
	}
	bn, bd = n.Right.search(q, eps, bn, bd)
	if c*c <= bd {
		bn, bd = n.Left.search(q, eps, bn, bd)
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

	if d := space.SqDistance(q, n.Point); d > eps {
		h.Keep(n.Point, d, n.Index)
	}

	near, far := n.Right, n.Left
	c := q[n.Axis] - n.Point[n.Axis]
	if c < 0 {
		near, far = n.Left, n.Right
	}
	near.searchN(q, eps, h)
	if c*c <= h.Worst() {
		far.searchN(q, eps, h)
	}
}

// An Operation is a function that operates on a point stored in a tree at the
// given depth. If done is returned true, the Operation is indicating that no
// further work needs to be done and so the Do function should traverse no further.
type Operation func(p space.Point, depth int) (done bool)

// Do performs fn on all values stored in the tree in order. A boolean is
// returned indicating whether the Do traversal was interrupted by an
// Operation returning true.
func (t *Tree) Do(fn Operation) bool {
	if t.Root == nil {
		return false
	}
	return t.Root.do(fn, 0)
}

func (n *Node) do(fn Operation, depth int) (done bool) {
	if n.Left != nil {
		done = n.Left.do(fn, depth+1)
		if done {
			return
		}
	}
	done = fn(n.Point, depth)
	if done {
		return
	}
	if n.Right != nil {
		done = n.Right.do(fn, depth+1)
	}
	return
}
