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

package space

import (
	"container/heap"
	"math"
	"sort"
)

// A Neighbor is a search result: a stored point, its Euclidean distance from
// the query and the insertion index of the point within its tree.
type Neighbor struct {
	Point Point
	Dist  float64
	Index int
}

// Closer returns whether a candidate at squared distance ad with insertion
// index ai ranks before one at bd with index bi. Equidistant candidates are
// ordered by descending insertion index, so the most recently inserted wins.
func Closer(ad float64, ai int, bd float64, bi int) bool {
	if ad != bd {
		return ad < bd
	}
	return ai > bi
}

type candidate struct {
	p   Point
	d2  float64
	idx int
}

type candidates []candidate

func (c candidates) Len() int { return len(c) }
func (c candidates) Less(i, j int) bool {
	return Closer(c[j].d2, c[j].idx, c[i].d2, c[i].idx)
}
func (c candidates) Swap(i, j int)         { c[i], c[j] = c[j], c[i] }
func (c *candidates) Push(x interface{})   { *c = append(*c, x.(candidate)) }
func (c *candidates) Pop() (i interface{}) { i, *c = (*c)[len(*c)-1], (*c)[:len(*c)-1]; return i }

// A Heap retains the k closest candidates offered to it. The worst retained
// candidate is held at the top so it can be replaced in O(log k).
type Heap struct {
	k     int
	items candidates
}

// NewHeap returns a Heap that retains at most k candidates.
func NewHeap(k int) *Heap {
	if k < 0 {
		k = 0
	}
	return &Heap{k: k, items: make(candidates, 0, k)}
}

// Len returns the number of retained candidates.
func (h *Heap) Len() int { return len(h.items) }

// Full returns whether the heap holds k candidates.
func (h *Heap) Full() bool { return len(h.items) >= h.k }

// Worst returns the squared distance of the worst retained candidate, or
// +Inf if the heap is not yet full.
func (h *Heap) Worst() float64 {
	if !h.Full() || h.k == 0 {
		return math.Inf(1)
	}
	return h.items[0].d2
}

// Keep offers p at squared distance d2 with insertion index idx. The
// candidate is retained unconditionally while the heap is not full, and
// otherwise replaces the worst retained candidate only if it ranks strictly
// before it.
func (h *Heap) Keep(p Point, d2 float64, idx int) {
	if h.k == 0 {
		return
	}
	c := candidate{p: p, d2: d2, idx: idx}
	if len(h.items) < h.k {
		heap.Push(&h.items, c)
		return
	}
	top := h.items[0]
	if Closer(c.d2, c.idx, top.d2, top.idx) {
		h.items[0] = c
		heap.Fix(&h.items, 0)
	}
}

// Neighbors returns the retained candidates in ascending order of distance.
// The Euclidean distance is computed once for each returned Neighbor.
func (h *Heap) Neighbors() []Neighbor {
	if len(h.items) == 0 {
		return nil
	}
	c := append(candidates(nil), h.items...)
	sort.Slice(c, func(i, j int) bool { return Closer(c[i].d2, c[i].idx, c[j].d2, c[j].idx) })
	n := make([]Neighbor, len(c))
	for i, v := range c {
		n[i] = Neighbor{Point: v.p, Dist: math.Sqrt(v.d2), Index: v.idx}
	}
	return n
}
