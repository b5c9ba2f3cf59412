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

// Package space provides the point and distance primitives shared by the
// kdtree and vptree packages.
package space

import (
	"math"
	"strconv"
	"strings"
)

// DefaultEpsilon is the squared distance at or below which a stored point is
// considered to be the query itself and is excluded from search results.
const DefaultEpsilon = 1e-12

// A Point is a location in a Euclidean space of len(Point) dimensions.
// Points held by a tree are never modified.
type Point []float64

// Dims returns the number of dimensions of p.
func (p Point) Dims() int { return len(p) }

// Clone returns a copy of p.
func (p Point) Clone() Point { return append(Point(nil), p...) }

// Equal returns whether p and q have identical coordinates.
func (p Point) Equal(q Point) bool {
	if len(p) != len(q) {
		return false
	}
	for i, v := range p {
		if v != q[i] {
			return false
		}
	}
	return true
}

// Format returns p as "[ x, y, ... ]" with prec digits after the decimal point.
func (p Point) Format(prec int) string {
	var b strings.Builder
	b.WriteString("[ ")
	for i, v := range p {
		if i != 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.FormatFloat(v, 'f', prec, 64))
	}
	b.WriteString(" ]")
	return b.String()
}

func (p Point) String() string { return p.Format(3) }

// Check returns a *DimError if p does not have dims dimensions.
func (p Point) Check(dims int) error {
	if len(p) != dims {
		return &DimError{Want: dims, Got: len(p)}
	}
	return nil
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) (float64, error) {
	if err := a.Check(len(b)); err != nil {
		return math.Inf(1), err
	}
	return math.Sqrt(SqDistance(a, b)), nil
}

// SqDistance returns the squared Euclidean distance between a and b. The
// caller must ensure a and b have the same number of dimensions.
func SqDistance(a, b Point) float64 {
	var sum float64
	for i, v := range a {
		d := v - b[i]
		sum += d * d
	}
	return sum
}
