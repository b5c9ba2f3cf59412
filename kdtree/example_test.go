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

package kdtree_test

import (
	"fmt"

	"github.com/biogo/knn/kdtree"
	"github.com/biogo/knn/space"
)

func Example() {
	t := kdtree.New(2)
	for _, p := range []space.Point{{0, 0}, {10, 0}, {0, 10}, {1, 1}} {
		if err := t.Insert(p); err != nil {
			fmt.Println(err)
			return
		}
	}

	q := space.Point{0.5, 0.5}
	n, ok, _ := t.Nearest(q)
	fmt.Println("nearest:", n.Point, ok)

	nn, _ := t.NearestN(3, q)
	for _, n := range nn {
		fmt.Printf("%v %.4f\n", n.Point, n.Dist)
	}

	err := t.Insert(space.Point{1, 2, 3})
	fmt.Println(err)

	// Output:
	// nearest: [ 1.000, 1.000 ] true
	// [ 1.000, 1.000 ] 0.7071
	// [ 0.000, 0.000 ] 0.7071
	// [ 0.000, 10.000 ] 9.5131
	// space: dimension mismatch: want 2 got 3
}
