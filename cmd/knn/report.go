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

package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/biogo/knn/space"
)

func report(w io.Writer, e *built, q space.Point, opts options) error {
	fmt.Fprintf(w, "%s: %s points indexed in %v, approx. %s\n",
		e.name, humanize.Comma(int64(e.idx.Len())), e.elapsed, humanize.Bytes(uint64(e.idx.MemoryUsage())))
	fmt.Fprintf(w, "Query: %s\n", q.Format(opts.precision))

	n, ok, err := e.idx.Nearest(q)
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(w, "NN:    %s   Dist = %g\n", n.Point.Format(opts.precision), n.Dist)
	} else {
		fmt.Fprintln(w, "NN:    none")
	}

	nn, err := e.idx.NearestN(opts.k, q)
	if err != nil {
		return err
	}
	for i, n := range nn {
		fmt.Fprintf(w, "NN %d: %s   Dist = %g\n", i+1, n.Point.Format(opts.precision), n.Dist)
	}
	return nil
}
