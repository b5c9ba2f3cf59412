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
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch is wrapped by every DimError.
	ErrDimensionMismatch = errors.New("space: dimension mismatch")

	// ErrNoDims is returned when a point with no coordinates would fix the
	// dimensionality of a tree.
	ErrNoDims = errors.New("space: zero dimensional point")
)

// A DimError describes a point whose dimensionality differs from the one
// required by the receiving operation.
type DimError struct {
	Want, Got int
}

func (e *DimError) Error() string {
	return fmt.Sprintf("space: dimension mismatch: want %d got %d", e.Want, e.Got)
}

// Unwrap returns ErrDimensionMismatch.
func (e *DimError) Unwrap() error { return ErrDimensionMismatch }
