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

// Package csvpoints reads points from comma separated text.
//
// The first record of the input is a header and is discarded. Each following
// record yields one point made from the cells that parse as numbers; other
// cells are ignored and records without any numeric cell are skipped. All
// points in one input must have the same number of dimensions.
package csvpoints

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/biogo/knn/space"
)

// ErrNoData is returned when the input is empty.
var ErrNoData = errors.New("csvpoints: no data")

// A RowError reports an error in a single record of the input.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string { return fmt.Sprintf("csvpoints: line %d: %v", e.Line, e.Err) }

func (e *RowError) Unwrap() error { return e.Err }

// Load returns the points read from r. A record whose point has a different
// dimensionality from the first point read results in a *RowError wrapping a
// *space.DimError. Load returns ErrNoData if r holds no header record.
func Load(r io.Reader) ([]space.Point, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return nil, ErrNoData
		}
		return nil, err
	}

	var (
		points []space.Point
		dims   int
	)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		p := parse(rec)
		if len(p) == 0 {
			continue
		}
		if dims == 0 {
			dims = len(p)
		}
		if err := p.Check(dims); err != nil {
			line, _ := cr.FieldPos(0)
			return nil, &RowError{Line: line, Err: err}
		}
		points = append(points, p)
	}
	return points, nil
}

// LoadFile returns the points read from the named file.
func LoadFile(path string) ([]space.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func parse(rec []string) space.Point {
	var p space.Point
	for _, cell := range rec {
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			continue
		}
		p = append(p, v)
	}
	return p
}
