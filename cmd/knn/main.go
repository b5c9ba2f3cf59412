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

// Command knn loads points from a CSV file, indexes them with a k-d tree and
// a vantage point tree and reports the nearest neighbours of one of the
// loaded points.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/biogo/knn/csvpoints"
	"github.com/biogo/knn/kdtree"
	"github.com/biogo/knn/space"
	"github.com/biogo/knn/vptree"
)

type options struct {
	file       string
	queryIndex int
	k          int
	precision  int
	epsilon    float64
	engine     string
	verbose    bool
}

// index is the query surface shared by both tree types.
type index interface {
	Nearest(q space.Point) (space.Neighbor, bool, error)
	NearestN(k int, q space.Point) ([]space.Neighbor, error)
	Len() int
	MemoryUsage() uintptr
}

type built struct {
	name    string
	idx     index
	elapsed time.Duration
}

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:          "knn",
		Short:        "Exact nearest neighbour search over k-d and vantage point trees",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return run(cmd, opts)
		},
	}

	addFlags(cmd.Flags(), &opts)
	// MarkFlagRequired fails only for an unregistered flag.
	if err := cmd.MarkFlagRequired("file"); err != nil {
		panic(err)
	}

	return cmd
}

func addFlags(flags *pflag.FlagSet, opts *options) {
	flags.StringVarP(&opts.file, "file", "f", "", "CSV file holding one point per record after a header")
	flags.IntVar(&opts.queryIndex, "query-index", 5, "index of the loaded point to use as the query")
	flags.IntVarP(&opts.k, "neighbours", "k", 3, "number of neighbours to report")
	flags.IntVar(&opts.precision, "precision", 2, "digits printed after the decimal point")
	flags.Float64Var(&opts.epsilon, "epsilon", space.DefaultEpsilon, "squared distance below which a stored point is treated as the query; negative disables")
	flags.StringVar(&opts.engine, "engine", "both", "index to build: kd, vp or both")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")
}

func run(cmd *cobra.Command, opts options) error {
	var useKD, useVP bool
	switch opts.engine {
	case "kd":
		useKD = true
	case "vp":
		useVP = true
	case "both":
		useKD, useVP = true, true
	default:
		return fmt.Errorf("unknown engine %q", opts.engine)
	}

	logrus.WithField("file", opts.file).Info("loading dataset")
	points, err := csvpoints.LoadFile(opts.file)
	if err != nil {
		logrus.WithError(err).Error("error loading dataset")
		return err
	}
	if len(points) == 0 {
		logrus.Warn("dataset is empty")
		return nil
	}
	if opts.queryIndex < 0 || opts.queryIndex >= len(points) {
		return fmt.Errorf("query index %d out of range [0,%d)", opts.queryIndex, len(points))
	}
	dims := points[0].Dims()
	logrus.WithFields(logrus.Fields{
		"points": len(points),
		"dims":   dims,
	}).Info("dataset loaded")

	// Each tree is built and owned by a single goroutine until Wait returns.
	var (
		g       errgroup.Group
		kd, vp  built
		engines []*built
	)
	if useKD {
		engines = append(engines, &kd)
		g.Go(func() error {
			t := kdtree.New(dims)
			t.Epsilon = opts.epsilon
			start := time.Now()
			for _, p := range points {
				if err := t.Insert(p); err != nil {
					return fmt.Errorf("kd-tree: %w", err)
				}
			}
			kd = built{name: "kd-tree", idx: t, elapsed: time.Since(start)}
			return nil
		})
	}
	if useVP {
		engines = append(engines, &vp)
		g.Go(func() error {
			t := vptree.New()
			t.Epsilon = opts.epsilon
			start := time.Now()
			if err := t.Build(points); err != nil {
				return fmt.Errorf("vp-tree: %w", err)
			}
			vp = built{name: "vp-tree", idx: t, elapsed: time.Since(start)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logrus.WithError(err).Error("error building index")
		return err
	}

	q := points[opts.queryIndex]
	w := cmd.OutOrStdout()
	for _, e := range engines {
		logrus.WithFields(logrus.Fields{
			"engine":  e.name,
			"elapsed": e.elapsed,
		}).Debug("index built")
		if err := report(w, e, q, opts); err != nil {
			logrus.WithError(err).WithField("engine", e.name).Error("error querying index")
			return err
		}
	}
	return nil
}
