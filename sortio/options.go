// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package sortio

import (
	"github.com/grailbio/base/config"
	"github.com/grailbio/geosort/internal/defaultsize"
)

// Options configures a sort. The zero Options are valid: every unset
// field takes its default.
type Options struct {
	// MaxRuns bounds the number of temporary runs created by a sort.
	// The bound is best-effort; see BlockSize.
	MaxRuns int
	// Budget estimates the memory available to the sort. It defaults
	// to SystemBudget.
	Budget Budget
	// Distinct removes elements that compare equal to a previously
	// emitted element.
	Distinct bool
	// Parallelism is the number of goroutines used to sort a single
	// batch.
	Parallelism int
	// Verify checks that the output of a non-distinct sort is a
	// permutation of its input, by comparing order-independent
	// fingerprints of both.
	Verify bool
	// TempDir is the directory in which text-mode runs are spilled.
	// The default temporary directory is used if it is empty.
	TempDir string
}

// DefaultOptions returns the default sort options.
func DefaultOptions() Options {
	return Options{
		MaxRuns:     defaultsize.MaxRuns,
		Budget:      SystemBudget(),
		Parallelism: defaultsize.Parallelism,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxRuns <= 0 {
		o.MaxRuns = defaultsize.MaxRuns
	}
	if o.Budget == nil {
		o.Budget = SystemBudget()
	}
	if o.Parallelism <= 0 {
		o.Parallelism = defaultsize.Parallelism
	}
	return o
}

func init() {
	config.Register("geosort/sort", func(inst *config.Constructor) {
		opts := DefaultOptions()
		var budgetMB int
		inst.IntVar(&opts.MaxRuns, "max-runs", opts.MaxRuns, "maximum number of temporary runs per sort")
		inst.IntVar(&opts.Parallelism, "parallelism", opts.Parallelism, "number of goroutines used to sort a batch")
		inst.IntVar(&budgetMB, "budget-mb", 0, "memory budget in MiB; free system memory is used if 0")
		inst.StringVar(&opts.TempDir, "tempdir", "", "directory for temporary runs")
		inst.Doc = "geosort/sort configures the external sorter"
		inst.New = func() (interface{}, error) {
			if budgetMB > 0 {
				opts.Budget = FixedBudget(int64(budgetMB) << 20)
			}
			return &opts, nil
		}
	})
}
