// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package defaultsize holds the default tunables of the external
// sorter, configured by flag.
package defaultsize

import (
	"flag"
	"runtime"
)

var (
	// MaxRuns is the default cap on the number of temporary runs a
	// sort creates.
	MaxRuns int
	// ParallelThreshold is the smallest batch, in elements, that is
	// sorted in parallel.
	ParallelThreshold int
	// Parallelism is the default number of goroutines used to sort
	// one batch.
	Parallelism int
)

func init() {
	flag.IntVar(&MaxRuns, "geosort-internal-max-runs", 1024,
		"Default maximum number of temporary runs per sort")
	flag.IntVar(&ParallelThreshold, "geosort-internal-parallel-threshold", 1<<14,
		"Smallest batch size (in elements) that is sorted in parallel")
	flag.IntVar(&Parallelism, "geosort-internal-parallelism", runtime.NumCPU(),
		"Default number of goroutines used to sort a batch")
}
