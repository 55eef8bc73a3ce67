// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package sortio

import "github.com/pbnjay/memory"

// A Budget reports an estimate of the memory, in bytes, currently
// available to a sort. Budgets are consulted once per sort.
type Budget func() int64

// FixedBudget returns a Budget that always reports n bytes.
func FixedBudget(n int64) Budget {
	return func() int64 { return n }
}

const fallbackBudget = 256 << 20

// SystemBudget returns a Budget that reports the free memory of the
// system. Where free memory cannot be determined, a quarter of total
// memory is reported instead.
func SystemBudget() Budget {
	return func() int64 {
		if free := memory.FreeMemory(); free > 0 {
			return int64(free)
		}
		if total := memory.TotalMemory(); total > 0 {
			return int64(total / 4)
		}
		return fallbackBudget
	}
}

// BlockSize returns the size of one in-memory batch for a sort of
// total units with at most maxRuns runs and the given available
// memory. Batches are large enough to keep the number of runs below
// maxRuns, and at least half of the available memory, so that merge
// fan-in does not dominate. The result is at least 1.
func BlockSize(total int64, maxRuns int, available int64) int64 {
	if maxRuns < 1 {
		maxRuns = 1
	}
	block := (total + int64(maxRuns) - 1) / int64(maxRuns)
	if half := available / 2; half > block {
		block = half
	}
	if block < 1 {
		block = 1
	}
	return block
}
