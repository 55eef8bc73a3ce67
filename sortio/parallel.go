// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package sortio

import (
	"slices"

	"github.com/grailbio/base/traverse"
	"github.com/grailbio/geosort/internal/defaultsize"
	"golang.org/x/sync/errgroup"
)

// sortStable sorts vs stably by cmp. Slices of at least
// defaultsize.ParallelThreshold elements are split into parallelism
// segments that are sorted concurrently and then merged pairwise.
// sortStable returns once vs is sorted.
func sortStable[T any](vs []T, cmp func(a, b T) int, parallelism int) error {
	if parallelism <= 1 || len(vs) < defaultsize.ParallelThreshold || len(vs) < 2*parallelism {
		slices.SortStableFunc(vs, cmp)
		return nil
	}
	// bounds[i] is the start of segment i; the last entry is len(vs).
	bounds := make([]int, parallelism+1)
	for i := range bounds {
		bounds[i] = i * len(vs) / parallelism
	}
	err := traverse.Limit(parallelism).Each(parallelism, func(i int) error {
		slices.SortStableFunc(vs[bounds[i]:bounds[i+1]], cmp)
		return nil
	})
	if err != nil {
		return err
	}
	src, dst := vs, make([]T, len(vs))
	for len(bounds) > 2 {
		var (
			g    errgroup.Group
			next = []int{0}
		)
		for i := 0; i+1 < len(bounds); i += 2 {
			lo := bounds[i]
			if i+2 >= len(bounds) {
				hi := bounds[i+1]
				copy(dst[lo:hi], src[lo:hi])
				next = append(next, hi)
				continue
			}
			mid, hi := bounds[i+1], bounds[i+2]
			g.Go(func() error {
				mergeStable(dst[lo:hi], src[lo:mid], src[mid:hi], cmp)
				return nil
			})
			next = append(next, hi)
		}
		if err := g.Wait(); err != nil {
			return err
		}
		src, dst, bounds = dst, src, next
	}
	if &src[0] != &vs[0] {
		copy(vs, src)
	}
	return nil
}

// mergeStable merges the sorted slices a and b into dst, which must
// have length len(a)+len(b). Elements of a precede equal elements of b.
func mergeStable[T any](dst, a, b []T, cmp func(a, b T) int) {
	var i, j, k int
	for i < len(a) && j < len(b) {
		if cmp(b[j], a[i]) < 0 {
			dst[k] = b[j]
			j++
		} else {
			dst[k] = a[i]
			i++
		}
		k++
	}
	k += copy(dst[k:], a[i:])
	copy(dst[k:], b[j:])
}
