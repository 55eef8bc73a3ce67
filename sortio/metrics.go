// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package sortio

import "github.com/grailbio/geosort/metrics"

// Counters maintained by every sort in the metrics scope attached to
// its context.
var (
	RecordsRead       = metrics.NewCounter("sortio.records.read")
	RunsSpilled       = metrics.NewCounter("sortio.runs.spilled")
	RecordsEmitted    = metrics.NewCounter("sortio.records.emitted")
	DuplicatesDropped = metrics.NewCounter("sortio.duplicates.dropped")
)
