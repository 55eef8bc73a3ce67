// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"

	"github.com/grailbio/base/log"
	"github.com/grailbio/geosort/sortio"
)

func linesCmd(ctx context.Context, opts sortio.Options, args []string) error {
	src, dst := sortFlags("lines", &opts, args)
	log.Printf("sorting lines of %s into %s", src, dst)
	return sortio.SortLines(ctx, src, dst, nil, opts)
}
