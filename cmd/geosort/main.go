// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Geosort sorts datasets larger than memory. It sorts text files by
// line, and coordinate files by their packed longitude/latitude key,
// so that nearby points end up near each other on disk.
//
// Paths may be local or S3 URLs.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/must"
	"github.com/grailbio/geosort/geoconfig"
	"github.com/grailbio/geosort/metrics"
	"github.com/grailbio/geosort/sortio"
)

func init() {
	file.RegisterImplementation("s3", func() file.Implementation {
		return s3file.NewImplementation(
			s3file.NewDefaultProvider(session.Options{}), s3file.Options{})
	})
}

func usage() {
	fmt.Fprintf(os.Stderr, `Geosort is a tool for sorting datasets larger than memory.

Usage:

	geosort [flags] <command> [arguments]

The commands are:

	lines    sort a text file by line
	coords   sort a file of "lon,lat" records by packed coordinate

Sort parameters are read from %s and may be
overridden with -set geosort/sort.<param>=<value>.
`, geoconfig.Path)
	flag.PrintDefaults()
	os.Exit(2)
}

func main() {
	log.AddFlags()
	log.SetFlags(0)
	log.SetPrefix("geosort: ")
	must.Func = log.Fatal
	flag.Usage = usage
	opts := geoconfig.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
	}
	cmd, args := flag.Arg(0), flag.Args()[1:]
	var run func(context.Context, sortio.Options, []string) error
	switch cmd {
	default:
		fmt.Fprintln(os.Stderr, "unknown command", cmd)
		flag.Usage()
	case "lines":
		run = linesCmd
	case "coords":
		run = coordsCmd
	}
	var (
		scope metrics.Scope
		ctx   = metrics.ScopedContext(context.Background(), &scope)
	)
	if err := run(ctx, *opts, args); err != nil {
		log.Fatal(err)
	}
	scope.Each(func(name string, value uint64) {
		log.Printf("%s: %d", name, value)
	})
}

// sortFlags parses the flags common to every sort command and returns
// the positional source and destination paths.
func sortFlags(name string, opts *sortio.Options, args []string) (src, dst string) {
	flags := flag.NewFlagSet(name, flag.ExitOnError)
	flags.BoolVar(&opts.Distinct, "distinct", false, "drop records that compare equal to a previous record")
	flags.BoolVar(&opts.Verify, "verify", false, "check that the output is a permutation of the input")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: geosort %s [-distinct] [-verify] src dst\n", name)
		flags.PrintDefaults()
		os.Exit(2)
	}
	must.Nil(flags.Parse(args))
	if flags.NArg() != 2 {
		flags.Usage()
	}
	return flags.Arg(0), flags.Arg(1)
}
