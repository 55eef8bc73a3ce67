// Copyright 2019 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache 2.0
// license that can be found in the LICENSE file.

// Package geoconfig provides sort options from a shared configuration.
// Geoconfig uses the configuration mechanism in package
// github.com/grailbio/base/config, and reads a default profile from
// $HOME/.geosort/config.
package geoconfig

import (
	"flag"
	"os"

	"github.com/grailbio/base/config"
	"github.com/grailbio/base/must"
	"github.com/grailbio/geosort/sortio"
)

// Path determines the location of the geosort profile read by Parse.
var Path = os.ExpandEnv("$HOME/.geosort/config")

// Parse registers configuration flags and calls flag.Parse. It reads
// geosort configuration from Path defined in this package, and returns
// the sort options as configured by the profile and any flags
// provided. Parse panics if the configuration is invalid.
func Parse() *sortio.Options {
	config.RegisterFlags("", Path)
	flag.Parse()
	must.Nil(config.ProcessFlags())
	return Options()
}

// Options returns the sort options of the current configuration. It
// panics if the configuration is invalid.
func Options() *sortio.Options {
	var opts *sortio.Options
	config.Must("geosort/sort", &opts)
	return opts
}
