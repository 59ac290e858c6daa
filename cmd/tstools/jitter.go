/*
NAME
  jitter.go

DESCRIPTION
  The `jitter` subcommand: emits a single JSON object with the
  measured A/V presentation-timestamp jitter in seconds.

AUTHOR
  Saxon Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"encoding/json"
	"flag"
	"os"

	"github.com/pkg/errors"

	"github.com/ausocean/tstools/pipeline"
)

func runJitter(args []string) error {
	fs := flag.NewFlagSet("jitter", flag.ExitOnError)
	serviceIndex := fs.Int("service-index", 0, "index of the program to measure, among the PAT's listed programs")
	fs.Parse(args)

	var input string
	if fs.NArg() > 0 {
		input = fs.Arg(0)
	}

	in, err := inputFile(input)
	if err != nil {
		return errors.Wrap(err, "jitter: opening input")
	}
	defer in.Close()

	jitter, err := pipeline.Jitter(in, newLogger(), *serviceIndex)
	if err != nil {
		return errors.Wrap(err, "jitter")
	}

	return json.NewEncoder(os.Stdout).Encode(struct {
		Jitter float64 `json:"jitter"`
	}{Jitter: jitter})
}
