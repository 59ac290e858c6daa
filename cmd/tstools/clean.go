/*
NAME
  clean.go

DESCRIPTION
  The `clean` subcommand: writes a filtered, PAT-rewritten Transport
  Stream retaining only the selected program.

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
	"bufio"
	"flag"

	"github.com/pkg/errors"

	"github.com/ausocean/tstools/pipeline"
)

func runClean(args []string) error {
	fs := flag.NewFlagSet("clean", flag.ExitOnError)
	serviceIndex := fs.Int("service-index", 0, "index of the program to keep, among the PAT's listed programs")
	fs.Parse(args)

	var input, output string
	if fs.NArg() > 0 {
		input = fs.Arg(0)
	}
	if fs.NArg() > 1 {
		output = fs.Arg(1)
	}

	in, err := inputFile(input)
	if err != nil {
		return errors.Wrap(err, "clean: opening input")
	}
	defer in.Close()

	out, err := outputFile(output)
	if err != nil {
		return errors.Wrap(err, "clean: opening output")
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	if err := pipeline.Clean(in, w, newLogger(), *serviceIndex); err != nil {
		return errors.Wrap(err, "clean")
	}
	return w.Flush()
}
