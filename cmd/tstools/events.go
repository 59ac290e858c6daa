/*
NAME
  events.go

DESCRIPTION
  The `events` subcommand: emits one JSON object per line describing
  an EPG event.

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
	"encoding/json"
	"flag"
	"os"

	"github.com/pkg/errors"

	"github.com/ausocean/tstools/pipeline"
)

type eventJSON struct {
	ID       uint16            `json:"id"`
	Start    string            `json:"start,omitempty"`
	Duration int64             `json:"duration"`
	Title    string            `json:"title"`
	Summary  string            `json:"summary"`
	Detail   map[string]string `json:"detail"`
	Category string            `json:"category"`
}

func runEvents(args []string) error {
	fs := flag.NewFlagSet("events", flag.ExitOnError)
	fs.Parse(args)

	var input string
	if fs.NArg() > 0 {
		input = fs.Arg(0)
	}

	in, err := inputFile(input)
	if err != nil {
		return errors.Wrap(err, "events: opening input")
	}
	defer in.Close()

	records, err := pipeline.Events(in, newLogger())
	if err != nil {
		return errors.Wrap(err, "events")
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	enc := json.NewEncoder(w)
	for _, rec := range records {
		ej := eventJSON{
			ID:       rec.ID,
			Duration: int64(rec.Duration.Seconds()),
			Title:    rec.Title,
			Summary:  rec.Summary,
			Detail:   rec.Detail,
			Category: rec.Category,
		}
		if rec.HasStart {
			ej.Start = rec.Start.Format("2006-01-02T15:04:05-07:00")
		}
		if err := enc.Encode(ej); err != nil {
			return errors.Wrap(err, "events: writing output")
		}
	}
	return nil
}
