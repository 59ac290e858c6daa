/*
NAME
  caption.go

DESCRIPTION
  The `caption` subcommand: emits one JSON object per decoded caption
  line, substituting DRCS glyphs via an operator-supplied replacement
  map.

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
	"encoding/hex"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/ausocean/tstools/container/mts/drcs"
	"github.com/ausocean/tstools/pipeline"
	"github.com/ausocean/utils/logging"
)

type captionJSON struct {
	TimeSec int64  `json:"time_sec"`
	TimeMs  int64  `json:"time_ms"`
	Caption string `json:"caption"`
}

type drcsMapFile struct {
	DRCS map[string]string `json:"drcs"`
}

// parseDRCSMapFile decodes a DRCS replacement map file into a
// fingerprint table, without binding it to any Processor - shared by
// loadDRCSMap's initial load and watchDRCSMap's hot reload.
func parseDRCSMapFile(path string) (map[drcs.Fingerprint]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening DRCS map")
	}
	defer f.Close()

	var m drcsMapFile
	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return nil, errors.Wrap(err, "decoding DRCS map")
	}
	out := make(map[drcs.Fingerprint]string, len(m.DRCS))
	for hexFP, replacement := range m.DRCS {
		raw, err := hex.DecodeString(hexFP)
		if err != nil || len(raw) != 16 {
			return nil, errors.Errorf("DRCS map: invalid fingerprint %q", hexFP)
		}
		var fp drcs.Fingerprint
		copy(fp[:], raw)
		out[fp] = replacement
	}
	return out, nil
}

func loadDRCSMap(path string, policy drcs.Policy) (*drcs.Processor, error) {
	proc := drcs.NewProcessor(policy)
	if path == "" {
		return proc, nil
	}
	m, err := parseDRCSMapFile(path)
	if err != nil {
		return nil, err
	}
	proc.ReplaceAll(m)
	return proc, nil
}

// watchDRCSMap reloads proc's replacement table whenever path changes on
// disk, so an operator can patch in missing glyph mappings without
// restarting a long-running caption decode. Watch setup failures and
// reload failures are logged rather than fatal: a bad edit shouldn't
// kill an otherwise-healthy decode already in progress.
func watchDRCSMap(path string, proc *drcs.Processor, log logging.Logger) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Error("DRCS map watcher unavailable", "error", err)
		return
	}
	// Watch the containing directory rather than the file itself: editors
	// commonly replace a file via rename-into-place, which drops a
	// watch held on the old inode.
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		log.Error("DRCS map watcher unavailable", "path", dir, "error", err)
		w.Close()
		return
	}
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(path) || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				m, err := parseDRCSMapFile(path)
				if err != nil {
					log.Error("DRCS map reload failed", "error", err)
					continue
				}
				proc.ReplaceAll(m)
				log.Info("DRCS map reloaded", "path", path, "entries", len(m))
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Error("DRCS map watcher error", "error", err)
			}
		}
	}()
}

func drcsPolicyFromFlag(s string) (drcs.Policy, error) {
	switch s {
	case "ignore":
		return drcs.PolicyIgnore, nil
	case "fail-fast":
		return drcs.PolicyFailFast, nil
	case "error-exit":
		return drcs.PolicyErrorExit, nil
	default:
		return 0, errors.Errorf("caption: unknown --handle-drcs value %q", s)
	}
}

func runCaption(args []string) error {
	fs := flag.NewFlagSet("caption", flag.ExitOnError)
	serviceIndex := fs.Int("service-index", 0, "index of the program to decode, among the PAT's listed programs")
	drcsMapPath := fs.String("drcs-map", "", "path to a JSON DRCS replacement map")
	handleDRCS := fs.String("handle-drcs", "ignore", "unknown-glyph policy: ignore|fail-fast|error-exit")
	fs.Parse(args)

	var input string
	if fs.NArg() > 0 {
		input = fs.Arg(0)
	}

	log := newLogger()

	policy, err := drcsPolicyFromFlag(*handleDRCS)
	if err != nil {
		return err
	}
	proc, err := loadDRCSMap(*drcsMapPath, policy)
	if err != nil {
		return errors.Wrap(err, "caption")
	}
	if *drcsMapPath != "" {
		watchDRCSMap(*drcsMapPath, proc, log)
	}

	in, err := inputFile(input)
	if err != nil {
		return errors.Wrap(err, "caption: opening input")
	}
	defer in.Close()

	captions, errc := pipeline.Captions(in, log, *serviceIndex, proc)

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	enc := json.NewEncoder(w)
	for c := range captions {
		if err := enc.Encode(captionJSON{TimeSec: c.TimeSec, TimeMs: c.TimeMs, Caption: c.Text}); err != nil {
			return errors.Wrap(err, "caption: writing output")
		}
	}

	select {
	case err := <-errc:
		if err != nil {
			return errors.Wrap(err, "caption")
		}
	default:
	}
	return nil
}
