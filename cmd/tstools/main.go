/*
NAME
  main.go

DESCRIPTION
  tstools is a CLI over the four ARIB Transport Stream operations:
  events (EPG extraction), caption (closed-caption extraction), jitter
  (A/V timestamp jitter) and clean (PAT-rewriting TS filter).

AUTHOR
  Saxon Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main is the tstools command-line entry point.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ausocean/utils/logging"
	"github.com/coreos/go-systemd/journal"
	"gopkg.in/natefinch/lumberjack.v2"
)

const pkg = "tstools: "

// Set once by main before dispatching to a subcommand; newLogger reads
// them so every run* function keeps its existing no-argument call.
var (
	logFilePath  string
	logToSystemd bool
)

// journalWriter forwards each Write to the systemd journal at info
// priority, so `tstools --systemd` shows up in `journalctl -u` output
// the same way cmd/rv's netlogger output does for netsender-managed
// deployments.
type journalWriter struct{}

func (journalWriter) Write(p []byte) (int, error) {
	if err := journal.Print(journal.PriInfo, "%s", p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func newLogger() logging.Logger {
	var w io.Writer = os.Stderr
	if logFilePath != "" {
		w = io.MultiWriter(w, &lumberjack.Logger{Filename: logFilePath, MaxSize: 500, MaxBackups: 3, MaxAge: 28})
	}
	if logToSystemd {
		w = io.MultiWriter(w, journalWriter{})
	}
	return logging.New(logging.Info, w, false)
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: tstools [--log-file path] [--systemd] <events|caption|jitter|clean> [flags] [args]")
}

func main() {
	fs := flag.NewFlagSet("tstools", flag.ExitOnError)
	fs.StringVar(&logFilePath, "log-file", "", "rotate log output to this file in addition to stderr")
	fs.BoolVar(&logToSystemd, "systemd", false, "also log to the systemd journal")
	fs.Parse(os.Args[1:])

	args := fs.Args()
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}

	var err error
	switch args[0] {
	case "events":
		err = runEvents(args[1:])
	case "caption":
		err = runCaption(args[1:])
	case "jitter":
		err = runJitter(args[1:])
	case "clean":
		err = runClean(args[1:])
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, pkg+err.Error())
		os.Exit(1)
	}
}

// inputFile opens name for reading, treating "" and "-" as stdin.
func inputFile(name string) (*os.File, error) {
	if name == "" || name == "-" {
		return os.Stdin, nil
	}
	return os.Open(name)
}

// outputFile opens name for writing, treating "" and "-" as stdout.
func outputFile(name string) (*os.File, error) {
	if name == "" || name == "-" {
		return os.Stdout, nil
	}
	return os.Create(name)
}
