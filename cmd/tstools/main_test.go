/*
NAME
  main_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInputFileDefaultsToStdin(t *testing.T) {
	for _, name := range []string{"", "-"} {
		f, err := inputFile(name)
		if err != nil {
			t.Fatal(err)
		}
		if f != os.Stdin {
			t.Fatalf("inputFile(%q) = %v, want os.Stdin", name, f)
		}
	}
}

func TestInputFileOpensNamedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.ts")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := inputFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if f == os.Stdin {
		t.Fatal("inputFile(path) should not return os.Stdin")
	}
}

func TestOutputFileDefaultsToStdout(t *testing.T) {
	for _, name := range []string{"", "-"} {
		f, err := outputFile(name)
		if err != nil {
			t.Fatal(err)
		}
		if f != os.Stdout {
			t.Fatalf("outputFile(%q) = %v, want os.Stdout", name, f)
		}
	}
}

func TestOutputFileCreatesNamedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.ts")
	f, err := outputFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("outputFile(%q) did not create the file: %v", path, err)
	}
}

func TestNewLoggerReady(t *testing.T) {
	log := newLogger()
	if log == nil {
		t.Fatal("newLogger() returned nil")
	}
	log.Info("test log line") // must not panic
}
