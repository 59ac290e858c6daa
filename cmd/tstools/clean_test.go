/*
NAME
  clean_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"path/filepath"
	"testing"
)

func TestRunCleanReportsMissingInput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.ts")
	err := runClean([]string{filepath.Join(t.TempDir(), "does-not-exist.ts"), out})
	if err == nil {
		t.Fatal("expected an error when the input file doesn't exist")
	}
}
