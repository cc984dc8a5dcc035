package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestConfigCommandPrintsDefaultsWithoutFile(t *testing.T) {
	configFile = ""
	cmd := newRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"config"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected config output, got nothing")
	}
}

func TestConfigCommandReadsConfigFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sfnul.yaml")
	if err := os.WriteFile(path, []byte("reactor:\n  workers: 11\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	configFile = ""
	cmd := newRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"config", "--config", path})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("workers: 11")) {
		t.Fatalf("output %q does not contain the overridden worker count", buf.String())
	}
}

func TestConfigCommandRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sfnul.yaml")
	if err := os.WriteFile(path, []byte("reactor:\n  workers: -3\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	configFile = ""
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"config", "--config", path})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected Execute to fail on an invalid configuration file")
	}
}
