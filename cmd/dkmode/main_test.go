package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/dkmode/config"
)

const sample = "nat : Type.\n" +
	"def two : nat := s (s z).\n" +
	"[x : nat] plus x z --> x.\n"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	opts := &options{cfg: config.Default()}
	root := newRootCmd(opts)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func sampleFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.dk")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUnitCommand(t *testing.T) {
	path := sampleFile(t, sample)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"offsets", []string{"unit", "--offset", "29", "--end", "36", path}, "nat : Type.\n:= s (s z).\n"},
		{"line and column", []string{"--directive", "snf", "unit", "--at", "2:18", "--to", "2:25", path}, "nat : Type.\n#SNF s (s z).\n"},
		{"identifier", []string{"unit", "--directive", "wnf", "--at", "3:24", path}, "nat : Type.\ndef two : nat := s (s z).\nx : nat.\n#WNF x.\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("unit error = %v", err)
			}
			if got != tt.want {
				t.Errorf("unit = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestContextCommand(t *testing.T) {
	path := sampleFile(t, sample)

	got, err := run(t, "context", "--at", "3:2", path)
	if err != nil {
		t.Fatalf("context error = %v", err)
	}
	for _, line := range []string{"region\tContext\n", "phrase\tRule\t3:1-3:26\n", "rule\tx\tnat\n"} {
		if !strings.Contains(got, line) {
			t.Errorf("context output %q does not contain %q", got, line)
		}
	}

	got, err = run(t, "--format", "json", "context", "--offset", "39", path)
	if err != nil {
		t.Fatalf("context --format json error = %v", err)
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(got), &data); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, got)
	}
	if data["region"] != "Context" {
		t.Errorf("region = %v, want Context", data["region"])
	}
}

func TestTokensCommand(t *testing.T) {
	path := sampleFile(t, "a : T.")
	forward, err := run(t, "tokens", path)
	if err != nil {
		t.Fatalf("tokens error = %v", err)
	}
	want := "1:1\tNEWID\t\"a\"\n1:3\tTCOLON\t\":\"\n1:5\tID\t\"T\"\n1:6\t.\t\".\"\n"
	if forward != want {
		t.Errorf("tokens = %q, want %q", forward, want)
	}
	backward, err := run(t, "tokens", "--backward", path)
	if err != nil {
		t.Fatalf("tokens --backward error = %v", err)
	}
	if backward != forward {
		t.Errorf("tokens --backward = %q, want %q", backward, forward)
	}
}

func TestIndentCommand(t *testing.T) {
	text := "[x : Nat]\n      plus x 0\n--> x."
	path := sampleFile(t, text)

	diff, err := run(t, "indent", "--diff", path)
	if err != nil {
		t.Fatalf("indent --diff error = %v", err)
	}
	if !strings.HasPrefix(diff, "--- "+path+"\n+++ ") {
		t.Errorf("indent --diff = %q, want a unified diff", diff)
	}

	if _, err := run(t, "indent", "-w", path); err != nil {
		t.Fatalf("indent -w error = %v", err)
	}
	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(written) == text {
		t.Errorf("indent -w left the file unchanged")
	}
	again, err := run(t, "indent", "--diff", path)
	if err != nil || again != "" {
		t.Errorf("indent --diff after -w = %q, %v, want no diff", again, err)
	}
}

func TestGrammarCommands(t *testing.T) {
	if _, err := run(t, "grammar", "check"); err != nil {
		t.Errorf("grammar check error = %v", err)
	}
	got, err := run(t, "grammar", "terminals")
	if err != nil {
		t.Fatalf("grammar terminals error = %v", err)
	}
	if !strings.Contains(got, "-->") {
		t.Errorf("grammar terminals = %q, want the rewrite arrow", got)
	}
}

func TestCommandErrors(t *testing.T) {
	path := sampleFile(t, sample)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing position", []string{"context", path}, "--offset"},
		{"bad position", []string{"context", "--at", "9:1", path}, "line out of range"},
		{"bad indent", []string{"--indent", "0", "context", "--offset", "0", path}, "basic indent"},
		{"bad format", []string{"--format", "xml", "context", "--offset", "0", path}, "unknown format"},
		{"bad directive", []string{"--directive", "#EVAL", "unit", "--offset", "29", "--end", "36", path}, "bad reduction directive"},
		{"no identifier", []string{"unit", "--offset", "31", path}, "no identifier"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want one containing %q", err, tt.want)
			}
		})
	}
}
