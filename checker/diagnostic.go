package checker

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "WARNING"
	}
	return "ERROR"
}

// Diagnostic is one located message from the checker. Line and Column are
// as reported, 1-based.
type Diagnostic struct {
	Severity Severity
	File     string
	Line     int
	Column   int
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.File, d.Line, d.Column, strings.ToLower(d.Severity.String()), d.Message)
}

var diagnosticLine = regexp.MustCompile(`^(ERROR|WARNING) file:(\S+) line:(\d+) column:(\d+)\s*(.*)$`)

// ParseDiagnostics extracts the ERROR and WARNING lines of checker output.
// Continuation lines that follow a diagnostic are appended to its message.
func ParseDiagnostics(output string) []Diagnostic {
	var diags []Diagnostic
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		m := diagnosticLine.FindStringSubmatch(line)
		if m == nil {
			if len(diags) > 0 && strings.TrimSpace(line) != "" && startsIndented(line) {
				last := &diags[len(diags)-1]
				last.Message += "\n" + strings.TrimSpace(line)
			}
			continue
		}
		lineNo, _ := strconv.Atoi(m[3])
		col, _ := strconv.Atoi(m[4])
		sev := SeverityError
		if m[1] == "WARNING" {
			sev = SeverityWarning
		}
		diags = append(diags, Diagnostic{
			Severity: sev,
			File:     m[2],
			Line:     lineNo,
			Column:   col,
			Message:  m[5],
		})
	}
	return diags
}

func startsIndented(line string) bool {
	return line[0] == ' ' || line[0] == '\t'
}

var deBruijn = regexp.MustCompile(`([A-Za-z0-9_!?'])\[[0-9]+\]`)

// StripDeBruijn removes the de Bruijn index annotations ("x[3]") the checker
// attaches to bound variables in printed terms.
func StripDeBruijn(s string) string {
	return deBruijn.ReplaceAllString(s, "$1")
}
