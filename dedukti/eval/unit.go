package eval

import (
	"fmt"
	"strings"

	"github.com/dhamidi/dkmode/dedukti/phrase"
	"github.com/dhamidi/dkmode/dedukti/scope"
	"github.com/dhamidi/dkmode/dedukti/source"
)

// BuildUnit returns a program made of the text before the phrase, one
// declaration per variable in scope at the selection, and the directive
// applied to the selected term. Rule variables come first in their written
// order, then local binders from the outermost inward, so every type only
// mentions variables declared above it.
//
// The prefix is copied verbatim; no dependency analysis is done.
func BuildUnit(b *source.Buffer, p phrase.Phrase, selection source.Span, d Directive) (string, error) {
	if selection.End < selection.Start {
		return "", fmt.Errorf("selection %d-%d is reversed", selection.Start, selection.End)
	}
	term := strings.TrimSpace(b.Text(selection))
	if term == "" {
		return "", fmt.Errorf("empty selection at %d", selection.Start)
	}

	s, err := scope.Reconstruct(b, p, selection.Start)
	if err != nil {
		return "", fmt.Errorf("reconstruct context: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(b.Slice(0, p.Span.Start))
	for _, e := range s.Rule {
		writeDecl(&sb, e)
	}
	for _, e := range s.Local.Reversed() {
		writeDecl(&sb, e)
	}
	sb.WriteString(d.Apply(term))
	return sb.String(), nil
}

func writeDecl(sb *strings.Builder, e scope.Entry) {
	fmt.Fprintf(sb, "%s : %s.\n", e.Name, e.Type)
}
