// Package eval assembles standalone Dedukti units that ask the external
// checker to reduce a selected term in the context it was written in.
package eval

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrBadDirective = errors.New("bad reduction directive")

// Directive is a format string with exactly one %s, where the term goes.
type Directive struct {
	Name     string
	Template string
}

var (
	HeadNormalForm   = Directive{Name: "hnf", Template: ":= %s."}
	WeakNormalForm   = Directive{Name: "wnf", Template: "#WNF %s."}
	StrongNormalForm = Directive{Name: "snf", Template: "#SNF %s."}
)

// DefaultDirective is used when no directive is configured.
var DefaultDirective = HeadNormalForm

var builtins = map[string]Directive{
	HeadNormalForm.Name:   HeadNormalForm,
	WeakNormalForm.Name:   WeakNormalForm,
	StrongNormalForm.Name: StrongNormalForm,
}

// Builtins returns the names of the built-in directives, sorted.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseDirective accepts a built-in name or a custom template.
func ParseDirective(s string) (Directive, error) {
	if s == "" {
		return DefaultDirective, nil
	}
	if d, ok := builtins[strings.ToLower(s)]; ok {
		return d, nil
	}
	if strings.Count(s, "%s") != 1 || strings.Count(s, "%") != 1 {
		return Directive{}, fmt.Errorf("%q: template needs exactly one %%s: %w", s, ErrBadDirective)
	}
	return Directive{Name: "custom", Template: s}, nil
}

// Apply formats term into the directive.
func (d Directive) Apply(term string) string {
	return strings.Replace(d.Template, "%s", term, 1)
}

func (d Directive) String() string {
	return d.Name
}
