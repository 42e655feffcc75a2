package codebase

import (
	"strings"

	"github.com/dhamidi/dkmode/dedukti/source"
)

type CompletionKind int

const (
	CompletionKindVariable CompletionKind = iota
	CompletionKindRuleVariable
	CompletionKindConstant
)

type CompletionItem struct {
	Label  string
	Kind   CompletionKind
	Detail string
}

// CompletionsAt offers the variables in scope at offset, innermost first,
// then the declared constants of the workspace. Only names extending the
// identifier being typed are kept, and a shadowed name is offered once.
func (c *Codebase) CompletionsAt(path string, offset int) []CompletionItem {
	f := c.GetFile(path)
	if f == nil {
		return nil
	}
	b := f.Buffer
	offset = b.Clamp(offset)
	prefix := identPrefix(b, offset)

	seen := make(map[string]bool)
	var items []CompletionItem
	add := func(item CompletionItem) {
		if seen[item.Label] || !strings.HasPrefix(item.Label, prefix) {
			return
		}
		seen[item.Label] = true
		items = append(items, item)
	}

	if a := c.AnalysisAt(path, offset); a != nil && a.Scope != nil {
		for _, e := range a.Scope.Local {
			add(CompletionItem{Label: e.Name, Kind: CompletionKindVariable, Detail: e.Type})
		}
		for i := len(a.Scope.Rule) - 1; i >= 0; i-- {
			e := a.Scope.Rule[i]
			add(CompletionItem{Label: e.Name, Kind: CompletionKindRuleVariable, Detail: e.Type})
		}
	}
	for _, d := range c.Declarations() {
		add(CompletionItem{Label: d.Name, Kind: CompletionKindConstant, Detail: d.Kind.String()})
	}
	return items
}

func identPrefix(b *source.Buffer, offset int) string {
	start := offset
	for start > 0 && source.IsIdentChar(b.At(start-1)) {
		start--
	}
	return b.Slice(start, offset)
}
