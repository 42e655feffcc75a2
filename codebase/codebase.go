// Package codebase keeps the Dedukti files of a workspace in memory, open
// editor buffers taking precedence over the disk, and answers the position
// queries the language server needs.
package codebase

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dhamidi/dkmode/dedukti/eval"
	"github.com/dhamidi/dkmode/dedukti/indent"
	"github.com/dhamidi/dkmode/dedukti/lexer"
	"github.com/dhamidi/dkmode/dedukti/phrase"
	"github.com/dhamidi/dkmode/dedukti/source"
	"github.com/dhamidi/dkmode/format"
	"github.com/tliron/commonlog"
)

// Ext is the extension of Dedukti source files.
const Ext = ".dk"

var log = commonlog.GetLogger("dkmode.codebase")

type Codebase struct {
	mu      sync.RWMutex
	rootDir string
	files   map[string]*FileInfo
}

type FileInfo struct {
	Path    string
	Buffer  *source.Buffer
	Phrases []phrase.Phrase
	// Open is set while an editor owns the file; disk changes are ignored.
	Open bool
}

func New(rootDir string) *Codebase {
	return &Codebase{
		rootDir: rootDir,
		files:   make(map[string]*FileInfo),
	}
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

func (c *Codebase) ScanAll() error {
	return filepath.Walk(c.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != c.rootDir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == Ext {
			if err := c.ScanFile(path); err != nil {
				log.Warningf("scan %s: %s", path, err)
			}
		}
		return nil
	})
}

// ScanFile reads path from disk unless an editor has it open.
func (c *Codebase) ScanFile(path string) error {
	_, err := c.scanFile(path)
	return err
}

// scanFile reports whether path was segmented again. Files whose content is
// unchanged keep their phrases.
func (c *Codebase) scanFile(path string) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if f := c.files[path]; f != nil && (f.Open || bytes.Equal(f.Buffer.Bytes(), content)) {
		return false, nil
	}
	c.updateFileLocked(path, content, false)
	return true, nil
}

// UpdateFile stores the editor's view of path.
func (c *Codebase) UpdateFile(path string, content []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateFileLocked(path, content, true)
}

func (c *Codebase) updateFileLocked(path string, content []byte, open bool) {
	b := source.New(content, path)
	c.files[path] = &FileInfo{
		Path:    path,
		Buffer:  b,
		Phrases: phrase.All(b),
		Open:    open,
	}
	log.Debugf("updated %s (%d bytes)", path, len(content))
}

// CloseFile hands path back to the watcher.
func (c *Codebase) CloseFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f := c.files[path]; f != nil {
		f.Open = false
	}
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f := c.files[path]; f != nil && f.Open {
		return
	}
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Paths returns the known files in lexical order.
func (c *Codebase) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for p := range c.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// AnalysisAt describes the offset of a file, or returns nil for an unknown file.
func (c *Codebase) AnalysisAt(path string, offset int) *format.Analysis {
	f := c.GetFile(path)
	if f == nil {
		return nil
	}
	return format.Analyze(f.Buffer, offset)
}

// Reindent returns the file with every line reindented.
func (c *Codebase) Reindent(path string, basic int) *source.Buffer {
	f := c.GetFile(path)
	if f == nil {
		return nil
	}
	return indent.New(basic).Reindent(f.Buffer)
}

// Unit builds the evaluation unit for selection in path.
func (c *Codebase) Unit(path string, selection source.Span, d eval.Directive) (string, error) {
	f := c.GetFile(path)
	if f == nil {
		return "", os.ErrNotExist
	}
	p, err := phrase.At(f.Buffer, selection.Start)
	if err != nil {
		return "", err
	}
	return eval.BuildUnit(f.Buffer, p, selection, d)
}

// Declarations returns the names introduced by the declarations and
// definitions of every known file.
func (c *Codebase) Declarations() []Declaration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var decls []Declaration
	for _, f := range c.files {
		for _, p := range f.Phrases {
			if name, ok := DeclaredName(f.Buffer, p); ok {
				decls = append(decls, Declaration{Name: name, Path: f.Path, Kind: p.Kind})
			}
		}
	}
	sort.Slice(decls, func(i, j int) bool {
		if decls[i].Name != decls[j].Name {
			return decls[i].Name < decls[j].Name
		}
		return decls[i].Path < decls[j].Path
	})
	return decls
}

type Declaration struct {
	Name string
	Path string
	Kind phrase.Kind
}

// DeclaredName is the last of the leading identifiers of a declaration, so
// that modifiers such as "def" or "injective" are skipped.
func DeclaredName(b *source.Buffer, p phrase.Phrase) (string, bool) {
	if p.Kind != phrase.Declaration && p.Kind != phrase.Definition {
		return "", false
	}
	name := ""
	i := p.Span.Start
	for i < p.Span.End {
		tok, ok := lexer.Forward(b, i)
		if !ok || tok.Kind != lexer.TokenNewID {
			break
		}
		name = tok.Literal
		i = tok.Span.End
	}
	return name, name != ""
}
