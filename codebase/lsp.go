package codebase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/dhamidi/dkmode/checker"
	"github.com/dhamidi/dkmode/config"
	"github.com/dhamidi/dkmode/dedukti/source"
	"github.com/dhamidi/dkmode/format"
	"github.com/tliron/commonlog"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "dkmode"

// CommandEvaluate evaluates the selected term with the configured directive.
// Arguments: the document URI, the selected range, and optionally a
// directive overriding the configured one.
const CommandEvaluate = "dkmode.evaluate"

var lspLog = commonlog.GetLogger("dkmode.lsp")

type LSPServer struct {
	codebase *Codebase
	watcher  *FileWatcher
	runner   *checker.Runner
	config   config.Config
	handler  protocol.Handler
	server   *server.Server
	version  string
}

func NewLSPServer(version string, cfg config.Config) *LSPServer {
	ls := &LSPServer{
		version: version,
		config:  cfg,
		runner:  checker.NewRunner(cfg),
	}

	ls.handler = protocol.Handler{
		Initialize:              ls.initialize,
		Initialized:             ls.initialized,
		Shutdown:                ls.shutdown,
		SetTrace:                ls.setTrace,
		TextDocumentDidOpen:     ls.textDocumentDidOpen,
		TextDocumentDidChange:   ls.textDocumentDidChange,
		TextDocumentDidClose:    ls.textDocumentDidClose,
		TextDocumentDidSave:     ls.textDocumentDidSave,
		TextDocumentHover:       ls.textDocumentHover,
		TextDocumentCompletion:  ls.textDocumentCompletion,
		TextDocumentFormatting:  ls.textDocumentFormatting,
		WorkspaceExecuteCommand: ls.workspaceExecuteCommand,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.codebase = New(rootDir)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{}
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: []string{CommandEvaluate},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.codebase.ScanAll(); err != nil {
		lspLog.Warningf("scan %s: %s", ls.codebase.RootDir(), err)
	}
	ls.watcher = NewFileWatcher(ls.codebase)
	ls.watcher.Start()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
		ls.watcher = nil
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.codebase.UpdateFile(path, []byte(params.TextDocument.Text))
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.codebase.UpdateFile(path, []byte(textChange.Text))
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.codebase.CloseFile(path)
	return nil
}

// textDocumentDidSave runs the checker on the saved file and publishes what
// it reports. The run happens in the background so slow checks do not block
// the connection.
func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := params.TextDocument.URI
	path, err := uriToPath(uri)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.codebase.UpdateFile(path, []byte(*params.Text))
	}

	go func() {
		res, err := ls.runner.Check(context.Background(), path)
		if err != nil {
			lspLog.Errorf("check %s: %s", path, err)
			ls.showMessage(ctx, protocol.MessageTypeError, err.Error())
			return
		}
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         uri,
			Diagnostics: ls.diagnostics(path, res.Diagnostics),
		})
	}()
	return nil
}

// diagnostics converts the checker's reports about path. Reports about other
// files, such as imported modules, are dropped.
func (ls *LSPServer) diagnostics(path string, diags []checker.Diagnostic) []protocol.Diagnostic {
	f := ls.codebase.GetFile(path)
	result := []protocol.Diagnostic{}
	if f == nil {
		return result
	}
	for _, d := range diags {
		if filepath.Base(d.File) != filepath.Base(path) {
			continue
		}
		offset := f.Buffer.Offset(d.Line, d.Column)
		severity := protocol.DiagnosticSeverityError
		if d.Severity == checker.SeverityWarning {
			severity = protocol.DiagnosticSeverityWarning
		}
		src := lsName
		result = append(result, protocol.Diagnostic{
			Range:    rangeOf(f.Buffer, source.Span{Start: offset, End: offset}),
			Severity: &severity,
			Source:   &src,
			Message:  d.Message,
		})
	}
	return result
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.codebase.GetFile(path)
	if f == nil {
		return nil, nil
	}

	offset := offsetOf(f.Buffer, params.Position)
	a := ls.codebase.AnalysisAt(path, offset)
	var text strings.Builder
	if err := format.NewLineEncoder(&text).Encode(a); err != nil {
		return nil, err
	}

	hover := &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: "```\n" + strings.TrimRight(text.String(), "\n") + "\n```",
		},
	}
	if a.Token != nil {
		r := rangeOf(f.Buffer, a.Token.Span)
		hover.Range = &r
	}
	return hover, nil
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.codebase.GetFile(path)
	if f == nil {
		return nil, nil
	}

	completions := ls.codebase.CompletionsAt(path, offsetOf(f.Buffer, params.Position))
	if len(completions) == 0 {
		return nil, nil
	}

	var items []protocol.CompletionItem
	for _, c := range completions {
		kind := toProtocolKind(c.Kind)
		detail := c.Detail
		items = append(items, protocol.CompletionItem{
			Label:  c.Label,
			Kind:   &kind,
			Detail: &detail,
		})
	}
	return items, nil
}

// textDocumentFormatting reindents the whole document as a single edit.
func (ls *LSPServer) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.codebase.GetFile(path)
	if f == nil {
		return nil, nil
	}

	out := ls.codebase.Reindent(path, ls.config.BasicIndent)
	if out.String() == f.Buffer.String() {
		return []protocol.TextEdit{}, nil
	}
	return []protocol.TextEdit{{
		Range:   rangeOf(f.Buffer, source.Span{Start: 0, End: f.Buffer.Len()}),
		NewText: out.String(),
	}}, nil
}

type evaluateArgs struct {
	URI       string
	Range     protocol.Range
	Directive string
}

func (ls *LSPServer) workspaceExecuteCommand(ctx *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	if params.Command != CommandEvaluate {
		return nil, fmt.Errorf("unknown command %q", params.Command)
	}
	args, err := parseEvaluateArgs(params.Arguments)
	if err != nil {
		return nil, err
	}
	path, err := uriToPath(args.URI)
	if err != nil {
		return nil, err
	}
	f := ls.codebase.GetFile(path)
	if f == nil {
		return nil, fmt.Errorf("%s is not open", path)
	}

	directive := ls.config.Directive
	if args.Directive != "" {
		directive = args.Directive
	}
	cfg := ls.config
	cfg.Directive = directive
	d, err := cfg.ReductionDirective()
	if err != nil {
		return nil, err
	}

	unit, err := ls.codebase.Unit(path, spanOf(f.Buffer, args.Range), d)
	if err != nil {
		ls.showMessage(ctx, protocol.MessageTypeError, err.Error())
		return nil, err
	}
	res, err := ls.runner.Evaluate(context.Background(), unit, filepath.Dir(path))
	if err != nil {
		ls.showMessage(ctx, protocol.MessageTypeError, err.Error())
		return nil, err
	}
	out := strings.TrimSpace(res.Output)
	ls.showMessage(ctx, protocol.MessageTypeInfo, out)
	return out, nil
}

// parseEvaluateArgs decodes [uri, range, directive?]. The arguments arrive
// as generic JSON values.
func parseEvaluateArgs(raw []any) (evaluateArgs, error) {
	var args evaluateArgs
	if len(raw) < 2 {
		return args, errors.New(CommandEvaluate + ": want a document URI and a range")
	}
	uri, ok := raw[0].(string)
	if !ok {
		return args, fmt.Errorf("%s: URI must be a string, got %T", CommandEvaluate, raw[0])
	}
	args.URI = uri

	data, err := json.Marshal(raw[1])
	if err != nil {
		return args, fmt.Errorf("%s: range: %w", CommandEvaluate, err)
	}
	if err := json.Unmarshal(data, &args.Range); err != nil {
		return args, fmt.Errorf("%s: range: %w", CommandEvaluate, err)
	}
	if len(raw) > 2 {
		if d, ok := raw[2].(string); ok {
			args.Directive = d
		}
	}
	return args, nil
}

func (ls *LSPServer) showMessage(ctx *glsp.Context, typ protocol.MessageType, message string) {
	ctx.Notify(protocol.ServerWindowShowMessage, protocol.ShowMessageParams{
		Type:    typ,
		Message: message,
	})
}

func toProtocolKind(kind CompletionKind) protocol.CompletionItemKind {
	switch kind {
	case CompletionKindVariable:
		return protocol.CompletionItemKindVariable
	case CompletionKindRuleVariable:
		return protocol.CompletionItemKindTypeParameter
	case CompletionKindConstant:
		return protocol.CompletionItemKindConstant
	default:
		return protocol.CompletionItemKindText
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
