// Package patterncomp is the library entry point: it composes the lexer,
// parser, group collector, compiler and emitter into the stable surface
// (Parse, Compile and ParseAndCompile),
// plus the ListShorthands introspection call. Everything else in this
// module is reachable only through these four functions or through the
// internal packages they call.
package patterncomp

import (
	"fmt"
	"log/slog"

	"github.com/patterncomp/patterncomp/ast"
	"github.com/patterncomp/patterncomp/diag"
	"github.com/patterncomp/patterncomp/flavor"
	"github.com/patterncomp/patterncomp/internal/compiler"
	"github.com/patterncomp/patterncomp/internal/emitter"
	"github.com/patterncomp/patterncomp/internal/parser"
	"github.com/patterncomp/patterncomp/unicodetables"
)

// Options configures a single compile: the target flavor, the numeric-range
// branch budget, which features to allow beyond (or instead of) the
// flavor's own matrix, and which warning kinds to drop from the result.
type Options struct {
	Flavor flavor.Flavor

	// MaxRangeSize bounds a `range` statement's branch count; <= 0 selects
	// the package default (internal/rangecompiler.DefaultMaxRangeSize).
	MaxRangeSize int

	// AllowedFeatures overrides flavor.Supports for specific features. Most
	// callers leave this nil and rely on the flavor's own matrix entry.
	AllowedFeatures map[flavor.Feature]flavor.Support

	// Suppress opts specific diagnostic kinds out of the result's warning
	// list. Only diag.Compat and diag.Deprecated are suppressible; any
	// other key is an input error.
	Suppress map[diag.Kind]bool

	// RecursionLimit bounds parser nesting depth; <= 0 selects
	// internal/parser.DefaultRecursionLimit.
	RecursionLimit int

	// Logger receives optional debug-level tracing from the compiler. A nil
	// Logger disables all internal logging; diagnostics never go through it.
	Logger *slog.Logger
}

func (o Options) toCompilerOptions() compiler.Options {
	return compiler.Options{
		Flavor:          o.Flavor,
		MaxRangeSize:    o.MaxRangeSize,
		AllowedFeatures: o.AllowedFeatures,
		Suppress:        o.Suppress,
		Logger:          o.Logger,
	}
}

// ParseResult is the output of Parse: the AST plus any warnings accumulated
// during lexing and parsing (deprecated-construct notices).
type ParseResult struct {
	AST      ast.Node
	Warnings []diag.Diagnostic
}

// ParseError wraps the first fatal diag.Diagnostic the lexer or parser
// produced.
type ParseError struct {
	Diagnostic diag.Diagnostic
}

func (e *ParseError) Error() string { return e.Diagnostic.Error() }

// CompileError wraps the first fatal diag.Diagnostic the group collector or
// compiler produced.
type CompileError struct {
	Diagnostic diag.Diagnostic
}

func (e *CompileError) Error() string { return e.Diagnostic.Error() }

// InputError reports a malformed Options value itself (an unknown or
// unsuppressible suppression key), as distinct from an error about the
// source text being compiled.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return "patterncomp: " + e.Message }

// Parse lexes and parses source into an AST, returning the first fatal
// diagnostic as a *ParseError if parsing fails.
func Parse(source string, recursionLimit int) (ParseResult, error) {
	root, warnings, err := parser.Parse(source, recursionLimit)
	if err != nil {
		if d, ok := asDiagnostic(err); ok {
			return ParseResult{}, &ParseError{Diagnostic: d}
		}
		return ParseResult{}, err
	}
	return ParseResult{AST: root, Warnings: warnings}, nil
}

// CompileResult is the output of Compile: the rendered regex text plus any
// warnings (after Options.Suppress filtering) accumulated while lowering and
// emitting it.
type CompileResult struct {
	Output   string
	Warnings []diag.Diagnostic
}

// Compile lowers an already-parsed AST to regex text for opts.Flavor,
// returning the first fatal diagnostic as a *CompileError if compilation or
// emission fails, or an *InputError if opts itself is malformed.
func Compile(root ast.Node, opts Options) (CompileResult, error) {
	if err := validateSuppress(opts.Suppress); err != nil {
		return CompileResult{}, err
	}
	result, err := compiler.Compile(root, opts.toCompilerOptions())
	if err != nil {
		if d, ok := asDiagnostic(err); ok {
			return CompileResult{}, &CompileError{Diagnostic: d}
		}
		return CompileResult{}, err
	}
	output, err := emitter.New(opts.Flavor).Emit(result.Pattern)
	if err != nil {
		return CompileResult{}, fmt.Errorf("patterncomp: emit: %w", err)
	}
	return CompileResult{Output: output, Warnings: result.Diagnostics}, nil
}

// ParseAndCompile runs Parse then Compile in one call. Parse warnings and
// compile warnings are concatenated, parse warnings first.
func ParseAndCompile(source string, opts Options) (CompileResult, error) {
	parsed, err := Parse(source, opts.RecursionLimit)
	if err != nil {
		return CompileResult{}, err
	}
	compiled, err := Compile(parsed.AST, opts)
	if err != nil {
		return CompileResult{}, err
	}
	compiled.Warnings = append(append([]diag.Diagnostic(nil), parsed.Warnings...), compiled.Warnings...)
	return compiled, nil
}

// Shorthand is one row of the ListShorthands introspection table: a surface
// identifier paired with the class of construct it names (shorthand, POSIX
// class, Unicode category/script/block/property).
type Shorthand struct {
	Identifier string
	GroupName  string
}

// ListShorthands returns every identifier this compiler recognises inside a
// character class, for diagnostics and tooling.
func ListShorthands() []Shorthand {
	entries := unicodetables.List()
	out := make([]Shorthand, len(entries))
	for i, e := range entries {
		out[i] = Shorthand{Identifier: e.Identifier, GroupName: string(e.GroupName)}
	}
	return out
}

func validateSuppress(suppress map[diag.Kind]bool) error {
	for k := range suppress {
		if !k.Suppressible() {
			return &InputError{Message: fmt.Sprintf("diagnostic kind %s cannot be suppressed", k)}
		}
	}
	return nil
}

// asDiagnostic extracts the diag.Diagnostic carried by every internal error
// type (parser.parseError, groups.groupError, compiler.compileError,
// rangecompiler.limitError, charclass.diagError) without importing any of
// those unexported types: each one satisfies diag.Carrier.
func asDiagnostic(err error) (diag.Diagnostic, bool) {
	if c, ok := err.(diag.Carrier); ok {
		return c.AsDiagnostic(), true
	}
	return diag.Diagnostic{}, false
}
