package emitter

import "github.com/patterncomp/patterncomp/flavor"

// spelling gives the per-flavor surface syntax this package cannot derive
// from the feature matrix alone: the matrix says whether a construct is
// available, this table says what it looks like once it is.
//
// boundaryStart/boundaryEnd spell the language's Start/End keywords as `^`
// and `$` on every flavor: the glossary defines only Start and End, not a
// separate "absolute" string-boundary construct, and the `\A`/`\z` forms
// some engines also offer are never surfaced through this language.
//
// The remaining choices are not prescribed by any single source; they
// follow each engine's own documented syntax (see DESIGN.md for the
// per-flavor rationale).
type spelling struct {
	namedGroupOpen func(name string) string
	namedBackref   func(name string) string
	boundaryStart  string
	boundaryEnd    string
}

var spellings = map[flavor.Flavor]spelling{
	flavor.PCRE: {
		namedGroupOpen: func(n string) string { return "(?P<" + n + ">" },
		namedBackref:   func(n string) string { return "\\k<" + n + ">" },
		boundaryStart:  `^`, boundaryEnd: `$`,
	},
	flavor.Python: {
		namedGroupOpen: func(n string) string { return "(?P<" + n + ">" },
		namedBackref:   func(n string) string { return "(?P=" + n + ")" },
		boundaryStart:  `^`, boundaryEnd: `$`,
	},
	flavor.Java: {
		namedGroupOpen: func(n string) string { return "(?<" + n + ">" },
		namedBackref:   func(n string) string { return "\\k<" + n + ">" },
		boundaryStart:  `^`, boundaryEnd: `$`,
	},
	flavor.JavaScript: {
		namedGroupOpen: func(n string) string { return "(?<" + n + ">" },
		namedBackref:   func(n string) string { return "\\k<" + n + ">" },
		boundaryStart:  `^`, boundaryEnd: `$`,
	},
	flavor.DotNet: {
		namedGroupOpen: func(n string) string { return "(?<" + n + ">" },
		namedBackref:   func(n string) string { return "\\k<" + n + ">" },
		boundaryStart:  `^`, boundaryEnd: `$`,
	},
	flavor.Ruby: {
		namedGroupOpen: func(n string) string { return "(?<" + n + ">" },
		namedBackref:   func(n string) string { return "\\k<" + n + ">" },
		boundaryStart:  `^`, boundaryEnd: `$`,
	},
	flavor.Rust: {
		namedGroupOpen: func(n string) string { return "(?P<" + n + ">" },
		// backreferences are unsupported on this flavor (feature-gated
		// before emission reaches a Backref node), so namedBackref is
		// never called.
		boundaryStart: `^`, boundaryEnd: `$`,
	},
	flavor.RE2: {
		namedGroupOpen: func(n string) string { return "(?P<" + n + ">" },
		boundaryStart:  `^`, boundaryEnd: `$`,
	},
}

func spellingFor(fl flavor.Flavor) spelling { return spellings[fl] }
