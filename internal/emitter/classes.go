package emitter

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/patterncomp/patterncomp/flavor"
	"github.com/patterncomp/patterncomp/internal/charclass"
	"github.com/patterncomp/patterncomp/ir"
	"github.com/patterncomp/patterncomp/unicodetables"
)

// shorthandLetters maps a shorthand's canonical name to the bare escape
// PCRE/Ruby and (for digit/word/space) every other flavor spell it with.
var shorthandLetters = map[string]string{
	"digit": "d", "word": "w", "space": "s", "hspace": "h", "vspace": "v",
}

// shorthandUniversal reports whether every target flavor has a native
// single-escape spelling for this shorthand (true for digit/word/space;
// hspace/vspace are PCRE/Ruby-only and must be expanded elsewhere).
var shorthandUniversal = map[string]bool{
	"digit": true, "word": true, "space": true, "hspace": false, "vspace": false,
}

var hspaceVspaceFlavors = map[flavor.Flavor]bool{
	flavor.PCRE: true, flavor.Ruby: true,
}

func (e *Emitter) emitClass(cls ir.Class) (string, error) {
	// The common case a class reduces to a single bare escape (`[d]` lowers
	// to a Class with one shorthand token and no intervals; emitting `\d`
	// instead of `[\d]` matches how a human would write it, and likewise
	// `\p{Lu}` / `\P{Lu}` for a lone property token).
	if len(cls.Intervals) == 0 && len(cls.Tokens) == 1 {
		if bare, ok := e.bareToken(cls.Tokens[0], cls.Negated); ok {
			return bare, nil
		}
	}

	// A non-negated class of cardinality 1 (no symbolic tokens, one
	// single-codepoint interval) collapses to its literal character.
	if !cls.Negated && len(cls.Tokens) == 0 && len(cls.Intervals) == 1 && cls.Intervals[0].Lo == cls.Intervals[0].Hi {
		return e.escapeOutsideClass(cls.Intervals[0].Lo), nil
	}

	var body strings.Builder
	for _, t := range cls.Tokens {
		spelled, err := e.classToken(t)
		if err != nil {
			return "", err
		}
		body.WriteString(spelled)
	}
	for _, iv := range sortedIntervals(cls.Intervals) {
		body.WriteString(e.classRangePart(iv))
	}

	if cls.Negated {
		return "[^" + body.String() + "]", nil
	}
	return "[" + body.String() + "]", nil
}

func sortedIntervals(in []ir.Interval) []ir.Interval {
	out := append([]ir.Interval(nil), in...)
	sort.Slice(out, func(i, j int) bool { return out[i].Lo < out[j].Lo })
	return out
}

// bareToken returns the bare (un-bracketed) escape for a standalone class
// token, if one exists on the current flavor: the single-letter shorthands
// (`\d`, uppercased to `\D` when negated) and the property escapes
// (`\p{...}`, case-swapped to `\P{...}` when negated). POSIX classes have
// no bare form; `[:alpha:]` is only valid inside brackets.
func (e *Emitter) bareToken(t ir.ClassToken, negated bool) (string, bool) {
	switch t.Kind {
	case "shorthand":
		if t.Name == "hspace" || t.Name == "vspace" {
			if !hspaceVspaceFlavors[e.flavor] {
				return "", false
			}
		}
		letter, ok := shorthandLetters[t.Name]
		if !ok {
			return "", false
		}
		if negated {
			letter = strings.ToUpper(letter)
		}
		return `\` + letter, true

	case "category", "script", "scriptext", "property":
		p := `\p`
		if negated {
			p = `\P`
		}
		return p + `{` + t.Name + `}`, true

	case "block":
		name, ok := unicodetables.BlockFlavorName(t.Name, e.flavor)
		if !ok {
			return "", false
		}
		p := `\p`
		if negated {
			p = `\P`
		}
		return p + `{` + name + `}`, true

	default:
		return "", false
	}
}

// classToken spells one symbolic class member inside a bracket expression,
// expanding it to raw intervals when this flavor has no native form for it.
func (e *Emitter) classToken(t ir.ClassToken) (string, error) {
	switch t.Kind {
	case "shorthand":
		if t.Name == "hspace" || t.Name == "vspace" {
			if !hspaceVspaceFlavors[e.flavor] {
				return e.expandToken(t)
			}
		}
		letter := shorthandLetters[t.Name]
		return `\` + letter, nil

	case "posix":
		if e.flavor == flavor.PCRE || e.flavor == flavor.Ruby || e.flavor == flavor.Rust || e.flavor == flavor.RE2 {
			return "[:" + t.Name + ":]", nil
		}
		return e.expandToken(t)

	case "category", "script", "scriptext", "property":
		return `\p{` + t.Name + `}`, nil

	case "block":
		name, ok := unicodetables.BlockFlavorName(t.Name, e.flavor)
		if !ok {
			return "", fmt.Errorf("emitter: flavor %s has no spelling for block %s", e.flavor, t.Name)
		}
		return `\p{` + name + `}`, nil

	default:
		return "", fmt.Errorf("emitter: unknown class token kind %q", t.Kind)
	}
}

// expandToken inlines a shorthand/POSIX token's ASCII meaning as raw
// intervals, for a flavor with no native spelling for it.
func (e *Emitter) expandToken(t ir.ClassToken) (string, error) {
	var rt *unicode.RangeTable
	var ok bool
	switch t.Kind {
	case "shorthand":
		rt, ok = charclass.ShorthandRangeTable(t.Name)
	case "posix":
		rt, ok = charclass.PosixRangeTable(t.Name)
	}
	if !ok {
		return "", fmt.Errorf("emitter: no ASCII fallback for class token %s:%s", t.Kind, t.Name)
	}
	set := charclass.NewSet()
	set.AddTable(rt)
	cls := set.ToIR()

	var body strings.Builder
	for _, iv := range sortedIntervals(cls.Intervals) {
		body.WriteString(e.classRangePart(iv))
	}
	return body.String(), nil
}

// classRangePart spells one interval's contribution to a bracket
// expression's body: a single escaped character, both characters of a
// two-character interval (`ab` is shorter than `a-b`), or a `lo-hi` range.
func (e *Emitter) classRangePart(iv ir.Interval) string {
	switch {
	case iv.Lo == iv.Hi:
		return e.escapeInClass(iv.Lo)
	case iv.Hi == iv.Lo+1:
		return e.escapeInClass(iv.Lo) + e.escapeInClass(iv.Hi)
	default:
		return e.escapeInClass(iv.Lo) + "-" + e.escapeInClass(iv.Hi)
	}
}

// escapeInClass escapes a code point for use inside a bracket expression:
// `]`, `^`, `-` and `\` all need escaping there even though most of them are
// not metacharacters outside a class.
func (e *Emitter) escapeInClass(r rune) string {
	switch r {
	case ']', '^', '-', '\\':
		return `\` + string(r)
	}
	return e.escapeControl(r)
}
