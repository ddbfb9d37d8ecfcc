// Package unicodetables is the static lookup from a surface identifier
// (shorthand name, Unicode category, script, block or other property) to
// its *unicode.RangeTable and to the per-flavor name the emitter must use
// for it. Categories, scripts and properties come from stdlib Unicode data;
// blocks come from a small hand-maintained table. Nothing here depends on
// compilation state.
package unicodetables

import (
	"sort"
	"unicode"

	"github.com/patterncomp/patterncomp/flavor"
)

// GroupName classifies an Entry returned by List: the family of construct
// an identifier belongs to (shorthand, POSIX class, category, script,
// block, property).
type GroupName string

const (
	GroupShorthand GroupName = "shorthand"
	GroupPosix     GroupName = "posix"
	GroupCategory  GroupName = "category"
	GroupScript    GroupName = "script"
	GroupBlock     GroupName = "block"
	GroupProperty  GroupName = "property"
)

// Entry is one row of the introspection table.
type Entry struct {
	Identifier string
	GroupName  GroupName
}

// Shorthands is the named-class identifier set recognised inside `[...]`,
// named in full for introspection via List/Candidates.
var Shorthands = []string{"digit", "word", "space", "hspace", "vspace", "grapheme"}

// ShorthandLetters maps the single-letter spelling the parser actually reads
// out of a char class (`[d]` -> \d, `[w]` -> \w, ...) to its canonical full
// name in Shorthands. The letter is what appears in source text; the full
// name is what ListShorthands reports.
var ShorthandLetters = map[string]string{
	"d": "digit",
	"w": "word",
	"s": "space",
	"h": "hspace",
	"v": "vspace",
	"X": "grapheme",
}

// ResolveShorthand normalizes either spelling of a shorthand identifier to
// its canonical full name, reporting whether it is recognised at all.
func ResolveShorthand(ident string) (string, bool) {
	if full, ok := ShorthandLetters[ident]; ok {
		return full, true
	}
	for _, s := range Shorthands {
		if s == ident {
			return s, true
		}
	}
	return "", false
}

// Posix is the ASCII POSIX class identifier set.
var Posix = []string{
	"alpha", "digit", "alnum", "upper", "lower", "punct",
	"space", "cntrl", "graph", "print", "blank", "xdigit",
}

// blockRanges is a small, hand-maintained table of commonly used Unicode
// blocks. The stdlib unicode package does not ship block data (only
// categories, scripts and a handful of binary properties), so unlike those
// three this table is not generated from it.
var blockRanges = map[string]*unicode.RangeTable{
	"Basic_Latin":            rangeTable(0x0000, 0x007F),
	"Latin-1_Supplement":     rangeTable(0x0080, 0x00FF),
	"Latin_Extended-A":       rangeTable(0x0100, 0x017F),
	"Greek_and_Coptic":       rangeTable(0x0370, 0x03FF),
	"Cyrillic":               rangeTable(0x0400, 0x04FF),
	"Hebrew":                 rangeTable(0x0590, 0x05FF),
	"Arabic":                 rangeTable(0x0600, 0x06FF),
	"General_Punctuation":    rangeTable(0x2000, 0x206F),
	"CJK_Unified_Ideographs": rangeTable(0x4E00, 0x9FFF),
	"Hiragana":               rangeTable(0x3040, 0x309F),
	"Katakana":               rangeTable(0x30A0, 0x30FF),
}

func rangeTable(lo, hi rune) *unicode.RangeTable {
	return &unicode.RangeTable{
		R16: []unicode.Range16{{Lo: uint16(lo), Hi: uint16(hi), Stride: 1}},
	}
}

// blockFlavorNames maps a canonical block identifier to the escape-sequence
// name each flavor expects, e.g. Java spells the Greek block `\p{InGreek}`
// while .NET spells it `\p{IsGreek}`. A flavor absent from the inner map has
// no spelling for that block at all (the flavor.FeatureUnicodeBlocks matrix
// entry already says whether the flavor supports blocks at all; this table
// is the finer-grained "which specific names exist").
var blockFlavorNames = map[string]map[flavor.Flavor]string{
	"Basic_Latin":            {flavor.Java: "InBasicLatin", flavor.DotNet: "IsBasicLatin"},
	"Latin-1_Supplement":     {flavor.Java: "InLatin1Supplement", flavor.DotNet: "IsLatin1Supplement"},
	"Latin_Extended-A":       {flavor.Java: "InLatinExtendedA", flavor.DotNet: "IsLatinExtendedA"},
	"Greek_and_Coptic":       {flavor.Java: "InGreek", flavor.DotNet: "IsGreek"},
	"Cyrillic":               {flavor.Java: "InCyrillic", flavor.DotNet: "IsCyrillic"},
	"Hebrew":                 {flavor.Java: "InHebrew", flavor.DotNet: "IsHebrew"},
	"Arabic":                 {flavor.Java: "InArabic", flavor.DotNet: "IsArabic"},
	"General_Punctuation":    {flavor.Java: "InGeneralPunctuation", flavor.DotNet: "IsGeneralPunctuation"},
	"CJK_Unified_Ideographs": {flavor.Java: "InCJKUnifiedIdeographs", flavor.DotNet: "IsCJKUnifiedIdeographs"},
	"Hiragana":               {flavor.Java: "InHiragana", flavor.DotNet: "IsHiragana"},
	"Katakana":               {flavor.Java: "InKatakana", flavor.DotNet: "IsKatakana"},
}

// LookupCategory resolves a general category abbreviation ("Lu", "Nd", ...).
func LookupCategory(name string) (*unicode.RangeTable, bool) {
	rt, ok := unicode.Categories[name]
	return rt, ok
}

// LookupScript resolves a script name ("Greek", "Han", ...).
func LookupScript(name string) (*unicode.RangeTable, bool) {
	rt, ok := unicode.Scripts[name]
	return rt, ok
}

// LookupProperty resolves a stdlib binary property name ("White_Space",
// "Dash", ...).
func LookupProperty(name string) (*unicode.RangeTable, bool) {
	rt, ok := unicode.Properties[name]
	return rt, ok
}

// LookupBlock resolves a canonical block identifier.
func LookupBlock(name string) (*unicode.RangeTable, bool) {
	rt, ok := blockRanges[name]
	return rt, ok
}

// BlockFlavorName returns the flavor-specific escape name for a canonical
// block identifier, or "", false if that flavor has no spelling for it.
func BlockFlavorName(name string, f flavor.Flavor) (string, bool) {
	names, ok := blockFlavorNames[name]
	if !ok {
		return "", false
	}
	n, ok := names[f]
	return n, ok
}

// List returns every known identifier paired with its group, sorted by
// group then identifier, backing patterncomp.ListShorthands.
func List() []Entry {
	var out []Entry
	for _, s := range Shorthands {
		out = append(out, Entry{Identifier: s, GroupName: GroupShorthand})
	}
	for _, s := range Posix {
		out = append(out, Entry{Identifier: s, GroupName: GroupPosix})
	}
	for name := range unicode.Categories {
		out = append(out, Entry{Identifier: name, GroupName: GroupCategory})
	}
	for name := range unicode.Scripts {
		out = append(out, Entry{Identifier: name, GroupName: GroupScript})
	}
	for name := range blockRanges {
		out = append(out, Entry{Identifier: name, GroupName: GroupBlock})
	}
	for name := range unicode.Properties {
		out = append(out, Entry{Identifier: name, GroupName: GroupProperty})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GroupName != out[j].GroupName {
			return out[i].GroupName < out[j].GroupName
		}
		return out[i].Identifier < out[j].Identifier
	})
	return out
}

// Candidates returns just the identifiers for a group, for diag.Suggest
// edit-distance ranking against an unknown property/block/script name.
func Candidates(group GroupName) []string {
	var out []string
	for _, e := range List() {
		if e.GroupName == group {
			out = append(out, e.Identifier)
		}
	}
	return out
}
