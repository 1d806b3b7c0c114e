package domain

import (
	"path"
	"strconv"
	"strings"
)

// HandleKind is the persisted form of a compiled factory.
type HandleKind string

const (
	// HandleSymbol resolves through the symbol table at load time.
	HandleSymbol HandleKind = "symbol"
	// HandleSource is a function literal evaluated at load time.
	HandleSource HandleKind = "source"
)

// Valid reports whether k is a known handle kind.
func (k HandleKind) Valid() bool {
	return k == HandleSymbol || k == HandleSource
}

// Import is a package a source handle refers to.
type Import struct {
	Name string `yaml:"name,omitempty"`
	Path string `yaml:"path"`
}

// LocalName returns the identifier the import is referenced by.
func (i Import) LocalName() string {
	if i.Name != "" {
		return i.Name
	}
	return DefaultPackageName(i.Path)
}

// DefaultPackageName guesses the package name of an import path the way
// goimports does: last element, minus a major version suffix, a "go-" prefix
// and a ".vN" suffix.
func DefaultPackageName(importPath string) string {
	elem := path.Base(importPath)
	if isMajorVersion(elem) {
		if dir := path.Dir(importPath); dir != "." && dir != "/" {
			elem = path.Base(dir)
		}
	}
	elem = strings.TrimPrefix(elem, "go-")
	if i := strings.LastIndex(elem, ".v"); i > 0 {
		if _, err := strconv.Atoi(elem[i+2:]); err == nil {
			elem = elem[:i]
		}
	}
	return strings.ReplaceAll(elem, "-", "_")
}

func isMajorVersion(elem string) bool {
	if len(elem) < 2 || elem[0] != 'v' {
		return false
	}
	_, err := strconv.Atoi(elem[1:])
	return err == nil
}

// Fragment is the compiled, persistable form of one factory.
type Fragment struct {
	ID      string     `yaml:"id"`
	Kind    HandleKind `yaml:"kind"`
	Symbol  string     `yaml:"symbol,omitempty"`
	Source  string     `yaml:"source,omitempty"`
	Imports []Import   `yaml:"imports,omitempty"`
}

// SymbolFragment builds a fragment resolved through the symbol table.
func SymbolFragment(symbol string) Fragment {
	return Fragment{Kind: HandleSymbol, Symbol: symbol}
}

// SourceFragment builds a fragment from a function literal and its imports.
func SourceFragment(source string, imports ...Import) Fragment {
	return Fragment{Kind: HandleSource, Source: source, Imports: imports}
}

// Handle returns the symbol or the source, whichever the kind uses.
func (f Fragment) Handle() string {
	if f.Kind == HandleSymbol {
		return f.Symbol
	}
	return f.Source
}

// SourceLocation points at the first line of a function literal.
type SourceLocation struct {
	File string
	Line int
}

// IsZero reports whether the location is unset.
func (l SourceLocation) IsZero() bool {
	return l.File == "" && l.Line == 0
}

func (l SourceLocation) String() string {
	if l.IsZero() {
		return "closure"
	}
	return l.File + ":" + strconv.Itoa(l.Line)
}

// Extraction is what a SourceExtractor learns about a closure.
type Extraction struct {
	// Source is the formatted function literal.
	Source string
	// Captures lists the identifiers the literal reads from its enclosing scope.
	Captures []string
	// Imports lists the packages the literal refers to.
	Imports []Import
}
