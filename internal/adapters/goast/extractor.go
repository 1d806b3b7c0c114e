// Package goast extracts the source of Go function literals from the files
// that declare them.
package goast

import (
	"bytes"
	"cmp"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"slices"
	"strconv"

	"github.com/puzpuzpuz/xsync/v3"
	"go.trai.ch/facto/internal/core/domain"
	"go.trai.ch/facto/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
	"golang.org/x/tools/go/ast/inspector"
)

const printerTabWidth = 4

// Extractor implements ports.SourceExtractor by parsing the file a closure is
// declared in and locating the function literal by line.
type Extractor struct {
	files *xsync.MapOf[string, *parsedFile]
	group singleflight.Group
}

var _ ports.SourceExtractor = (*Extractor)(nil)

type parsedFile struct {
	fset    *token.FileSet
	file    *ast.File
	insp    *inspector.Inspector
	imports map[string]domain.Import
}

// NewExtractor creates an Extractor. Relative closure locations are resolved
// against the working directory.
func NewExtractor() *Extractor {
	return &Extractor{
		files: xsync.NewMapOf[string, *parsedFile](),
	}
}

// Extract locates the closure's function literal and reports its source, the
// identifiers it reads from outside its own body and the imports it uses.
func (e *Extractor) Extract(closure domain.Closure) (domain.Extraction, error) {
	loc, err := e.locate(closure)
	if err != nil {
		return domain.Extraction{}, err
	}

	pf, err := e.parse(loc.File)
	if err != nil {
		return domain.Extraction{}, err
	}

	lit, err := pf.literalAt(loc.Line)
	if err != nil {
		return domain.Extraction{}, zerr.With(zerr.With(err, "file", loc.File), "line", loc.Line)
	}

	var buf bytes.Buffer
	cfg := printer.Config{Mode: printer.UseSpaces, Tabwidth: printerTabWidth}
	if err := cfg.Fprint(&buf, pf.fset, lit); err != nil {
		return domain.Extraction{}, zerr.With(zerr.Wrap(err, domain.ErrExtractionFailed.Error()), "file", loc.File)
	}

	captures, imports := pf.freeNames(lit)

	return domain.Extraction{
		Source:   buf.String(),
		Captures: captures,
		Imports:  imports,
	}, nil
}

func (e *Extractor) locate(closure domain.Closure) (domain.SourceLocation, error) {
	loc := closure.Location
	if loc.IsZero() {
		if closure.Fn == nil {
			return loc, zerr.With(domain.ErrExtractionFailed, "reason", "closure has neither a location nor a function")
		}
		f := runtime.FuncForPC(reflect.ValueOf(closure.Fn).Pointer())
		if f == nil {
			return loc, zerr.With(domain.ErrExtractionFailed, "reason", "no runtime information for closure")
		}
		loc.File, loc.Line = f.FileLine(f.Entry())
	}

	if loc.File == "" || loc.Line <= 0 {
		return loc, zerr.With(domain.ErrExtractionFailed, "location", loc.String())
	}

	abs, err := filepath.Abs(loc.File)
	if err != nil {
		return loc, zerr.With(zerr.Wrap(err, domain.ErrExtractionFailed.Error()), "file", loc.File)
	}
	loc.File = abs
	return loc, nil
}

// parse returns the parsed file, parsing it at most once even under
// concurrent callers.
func (e *Extractor) parse(path string) (*parsedFile, error) {
	if pf, ok := e.files.Load(path); ok {
		return pf, nil
	}

	v, err, _ := e.group.Do(path, func() (any, error) {
		if pf, ok := e.files.Load(path); ok {
			return pf, nil
		}

		src, err := os.ReadFile(path) //nolint:gosec // Path comes from runtime symbol tables or project configuration
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrExtractionFailed.Error()), "file", path)
		}

		fset := token.NewFileSet()
		file, err := parser.ParseFile(fset, path, src, 0)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrExtractionFailed.Error()), "file", path)
		}

		pf := newParsedFile(fset, file)
		e.files.Store(path, pf)
		return pf, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*parsedFile), nil
}

func newParsedFile(fset *token.FileSet, file *ast.File) *parsedFile {
	pf := &parsedFile{
		fset:    fset,
		file:    file,
		insp:    inspector.New([]*ast.File{file}),
		imports: make(map[string]domain.Import, len(file.Imports)),
	}

	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}

		imp := domain.Import{Path: path}
		name := domain.DefaultPackageName(path)
		if spec.Name != nil {
			switch spec.Name.Name {
			case "_", ".":
				continue
			default:
				if spec.Name.Name != name {
					imp.Name = spec.Name.Name
				}
				name = spec.Name.Name
			}
		}
		pf.imports[name] = imp
	}
	return pf
}

// literalAt returns the only function literal starting on line.
func (pf *parsedFile) literalAt(line int) (*ast.FuncLit, error) {
	var found []*ast.FuncLit
	pf.insp.Preorder([]ast.Node{(*ast.FuncLit)(nil)}, func(n ast.Node) {
		lit := n.(*ast.FuncLit)
		if pf.fset.Position(lit.Pos()).Line == line {
			found = append(found, lit)
		}
	})

	switch len(found) {
	case 0:
		return nil, zerr.With(domain.ErrExtractionFailed, "reason", "no function literal on line")
	case 1:
		return found[0], nil
	default:
		return nil, zerr.With(domain.ErrExtractionFailed, "reason", "several function literals on line")
	}
}

// freeNames walks lit and splits the identifiers it does not declare itself
// into captures and package imports. Predeclared identifiers are ignored.
func (pf *parsedFile) freeNames(lit *ast.FuncLit) ([]string, []domain.Import) {
	captures := make(map[string]struct{})
	imports := make(map[string]domain.Import)

	var visit func(n ast.Node) bool
	visit = func(n ast.Node) bool {
		switch x := n.(type) {
		case *ast.SelectorExpr:
			ast.Inspect(x.X, visit)
			return false
		case *ast.CompositeLit:
			pf.visitCompositeLit(x, visit)
			return false
		case *ast.Ident:
			pf.classify(lit, x, captures, imports)
		}
		return true
	}
	ast.Inspect(lit, visit)

	capList := make([]string, 0, len(captures))
	for name := range captures {
		capList = append(capList, name)
	}
	slices.Sort(capList)

	impList := make([]domain.Import, 0, len(imports))
	for _, imp := range imports {
		impList = append(impList, imp)
	}
	slices.SortFunc(impList, func(a, b domain.Import) int {
		return cmp.Or(cmp.Compare(a.Path, b.Path), cmp.Compare(a.Name, b.Name))
	})

	return capList, impList
}

// visitCompositeLit walks a composite literal. Map keys are expressions. Other
// identifier keys are field names unless the parser resolved them to an
// object, in which case they are treated like any other reference.
func (pf *parsedFile) visitCompositeLit(lit *ast.CompositeLit, visit func(ast.Node) bool) {
	if lit.Type != nil {
		ast.Inspect(lit.Type, visit)
	}
	_, isMap := lit.Type.(*ast.MapType)

	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			ast.Inspect(elt, visit)
			continue
		}
		if id, ok := kv.Key.(*ast.Ident); !ok || isMap || id.Obj != nil {
			ast.Inspect(kv.Key, visit)
		}
		ast.Inspect(kv.Value, visit)
	}
}

func (pf *parsedFile) classify(lit *ast.FuncLit, id *ast.Ident, captures map[string]struct{}, imports map[string]domain.Import) {
	if id.Name == "_" {
		return
	}

	if id.Obj != nil {
		pos := id.Obj.Pos()
		if pos.IsValid() && pos >= lit.Pos() && pos < lit.End() {
			return
		}
		captures[id.Name] = struct{}{}
		return
	}

	if imp, ok := pf.imports[id.Name]; ok {
		imports[id.Name] = imp
		return
	}

	if types.Universe.Lookup(id.Name) != nil {
		return
	}

	captures[id.Name] = struct{}{}
}
