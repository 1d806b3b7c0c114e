// Package interp evaluates source handles with an embedded Go interpreter.
package interp

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/puzpuzpuz/xsync/v3"
	yaegi "github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"go.trai.ch/facto/internal/core/domain"
	"go.trai.ch/facto/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// DomainImportPath is the import path of the internal calling contract.
	DomainImportPath = "go.trai.ch/facto/internal/core/domain"
	// FacadeImportPath is the import path host programs name the contract with.
	FacadeImportPath = "go.trai.ch/facto/pkg/facto"
)

// factoryVar is the variable the evaluated program binds the literal to.
const factoryVar = "Factory"

var (
	containerType = reflect.TypeFor[domain.Container]()
	errorType     = reflect.TypeFor[error]()
)

// Symbols exports the factory calling contract to interpreted code under both
// import paths it is reachable by.
var Symbols = yaegi.Exports{
	DomainImportPath + "/domain": contract(),
	FacadeImportPath + "/facto":  contract(),
}

func contract() map[string]reflect.Value {
	return map[string]reflect.Value{
		"Container": reflect.ValueOf((*domain.Container)(nil)),
		"Func":      reflect.ValueOf((*domain.Func)(nil)),
	}
}

// Evaluator implements ports.Evaluator with yaegi. Every fragment is evaluated
// in a fresh interpreter; results are memoized per fragment content.
type Evaluator struct {
	exports []yaegi.Exports
	cache   *xsync.MapOf[uint64, domain.Func]
}

var _ ports.Evaluator = (*Evaluator)(nil)

// New creates an Evaluator. Extra exports make host packages importable from
// source handles, in addition to the standard library and Symbols.
func New(exports ...yaegi.Exports) *Evaluator {
	all := make([]yaegi.Exports, 0, len(exports)+2)
	all = append(all, stdlib.Symbols, Symbols)
	all = append(all, exports...)

	return &Evaluator{
		exports: all,
		cache:   xsync.NewMapOf[uint64, domain.Func](),
	}
}

// Eval evaluates a source fragment and returns the factory it defines.
func (e *Evaluator) Eval(frag domain.Fragment) (domain.Func, error) {
	if frag.Kind != domain.HandleSource || frag.Source == "" {
		return nil, zerr.With(zerr.With(domain.ErrInvalidHandle, "factory_id", frag.ID), "kind", string(frag.Kind))
	}

	key := fragmentKey(frag)
	if fn, ok := e.cache.Load(key); ok {
		return fn, nil
	}

	fn, err := e.eval(frag)
	if err != nil {
		return nil, err
	}

	actual, _ := e.cache.LoadOrStore(key, fn)
	return actual, nil
}

func (e *Evaluator) eval(frag domain.Fragment) (domain.Func, error) {
	i := yaegi.New(yaegi.Options{})
	for _, exports := range e.exports {
		if err := i.Use(exports); err != nil {
			return nil, zerr.Wrap(err, domain.ErrEvalFailed.Error())
		}
	}

	if _, err := i.Eval(Program(frag)); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrEvalFailed.Error()), "factory_id", frag.ID)
	}

	v, err := i.Eval("main." + factoryVar)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrEvalFailed.Error()), "factory_id", frag.ID)
	}

	fn, err := adapt(v)
	if err != nil {
		return nil, zerr.With(err, "factory_id", frag.ID)
	}
	return fn, nil
}

// Program returns the Go program evaluated for frag.
func Program(frag domain.Fragment) string {
	var b strings.Builder
	b.WriteString("package main\n\n")

	if len(frag.Imports) > 0 {
		b.WriteString("import (\n")
		for _, imp := range frag.Imports {
			b.WriteString("\t")
			if imp.Name != "" {
				b.WriteString(imp.Name)
				b.WriteString(" ")
			}
			b.WriteString(strconv.Quote(imp.Path))
			b.WriteString("\n")
		}
		b.WriteString(")\n\n")
	}

	b.WriteString("var ")
	b.WriteString(factoryVar)
	b.WriteString(" = ")
	b.WriteString(frag.Source)
	b.WriteString("\n")
	return b.String()
}

// adapt converts an interpreted function to domain.Func. Besides the factory
// contract itself it accepts func(Container) any, func() (any, error) and
// func() any.
func adapt(v reflect.Value) (domain.Func, error) {
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return nil, zerr.With(domain.ErrEvalFailed, "reason", "source does not evaluate to a function")
	}

	switch f := v.Interface().(type) {
	case func(domain.Container) (any, error):
		return f, nil
	case domain.Func:
		return f, nil
	}

	t := v.Type()
	if t.IsVariadic() || t.NumIn() > 1 || t.NumOut() < 1 || t.NumOut() > 2 {
		return nil, zerr.With(domain.ErrEvalFailed, "signature", t.String())
	}
	if t.NumIn() == 1 && !containerType.AssignableTo(t.In(0)) {
		return nil, zerr.With(domain.ErrEvalFailed, "signature", t.String())
	}
	if t.NumOut() == 2 && !t.Out(1).Implements(errorType) {
		return nil, zerr.With(domain.ErrEvalFailed, "signature", t.String())
	}

	return func(c domain.Container) (any, error) {
		var args []reflect.Value
		if t.NumIn() == 1 {
			arg := reflect.New(t.In(0)).Elem()
			if c != nil {
				arg.Set(reflect.ValueOf(c))
			}
			args = []reflect.Value{arg}
		}

		out := v.Call(args)
		if len(out) == 2 && !out[1].IsNil() {
			err, _ := out[1].Interface().(error)
			return nil, err
		}
		return out[0].Interface(), nil
	}, nil
}

func fragmentKey(frag domain.Fragment) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(frag.Source)
	for _, imp := range frag.Imports {
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(imp.Name)
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(imp.Path)
	}
	return d.Sum64()
}
