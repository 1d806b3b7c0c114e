// Package symbols maps stable factory symbols to live callables.
package symbols

import (
	"slices"

	"github.com/puzpuzpuz/xsync/v3"
	"go.trai.ch/facto/internal/core/domain"
	"go.trai.ch/facto/internal/core/ports"
	"go.trai.ch/zerr"
)

// Table is a concurrent symbol table.
type Table struct {
	funcs *xsync.MapOf[string, domain.Func]
}

var _ ports.SymbolTable = (*Table)(nil)

var defaultTable = New()

// Default returns the process-wide table host programs register into at init time.
func Default() *Table {
	return defaultTable
}

// New creates an empty Table.
func New() *Table {
	return &Table{funcs: xsync.NewMapOf[string, domain.Func]()}
}

// Check reports the error Register would return for symbol and fn, without
// binding anything.
func (t *Table) Check(symbol string, fn domain.Func) error {
	if symbol == "" || fn == nil {
		return zerr.With(domain.ErrInvalidHandle, "symbol", symbol)
	}
	if actual, ok := t.funcs.Load(symbol); ok && !domain.SameFunc(actual, fn) {
		return zerr.With(domain.ErrSymbolConflict, "symbol", symbol)
	}
	return nil
}

// Register binds symbol to fn. Registering the same function twice is a
// no-op; binding a different function to a taken symbol fails.
func (t *Table) Register(symbol string, fn domain.Func) error {
	if symbol == "" || fn == nil {
		return zerr.With(domain.ErrInvalidHandle, "symbol", symbol)
	}

	actual, loaded := t.funcs.LoadOrStore(symbol, fn)
	if loaded && !domain.SameFunc(actual, fn) {
		return zerr.With(domain.ErrSymbolConflict, "symbol", symbol)
	}
	return nil
}

// MustRegister is Register for init-time use; it panics on conflict.
func (t *Table) MustRegister(symbol string, fn domain.Func) {
	if err := t.Register(symbol, fn); err != nil {
		panic(err)
	}
}

// Resolve returns the callable bound to symbol.
func (t *Table) Resolve(symbol string) (domain.Func, error) {
	fn, ok := t.funcs.Load(symbol)
	if !ok {
		return nil, zerr.With(domain.ErrSymbolNotFound, "symbol", symbol)
	}
	return fn, nil
}

// Symbols returns every registered symbol, sorted.
func (t *Table) Symbols() []string {
	out := make([]string, 0, t.funcs.Size())
	t.funcs.Range(func(key string, _ domain.Func) bool {
		out = append(out, key)
		return true
	})
	slices.Sort(out)
	return out
}
