// Package domain contains the core types of the compiled factory cache.
package domain

import (
	"reflect"
	"runtime"
	"strings"
)

// Container is the calling contract a factory receives when it is invoked.
type Container interface {
	Get(id string) (any, error)
}

// Func is a factory: given a container, it produces one service.
type Func func(c Container) (any, error)

// Kind tags the origin of a factory entry.
type Kind uint8

const (
	// KindNamed is a reference to a named package-level function.
	KindNamed Kind = iota + 1
	// KindStatic is a method reference on a stateless (zero value) receiver type.
	KindStatic
	// KindBound is a method value bound to a receiver instance.
	KindBound
	// KindClosure is a function literal.
	KindClosure
	// KindSelfDescribing is a value that renders its own compiled fragment.
	KindSelfDescribing
)

// String returns the manifest spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindNamed:
		return "symbol"
	case KindStatic:
		return "static"
	case KindBound:
		return "bound"
	case KindClosure:
		return "closure"
	case KindSelfDescribing:
		return "self"
	default:
		return "unknown"
	}
}

// Entry is one registered factory. The set of implementations is closed:
// NamedRef, StaticRef, BoundRef, Closure and SelfDescribing.
type Entry interface {
	// Kind reports the origin of the entry.
	Kind() Kind
	// Func returns the live callable, or an unbound stub when the entry only
	// describes where the factory lives.
	Func() Func

	sealed()
}

// Compilable is implemented by factories that know their own compiled form.
type Compilable interface {
	// Create builds the service.
	Create(c Container) (any, error)
	// CompiledFactory returns the fragment that reproduces this factory.
	CompiledFactory() (Fragment, error)
}

// NamedRef references a package-level function by its qualified name.
type NamedRef struct {
	Symbol string
	Fn     Func
}

// StaticRef references a method declared on a stateless receiver type.
type StaticRef struct {
	Type   string
	Method string
	Fn     Func
}

// BoundRef references a method bound to a receiver instance.
type BoundRef struct {
	Receiver any
	Method   string
	Fn       Func
}

// Closure is a function literal. Location is optional and is resolved from
// Fn when left empty.
type Closure struct {
	Fn       Func
	Location SourceLocation
}

// SelfDescribing wraps a Compilable value.
type SelfDescribing struct {
	Value Compilable
}

var (
	_ Entry = NamedRef{}
	_ Entry = StaticRef{}
	_ Entry = BoundRef{}
	_ Entry = Closure{}
	_ Entry = SelfDescribing{}
)

// Kind implements Entry.
func (NamedRef) Kind() Kind { return KindNamed }

// Kind implements Entry.
func (StaticRef) Kind() Kind { return KindStatic }

// Kind implements Entry.
func (BoundRef) Kind() Kind { return KindBound }

// Kind implements Entry.
func (Closure) Kind() Kind { return KindClosure }

// Kind implements Entry.
func (SelfDescribing) Kind() Kind { return KindSelfDescribing }

// Func implements Entry.
func (r NamedRef) Func() Func { return bound(r.Fn, r.Symbol) }

// Func implements Entry.
func (r StaticRef) Func() Func { return bound(r.Fn, r.Symbol()) }

// Func implements Entry.
func (r BoundRef) Func() Func { return bound(r.Fn, r.Method) }

// Func implements Entry.
func (c Closure) Func() Func { return bound(c.Fn, c.Location.String()) }

// Func implements Entry.
func (s SelfDescribing) Func() Func {
	if s.Value == nil {
		return bound(nil, "self-describing")
	}
	return s.Value.Create
}

func (NamedRef) sealed()       {}
func (StaticRef) sealed()      {}
func (BoundRef) sealed()       {}
func (Closure) sealed()        {}
func (SelfDescribing) sealed() {}

// Symbol returns the qualified name a static reference is registered under.
func (r StaticRef) Symbol() string {
	if r.Type == "" || r.Method == "" {
		return ""
	}
	return r.Type + "." + r.Method
}

// Named builds a NamedRef for fn registered under symbol.
func Named(symbol string, fn Func) NamedRef {
	return NamedRef{Symbol: symbol, Fn: fn}
}

// Static builds a StaticRef for the method typ.method implemented by fn.
func Static(typ, method string, fn Func) StaticRef {
	return StaticRef{Type: typ, Method: method, Fn: fn}
}

// Bound builds a BoundRef for the method value fn taken from receiver.
func Bound(receiver any, method string, fn Func) BoundRef {
	return BoundRef{Receiver: receiver, Method: method, Fn: fn}
}

// Lambda builds a Closure from a function literal.
func Lambda(fn Func) Closure {
	return Closure{Fn: fn}
}

// Describing builds a SelfDescribing entry.
func Describing(v Compilable) SelfDescribing {
	return SelfDescribing{Value: v}
}

// Infer picks the entry variant for fn from its runtime symbol name.
// Package-level functions become NamedRef, method values become BoundRef and
// everything else is treated as a Closure.
func Infer(fn Func) Entry {
	name := FuncName(fn)
	switch {
	case name == "":
		return Closure{Fn: fn}
	case strings.HasSuffix(name, "-fm"):
		return BoundRef{Method: strings.TrimSuffix(name, "-fm"), Fn: fn}
	case isLiteralName(name):
		return Closure{Fn: fn}
	default:
		return NamedRef{Symbol: name, Fn: fn}
	}
}

// FuncName returns the runtime symbol of fn, or "" for nil.
func FuncName(fn any) string {
	if fn == nil {
		return ""
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return ""
	}
	return f.Name()
}

// isLiteralName reports whether a runtime symbol names a function literal,
// e.g. "pkg.Outer.func1", "pkg.init.func2" or "pkg.glob..func1".
func isLiteralName(name string) bool {
	i := strings.LastIndex(name, ".func")
	if i < 0 {
		return false
	}
	rest := name[i+len(".func"):]
	if rest == "" {
		return false
	}
	for _, r := range rest {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return true
}

// SameFunc reports whether a and b share the same code. Closures built by the
// same literal compare equal.
func SameFunc(a, b Func) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// bound returns fn, or a stub that reports the factory has no live callable.
func bound(fn Func, ref string) Func {
	if fn != nil {
		return fn
	}
	return func(Container) (any, error) {
		return nil, NewUnboundError(ref)
	}
}
