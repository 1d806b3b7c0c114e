// Package facto is the public entry point of the compiled factory cache.
//
// A host program describes its factories with a Map, registers the named
// functions it wants persisted as symbols, and opens a Cache over the map:
//
//	cache := facto.New(facto.Map{
//		facto.Define("clock", NewClock),
//		facto.Define("greeting", func(c facto.Container) (any, error) {
//			return strings.ToUpper("hello"), nil
//		}),
//	}, facto.WithPath(".facto/factories.yaml"))
//
//	set, err := cache.Factories(ctx)
//
// Source handles written to the artifact may import this package by its path
// to name Container.
package facto

import (
	"context"
	"io"

	"go.trai.ch/facto/internal/adapters/fs"
	"go.trai.ch/facto/internal/adapters/goast"
	"go.trai.ch/facto/internal/adapters/interp"
	"go.trai.ch/facto/internal/adapters/logger"
	"go.trai.ch/facto/internal/adapters/symbols"
	"go.trai.ch/facto/internal/adapters/telemetry"
	"go.trai.ch/facto/internal/core/domain"
	"go.trai.ch/facto/internal/core/ports"
	"go.trai.ch/facto/internal/engine/cachestore"
	"go.trai.ch/facto/internal/engine/compiler"
)

type (
	// Container is what a factory receives when it is invoked.
	Container = domain.Container
	// Func is a factory.
	Func = domain.Func
	// Definition associates a factory id with its entry.
	Definition = domain.Definition
	// Entry is one registered factory.
	Entry = domain.Entry
	// Compilable is implemented by factories that know their own compiled form.
	Compilable = domain.Compilable
	// Fragment is the compiled form of one factory.
	Fragment = domain.Fragment
	// FactorySet is an ordered mapping from factory id to callable.
	FactorySet = domain.FactorySet
	// CacheMode governs whether an existing artifact short-circuits recompilation.
	CacheMode = domain.CacheMode
	// Outcome describes what Refresh did with the artifact.
	Outcome = cachestore.Outcome
	// FactoryMap supplies uncompiled definitions.
	FactoryMap = ports.FactoryMap
)

const (
	// AlwaysRegenerate recompiles on every call.
	AlwaysRegenerate = domain.AlwaysRegenerate
	// TrustExistingIfPresent loads an existing artifact without recompiling.
	TrustExistingIfPresent = domain.TrustExistingIfPresent
)

// Error sentinels callers match with errors.Is.
var (
	ErrNotCompilable     = domain.ErrNotCompilable
	ErrStorageUnwritable = domain.ErrStorageUnwritable
)

// Define builds a Definition. factory may be a Func, a Compilable or an Entry
// built with Named, Static, Bound or Lambda.
func Define(id string, factory any) Definition { return domain.Define(id, factory) }

// Named references fn by the qualified symbol it is registered under.
func Named(symbol string, fn Func) Entry { return domain.Named(symbol, fn) }

// Static references the method typ.method of a stateless receiver type.
func Static(typ, method string, fn Func) Entry { return domain.Static(typ, method, fn) }

// Bound references a method value taken from receiver. Bound entries are never
// compilable.
func Bound(receiver any, method string, fn Func) Entry { return domain.Bound(receiver, method, fn) }

// Lambda references a function literal.
func Lambda(fn Func) Entry { return domain.Lambda(fn) }

// Register binds symbol to fn in the process-wide symbol table so that
// artifacts naming symbol can be loaded.
func Register(symbol string, fn Func) error {
	return symbols.Default().Register(symbol, fn)
}

// MustRegister is like Register but panics on conflict. It is meant for init
// functions.
func MustRegister(symbol string, fn Func) {
	symbols.Default().MustRegister(symbol, fn)
}

// Map is a FactoryMap over a fixed list of definitions.
type Map []Definition

var _ FactoryMap = Map(nil)

// Factories implements FactoryMap.
func (m Map) Factories(ctx context.Context) ([]Definition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Definition, len(m))
	copy(out, m)
	return out, nil
}

type options struct {
	path       string
	mode       CacheMode
	bestEffort bool
	logOutput  io.Writer
	tracer     ports.Tracer
}

// Option configures a Cache.
type Option func(*options)

// WithPath sets the artifact location. An empty path disables caching.
func WithPath(path string) Option {
	return func(o *options) { o.path = path }
}

// WithMode sets the cache mode. The default is AlwaysRegenerate.
func WithMode(mode CacheMode) Option {
	return func(o *options) { o.mode = mode }
}

// WithBestEffort keeps the live factories when no temporary file can be
// created next to the artifact, instead of failing.
func WithBestEffort() Option {
	return func(o *options) { o.bestEffort = true }
}

// WithLogOutput directs cache log lines to w. Logging is discarded by default.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logOutput = w }
}

// WithTracing reports cache operations as OpenTelemetry spans on the global
// tracer provider.
func WithTracing() Option {
	return func(o *options) { o.tracer = telemetry.NewOTelTracer(telemetry.InstrumentationName) }
}

// Cache is a compiled factory cache over one artifact path.
type Cache struct {
	store *cachestore.Store
}

// New opens a Cache over delegate.
func New(delegate FactoryMap, opts ...Option) *Cache {
	o := options{
		mode:      AlwaysRegenerate,
		logOutput: io.Discard,
		tracer:    telemetry.NewNoOpTracer(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	log := logger.New()
	if l, ok := log.(interface{ SetOutput(io.Writer) }); ok {
		l.SetOutput(o.logOutput)
	}

	extractor := goast.NewExtractor()
	provider := cachestore.NewProvider(
		fs.NewStorage(),
		symbols.Default(),
		interp.New(),
		log,
		o.tracer,
		func() ports.Compiler { return compiler.New(extractor) },
	)

	return &Cache{store: provider.Open(cachestore.Config{
		Delegate:   delegate,
		Mode:       o.mode,
		Path:       o.path,
		BestEffort: o.bestEffort,
	})}
}

// Path returns the artifact location.
func (c *Cache) Path() string { return c.store.Path() }

// Factories returns the id to callable mapping, regenerating the artifact
// first when the cache mode requires it.
func (c *Cache) Factories(ctx context.Context) (*FactorySet, error) {
	return c.store.Factories(ctx)
}

// Refresh regenerates the artifact when required without loading it.
func (c *Cache) Refresh(ctx context.Context) (Outcome, error) {
	return c.store.Refresh(ctx)
}

// Load reads the existing artifact and resolves every handle.
func (c *Cache) Load(ctx context.Context) (*FactorySet, error) {
	return c.store.Load(ctx)
}
