// Package cachestore owns the compiled factory artifact: it decides whether an
// existing artifact is trusted, regenerates it atomically and loads it back.
package cachestore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/facto/internal/core/domain"
	"go.trai.ch/facto/internal/core/ports"
	"go.trai.ch/facto/internal/engine/artifact"
	"go.trai.ch/zerr"
)

// Outcome describes what Refresh did with the artifact.
type Outcome uint8

const (
	// OutcomeBypassed means caching is disabled and nothing was touched.
	OutcomeBypassed Outcome = iota + 1
	// OutcomeTrusted means an existing artifact was kept without recompiling.
	OutcomeTrusted
	// OutcomeWritten means the artifact was compiled and replaced.
	OutcomeWritten
	// OutcomeSkipped means compilation succeeded but no temporary file could
	// be created. Factories falls back to the live definitions.
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeBypassed:
		return "bypassed"
	case OutcomeTrusted:
		return "trusted"
	case OutcomeWritten:
		return "written"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Config selects the delegate, the cache mode and the artifact path of a Store.
type Config struct {
	// Delegate supplies the uncompiled definitions.
	Delegate ports.FactoryMap
	// Mode governs whether an existing artifact short-circuits recompilation.
	Mode domain.CacheMode
	// Path is the artifact location. Empty disables caching.
	Path string
	// BestEffort turns a failed temporary file creation into a logged warning.
	BestEffort bool
}

// Store is the compiled factory cache for one artifact path.
type Store struct {
	cfg       Config
	storage   ports.ArtifactStorage
	symbols   ports.SymbolTable
	evaluator ports.Evaluator
	logger    ports.Logger
	tracer    ports.Tracer

	newCompiler  func() ports.Compiler
	compilerOnce sync.Once
	compiler     ports.Compiler
}

// Path returns the configured artifact path.
func (s *Store) Path() string { return s.cfg.Path }

// Mode returns the configured cache mode.
func (s *Store) Mode() domain.CacheMode { return s.cfg.Mode }

// Factories returns the id to callable mapping. With an empty path the
// delegate's live mapping is returned on every call. Otherwise the artifact is
// regenerated when required and then loaded.
func (s *Store) Factories(ctx context.Context) (*domain.FactorySet, error) {
	ctx, span := s.tracer.Start(ctx, "cachestore.factories")
	defer span.End()

	set, err := s.factories(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttribute("factories", set.Len())
	return set, nil
}

func (s *Store) factories(ctx context.Context) (*domain.FactorySet, error) {
	if s.cfg.Path == "" {
		defs, err := s.queryDelegate(ctx)
		if err != nil {
			return nil, err
		}
		return domain.FactorySetFrom(defs)
	}

	outcome, defs, err := s.refresh(ctx)
	if err != nil {
		return nil, err
	}
	if outcome == OutcomeSkipped {
		return domain.FactorySetFrom(defs)
	}
	return s.load(ctx)
}

// Refresh regenerates the artifact when the cache mode and its presence
// require it. It never loads the artifact.
func (s *Store) Refresh(ctx context.Context) (Outcome, error) {
	ctx, span := s.tracer.Start(ctx, "cachestore.refresh")
	defer span.End()

	outcome, _, err := s.refresh(ctx)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	span.SetAttribute("outcome", outcome.String())
	return outcome, nil
}

// refresh also returns the definitions it compiled, if any.
func (s *Store) refresh(ctx context.Context) (Outcome, []domain.Definition, error) {
	if s.cfg.Path == "" {
		s.logger.Info("factory cache disabled, using live factories")
		return OutcomeBypassed, nil, nil
	}

	if s.cfg.Mode == domain.TrustExistingIfPresent {
		exists, err := s.storage.Exists(s.cfg.Path)
		if err != nil {
			return 0, nil, zerr.With(zerr.Wrap(err, domain.ErrArtifactReadFailed.Error()), "path", s.cfg.Path)
		}
		if exists {
			s.logger.Info(fmt.Sprintf("using cached factories from %s", s.cfg.Path))
			return OutcomeTrusted, nil, nil
		}
	}

	if err := s.storage.CheckWritable(s.cfg.Path); err != nil {
		return 0, nil, s.unwritable(err)
	}

	defs, err := s.queryDelegate(ctx)
	if err != nil {
		return 0, nil, err
	}

	frags, err := s.compile(ctx, defs)
	if err != nil {
		return 0, nil, err
	}

	data, err := artifact.Render(frags)
	if err != nil {
		return 0, nil, err
	}

	if err := s.verify(data, frags); err != nil {
		return 0, nil, zerr.Wrap(err, domain.ErrArtifactInvalid.Error())
	}

	bindings, err := s.planSymbols(defs, frags)
	if err != nil {
		return 0, nil, err
	}

	if err := s.storage.WriteAtomic(s.cfg.Path, data); err != nil {
		if s.cfg.BestEffort && errors.Is(err, domain.ErrStorageUnwritable) {
			s.logger.Warn(fmt.Sprintf("factory cache not written to %s: %v", s.cfg.Path, err))
			return OutcomeSkipped, defs, nil
		}
		if errors.Is(err, domain.ErrStorageUnwritable) {
			return 0, nil, err
		}
		return 0, nil, zerr.With(zerr.Wrap(err, domain.ErrArtifactWriteFailed.Error()), "path", s.cfg.Path)
	}

	s.registerSymbols(bindings)

	s.logger.Info(fmt.Sprintf("compiled %d factories to %s", len(frags), s.cfg.Path))
	return OutcomeWritten, defs, nil
}

// Load reads the artifact at the configured path and resolves every handle.
func (s *Store) Load(ctx context.Context) (*domain.FactorySet, error) {
	ctx, span := s.tracer.Start(ctx, "cachestore.load")
	defer span.End()

	set, err := s.load(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return set, nil
}

func (s *Store) load(_ context.Context) (*domain.FactorySet, error) {
	if s.cfg.Path == "" {
		return nil, domain.ErrArtifactNotFound
	}

	data, err := s.storage.Read(s.cfg.Path)
	if err != nil {
		return nil, err
	}

	doc, err := artifact.Decode(data)
	if err != nil {
		return nil, zerr.With(err, "path", s.cfg.Path)
	}

	set := domain.NewFactorySet(len(doc.Factories))
	for _, frag := range doc.Factories {
		fn, err := s.resolve(frag)
		if err != nil {
			return nil, zerr.With(err, "factory_id", frag.ID)
		}
		set.Add(frag.ID, fn)
	}
	return set, nil
}

func (s *Store) queryDelegate(ctx context.Context) ([]domain.Definition, error) {
	if s.cfg.Delegate == nil {
		return nil, zerr.With(domain.ErrFactoryMapFailed, "reason", "no delegate configured")
	}
	defs, err := s.cfg.Delegate.Factories(ctx)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrFactoryMapFailed.Error())
	}
	if err := domain.ValidateDefinitions(defs); err != nil {
		return nil, err
	}
	return defs, nil
}

func (s *Store) compile(ctx context.Context, defs []domain.Definition) ([]domain.Fragment, error) {
	ctx, span := s.tracer.Start(ctx, "cachestore.compile", ports.WithAttribute("definitions", len(defs)))
	defer span.End()

	frags, err := s.compilerFor().CompileAll(ctx, defs)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if len(frags) != len(defs) {
		return nil, zerr.With(domain.ErrArtifactInvalid, "reason", "compiler returned a partial result")
	}
	return frags, nil
}

// compilerFor builds the compiler on first use and reuses it afterwards.
func (s *Store) compilerFor() ports.Compiler {
	s.compilerOnce.Do(func() {
		s.compiler = s.newCompiler()
	})
	return s.compiler
}

// verify decodes the rendered artifact and checks it reproduces frags. Source
// handles are evaluated; symbol handles are resolved at load time.
func (s *Store) verify(data []byte, frags []domain.Fragment) error {
	doc, err := artifact.Decode(data)
	if err != nil {
		return err
	}

	if !slices.EqualFunc(doc.Factories, frags, sameFragment) {
		return zerr.With(domain.ErrArtifactCorrupt, "reason", "decoded entries differ from compiled entries")
	}

	for _, frag := range doc.Factories {
		switch frag.Kind {
		case domain.HandleSymbol:
			if !validSymbol(frag.Symbol) {
				return zerr.With(zerr.With(domain.ErrInvalidHandle, "factory_id", frag.ID), "symbol", frag.Symbol)
			}
		case domain.HandleSource:
			if _, err := s.evaluator.Eval(frag); err != nil {
				return zerr.With(err, "factory_id", frag.ID)
			}
		}
	}
	return nil
}

// binding is a live callable a symbol handle will resolve to.
type binding struct {
	id     string
	symbol string
	fn     domain.Func
}

// planSymbols collects the live callables behind symbol handles and rejects
// conflicts, both inside the batch and against the symbol table, before
// anything is written.
func (s *Store) planSymbols(defs []domain.Definition, frags []domain.Fragment) ([]binding, error) {
	var bindings []binding
	seen := make(map[string]binding)

	for i, def := range defs {
		frag := frags[i]
		if frag.Kind != domain.HandleSymbol {
			continue
		}

		fn := liveFunc(def.Entry)
		if fn == nil {
			continue
		}

		b := binding{id: def.ID, symbol: frag.Symbol, fn: fn}
		if prev, ok := seen[b.symbol]; ok {
			if !domain.SameFunc(prev.fn, fn) {
				err := zerr.With(domain.ErrSymbolConflict, "symbol", b.symbol)
				return nil, zerr.With(zerr.With(err, "factory_id", b.id), "conflicts_with", prev.id)
			}
			continue
		}
		seen[b.symbol] = b

		if err := s.symbols.Check(b.symbol, fn); err != nil {
			return nil, zerr.With(err, "factory_id", b.id)
		}
		bindings = append(bindings, b)
	}
	return bindings, nil
}

// registerSymbols makes the planned callables resolvable in this process. The
// artifact is already committed, so a registration lost to a concurrent
// writer is only reported.
func (s *Store) registerSymbols(bindings []binding) {
	for _, b := range bindings {
		if err := s.symbols.Register(b.symbol, b.fn); err != nil {
			s.logger.Warn(fmt.Sprintf("factory %q: symbol %s not registered: %v", b.id, b.symbol, err))
		}
	}
}

// liveFunc returns the callable of entries persisted as symbols.
func liveFunc(entry domain.Entry) domain.Func {
	switch e := entry.(type) {
	case domain.NamedRef:
		return e.Fn
	case domain.StaticRef:
		return e.Fn
	case domain.SelfDescribing:
		if e.Value != nil {
			return e.Value.Create
		}
	}
	return nil
}

func (s *Store) resolve(frag domain.Fragment) (domain.Func, error) {
	switch frag.Kind {
	case domain.HandleSymbol:
		return s.symbols.Resolve(frag.Symbol)
	case domain.HandleSource:
		return s.evaluator.Eval(frag)
	default:
		return nil, zerr.With(domain.ErrInvalidHandle, "kind", string(frag.Kind))
	}
}

func (s *Store) unwritable(err error) error {
	var target *domain.StorageUnwritableError
	if errors.As(err, &target) {
		return err
	}
	return &domain.StorageUnwritableError{Path: s.cfg.Path, Cause: err}
}

func sameFragment(a, b domain.Fragment) bool {
	return a.ID == b.ID &&
		a.Kind == b.Kind &&
		a.Symbol == b.Symbol &&
		a.Source == b.Source &&
		slices.Equal(a.Imports, b.Imports)
}

// validSymbol accepts qualified names such as "pkg.Func" or
// "example.com/pkg.Type.Method".
func validSymbol(symbol string) bool {
	if strings.ContainsAny(symbol, " \t\r\n") {
		return false
	}
	dot := strings.LastIndex(symbol, ".")
	slash := strings.LastIndex(symbol, "/")
	return dot > 0 && dot > slash && dot < len(symbol)-1
}
