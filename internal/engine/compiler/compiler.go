// Package compiler decides whether a factory can be persisted and produces its compiled fragment.
package compiler

import (
	"context"
	"runtime"
	"slices"

	"go.trai.ch/facto/internal/core/domain"
	"go.trai.ch/facto/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const (
	reasonNoEntry      = "no factory registered for id"
	reasonNoSymbol     = "reference has no symbol name"
	reasonBound        = "method is bound to a receiver instance"
	reasonCaptures     = "closure captures enclosing state"
	reasonExtraction   = "closure source could not be extracted"
	reasonNoExtractor  = "no source extractor configured"
	reasonSelfFailed   = "self-describing factory failed to render"
	reasonSelfInvalid  = "self-describing factory rendered an invalid fragment"
	reasonNilDescriber = "self-describing factory is nil"
)

// Compiler classifies factory definitions into compiled fragments.
type Compiler struct {
	extractor ports.SourceExtractor
	limit     int
}

var _ ports.Compiler = (*Compiler)(nil)

// New creates a Compiler that uses extractor for closures.
func New(extractor ports.SourceExtractor) *Compiler {
	return &Compiler{
		extractor: extractor,
		limit:     runtime.NumCPU(),
	}
}

// WithLimit bounds the number of concurrent classifications in CompileAll.
func (c *Compiler) WithLimit(n int) *Compiler {
	if n > 0 {
		c.limit = n
	}
	return c
}

// Classify returns the compiled fragment for def, or a *domain.NotCompilableError
// naming def.ID. Rules are applied per entry variant; nothing is executed.
func (c *Compiler) Classify(def domain.Definition) (domain.Fragment, error) {
	var (
		frag domain.Fragment
		err  *domain.NotCompilableError
	)

	switch e := def.Entry.(type) {
	case domain.SelfDescribing:
		frag, err = c.classifySelf(e)
	case domain.NamedRef:
		frag, err = classifyNamed(e)
	case domain.StaticRef:
		frag, err = classifyStatic(e)
	case domain.BoundRef:
		err = &domain.NotCompilableError{Kind: domain.KindBound, Reason: reasonBound}
	case domain.Closure:
		frag, err = c.classifyClosure(e)
	default:
		err = &domain.NotCompilableError{Reason: reasonNoEntry}
	}

	if err != nil {
		return domain.Fragment{}, err.WithID(def.ID)
	}

	frag.ID = def.ID
	return frag, nil
}

func (c *Compiler) classifySelf(e domain.SelfDescribing) (domain.Fragment, *domain.NotCompilableError) {
	if e.Value == nil {
		return domain.Fragment{}, &domain.NotCompilableError{Kind: domain.KindSelfDescribing, Reason: reasonNilDescriber}
	}

	frag, err := e.Value.CompiledFactory()
	if err != nil {
		return domain.Fragment{}, &domain.NotCompilableError{
			Kind:   domain.KindSelfDescribing,
			Reason: reasonSelfFailed,
			Cause:  err,
		}
	}

	if !frag.Kind.Valid() || frag.Handle() == "" {
		return domain.Fragment{}, &domain.NotCompilableError{Kind: domain.KindSelfDescribing, Reason: reasonSelfInvalid}
	}

	return frag, nil
}

func classifyNamed(e domain.NamedRef) (domain.Fragment, *domain.NotCompilableError) {
	symbol := e.Symbol
	if symbol == "" {
		symbol = domain.FuncName(e.Fn)
	}
	if symbol == "" {
		return domain.Fragment{}, &domain.NotCompilableError{Kind: domain.KindNamed, Reason: reasonNoSymbol}
	}
	return domain.SymbolFragment(symbol), nil
}

func classifyStatic(e domain.StaticRef) (domain.Fragment, *domain.NotCompilableError) {
	symbol := e.Symbol()
	if symbol == "" {
		return domain.Fragment{}, &domain.NotCompilableError{Kind: domain.KindStatic, Reason: reasonNoSymbol}
	}
	return domain.SymbolFragment(symbol), nil
}

func (c *Compiler) classifyClosure(e domain.Closure) (domain.Fragment, *domain.NotCompilableError) {
	if c.extractor == nil {
		return domain.Fragment{}, &domain.NotCompilableError{Kind: domain.KindClosure, Reason: reasonNoExtractor}
	}

	ext, err := c.extractor.Extract(e)
	if err != nil {
		return domain.Fragment{}, &domain.NotCompilableError{
			Kind:   domain.KindClosure,
			Reason: reasonExtraction,
			Cause:  err,
		}
	}

	if len(ext.Captures) > 0 {
		captures := slices.Clone(ext.Captures)
		slices.Sort(captures)
		return domain.Fragment{}, &domain.NotCompilableError{
			Kind:     domain.KindClosure,
			Reason:   reasonCaptures,
			Captures: slices.Compact(captures),
		}
	}

	if ext.Source == "" {
		return domain.Fragment{}, &domain.NotCompilableError{
			Kind:   domain.KindClosure,
			Reason: reasonExtraction,
			Cause:  domain.ErrExtractionFailed,
		}
	}

	return domain.SourceFragment(ext.Source, ext.Imports...), nil
}

// CompileAll classifies every definition and returns the fragments in
// definition order. When several definitions fail, the error names the first
// one in definition order.
func (c *Compiler) CompileAll(ctx context.Context, defs []domain.Definition) ([]domain.Fragment, error) {
	if err := domain.ValidateDefinitions(defs); err != nil {
		return nil, err
	}

	frags := make([]domain.Fragment, len(defs))
	errs := make([]error, len(defs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.limit)

	for i, def := range defs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			frags[i], errs[i] = c.Classify(def)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, zerr.Wrap(err, domain.ErrCompileInterrupted.Error())
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return frags, nil
}
