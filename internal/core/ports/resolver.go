package ports

import "go.trai.ch/facto/internal/core/domain"

// SymbolTable maps stable symbol names to live callables.
//
//go:generate mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type SymbolTable interface {
	// Check reports whether Register(symbol, fn) would succeed, without
	// binding anything.
	Check(symbol string, fn domain.Func) error
	// Register binds symbol to fn.
	Register(symbol string, fn domain.Func) error
	// Resolve returns the callable bound to symbol.
	Resolve(symbol string) (domain.Func, error)
}

// Evaluator turns a source fragment into a callable.
type Evaluator interface {
	// Eval evaluates the fragment in a fresh scope.
	Eval(fragment domain.Fragment) (domain.Func, error)
}
