// Package app implements the application layer for facto.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/facto/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/facto/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/facto/internal/core/domain"
	"go.trai.ch/facto/internal/core/ports"
	"go.trai.ch/facto/internal/engine/artifact"
	"go.trai.ch/facto/internal/engine/cachestore"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	loader ports.ConfigLoader
	stores *cachestore.Provider
	logger ports.Logger

	configPath string
	verbose    bool
	cwd        func() (string, error)
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, stores *cachestore.Provider, log ports.Logger) *App {
	return &App{
		loader: loader,
		stores: stores,
		logger: log,
		cwd:    os.Getwd,
	}
}

// GlobalOptions are the settings shared by every command.
type GlobalOptions struct {
	// ConfigPath overrides facto.yaml discovery.
	ConfigPath string
	// Verbose reports every traced operation with its duration.
	Verbose bool
	// JSON switches the logger to JSON output.
	JSON bool
}

type jsonSetter interface {
	SetJSON(enable bool)
}

// Configure applies opts.
func (a *App) Configure(opts GlobalOptions) {
	a.configPath = opts.ConfigPath
	a.verbose = opts.Verbose
	if l, ok := a.logger.(jsonSetter); ok {
		l.SetJSON(opts.JSON)
	}
}

// WithWorkingDir pins the directory facto.yaml is discovered from.
func (a *App) WithWorkingDir(dir string) *App {
	a.cwd = func() (string, error) { return dir, nil }
	return a
}

// CompileOptions configuration for the Compile method.
type CompileOptions struct {
	// Force regenerates the artifact even when one exists.
	Force bool
}

// CompileResult reports what Compile did.
type CompileResult struct {
	Outcome cachestore.Outcome
	Path    string
	Count   int
}

// Compile refreshes the artifact of the current project.
func (a *App) Compile(ctx context.Context, opts CompileOptions) (CompileResult, error) {
	project, err := a.loadProject()
	if err != nil {
		return CompileResult{}, err
	}

	defer a.startTracing()(ctx)

	mode := project.Mode
	if opts.Force {
		mode = domain.AlwaysRegenerate
	}

	if project.Artifact != "" {
		if err := a.stores.Storage().EnsureDir(filepath.Dir(project.Artifact)); err != nil {
			return CompileResult{}, err
		}
	}

	store := a.stores.Open(cachestore.Config{
		Delegate:   config.NewFactoryMap(project),
		Mode:       mode,
		Path:       project.Artifact,
		BestEffort: project.BestEffort,
	})

	outcome, err := store.Refresh(ctx)
	if err != nil {
		return CompileResult{}, err
	}

	return CompileResult{
		Outcome: outcome,
		Path:    project.Artifact,
		Count:   len(project.Definitions),
	}, nil
}

// Inspect decodes the artifact at path, or the project's artifact when path
// is empty.
func (a *App) Inspect(_ context.Context, path string) (*artifact.Document, error) {
	path, err := a.artifactPath(path)
	if err != nil {
		return nil, err
	}

	data, err := a.stores.Storage().Read(path)
	if err != nil {
		return nil, err
	}

	doc, err := artifact.Decode(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return doc, nil
}

// VerifyStatus is the verdict for one artifact entry.
type VerifyStatus string

const (
	// VerifyOK means the handle resolved to a callable.
	VerifyOK VerifyStatus = "ok"
	// VerifyHostBound means the handle names a symbol only the host program
	// registers.
	VerifyHostBound VerifyStatus = "host-bound"
	// VerifyFailed means the handle could not be resolved.
	VerifyFailed VerifyStatus = "failed"
)

// VerifyEntry is the verdict for one factory.
type VerifyEntry struct {
	ID     string
	Kind   domain.HandleKind
	Status VerifyStatus
	Err    error
}

// VerifyReport lists the verdict for every artifact entry in order.
type VerifyReport struct {
	Path    string
	Entries []VerifyEntry
}

// Failed returns the entries that could not be resolved.
func (r VerifyReport) Failed() []VerifyEntry {
	var failed []VerifyEntry
	for _, e := range r.Entries {
		if e.Status == VerifyFailed {
			failed = append(failed, e)
		}
	}
	return failed
}

// Verify decodes the artifact and resolves every handle it can without the
// host program: source handles are evaluated, symbol handles are looked up
// in the symbol table and reported as host-bound when absent.
func (a *App) Verify(ctx context.Context, path string) (VerifyReport, error) {
	path, err := a.artifactPath(path)
	if err != nil {
		return VerifyReport{}, err
	}

	doc, err := a.Inspect(ctx, path)
	if err != nil {
		return VerifyReport{}, err
	}

	report := VerifyReport{Path: path, Entries: make([]VerifyEntry, 0, len(doc.Factories))}
	for _, frag := range doc.Factories {
		entry := VerifyEntry{ID: frag.ID, Kind: frag.Kind, Status: VerifyOK}
		switch frag.Kind {
		case domain.HandleSymbol:
			if _, err := a.stores.Symbols().Resolve(frag.Symbol); err != nil {
				entry.Status = VerifyHostBound
			}
		default:
			if _, err := a.stores.Evaluator().Eval(frag); err != nil {
				entry.Status = VerifyFailed
				entry.Err = err
			}
		}
		report.Entries = append(report.Entries, entry)
	}

	if failed := report.Failed(); len(failed) > 0 {
		err := zerr.With(domain.ErrArtifactInvalid, "failed", len(failed))
		return report, zerr.With(err, "factory_id", failed[0].ID)
	}
	return report, nil
}

// Clean removes the project's artifact.
func (a *App) Clean(_ context.Context) error {
	project, err := a.loadProject()
	if err != nil {
		return err
	}
	if project.Artifact == "" {
		a.logger.Info("factory cache disabled, nothing to clean")
		return nil
	}

	if err := a.stores.Storage().Remove(project.Artifact); err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("removed %s", project.Artifact))
	return nil
}

func (a *App) loadProject() (*domain.Project, error) {
	cwd, err := a.cwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to determine working directory")
	}
	project, err := a.loader.Load(cwd, a.configPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return project, nil
}

func (a *App) artifactPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	project, err := a.loadProject()
	if err != nil {
		return "", err
	}
	if project.Artifact == "" {
		return "", zerr.With(domain.ErrArtifactNotFound, "reason", "caching is disabled in "+project.ConfigPath)
	}
	return project.Artifact, nil
}

// startTracing installs the span bridge in verbose mode and returns the
// matching shutdown.
func (a *App) startTracing() func(context.Context) {
	if !a.verbose {
		return func(context.Context) {}
	}
	shutdown := telemetry.Install(telemetry.NewBridge(a.logger))
	return func(ctx context.Context) {
		_ = shutdown(context.WithoutCancel(ctx))
	}
}
