package app_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/facto/internal/adapters/telemetry"
	"go.trai.ch/facto/internal/app"
	"go.trai.ch/facto/internal/core/domain"
	"go.trai.ch/facto/internal/core/ports"
	"go.trai.ch/facto/internal/core/ports/mocks"
	"go.trai.ch/facto/internal/engine/artifact"
	"go.trai.ch/facto/internal/engine/cachestore"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	loader    *mocks.MockConfigLoader
	storage   *mocks.MockArtifactStorage
	symbols   *mocks.MockSymbolTable
	evaluator *mocks.MockEvaluator
	logger    *mocks.MockLogger
	compiler  *mocks.MockCompiler
	app       *app.App
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		loader:    mocks.NewMockConfigLoader(ctrl),
		storage:   mocks.NewMockArtifactStorage(ctrl),
		symbols:   mocks.NewMockSymbolTable(ctrl),
		evaluator: mocks.NewMockEvaluator(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
		compiler:  mocks.NewMockCompiler(ctrl),
	}
	stores := cachestore.NewProvider(
		f.storage, f.symbols, f.evaluator, f.logger, telemetry.NewNoOpTracer(),
		func() ports.Compiler { return f.compiler },
	)
	f.app = app.New(f.loader, stores, f.logger).WithWorkingDir("/work")
	return f
}

func testProject(root string) *domain.Project {
	return &domain.Project{
		Root:       root,
		ConfigPath: filepath.Join(root, domain.FactoFileName),
		Artifact:   filepath.Join(root, domain.DefaultArtifactPath()),
		Mode:       domain.TrustExistingIfPresent,
		Definitions: []domain.Definition{
			{ID: "db", Entry: domain.Named("example.com/app.NewDB", nil)},
			{ID: "clock", Entry: domain.Static("example.com/app.Clock", "Create", nil)},
		},
	}
}

func compiledFragments() []domain.Fragment {
	return []domain.Fragment{
		{ID: "db", Kind: domain.HandleSymbol, Symbol: "example.com/app.NewDB"},
		{ID: "clock", Kind: domain.HandleSymbol, Symbol: "example.com/app.Clock.Create"},
	}
}

func TestApp_Compile(t *testing.T) {
	t.Run("writes the artifact when none exists", func(t *testing.T) {
		f := newFixture(t)
		project := testProject("/work")

		f.loader.EXPECT().Load("/work", "").Return(project, nil)
		f.storage.EXPECT().EnsureDir(filepath.Join("/work", domain.FactoDirName)).Return(nil)
		f.storage.EXPECT().Exists(project.Artifact).Return(false, nil)
		f.storage.EXPECT().CheckWritable(project.Artifact).Return(nil)
		f.compiler.EXPECT().CompileAll(gomock.Any(), project.Definitions).Return(compiledFragments(), nil)
		f.storage.EXPECT().WriteAtomic(project.Artifact, gomock.Any()).Return(nil)
		f.logger.EXPECT().Info(gomock.Any())

		res, err := f.app.Compile(t.Context(), app.CompileOptions{})
		require.NoError(t, err)
		assert.Equal(t, cachestore.OutcomeWritten, res.Outcome)
		assert.Equal(t, project.Artifact, res.Path)
		assert.Equal(t, 2, res.Count)
	})

	t.Run("trusts an existing artifact", func(t *testing.T) {
		f := newFixture(t)
		project := testProject("/work")

		f.loader.EXPECT().Load("/work", "").Return(project, nil)
		f.storage.EXPECT().EnsureDir(gomock.Any()).Return(nil)
		f.storage.EXPECT().Exists(project.Artifact).Return(true, nil)
		f.logger.EXPECT().Info(gomock.Any())

		res, err := f.app.Compile(t.Context(), app.CompileOptions{})
		require.NoError(t, err)
		assert.Equal(t, cachestore.OutcomeTrusted, res.Outcome)
	})

	t.Run("force regenerates", func(t *testing.T) {
		f := newFixture(t)
		project := testProject("/work")

		f.loader.EXPECT().Load("/work", "").Return(project, nil)
		f.storage.EXPECT().EnsureDir(gomock.Any()).Return(nil)
		f.storage.EXPECT().CheckWritable(project.Artifact).Return(nil)
		f.compiler.EXPECT().CompileAll(gomock.Any(), gomock.Any()).Return(compiledFragments(), nil)
		f.storage.EXPECT().WriteAtomic(project.Artifact, gomock.Any()).Return(nil)
		f.logger.EXPECT().Info(gomock.Any())

		res, err := f.app.Compile(t.Context(), app.CompileOptions{Force: true})
		require.NoError(t, err)
		assert.Equal(t, cachestore.OutcomeWritten, res.Outcome)
	})

	t.Run("bypasses when caching is disabled", func(t *testing.T) {
		f := newFixture(t)
		project := testProject("/work")
		project.Artifact = ""

		f.loader.EXPECT().Load("/work", "").Return(project, nil)
		f.logger.EXPECT().Info(gomock.Any())

		res, err := f.app.Compile(t.Context(), app.CompileOptions{})
		require.NoError(t, err)
		assert.Equal(t, cachestore.OutcomeBypassed, res.Outcome)
	})

	t.Run("uses the configured manifest path", func(t *testing.T) {
		f := newFixture(t)
		f.app.Configure(app.GlobalOptions{ConfigPath: "custom.yaml"})

		f.loader.EXPECT().Load("/work", "custom.yaml").Return(nil, errors.New("no such file"))

		_, err := f.app.Compile(t.Context(), app.CompileOptions{})
		require.Error(t, err)
		assert.ErrorContains(t, err, "failed to load configuration")
	})

	t.Run("propagates not compilable", func(t *testing.T) {
		f := newFixture(t)
		project := testProject("/work")
		notCompilable := &domain.NotCompilableError{ID: "db", Kind: domain.KindBound, Reason: "bound method"}

		f.loader.EXPECT().Load("/work", "").Return(project, nil)
		f.storage.EXPECT().EnsureDir(gomock.Any()).Return(nil)
		f.storage.EXPECT().Exists(project.Artifact).Return(false, nil)
		f.storage.EXPECT().CheckWritable(project.Artifact).Return(nil)
		f.compiler.EXPECT().CompileAll(gomock.Any(), gomock.Any()).Return(nil, notCompilable)

		_, err := f.app.Compile(t.Context(), app.CompileOptions{})
		require.ErrorIs(t, err, domain.ErrNotCompilable)
	})

	t.Run("workspace creation failure", func(t *testing.T) {
		f := newFixture(t)
		project := testProject("/work")

		f.loader.EXPECT().Load("/work", "").Return(project, nil)
		f.storage.EXPECT().EnsureDir(gomock.Any()).Return(errors.New("read-only file system"))

		_, err := f.app.Compile(t.Context(), app.CompileOptions{})
		require.Error(t, err)
	})
}

func TestApp_Inspect(t *testing.T) {
	data, err := artifact.Render(compiledFragments())
	require.NoError(t, err)

	t.Run("project artifact", func(t *testing.T) {
		f := newFixture(t)
		project := testProject("/work")

		f.loader.EXPECT().Load("/work", "").Return(project, nil)
		f.storage.EXPECT().Read(project.Artifact).Return(data, nil)

		doc, err := f.app.Inspect(t.Context(), "")
		require.NoError(t, err)
		assert.Equal(t, []string{"db", "clock"}, doc.IDs())
	})

	t.Run("explicit path skips the manifest", func(t *testing.T) {
		f := newFixture(t)
		f.storage.EXPECT().Read("/tmp/factories.yaml").Return(data, nil)

		doc, err := f.app.Inspect(t.Context(), "/tmp/factories.yaml")
		require.NoError(t, err)
		assert.Len(t, doc.Factories, 2)
	})

	t.Run("corrupt artifact", func(t *testing.T) {
		f := newFixture(t)
		f.storage.EXPECT().Read("/tmp/factories.yaml").Return([]byte("version: \"1\"\nchecksum: 1\nfactories: []\n"), nil)

		_, err := f.app.Inspect(t.Context(), "/tmp/factories.yaml")
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrArtifactCorrupt.Error())
	})

	t.Run("caching disabled", func(t *testing.T) {
		f := newFixture(t)
		project := testProject("/work")
		project.Artifact = ""
		f.loader.EXPECT().Load("/work", "").Return(project, nil)

		_, err := f.app.Inspect(t.Context(), "")
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrArtifactNotFound.Error())
	})
}

func TestApp_Verify(t *testing.T) {
	frags := []domain.Fragment{
		{ID: "db", Kind: domain.HandleSymbol, Symbol: "example.com/app.NewDB"},
		{ID: "clock", Kind: domain.HandleSymbol, Symbol: "example.com/app.Clock.Create"},
		{ID: "greeting", Kind: domain.HandleSource, Source: "func(c facto.Container) (any, error) { return \"hi\", nil }"},
	}
	data, err := artifact.Render(frags)
	require.NoError(t, err)

	noop := func(domain.Container) (any, error) { return nil, nil }

	t.Run("all resolvable", func(t *testing.T) {
		f := newFixture(t)
		f.storage.EXPECT().Read("/a.yaml").Return(data, nil)
		f.symbols.EXPECT().Resolve("example.com/app.NewDB").Return(domain.Func(noop), nil)
		f.symbols.EXPECT().Resolve("example.com/app.Clock.Create").Return(nil, domain.ErrSymbolNotFound)
		f.evaluator.EXPECT().Eval(frags[2]).Return(domain.Func(noop), nil)

		report, err := f.app.Verify(t.Context(), "/a.yaml")
		require.NoError(t, err)
		assert.Equal(t, "/a.yaml", report.Path)
		require.Len(t, report.Entries, 3)
		assert.Equal(t, app.VerifyOK, report.Entries[0].Status)
		assert.Equal(t, app.VerifyHostBound, report.Entries[1].Status)
		assert.Equal(t, app.VerifyOK, report.Entries[2].Status)
		assert.Empty(t, report.Failed())
	})

	t.Run("source failure", func(t *testing.T) {
		f := newFixture(t)
		f.storage.EXPECT().Read("/a.yaml").Return(data, nil)
		f.symbols.EXPECT().Resolve(gomock.Any()).Return(domain.Func(noop), nil).Times(2)
		f.evaluator.EXPECT().Eval(frags[2]).Return(nil, domain.ErrEvalFailed)

		report, err := f.app.Verify(t.Context(), "/a.yaml")
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrArtifactInvalid.Error())
		failed := report.Failed()
		require.Len(t, failed, 1)
		assert.Equal(t, "greeting", failed[0].ID)
		require.ErrorIs(t, failed[0].Err, domain.ErrEvalFailed)
	})
}

func TestApp_Clean(t *testing.T) {
	t.Run("removes the artifact", func(t *testing.T) {
		f := newFixture(t)
		project := testProject("/work")

		f.loader.EXPECT().Load("/work", "").Return(project, nil)
		f.storage.EXPECT().Remove(project.Artifact).Return(nil)
		f.logger.EXPECT().Info(gomock.Any())

		require.NoError(t, f.app.Clean(t.Context()))
	})

	t.Run("nothing to clean when disabled", func(t *testing.T) {
		f := newFixture(t)
		project := testProject("/work")
		project.Artifact = ""

		f.loader.EXPECT().Load("/work", "").Return(project, nil)
		f.logger.EXPECT().Info(gomock.Any())

		require.NoError(t, f.app.Clean(t.Context()))
	})

	t.Run("remove failure", func(t *testing.T) {
		f := newFixture(t)
		project := testProject("/work")

		f.loader.EXPECT().Load("/work", "").Return(project, nil)
		f.storage.EXPECT().Remove(project.Artifact).Return(errors.New("busy"))

		require.Error(t, f.app.Clean(t.Context()))
	})
}
