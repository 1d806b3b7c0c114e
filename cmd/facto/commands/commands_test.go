package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/facto/cmd/facto/commands"
	"go.trai.ch/facto/internal/app"
	"go.trai.ch/facto/internal/build"
	"go.trai.ch/facto/internal/core/domain"
	"go.trai.ch/facto/internal/engine/artifact"
	"go.trai.ch/facto/internal/engine/cachestore"
)

type mockApp struct {
	global     app.GlobalOptions
	compileFn  func(opts app.CompileOptions) (app.CompileResult, error)
	inspectFn  func(path string) (*artifact.Document, error)
	verifyFn   func(path string) (app.VerifyReport, error)
	cleanCalls int
	cleanErr   error
}

func (m *mockApp) Configure(opts app.GlobalOptions) { m.global = opts }

func (m *mockApp) Compile(_ context.Context, opts app.CompileOptions) (app.CompileResult, error) {
	if m.compileFn == nil {
		panic("unexpected Compile")
	}
	return m.compileFn(opts)
}

func (m *mockApp) Inspect(_ context.Context, path string) (*artifact.Document, error) {
	if m.inspectFn == nil {
		panic("unexpected Inspect")
	}
	return m.inspectFn(path)
}

func (m *mockApp) Verify(_ context.Context, path string) (app.VerifyReport, error) {
	if m.verifyFn == nil {
		panic("unexpected Verify")
	}
	return m.verifyFn(path)
}

func (m *mockApp) Clean(context.Context) error {
	m.cleanCalls++
	return m.cleanErr
}

func execute(t *testing.T, a commands.Application, args ...string) (string, error) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	cli := commands.New(a)
	out := new(bytes.Buffer)
	cli.SetOutput(out, out)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return out.String(), err
}

func TestCommands_Compile(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		result app.CompileResult
		want   string
		force  bool
	}{
		{
			name:   "written",
			args:   []string{"compile"},
			result: app.CompileResult{Outcome: cachestore.OutcomeWritten, Path: "/p/.facto/factories.yaml", Count: 3},
			want:   "✓ compiled 3 factories to /p/.facto/factories.yaml\n",
		},
		{
			name:   "trusted",
			args:   []string{"compile"},
			result: app.CompileResult{Outcome: cachestore.OutcomeTrusted, Path: "/p/.facto/factories.yaml"},
			want:   "~ using existing /p/.facto/factories.yaml\n",
		},
		{
			name:   "forced",
			args:   []string{"compile", "--force"},
			result: app.CompileResult{Outcome: cachestore.OutcomeWritten, Path: "/p/f.yaml", Count: 1},
			want:   "✓ compiled 1 factories to /p/f.yaml\n",
			force:  true,
		},
		{
			name:   "skipped",
			args:   []string{"compile"},
			result: app.CompileResult{Outcome: cachestore.OutcomeSkipped, Count: 2},
			want:   "! compiled 2 factories, artifact not written\n",
		},
		{
			name:   "bypassed",
			args:   []string{"compile"},
			result: app.CompileResult{Outcome: cachestore.OutcomeBypassed},
			want:   "● caching disabled\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got app.CompileOptions
			m := &mockApp{compileFn: func(opts app.CompileOptions) (app.CompileResult, error) {
				got = opts
				return tt.result, nil
			}}

			out, err := execute(t, m, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
			assert.Equal(t, tt.force, got.Force)
		})
	}
}

func TestCommands_CompileError(t *testing.T) {
	m := &mockApp{compileFn: func(app.CompileOptions) (app.CompileResult, error) {
		return app.CompileResult{}, errors.New("simulated error")
	}}

	_, err := execute(t, m, "compile")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulated error")
}

func TestCommands_GlobalFlags(t *testing.T) {
	m := &mockApp{}

	_, err := execute(t, m, "clean", "--config", "conf/facto.yaml", "-v", "--json")
	require.NoError(t, err)
	assert.Equal(t, app.GlobalOptions{ConfigPath: "conf/facto.yaml", Verbose: true, JSON: true}, m.global)
	assert.Equal(t, 1, m.cleanCalls)
}

func TestCommands_Inspect(t *testing.T) {
	doc := &artifact.Document{
		Version:  artifact.FormatVersion,
		Checksum: 42,
		Factories: []domain.Fragment{
			{ID: "db", Kind: domain.HandleSymbol, Symbol: "example.com/app.NewDB"},
			{ID: "greeting", Kind: domain.HandleSource, Source: "func(c facto.Container) (any, error) {\n\treturn \"hi\", nil\n}"},
		},
	}

	var gotPath string
	m := &mockApp{inspectFn: func(path string) (*artifact.Document, error) {
		gotPath = path
		return doc, nil
	}}

	out, err := execute(t, m, "inspect", "/tmp/a.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/a.yaml", gotPath)
	assert.Equal(t, "version 1, checksum 42, 2 factories\n"+
		"db        symbol  example.com/app.NewDB\n"+
		"greeting  source  func(c facto.Container) (any, error) { …\n", out)
}

func TestCommands_Verify(t *testing.T) {
	report := app.VerifyReport{Entries: []app.VerifyEntry{
		{ID: "db", Kind: domain.HandleSymbol, Status: app.VerifyHostBound},
		{ID: "greeting", Kind: domain.HandleSource, Status: app.VerifyOK},
	}}

	t.Run("success", func(t *testing.T) {
		m := &mockApp{verifyFn: func(string) (app.VerifyReport, error) { return report, nil }}

		out, err := execute(t, m, "verify")
		require.NoError(t, err)
		assert.Equal(t, "~ db        host-bound\n✓ greeting  ok\n", out)
	})

	t.Run("failure prints the report and returns the error", func(t *testing.T) {
		failed := report
		failed.Entries = append([]app.VerifyEntry(nil), report.Entries...)
		failed.Entries[1] = app.VerifyEntry{
			ID: "greeting", Kind: domain.HandleSource, Status: app.VerifyFailed, Err: errors.New("undefined: x"),
		}
		m := &mockApp{verifyFn: func(string) (app.VerifyReport, error) {
			return failed, domain.ErrArtifactInvalid
		}}

		out, err := execute(t, m, "verify")
		require.ErrorIs(t, err, domain.ErrArtifactInvalid)
		assert.Contains(t, out, "✗ greeting  failed: undefined: x\n")
	})
}

func TestCommands_Clean(t *testing.T) {
	m := &mockApp{cleanErr: errors.New("busy")}

	_, err := execute(t, m, "clean")
	require.Error(t, err)
	assert.Equal(t, 1, m.cleanCalls)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Equal(t, "facto version "+build.Version+" (commit: "+build.Commit+", date: "+build.Date+")\n", out)
}

func TestCommands_RootFlags(t *testing.T) {
	t.Run("help", func(t *testing.T) {
		out, err := execute(t, &mockApp{}, "--help")
		require.NoError(t, err)
		assert.Contains(t, out, "-v, --verbose")
		assert.Contains(t, out, "--version")
	})

	t.Run("version flag", func(t *testing.T) {
		out, err := execute(t, &mockApp{}, "--version")
		require.NoError(t, err)
		assert.Equal(t, "facto version "+build.Version+" (commit: "+build.Commit+", date: "+build.Date+")\n", out)
	})
}
