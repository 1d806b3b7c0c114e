package artifact_test

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/facto/internal/core/domain"
	"go.trai.ch/facto/internal/engine/artifact"
)

func sampleFragments() []domain.Fragment {
	greeting := domain.SourceFragment(
		"func(c domain.Container) (any, error) {\n    return strings.ToUpper(\"hello\"), nil\n}",
		domain.Import{Path: "strings"},
	)
	greeting.ID = "greeting"

	return []domain.Fragment{
		{ID: "db", Kind: domain.HandleSymbol, Symbol: "example.com/app.NewDB"},
		{ID: "clock", Kind: domain.HandleSymbol, Symbol: "example.com/app.Clock.Create"},
		greeting,
	}
}

func TestRender_Golden(t *testing.T) {
	out, err := artifact.Render(sampleFragments())
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "render", out)
}

func TestRender_Empty(t *testing.T) {
	out, err := artifact.Render(nil)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "render_empty", out)

	doc, err := artifact.Decode(out)
	require.NoError(t, err)
	assert.Empty(t, doc.Factories)
}

func TestRender_Deterministic(t *testing.T) {
	first, err := artifact.Render(sampleFragments())
	require.NoError(t, err)
	second, err := artifact.Render(sampleFragments())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRender_PreservesOrder(t *testing.T) {
	frags := sampleFragments()
	frags[0], frags[2] = frags[2], frags[0]

	out, err := artifact.Render(frags)
	require.NoError(t, err)

	doc, err := artifact.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"greeting", "clock", "db"}, doc.IDs())
}

func TestRender_ArbitraryIDs(t *testing.T) {
	ids := []string{
		`quote"id`,
		`back\slash`,
		"new\nline",
		"'single'",
		"#comment",
		"- dash",
		"key: value",
		"{flow}",
		"true",
		"123",
		"  padded  ",
		"ünïcödé",
		"tab\there",
	}

	frags := make([]domain.Fragment, 0, len(ids))
	for _, id := range ids {
		f := domain.SymbolFragment("example.com/app.NewDB")
		f.ID = id
		frags = append(frags, f)
	}

	out, err := artifact.Render(frags)
	require.NoError(t, err)

	doc, err := artifact.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, ids, doc.IDs())
}

func TestRender_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		frags   []domain.Fragment
		wantErr error
	}{
		{
			name:    "empty id",
			frags:   []domain.Fragment{domain.SymbolFragment("a.B")},
			wantErr: domain.ErrEmptyFactoryID,
		},
		{
			name: "duplicate id",
			frags: []domain.Fragment{
				{ID: "a", Kind: domain.HandleSymbol, Symbol: "a.B"},
				{ID: "a", Kind: domain.HandleSymbol, Symbol: "a.C"},
			},
			wantErr: domain.ErrDuplicateFactoryID,
		},
		{
			name:    "unknown kind",
			frags:   []domain.Fragment{{ID: "a", Kind: "eval", Source: "x"}},
			wantErr: domain.ErrInvalidHandle,
		},
		{
			name:    "symbol without name",
			frags:   []domain.Fragment{{ID: "a", Kind: domain.HandleSymbol}},
			wantErr: domain.ErrInvalidHandle,
		},
		{
			name:    "source with symbol",
			frags:   []domain.Fragment{{ID: "a", Kind: domain.HandleSource, Source: "func() {}", Symbol: "a.B"}},
			wantErr: domain.ErrInvalidHandle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := artifact.Render(tt.frags)
			require.ErrorContains(t, err, domain.ErrArtifactEncodeFailed.Error())
			require.ErrorContains(t, err, tt.wantErr.Error())
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	valid, err := artifact.Render(sampleFragments())
	require.NoError(t, err)

	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{
			name:    "not yaml",
			data:    "factories: [",
			wantErr: domain.ErrArtifactDecodeFailed,
		},
		{
			name:    "unknown field",
			data:    "version: \"1\"\nchecksum: 0\nfactories: []\nextra: 1\n",
			wantErr: domain.ErrArtifactDecodeFailed,
		},
		{
			name:    "wrong version",
			data:    "version: \"2\"\nchecksum: 0\nfactories: []\n",
			wantErr: domain.ErrArtifactVersionMismatch,
		},
		{
			name:    "checksum mismatch",
			data:    "version: \"1\"\nchecksum: 1\nfactories: []\n",
			wantErr: domain.ErrArtifactCorrupt,
		},
		{
			name:    "tampered entry",
			data:    string(valid[:len(valid)-len("strings\n")]) + "fmt\n",
			wantErr: domain.ErrArtifactCorrupt,
		},
		{
			name:    "invalid kind",
			data:    "version: \"1\"\nchecksum: 0\nfactories:\n  - id: a\n    kind: eval\n",
			wantErr: domain.ErrArtifactCorrupt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := artifact.Decode([]byte(tt.data))
			require.ErrorContains(t, err, tt.wantErr.Error())
		})
	}
}

func TestChecksum_LengthPrefixed(t *testing.T) {
	a := []domain.Fragment{{ID: "ab", Kind: domain.HandleSymbol, Symbol: "c"}}
	b := []domain.Fragment{{ID: "a", Kind: domain.HandleSymbol, Symbol: "bc"}}

	assert.NotEqual(t, artifact.Checksum(a), artifact.Checksum(b))
}
