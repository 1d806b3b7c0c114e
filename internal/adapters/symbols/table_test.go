package symbols_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/facto/internal/adapters/symbols"
	"go.trai.ch/facto/internal/core/domain"
)

func newDB(domain.Container) (any, error) { return "db", nil }

func newCache(domain.Container) (any, error) { return "cache", nil }

func TestTable_RegisterResolve(t *testing.T) {
	table := symbols.New()

	require.NoError(t, table.Register("app.NewDB", newDB))

	fn, err := table.Resolve("app.NewDB")
	require.NoError(t, err)
	v, err := fn(nil)
	require.NoError(t, err)
	assert.Equal(t, "db", v)
}

func TestTable_Register(t *testing.T) {
	tests := []struct {
		name    string
		symbol  string
		fn      domain.Func
		wantErr error
	}{
		{name: "same function twice", symbol: "app.NewDB", fn: newDB},
		{name: "different function", symbol: "app.NewDB", fn: newCache, wantErr: domain.ErrSymbolConflict},
		{name: "empty symbol", symbol: "", fn: newDB, wantErr: domain.ErrInvalidHandle},
		{name: "nil function", symbol: "app.Nil", fn: nil, wantErr: domain.ErrInvalidHandle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := symbols.New()
			require.NoError(t, table.Register("app.NewDB", newDB))

			err := table.Register(tt.symbol, tt.fn)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr.Error())
		})
	}
}

func TestTable_Check(t *testing.T) {
	tests := []struct {
		name    string
		symbol  string
		fn      domain.Func
		wantErr error
	}{
		{name: "same function", symbol: "app.NewDB", fn: newDB},
		{name: "free symbol", symbol: "app.NewCache", fn: newCache},
		{name: "different function", symbol: "app.NewDB", fn: newCache, wantErr: domain.ErrSymbolConflict},
		{name: "empty symbol", symbol: "", fn: newDB, wantErr: domain.ErrInvalidHandle},
		{name: "nil function", symbol: "app.Nil", fn: nil, wantErr: domain.ErrInvalidHandle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := symbols.New()
			require.NoError(t, table.Register("app.NewDB", newDB))

			err := table.Check(tt.symbol, tt.fn)
			if tt.wantErr != nil {
				require.ErrorContains(t, err, tt.wantErr.Error())
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, []string{"app.NewDB"}, table.Symbols())
		})
	}
}

func TestTable_ResolveMissing(t *testing.T) {
	_, err := symbols.New().Resolve("app.Missing")
	require.ErrorContains(t, err, domain.ErrSymbolNotFound.Error())
}

func TestTable_MustRegisterPanicsOnConflict(t *testing.T) {
	table := symbols.New()
	table.MustRegister("app.NewDB", newDB)

	assert.Panics(t, func() { table.MustRegister("app.NewDB", newCache) })
}

func TestTable_Concurrent(t *testing.T) {
	table := symbols.New()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, table.Register(fmt.Sprintf("app.New%02d", i), newDB))
		}()
	}
	wg.Wait()

	got := table.Symbols()
	require.Len(t, got, 50)
	assert.Equal(t, "app.New00", got[0])
	assert.Equal(t, "app.New49", got[49])
}

func TestDefault(t *testing.T) {
	assert.Same(t, symbols.Default(), symbols.Default())
}
