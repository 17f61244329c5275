package store

import (
	"database/sql"
	"sync"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

func TestRegisterDataSource_Validation(t *testing.T) {
	require.Error(t, registerDataSource("x", dataSource{URL: "file::memory:"}))
	require.Error(t, registerDataSource("x", dataSource{Driver: "sqlite3"}))
}

func TestGetDS_DefaultDS_Close(t *testing.T) {
	// Reset init so this test is deterministic.
	initOnce = sync.Once{}
	initErr = nil

	dsMu.Lock()
	dsRegistry = map[string]DB{}
	defaultDS = nil
	dsMu.Unlock()

	// Use a real in-memory sqlite DB so Close() is safe.
	raw, err := sql.Open("sqlite3", "file::memory:?cache=shared")
	require.NoError(t, err)
	require.NoError(t, raw.Ping())
	wrapped := stdDB{DB: raw}

	dsMu.Lock()
	dsRegistry[defaultDSName] = wrapped
	dsRegistry["other"] = wrapped
	defaultDS = wrapped
	dsMu.Unlock()

	got, ok := DefaultDS()
	require.True(t, ok)
	require.NotNil(t, got)

	got2, ok2 := GetDS("other")
	require.True(t, ok2)
	require.NotNil(t, got2)

	require.NoError(t, CloseDataSource("other"))
	_, ok3 := GetDS("other")
	require.False(t, ok3)

	// DefaultDS is still present; close all should clear and close.
	require.NoError(t, CloseAllDataSources())
	_, ok4 := DefaultDS()
	require.False(t, ok4)
}
