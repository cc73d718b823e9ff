package sym

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeclareLookup(t *testing.T) {
	tab := New()

	err := tab.Declare("juan", "entity:Deportista", 3, 1)
	require.NoError(t, err)

	e := tab.Lookup("juan")
	require.NotNil(t, e)
	assert.Equal(t, "juan", e.Name)
	assert.Equal(t, "entity:Deportista", e.Type)
	assert.Equal(t, 1, e.Line)
	assert.Equal(t, 3, e.Node)

	assert.Nil(t, tab.Lookup("ana"))
}

func TestRedeclare(t *testing.T) {
	tab := New()

	require.NoError(t, tab.Declare("juan", "entity:Deportista", 1, 1))

	err := tab.Declare("juan", "list:Pais", 2, 4)
	require.Error(t, err)
	assert.Equal(t, "'juan' already declared in current scope (level 0)", err.Error())

	// the first declaration stays
	assert.Equal(t, "entity:Deportista", tab.Lookup("juan").Type)
}

func TestShadowing(t *testing.T) {
	tab := New()

	require.NoError(t, tab.Declare("x", "int", 1, 1))

	lvl := tab.EnterScope()
	assert.Equal(t, 1, lvl)

	// same name in an inner scope is fine
	require.NoError(t, tab.Declare("x", "entity:Deportista", 5, 3))
	assert.Equal(t, "entity:Deportista", tab.Lookup("x").Type)

	lvl = tab.ExitScope()
	assert.Equal(t, 0, lvl)
	assert.Equal(t, "int", tab.Lookup("x").Type)
}

func TestOuterVisibleInside(t *testing.T) {
	tab := New()

	require.NoError(t, tab.Declare("equipo", "list:Deportista", 2, 1))

	tab.EnterScope()

	e := tab.Lookup("equipo")
	require.NotNil(t, e)
	assert.Equal(t, "list:Deportista", e.Type)
}

func TestInnerGoneAfterExit(t *testing.T) {
	tab := New()

	tab.EnterScope()
	require.NoError(t, tab.Declare("tmp", "int", 7, 4))
	require.NotNil(t, tab.Lookup("tmp"))

	tab.ExitScope()
	assert.Nil(t, tab.Lookup("tmp"))
}

func TestExitGlobalIsNoop(t *testing.T) {
	tab := New()

	require.NoError(t, tab.Declare("x", "int", 1, 1))

	assert.Equal(t, 0, tab.ExitScope())
	assert.Equal(t, 0, tab.ExitScope())

	// global scope survives
	require.NotNil(t, tab.Lookup("x"))
	require.NoError(t, tab.Declare("y", "int", 2, 2))
}

func TestSnapshotOrderAndIsolation(t *testing.T) {
	tab := New()

	require.NoError(t, tab.Declare("a", "int", 1, 1))
	require.NoError(t, tab.Declare("c", "int", 2, 2))
	require.NoError(t, tab.Declare("b", "int", 3, 3))

	tab.EnterScope()
	require.NoError(t, tab.Declare("inner", "entity:Deportista", 4, 4))

	snap := tab.Snapshot()

	require.Len(t, snap, 2)
	assert.Equal(t, 0, snap[0].Level)
	assert.Equal(t, 1, snap[1].Level)

	// declaration order, not map order
	names := []string{}
	for _, e := range snap[0].Entries {
		names = append(names, e.Name)
	}

	assert.Equal(t, []string{"a", "c", "b"}, names)

	// later mutations do not show through
	tab.ExitScope()
	require.NoError(t, tab.Declare("d", "int", 5, 5))

	assert.Len(t, snap[0].Entries, 3)
	require.Len(t, snap[1].Entries, 1)
	assert.Equal(t, "inner", snap[1].Entries[0].Name)
}

func TestSnapshotString(t *testing.T) {
	tab := New()

	s := tab.Snapshot().String()
	assert.Contains(t, s, "scope 0:")
	assert.Contains(t, s, "(empty)")

	require.NoError(t, tab.Declare("juan", "entity:Deportista", 1, 2))

	s = tab.Snapshot().String()
	assert.Contains(t, s, "juan entity:Deportista (line 2)")
}
