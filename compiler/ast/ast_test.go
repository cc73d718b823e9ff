package ast

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeArena(t *testing.T) {
	tr := New()

	require.NotNil(t, tr.Root)
	assert.Equal(t, Program, tr.Root.Kind)
	assert.Equal(t, 0, tr.Root.ID)

	a := tr.NewNode(AthleteDecl, "juan", 2)
	b := tr.NewNode(Narrate, "narrar", 3)

	assert.Equal(t, 1, a.ID)
	assert.Equal(t, 2, b.ID)
	assert.Equal(t, 3, tr.Len())

	// ids index the arena
	assert.Same(t, a, tr.Nodes[a.ID])
}

func TestAddSkipsNil(t *testing.T) {
	tr := New()

	n := tr.NewNode(Conditional, "si", 1)
	n.Add(nil, tr.NewNode(Number, "3", 1), nil)

	require.Len(t, n.Children, 1)
	assert.Equal(t, Number, n.Children[0].Kind)
}

func TestAttrs(t *testing.T) {
	tr := New()
	n := tr.NewNode(AthleteDecl, "juan", 1)

	n.Set("name", "juan").Set("stats", []int{1, 2, 3}).Set("sport", "Futbol")

	v, ok := n.Attr("name")
	require.True(t, ok)
	assert.Equal(t, "juan", v)

	_, ok = n.Attr("country")
	assert.False(t, ok)

	// replace keeps position
	n.Set("name", "ana")

	assert.Equal(t, "name", n.Attrs[0].Key)
	assert.Equal(t, "ana", n.Attrs[0].Val)
	assert.Len(t, n.Attrs, 3)

	// nil value is still present
	n.Set("country", nil)

	v, ok = n.Attr("country")
	require.True(t, ok)
	assert.Nil(t, v)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Program", Program.String())
	assert.Equal(t, "BulkLoad", BulkLoad.String())
	assert.Equal(t, "Unknown", Unknown.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}

func TestDump(t *testing.T) {
	tr := New()

	d := tr.NewNode(AthleteDecl, "juan", 1).
		Set("stats", []int{10, 8, 9}).
		Set("sport", "Futbol")
	d.Add(tr.NewNode(Name, "x", 1))

	tr.Root.Add(d)

	out := Dump(tr)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)

	assert.Equal(t, `<"Program", "", {}>`, lines[0])
	assert.Equal(t, `  <"AthleteDecl", "juan", {stats: [10 8 9], sport: "Futbol"}>`, lines[1])
	assert.Equal(t, `    <"Name", "x", {}>`, lines[2])
}

func TestAttrsJSON(t *testing.T) {
	a := Attrs{}.Set("name", "juan").Set("values", []interface{}{2, nil})

	data, err := json.Marshal(a)
	require.NoError(t, err)

	assert.Equal(t, `{"name":"juan","values":[2,null]}`, string(data))
}

func TestNodeJSONKinds(t *testing.T) {
	tr := New()
	n := tr.NewNode(Match, "vs", 3).Set("countryA", "Argentina")

	data, err := json.Marshal(n)
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"kind":"Match"`)
	assert.Contains(t, s, `"countryA":"Argentina"`)
}
