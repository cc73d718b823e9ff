package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIs(t *testing.T) {
	tk := Token{Kind: ControlFlow, Text: "FinRep", Line: 2, Col: 5}

	assert.True(t, tk.Is(ControlFlow, "finrep"))
	assert.True(t, tk.Is(ControlFlow, "FINREP"))
	assert.False(t, tk.Is(Keyword, "finrep"))
	assert.False(t, tk.Is(ControlFlow, "finprep"))

	assert.True(t, tk.IsText("finrep"))
	assert.False(t, tk.IsText("endif"))
}

func TestString(t *testing.T) {
	tk := Token{Kind: Int, Text: "42", Line: 3, Col: 7}

	assert.Equal(t, `integer-literal "42" at 3:7`, tk.String())
	assert.Equal(t, "entity-declaration", EntityDecl.String())
	assert.Equal(t, "kind(99)", Kind(99).String())
}
