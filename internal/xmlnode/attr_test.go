package xmlnode

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func element(t *testing.T, text string) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromString(text))
	return doc.Root()
}

func TestStr(t *testing.T) {
	el := element(t, `<Node type="input" empty=""/>`)

	v, ok := Str(el, "type")
	assert.True(t, ok)
	assert.Equal(t, "input", v)

	v, ok = Str(el, "empty")
	assert.True(t, ok)
	assert.Equal(t, "", v)

	_, ok = Str(el, "missing")
	assert.False(t, ok)

	assert.Equal(t, "def", StrDefault(el, "missing", "def"))
	assert.Equal(t, "input", StrDefault(el, "type", "def"))
}

func TestInt(t *testing.T) {
	el := element(t, `<Node port-index="3" bad="x"/>`)

	v, ok, err := Int(el, "port-index")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	_, ok, err = Int(el, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = Int(el, "bad")
	require.Error(t, err)

	v, err = IntDefault(el, "missing", -1)
	require.NoError(t, err)
	assert.Equal(t, -1, v)

	_, err = IntDefault(el, "bad", -1)
	require.Error(t, err)
}
