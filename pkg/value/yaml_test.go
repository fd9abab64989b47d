package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeYAML(t *testing.T) {
	src := `
b: 1
a:
  - true
  - null
  - 1.5
  - x
  - "1"
`
	v, err := DecodeYAML([]byte(src))
	require.NoError(t, err)

	m, ok := v.(*Map)
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, m.Keys())

	b, _ := m.Get("b")
	assert.Equal(t, Int(1), b)

	a, _ := m.Get("a")
	assert.Equal(t, List{Bool(true), Null{}, Float(1.5), String("x"), String("1")}, a)
}

func TestDecodeYAMLAnchors(t *testing.T) {
	src := `
base: &b
  x: 1
copy: *b
`
	v, err := DecodeYAML([]byte(src))
	require.NoError(t, err)

	m := v.(*Map)
	cp, ok := m.Get("copy")
	require.True(t, ok)

	inner, ok := cp.(*Map)
	require.True(t, ok)
	x, _ := inner.Get("x")
	assert.Equal(t, Int(1), x)
}

func TestDecodeYAMLEmpty(t *testing.T) {
	v, err := DecodeYAML(nil)
	require.NoError(t, err)
	assert.Equal(t, Null{}, v)
}

func TestDecodeYAMLInvalid(t *testing.T) {
	_, err := DecodeYAML([]byte("a: [1, 2"))
	assert.Error(t, err)
}
