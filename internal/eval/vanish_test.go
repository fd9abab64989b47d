package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/randomjson/pkg/value"
)

func TestVanishScalarsPassThrough(t *testing.T) {
	for _, v := range []value.Value{value.Null{}, value.Bool(false), value.Int(0), value.String("")} {
		assert.Equal(t, v, Vanish(v))
	}
}

func TestVanishList(t *testing.T) {
	in := value.List{value.Int(1), value.Absent{}, value.Int(2)}
	assert.Equal(t, value.List{value.Int(1), value.Int(2)}, Vanish(in))
}

func TestVanishMap(t *testing.T) {
	m := value.NewMap()
	m.Set("keep", value.Int(1))
	m.Set("drop", value.Absent{})
	m.Set("also", value.String("x"))

	got := Vanish(m).(*value.Map)
	assert.Equal(t, []string{"keep", "also"}, got.Keys())
}

func TestVanishNested(t *testing.T) {
	inner := value.NewMap()
	inner.Set("gone", value.Absent{})
	inner.Set("kept", value.Int(1))

	in := value.List{
		value.List{value.Absent{}, value.Int(1)},
		inner,
		value.Absent{},
	}

	got := Vanish(in).(value.List)
	assert.Len(t, got, 2)
	assert.Equal(t, value.List{value.Int(1)}, got[0])
	assert.Equal(t, []string{"kept"}, got[1].(*value.Map).Keys())
}

func TestVanishIdempotent(t *testing.T) {
	m := value.NewMap()
	m.Set("a", value.List{value.Absent{}, value.Int(1)})
	m.Set("b", value.Absent{})

	once := Vanish(m)
	twice := Vanish(once)
	assert.True(t, value.Equal(once, twice))
}

func TestVanishKeepsEmptyContainers(t *testing.T) {
	in := value.List{value.List{value.Absent{}}, value.NewMap()}
	got := Vanish(in).(value.List)
	assert.Equal(t, value.List{value.List{}, value.NewMap()}, got)
}
